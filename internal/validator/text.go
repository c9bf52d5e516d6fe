package validator

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	playground "github.com/go-playground/validator/v10"
)

// formats backs the `format` spec with go-playground/validator tags such as
// "email", "url" or "uuid4".
var formats = playground.New()

// Text accepts strings, optionally restricted by choices, patterns, length
// and format.
var Text = register(Define(KindText,
	[]string{"type", "regex"},
	map[string]RuleFunc{
		"type":    textType,
		"choices": textChoices,
		"regex":   textRegex,
		"len":     textLen,
		"format":  textFormat,
	},
	map[string]SpecFunc{
		"choices":   normalizeStrings,
		"regex":     normalizePattern,
		"not_regex": normalizePattern,
		"min_len":   normalizeInt,
		"max_len":   normalizeInt,
		"format":    normalizeFormat,
	},
	nil,
))

func textType(_ Specs, c *Call, value any) Result {
	if _, ok := value.(string); !ok {
		return c.Invalid("must be text")
	}
	return c.Valid()
}

func textChoices(specs Specs, c *Call, value any) Result {
	choices, ok := specs["choices"].([]string)
	if ok && !slices.Contains(choices, value.(string)) {
		return c.Invalid(fmt.Sprintf("must be one of %s", strings.Join(choices, ", ")))
	}
	return c.Valid()
}

func textRegex(specs Specs, c *Call, value any) Result {
	s := value.(string)
	if p, ok := specs["regex"].(Pattern); ok && !p.Regexp.MatchString(s) {
		return c.Invalid(p.Message)
	}
	if p, ok := specs["not_regex"].(Pattern); ok && p.Regexp.MatchString(s) {
		return c.Invalid(p.Message)
	}
	return c.Valid()
}

// textLen counts runes. A min_len of 1 is redundant: empty strings never
// reach normal rules.
func textLen(specs Specs, c *Call, value any) Result {
	n := int64(utf8.RuneCountInString(value.(string)))
	lo, hasMin := specs["min_len"].(int64)
	hi, hasMax := specs["max_len"].(int64)

	if (hasMin && n < lo) || (hasMax && n > hi) {
		switch {
		case hasMin && hasMax && lo != hi:
			return c.Invalid(fmt.Sprintf("must be between %d and %d characters", lo, hi))
		case hasMin && hasMax:
			return c.Invalid(fmt.Sprintf("must be exactly %d characters", lo))
		case hasMin:
			return c.Invalid(fmt.Sprintf("must be at least %d characters", lo))
		default:
			return c.Invalid(fmt.Sprintf("must be at most %d characters", hi))
		}
	}
	return c.Valid()
}

func textFormat(specs Specs, c *Call, value any) Result {
	tag, ok := specs["format"].(string)
	if ok && formats.Var(value, tag) != nil {
		return c.Invalid(defaultPatternMessage)
	}
	return c.Valid()
}

// normalizeFormat rejects tags go-playground/validator does not know; Var
// panics on those.
func normalizeFormat(raw any) (tag any, err error) {
	s, ok := raw.(string)
	if !ok || s == "" {
		return nil, fmt.Errorf("expected validation tag, got %T(%v)", raw, raw)
	}
	defer func() {
		if r := recover(); r != nil {
			tag, err = nil, fmt.Errorf("unsupported format %q", s)
		}
	}()
	_ = formats.Var("", s)
	return s, nil
}
