package validator

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

var numberSpecs = map[string]SpecFunc{
	"min":     normalizeInt,
	"max":     normalizeInt,
	"nonzero": normalizeBool,
}

// Number parses integers: leading whitespace, an optional sign and a run of
// digits. Trailing garbage is ignored, so "12abc" is 12 and "3.9" is 3.
var Number = register(Define(KindNumber,
	[]string{"type"},
	map[string]RuleFunc{
		"type":    numberType,
		"range":   rangeRule(formatInt),
		"nonzero": nonzeroRule,
	},
	numberSpecs,
	Specs{"nonzero": false},
))

// Money parses decimal amounts into thousandths of the currency unit.
// Numeric input is taken as already being in thousandths.
var Money = register(Define(KindMoney,
	[]string{"type"},
	map[string]RuleFunc{
		"type":    moneyType,
		"range":   rangeRule(FormatMoney),
		"nonzero": nonzeroRule,
	},
	numberSpecs,
	Specs{"nonzero": false},
))

var intPrefix = regexp.MustCompile(`^[+-]?\d+`)

func numberType(_ Specs, c *Call, value any) Result {
	if n, ok := parseIntPrefix(value); ok {
		return c.ValidAs(n)
	}
	return c.Invalid("must be a valid integer")
}

func parseIntPrefix(value any) (int64, bool) {
	switch v := value.(type) {
	case string:
		m := intPrefix.FindString(strings.TrimLeft(v, " \t\n\r\f\v"))
		if m == "" {
			return 0, false
		}
		n, err := strconv.ParseInt(m, 10, 64)
		return n, err == nil
	case float32:
		return floatToInt64(float64(v), false)
	case float64:
		return floatToInt64(v, false)
	default:
		return toInt64(value)
	}
}

func moneyType(_ Specs, c *Call, value any) Result {
	switch v := value.(type) {
	case string:
		if n, ok := ParseMoney(v); ok {
			return c.ValidAs(n)
		}
	case float32, float64:
		f, _ := v.(float64)
		if f32, ok := v.(float32); ok {
			f = float64(f32)
		}
		if !math.IsNaN(f) && !math.IsInf(f, 0) && math.Abs(f) < math.MaxInt64 {
			return c.ValidAs(int64(math.Round(f)))
		}
	default:
		if n, ok := toInt64(value); ok {
			return c.ValidAs(n)
		}
	}
	return c.Invalid("must be a valid number")
}

func rangeRule(format func(int64) string) RuleFunc {
	return func(specs Specs, c *Call, value any) Result {
		n := value.(int64)
		lo, hasMin := specs["min"].(int64)
		hi, hasMax := specs["max"].(int64)

		if (hasMin && n < lo) || (hasMax && n > hi) {
			switch {
			case hasMin && hasMax:
				return c.Invalid(fmt.Sprintf("must be between %s and %s", format(lo), format(hi)))
			case hasMin:
				return c.Invalid(fmt.Sprintf("must not be less than %s", format(lo)))
			default:
				return c.Invalid(fmt.Sprintf("must not be greater than %s", format(hi)))
			}
		}
		return c.Valid()
	}
}

func nonzeroRule(specs Specs, c *Call, value any) Result {
	if specs["nonzero"] == true && value.(int64) == 0 {
		return c.Invalid("must not be 0")
	}
	return c.Valid()
}

func formatInt(n int64) string {
	return strconv.FormatInt(n, 10)
}
