package validator

import (
	"fmt"
	"math"
	"regexp"
)

// Pattern is a normalised regex spec with its failure message.
type Pattern struct {
	Regexp  *regexp.Regexp
	Message string
}

const defaultPatternMessage = "invalid format"

func normalizeBool(raw any) (any, error) {
	b, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("expected bool, got %T", raw)
	}
	return b, nil
}

func normalizeInt(raw any) (any, error) {
	n, ok := toInt64(raw)
	if !ok {
		return nil, fmt.Errorf("expected integer, got %T(%v)", raw, raw)
	}
	return n, nil
}

func normalizeStrings(raw any) (any, error) {
	switch v := raw.(type) {
	case []string:
		return v, nil
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, fmt.Errorf("expected list of strings, found %T", item)
			}
			out = append(out, s)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("expected list of strings, got %T", raw)
	}
}

// normalizePattern accepts a pattern string, a compiled *regexp.Regexp, a
// Pattern, or a two element [pattern, message] list.
func normalizePattern(raw any) (any, error) {
	switch v := raw.(type) {
	case Pattern:
		return v, nil
	case *regexp.Regexp:
		return Pattern{Regexp: v, Message: defaultPatternMessage}, nil
	case string:
		re, err := regexp.Compile(v)
		if err != nil {
			return nil, err
		}
		return Pattern{Regexp: re, Message: defaultPatternMessage}, nil
	case []string:
		if len(v) == 0 {
			return nil, fmt.Errorf("empty pattern list")
		}
		return patternPair(v[0], v[1:]...)
	case []any:
		strs, err := normalizeStrings(v)
		if err != nil {
			return nil, err
		}
		pair := strs.([]string)
		if len(pair) == 0 {
			return nil, fmt.Errorf("empty pattern list")
		}
		return patternPair(pair[0], pair[1:]...)
	default:
		return nil, fmt.Errorf("expected pattern, got %T", raw)
	}
}

func patternPair(expr string, rest ...string) (any, error) {
	if len(rest) != 1 {
		return nil, fmt.Errorf("pattern list must be [pattern, message]")
	}
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, err
	}
	return Pattern{Regexp: re, Message: rest[0]}, nil
}

// toInt64 accepts any Go integer, and floats that hold an integral value.
func toInt64(raw any) (int64, bool) {
	switch v := raw.(type) {
	case int:
		return int64(v), true
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint:
		return int64(v), v <= math.MaxInt64
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), v <= math.MaxInt64
	case float32:
		return floatToInt64(float64(v), true)
	case float64:
		return floatToInt64(v, true)
	}
	return 0, false
}

// floatToInt64 converts f, requiring an integral value when exact is set and
// truncating toward zero otherwise.
func floatToInt64(f float64, exact bool) (int64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	if exact && f != math.Trunc(f) {
		return 0, false
	}
	t := math.Trunc(f)
	if t < math.MinInt64 || t >= math.MaxInt64 {
		return 0, false
	}
	return int64(t), true
}
