package validator

// Bool coerces input to its truthiness. Any non-empty string is true,
// including "false" and "no".
var Bool = register(Define(KindBool,
	nil,
	map[string]RuleFunc{"type": boolType},
	nil,
	nil,
))

func boolType(_ Specs, c *Call, value any) Result {
	return c.ValidAs(truthy(value))
}

func truthy(v any) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case string:
		return x != ""
	case float32:
		return x != 0 && x == x
	case float64:
		return x != 0 && x == x
	}
	if n, ok := toInt64(v); ok {
		return n != 0
	}
	return true
}
