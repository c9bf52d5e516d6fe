package validator

import (
	"fmt"
	"maps"
	"slices"
	"sort"
	"strings"
)

// Kind names a validator family in declarative configuration.
type Kind string

const (
	KindText   Kind = "text"
	KindNumber Kind = "number"
	KindMoney  Kind = "money"
	KindBool   Kind = "bool"
)

// Specs parameterise a validator. Keys are family specific.
type Specs map[string]any

// RuleFunc is a single normal rule. It reads its own spec keys from specs.
type RuleFunc func(specs Specs, c *Call, value any) Result

// SpecFunc checks a raw spec value and converts it into the form rules expect.
type SpecFunc func(raw any) (any, error)

// Family is a validator type: its rules, their order and the specs it accepts.
type Family struct {
	kind     Kind
	defaults Specs
	order    []string
	rules    map[string]RuleFunc
	specs    map[string]SpecFunc
}

var systemSpecs = map[string]SpecFunc{
	"default":   func(raw any) (any, error) { return raw, nil },
	"trim":      normalizeBool,
	"emptyable": normalizeBool,
}

var systemDefaults = Specs{"trim": true, "emptyable": false}

// Define assembles a family. order lists rules that run first; it panics on
// duplicate or unknown entries.
func Define(kind Kind, order []string, rules map[string]RuleFunc, specs map[string]SpecFunc, defaults Specs) *Family {
	seen := map[string]struct{}{}
	for _, name := range order {
		if _, dup := seen[name]; dup {
			panic(fmt.Sprintf("validator %s: duplicate rule %q in order", kind, name))
		}
		if _, ok := rules[name]; !ok {
			panic(fmt.Sprintf("validator %s: ordered rule %q is not defined", kind, name))
		}
		seen[name] = struct{}{}
	}

	f := &Family{
		kind:     kind,
		defaults: Specs{},
		rules:    rules,
		specs:    map[string]SpecFunc{},
	}
	maps.Copy(f.specs, systemSpecs)
	maps.Copy(f.specs, specs)
	maps.Copy(f.defaults, systemDefaults)
	maps.Copy(f.defaults, defaults)

	f.order = slices.Clone(order)
	var rest []string
	for name := range rules {
		if _, ok := seen[name]; !ok {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	f.order = append(f.order, rest...)
	return f
}

// Kind returns the family name.
func (f *Family) Kind() Kind { return f.kind }

// Build creates a validator, reporting unknown or malformed specs.
func (f *Family) Build(specs Specs) (*Validator, error) {
	merged := Specs{}
	maps.Copy(merged, f.defaults)
	maps.Copy(merged, specs)

	var errs []string
	for _, key := range slices.Sorted(maps.Keys(merged)) {
		norm, ok := f.specs[key]
		if !ok {
			errs = append(errs, fmt.Sprintf("%q is not a %s spec", key, f.kind))
			continue
		}
		v, err := norm(merged[key])
		if err != nil {
			errs = append(errs, fmt.Sprintf("%q: %v", key, err))
			continue
		}
		merged[key] = v
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrUnknownSpec, strings.Join(errs, "; "))
	}
	return &Validator{family: f, specs: merged}, nil
}

// New is Build for specs written in code. Bad specs panic.
func (f *Family) New(specs Specs) *Validator {
	v, err := f.Build(specs)
	if err != nil {
		panic(err)
	}
	return v
}

// Validator is an immutable, configured rule pipeline.
type Validator struct {
	family *Family
	specs  Specs
}

// Kind returns the family this validator belongs to.
func (v *Validator) Kind() Kind { return v.family.kind }

// Specs returns a copy of the effective specs, defaults included.
func (v *Validator) Specs() Specs { return maps.Clone(v.specs) }

// Copy derives a validator with overrides merged in and removals dropped.
// The receiver is left untouched.
func (v *Validator) Copy(overrides Specs, removals ...string) *Validator {
	specs := maps.Clone(v.specs)
	maps.Copy(specs, overrides)
	for _, key := range removals {
		delete(specs, key)
	}
	return v.family.New(specs)
}

// Validate runs the pipeline.
func (v *Validator) Validate(in Input) Result {
	res := v.run(systemRules, in)
	if !res.Valid || res.Value == nil {
		return res
	}
	for _, name := range v.family.order {
		res = callRule(v.family.rules[name], v.specs, res.Value)
		if !res.Valid {
			break
		}
	}
	return res
}

// ValidateValue is Validate(Of(value)).
func (v *Validator) ValidateValue(value any) Result {
	return v.Validate(Of(value))
}

type systemRule func(specs Specs, c *Call, in Input) Result

var systemRules = []systemRule{
	func(specs Specs, c *Call, in Input) Result {
		if in.Set {
			return c.Valid()
		}
		return c.ValidAs(specs["default"])
	},
	func(specs Specs, c *Call, in Input) Result {
		if s, ok := in.Value.(string); ok && specs["trim"] == true {
			return c.ValidAs(strings.TrimSpace(s))
		}
		return c.Valid()
	},
	func(specs Specs, c *Call, in Input) Result {
		if !isEmpty(in.Value) {
			return c.Valid()
		}
		if specs["emptyable"] != true {
			return c.Invalid("cannot be empty")
		}
		return c.ValidAs(nil)
	},
}

func (v *Validator) run(rules []systemRule, in Input) Result {
	var res Result
	for _, rule := range rules {
		c := NewCall(in.Value)
		res = c.Check(rule(v.specs, c, in))
		if !res.Valid {
			return res
		}
		in = Of(res.Value)
	}
	return res
}

func callRule(fn RuleFunc, specs Specs, value any) Result {
	c := NewCall(value)
	return c.Check(fn(specs, c, value))
}

func isEmpty(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && s == ""
}

var families = map[Kind]*Family{}

func register(f *Family) *Family {
	families[f.kind] = f
	return f
}

// Lookup finds a registered family by kind.
func Lookup(kind Kind) (*Family, bool) {
	f, ok := families[kind]
	return f, ok
}

// New builds a validator of the given kind.
func New(kind Kind, specs Specs) (*Validator, error) {
	f, ok := Lookup(kind)
	if !ok {
		return nil, fmt.Errorf("unknown validator kind %q", kind)
	}
	return f.Build(specs)
}
