package validator

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedRule marks a rule that broke the continuation contract.
	ErrMalformedRule = errors.New("malformed rule")
	// ErrUnknownSpec marks a spec key or value a family does not understand.
	ErrUnknownSpec = errors.New("unknown spec")
)

// Input is a raw field value that may be unset. Unset input is replaced by
// the validator's default; a set nil value is an explicit empty value.
type Input struct {
	Set   bool
	Value any
}

// Unset returns an Input that carries no value.
func Unset() Input { return Input{} }

// Of wraps a concrete value, nil included.
func Of(v any) Input { return Input{Set: true, Value: v} }

// Result is the outcome of a validation.
type Result struct {
	Valid   bool
	Value   any
	Message string

	call *Call
}

// Call is the continuation handed to a rule. Exactly one of its methods must
// be called, once.
type Call struct {
	value   any
	settled bool
}

// NewCall prepares a continuation for value. Business rules use the same
// contract as validator rules.
func NewCall(value any) *Call {
	return &Call{value: value}
}

// Valid accepts the current value unchanged.
func (c *Call) Valid() Result {
	return c.settle(Result{Valid: true, Value: c.value})
}

// ValidAs accepts and replaces the value passed to the next rule.
func (c *Call) ValidAs(v any) Result {
	return c.settle(Result{Valid: true, Value: v})
}

// Invalid rejects the value with a user facing message.
func (c *Call) Invalid(message string) Result {
	return c.settle(Result{Valid: false, Message: message})
}

// Settled reports whether one of the continuations has been called.
func (c *Call) Settled() bool { return c.settled }

// Check returns r if it was produced by this Call and panics otherwise.
func (c *Call) Check(r Result) Result {
	if !c.settled || r.call != c {
		panic(fmt.Errorf("%w: result was not produced by the rule's continuation", ErrMalformedRule))
	}
	return r
}

func (c *Call) settle(r Result) Result {
	if c.settled {
		panic(fmt.Errorf("%w: continuation called more than once", ErrMalformedRule))
	}
	c.settled = true
	r.call = c
	return r
}
