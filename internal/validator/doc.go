/*
Package validator turns raw field input into either a formatted value or a
rejection message.

A Validator is a fixed pipeline of rules parameterised by Specs. Three
system rules always run first, in this order:

  - default:   an unset Input is replaced by the `default` spec, or nil.
  - trim:      strings are trimmed when `trim` is true (the default).
  - emptyable: nil and "" are "empty". Empty input fails with
    "cannot be empty" unless `emptyable` is true, in which case it is
    normalised to nil.

Empty values skip the normal rules and validate as nil. Otherwise the
family's ordered rules run first, followed by every other rule of the
family in name order. The first rejection stops the pipeline.

Every rule receives a *Call and must return exactly one of c.Valid(),
c.ValidAs(v) or c.Invalid(msg). Settling a Call twice, or returning a
Result that was not produced by the rule's own Call, panics with
ErrMalformedRule: it is a defect in the rule, not a user error.

Four families are provided: Text, Number, Money and Bool. Validators are
immutable; Copy derives a new one with merged specs.
*/
package validator
