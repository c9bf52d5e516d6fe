/*
Package form is the form state machine: per-field validation lifecycle,
cross-field dependency propagation, aggregate status and submission.

# Model

A Form owns a set of fields laid out in a scope tree. Each field has an
immutable FieldConfig and a persisted FieldState:

	TO_BE_VALID -> VALIDATING -> VALID | INVALID

A new input moves a field back to TO_BE_VALID. Validation runs the field's
validator and, when that passes, its optional business rule, which may
settle synchronously or hand back a cancellable future. The form's
aggregate status rolls field statuses up into VALID, INVALID or
TO_BE_CONFIRM.

Persisted state (FormState) lives in a statestore.Store keyed by form name,
so a destroyed form can be recreated from the same state with fresh
configuration. Transient machinery (timers, in-flight futures) lives only
in the Form.

# Concurrency

The engine is a single logical thread. A Registry owns one mutex, and every
entry point (public actions, debounce timers firing, futures settling)
holds it for its whole duration, inside one store batch. Continuations of
asynchronous work re-check that they are still current before touching
state, so a superseded validation or submission never commits.

Business rules and submit handlers are called with that mutex held. They
must return their result (or a future) rather than call back into the form
on the same goroutine. The OnChange callback runs after the mutex is
released.
*/
package form
