package form

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/future"
	"github.com/specialistvlad/formgrid/internal/scope"
	"github.com/specialistvlad/formgrid/internal/validator"
)

// ErrUnknownField is the panic value (wrapped) for operations on a path the
// form does not have.
var ErrUnknownField = errors.New("unknown field")

// Status is the lifecycle state of one field.
type Status string

const (
	StatusValid      Status = "valid"
	StatusInvalid    Status = "invalid"
	StatusToBeValid  Status = "toBeValid"
	StatusValidating Status = "validating"
)

// FormStatus is the roll-up of all field statuses.
type FormStatus string

const (
	FormValid       FormStatus = "valid"
	FormInvalid     FormStatus = "invalid"
	FormToBeConfirm FormStatus = "toBeConfirm"
)

// FieldState is the persisted state of a field.
type FieldState struct {
	// LatestValidValue is the last committed value. It is meaningful only
	// when HasValidValue is set; nil is a valid committed empty value.
	LatestValidValue any
	HasValidValue    bool

	// PropsValue is what the input widget shows: the raw input while the
	// user edits, the committed value otherwise. Empty is "".
	PropsValue any

	Status       Status
	Message      string
	HasFocus     bool
	EverHadValue bool
}

// FormState is the persisted state of a form.
type FormState struct {
	Fields     *scope.Branch[FieldState]
	Status     FormStatus
	Submitting bool
}

func newFormState() FormState {
	return FormState{Fields: scope.NewBranch[FieldState](), Status: FormValid}
}

// Delay is how long a focused field waits after an edit before it
// validates. The zero Delay is Intime.
type Delay struct {
	d   time.Duration
	set bool
}

var (
	// Lazy never validates on edit; only blur, Enter or submit do.
	Lazy = Delay{d: -1, set: true}
	// Realtime validates on every edit.
	Realtime = Delay{d: 0, set: true}
	// Intime waits 200ms.
	Intime = Delay{d: 200 * time.Millisecond, set: true}
	// Peace waits 700ms.
	Peace = Delay{d: 700 * time.Millisecond, set: true}
)

var delayKeywords = map[string]Delay{
	"lazy":     Lazy,
	"realtime": Realtime,
	"intime":   Intime,
	"peace":    Peace,
}

// After is a custom debounce. Negative durations mean Lazy.
func After(d time.Duration) Delay {
	if d < 0 {
		return Lazy
	}
	return Delay{d: d, set: true}
}

// ParseDelay resolves a delay keyword.
func ParseDelay(keyword string) (Delay, error) {
	d, ok := delayKeywords[keyword]
	if !ok {
		return Delay{}, fmt.Errorf("unknown validate delay keyword %q", keyword)
	}
	return d, nil
}

// Duration returns the effective delay; negative means lazy.
func (d Delay) Duration() time.Duration {
	if !d.set {
		return Intime.d
	}
	return d.d
}

// FieldConfig is the immutable configuration of one field. Configuration
// of an existing path never changes; fields are only added or removed.
type FieldConfig struct {
	// Default seeds a new field when no init value exists.
	Default validator.Input
	// Validator defaults to a Text validator.
	Validator     *validator.Validator
	BizRule       BizRule
	ValidateDelay Delay
	RestoreValid  bool
	Depends       []depgraph.Dependency
}

var defaultValidator = validator.Text.New(nil)

func (c FieldConfig) validator() *validator.Validator {
	if c.Validator == nil {
		return defaultValidator
	}
	return c.Validator
}

// Config is supplied on every use of a form name.
type Config struct {
	Fields *scope.Branch[FieldConfig]
	// InitValues seeds fields as they are added. Paths absent here fall
	// back to the field default.
	InitValues *scope.Branch[any]
	// OnChange fires after user edits change any widget value; never on
	// programmatic SetValue.
	OnChange        func()
	OnSubmit        SubmitFunc
	SubmitWhenValid bool
}

// BizRequest is handed to a business rule.
type BizRequest struct {
	Path fieldpath.Path
	// Value is the validator's formatted value.
	Value any
	// Call must settle the rule: c.Valid(), c.ValidAs(v) or c.Invalid(msg).
	// Asynchronous rules settle it inside their future.
	Call *validator.Call
	// State is a snapshot of the form at call time.
	State FormState
}

// BizRule is a secondary, possibly asynchronous validation step run only
// after the field's validator passes.
type BizRule func(ctx context.Context, req BizRequest) Outcome

// Outcome is a business rule result: settled now, or later by a future.
type Outcome struct {
	result  validator.Result
	pending *future.Future[validator.Result]
	settled bool
}

// Now wraps a synchronous result.
func Now(r validator.Result) Outcome {
	return Outcome{result: r, settled: true}
}

// Later wraps a result that will be delivered by f. Cancelling f must abort
// the underlying work.
func Later(f *future.Future[validator.Result]) Outcome {
	return Outcome{pending: f}
}

// Result returns the synchronous result, if the rule settled immediately.
func (o Outcome) Result() (validator.Result, bool) {
	return o.result, o.settled
}

// Future returns the pending result, if any.
func (o Outcome) Future() *future.Future[validator.Result] {
	return o.pending
}

// FieldResult is one entry of a submit handler's response, applied to the
// field as a validation result.
type FieldResult struct {
	Path   fieldpath.Path
	Result validator.Result
}

// FieldError marks path invalid with message.
func FieldError(path fieldpath.Path, message string) FieldResult {
	return FieldResult{Path: path, Result: validator.Result{Valid: false, Message: message}}
}

// FieldValue commits v as path's valid value.
func FieldValue(path fieldpath.Path, v any) FieldResult {
	return FieldResult{Path: path, Result: validator.Result{Valid: true, Value: v}}
}

// Submission is what a submit handler receives.
type Submission struct {
	ID     string
	Form   string
	Values map[string]any
	// Auto is set when the submission was triggered by SubmitWhenValid.
	// Previous then holds the values of the previous automatic submission,
	// or nil for the first one.
	Auto     bool
	Previous map[string]any
}

// SubmitFunc handles a submission. The zero SubmitOutcome means success
// with nothing to apply.
type SubmitFunc func(ctx context.Context, sub Submission) SubmitOutcome

// SubmitOutcome is a submit handler result.
type SubmitOutcome struct {
	results []FieldResult
	pending *future.Future[[]FieldResult]
}

// SubmitNow returns field results to apply immediately.
func SubmitNow(results ...FieldResult) SubmitOutcome {
	return SubmitOutcome{results: results}
}

// SubmitLater returns results that f delivers. A rejected f still ends
// the submission.
func SubmitLater(f *future.Future[[]FieldResult]) SubmitOutcome {
	return SubmitOutcome{pending: f}
}

// Results returns the immediate field results.
func (o SubmitOutcome) Results() []FieldResult {
	return o.results
}

// Future returns the pending results, if any.
func (o SubmitOutcome) Future() *future.Future[[]FieldResult] {
	return o.pending
}

// PathValue is one entry of BatchSetValues.
type PathValue struct {
	Path  fieldpath.Path
	Value any
}

// Validate reports configuration mistakes that would otherwise panic when
// the form is built.
func (c Config) Validate() error {
	var errs []error
	c.Fields.Walk(func(p fieldpath.Path, fc FieldConfig) bool {
		for _, dep := range fc.Depends {
			switch {
			case dep.IsGroup() && dep.Group == "":
				errs = append(errs, fmt.Errorf("field %s: empty dependency group", p))
			case !dep.IsGroup() && len(dep.Path) == 0:
				errs = append(errs, fmt.Errorf("field %s: empty dependency path", p))
			case !dep.IsGroup() && dep.Path.Equal(p):
				errs = append(errs, fmt.Errorf("field %s: depends on itself", p))
			}
		}
		return true
	})
	return errors.Join(errs...)
}
