package form

import (
	"github.com/google/uuid"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/metrics"
	"github.com/specialistvlad/formgrid/internal/validator"
)

// submit calls the submit handler. Pending validations are forced first;
// in-flight business rules are cancelled and their values accepted.
func (f *Form) submit(previous map[string]any, auto bool) {
	if f.config.OnSubmit == nil || f.state.Status == FormInvalid {
		return
	}
	f.cancelSubmit()

	if f.state.Status != FormValid {
		f.forceValidation()
		if f.state.Status == FormInvalid {
			metrics.Submission(metrics.SubmitAborted)
			f.logger.Debug("Submit aborted, form is invalid.")
			return
		}
	}

	st := f.state
	st.Submitting = true
	f.setState("submit", st)

	sub := Submission{
		ID:       uuid.NewString(),
		Form:     f.name,
		Values:   f.extractValues(false),
		Auto:     auto,
		Previous: previous,
	}
	metrics.Submission(metrics.SubmitStarted)
	f.logger.Info("Submitting form.", "submission", sub.ID, "auto", auto)

	out := f.config.OnSubmit(f.ctx, sub)
	if out.pending == nil {
		f.submitted(sub.ID, out.results)
		return
	}
	if results, err, ok := out.pending.Result(); ok {
		f.settleSubmit(sub.ID, results, err)
		return
	}

	pending := out.pending
	f.submitFuture = pending
	attrs := []any{"submission", sub.ID}
	settle := func(results []FieldResult, err error) {
		f.run("submitSettled", attrs, func() {
			if f.submitFuture != pending {
				return
			}
			f.submitFuture = nil
			f.settleSubmit(sub.ID, results, err)
		})
	}
	pending.Then(func(results []FieldResult) { settle(results, nil) }, func(err error) { settle(nil, err) })
}

func (f *Form) forceValidation() {
	f.forcing = true
	defer func() { f.forcing = false }()

	var stale []fieldpath.Path
	f.state.Fields.Walk(func(p fieldpath.Path, fs FieldState) bool {
		if fs.Status == StatusToBeValid {
			stale = append(stale, p)
		}
		return true
	})
	for _, p := range f.graph.Dependents(stale, true) {
		if f.hasField(p) {
			f.validate(p, true)
		}
	}
	if f.state.Status == FormInvalid {
		return
	}

	f.fields.Walk(func(p fieldpath.Path, fi *field) bool {
		if fi.pending != nil {
			v := fi.validatingValue
			f.cancelBizRule(p)
			f.validated(p, validator.Result{Valid: true, Value: v})
		}
		return true
	})
}

func (f *Form) settleSubmit(id string, results []FieldResult, err error) {
	if err != nil {
		st := f.state
		st.Submitting = false
		f.setState("submitFailed", st)
		metrics.Submission(metrics.SubmitRejected)
		f.logger.Warn("Submit handler failed.", "submission", id, "error", err)
		return
	}
	f.submitted(id, results)
}

// submitted ends the submission and applies per-field results.
func (f *Form) submitted(id string, results []FieldResult) {
	st := f.state
	st.Submitting = false
	f.setState("submitted", st)
	metrics.Submission(metrics.SubmitSucceeded)
	f.logger.Info("Form submitted.", "submission", id, "results", len(results))

	for _, r := range results {
		if !f.hasField(r.Path) {
			f.logger.Warn("Submit result for unknown field ignored.", "submission", id, "path", r.Path.String())
			continue
		}
		f.validated(r.Path, r.Result)
	}
}

func (f *Form) cancelSubmit() {
	if f.submitFuture == nil {
		return
	}
	f.submitFuture.Cancel()
	f.submitFuture = nil
	st := f.state
	st.Submitting = false
	f.setState("cancelSubmit", st)
	metrics.Submission(metrics.SubmitCancelled)
	f.logger.Debug("Pending submission cancelled.")
}

// submitIfValid auto-submits a valid form whose committed values changed
// since the last automatic submission.
func (f *Form) submitIfValid() {
	if !f.config.SubmitWhenValid || f.forcing || f.state.Status != FormValid {
		return
	}
	values := f.extractValues(false)
	if f.hasLatestValid && sameValue(values, f.latestValidValues) {
		return
	}
	previous := f.latestValidValues
	f.latestValidValues, f.hasLatestValid = values, true
	f.submit(previous, true)
}
