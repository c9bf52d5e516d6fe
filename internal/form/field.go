package form

import (
	"time"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/metrics"
	"github.com/specialistvlad/formgrid/internal/timerhost"
	"github.com/specialistvlad/formgrid/internal/validator"
)

const bizRuleFailedMessage = "validation failed"

func (f *Form) setValue(path fieldpath.Path, v any) {
	hasFocus := f.fieldState(path).HasFocus
	f.cancelSubmit()
	f.toBeValidated(path, validator.Of(v), false)
	if !hasFocus {
		f.validate(path, false)
	}
}

// toBeValidated marks path stale, optionally recording a new input, and
// invalidates its dependents.
func (f *Form) toBeValidated(path fieldpath.Path, in validator.Input, byDepends bool) {
	f.cancelBizRule(path)
	f.updateField("toBeValidated", path, func(fs FieldState) FieldState {
		fs.Status = StatusToBeValid
		fs.Message = ""
		if in.Set {
			fs.PropsValue = toProps(in.Value)
			fs.EverHadValue = true
		}
		return fs
	})
	if byDepends {
		return
	}
	for _, dep := range f.graph.Dependents([]fieldpath.Path{path}, false) {
		f.toBeValidated(dep, validator.Unset(), true)
	}
}

// validate runs the field's validator against its widget value, then its
// business rule. Direct calls re-validate dependents that have something to
// validate.
func (f *Form) validate(path fieldpath.Path, byDepends bool) {
	fi := f.field(path)
	f.cancelSubmit()
	f.clearValidateTimer(fi)
	f.cancelBizRule(path)

	res := fi.config.validator().Validate(validator.Of(f.fieldState(path).PropsValue))
	if res.Valid && fi.config.BizRule != nil {
		f.callBizRule(fi, res.Value)
	} else {
		f.validated(path, res)
	}

	if !byDepends {
		for _, dep := range f.graph.Dependents([]fieldpath.Path{path}, false) {
			ds := f.fieldState(dep)
			if !ds.HasValidValue && ds.PropsValue == "" && ds.Status == StatusToBeValid {
				continue
			}
			f.validate(dep, true)
		}
	}
	f.submitIfValid()
}

func (f *Form) callBizRule(fi *field, value any) {
	path := fi.path
	call := validator.NewCall(value)
	out := fi.config.BizRule(f.ctx, BizRequest{Path: path, Value: value, Call: call, State: f.state})

	switch {
	case out.settled:
		f.validated(path, call.Check(out.result))
		return
	case out.pending == nil:
		panic(validator.ErrMalformedRule)
	}

	f.updateField("bizRuleValidating", path, func(fs FieldState) FieldState {
		fs.Status = StatusValidating
		return fs
	})
	pending := out.pending
	fi.pending = pending
	fi.validatingValue = value
	started := time.Now()
	attrs := []any{"path", path.String()}

	current := func() bool {
		cur, ok := f.fields.Get(path)
		return ok && cur == fi && fi.pending == pending
	}
	pending.Then(func(r validator.Result) {
		f.run("bizRuleSettled", attrs, func() {
			if !current() {
				return
			}
			fi.pending, fi.validatingValue = nil, nil
			metrics.BizRuleSettled(started)
			f.validated(path, call.Check(r))
			f.submitIfValid()
		})
	}, func(err error) {
		f.run("bizRuleFailed", attrs, func() {
			if !current() {
				return
			}
			fi.pending, fi.validatingValue = nil, nil
			metrics.BizRuleSettled(started)
			f.logger.Warn("Business rule failed.", "path", path.String(), "error", err)
			f.validated(path, validator.Result{Valid: false, Message: bizRuleFailedMessage})
		})
	})
}

// cancelBizRule drops an in-flight business rule; its result never lands.
func (f *Form) cancelBizRule(path fieldpath.Path) {
	fi := f.field(path)
	if fi.pending == nil {
		return
	}
	fi.pending.Cancel()
	fi.pending, fi.validatingValue = nil, nil
	f.updateField("cancelBizRule", path, func(fs FieldState) FieldState {
		fs.Status = StatusToBeValid
		return fs
	})
}

// validated commits a validation result. A failed result on an unfocused
// field with restoreValid reverts the widget to the last valid value.
func (f *Form) validated(path fieldpath.Path, res validator.Result) {
	fi := f.field(path)
	fs := f.fieldState(path)
	next := fs
	outcome := metrics.OutcomeInvalid

	switch {
	case res.Valid:
		next.Status = StatusValid
		next.LatestValidValue = res.Value
		next.HasValidValue = true
		next.Message = ""
		if !fs.HasFocus {
			next.PropsValue = toProps(res.Value)
		}
		outcome = metrics.OutcomeValid
	case f.canRestore(fi, fs):
		next.Status = StatusValid
		next.PropsValue = toProps(fs.LatestValidValue)
		next.Message = ""
		outcome = metrics.OutcomeRestored
	default:
		next.Status = StatusInvalid
		next.Message = res.Message
	}
	f.setFieldState("validated", path, next)
	metrics.Validation(outcome)
}

func (f *Form) canRestore(fi *field, fs FieldState) bool {
	return !fs.HasFocus &&
		fi.config.RestoreValid &&
		fs.HasValidValue &&
		!sameValue(toProps(fs.LatestValidValue), fs.PropsValue)
}

// blurred drops focus and re-projects the committed value into the widget.
func (f *Form) blurred(path fieldpath.Path) {
	fi := f.field(path)
	fs := f.fieldState(path)
	next := fs
	next.HasFocus = false
	switch fs.Status {
	case StatusValid:
		next.PropsValue = toProps(fs.LatestValidValue)
	case StatusInvalid:
		if f.canRestore(fi, next) {
			next.Status = StatusValid
			next.PropsValue = toProps(fs.LatestValidValue)
			next.Message = ""
		}
	}
	f.setFieldState("blurred", path, next)
}

func (f *Form) clearValidateTimer(fi *field) {
	if fi.timer == 0 {
		return
	}
	f.timers.Stop(fi.timer)
	fi.timer = 0
}

func (f *Form) scheduleValidation(fi *field, d time.Duration) {
	var handle timerhost.Handle
	handle = f.timers.After(d, func() {
		f.run("validateTimeout", []any{"path", fi.path.String()}, func() {
			if cur, ok := f.fields.Get(fi.path); !ok || cur != fi || fi.timer != handle {
				return
			}
			fi.timer = 0
			f.validate(fi.path, false)
		})
	})
	fi.timer = handle
}
