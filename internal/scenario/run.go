package scenario

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"time"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
)

const settlePoll = 10 * time.Millisecond

// Clock moves time forward for "advance" steps. A nil Clock sleeps.
type Clock interface {
	Advance(d time.Duration)
}

// Report is the outcome of a run.
type Report struct {
	Form     string    `yaml:"form" json:"form"`
	Steps    int       `yaml:"steps" json:"steps"`
	Failures []string  `yaml:"failures,omitempty" json:"failures,omitempty"`
	View     form.View `yaml:"view" json:"view"`
}

// Run plays the script against f. Failed expectations do not stop the run;
// they are collected in the report and returned joined as the error. Any
// other error aborts the run.
func Run(ctx context.Context, f *form.Form, clock Clock, s *Script) (*Report, error) {
	if s.Form != f.Name() {
		return nil, fmt.Errorf("scenario targets form %q, got %q", s.Form, f.Name())
	}
	logger := ctxlog.FromContext(ctx).With("form", f.Name())
	report := &Report{Form: f.Name()}

	var failures []error
	for i, step := range s.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		kind, err := step.kind()
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		logger.Debug("Running scenario step.", "step", i+1, "action", kind)

		errs, err := apply(ctx, f, clock, step)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, kind, err)
		}
		for _, e := range errs {
			failures = append(failures, fmt.Errorf("step %d: %w", i+1, e))
		}
		report.Steps++
	}

	report.View = f.View()
	for _, e := range failures {
		report.Failures = append(report.Failures, e.Error())
	}
	if len(failures) > 0 {
		logger.Warn("Scenario expectations failed.", "count", len(failures))
	}
	return report, errors.Join(failures...)
}

func apply(ctx context.Context, f *form.Form, clock Clock, step Step) ([]error, error) {
	switch {
	case step.Set != nil:
		p, err := fieldPath(f, step.Set.Path)
		if err != nil {
			return nil, err
		}
		f.SetValue(p, normalize(step.Set.Value))
	case step.Focus != "":
		p, err := fieldPath(f, step.Focus)
		if err != nil {
			return nil, err
		}
		f.Focus(p)
	case step.Change != nil:
		p, err := fieldPath(f, step.Change.Path)
		if err != nil {
			return nil, err
		}
		f.Change(p, normalize(step.Change.Value))
	case step.Blur != "":
		p, err := fieldPath(f, step.Blur)
		if err != nil {
			return nil, err
		}
		f.Blur(p)
	case step.KeyPress != nil:
		p, err := fieldPath(f, step.KeyPress.Path)
		if err != nil {
			return nil, err
		}
		f.KeyPress(p, step.KeyPress.Key)
	case step.Validate != "":
		p, err := fieldPath(f, step.Validate)
		if err != nil {
			return nil, err
		}
		f.Validate(p)
	case step.Advance != 0:
		return nil, advance(ctx, clock, time.Duration(step.Advance))
	case step.Settle != 0:
		if !settle(ctx, f, time.Duration(step.Settle)) {
			return []error{fmt.Errorf("form did not settle within %s", time.Duration(step.Settle))}, nil
		}
	case step.Submit:
		f.Submit()
	case step.Expect != nil:
		return check(f.View(), step.Expect), nil
	}
	return nil, nil
}

func fieldPath(f *form.Form, raw string) (fieldpath.Path, error) {
	p, err := fieldpath.Parse(raw)
	if err != nil {
		return nil, err
	}
	if _, ok := f.Field(p); !ok {
		return nil, fmt.Errorf("%w: %s", form.ErrUnknownField, p)
	}
	return p, nil
}

func advance(ctx context.Context, clock Clock, d time.Duration) error {
	if clock != nil {
		clock.Advance(d)
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// settle waits until no field is validating and no submission is in
// flight.
func settle(ctx context.Context, f *form.Form, timeout time.Duration) bool {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()
	tick := time.NewTicker(settlePoll)
	defer tick.Stop()

	for {
		if settled(f.View()) {
			return true
		}
		select {
		case <-tick.C:
		case <-deadline.C:
			return settled(f.View())
		case <-ctx.Done():
			return false
		}
	}
}

func settled(v form.View) bool {
	if v.Submitting {
		return false
	}
	for _, fv := range v.Fields {
		if fv.Status == form.StatusValidating {
			return false
		}
	}
	return true
}

func check(v form.View, want *Expectation) []error {
	var errs []error
	if want.Status != nil && v.Status != *want.Status {
		errs = append(errs, fmt.Errorf("form status is %q, want %q", v.Status, *want.Status))
	}
	if want.Submitting != nil && v.Submitting != *want.Submitting {
		errs = append(errs, fmt.Errorf("submitting is %t, want %t", v.Submitting, *want.Submitting))
	}

	byPath := make(map[string]form.FieldView, len(v.Fields))
	for _, fv := range v.Fields {
		byPath[fv.Path] = fv
	}
	paths := make([]string, 0, len(want.Fields))
	for p := range want.Fields {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	for _, p := range paths {
		fv, ok := byPath[p]
		if !ok {
			errs = append(errs, fmt.Errorf("field %s does not exist", p))
			continue
		}
		errs = append(errs, checkField(fv, want.Fields[p])...)
	}
	return errs
}

func checkField(fv form.FieldView, want FieldExpectation) []error {
	var errs []error
	if want.Status != nil && fv.Status != *want.Status {
		errs = append(errs, fmt.Errorf("field %s status is %q, want %q", fv.Path, fv.Status, *want.Status))
	}
	if want.Value != nil && !reflect.DeepEqual(fv.Value, normalize(want.Value)) {
		errs = append(errs, fmt.Errorf("field %s value is %#v, want %#v", fv.Path, fv.Value, normalize(want.Value)))
	}
	if want.Message != nil && fv.Message != *want.Message {
		errs = append(errs, fmt.Errorf("field %s message is %q, want %q", fv.Path, fv.Message, *want.Message))
	}
	if want.HasFocus != nil && fv.HasFocus != *want.HasFocus {
		errs = append(errs, fmt.Errorf("field %s hasFocus is %t, want %t", fv.Path, fv.HasFocus, *want.HasFocus))
	}
	return errs
}

// normalize maps YAML integers onto the int64 the validators produce.
func normalize(v any) any {
	switch x := v.(type) {
	case int:
		return int64(x)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = normalize(e)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(x))
		for k, e := range x {
			out[k] = normalize(e)
		}
		return out
	}
	return v
}
