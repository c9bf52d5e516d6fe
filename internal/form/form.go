package form

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/google/uuid"

	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/future"
	"github.com/specialistvlad/formgrid/internal/metrics"
	"github.com/specialistvlad/formgrid/internal/scope"
	"github.com/specialistvlad/formgrid/internal/timerhost"
	"github.com/specialistvlad/formgrid/internal/validator"
)

// Form is a live form instance. All methods are safe for concurrent use.
type Form struct {
	name   string
	id     string
	ctx    context.Context
	reg    *Registry
	logger *slog.Logger
	timers *timerhost.Host

	config Config
	state  FormState
	fields *scope.Branch[*field]
	graph  *depgraph.Graph

	submitFuture *future.Future[[]FieldResult]
	// suppresses auto-submit while submit forces pending validations
	forcing bool

	latestValidValues map[string]any
	hasLatestValid    bool
	latestPropsValues map[string]any
	hasLatestProps    bool

	destroyed bool
	post      []func()
	act       actions
}

// field is the transient part of a field: its config plus in-flight work.
type field struct {
	path   fieldpath.Path
	config FieldConfig

	pending         *future.Future[validator.Result]
	validatingValue any
	timer           timerhost.Handle

	handlers Handlers
}

// actions are the serialized entry points, built once per form.
type actions struct {
	setValue       func(fieldpath.Path, any)
	batchSetValues func([]PathValue)
	submit         func()
	validate       func(fieldpath.Path)
	focus          func(fieldpath.Path)
	change         func(fieldpath.Path, any)
	keyPress       func(fieldpath.Path, string)
	blur           func(fieldpath.Path)
	configUpdated  func(Config)
	destroy        func(bool)
}

// newForm runs with the registry lock held.
func newForm(ctx context.Context, reg *Registry, name string, cfg Config, logger *slog.Logger) *Form {
	f := &Form{
		name:   name,
		id:     uuid.NewString(),
		ctx:    ctx,
		reg:    reg,
		timers: timerhost.New(reg.clock),
		config: cfg,
		fields: scope.NewBranch[*field](),
		graph:  depgraph.New(),
	}
	f.logger = logger.With("form", name, "instance", f.id)
	f.act = actions{
		setValue:       wrap2(f, "setValue", f.setValue),
		batchSetValues: wrap1(f, "batchSetValues", f.batchSetValues),
		submit:         wrap0(f, "submit", func() { f.submit(nil, false) }),
		validate:       wrap1(f, "validate", func(p fieldpath.Path) { f.validate(p, false) }),
		focus:          wrap1(f, "widgetOnFocus", f.focus),
		change:         wrap2(f, "widgetOnChange", f.change),
		keyPress:       wrap2(f, "widgetOnKeyPress", f.keyPress),
		blur:           wrap1(f, "widgetOnBlur", f.blur),
		configUpdated:  wrap1(f, "configUpdated", f.configUpdated),
		destroy:        wrap1(f, "destroy", f.destroy),
	}

	reg.store.Batch(func() {
		if st, ok := reg.store.Get(name); ok {
			f.state = recoverState(st, cfg.Fields)
			f.reg.store.Set(name, "rehydrate", f.state)
			f.logger.Debug("Adopted stored form state.", "fields", f.state.Fields.Len(), "status", f.state.Status)
		} else {
			f.setState("init", newFormState())
		}
		f.updateFields()
	})
	metrics.FormCreated()
	f.logger.Info("Form created.")
	return f
}

// recoverState drops in-flight markers left behind by a torn-down instance
// and the state of fields the new configuration no longer has.
func recoverState(st FormState, fields *scope.Branch[FieldConfig]) FormState {
	if st.Fields == nil {
		st.Fields = scope.NewBranch[FieldState]()
	}
	st.Submitting = false
	var stale []fieldpath.Path
	st.Fields.Walk(func(p fieldpath.Path, _ FieldState) bool {
		if !fields.Has(p) {
			stale = append(stale, p)
		}
		return true
	})
	for _, p := range stale {
		st.Fields = st.Fields.Without(p)
	}
	st.Fields.Walk(func(p fieldpath.Path, fs FieldState) bool {
		if fs.Status == StatusValidating {
			fs.Status = StatusToBeValid
			st.Fields = st.Fields.MustWith(p, fs)
		}
		return true
	})
	st.Status = computeFormStatus(st.Fields)
	return st
}

// Name returns the registry key of the form.
func (f *Form) Name() string { return f.name }

// ID identifies this instance; a recreated form gets a new one.
func (f *Form) ID() string { return f.id }

// SetValue programmatically sets a field value. An unfocused field is
// validated immediately.
func (f *Form) SetValue(path fieldpath.Path, v any) { f.act.setValue(path, v) }

// BatchSetValues applies several SetValue calls in one batch.
func (f *Form) BatchSetValues(values []PathValue) { f.act.batchSetValues(values) }

// Submit validates whatever is pending and calls the submit handler when
// the form is not invalid.
func (f *Form) Submit() { f.act.submit() }

// Validate validates a field now, cancelling any debounce.
func (f *Form) Validate(path fieldpath.Path) { f.act.validate(path) }

// Focus records that the field's widget gained focus.
func (f *Form) Focus(path fieldpath.Path) { f.act.focus(path) }

// Change is a user edit of the field's widget.
func (f *Form) Change(path fieldpath.Path, v any) { f.act.change(path, v) }

// KeyPress handles a key in the field's widget. Only "Enter" validates.
func (f *Form) KeyPress(path fieldpath.Path, key string) { f.act.keyPress(path, key) }

// Blur records that the field's widget lost focus.
func (f *Form) Blur(path fieldpath.Path) { f.act.blur(path) }

// ConfigUpdated replaces the configuration: fields at new paths are added,
// fields whose paths disappeared are removed. Existing fields keep their
// original configuration.
func (f *Form) ConfigUpdated(cfg Config) { f.act.configUpdated(cfg) }

// Destroy clears timers, cancels in-flight work and unregisters the form.
// With retainState the stored state survives for a later Get.
func (f *Form) Destroy(retainState bool) { f.act.destroy(retainState) }

// State returns a snapshot of the persisted state.
func (f *Form) State() FormState {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	return f.state
}

// Values returns the committed values as nested maps.
func (f *Form) Values() map[string]any {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()
	return f.extractValues(false)
}

// run executes fn as one serialized, batched action.
func (f *Form) run(name string, attrs []any, fn func()) {
	f.reg.mu.Lock()
	post := func() []func() {
		defer f.reg.mu.Unlock()
		return f.locked(name, attrs, fn)
	}()
	for _, p := range post {
		p()
	}
}

// locked requires the registry lock. It returns callbacks to run once the
// lock is released.
func (f *Form) locked(name string, attrs []any, fn func()) (post []func()) {
	if f.destroyed {
		f.logger.Warn("Action on destroyed form ignored.", append([]any{"action", name}, attrs...)...)
		return nil
	}
	defer func() { post, f.post = f.post, nil }()

	metrics.Action(name)
	f.logger.Debug("Form action.", append([]any{"action", name}, attrs...)...)
	f.reg.store.Batch(fn)
	return nil
}

func wrap0(f *Form, name string, fn func()) func() {
	return func() { f.run(name, nil, fn) }
}

func wrap1[A any](f *Form, name string, fn func(A)) func(A) {
	return func(a A) { f.run(name, logAttrs(a), func() { fn(a) }) }
}

func wrap2[A, B any](f *Form, name string, fn func(A, B)) func(A, B) {
	return func(a A, b B) { f.run(name, logAttrs(a), func() { fn(a, b) }) }
}

func logAttrs(arg any) []any {
	switch v := arg.(type) {
	case fieldpath.Path:
		return []any{"path", v.String()}
	case []PathValue:
		return []any{"count", len(v)}
	case bool:
		return []any{"flag", v}
	}
	return nil
}

func (f *Form) setState(label string, st FormState) {
	f.state = st
	f.reg.store.Set(f.name, label, st)
}

func (f *Form) field(path fieldpath.Path) *field {
	fi, ok := f.fields.Get(path)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownField, path))
	}
	return fi
}

func (f *Form) hasField(path fieldpath.Path) bool {
	return f.fields.Has(path)
}

func (f *Form) fieldState(path fieldpath.Path) FieldState {
	fs, ok := f.state.Fields.Get(path)
	if !ok {
		panic(fmt.Errorf("%w: %s", ErrUnknownField, path))
	}
	return fs
}

// setFieldState stores next and rolls the status change up to the form.
func (f *Form) setFieldState(label string, path fieldpath.Path, next FieldState) {
	prev := f.fieldState(path)
	st := f.state
	st.Fields = st.Fields.MustWith(path, next)
	st = fieldStatusChanged(st, prev.Status, next.Status)
	f.setState(label+" "+path.String(), st)
}

func (f *Form) updateField(label string, path fieldpath.Path, fn func(FieldState) FieldState) {
	f.setFieldState(label, path, fn(f.fieldState(path)))
}

// extractValues returns committed values, or widget values with props.
func (f *Form) extractValues(props bool) map[string]any {
	return scope.ToMap(scope.Map(f.state.Fields, func(_ fieldpath.Path, fs FieldState) any {
		if props {
			return fs.PropsValue
		}
		if !fs.HasValidValue {
			return nil
		}
		return fs.LatestValidValue
	}))
}

func (f *Form) batchSetValues(values []PathValue) {
	for _, pv := range values {
		f.setValue(pv.Path, pv.Value)
	}
}

func (f *Form) configUpdated(cfg Config) {
	f.config = cfg
	f.updateFields()
}

// updateFields reconciles field instances with the configured paths.
func (f *Form) updateFields() {
	var toAdd []scope.Item[FieldConfig]
	f.config.Fields.Walk(func(p fieldpath.Path, fc FieldConfig) bool {
		if !f.hasField(p) {
			toAdd = append(toAdd, scope.Item[FieldConfig]{Path: p, Value: fc})
		}
		return true
	})
	var toRemove []fieldpath.Path
	f.fields.Walk(func(p fieldpath.Path, _ *field) bool {
		if !f.config.Fields.Has(p) {
			toRemove = append(toRemove, p)
		}
		return true
	})
	if len(toAdd) == 0 && len(toRemove) == 0 {
		return
	}

	f.cancelSubmit()
	if len(toAdd) > 0 {
		f.addFields(toAdd)
	}
	if len(toRemove) > 0 {
		f.removeFields(toRemove)
	}
	f.submitIfValid()
}

func (f *Form) addFields(items []scope.Item[FieldConfig]) {
	st := f.state
	for _, item := range items {
		fi := &field{path: item.Path, config: item.Value}
		fi.handlers = f.bindHandlers(item.Path)
		if err := f.graph.Add(item.Path, item.Value.Depends); err != nil {
			panic(fmt.Errorf("form %q: %w", f.name, err))
		}
		f.fields = f.fields.MustWith(item.Path, fi)

		if st.Fields.Has(item.Path) {
			continue
		}
		fs := f.initFieldState(item.Path, item.Value)
		next, err := st.Fields.With(item.Path, fs)
		if err != nil {
			panic(fmt.Errorf("form %q: %w", f.name, err))
		}
		st.Fields = next
		if fs.Status == StatusToBeValid && st.Status == FormValid {
			st.Status = FormToBeConfirm
		}
		f.logger.Debug("Field added.", "path", item.Path.String(), "status", fs.Status)
	}
	f.setState("addFields", st)
}

func (f *Form) initFieldState(path fieldpath.Path, cfg FieldConfig) FieldState {
	var value any
	present := false
	if v, ok := f.config.InitValues.Get(path); ok {
		value, present = v, true
	} else if cfg.Default.Set {
		value, present = cfg.Default.Value, true
	}
	fs := FieldState{
		PropsValue: toProps(value),
		Status:     StatusToBeValid,
	}
	if present {
		fs.LatestValidValue = value
		fs.HasValidValue = true
		fs.Status = StatusValid
		fs.EverHadValue = true
	}
	return fs
}

func (f *Form) removeFields(paths []fieldpath.Path) {
	dependents := f.graph.Dependents(paths, false)

	for _, p := range paths {
		fi := f.field(p)
		f.cancelBizRule(p)
		f.clearValidateTimer(fi)
		f.fields = f.fields.Without(p)
		f.graph.Remove(p)
	}

	st := f.state
	for _, p := range paths {
		st.Fields = st.Fields.Without(p)
	}
	st.Status = computeFormStatus(st.Fields)
	f.setState("removeFields", st)

	for _, dep := range dependents {
		if f.hasField(dep) {
			f.validate(dep, true)
		}
	}
}

func (f *Form) destroy(retainState bool) {
	f.timers.Clear()
	f.cancelSubmit()
	f.fields.Walk(func(p fieldpath.Path, fi *field) bool {
		f.cancelBizRule(p)
		return true
	})
	if !retainState {
		f.reg.store.Delete(f.name, "destroy")
	}
	f.destroyed = true
	if f.reg.forms[f.name] == f {
		delete(f.reg.forms, f.name)
	}
	metrics.FormDestroyed()
	f.logger.Info("Form destroyed.", "retainState", retainState)
}

// toProps maps a value to what a widget shows.
func toProps(v any) any {
	if v == nil {
		return ""
	}
	return v
}

func sameValue(a, b any) bool {
	return reflect.DeepEqual(a, b)
}
