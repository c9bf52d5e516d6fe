package form

import (
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/scope"
)

// Handlers are the widget callbacks bound to one field.
type Handlers struct {
	OnFocus    func()
	OnChange   func(v any)
	OnKeyPress func(key string)
	OnBlur     func()
	OnSubmit   func()
}

// FieldObject is what a field widget renders from.
type FieldObject struct {
	Path fieldpath.Path
	// Value is the committed value, set only while the field is valid.
	Value      any
	HasValue   bool
	Status     Status
	Message    string
	HasFocus   bool
	PropsValue any
	SetValue   func(v any)
	Handlers   Handlers
}

// Object is the form as seen by a view layer.
type Object struct {
	Name           string
	Status         FormStatus
	Submitting     bool
	SetValue       func(path fieldpath.Path, v any)
	BatchSetValues func(values []PathValue)
	Submit         func()
	Fields         *scope.Branch[FieldObject]
}

func (f *Form) bindHandlers(path fieldpath.Path) Handlers {
	return Handlers{
		OnFocus:    func() { f.Focus(path) },
		OnChange:   func(v any) { f.Change(path, v) },
		OnKeyPress: func(key string) { f.KeyPress(path, key) },
		OnBlur:     func() { f.Blur(path) },
		OnSubmit:   f.Submit,
	}
}

// Object returns the current view-layer projection of the form.
func (f *Form) Object() Object {
	f.reg.mu.Lock()
	defer f.reg.mu.Unlock()

	fields := scope.NewBranch[FieldObject]()
	f.fields.Walk(func(p fieldpath.Path, fi *field) bool {
		fs, ok := f.state.Fields.Get(p)
		if !ok {
			return true
		}
		obj := FieldObject{
			Path:       p,
			Status:     fs.Status,
			Message:    fs.Message,
			HasFocus:   fs.HasFocus,
			PropsValue: fs.PropsValue,
			SetValue:   func(v any) { f.SetValue(p, v) },
			Handlers:   fi.handlers,
		}
		if fs.Status == StatusValid {
			obj.Value, obj.HasValue = fs.LatestValidValue, true
		}
		fields = fields.MustWith(p, obj)
		return true
	})

	return Object{
		Name:           f.name,
		Status:         f.state.Status,
		Submitting:     f.state.Submitting,
		SetValue:       f.SetValue,
		BatchSetValues: f.BatchSetValues,
		Submit:         f.Submit,
		Fields:         fields,
	}
}

// FieldView is the serializable projection of one field.
type FieldView struct {
	Path       string `json:"path" yaml:"path"`
	Value      any    `json:"value,omitempty" yaml:"value,omitempty"`
	PropsValue any    `json:"propsValue" yaml:"propsValue"`
	Status     Status `json:"status" yaml:"status"`
	Message    string `json:"message,omitempty" yaml:"message,omitempty"`
	HasFocus   bool   `json:"hasFocus" yaml:"hasFocus"`
}

// View is the serializable projection of a form.
type View struct {
	Form       string      `json:"form" yaml:"form"`
	Status     FormStatus  `json:"status" yaml:"status"`
	Submitting bool        `json:"submitting" yaml:"submitting"`
	Fields     []FieldView `json:"fields" yaml:"fields"`
}

// RenderView projects stored state. It takes no locks, so store listeners
// may call it.
func RenderView(name string, st FormState) View {
	v := View{Form: name, Status: st.Status, Submitting: st.Submitting, Fields: []FieldView{}}
	st.Fields.Walk(func(p fieldpath.Path, fs FieldState) bool {
		fv := FieldView{
			Path:       p.String(),
			PropsValue: fs.PropsValue,
			Status:     fs.Status,
			Message:    fs.Message,
			HasFocus:   fs.HasFocus,
		}
		if fs.Status == StatusValid {
			fv.Value = fs.LatestValidValue
		}
		v.Fields = append(v.Fields, fv)
		return true
	})
	return v
}

// View renders the form's current state.
func (f *Form) View() View {
	return RenderView(f.name, f.State())
}

// Field returns one field's view. ok is false for unknown paths.
func (f *Form) Field(path fieldpath.Path) (FieldView, bool) {
	st := f.State()
	fs, ok := st.Fields.Get(path)
	if !ok {
		return FieldView{}, false
	}
	single := FormState{Fields: scope.NewBranch[FieldState]().MustWith(path, fs)}
	return RenderView(f.name, single).Fields[0], true
}
