package registry

import (
	"context"
	"errors"
	"fmt"

	"github.com/specialistvlad/formgrid/internal/config"
	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/scope"
	"github.com/specialistvlad/formgrid/internal/validator"
)

// BuildConfig binds the named definition to validators, business rules and
// its submit handler. Every problem found is reported in the returned error.
func (r *Registry) BuildConfig(ctx context.Context, name string) (form.Config, error) {
	def, ok := r.definitions[name]
	if !ok {
		return form.Config{}, fmt.Errorf("form %q is not defined", name)
	}
	logger := ctxlog.FromContext(ctx).With("form", name)

	var errs []error
	fields := scope.NewBranch[form.FieldConfig]()
	for _, fd := range def.Fields {
		fc, err := r.buildField(fd)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", fd.Path, err))
			continue
		}
		next, err := fields.With(fd.Path, fc)
		if err != nil {
			errs = append(errs, fmt.Errorf("field %s: %w", fd.Path, err))
			continue
		}
		fields = next
	}

	cfg := form.Config{
		Fields:          fields,
		InitValues:      scope.FromMap(def.InitValues),
		SubmitWhenValid: def.SubmitWhenValid,
	}
	if def.OnSubmit != "" {
		factory, ok := r.submitHandlers[def.OnSubmit]
		switch {
		case !ok:
			errs = append(errs, fmt.Errorf("on_submit: submit handler %q is not registered", def.OnSubmit))
		default:
			handler, err := factory(def.SubmitArgs)
			if err != nil {
				errs = append(errs, fmt.Errorf("on_submit %q: %w", def.OnSubmit, err))
			}
			cfg.OnSubmit = handler
		}
	}
	if err := cfg.Validate(); err != nil {
		errs = append(errs, err)
	}

	if err := errors.Join(errs...); err != nil {
		return form.Config{}, fmt.Errorf("form %q: %w", name, err)
	}
	logger.Debug("Form configuration built.", "fields", fields.Len())
	return cfg, nil
}

func (r *Registry) buildField(fd *config.FieldDefinition) (form.FieldConfig, error) {
	kind := validator.Kind(fd.Validator)
	if kind == "" {
		kind = validator.KindText
	}
	v, err := validator.New(kind, fd.Specs)
	if err != nil {
		return form.FieldConfig{}, err
	}

	fc := form.FieldConfig{
		Validator:     v,
		ValidateDelay: fd.ValidateDelay,
		RestoreValid:  fd.RestoreValid,
		Depends:       fd.Depends,
	}
	if fd.HasDefault {
		fc.Default = validator.Of(fd.Default)
	}
	if fd.BizRule != "" {
		factory, ok := r.bizRules[fd.BizRule]
		if !ok {
			return form.FieldConfig{}, fmt.Errorf("business rule %q is not registered", fd.BizRule)
		}
		if fc.BizRule, err = factory(fd.BizArgs); err != nil {
			return form.FieldConfig{}, fmt.Errorf("business rule %q: %w", fd.BizRule, err)
		}
	}
	return fc, nil
}
