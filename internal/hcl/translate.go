package hcl

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/zclconf/go-cty/cty"

	"github.com/specialistvlad/formgrid/internal/config"
	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/validator"
)

// translateForm converts a form block into the agnostic model.
func (l *Loader) translateForm(ctx context.Context, fb *formBlock) (*config.FormDefinition, error) {
	logger := ctxlog.FromContext(ctx).With("form", fb.Name)

	def := &config.FormDefinition{
		Name:            fb.Name,
		SubmitWhenValid: fb.SubmitWhenValid,
		OnSubmit:        fb.OnSubmit,
	}
	var err error
	if def.SubmitArgs, err = exprMap(ctx, fb.SubmitArgs, "submit_args"); err != nil {
		return nil, fmt.Errorf("form %q: %w", fb.Name, err)
	}
	if def.InitValues, err = exprMap(ctx, fb.InitValues, "init_values"); err != nil {
		return nil, fmt.Errorf("form %q: %w", fb.Name, err)
	}

	seen := make(map[string]struct{})
	if err := l.collectFields(ctx, def, nil, fb.Fields, fb.Scopes, seen); err != nil {
		return nil, fmt.Errorf("form %q: %w", fb.Name, err)
	}
	logger.Debug("Translated form block.", "fields", len(def.Fields))
	return def, nil
}

// collectFields flattens nested scope blocks into field paths.
func (l *Loader) collectFields(ctx context.Context, def *config.FormDefinition, prefix fieldpath.Path, fields []*fieldBlock, scopes []*scopeBlock, seen map[string]struct{}) error {
	for _, fb := range fields {
		path, err := childPath(prefix, fb.Name)
		if err != nil {
			return err
		}
		if _, dup := seen[path.String()]; dup {
			return fmt.Errorf("field %s is defined more than once", path)
		}
		seen[path.String()] = struct{}{}

		fd, err := l.translateField(ctx, path, fb)
		if err != nil {
			return fmt.Errorf("field %s: %w", path, err)
		}
		def.Fields = append(def.Fields, fd)
	}
	for _, sb := range scopes {
		path, err := childPath(prefix, sb.Name)
		if err != nil {
			return err
		}
		if _, dup := seen[path.String()]; dup {
			return fmt.Errorf("scope %s collides with a field", path)
		}
		if err := l.collectFields(ctx, def, path, sb.Fields, sb.Scopes, seen); err != nil {
			return err
		}
	}
	return nil
}

func childPath(prefix fieldpath.Path, name string) (fieldpath.Path, error) {
	segment, err := fieldpath.Parse(name)
	if err != nil || len(segment) != 1 {
		return nil, fmt.Errorf("invalid field or scope name %q", name)
	}
	return prefix.Child(name), nil
}

func (l *Loader) translateField(ctx context.Context, path fieldpath.Path, fb *fieldBlock) (*config.FieldDefinition, error) {
	fd := &config.FieldDefinition{
		Path:         path,
		Validator:    fb.Validator,
		BizRule:      fb.BizRule,
		RestoreValid: fb.RestoreValid,
	}
	if fd.Validator == "" {
		fd.Validator = string(validator.KindText)
	}
	if _, ok := validator.Lookup(validator.Kind(fd.Validator)); !ok {
		return nil, fmt.Errorf("unknown validator %q", fd.Validator)
	}

	var err error
	if fd.Specs, err = exprMap(ctx, fb.Specs, "specs"); err != nil {
		return nil, err
	}
	if fd.BizArgs, err = exprMap(ctx, fb.BizArgs, "biz_args"); err != nil {
		return nil, err
	}

	if val, ok, err := exprValue(ctx, fb.Default, "default"); err != nil {
		return nil, err
	} else if ok {
		if fd.Default, err = ctyToNative(val); err != nil {
			return nil, fmt.Errorf("in default: %w", err)
		}
		fd.HasDefault = true
	}

	if val, ok, err := exprValue(ctx, fb.Depends, "depends"); err != nil {
		return nil, err
	} else if ok {
		if fd.Depends, err = parseDepends(val); err != nil {
			return nil, err
		}
	}

	if val, ok, err := exprValue(ctx, fb.ValidateDelay, "validate_delay"); err != nil {
		return nil, err
	} else if ok {
		if fd.ValidateDelay, err = parseDelay(val); err != nil {
			return nil, err
		}
	}
	return fd, nil
}

// parseDepends reads a tuple whose strings name groups and whose nested
// lists are absolute field paths.
func parseDepends(val cty.Value) ([]depgraph.Dependency, error) {
	ty := val.Type()
	if !ty.IsListType() && !ty.IsTupleType() {
		return nil, fmt.Errorf("depends must be a list, got %s", ty.FriendlyName())
	}
	var deps []depgraph.Dependency
	it := val.ElementIterator()
	for it.Next() {
		_, elem := it.Element()
		if elem.IsNull() {
			return nil, fmt.Errorf("depends entries must not be null")
		}
		if elem.Type() == cty.String {
			group := elem.AsString()
			if group == "" {
				return nil, fmt.Errorf("depends group name must not be empty")
			}
			deps = append(deps, depgraph.Group(group))
			continue
		}
		segments, err := stringList(elem)
		if err != nil {
			return nil, fmt.Errorf("malformed depends entry: %w", err)
		}
		if len(segments) == 0 {
			return nil, fmt.Errorf("malformed depends entry: empty path")
		}
		path, err := fieldpath.Parse(fieldpath.New(segments...).String())
		if err != nil || len(path) != len(segments) {
			return nil, fmt.Errorf("malformed depends entry %v", segments)
		}
		deps = append(deps, depgraph.Ref(path))
	}
	return deps, nil
}

// parseDelay accepts a keyword or a number of milliseconds.
func parseDelay(val cty.Value) (form.Delay, error) {
	switch val.Type() {
	case cty.String:
		return form.ParseDelay(val.AsString())
	case cty.Number:
		ms, _ := val.AsBigFloat().Float64()
		if math.IsNaN(ms) || math.IsInf(ms, 0) {
			return form.Delay{}, fmt.Errorf("invalid validate_delay %v", ms)
		}
		return form.After(time.Duration(ms * float64(time.Millisecond))), nil
	}
	return form.Delay{}, fmt.Errorf("validate_delay must be a keyword or milliseconds, got %s", val.Type().FriendlyName())
}
