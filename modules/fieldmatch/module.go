// Package fieldmatch provides the field_match business rule: a value is
// accepted only when it equals another field's committed value, as in a
// password confirmation.
package fieldmatch

import (
	"context"
	"fmt"
	"reflect"

	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/registry"
)

const defaultMessage = "does not match"

// Module implements the registry.Module interface for this package.
type Module struct{}

// Args are the rule's biz_args.
type Args struct {
	Field   fieldpath.Path
	Message string
}

func parseArgs(args map[string]any) (*Args, error) {
	raw, ok := args["field"].(string)
	if !ok || raw == "" {
		return nil, fmt.Errorf("field_match requires a 'field' argument")
	}
	path, err := fieldpath.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("field_match 'field': %w", err)
	}
	a := &Args{Field: path, Message: defaultMessage}
	if msg, ok := args["message"].(string); ok && msg != "" {
		a.Message = msg
	}
	return a, nil
}

// New builds the rule from biz_args.
func New(args map[string]any) (form.BizRule, error) {
	a, err := parseArgs(args)
	if err != nil {
		return nil, err
	}
	return func(_ context.Context, req form.BizRequest) form.Outcome {
		other, ok := req.State.Fields.Get(a.Field)
		if ok && other.HasValidValue && reflect.DeepEqual(other.LatestValidValue, req.Value) {
			return form.Now(req.Call.Valid())
		}
		return form.Now(req.Call.Invalid(a.Message))
	}, nil
}

// Register registers the rule with the registry.
func (m *Module) Register(r *registry.Registry) {
	r.RegisterBizRule("field_match", New)
}
