// Package print provides the print submit handler, which writes the
// submitted values to an output stream. It always succeeds.
package print

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
	"github.com/specialistvlad/formgrid/internal/registry"
	"github.com/specialistvlad/formgrid/internal/scope"
)

// Module implements the registry.Module interface for this package. Out
// defaults to os.Stdout.
type Module struct {
	Out io.Writer
}

// New returns a handler factory writing to out.
func New(out io.Writer) func(args map[string]any) (form.SubmitFunc, error) {
	return func(args map[string]any) (form.SubmitFunc, error) {
		prefix := ""
		if raw, ok := args["prefix"]; ok {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("print 'prefix' must be a string")
			}
			prefix = s
		}
		return func(ctx context.Context, sub form.Submission) form.SubmitOutcome {
			ctxlog.FromContext(ctx).Info("Printing submission", "form", sub.Form, "submission", sub.ID)
			write(out, prefix, sub)
			return form.SubmitNow()
		}, nil
	}
}

func write(out io.Writer, prefix string, sub form.Submission) {
	kind := "submit"
	if sub.Auto {
		kind = "auto-submit"
	}
	fmt.Fprintf(out, "%s%s %s\n", prefix, kind, sub.Form)

	values := scope.FromMap(sub.Values)
	if values.Len() == 0 {
		fmt.Fprintf(out, "%s      (empty)\n", prefix)
		return
	}
	values.Walk(func(p fieldpath.Path, v any) bool {
		fmt.Fprintf(out, "%s      %s = %#v\n", prefix, p, v)
		return true
	})
}

// Register registers the handler with the registry.
func (m *Module) Register(r *registry.Registry) {
	out := m.Out
	if out == nil {
		out = os.Stdout
	}
	r.RegisterSubmitHandler("print", New(out))
}
