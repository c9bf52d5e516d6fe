package registry

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
)

// ValidateRegistry performs a strict parity check between form definitions
// and registered Go code by binding every definition once.
func (r *Registry) ValidateRegistry(ctx context.Context) error {
	var errs []string
	logger := ctxlog.FromContext(ctx)

	for _, name := range r.FormNames() {
		if _, err := r.BuildConfig(ctx, name); err != nil {
			errs = append(errs, strings.ReplaceAll(err.Error(), "\n", "\n  "))
		}
	}
	if len(r.definitions) == 0 {
		logger.Warn("No form definitions loaded.")
	}

	if len(errs) > 0 {
		return fmt.Errorf("registry validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}
