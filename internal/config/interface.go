package config

import (
	"context"
)

// Loader is the interface for a format-specific form definition loader.
type Loader interface {
	// Load reads definitions from files or directories and translates them
	// into the format-agnostic model.
	Load(ctx context.Context, paths ...string) (*Model, error)
}
