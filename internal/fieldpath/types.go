// internal/fieldpath/types.go
package fieldpath

import (
	"slices"
	"strings"
)

// Path is the structured representation of a field identifier: one segment
// per scope level, the last segment naming the field itself.
type Path []string

// New builds a path from already validated segments.
func New(segments ...string) Path {
	return Path(slices.Clone(segments))
}

// String returns the canonical dotted form of the path.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Equal reports whether two paths name the same field.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

// Child returns a new path with name appended.
func (p Path) Child(name string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, name)
}

// Parent returns the enclosing scope path. The parent of a single segment
// path is the empty (root) path.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return nil
	}
	return slices.Clone(p[:len(p)-1])
}

// Name is the last segment of the path.
func (p Path) Name() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// Strings converts a slice of paths to their canonical forms.
func Strings(paths []Path) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = p.String()
	}
	return out
}
