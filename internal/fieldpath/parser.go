// internal/fieldpath/parser.go
package fieldpath

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single path segment, e.g. `city` or `line_2`.
var segmentRegex = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// isValidSegmentName checks for undesirable but technically valid names.
func isValidSegmentName(name string) bool {
	return name != "-" && name != "_"
}

// Parse creates a Path from its canonical string representation.
func Parse(raw string) (Path, error) {
	if raw == "" {
		return nil, fmt.Errorf("field path cannot be empty")
	}

	var p Path
	for _, segment := range strings.Split(raw, ".") {
		if segment == "" {
			return nil, fmt.Errorf("field path %q contains empty segment", raw)
		}
		if !segmentRegex.MatchString(segment) {
			return nil, fmt.Errorf("invalid path segment format: %q", segment)
		}
		if !isValidSegmentName(segment) {
			return nil, fmt.Errorf("invalid segment name: %q", segment)
		}
		p = append(p, segment)
	}
	return p, nil
}

// MustParse is like Parse but panics on malformed input. Intended for
// literals in code and tests.
func MustParse(raw string) Path {
	p, err := Parse(raw)
	if err != nil {
		panic(err)
	}
	return p
}
