package scenario

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/specialistvlad/formgrid/internal/form"
)

// Script is a parsed scenario file.
type Script struct {
	Form  string `yaml:"form"`
	Steps []Step `yaml:"steps"`
}

// Step is one scripted event. Exactly one field is set.
type Step struct {
	Set      *ValueStep   `yaml:"set,omitempty"`
	Focus    string       `yaml:"focus,omitempty"`
	Change   *ValueStep   `yaml:"change,omitempty"`
	Blur     string       `yaml:"blur,omitempty"`
	KeyPress *KeyStep     `yaml:"keypress,omitempty"`
	Validate string       `yaml:"validate,omitempty"`
	Advance  Duration     `yaml:"advance,omitempty"`
	Settle   Duration     `yaml:"settle,omitempty"`
	Submit   bool         `yaml:"submit,omitempty"`
	Expect   *Expectation `yaml:"expect,omitempty"`
}

// ValueStep carries a path and a raw widget value.
type ValueStep struct {
	Path  string `yaml:"path"`
	Value any    `yaml:"value"`
}

// KeyStep is a key press on a field.
type KeyStep struct {
	Path string `yaml:"path"`
	Key  string `yaml:"key"`
}

// Expectation lists the parts of the view a step asserts. Unset parts are
// not checked.
type Expectation struct {
	Status     *form.FormStatus            `yaml:"status,omitempty"`
	Submitting *bool                       `yaml:"submitting,omitempty"`
	Fields     map[string]FieldExpectation `yaml:"fields,omitempty"`
}

// FieldExpectation asserts on one field view.
type FieldExpectation struct {
	Status   *form.Status `yaml:"status,omitempty"`
	Value    any          `yaml:"value,omitempty"`
	Message  *string      `yaml:"message,omitempty"`
	HasFocus *bool        `yaml:"hasFocus,omitempty"`
}

// Duration accepts Go duration strings such as "300ms".
type Duration time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (d *Duration) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("line %d: invalid duration %q: %w", node.Line, s, err)
	}
	if parsed < 0 {
		return fmt.Errorf("line %d: negative duration %q", node.Line, s)
	}
	*d = Duration(parsed)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

func (s Step) kind() (string, error) {
	var kinds []string
	add := func(set bool, name string) {
		if set {
			kinds = append(kinds, name)
		}
	}
	add(s.Set != nil, "set")
	add(s.Focus != "", "focus")
	add(s.Change != nil, "change")
	add(s.Blur != "", "blur")
	add(s.KeyPress != nil, "keypress")
	add(s.Validate != "", "validate")
	add(s.Advance != 0, "advance")
	add(s.Settle != 0, "settle")
	add(s.Submit, "submit")
	add(s.Expect != nil, "expect")

	switch len(kinds) {
	case 0:
		return "", errors.New("step has no action")
	case 1:
		return kinds[0], nil
	}
	return "", fmt.Errorf("step has more than one action: %v", kinds)
}

// Parse decodes and checks a script.
func Parse(r io.Reader) (*Script, error) {
	var s Script
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil {
		return nil, fmt.Errorf("failed to decode scenario: %w", err)
	}
	if s.Form == "" {
		return nil, errors.New("scenario is missing 'form'")
	}

	var errs []error
	for i, step := range s.Steps {
		if _, err := step.kind(); err != nil {
			errs = append(errs, fmt.Errorf("step %d: %w", i+1, err))
		}
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return &s, nil
}

// ParseFile reads and parses the script at path.
func ParseFile(path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open scenario %s: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
