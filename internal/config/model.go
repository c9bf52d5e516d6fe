package config

import (
	"fmt"
	"sort"

	"github.com/specialistvlad/formgrid/internal/depgraph"
	"github.com/specialistvlad/formgrid/internal/fieldpath"
	"github.com/specialistvlad/formgrid/internal/form"
)

// Model is the unified representation of every loaded form definition.
type Model struct {
	Forms map[string]*FormDefinition
}

// NewModel returns an empty model.
func NewModel() *Model {
	return &Model{Forms: make(map[string]*FormDefinition)}
}

// Add registers a form definition, rejecting duplicate names.
func (m *Model) Add(def *FormDefinition) error {
	if _, exists := m.Forms[def.Name]; exists {
		return fmt.Errorf("form %q is defined more than once", def.Name)
	}
	m.Forms[def.Name] = def
	return nil
}

// Names lists form names, sorted.
func (m *Model) Names() []string {
	names := make([]string, 0, len(m.Forms))
	for name := range m.Forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FormDefinition is the format-agnostic representation of a `form` block.
type FormDefinition struct {
	Name            string
	SubmitWhenValid bool
	// OnSubmit names a registered submit handler; empty means none.
	OnSubmit   string
	SubmitArgs map[string]any
	InitValues map[string]any
	// Fields keep their declaration order.
	Fields []*FieldDefinition
}

// Field returns the definition at path.
func (d *FormDefinition) Field(path fieldpath.Path) (*FieldDefinition, bool) {
	for _, f := range d.Fields {
		if f.Path.Equal(path) {
			return f, true
		}
	}
	return nil, false
}

// FieldDefinition is the format-agnostic representation of a `field` block.
type FieldDefinition struct {
	Path fieldpath.Path
	// Validator is a validator kind; empty means text.
	Validator  string
	Specs      map[string]any
	Default    any
	HasDefault bool
	Depends    []depgraph.Dependency
	// BizRule names a registered business rule; empty means none.
	BizRule       string
	BizArgs       map[string]any
	ValidateDelay form.Delay
	RestoreValid  bool
}
