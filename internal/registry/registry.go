package registry

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/specialistvlad/formgrid/internal/config"
	"github.com/specialistvlad/formgrid/internal/form"
)

// Module is the interface that all modules must implement to be registered.
type Module interface {
	Register(r *Registry)
}

// BizRuleFactory builds a business rule from a field's biz_args.
type BizRuleFactory func(args map[string]any) (form.BizRule, error)

// SubmitHandlerFactory builds a submit handler from a form's submit_args.
type SubmitHandlerFactory func(args map[string]any) (form.SubmitFunc, error)

// Registry holds registered factories and loaded definitions for a single
// application instance.
type Registry struct {
	bizRules       map[string]BizRuleFactory
	submitHandlers map[string]SubmitHandlerFactory
	definitions    map[string]*config.FormDefinition
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		bizRules:       make(map[string]BizRuleFactory),
		submitHandlers: make(map[string]SubmitHandlerFactory),
		definitions:    make(map[string]*config.FormDefinition),
	}
}

// RegisterBizRule registers a business rule factory under name.
func (r *Registry) RegisterBizRule(name string, factory BizRuleFactory) {
	if _, exists := r.bizRules[name]; exists {
		panic(fmt.Sprintf("business rule with name '%s' already registered", name))
	}
	slog.Debug("Registering business rule.", "name", name)
	r.bizRules[name] = factory
}

// RegisterSubmitHandler registers a submit handler factory under name.
func (r *Registry) RegisterSubmitHandler(name string, factory SubmitHandlerFactory) {
	if _, exists := r.submitHandlers[name]; exists {
		panic(fmt.Sprintf("submit handler with name '%s' already registered", name))
	}
	slog.Debug("Registering submit handler.", "name", name)
	r.submitHandlers[name] = factory
}

// PopulateDefinitionsFromModel copies the loaded form definitions from the
// config model into the registry.
func (r *Registry) PopulateDefinitionsFromModel(model *config.Model) {
	for key, val := range model.Forms {
		r.definitions[key] = val
	}
}

// Definition returns a loaded form definition.
func (r *Registry) Definition(name string) (*config.FormDefinition, bool) {
	def, ok := r.definitions[name]
	return def, ok
}

// FormNames lists loaded form definitions, sorted.
func (r *Registry) FormNames() []string {
	names := make([]string, 0, len(r.definitions))
	for name := range r.definitions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
