package form

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/specialistvlad/formgrid/internal/ctxlog"
	"github.com/specialistvlad/formgrid/internal/statestore"
	"github.com/specialistvlad/formgrid/internal/timerhost"
)

// Registry tracks live forms by name and serializes all work on them.
type Registry struct {
	mu     sync.Mutex
	store  statestore.Store[FormState]
	clock  timerhost.Clock
	logger *slog.Logger
	forms  map[string]*Form
}

// Option configures a Registry.
type Option func(*Registry)

// WithClock replaces the wall clock used for validation debounce.
func WithClock(clock timerhost.Clock) Option {
	return func(r *Registry) { r.clock = clock }
}

// WithLogger sets the logger for forms whose context carries none.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) { r.logger = logger }
}

// NewRegistry creates a registry persisting form state into store.
func NewRegistry(store statestore.Store[FormState], opts ...Option) *Registry {
	r := &Registry{
		store:  store,
		clock:  timerhost.RealClock{},
		logger: slog.Default(),
		forms:  make(map[string]*Form),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Store returns the backing state store.
func (r *Registry) Store() statestore.Store[FormState] {
	return r.store
}

// Get returns the live form called name, creating it when absent. An
// existing form receives cfg as an update: new field paths are added and
// missing ones removed. A new form adopts any state already stored under
// name.
//
// ctx is kept by a newly created form and passed to its business rules and
// submit handler.
func (r *Registry) Get(ctx context.Context, name string, cfg Config) *Form {
	var post []func()
	r.mu.Lock()
	f, ok := r.forms[name]
	if ok {
		post = f.locked("configUpdated", nil, func() { f.configUpdated(cfg) })
	} else {
		logger := r.logger
		if l, ok := ctxlog.Lookup(ctx); ok {
			logger = l
		}
		f = newForm(ctx, r, name, cfg, logger)
		r.forms[name] = f
	}
	r.mu.Unlock()

	for _, fn := range post {
		fn()
	}
	return f
}

// Lookup returns a live form without creating one.
func (r *Registry) Lookup(name string) (*Form, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	f, ok := r.forms[name]
	return f, ok
}

// Names lists live forms, sorted.
func (r *Registry) Names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	names := make([]string, 0, len(r.forms))
	for name := range r.forms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Destroy tears down the named form. It reports false when no such form
// is live.
func (r *Registry) Destroy(name string, retainState bool) bool {
	f, ok := r.Lookup(name)
	if !ok {
		return false
	}
	f.Destroy(retainState)
	return true
}

// DestroyAll tears down every live form.
func (r *Registry) DestroyAll(retainState bool) {
	for _, name := range r.Names() {
		r.Destroy(name, retainState)
	}
}
