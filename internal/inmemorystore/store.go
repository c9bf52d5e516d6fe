package inmemorystore

import (
	"log/slog"
	"maps"
	"slices"
	"sync"

	"github.com/specialistvlad/formgrid/internal/statestore"
)

// Store is an in-memory statestore.Store.
type Store[S any] struct {
	logger *slog.Logger

	mu        sync.Mutex
	states    map[string]S
	depth     int
	dirty     map[string]struct{}
	nextID    int
	listeners map[int]statestore.Listener
}

var _ statestore.Store[int] = (*Store[int])(nil)

// New creates an empty store. A nil logger means slog.Default().
func New[S any](logger *slog.Logger) *Store[S] {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store[S]{
		logger:    logger,
		states:    map[string]S{},
		dirty:     map[string]struct{}{},
		listeners: map[int]statestore.Listener{},
	}
}

// Get retrieves the state for key.
func (s *Store[S]) Get(key string) (S, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, ok := s.states[key]
	return st, ok
}

// Set replaces the state for key.
func (s *Store[S]) Set(key, label string, state S) {
	s.Batch(func() {
		s.mu.Lock()
		s.states[key] = state
		s.dirty[key] = struct{}{}
		s.mu.Unlock()
		s.logger.Debug("State set.", "key", key, "label", label)
	})
}

// Patch replaces the state for key with fn(current, exists).
func (s *Store[S]) Patch(key, label string, fn func(S, bool) S) {
	s.Batch(func() {
		s.mu.Lock()
		cur, ok := s.states[key]
		s.mu.Unlock()

		next := fn(cur, ok)

		s.mu.Lock()
		s.states[key] = next
		s.dirty[key] = struct{}{}
		s.mu.Unlock()
		s.logger.Debug("State patched.", "key", key, "label", label)
	})
}

// Delete removes key. Deleting a missing key still notifies.
func (s *Store[S]) Delete(key, label string) {
	s.Batch(func() {
		s.mu.Lock()
		delete(s.states, key)
		s.dirty[key] = struct{}{}
		s.mu.Unlock()
		s.logger.Debug("State deleted.", "key", key, "label", label)
	})
}

// Batch runs fn and notifies listeners once, when the outermost batch ends.
// Listeners are notified even if fn panics.
func (s *Store[S]) Batch(fn func()) {
	s.mu.Lock()
	s.depth++
	s.mu.Unlock()

	defer func() {
		s.mu.Lock()
		s.depth--
		if s.depth > 0 || len(s.dirty) == 0 {
			s.mu.Unlock()
			return
		}
		keys := slices.Sorted(maps.Keys(s.dirty))
		s.dirty = map[string]struct{}{}
		listeners := slices.Collect(maps.Values(s.listeners))
		s.mu.Unlock()

		for _, l := range listeners {
			l(keys)
		}
	}()

	fn()
}

// Subscribe adds a listener.
func (s *Store[S]) Subscribe(fn statestore.Listener) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

// Keys lists stored keys.
func (s *Store[S]) Keys() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Sorted(maps.Keys(s.states))
}
