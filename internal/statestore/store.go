// Package statestore defines the keyed state container the form engine
// persists its state into.
//
// # Why the Store Exists
//
// The form engine separates state that can be persisted (field values,
// statuses, messages, the aggregate form status) from transient machinery
// (timers, in-flight futures). Only the former lives in a Store, keyed by
// form name, so that a form can be destroyed and recreated from the same
// state with fresh configuration.
//
// # Batching
//
// Several mutations produced by one logical operation, such as a field edit
// cascading to its dependents, must reach subscribers as one notification.
// Batch is reentrant: nested calls flush once, when the outermost call
// returns.
//
// # Labels
//
// Every mutation carries a label naming the operation that produced it.
// Labels are diagnostic only and carry no semantics.
//
// # Listeners
//
// Listeners run synchronously on the goroutine that ends the outermost
// batch. They must not call back into the component that wrote the state
// on that same goroutine; hand the notification to another goroutine
// instead.
package statestore

// Listener receives the keys changed by one batch.
type Listener func(keys []string)

// Store is a keyed state container.
//
// Implementations must be safe for concurrent use, but a single writer per
// key is assumed: the form engine serialises its own writes.
type Store[S any] interface {
	// Get returns the state stored under key.
	Get(key string) (S, bool)

	// Set replaces the state under key.
	Set(key, label string, state S)

	// Patch replaces the state under key with fn(current, exists). It is
	// the merge form of Set: fn decides what to keep.
	Patch(key, label string, fn func(current S, exists bool) S)

	// Delete removes key.
	Delete(key, label string)

	// Batch runs fn, coalescing every notification it produces into one.
	Batch(fn func())

	// Subscribe registers a listener and returns a function removing it.
	Subscribe(fn Listener) (cancel func())

	// Keys lists stored keys in sorted order.
	Keys() []string
}

// BatchValue runs fn inside s.Batch and returns its result.
func BatchValue[S, R any](s Store[S], fn func() R) R {
	var out R
	s.Batch(func() { out = fn() })
	return out
}
