// Package future provides a cancellable, settle-once asynchronous value.
//
// A Future is created from an executor that receives resolve, reject and
// onCancel hooks. The first of resolve, reject or Cancel wins; later calls
// are ignored. Cancellation runs every registered onCancel hook so the
// underlying work can actually be aborted.
//
// Callbacks registered with Then always run on a new goroutine, even when
// the future has already settled. Callers that must apply a result in the
// same step probe it with Result instead.
package future

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// ErrCancelled is returned by Wait for a cancelled future.
var ErrCancelled = errors.New("future cancelled")

type state int

const (
	pending state = iota
	fulfilled
	rejected
	cancelled
)

type callback[T any] struct {
	onFulfilled func(T)
	onRejected  func(error)
}

// Future is a cancellable asynchronous result.
type Future[T any] struct {
	mu        sync.Mutex
	state     state
	value     T
	err       error
	done      chan struct{}
	onCancel  []func()
	callbacks []callback[T]
}

// New runs executor synchronously. A panic inside executor rejects the future.
func New[T any](executor func(resolve func(T), reject func(error), onCancel func(func()))) (f *Future[T]) {
	f = &Future[T]{done: make(chan struct{})}
	defer func() {
		if r := recover(); r != nil {
			f.settle(rejected, *new(T), fmt.Errorf("future executor panicked: %v", r))
		}
	}()
	executor(
		func(v T) { f.settle(fulfilled, v, nil) },
		func(err error) { f.settle(rejected, *new(T), err) },
		f.addCancelHook,
	)
	return f
}

// Resolved returns an already fulfilled future.
func Resolved[T any](v T) *Future[T] {
	return New(func(resolve func(T), _ func(error), _ func(func())) { resolve(v) })
}

// Rejected returns an already rejected future.
func Rejected[T any](err error) *Future[T] {
	return New(func(_ func(T), reject func(error), _ func(func())) { reject(err) })
}

// Go runs fn on a new goroutine. Its context is cancelled when the future is.
func Go[T any](ctx context.Context, fn func(ctx context.Context) (T, error)) *Future[T] {
	ctx, cancel := context.WithCancel(ctx)
	return New(func(resolve func(T), reject func(error), onCancel func(func())) {
		onCancel(cancel)
		go func() {
			defer cancel()
			v, err := fn(ctx)
			if err != nil {
				reject(err)
				return
			}
			resolve(v)
		}()
	})
}

func (f *Future[T]) addCancelHook(fn func()) {
	f.mu.Lock()
	if f.state == pending {
		f.onCancel = append(f.onCancel, fn)
		f.mu.Unlock()
		return
	}
	wasCancelled := f.state == cancelled
	f.mu.Unlock()
	if wasCancelled {
		fn()
	}
}

func (f *Future[T]) settle(s state, v T, err error) {
	f.mu.Lock()
	if f.state != pending {
		f.mu.Unlock()
		return
	}
	f.state, f.value, f.err = s, v, err
	callbacks := f.callbacks
	f.callbacks, f.onCancel = nil, nil
	close(f.done)
	f.mu.Unlock()

	for _, cb := range callbacks {
		f.dispatch(cb)
	}
}

// Then registers continuations. Exactly one of them runs, on its own
// goroutine, once the future settles. Neither runs if the future is
// cancelled first. Nil callbacks are skipped.
func (f *Future[T]) Then(onFulfilled func(T), onRejected func(error)) {
	cb := callback[T]{onFulfilled: onFulfilled, onRejected: onRejected}
	f.mu.Lock()
	switch f.state {
	case pending:
		f.callbacks = append(f.callbacks, cb)
		f.mu.Unlock()
	case cancelled:
		f.mu.Unlock()
	default:
		f.mu.Unlock()
		f.dispatch(cb)
	}
}

func (f *Future[T]) dispatch(cb callback[T]) {
	v, err, s := f.value, f.err, f.state
	go func() {
		if s == fulfilled && cb.onFulfilled != nil {
			cb.onFulfilled(v)
		}
		if s == rejected && cb.onRejected != nil {
			cb.onRejected(err)
		}
	}()
}

// Cancel aborts a pending future and runs its cancel hooks. It reports
// false when the future had already settled or been cancelled.
func (f *Future[T]) Cancel() bool {
	f.mu.Lock()
	if f.state != pending {
		f.mu.Unlock()
		return false
	}
	f.state = cancelled
	hooks := f.onCancel
	f.callbacks, f.onCancel = nil, nil
	close(f.done)
	f.mu.Unlock()

	for _, hook := range hooks {
		hook()
	}
	return true
}

// Settled reports whether the future was resolved or rejected.
func (f *Future[T]) Settled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == fulfilled || f.state == rejected
}

// Cancelled reports whether Cancel won.
func (f *Future[T]) Cancelled() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state == cancelled
}

// Result probes the outcome without blocking. ok is false while pending or
// after cancellation.
func (f *Future[T]) Result() (value T, err error, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state != fulfilled && f.state != rejected {
		return value, nil, false
	}
	return f.value, f.err, true
}

// Done is closed once the future reaches any final state.
func (f *Future[T]) Done() <-chan struct{} {
	return f.done
}

// Wait blocks until the future settles or ctx ends.
func (f *Future[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-f.done:
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.state == cancelled {
		var zero T
		return zero, ErrCancelled
	}
	return f.value, f.err
}
