// Package timerhost owns cancellable timers, such as validation debounces,
// so that an owner can stop every outstanding timer at once on teardown.
package timerhost

import (
	"sync"
	"time"
)

// Timer is a scheduled callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false if the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

// Clock schedules callbacks.
type Clock interface {
	AfterFunc(d time.Duration, fn func()) Timer
}

// RealClock schedules on the runtime timer.
type RealClock struct{}

// AfterFunc wraps time.AfterFunc.
func (RealClock) AfterFunc(d time.Duration, fn func()) Timer {
	return time.AfterFunc(d, fn)
}

// Host tracks the timers it started.
type Host struct {
	clock  Clock
	mu     sync.Mutex
	next   uint64
	active map[uint64]Timer
}

// New creates a host. A nil clock means RealClock.
func New(clock Clock) *Host {
	if clock == nil {
		clock = RealClock{}
	}
	return &Host{clock: clock, active: map[uint64]Timer{}}
}

// Handle identifies a timer started by a Host. The zero Handle is never
// issued.
type Handle uint64

// After schedules fn and returns a handle for Stop.
func (h *Host) After(d time.Duration, fn func()) Handle {
	h.mu.Lock()
	h.next++
	id := h.next
	h.active[id] = nil // reserved until the clock hands back a Timer
	h.mu.Unlock()

	t := h.clock.AfterFunc(d, func() {
		h.mu.Lock()
		_, live := h.active[id]
		delete(h.active, id)
		h.mu.Unlock()
		if live {
			fn()
		}
	})

	h.mu.Lock()
	if _, ok := h.active[id]; ok {
		h.active[id] = t
		h.mu.Unlock()
	} else {
		h.mu.Unlock()
		t.Stop()
	}
	return Handle(id)
}

// Stop cancels a timer. Unknown or fired handles are ignored.
func (h *Host) Stop(handle Handle) bool {
	h.mu.Lock()
	t, ok := h.active[uint64(handle)]
	delete(h.active, uint64(handle))
	h.mu.Unlock()
	if !ok {
		return false
	}
	if t != nil {
		t.Stop()
	}
	return true
}

// Clear stops every outstanding timer.
func (h *Host) Clear() {
	h.mu.Lock()
	timers := h.active
	h.active = map[uint64]Timer{}
	h.mu.Unlock()
	for _, t := range timers {
		if t != nil {
			t.Stop()
		}
	}
}

// Pending counts outstanding timers.
func (h *Host) Pending() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.active)
}
