package future

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// manual exposes the executor hooks so tests decide when a future settles.
type manual[T any] struct {
	resolve func(T)
	reject  func(error)
	aborted atomic.Bool
}

func newManual[T any]() (*Future[T], *manual[T]) {
	m := &manual[T]{}
	f := New(func(resolve func(T), reject func(error), onCancel func(func())) {
		m.resolve, m.reject = resolve, reject
		onCancel(func() { m.aborted.Store(true) })
	})
	return f, m
}

func TestThenRunsAsynchronouslyAfterResolve(t *testing.T) {
	// --- Arrange ---
	f, m := newManual[int]()
	got := make(chan int, 1)
	f.Then(func(v int) { got <- v }, nil)

	// --- Act ---
	m.resolve(7)

	// --- Assert ---
	select {
	case v := <-got:
		assert.Equal(t, 7, v)
	case <-time.After(time.Second):
		t.Fatal("continuation never ran")
	}
	assert.True(t, f.Settled())
}

func TestThenOnSettledFutureIsStillAsynchronous(t *testing.T) {
	f := Resolved("x")
	var ran atomic.Bool
	done := make(chan struct{})

	f.Then(func(string) { ran.Store(true); close(done) }, nil)
	// The callback must not have run inline.
	<-done
	assert.True(t, ran.Load())
}

func TestRejectDeliversError(t *testing.T) {
	boom := errors.New("boom")
	f := Rejected[int](boom)
	got := make(chan error, 1)

	f.Then(func(int) { t.Error("unexpected fulfil") }, func(err error) { got <- err })

	assert.ErrorIs(t, <-got, boom)
	_, err, ok := f.Result()
	assert.True(t, ok)
	assert.ErrorIs(t, err, boom)
}

func TestCancelRunsHooksAndDropsCallbacks(t *testing.T) {
	f, m := newManual[int]()
	var called atomic.Bool
	f.Then(func(int) { called.Store(true) }, func(error) { called.Store(true) })

	require.True(t, f.Cancel())
	m.resolve(1)

	assert.True(t, m.aborted.Load())
	assert.True(t, f.Cancelled())
	assert.False(t, f.Settled())
	_, _, ok := f.Result()
	assert.False(t, ok)
	assert.False(t, f.Cancel(), "second cancel is a no-op")

	time.Sleep(10 * time.Millisecond)
	assert.False(t, called.Load())
}

func TestCancelAfterSettleIsNoop(t *testing.T) {
	f, m := newManual[int]()
	m.resolve(3)

	assert.False(t, f.Cancel())
	assert.False(t, m.aborted.Load())
	v, err, ok := f.Result()
	require.True(t, ok)
	require.NoError(t, err)
	assert.Equal(t, 3, v)
}

func TestSettleOnce(t *testing.T) {
	f, m := newManual[int]()
	m.resolve(1)
	m.reject(errors.New("late"))
	m.resolve(2)

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, v)
}

func TestExecutorPanicRejects(t *testing.T) {
	f := New(func(func(int), func(error), func(func())) { panic("bad") })
	require.NotNil(t, f)
	_, err, ok := f.Result()
	require.True(t, ok)
	assert.ErrorContains(t, err, "bad")
}

func TestGoCancelsContext(t *testing.T) {
	started := make(chan struct{})
	f := Go(context.Background(), func(ctx context.Context) (int, error) {
		close(started)
		<-ctx.Done()
		return 0, ctx.Err()
	})
	<-started

	require.True(t, f.Cancel())
	_, err := f.Wait(context.Background())
	assert.ErrorIs(t, err, ErrCancelled)
}

func TestGoResolves(t *testing.T) {
	f := Go(context.Background(), func(context.Context) (string, error) { return "ok", nil })

	v, err := f.Wait(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ok", v)
	<-f.Done()
}
