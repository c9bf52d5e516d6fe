package inmemorystore

import (
	"fmt"
	"sync"
	"testing"

	"github.com/specialistvlad/formgrid/internal/statestore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetAndGet(t *testing.T) {
	s := New[int](nil)

	_, ok := s.Get("a")
	assert.False(t, ok)

	s.Set("a", "test", 1)
	v, ok := s.Get("a")
	require.True(t, ok)
	assert.Equal(t, 1, v)
}

func TestPatchSeesCurrentState(t *testing.T) {
	s := New[map[string]int](nil)

	s.Patch("form", "init", func(cur map[string]int, exists bool) map[string]int {
		assert.False(t, exists)
		return map[string]int{"x": 1}
	})
	s.Patch("form", "merge", func(cur map[string]int, exists bool) map[string]int {
		assert.True(t, exists)
		next := map[string]int{"y": 2}
		for k, v := range cur {
			next[k] = v
		}
		return next
	})

	v, _ := s.Get("form")
	assert.Equal(t, map[string]int{"x": 1, "y": 2}, v)
}

func TestDelete(t *testing.T) {
	s := New[int](nil)
	s.Set("a", "test", 1)
	s.Set("b", "test", 2)

	s.Delete("a", "test")

	_, ok := s.Get("a")
	assert.False(t, ok)
	assert.Equal(t, []string{"b"}, s.Keys())
}

func TestNestedBatchNotifiesOnce(t *testing.T) {
	// --- Arrange ---
	s := New[int](nil)
	var notifications [][]string
	s.Subscribe(func(keys []string) { notifications = append(notifications, keys) })

	// --- Act ---
	s.Batch(func() {
		s.Set("b", "outer", 1)
		s.Batch(func() {
			s.Set("a", "inner", 2)
			s.Set("b", "inner", 3)
		})
		assert.Empty(t, notifications, "inner batch must not flush")
	})

	// --- Assert ---
	require.Len(t, notifications, 1)
	assert.Equal(t, []string{"a", "b"}, notifications[0])
}

func TestBatchValue(t *testing.T) {
	s := New[int](nil)
	count := 0
	s.Subscribe(func([]string) { count++ })

	got := statestore.BatchValue[int](s, func() string {
		s.Set("a", "x", 1)
		s.Set("a", "y", 2)
		return "done"
	})

	assert.Equal(t, "done", got)
	assert.Equal(t, 1, count)
}

func TestBatchWithoutChangesIsSilent(t *testing.T) {
	s := New[int](nil)
	count := 0
	s.Subscribe(func([]string) { count++ })

	s.Batch(func() {})
	assert.Equal(t, 0, count)
}

func TestUnsubscribe(t *testing.T) {
	s := New[int](nil)
	count := 0
	cancel := s.Subscribe(func([]string) { count++ })

	s.Set("a", "x", 1)
	cancel()
	s.Set("a", "x", 2)

	assert.Equal(t, 1, count)
}

func TestBatchFlushesOnPanic(t *testing.T) {
	s := New[int](nil)
	count := 0
	s.Subscribe(func([]string) { count++ })

	assert.Panics(t, func() {
		s.Batch(func() {
			s.Set("a", "x", 1)
			panic("boom")
		})
	})
	assert.Equal(t, 1, count)

	s.Set("a", "x", 2)
	assert.Equal(t, 2, count, "depth must be restored after a panic")
}

func TestConcurrentAccess(t *testing.T) {
	s := New[int](nil)
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			key := fmt.Sprintf("k%d", i%5)
			s.Set(key, "concurrent", i)
			s.Get(key)
		}(i)
	}
	wg.Wait()
	assert.Len(t, s.Keys(), 5)
}
