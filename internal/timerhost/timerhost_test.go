package timerhost_test

import (
	"testing"
	"time"

	"github.com/specialistvlad/formgrid/internal/testutil"
	"github.com/specialistvlad/formgrid/internal/timerhost"
	"github.com/stretchr/testify/assert"
)

func TestHost_FiresOnce(t *testing.T) {
	clock := testutil.NewManualClock()
	host := timerhost.New(clock)
	fired := 0

	host.After(200*time.Millisecond, func() { fired++ })
	assert.Equal(t, 1, host.Pending())

	clock.Advance(199 * time.Millisecond)
	assert.Equal(t, 0, fired)

	clock.Advance(time.Millisecond)
	assert.Equal(t, 1, fired)
	assert.Equal(t, 0, host.Pending())

	clock.Advance(time.Second)
	assert.Equal(t, 1, fired)
}

func TestHost_StopPreventsCallback(t *testing.T) {
	clock := testutil.NewManualClock()
	host := timerhost.New(clock)
	fired := false

	h := host.After(10*time.Millisecond, func() { fired = true })
	assert.True(t, host.Stop(h))
	assert.False(t, host.Stop(h))

	clock.Advance(time.Second)
	assert.False(t, fired)
	assert.False(t, host.Stop(timerhost.Handle(0)))
}

func TestHost_ClearStopsEverything(t *testing.T) {
	clock := testutil.NewManualClock()
	host := timerhost.New(clock)
	count := 0

	for i := 0; i < 3; i++ {
		host.After(time.Duration(i+1)*time.Millisecond, func() { count++ })
	}
	host.Clear()

	clock.Advance(time.Second)
	assert.Equal(t, 0, count)
	assert.Equal(t, 0, host.Pending())
	assert.Equal(t, 0, clock.Pending())
}

func TestHost_RealClockZeroDelay(t *testing.T) {
	host := timerhost.New(nil)
	done := make(chan struct{})

	host.After(0, func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("zero delay timer never fired")
	}
}
