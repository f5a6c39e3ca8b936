package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestManualFiresInDeadlineOrder(t *testing.T) {
	c := NewManual(epoch)
	var order []string
	c.AfterFunc(30*time.Millisecond, func() { order = append(order, "c") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "a") })
	c.AfterFunc(10*time.Millisecond, func() { order = append(order, "b") })

	c.Advance(20 * time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, order)
	assert.Equal(t, epoch.Add(20*time.Millisecond), c.Now())

	c.Advance(10 * time.Millisecond)
	assert.Equal(t, []string{"a", "b", "c"}, order)
	assert.Zero(t, c.Pending())
}

func TestManualStopIsIdempotent(t *testing.T) {
	c := NewManual(epoch)
	fired := false
	timer := c.AfterFunc(time.Second, func() { fired = true })

	require.True(t, timer.Stop())
	require.False(t, timer.Stop())
	c.Advance(2 * time.Second)
	assert.False(t, fired)
}

func TestManualStopAfterFire(t *testing.T) {
	c := NewManual(epoch)
	timer := c.AfterFunc(time.Millisecond, func() {})
	c.Advance(time.Millisecond)
	assert.False(t, timer.Stop())
}

func TestManualCallbackSchedulesWithinAdvance(t *testing.T) {
	c := NewManual(epoch)
	var ticks []time.Duration
	var tick func()
	tick = func() {
		ticks = append(ticks, c.Now().Sub(epoch))
		if len(ticks) < 3 {
			c.AfterFunc(100*time.Millisecond, tick)
		}
	}
	c.AfterFunc(100*time.Millisecond, tick)

	c.Advance(time.Second)
	assert.Equal(t, []time.Duration{100 * time.Millisecond, 200 * time.Millisecond, 300 * time.Millisecond}, ticks)
}
