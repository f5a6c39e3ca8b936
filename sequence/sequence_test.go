package sequence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/motionx/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestStaggerDelay(t *testing.T) {
	s := Stagger{Start: 200 * time.Millisecond, Each: 100 * time.Millisecond}

	assert.Equal(t, 200*time.Millisecond, s.Delay(0))
	assert.Equal(t, 500*time.Millisecond, s.Delay(3))
	assert.Equal(t, 200*time.Millisecond, s.Delay(-1))
	assert.Equal(t, []time.Duration{
		200 * time.Millisecond, 300 * time.Millisecond, 400 * time.Millisecond,
	}, s.Delays(3))
	assert.Nil(t, s.Delays(0))
	assert.Equal(t, 400*time.Millisecond, s.Total(3))
	assert.Zero(t, s.Total(0))
}

func TestPlayWalksEveryStep(t *testing.T) {
	for _, n := range []int{1, 2, 5, 10} {
		clk := clock.NewManual(epoch)
		s := New(clk)
		var steps []int
		s.OnStep(func(i int) { steps = append(steps, i) })

		d := 250 * time.Millisecond
		_, err := s.Play(n, d)
		require.NoError(t, err)
		assert.True(t, s.State().IsPlaying)

		clk.Advance(time.Duration(n) * d)

		want := make([]int, n)
		for i := range want {
			want[i] = i
		}
		assert.Equal(t, want, steps, "n=%d", n)
		assert.Equal(t, State{CurrentStep: n - 1, IsPlaying: false}, s.State(), "n=%d", n)
		assert.Nil(t, s.Task())
		assert.Equal(t, 0, clk.Pending(), "n=%d", n)
	}
}

func TestPlayTimeline(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := New(clk)
	_, err := s.Play(3, 100*time.Millisecond)
	require.NoError(t, err)

	assert.Equal(t, State{0, true}, s.State())
	clk.Advance(99 * time.Millisecond)
	assert.Equal(t, State{0, true}, s.State())
	clk.Advance(time.Millisecond)
	assert.Equal(t, State{1, true}, s.State())
	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, State{2, true}, s.State())
	clk.Advance(100 * time.Millisecond)
	assert.Equal(t, State{2, false}, s.State())
}

func TestReplayLeavesOneActiveTimer(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := New(clk)
	var steps []int
	s.OnStep(func(i int) { steps = append(steps, i) })

	first, err := s.Play(10, 100*time.Millisecond)
	require.NoError(t, err)
	clk.Advance(350 * time.Millisecond)
	require.Equal(t, []int{0, 1, 2, 3}, steps)

	steps = nil
	second, err := s.Play(4, 100*time.Millisecond)
	require.NoError(t, err)
	assert.True(t, first.Done())
	assert.Equal(t, 1, clk.Pending())

	clk.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3}, steps)
	assert.Len(t, steps, 4)
	assert.True(t, second.Done())
	assert.Equal(t, State{3, false}, s.State())
}

func TestResetStopsAdvancing(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := New(clk)
	var changes []State
	s.OnChange(func(st State) { changes = append(changes, st) })

	task, err := s.Play(5, 100*time.Millisecond)
	require.NoError(t, err)
	clk.Advance(150 * time.Millisecond)

	s.Reset()
	assert.Equal(t, State{}, s.State())
	assert.True(t, task.Done())
	assert.Equal(t, 0, clk.Pending())

	n := len(changes)
	clk.Advance(time.Second)
	assert.Len(t, changes, n, "no callbacks after reset")

	s.Reset()
	assert.Len(t, changes, n, "reset of an idle sequencer is silent")
}

func TestTaskCancelIsIdempotent(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := New(clk)
	task, err := s.Play(3, 100*time.Millisecond)
	require.NoError(t, err)

	task.Cancel()
	task.Cancel()
	clk.Advance(time.Second)
	assert.Equal(t, State{0, true}, s.State(), "cancel freezes state without resetting it")
	assert.Nil(t, s.Task())

	var nilTask *Task
	assert.NotPanics(t, nilTask.Cancel)
}

func TestReplayFromListener(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := New(clk)
	replayed := false
	var steps []int
	s.OnStep(func(i int) {
		steps = append(steps, i)
		if i == 1 && !replayed {
			replayed = true
			_, err := s.Play(2, 100*time.Millisecond)
			require.NoError(t, err)
		}
	})

	_, err := s.Play(5, 100*time.Millisecond)
	require.NoError(t, err)
	clk.Advance(time.Second)

	assert.Equal(t, []int{0, 1, 0, 1}, steps)
	assert.Equal(t, State{1, false}, s.State())
	assert.Equal(t, 0, clk.Pending())
}

func TestPlayRejectsInvalidInput(t *testing.T) {
	s := New(clock.NewManual(epoch))

	_, err := s.Play(0, time.Second)
	assert.ErrorIs(t, err, ErrInvalidSequence)
	_, err = s.Play(3, 0)
	assert.ErrorIs(t, err, ErrInvalidSequence)
	assert.Equal(t, State{}, s.State())
}

// tickClock delivers timers on the first tick boundary at or after their
// deadline, like loop.Loop.
type tickClock struct {
	*clock.Manual
	tick time.Duration
}

func (c tickClock) AfterFunc(d time.Duration, f func()) clock.Timer {
	now := c.Now()
	elapsed := now.Add(d).Sub(epoch)
	if rem := elapsed % c.tick; rem > 0 {
		elapsed += c.tick - rem
	}
	return c.Manual.AfterFunc(epoch.Add(elapsed).Sub(now), f)
}

func TestPlayDoesNotDriftOnTickedClock(t *testing.T) {
	clk := tickClock{Manual: clock.NewManual(epoch), tick: 16 * time.Millisecond}
	s := New(clk)
	var steps []int
	s.OnStep(func(i int) { steps = append(steps, i) })

	_, err := s.Play(10, 50*time.Millisecond)
	require.NoError(t, err)

	clk.Advance(500*time.Millisecond + clk.tick)
	assert.Equal(t, State{CurrentStep: 9, IsPlaying: false}, s.State())
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, steps)
}
