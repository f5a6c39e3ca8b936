package gesture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/comalice/motionx/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

type fakeTouch struct {
	start []func(x, y float64)
	move  []func(x, y float64)
	end   []func()
	unsub int
}

func (f *fakeTouch) OnTouchStart(fn func(x, y float64)) func() {
	f.start = append(f.start, fn)
	return func() { f.start = nil; f.unsub++ }
}

func (f *fakeTouch) OnTouchMove(fn func(x, y float64)) func() {
	f.move = append(f.move, fn)
	return func() { f.move = nil; f.unsub++ }
}

func (f *fakeTouch) OnTouchEnd(fn func()) func() {
	f.end = append(f.end, fn)
	return func() { f.end = nil; f.unsub++ }
}

func TestClassify(t *testing.T) {
	tests := []struct {
		dx, dy float64
		want   Direction
	}{
		{100, 10, Right},
		{-100, 10, Left},
		{10, 100, Down},
		{10, -100, Up},
		{50, 50, Down},
		{-50, -50, Up},
		{0, 0, None},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.dx, tt.dy), "dx=%v dy=%v", tt.dx, tt.dy)
	}
}

func TestDirectionString(t *testing.T) {
	assert.Equal(t, "right", Right.String())
	assert.Equal(t, "none", None.String())
	assert.Equal(t, "none", Direction(42).String())
}

func TestSwipeRightThenClears(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := NewSwipe(clk, 0)

	s.Start(0, 0)
	assert.Equal(t, State{None, true}, s.State())
	s.Move(100, 10)
	s.End()
	assert.Equal(t, State{Right, false}, s.State())

	clk.Advance(299 * time.Millisecond)
	assert.Equal(t, Right, s.State().Direction)
	clk.Advance(time.Millisecond)
	assert.Equal(t, State{}, s.State())
}

func TestSwipeDown(t *testing.T) {
	s := NewSwipe(clock.NewManual(epoch), 0)
	s.Start(0, 0)
	s.Move(10, 100)
	s.End()
	assert.Equal(t, Down, s.State().Direction)
}

func TestLastMoveWins(t *testing.T) {
	s := NewSwipe(clock.NewManual(epoch), 0)
	s.Start(50, 50)
	s.Move(150, 50)
	assert.Equal(t, Right, s.State().Direction)
	s.Move(50, -100)
	assert.Equal(t, Up, s.State().Direction)
	s.Move(50, 50)
	assert.Equal(t, None, s.State().Direction)
}

func TestStartCancelsPendingClear(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := NewSwipe(clk, 0)
	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })

	s.Start(0, 0)
	s.Move(-100, 0)
	s.End()
	clk.Advance(200 * time.Millisecond)

	s.Start(0, 0)
	s.Move(0, -80)
	clk.Advance(200 * time.Millisecond)
	assert.Equal(t, State{Up, true}, s.State(), "stale clear must not fire")

	s.End()
	clk.Advance(300 * time.Millisecond)
	assert.Equal(t, []State{
		{None, true}, {Left, true}, {Left, false},
		{None, true}, {Up, true}, {Up, false},
		{None, false},
	}, seen)
	assert.Equal(t, 0, clk.Pending())
}

func TestMoveOutsideGestureIgnored(t *testing.T) {
	s := NewSwipe(clock.NewManual(epoch), 0)
	s.Move(100, 0)
	s.End()
	assert.Equal(t, State{}, s.State())
}

func TestBindAndClose(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := NewSwipe(clk, 50*time.Millisecond)
	assert.ErrorIs(t, s.Bind(nil), ErrUnsupported)

	src := &fakeTouch{}
	require.NoError(t, s.Bind(src))
	src.start[0](0, 0)
	src.move[0](-30, 5)
	src.end[0]()
	assert.Equal(t, State{Left, false}, s.State())

	s.Close()
	s.Close()
	assert.Equal(t, 3, src.unsub)
	assert.Equal(t, 0, clk.Pending())
	clk.Advance(time.Second)
	assert.Equal(t, Left, s.State().Direction, "closed recognizer keeps its last state")
}

func TestCloseDuringPendingClearResetsDirection(t *testing.T) {
	clk := clock.NewManual(epoch)
	s := NewSwipe(clk, 0)
	var seen []State
	s.Subscribe(func(st State) { seen = append(seen, st) })

	s.Start(0, 0)
	s.Move(-100, 0)
	s.End()
	require.Equal(t, Left, s.State().Direction)
	notified := len(seen)

	s.Close()
	assert.Equal(t, State{}, s.State())
	assert.Equal(t, 0, clk.Pending())

	clk.Advance(time.Second)
	assert.Equal(t, State{}, s.State())
	assert.Len(t, seen, notified, "close does not notify")
}
