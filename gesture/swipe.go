// Package gesture classifies press-move-release input into swipe directions.
package gesture

import (
	"errors"
	"math"
	"time"

	"github.com/comalice/motionx/clock"
)

// ErrUnsupported is returned by Bind when the host has no touch stream.
var ErrUnsupported = errors.New("gesture: touch source unsupported")

// DefaultClearDelay is how long the terminal direction stays readable
// after the gesture ends.
const DefaultClearDelay = 300 * time.Millisecond

// Direction of a swipe.
type Direction int

const (
	None Direction = iota
	Left
	Right
	Up
	Down
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "none"
	}
}

// Classify returns the direction of the larger axis of displacement.
// Ties go to the vertical axis; no displacement is None.
func Classify(dx, dy float64) Direction {
	if dx == 0 && dy == 0 {
		return None
	}
	if math.Abs(dx) > math.Abs(dy) {
		if dx > 0 {
			return Right
		}
		return Left
	}
	if dy > 0 {
		return Down
	}
	return Up
}

// State is the recognizer output.
type State struct {
	Direction Direction
	IsSwiping bool
}

// TouchSource is the host's touch event stream.
type TouchSource interface {
	OnTouchStart(fn func(x, y float64)) (unsubscribe func())
	OnTouchMove(fn func(x, y float64)) (unsubscribe func())
	OnTouchEnd(fn func()) (unsubscribe func())
}

// Swipe is the swipe recognizer. Not safe for concurrent use.
type Swipe struct {
	clk        clock.Clock
	clearDelay time.Duration
	state      State
	originX    float64
	originY    float64
	tracking   bool
	clear      clock.Timer
	gen        uint64
	subs       []func(State)
	unbind     []func()
}

// NewSwipe returns an idle recognizer. clearDelay <= 0 uses
// DefaultClearDelay.
func NewSwipe(clk clock.Clock, clearDelay time.Duration) *Swipe {
	if clearDelay <= 0 {
		clearDelay = DefaultClearDelay
	}
	return &Swipe{clk: clk, clearDelay: clearDelay}
}

// Start records the origin and begins a gesture, cancelling any pending
// direction clear.
func (s *Swipe) Start(x, y float64) {
	s.cancelClear()
	s.originX, s.originY = x, y
	s.tracking = true
	s.set(State{Direction: None, IsSwiping: true})
}

// Move reclassifies the gesture against the origin. The last move wins.
// Moves outside a gesture are ignored.
func (s *Swipe) Move(x, y float64) {
	if !s.tracking {
		return
	}
	s.set(State{Direction: Classify(x-s.originX, y-s.originY), IsSwiping: true})
}

// End finishes the gesture. The direction stays readable until the clear
// delay passes.
func (s *Swipe) End() {
	if !s.tracking {
		return
	}
	s.tracking = false
	s.originX, s.originY = 0, 0
	s.set(State{Direction: s.state.Direction})

	s.cancelClear()
	gen := s.gen
	s.clear = s.clk.AfterFunc(s.clearDelay, func() {
		if gen != s.gen {
			return
		}
		s.clear = nil
		s.set(State{})
	})
}

// State returns the current state.
func (s *Swipe) State() State { return s.state }

// Subscribe registers fn for state changes.
func (s *Swipe) Subscribe(fn func(State)) {
	s.subs = append(s.subs, fn)
}

// Bind feeds the recognizer from src until Close.
func (s *Swipe) Bind(src TouchSource) error {
	if src == nil {
		return ErrUnsupported
	}
	s.unbind = append(s.unbind,
		src.OnTouchStart(s.Start),
		src.OnTouchMove(s.Move),
		src.OnTouchEnd(s.End),
	)
	return nil
}

// Close unbinds touch streams, cancels the pending clear and returns the
// state to none without notifying. Safe to call more than once.
func (s *Swipe) Close() {
	for _, fn := range s.unbind {
		fn()
	}
	s.unbind = nil
	s.cancelClear()
	s.tracking = false
	s.state = State{}
	s.subs = nil
}

func (s *Swipe) cancelClear() {
	if s.clear != nil {
		s.clear.Stop()
		s.clear = nil
	}
	s.gen++
}

func (s *Swipe) set(next State) {
	if next == s.state {
		return
	}
	s.state = next
	for _, fn := range s.subs {
		fn(next)
	}
}
