package sequence

import (
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx/clock"
)

// ErrInvalidSequence is returned by Play for non-positive step counts or
// step durations.
var ErrInvalidSequence = errors.New("sequence: invalid sequence")

// State is the observable sequencer state.
type State struct {
	CurrentStep int
	IsPlaying   bool
}

// Task is the handle for one Play call.
type Task struct {
	s     *Sequencer
	gen   uint64
	timer clock.Timer
	total int
	step  time.Duration
	start time.Time
	next  int
	done  bool
}

// Cancel stops the task. Further calls, and calls after the task finished,
// are no-ops. Cancel does not touch the sequencer state; use Reset for that.
func (t *Task) Cancel() {
	if t == nil || t.done {
		return
	}
	t.done = true
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	if t.s.task == t {
		t.s.task = nil
	}
}

// Done reports whether the task finished or was cancelled.
func (t *Task) Done() bool { return t.done }

// Sequencer advances a step counter on a fixed interval. Only one task is
// active at a time. Not safe for concurrent use.
type Sequencer struct {
	clk      clock.Clock
	logger   *zap.Logger
	state    State
	task     *Task
	gen      uint64
	onStep   []func(int)
	onChange []func(State)
}

// Option configures a Sequencer.
type Option func(*Sequencer)

// WithLogger sets the logger used for debug output.
func WithLogger(l *zap.Logger) Option {
	return func(s *Sequencer) {
		if l != nil {
			s.logger = l
		}
	}
}

// New returns an idle sequencer driven by clk.
func New(clk clock.Clock, opts ...Option) *Sequencer {
	s := &Sequencer{clk: clk, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Play cancels any running task and starts a new one. Step 0 is emitted
// immediately, step k is due at start+k*step, and IsPlaying clears at
// start+total*step. Late timer delivery does not push later steps back.
func (s *Sequencer) Play(total int, step time.Duration) (*Task, error) {
	if total < 1 {
		return nil, fmt.Errorf("%w: total steps %d", ErrInvalidSequence, total)
	}
	if step <= 0 {
		return nil, fmt.Errorf("%w: step duration %s", ErrInvalidSequence, step)
	}
	s.cancel()

	s.gen++
	t := &Task{s: s, gen: s.gen, total: total, step: step, start: s.clk.Now(), next: 1}
	s.task = t
	s.logger.Debug("sequence play", zap.Int("total", total), zap.Duration("step", step))

	s.set(State{CurrentStep: 0, IsPlaying: true}, true)
	if !t.done && t.gen == s.gen {
		s.schedule(t)
	}
	return t, nil
}

// Reset cancels any running task and zeroes the state.
func (s *Sequencer) Reset() {
	s.cancel()
	s.gen++
	s.set(State{}, false)
}

// State returns the current state.
func (s *Sequencer) State() State { return s.state }

// Task returns the active task, or nil.
func (s *Sequencer) Task() *Task { return s.task }

// OnStep registers fn for every emitted step value.
func (s *Sequencer) OnStep(fn func(step int)) {
	s.onStep = append(s.onStep, fn)
}

// OnChange registers fn for every state change.
func (s *Sequencer) OnChange(fn func(State)) {
	s.onChange = append(s.onChange, fn)
}

func (s *Sequencer) cancel() {
	if s.task != nil {
		s.task.Cancel()
	}
}

// schedule arms the timer for step t.next against the task start.
func (s *Sequencer) schedule(t *Task) {
	due := t.start.Add(time.Duration(t.next) * t.step)
	t.timer = s.clk.AfterFunc(due.Sub(s.clk.Now()), func() { s.advance(t) })
}

func (s *Sequencer) advance(t *Task) {
	if t.done || t.gen != s.gen {
		return
	}
	t.timer = nil
	if s.state.CurrentStep >= t.total-1 {
		t.done = true
		s.task = nil
		s.set(State{CurrentStep: s.state.CurrentStep, IsPlaying: false}, false)
		return
	}
	t.next++
	s.set(State{CurrentStep: s.state.CurrentStep + 1, IsPlaying: true}, true)
	// A listener may have replayed or reset the sequencer.
	if t.done || t.gen != s.gen {
		return
	}
	s.schedule(t)
}

func (s *Sequencer) set(next State, stepped bool) {
	changed := next != s.state
	s.state = next
	if stepped {
		for _, fn := range s.onStep {
			fn(next.CurrentStep)
		}
	}
	if changed {
		for _, fn := range s.onChange {
			fn(next)
		}
	}
}
