// Package viewport tells primitives whether a surface is inside the visible
// area.
//
// The observation mechanism is a capability (Observer) injected by the host;
// a Trigger turns its entries into the {InView, HasBeenInView} pair that
// reveal primitives bind to. HasBeenInView never goes back to false within
// one observation session.
package viewport

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	// ErrUnsupported is returned when no observation capability exists.
	// Callers degrade to rendering the end state.
	ErrUnsupported = errors.New("viewport: observation unsupported")
	// ErrInvalidOptions is returned for out-of-range trigger options.
	ErrInvalidOptions = errors.New("viewport: invalid options")
)

// SurfaceID identifies an observed surface.
type SurfaceID string

// Mode selects which half of the state drives a primitive.
type Mode int

const (
	// Continuous follows InView and may animate repeatedly.
	Continuous Mode = iota
	// Once follows HasBeenInView and stays revealed.
	Once
)

func (m Mode) String() string {
	if m == Once {
		return "once"
	}
	return "continuous"
}

// Options configure an observation.
type Options struct {
	// Threshold is the visible fraction of the surface, in [0,1], at which
	// it counts as in view. Zero means any overlap.
	Threshold float64
	// Margin grows (or, when negative, shrinks) the viewing area in pixels.
	Margin float64
	Mode   Mode
}

// Validate reports out-of-range options.
func (o Options) Validate() error {
	if o.Threshold < 0 || o.Threshold > 1 {
		return fmt.Errorf("%w: threshold %v outside [0,1]", ErrInvalidOptions, o.Threshold)
	}
	return nil
}

// Entry is one intersection change reported by an Observer.
type Entry struct {
	Surface        SurfaceID
	IsIntersecting bool
	Ratio          float64
}

// Observation is a live observation; Disconnect must release it
// synchronously and be safe to call more than once.
type Observation interface {
	Disconnect()
}

// Observer is the host's intersection capability.
type Observer interface {
	Observe(surface SurfaceID, opts Options, fn func(Entry)) (Observation, error)
}

// State is the trigger output.
type State struct {
	InView        bool
	HasBeenInView bool
}

// Trigger tracks one observation session for one surface.
// Not safe for concurrent use.
type Trigger struct {
	id      string
	surface SurfaceID
	opts    Options
	logger  *zap.Logger

	obs    Observation
	state  State
	nextID int
	subs   map[int]func(State)
	order  []int
	closed bool
}

// TriggerOption configures a Trigger.
type TriggerOption func(*Trigger)

// WithLogger sets the trigger's logger.
func WithLogger(l *zap.Logger) TriggerOption {
	return func(t *Trigger) {
		t.logger = l
	}
}

// Observe starts a session for surface on o. A nil observer yields
// ErrUnsupported.
func Observe(o Observer, surface SurfaceID, opts Options, topts ...TriggerOption) (*Trigger, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if o == nil {
		return nil, ErrUnsupported
	}
	t := &Trigger{
		id:      uuid.NewString(),
		surface: surface,
		opts:    opts,
		logger:  zap.NewNop(),
		subs:    make(map[int]func(State)),
	}
	for _, opt := range topts {
		opt(t)
	}
	t.logger = t.logger.With(zap.String("session", t.id), zap.String("surface", string(surface)))

	obs, err := o.Observe(surface, opts, t.handle)
	if err != nil {
		return nil, fmt.Errorf("observe %s: %w", surface, err)
	}
	if t.closed {
		// A synchronous first entry completed a once-mode session.
		obs.Disconnect()
		return t, nil
	}
	t.obs = obs
	t.logger.Debug("observation started", zap.Stringer("mode", opts.Mode))
	return t, nil
}

// ID returns the session identifier.
func (t *Trigger) ID() string { return t.id }

// Surface returns the observed surface.
func (t *Trigger) Surface() SurfaceID { return t.surface }

// State returns the current state.
func (t *Trigger) State() State { return t.state }

// Active reports the value the trigger's mode follows.
func (t *Trigger) Active() bool {
	if t.opts.Mode == Once {
		return t.state.HasBeenInView
	}
	return t.state.InView
}

// Subscribe registers fn for state changes.
func (t *Trigger) Subscribe(fn func(State)) (unsubscribe func()) {
	id := t.nextID
	t.nextID++
	t.subs[id] = fn
	t.order = append(t.order, id)
	return func() { delete(t.subs, id) }
}

// Close ends the session and releases the observation synchronously. Safe
// to call more than once.
func (t *Trigger) Close() {
	if t.obs != nil {
		t.obs.Disconnect()
		t.obs = nil
	}
	if !t.closed {
		t.closed = true
		t.logger.Debug("observation ended")
	}
	t.subs = map[int]func(State){}
}

// Closed reports whether the session is over.
func (t *Trigger) Closed() bool { return t.closed }

func (t *Trigger) handle(e Entry) {
	if t.closed {
		return
	}
	next := State{
		InView:        e.IsIntersecting,
		HasBeenInView: t.state.HasBeenInView || e.IsIntersecting,
	}
	if next == t.state {
		return
	}
	t.state = next
	for _, id := range t.order {
		if fn, ok := t.subs[id]; ok {
			fn(next)
		}
	}
	if t.opts.Mode == Once && next.HasBeenInView {
		// Nothing left to learn; keep the revealed state, drop the observer.
		t.Close()
	}
}
