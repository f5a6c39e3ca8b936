package primitive

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// RevealOptions configure FadeIn, ScaleIn and SlideIn.
type RevealOptions struct {
	Surface viewport.SurfaceID
	// Preset overrides the primitive's default descriptor.
	Preset string
	// Viewport sets threshold, margin and once/continuous mode.
	Viewport viewport.Options
	// Delay is added before the show transition.
	Delay time.Duration
}

// SlideDirection is the side a SlideIn enters from.
type SlideDirection string

const (
	SlideLeft  SlideDirection = "left"
	SlideRight SlideDirection = "right"
	SlideUp    SlideDirection = "up"
	SlideDown  SlideDirection = "down"
)

// Reveal shows a surface when it scrolls into view: hidden to visible, and
// back in continuous mode. Exit plays the unmount transition.
type Reveal struct {
	*base
	opts    RevealOptions
	trigger *viewport.Trigger
	unsub   func()
}

// FadeIn reveals with the fade-in preset.
func FadeIn(env Env, opts RevealOptions) (*Reveal, error) {
	return newReveal(env, KindFadeIn, preset.FadeIn, opts)
}

// ScaleIn reveals with the scale-in preset.
func ScaleIn(env Env, opts RevealOptions) (*Reveal, error) {
	return newReveal(env, KindScaleIn, preset.ScaleIn, opts)
}

// SlideIn reveals with the slide-in preset for dir.
func SlideIn(env Env, dir SlideDirection, opts RevealOptions) (*Reveal, error) {
	switch dir {
	case SlideLeft, SlideRight, SlideUp, SlideDown:
	default:
		return nil, fmt.Errorf("slide-in %s: unknown direction %q", opts.Surface, dir)
	}
	return newReveal(env, KindSlideIn, "slide-in-"+string(dir), opts)
}

func newReveal(env Env, kind Kind, name string, opts RevealOptions) (*Reveal, error) {
	if opts.Preset != "" {
		name = opts.Preset
	}
	if err := opts.Viewport.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, opts.Surface, err)
	}
	b, err := newBase(env, kind, opts.Surface, name, motionx.RevealChart())
	if err != nil {
		return nil, err
	}
	r := &Reveal{base: b, opts: opts}

	if !r.watchGate(r.onGate) {
		r.settle(motionx.StateVisible)
		return r, nil
	}
	r.place()

	t, err := viewport.Observe(r.env.Observer, opts.Surface, opts.Viewport, viewport.WithLogger(r.logger))
	if err != nil {
		r.logger.Debug("visibility unavailable, rendering end state", zap.Error(err))
		r.settle(motionx.StateVisible)
		return r, nil
	}
	r.trigger = t
	r.unsub = t.Subscribe(func(viewport.State) { r.follow() })
	r.follow()
	return r, nil
}

func (r *Reveal) follow() {
	if r.closed || r.exiting {
		return
	}
	if r.trigger.Active() {
		r.send(motionx.EventShow, r.opts.Delay)
		return
	}
	r.send(motionx.EventHide, 0)
}

func (r *Reveal) onGate(on bool) {
	if r.closed || on {
		return
	}
	r.releaseTrigger()
	if r.exiting {
		r.finishExit()
		return
	}
	if r.Current() != motionx.StateVisible {
		r.settle(motionx.StateVisible)
	}
}

// Trigger returns the visibility state, or the zero State when no
// observation ran.
func (r *Reveal) Trigger() viewport.State {
	if r.trigger == nil {
		return viewport.State{}
	}
	return r.trigger.State()
}

// Observing reports whether a visibility observation is live.
func (r *Reveal) Observing() bool {
	return r.trigger != nil && !r.trigger.Closed()
}

// Exit stops observing and plays the exit transition, calling
// onExitComplete when it has finished. Later calls are ignored.
func (r *Reveal) Exit(onExitComplete func()) {
	r.releaseTrigger()
	r.exit(onExitComplete)
}

// Close releases the observation and gate subscription. Safe to call more
// than once.
func (r *Reveal) Close() {
	r.releaseTrigger()
	r.release()
}

func (r *Reveal) releaseTrigger() {
	if r.unsub != nil {
		r.unsub()
		r.unsub = nil
	}
	if r.trigger != nil {
		r.trigger.Close()
	}
}
