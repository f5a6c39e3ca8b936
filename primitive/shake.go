package primitive

import (
	"github.com/comalice/motionx"
	"github.com/comalice/motionx/clock"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// ShakeOptions configure NewShake.
type ShakeOptions struct {
	Surface viewport.SurfaceID
	Preset  string
}

// Shake plays a one-shot keyframe burst every time its trigger flips to
// true, restarting a burst that is still running.
type Shake struct {
	*base
	trigger bool
	timer   clock.Timer
	gen     uint64
}

// NewShake mounts a shake primitive at rest.
func NewShake(env Env, opts ShakeOptions) (*Shake, error) {
	name := preset.Shake
	if opts.Preset != "" {
		name = opts.Preset
	}
	b, err := newBase(env, KindShake, opts.Surface, name, motionx.BurstChart())
	if err != nil {
		return nil, err
	}
	s := &Shake{base: b}
	s.watchGate(s.onGate)
	s.place()
	return s, nil
}

// SetTrigger updates the trigger. A false to true flip starts a burst.
func (s *Shake) SetTrigger(v bool) {
	prev := s.trigger
	s.trigger = v
	if s.closed || !v || prev {
		return
	}
	if !s.animating() {
		s.logger.Debug("shake suppressed, motion disabled")
		return
	}
	s.cancel()
	if !s.send(motionx.EventTrigger, 0) {
		return
	}
	gen := s.gen
	d := s.desc.TransitionFor(motionx.StateShake).EffectiveDuration()
	s.timer = s.env.Clock.AfterFunc(d, func() {
		if gen != s.gen || s.closed {
			return
		}
		s.timer = nil
		s.send(motionx.EventSettle, 0)
	})
}

// Shaking reports whether a burst is running.
func (s *Shake) Shaking() bool { return s.Current() == motionx.StateShake }

func (s *Shake) onGate(on bool) {
	if s.closed || on {
		return
	}
	s.cancel()
	if s.Current() != motionx.StateRest {
		s.settle(motionx.StateRest)
	}
}

func (s *Shake) cancel() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.gen++
}

// Close cancels a running burst's settle and stops following the gate.
// Safe to call more than once.
func (s *Shake) Close() {
	s.cancel()
	s.release()
}
