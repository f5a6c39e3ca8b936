package primitive

import (
	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// LoopOptions configure Floating and Pulse.
type LoopOptions struct {
	Surface viewport.SurfaceID
	Preset  string
}

// Loop runs a repeating keyframe animation for as long as it is mounted
// and motion is allowed. It rests while the gate is closed and restarts
// when it reopens.
type Loop struct {
	*base
}

// Floating mounts the floating loop.
func Floating(env Env, opts LoopOptions) (*Loop, error) {
	return newLoop(env, KindFloating, preset.Floating, opts)
}

// Pulse mounts the pulse loop.
func Pulse(env Env, opts LoopOptions) (*Loop, error) {
	return newLoop(env, KindPulse, preset.Pulse, opts)
}

func newLoop(env Env, kind Kind, name string, opts LoopOptions) (*Loop, error) {
	if opts.Preset != "" {
		name = opts.Preset
	}
	b, err := newBase(env, kind, opts.Surface, name, motionx.LoopChart())
	if err != nil {
		return nil, err
	}
	l := &Loop{base: b}
	on := l.watchGate(l.onGate)
	l.place()
	if on {
		l.send(motionx.EventStart, 0)
	}
	return l, nil
}

func (l *Loop) onGate(on bool) {
	if l.closed {
		return
	}
	if on {
		l.send(motionx.EventStart, 0)
		return
	}
	if l.Current() != motionx.StateRest {
		l.settle(motionx.StateRest)
	}
}

// Running reports whether the loop is animating.
func (l *Loop) Running() bool { return l.Current() == motionx.StateAnimate }

// Close stops following the gate. Safe to call more than once.
func (l *Loop) Close() { l.release() }
