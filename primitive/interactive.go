package primitive

import (
	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// InteractiveOptions configure Interactive.
type InteractiveOptions struct {
	Surface viewport.SurfaceID
	// Preset defaults to hover-lift.
	Preset string
}

// Pointer gives hover and press feedback. With motion disabled every
// move is rendered immediately.
type Pointer struct {
	*base
}

// Interactive mounts pointer feedback at rest.
func Interactive(env Env, opts InteractiveOptions) (*Pointer, error) {
	name := preset.HoverLift
	if opts.Preset != "" {
		name = opts.Preset
	}
	b, err := newBase(env, KindInteractive, opts.Surface, name, motionx.InteractiveChart())
	if err != nil {
		return nil, err
	}
	p := &Pointer{base: b}
	p.watchGate(p.onGate)
	p.place()
	return p, nil
}

func (p *Pointer) Enter()   { p.on(motionx.EventEnter) }
func (p *Pointer) Leave()   { p.on(motionx.EventLeave) }
func (p *Pointer) Press()   { p.on(motionx.EventPress) }
func (p *Pointer) Release() { p.on(motionx.EventRelease) }

func (p *Pointer) on(evt motionx.EventName) {
	if p.closed {
		return
	}
	p.send(evt, 0)
}

func (p *Pointer) onGate(on bool) {
	if p.closed || on {
		return
	}
	if p.Current() != motionx.StateRest {
		p.settle(motionx.StateRest)
	}
}

// Close stops following the gate. Safe to call more than once.
func (p *Pointer) Close() { p.release() }
