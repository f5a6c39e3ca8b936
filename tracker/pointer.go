package tracker

import (
	"time"

	"github.com/comalice/motionx/clock"
)

// PointerSource is the host's pointer move stream.
type PointerSource interface {
	OnPointerMove(fn func(x, y float64)) (unsubscribe func())
}

// PointerState is the Pointer tracker output.
type PointerState struct {
	X, Y     float64
	IsMoving bool
}

// Pointer tracks the pointer position and whether it is moving.
type Pointer struct {
	state       PointerState
	subs        listeners[PointerState]
	quiet       debouncer
	unsubscribe func()
	closed      bool
}

// NewPointer subscribes to src. IsMoving clears once quiet has passed
// without movement; quiet <= 0 uses DefaultPointerQuiet.
func NewPointer(src PointerSource, clk clock.Clock, quiet time.Duration) (*Pointer, error) {
	if src == nil {
		return nil, ErrUnsupported
	}
	if quiet <= 0 {
		quiet = DefaultPointerQuiet
	}
	p := &Pointer{}
	p.quiet = debouncer{clk: clk, quiet: quiet, fn: p.settle}
	p.unsubscribe = src.OnPointerMove(p.handle)
	return p, nil
}

func (p *Pointer) handle(x, y float64) {
	if p.closed {
		return
	}
	p.state = PointerState{X: x, Y: y, IsMoving: true}
	p.quiet.poke()
	p.subs.emit(p.state)
}

func (p *Pointer) settle() {
	p.state.IsMoving = false
	p.subs.emit(p.state)
}

// State returns the last position and flag.
func (p *Pointer) State() PointerState { return p.state }

// Normalized maps the position into [-1,1] on both axes relative to the
// centre of a width x height area; zero-sized areas map to 0.
func (p *Pointer) Normalized(width, height float64) (nx, ny float64) {
	if width > 0 {
		nx = (p.state.X/width)*2 - 1
	}
	if height > 0 {
		ny = (p.state.Y/height)*2 - 1
	}
	return nx, ny
}

// OnChange registers fn for every move and for the settle.
func (p *Pointer) OnChange(fn func(PointerState)) (unsubscribe func()) { return p.subs.add(fn) }

// Close releases the subscription and cancels the pending settle. Safe to
// call more than once.
func (p *Pointer) Close() {
	p.closed = true
	if p.unsubscribe != nil {
		p.unsubscribe()
		p.unsubscribe = nil
	}
	p.quiet.cancel()
	p.subs.clear()
}
