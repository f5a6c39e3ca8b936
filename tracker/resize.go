package tracker

import (
	"time"

	"github.com/comalice/motionx/clock"
)

// ResizeSource is the host's window resize stream.
type ResizeSource interface {
	Size() (width, height float64)
	OnResize(fn func(width, height float64)) (unsubscribe func())
}

// ResizeState is the Resize tracker output.
type ResizeState struct {
	Width, Height float64
	IsResizing    bool
}

// Resize tracks the window size and whether a resize is in progress.
type Resize struct {
	state       ResizeState
	subs        listeners[ResizeState]
	quiet       debouncer
	unsubscribe func()
	closed      bool
}

// NewResize subscribes to src. IsResizing clears once quiet has passed
// without a further event; quiet <= 0 uses DefaultResizeQuiet.
func NewResize(src ResizeSource, clk clock.Clock, quiet time.Duration) (*Resize, error) {
	if src == nil {
		return nil, ErrUnsupported
	}
	if quiet <= 0 {
		quiet = DefaultResizeQuiet
	}
	r := &Resize{}
	r.state.Width, r.state.Height = src.Size()
	r.quiet = debouncer{clk: clk, quiet: quiet, fn: r.settle}
	r.unsubscribe = src.OnResize(r.handle)
	return r, nil
}

func (r *Resize) handle(w, h float64) {
	if r.closed {
		return
	}
	r.state.Width, r.state.Height = w, h
	r.state.IsResizing = true
	r.quiet.poke()
	r.subs.emit(r.state)
}

func (r *Resize) settle() {
	r.state.IsResizing = false
	r.subs.emit(r.state)
}

// State returns the current size and flag.
func (r *Resize) State() ResizeState { return r.state }

// IsResizing reports whether a resize burst is in progress.
func (r *Resize) IsResizing() bool { return r.state.IsResizing }

// OnChange registers fn for every event and for the settle.
func (r *Resize) OnChange(fn func(ResizeState)) (unsubscribe func()) { return r.subs.add(fn) }

// Close releases the subscription and cancels the pending settle. Safe to
// call more than once.
func (r *Resize) Close() {
	r.closed = true
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
	r.quiet.cancel()
	r.subs.clear()
}
