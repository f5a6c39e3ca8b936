// Package primitive binds triggers to presets as named, reusable motion
// intents: fade, scale and slide reveals, staggered children, looping
// ambient motion, shake bursts, page transitions and pointer feedback.
//
// Every primitive consults the motion gate before anything else. With the
// gate closed a primitive renders its end state immediately and never
// starts a trigger. Output is a stream of Instructions delivered to a Sink;
// interpolating between property sets is left to the renderer.
//
// Primitives are not safe for concurrent use. Drive them, their triggers
// and the gate's subscribers from the same goroutine (see package loop).
package primitive

import (
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// Kind names a primitive.
type Kind string

const (
	KindFadeIn      Kind = "fade-in"
	KindScaleIn     Kind = "scale-in"
	KindSlideIn     Kind = "slide-in"
	KindStagger     Kind = "stagger-children"
	KindStaggerItem Kind = "stagger-item"
	KindFloating    Kind = "floating"
	KindPulse       Kind = "pulse"
	KindShake       Kind = "shake"
	KindPage        Kind = "page-transition"
	KindInteractive Kind = "interactive"
)

// Instruction asks the renderer to move Surface from one state to another
// using the named descriptor. Immediate instructions carry no timing and
// must be applied in a single frame. An empty From marks the first render
// of a surface.
type Instruction struct {
	Surface    viewport.SurfaceID
	Primitive  Kind
	Descriptor string
	From       motionx.StateName
	To         motionx.StateName
	Target     preset.Target
	Transition preset.Transition
	Delay      time.Duration
	Immediate  bool
}

// Sink receives instructions.
type Sink interface {
	Emit(Instruction)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Instruction)

func (f SinkFunc) Emit(in Instruction) { f(in) }

type discard struct{}

func (discard) Emit(Instruction) {}

// ChannelSink forwards instructions to a channel without blocking. When the
// channel is full the instruction is dropped and counted.
type ChannelSink struct {
	ch      chan<- Instruction
	logger  *zap.Logger
	dropped atomic.Uint64
}

// NewChannelSink returns a sink writing to ch.
func NewChannelSink(ch chan<- Instruction, logger *zap.Logger) *ChannelSink {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ChannelSink{ch: ch, logger: logger}
}

func (s *ChannelSink) Emit(in Instruction) {
	select {
	case s.ch <- in:
	default:
		s.dropped.Add(1)
		s.logger.Warn("instruction dropped",
			zap.String("surface", string(in.Surface)),
			zap.String("primitive", string(in.Primitive)),
			zap.String("to", string(in.To)))
	}
}

// Dropped returns the number of instructions lost to backpressure.
func (s *ChannelSink) Dropped() uint64 { return s.dropped.Load() }

// Close closes the channel. Emit must not be called afterwards.
func (s *ChannelSink) Close() error {
	close(s.ch)
	return nil
}

// Recorder keeps every instruction in memory.
type Recorder struct {
	mu   sync.Mutex
	list []Instruction
}

func (r *Recorder) Emit(in Instruction) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = append(r.list, in)
}

// Instructions returns a copy of everything recorded.
func (r *Recorder) Instructions() []Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Instruction(nil), r.list...)
}

// For returns the instructions recorded for surface.
func (r *Recorder) For(surface viewport.SurfaceID) []Instruction {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Instruction
	for _, in := range r.list {
		if in.Surface == surface {
			out = append(out, in)
		}
	}
	return out
}

// Last returns the most recent instruction for surface.
func (r *Recorder) Last(surface viewport.SurfaceID) (Instruction, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.list) - 1; i >= 0; i-- {
		if r.list[i].Surface == surface {
			return r.list[i], true
		}
	}
	return Instruction{}, false
}

// Reset forgets everything recorded.
func (r *Recorder) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.list = nil
}
