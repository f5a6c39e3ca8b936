package primitive

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/clock"
	"github.com/comalice/motionx/gate"
	"github.com/comalice/motionx/internal/telemetry"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/viewport"
)

// Env holds the capabilities primitives draw on. Zero fields get
// defaults: the built-in registry, an open gate, the real clock, a
// discarding sink and a no-op logger. A nil Observer means the host cannot
// observe visibility and reveals render their end state.
type Env struct {
	Registry *preset.Registry
	Gate     *gate.Gate
	Observer viewport.Observer
	Clock    clock.Clock
	Sink     Sink
	Logger   *zap.Logger
	Metrics  *telemetry.Instruments
}

func (e Env) withDefaults() Env {
	if e.Registry == nil {
		e.Registry = preset.Default()
	}
	if e.Gate == nil {
		e.Gate = gate.NewGate(true)
	}
	if e.Clock == nil {
		e.Clock = clock.Real{}
	}
	if e.Sink == nil {
		e.Sink = discard{}
	}
	if e.Logger == nil {
		e.Logger = zap.NewNop()
	}
	return e
}

// base is the machinery shared by every primitive: descriptor lookup, the
// variant machine, gate subscription and instruction output.
type base struct {
	env     Env
	kind    Kind
	surface viewport.SurfaceID
	desc    preset.Descriptor
	machine *motionx.Machine
	logger  *zap.Logger
	gateSub *gate.Subscription
	closed  bool

	exiting   bool
	exitTimer clock.Timer
	onExit    func()
}

func newBase(env Env, kind Kind, surface viewport.SurfaceID, name string, chart motionx.Chart) (*base, error) {
	env = env.withDefaults()
	desc, err := env.Registry.Get(name)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, surface, err)
	}
	m, err := motionx.NewMachine(chart, desc)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", kind, surface, err)
	}
	return &base{
		env:     env,
		kind:    kind,
		surface: surface,
		desc:    desc,
		machine: m,
		logger: env.Logger.With(
			zap.String("primitive", string(kind)),
			zap.String("surface", string(surface)),
		),
	}, nil
}

// Surface returns the animated surface.
func (b *base) Surface() viewport.SurfaceID { return b.surface }

// Current returns the state the surface was last moved to.
func (b *base) Current() motionx.StateName { return b.machine.Current() }

// Descriptor returns the descriptor the primitive renders with.
func (b *base) Descriptor() preset.Descriptor { return b.desc }

func (b *base) animating() bool { return b.env.Gate.ShouldAnimate() }

// watchGate subscribes fn to gate changes and reports the current value.
func (b *base) watchGate(fn func(bool)) bool {
	v, sub := b.env.Gate.Subscribe(fn)
	b.gateSub = sub
	return v
}

func (b *base) emit(from, to motionx.StateName, delay time.Duration, immediate bool) {
	in := Instruction{
		Surface:    b.surface,
		Primitive:  b.kind,
		Descriptor: b.desc.Name,
		From:       from,
		To:         to,
		Target:     b.desc.States[to],
		Immediate:  immediate,
	}
	if !immediate {
		in.Transition = b.desc.TransitionFor(to)
		in.Delay = delay
	}
	b.env.Sink.Emit(in)
	b.env.Metrics.Instruction(context.Background(), string(b.kind), immediate)
}

// place renders the current state without a transition.
func (b *base) place() {
	b.emit("", b.machine.Current(), 0, true)
}

// send takes the transition for evt, timed when the gate is open.
func (b *base) send(evt motionx.EventName, delay time.Duration) bool {
	step, ok := b.machine.Send(evt)
	if !ok {
		return false
	}
	b.emit(step.From, step.To, delay, !b.animating())
	return true
}

// settle jumps straight to state.
func (b *base) settle(state motionx.StateName) {
	step, err := b.machine.Jump(state)
	if err != nil {
		b.logger.Error("settle failed", zap.Error(err))
		return
	}
	b.emit(step.From, step.To, 0, true)
}

// exit moves into the exit state and calls done once the exit transition
// has had its effective duration. With the gate closed both happen now.
func (b *base) exit(done func()) {
	if b.closed || b.exiting {
		return
	}
	b.exiting = true
	b.onExit = done
	if !b.animating() || !b.send(motionx.EventExit, 0) {
		b.finishExit()
		return
	}
	d := b.desc.TransitionFor(motionx.StateExit).EffectiveDuration()
	b.exitTimer = b.env.Clock.AfterFunc(d, b.completeExit)
}

// finishExit cuts a running exit short.
func (b *base) finishExit() {
	b.stopExitTimer()
	b.settle(motionx.StateExit)
	b.completeExit()
}

func (b *base) completeExit() {
	b.exitTimer = nil
	done := b.onExit
	b.onExit = nil
	if done != nil {
		done()
	}
}

func (b *base) stopExitTimer() {
	if b.exitTimer != nil {
		b.exitTimer.Stop()
		b.exitTimer = nil
	}
}

// release drops the gate subscription and any pending exit. It reports
// false when already released.
func (b *base) release() bool {
	if b.closed {
		return false
	}
	b.closed = true
	b.gateSub.Close()
	b.stopExitTimer()
	b.onExit = nil
	return true
}
