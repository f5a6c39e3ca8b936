package primitive

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/comalice/motionx"
	"github.com/comalice/motionx/preset"
	"github.com/comalice/motionx/sequence"
	"github.com/comalice/motionx/viewport"
)

// StaggerOptions configure StaggerChildren.
type StaggerOptions struct {
	Surface  viewport.SurfaceID
	Children []viewport.SurfaceID
	// Container and Item override the default descriptors.
	Container string
	Item      string
	Viewport  viewport.Options
	// Stagger overrides the offsets taken from the container's visible
	// transition (DelayChildren, StaggerChildren).
	Stagger *sequence.Stagger
}

// Stagger reveals a container and then its children, child i offset by
// Stagger.Delay(i).
type Stagger struct {
	*base
	items   []*base
	stagger sequence.Stagger
	trigger *viewport.Trigger
	unsub   func()
}

// Delay is the entrance offset of one child.
type Delay struct {
	Surface viewport.SurfaceID
	Delay   time.Duration
}

// StaggerChildren mounts a staggered reveal.
func StaggerChildren(env Env, opts StaggerOptions) (*Stagger, error) {
	if err := opts.Viewport.Validate(); err != nil {
		return nil, fmt.Errorf("%s %s: %w", KindStagger, opts.Surface, err)
	}
	containerName, itemName := preset.StaggerContainer, preset.StaggerItem
	if opts.Container != "" {
		containerName = opts.Container
	}
	if opts.Item != "" {
		itemName = opts.Item
	}

	b, err := newBase(env, KindStagger, opts.Surface, containerName, motionx.RevealChart())
	if err != nil {
		return nil, err
	}
	s := &Stagger{base: b}
	for _, child := range opts.Children {
		item, err := newBase(env, KindStaggerItem, child, itemName, motionx.RevealChart())
		if err != nil {
			return nil, err
		}
		s.items = append(s.items, item)
	}
	if opts.Stagger != nil {
		s.stagger = *opts.Stagger
	} else {
		tr := b.desc.TransitionFor(motionx.StateVisible)
		s.stagger = sequence.Stagger{Start: tr.DelayChildren, Each: tr.StaggerChildren}
	}

	if !s.watchGate(s.onGate) {
		s.settleAll()
		return s, nil
	}
	s.place()
	for _, item := range s.items {
		item.place()
	}

	t, err := viewport.Observe(s.env.Observer, opts.Surface, opts.Viewport, viewport.WithLogger(s.logger))
	if err != nil {
		s.logger.Debug("visibility unavailable, rendering end state", zap.Error(err))
		s.settleAll()
		return s, nil
	}
	s.trigger = t
	s.unsub = t.Subscribe(func(viewport.State) { s.follow() })
	s.follow()
	return s, nil
}

func (s *Stagger) follow() {
	if s.closed {
		return
	}
	if s.trigger.Active() {
		s.send(motionx.EventShow, 0)
		for i, item := range s.items {
			item.send(motionx.EventShow, s.stagger.Delay(i))
		}
		return
	}
	s.send(motionx.EventHide, 0)
	for _, item := range s.items {
		item.send(motionx.EventHide, 0)
	}
}

func (s *Stagger) onGate(on bool) {
	if s.closed || on {
		return
	}
	s.releaseTrigger()
	s.settleAll()
}

func (s *Stagger) settleAll() {
	for _, b := range append([]*base{s.base}, s.items...) {
		if b.Current() != motionx.StateVisible {
			b.settle(motionx.StateVisible)
		}
	}
}

// Delays returns the offset applied to each child.
func (s *Stagger) Delays() []Delay {
	out := make([]Delay, len(s.items))
	for i, item := range s.items {
		out[i] = Delay{Surface: item.surface, Delay: s.stagger.Delay(i)}
	}
	return out
}

// Children returns the state of each child, in order.
func (s *Stagger) Children() []motionx.StateName {
	out := make([]motionx.StateName, len(s.items))
	for i, item := range s.items {
		out[i] = item.Current()
	}
	return out
}

// Close releases the observation and gate subscription. Safe to call more
// than once.
func (s *Stagger) Close() {
	s.releaseTrigger()
	s.release()
	for _, item := range s.items {
		item.release()
	}
}

func (s *Stagger) releaseTrigger() {
	if s.unsub != nil {
		s.unsub()
		s.unsub = nil
	}
	if s.trigger != nil {
		s.trigger.Close()
	}
}
