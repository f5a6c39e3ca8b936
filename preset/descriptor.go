package preset

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/comalice/motionx"
)

// ErrInvalidDescriptor is returned for malformed descriptors.
var ErrInvalidDescriptor = errors.New("invalid descriptor")

// RepeatType controls how a repeating transition restarts.
type RepeatType string

const (
	RepeatLoop    RepeatType = "loop"
	RepeatReverse RepeatType = "reverse"
	RepeatMirror  RepeatType = "mirror"
)

// RepeatForever marks an infinitely repeating transition.
const RepeatForever = -1

// Transition is the timing of a move into a state. Ease and Spring are
// mutually exclusive; with neither set the renderer's default curve applies.
type Transition struct {
	Duration        time.Duration `json:"duration,omitempty" yaml:"duration,omitempty"`
	Delay           time.Duration `json:"delay,omitempty" yaml:"delay,omitempty"`
	Ease            []float64     `json:"ease,omitempty" yaml:"ease,omitempty"`
	Spring          *Spring       `json:"spring,omitempty" yaml:"spring,omitempty"`
	Repeat          int           `json:"repeat,omitempty" yaml:"repeat,omitempty"`
	RepeatType      RepeatType    `json:"repeatType,omitempty" yaml:"repeatType,omitempty"`
	StaggerChildren time.Duration `json:"staggerChildren,omitempty" yaml:"staggerChildren,omitempty"`
	DelayChildren   time.Duration `json:"delayChildren,omitempty" yaml:"delayChildren,omitempty"`
}

// Curve returns the timing curve, or nil when the transition leaves it to
// the renderer.
func (t Transition) Curve() Curve {
	if t.Spring != nil {
		return *t.Spring
	}
	if len(t.Ease) == 4 {
		return Bezier{t.Ease[0], t.Ease[1], t.Ease[2], t.Ease[3]}
	}
	return nil
}

// Infinite reports whether the transition repeats forever.
func (t Transition) Infinite() bool { return t.Repeat == RepeatForever }

// EffectiveDuration is the time from start until the transition has
// finished: delay plus every repetition, with spring transitions measured
// by their settle time. Infinite transitions report zero.
func (t Transition) EffectiveDuration() time.Duration {
	if t.Infinite() {
		return 0
	}
	once := t.Duration
	if t.Spring != nil {
		once = t.Spring.Settle()
	}
	return t.Delay + once*time.Duration(t.Repeat+1)
}

func (t Transition) validate() error {
	if t.Duration < 0 || t.Delay < 0 || t.StaggerChildren < 0 || t.DelayChildren < 0 {
		return errors.New("durations must not be negative")
	}
	if t.Spring != nil && len(t.Ease) > 0 {
		return errors.New("ease and spring are mutually exclusive")
	}
	if len(t.Ease) > 0 {
		if len(t.Ease) != 4 {
			return fmt.Errorf("ease needs 4 control points, got %d", len(t.Ease))
		}
		if t.Ease[0] < 0 || t.Ease[0] > 1 || t.Ease[2] < 0 || t.Ease[2] > 1 {
			return fmt.Errorf("ease x control points must be within [0,1], got %v", t.Ease)
		}
	}
	if t.Spring != nil {
		if err := t.Spring.validate(); err != nil {
			return err
		}
	}
	if t.Repeat < RepeatForever {
		return fmt.Errorf("repeat must be %d or more, got %d", RepeatForever, t.Repeat)
	}
	switch t.RepeatType {
	case "", RepeatLoop, RepeatReverse, RepeatMirror:
	default:
		return fmt.Errorf("unknown repeat type %q", t.RepeatType)
	}
	return nil
}

// Target is the set of property values a state resolves to.
type Target struct {
	Props      map[string]float64   `json:"props,omitempty" yaml:"props,omitempty"`
	Keyframes  map[string][]float64 `json:"keyframes,omitempty" yaml:"keyframes,omitempty"`
	Transition *Transition          `json:"transition,omitempty" yaml:"transition,omitempty"`
}

// Descriptor is a named mapping from state name to target values plus a
// default transition.
type Descriptor struct {
	Name       string                       `json:"name" yaml:"name"`
	States     map[motionx.StateName]Target `json:"states" yaml:"states"`
	Transition Transition                   `json:"transition,omitempty" yaml:"transition,omitempty"`
}

// HasState reports whether the descriptor defines name.
func (d Descriptor) HasState(name motionx.StateName) bool {
	_, ok := d.States[name]
	return ok
}

// StateNames returns the defined states, sorted.
func (d Descriptor) StateNames() []motionx.StateName {
	out := make([]motionx.StateName, 0, len(d.States))
	for s := range d.States {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// TransitionFor returns the timing used when entering state: the state's own
// override or the descriptor default.
func (d Descriptor) TransitionFor(state motionx.StateName) Transition {
	if t, ok := d.States[state]; ok && t.Transition != nil {
		return *t.Transition
	}
	return d.Transition
}

// Require fails with *motionx.UndefinedStateError when any of states is
// missing.
func (d Descriptor) Require(states ...motionx.StateName) error {
	for _, s := range states {
		if !d.HasState(s) {
			return &motionx.UndefinedStateError{Chart: d.Name, State: s}
		}
	}
	return nil
}

// Validate checks the descriptor for internal consistency.
func (d Descriptor) Validate() error {
	if d.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidDescriptor)
	}
	if len(d.States) == 0 {
		return fmt.Errorf("%w: %q defines no states", ErrInvalidDescriptor, d.Name)
	}
	if err := d.Transition.validate(); err != nil {
		return fmt.Errorf("%w: %q transition: %v", ErrInvalidDescriptor, d.Name, err)
	}
	for name, target := range d.States {
		if name == "" {
			return fmt.Errorf("%w: %q has an unnamed state", ErrInvalidDescriptor, d.Name)
		}
		for prop, frames := range target.Keyframes {
			if len(frames) == 0 {
				return fmt.Errorf("%w: %q state %q: keyframes for %q are empty", ErrInvalidDescriptor, d.Name, name, prop)
			}
		}
		if target.Transition != nil {
			if err := target.Transition.validate(); err != nil {
				return fmt.Errorf("%w: %q state %q transition: %v", ErrInvalidDescriptor, d.Name, name, err)
			}
		}
	}
	return nil
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Transition = d.Transition.clone()
	out.States = make(map[motionx.StateName]Target, len(d.States))
	for name, t := range d.States {
		c := Target{}
		if t.Props != nil {
			c.Props = make(map[string]float64, len(t.Props))
			for k, v := range t.Props {
				c.Props[k] = v
			}
		}
		if t.Keyframes != nil {
			c.Keyframes = make(map[string][]float64, len(t.Keyframes))
			for k, v := range t.Keyframes {
				c.Keyframes[k] = append([]float64(nil), v...)
			}
		}
		if t.Transition != nil {
			tr := t.Transition.clone()
			c.Transition = &tr
		}
		out.States[name] = c
	}
	return out
}

func (t Transition) clone() Transition {
	out := t
	if t.Ease != nil {
		out.Ease = append([]float64(nil), t.Ease...)
	}
	if t.Spring != nil {
		s := *t.Spring
		out.Spring = &s
	}
	return out
}
