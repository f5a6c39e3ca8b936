package motionx

import (
	"fmt"
	"sort"
)

// Transition declares a legal move between two states.
type Transition struct {
	From  StateName `json:"from" yaml:"from"`
	Event EventName `json:"event" yaml:"event"`
	To    StateName `json:"to" yaml:"to"`
}

// Chart is the declared finite state machine of a primitive: its initial
// state and the complete list of legal transitions.
type Chart struct {
	Name        string       `json:"name" yaml:"name"`
	Initial     StateName    `json:"initial" yaml:"initial"`
	Transitions []Transition `json:"transitions" yaml:"transitions"`
}

// States returns every state the chart mentions, sorted by name.
func (c Chart) States() []StateName {
	seen := map[StateName]struct{}{}
	if c.Initial != "" {
		seen[c.Initial] = struct{}{}
	}
	for _, t := range c.Transitions {
		seen[t.From] = struct{}{}
		seen[t.To] = struct{}{}
	}
	out := make([]StateName, 0, len(seen))
	for s := range seen {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ChartBuilder provides a fluent API for declaring charts.
type ChartBuilder struct {
	chart Chart
}

// NewChartBuilder starts a chart named name that begins in initial.
func NewChartBuilder(name string, initial StateName) *ChartBuilder {
	return &ChartBuilder{chart: Chart{Name: name, Initial: initial}}
}

// On declares that evt moves the machine from one state to another.
func (b *ChartBuilder) On(from StateName, evt EventName, to StateName) *ChartBuilder {
	b.chart.Transitions = append(b.chart.Transitions, Transition{From: from, Event: evt, To: to})
	return b
}

// OnAny declares evt from each of the listed states to the same target.
func (b *ChartBuilder) OnAny(from []StateName, evt EventName, to StateName) *ChartBuilder {
	for _, f := range from {
		b.On(f, evt, to)
	}
	return b
}

// Build validates and returns the chart:
//   - name and initial state are required
//   - a (from, event) pair may be declared once
//   - every state must be reachable from the initial state
func (b *ChartBuilder) Build() (Chart, error) {
	c := b.chart
	if c.Name == "" {
		return Chart{}, fmt.Errorf("%w: name is required", ErrInvalidChart)
	}
	if c.Initial == "" {
		return Chart{}, fmt.Errorf("%w: chart %q has no initial state", ErrInvalidChart, c.Name)
	}

	edges := make(map[StateName][]StateName)
	declared := make(map[Transition]bool)
	for _, t := range c.Transitions {
		if t.From == "" || t.To == "" || t.Event == "" {
			return Chart{}, fmt.Errorf("%w: chart %q has an incomplete transition %+v", ErrInvalidChart, c.Name, t)
		}
		key := Transition{From: t.From, Event: t.Event}
		if declared[key] {
			return Chart{}, fmt.Errorf("%w: chart %q declares %q on %q twice", ErrInvalidChart, c.Name, t.Event, t.From)
		}
		declared[key] = true
		edges[t.From] = append(edges[t.From], t.To)
	}

	visited := map[StateName]bool{}
	stack := []StateName{c.Initial}
	for len(stack) > 0 {
		s := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if visited[s] {
			continue
		}
		visited[s] = true
		stack = append(stack, edges[s]...)
	}
	for _, s := range c.States() {
		if !visited[s] {
			return Chart{}, fmt.Errorf("%w: chart %q: state %q is unreachable from %q", ErrInvalidChart, c.Name, s, c.Initial)
		}
	}
	return c, nil
}

// MustBuild is Build for package-level chart declarations.
func (b *ChartBuilder) MustBuild() Chart {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}

// RevealChart drives entrance primitives: hidden <-> visible, and either
// into exit on unmount.
func RevealChart() Chart {
	return NewChartBuilder("reveal", StateHidden).
		On(StateHidden, EventShow, StateVisible).
		On(StateVisible, EventHide, StateHidden).
		OnAny([]StateName{StateHidden, StateVisible}, EventExit, StateExit).
		MustBuild()
}

// LoopChart drives continuously repeating primitives.
func LoopChart() Chart {
	return NewChartBuilder("loop", StateRest).
		On(StateRest, EventStart, StateAnimate).
		On(StateAnimate, EventStop, StateRest).
		MustBuild()
}

// BurstChart drives one-shot keyframe bursts that restart on every trigger.
func BurstChart() Chart {
	return NewChartBuilder("burst", StateRest).
		On(StateRest, EventTrigger, StateShake).
		On(StateShake, EventTrigger, StateShake).
		On(StateShake, EventSettle, StateRest).
		MustBuild()
}

// PresenceChart drives mount/unmount transitions.
func PresenceChart() Chart {
	return NewChartBuilder("presence", StateInitial).
		On(StateInitial, EventShow, StateAnimate).
		OnAny([]StateName{StateInitial, StateAnimate}, EventExit, StateExit).
		MustBuild()
}

// InteractiveChart drives pointer feedback: rest, hover and tap.
func InteractiveChart() Chart {
	return NewChartBuilder("interactive", StateRest).
		On(StateRest, EventEnter, StateHover).
		On(StateRest, EventPress, StateTap).
		On(StateHover, EventLeave, StateRest).
		On(StateHover, EventPress, StateTap).
		On(StateTap, EventRelease, StateHover).
		On(StateTap, EventLeave, StateRest).
		MustBuild()
}
