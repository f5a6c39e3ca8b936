package motionx

import (
	"errors"
	"fmt"
)

// StateName names a visual state of an animated surface (hidden, visible, rest, ...).
type StateName string

// EventName names an input that may move a Machine between states.
type EventName string

const (
	StateHidden  StateName = "hidden"
	StateVisible StateName = "visible"
	StateExit    StateName = "exit"
	StateRest    StateName = "rest"
	StateHover   StateName = "hover"
	StateTap     StateName = "tap"
	StateAnimate StateName = "animate"
	StateInitial StateName = "initial"
	StateShake   StateName = "shake"
)

const (
	EventShow    EventName = "show"
	EventHide    EventName = "hide"
	EventExit    EventName = "exit"
	EventStart   EventName = "start"
	EventStop    EventName = "stop"
	EventTrigger EventName = "trigger"
	EventSettle  EventName = "settle"
	EventEnter   EventName = "enter"
	EventLeave   EventName = "leave"
	EventPress   EventName = "press"
	EventRelease EventName = "release"
)

var (
	// ErrUndefinedState is returned when a chart references a state its
	// descriptor does not define, or a jump targets an unknown state.
	ErrUndefinedState = errors.New("undefined state")
	// ErrInvalidChart is returned by ChartBuilder.Build for malformed charts.
	ErrInvalidChart = errors.New("invalid chart")
)

// UndefinedStateError carries the chart and state that failed validation.
type UndefinedStateError struct {
	Chart string
	State StateName
}

func (e *UndefinedStateError) Error() string {
	return fmt.Sprintf("chart %q: state %q is not defined", e.Chart, e.State)
}

func (e *UndefinedStateError) Unwrap() error { return ErrUndefinedState }

// StateSet reports which states a descriptor defines.
type StateSet interface {
	HasState(name StateName) bool
}

// Step records one taken transition.
type Step struct {
	From  StateName
	Event EventName
	To    StateName
}

// Machine is a running instance of a Chart bound to a descriptor.
// Not safe for concurrent use; drive it from the owning event loop.
type Machine struct {
	chart     Chart
	table     map[StateName]map[EventName]StateName
	states    map[StateName]struct{}
	current   StateName
	observers []func(Step)
}

// NewMachine binds chart to the states defined by a descriptor. Every state
// the chart mentions must be defined, otherwise an *UndefinedStateError is
// returned and no machine is built.
func NewMachine(chart Chart, defined StateSet) (*Machine, error) {
	if chart.Initial == "" {
		return nil, fmt.Errorf("chart %q: %w: no initial state", chart.Name, ErrInvalidChart)
	}
	m := &Machine{
		chart:   chart,
		table:   make(map[StateName]map[EventName]StateName),
		states:  make(map[StateName]struct{}),
		current: chart.Initial,
	}
	for _, s := range chart.States() {
		if defined != nil && !defined.HasState(s) {
			return nil, &UndefinedStateError{Chart: chart.Name, State: s}
		}
		m.states[s] = struct{}{}
	}
	for _, t := range chart.Transitions {
		row, ok := m.table[t.From]
		if !ok {
			row = make(map[EventName]StateName)
			m.table[t.From] = row
		}
		row[t.Event] = t.To
	}
	return m, nil
}

// Chart returns the chart the machine was built from.
func (m *Machine) Chart() Chart { return m.chart }

// Current returns the active state.
func (m *Machine) Current() StateName { return m.current }

// Can reports whether evt has a declared transition from the current state.
func (m *Machine) Can(evt EventName) bool {
	_, ok := m.table[m.current][evt]
	return ok
}

// Send takes the declared transition for evt. Events with no transition from
// the current state are ignored and report false.
func (m *Machine) Send(evt EventName) (Step, bool) {
	to, ok := m.table[m.current][evt]
	if !ok {
		return Step{}, false
	}
	step := Step{From: m.current, Event: evt, To: to}
	m.current = to
	m.notify(step)
	return step, true
}

// Jump forces the machine into state without consulting the transition
// table. Used to render an end state immediately when motion is disabled.
func (m *Machine) Jump(state StateName) (Step, error) {
	if _, ok := m.states[state]; !ok {
		return Step{}, &UndefinedStateError{Chart: m.chart.Name, State: state}
	}
	step := Step{From: m.current, To: state}
	m.current = state
	m.notify(step)
	return step, nil
}

// OnStep registers fn to observe every step, including jumps.
func (m *Machine) OnStep(fn func(Step)) {
	m.observers = append(m.observers, fn)
}

func (m *Machine) notify(step Step) {
	for _, fn := range m.observers {
		fn(step)
	}
}
