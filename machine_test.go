package motionx_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	. "github.com/comalice/motionx"
)

type states []StateName

func (s states) HasState(name StateName) bool {
	for _, n := range s {
		if n == name {
			return true
		}
	}
	return false
}

func TestNewMachineRejectsMissingState(t *testing.T) {
	_, err := NewMachine(RevealChart(), states{StateHidden, StateVisible})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUndefinedState))

	var undefined *UndefinedStateError
	require.ErrorAs(t, err, &undefined)
	assert.Equal(t, StateExit, undefined.State)
	assert.Equal(t, "reveal", undefined.Chart)
}

func TestMachineSendFollowsDeclaredTransitions(t *testing.T) {
	m, err := NewMachine(RevealChart(), states{StateHidden, StateVisible, StateExit})
	require.NoError(t, err)
	assert.Equal(t, StateHidden, m.Current())

	var seen []Step
	m.OnStep(func(s Step) { seen = append(seen, s) })

	step, ok := m.Send(EventShow)
	require.True(t, ok)
	assert.Equal(t, Step{From: StateHidden, Event: EventShow, To: StateVisible}, step)

	// Undeclared events are ignored.
	_, ok = m.Send(EventShow)
	assert.False(t, ok)
	assert.Equal(t, StateVisible, m.Current())

	_, ok = m.Send(EventExit)
	require.True(t, ok)
	assert.Equal(t, StateExit, m.Current())
	assert.False(t, m.Can(EventShow))
	assert.Len(t, seen, 2)
}

func TestMachineJump(t *testing.T) {
	m, err := NewMachine(LoopChart(), states{StateRest, StateAnimate})
	require.NoError(t, err)

	step, err := m.Jump(StateAnimate)
	require.NoError(t, err)
	assert.Equal(t, StateRest, step.From)
	assert.Equal(t, StateAnimate, m.Current())

	_, err = m.Jump(StateHover)
	assert.ErrorIs(t, err, ErrUndefinedState)
	assert.Equal(t, StateAnimate, m.Current())
}

func TestBurstChartRestarts(t *testing.T) {
	m, err := NewMachine(BurstChart(), states{StateRest, StateShake})
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		step, ok := m.Send(EventTrigger)
		require.True(t, ok)
		assert.Equal(t, StateShake, step.To)
	}
	_, ok := m.Send(EventSettle)
	require.True(t, ok)
	assert.Equal(t, StateRest, m.Current())
}

func TestInteractiveChart(t *testing.T) {
	m, err := NewMachine(InteractiveChart(), states{StateRest, StateHover, StateTap})
	require.NoError(t, err)

	events := []EventName{EventEnter, EventPress, EventRelease, EventLeave}
	want := []StateName{StateHover, StateTap, StateHover, StateRest}
	for i, evt := range events {
		_, ok := m.Send(evt)
		require.True(t, ok, "event %s", evt)
		assert.Equal(t, want[i], m.Current())
	}
}
