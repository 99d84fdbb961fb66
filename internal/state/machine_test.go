package state

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type transition struct{ from, to string }

func newTestMachine() (*Machine, *[]transition, *time.Time) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	var seen []transition
	m := NewMachine(
		func() time.Time { return clock },
		func(from, to string) { seen = append(seen, transition{from, to}) },
	)
	return m, &seen, &clock
}

func TestMachine_StartsEmpty(t *testing.T) {
	m, _, _ := newTestMachine()

	assert.Equal(t, PhaseEmpty, m.Phase())
	assert.False(t, m.Can(EventSubmit))
	assert.True(t, m.Can(EventPopulate))
}

func TestMachine_FullLifecycle(t *testing.T) {
	m, seen, clock := newTestMachine()

	require.NoError(t, m.Touch())
	assert.Equal(t, PhaseActive, m.Phase())

	*clock = clock.Add(time.Minute)
	require.NoError(t, m.Trigger(EventSubmit))
	assert.Equal(t, PhaseSubmitted, m.Phase())
	assert.Equal(t, *clock, m.Since())

	require.NoError(t, m.Touch())
	assert.Equal(t, PhaseActive, m.Phase())

	require.NoError(t, m.Clear())
	assert.Equal(t, PhaseEmpty, m.Phase())

	assert.Equal(t, []transition{
		{PhaseEmpty, PhaseActive},
		{PhaseActive, PhaseSubmitted},
		{PhaseSubmitted, PhaseActive},
		{PhaseActive, PhaseEmpty},
	}, *seen)
}

func TestMachine_TouchWhenActiveIsNoop(t *testing.T) {
	m, seen, _ := newTestMachine()

	require.NoError(t, m.Touch())
	require.NoError(t, m.Touch())

	assert.Equal(t, PhaseActive, m.Phase())
	assert.Len(t, *seen, 1)
}

func TestMachine_ClearWhenEmptyIsNoop(t *testing.T) {
	m, seen, _ := newTestMachine()

	require.NoError(t, m.Clear())
	assert.Equal(t, PhaseEmpty, m.Phase())
	assert.Empty(t, *seen)
}

func TestMachine_SubmitEmptyFails(t *testing.T) {
	m, _, _ := newTestMachine()

	err := m.Trigger(EventSubmit)
	assert.Error(t, err)
	assert.Equal(t, PhaseEmpty, m.Phase())
}
