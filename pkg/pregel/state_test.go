package pregel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

type counterUpdate struct{ delta int }

func (u counterUpdate) IsEmpty() bool { return u.delta == 0 }

type counterState struct{ count int }

func (s counterState) ApplyUpdate(u counterUpdate) pregel.WorkflowState[counterUpdate] {
	return counterState{count: s.count + u.delta}
}

func (s counterState) MergeUpdates(updates []counterUpdate) counterUpdate {
	total := 0
	for _, u := range updates {
		total += u.delta
	}
	return counterUpdate{delta: total}
}

func (s counterState) IsTerminal() bool { return s.count >= 100 }

func TestApplyUpdatesMergesThenApplies(t *testing.T) {
	s := counterState{count: 0}
	updates := []counterUpdate{{delta: 10}, {delta: 20}, {delta: 5}}

	result := pregel.ApplyUpdates[counterUpdate](s, updates)
	require.Equal(t, counterState{count: 35}, result)
}

func TestApplyUpdatesEmptyIsNoop(t *testing.T) {
	s := counterState{count: 42}
	result := pregel.ApplyUpdates[counterUpdate](s, nil)
	require.Equal(t, s, result)
}

func TestCounterStateTerminal(t *testing.T) {
	require.False(t, counterState{count: 50}.IsTerminal())
	require.True(t, counterState{count: 100}.IsTerminal())
	require.True(t, counterState{count: 150}.IsTerminal())
}

func TestUnitState(t *testing.T) {
	var s pregel.UnitState
	require.True(t, pregel.UnitUpdate{}.IsEmpty())

	next := s.ApplyUpdate(pregel.UnitUpdate{})
	require.False(t, next.IsTerminal())

	merged := s.MergeUpdates([]pregel.UnitUpdate{{}, {}})
	require.True(t, merged.IsEmpty())
}
