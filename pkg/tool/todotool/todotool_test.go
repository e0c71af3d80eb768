package todotool

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

func TestWriteTodosReplacesList(t *testing.T) {
	tl, err := New()
	require.NoError(t, err)

	res, err := tl.Execute(map[string]any{
		"todos": []map[string]any{
			{"content": "a", "status": "pending"},
			{"content": "b", "status": "in_progress"},
		},
	}, toolruntime.Runtime{})
	require.NoError(t, err)
	require.Len(t, res.Updates, 1)
}

func TestWriteTodosRejectsBadStatus(t *testing.T) {
	tl, err := New()
	require.NoError(t, err)

	_, err = tl.Execute(map[string]any{
		"todos": []map[string]any{{"content": "a", "status": "bogus"}},
	}, toolruntime.Runtime{})
	require.Error(t, err)
}

func TestReadTodosReportsEmptyList(t *testing.T) {
	tl, err := NewRead()
	require.NoError(t, err)

	res, err := tl.Execute(map[string]any{}, toolruntime.Runtime{State: &state.AgentState{}})
	require.NoError(t, err)
	require.Contains(t, res.Message, "empty")
}

func TestReadTodosReportsItems(t *testing.T) {
	tl, err := NewRead()
	require.NoError(t, err)

	st := &state.AgentState{Todos: []state.Todo{
		{Content: "write tests", Status: state.TodoInProgress},
	}}
	res, err := tl.Execute(map[string]any{}, toolruntime.Runtime{State: st})
	require.NoError(t, err)
	require.Contains(t, res.Message, "write tests")
	require.Contains(t, res.Message, "in_progress")
}
