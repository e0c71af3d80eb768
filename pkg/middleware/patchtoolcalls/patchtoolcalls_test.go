package patchtoolcalls_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/middleware/patchtoolcalls"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

func TestNoMessagesIsNoOp(t *testing.T) {
	m := patchtoolcalls.New()
	st := &state.AgentState{}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.Nil(t, upd)
}

func TestNoDanglingCallsIsNoOp(t *testing.T) {
	m := patchtoolcalls.New()
	st := &state.AgentState{
		Messages: []state.Message{
			state.NewUserMessage("Search for something"),
			state.NewAssistantMessage("Let me search", state.ToolCall{ID: "call_123", Name: "search"}),
			state.NewToolMessage("call_123", "Found results"),
			state.NewAssistantMessage("Here are the results"),
		},
	}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.Nil(t, upd)
}

func TestPatchesSingleDanglingCall(t *testing.T) {
	m := patchtoolcalls.New()
	st := &state.AgentState{
		Messages: []state.Message{
			state.NewUserMessage("Search for something"),
			state.NewAssistantMessage("Let me search", state.ToolCall{ID: "call_123", Name: "search"}),
			state.NewUserMessage("Never mind, do something else"),
		},
	}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.NotNil(t, upd)
	require.Equal(t, state.UpdateSetMessages, upd.Kind)
	require.Len(t, upd.Messages, 4)
	require.Equal(t, state.RoleTool, upd.Messages[2].Role)
	require.Equal(t, "call_123", upd.Messages[2].ToolCallID)
	require.Contains(t, upd.Messages[2].Content, "cancelled")
}

func TestPatchesMultipleDanglingCalls(t *testing.T) {
	m := patchtoolcalls.New()
	st := &state.AgentState{
		Messages: []state.Message{
			state.NewUserMessage("Do multiple things"),
			state.NewAssistantMessage("",
				state.ToolCall{ID: "call_1", Name: "search"},
				state.ToolCall{ID: "call_2", Name: "read_file"},
			),
			state.NewUserMessage("Cancel all"),
		},
	}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.NotNil(t, upd)
	require.Len(t, upd.Messages, 5)
	require.Equal(t, state.RoleTool, upd.Messages[2].Role)
	require.Equal(t, state.RoleTool, upd.Messages[3].Role)
}

func TestPartialDangling(t *testing.T) {
	m := patchtoolcalls.New()
	st := &state.AgentState{
		Messages: []state.Message{
			state.NewUserMessage("Do multiple things"),
			state.NewAssistantMessage("",
				state.ToolCall{ID: "call_1", Name: "search"},
				state.ToolCall{ID: "call_2", Name: "read_file"},
			),
			state.NewToolMessage("call_1", "Search result"),
			state.NewUserMessage("Cancel"),
		},
	}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.NotNil(t, upd)
	require.Len(t, upd.Messages, 5)

	var found bool
	for _, msg := range upd.Messages {
		if msg.Role == state.RoleTool && msg.ToolCallID == "call_2" {
			require.Contains(t, msg.Content, "cancelled")
			found = true
		}
	}
	require.True(t, found)
}

func TestCustomMessage(t *testing.T) {
	m := patchtoolcalls.New(patchtoolcalls.WithMessage("user cancelled"))
	st := &state.AgentState{
		Messages: []state.Message{
			state.NewUserMessage("Search"),
			state.NewAssistantMessage("", state.ToolCall{ID: "call_1", Name: "search"}),
		},
	}

	upd, err := m.BeforeAgent(context.Background(), st, toolruntime.Runtime{})
	require.NoError(t, err)
	require.NotNil(t, upd)
	require.Contains(t, upd.Messages[2].Content, "user cancelled")
}
