package subagent_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/middleware/subagent"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// echoProvider returns an assistant message containing the last user
// message's content, so tests can assert on what the sub-agent actually saw.
type echoProvider struct {
	calls []llm.Request
}

func (p *echoProvider) Name() string         { return "echo" }
func (p *echoProvider) DefaultModel() string { return "echo-1" }

func (p *echoProvider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	p.calls = append(p.calls, req)
	var last string
	for _, m := range req.Messages {
		if m.Role == state.RoleUser {
			last = m.Content
		}
	}
	return llm.Response{Message: state.NewAssistantMessage("echo: " + last)}, nil
}

func (p *echoProvider) Stream(ctx context.Context, req llm.Request) (<-chan llm.Chunk, error) {
	return nil, llm.ErrStreamingUnsupported
}

func newTaskTool(t *testing.T, cfg subagent.Config) tool.Tool {
	t.Helper()
	m := subagent.New(cfg)
	tools := m.Tools()
	require.Len(t, tools, 1)
	return tools[0]
}

func TestTaskToolDelegatesToRegisteredSubAgent(t *testing.T) {
	reg := subagent.NewRegistry()
	require.NoError(t, reg.Register(subagent.NewSpec("researcher", "does research",
		subagent.WithSystemPrompt("You are a researcher."),
	)))

	provider := &echoProvider{}
	be := backend.NewMemoryBackend(nil)
	task := newTaskTool(t, subagent.Config{
		Registry:        reg,
		DefaultProvider: provider,
		Backend:         be,
		Pipeline:        middleware.NewPipeline(),
	})

	parent := &state.AgentState{Messages: []state.Message{state.NewUserMessage("unrelated parent history")}}
	rt := toolruntime.New(parent, be, "call_1")

	result, err := task.Execute(map[string]any{
		"subagent_type": "researcher",
		"prompt":        "find the boiling point of water",
	}, rt)
	require.NoError(t, err)
	require.Equal(t, "echo: find the boiling point of water", result.Message)
	require.Len(t, provider.calls, 1)
}

func TestTaskToolFailsForUnknownSubAgent(t *testing.T) {
	reg := subagent.NewRegistry()
	provider := &echoProvider{}
	be := backend.NewMemoryBackend(nil)
	task := newTaskTool(t, subagent.Config{
		Registry:        reg,
		DefaultProvider: provider,
		Backend:         be,
		Pipeline:        middleware.NewPipeline(),
	})

	rt := toolruntime.New(&state.AgentState{}, be, "call_1")
	_, err := task.Execute(map[string]any{
		"subagent_type": "ghost",
		"prompt":        "do something",
	}, rt)
	require.Error(t, err)
	require.Contains(t, err.Error(), "ghost")
}

func TestTaskToolFailsAtRecursionLimit(t *testing.T) {
	reg := subagent.NewRegistry()
	require.NoError(t, reg.Register(subagent.NewSpec("researcher", "does research")))

	provider := &echoProvider{}
	be := backend.NewMemoryBackend(nil)
	task := newTaskTool(t, subagent.Config{
		Registry:        reg,
		DefaultProvider: provider,
		Backend:         be,
		Pipeline:        middleware.NewPipeline(),
	})

	rt := toolruntime.Runtime{
		State:   &state.AgentState{},
		Backend: be,
		Config:  toolruntime.Config{MaxRecursion: 1, CurrentRecursion: 1},
	}
	_, err := task.Execute(map[string]any{
		"subagent_type": "researcher",
		"prompt":        "go deeper",
	}, rt)
	require.Error(t, err)
	require.Contains(t, err.Error(), "recursion limit")
}

func TestIsolatedStateDropsConversationButKeepsFiles(t *testing.T) {
	reg := subagent.NewRegistry()
	require.NoError(t, reg.Register(subagent.NewSpec("researcher", "does research")))

	provider := &echoProvider{}
	be := backend.NewMemoryBackend(func() string { return "2026-01-01T00:00:00Z" })
	task := newTaskTool(t, subagent.Config{
		Registry:        reg,
		DefaultProvider: provider,
		Backend:         be,
		Pipeline:        middleware.NewPipeline(),
	})

	parent := &state.AgentState{
		Messages: []state.Message{state.NewUserMessage("parent-only secret")},
		Todos:    []state.Todo{state.NewTodo("parent todo")},
		Files:    map[string]state.FileData{"/shared.txt": state.NewFileData("hello", "2026-01-01T00:00:00Z")},
	}
	rt := toolruntime.New(parent, be, "call_1")

	_, err := task.Execute(map[string]any{
		"subagent_type": "researcher",
		"prompt":        "look at /shared.txt",
	}, rt)
	require.NoError(t, err)

	// The parent's own state must be untouched by the delegation.
	require.Len(t, parent.Messages, 1)
	require.Len(t, parent.Todos, 1)
	require.Contains(t, parent.Files, "/shared.txt")

	require.Len(t, provider.calls, 1)
	sawSecret := false
	for _, m := range provider.calls[0].Messages {
		if m.Content == "parent-only secret" {
			sawSecret = true
		}
	}
	require.False(t, sawSecret, "sub-agent must not see parent conversation history")
}
