package executor_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/executor"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// scriptedProvider replays one response per Complete call, in order.
type scriptedProvider struct {
	responses []llm.Response
	calls     int
}

func (p *scriptedProvider) Name() string         { return "scripted" }
func (p *scriptedProvider) DefaultModel() string { return "scripted-1" }

func (p *scriptedProvider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	if p.calls >= len(p.responses) {
		return llm.Response{Message: state.NewAssistantMessage("(out of script)")}, nil
	}
	resp := p.responses[p.calls]
	p.calls++
	return resp, nil
}

func (p *scriptedProvider) Stream(ctx context.Context, req llm.Request) (<-chan llm.Chunk, error) {
	return nil, llm.ErrStreamingUnsupported
}

// echoTool returns its "value" argument verbatim and records every call.
type echoTool struct {
	calls []map[string]any
}

func (t *echoTool) Definition() tool.Definition {
	return tool.Definition{Name: "echo", Description: "echoes value"}
}

func (t *echoTool) Execute(args map[string]any, rt toolruntime.Runtime) (tool.ToolResult, error) {
	t.calls = append(t.calls, args)
	return tool.ToolResult{
		Message: args["value"].(string),
		Updates: []state.StateUpdate{state.SetTodos([]state.Todo{{Content: "done", Status: state.TodoCompleted}})},
	}, nil
}

type failingTool struct{}

func (failingTool) Definition() tool.Definition {
	return tool.Definition{Name: "boom", Description: "always fails"}
}

func (failingTool) Execute(args map[string]any, rt toolruntime.Runtime) (tool.ToolResult, error) {
	return tool.ToolResult{}, &toolErr{"exploded"}
}

type toolErr struct{ msg string }

func (e *toolErr) Error() string { return e.msg }

type toolMiddleware struct {
	middleware.Base
	tools []tool.Tool
}

func (m *toolMiddleware) Name() string       { return "tools" }
func (m *toolMiddleware) Tools() []tool.Tool { return m.tools }

func newTestExecutor(t *testing.T, provider llm.Provider, tools []tool.Tool, opts ...executor.Option) *executor.Executor {
	t.Helper()
	be := backend.NewMemoryBackend(func() string { return "2026-01-01T00:00:00Z" })
	pipeline := middleware.NewPipeline(&toolMiddleware{tools: tools})
	return executor.New(provider, pipeline, be, opts...)
}

func TestRunBreaksWhenNoToolCalls(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("final answer")},
	}}
	ex := newTestExecutor(t, provider, nil)

	result, err := ex.Run(context.Background(), &state.AgentState{
		Messages: []state.Message{state.NewUserMessage("hi")},
	})
	require.NoError(t, err)
	require.Nil(t, result.Interrupt)
	require.Equal(t, 1, provider.calls)

	last, ok := result.State.LastAssistantMessage()
	require.True(t, ok)
	require.Equal(t, "final answer", last.Content)
}

func TestRunDispatchesToolCallsAndAppliesUpdates(t *testing.T) {
	echo := &echoTool{}
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("calling echo", state.ToolCall{
			ID: "call_1", Name: "echo", Arguments: map[string]any{"value": "hello"},
		})},
		{Message: state.NewAssistantMessage("done")},
	}}
	ex := newTestExecutor(t, provider, []tool.Tool{echo})

	result, err := ex.Run(context.Background(), &state.AgentState{
		Messages: []state.Message{state.NewUserMessage("say hello")},
	})
	require.NoError(t, err)
	require.Len(t, echo.calls, 1)

	var toolMsg *state.Message
	for i := range result.State.Messages {
		if result.State.Messages[i].Role == state.RoleTool {
			toolMsg = &result.State.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	require.Equal(t, "call_1", toolMsg.ToolCallID)
	require.Equal(t, "hello", toolMsg.Content)
	require.Len(t, result.State.Todos, 1)
	require.Equal(t, state.TodoCompleted, result.State.Todos[0].Status)
}

func TestRunSynthesizesErrorForUnknownTool(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("calling ghost", state.ToolCall{
			ID: "call_1", Name: "does_not_exist",
		})},
		{Message: state.NewAssistantMessage("done")},
	}}
	ex := newTestExecutor(t, provider, nil)

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)

	var toolMsg *state.Message
	for i := range result.State.Messages {
		if result.State.Messages[i].Role == state.RoleTool {
			toolMsg = &result.State.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	require.Contains(t, toolMsg.Content, "does_not_exist")
}

func TestRunEncodesToolExecutionErrorAsContent(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("calling boom", state.ToolCall{ID: "call_1", Name: "boom"})},
		{Message: state.NewAssistantMessage("recovered")},
	}}
	ex := newTestExecutor(t, provider, []tool.Tool{failingTool{}})

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)

	var toolMsg *state.Message
	for i := range result.State.Messages {
		if result.State.Messages[i].Role == state.RoleTool {
			toolMsg = &result.State.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	require.Equal(t, "exploded", toolMsg.Content)
	require.Equal(t, 2, provider.calls) // loop continued after the tool error
}

func TestRunStopsAtMaxIterations(t *testing.T) {
	// Every response keeps emitting tool calls, so without a cap this
	// would loop forever.
	resp := llm.Response{Message: state.NewAssistantMessage("again", state.ToolCall{
		ID: "call_1", Name: "echo", Arguments: map[string]any{"value": "x"},
	})}
	provider := &scriptedProvider{responses: []llm.Response{resp, resp, resp, resp, resp}}
	ex := newTestExecutor(t, provider, []tool.Tool{&echoTool{}}, executor.WithMaxIterations(3))

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)
	require.NotNil(t, result.State)
	require.Equal(t, 3, provider.calls)
}

type skippingMiddleware struct {
	middleware.Base
}

func (skippingMiddleware) Name() string { return "skip" }

func (skippingMiddleware) BeforeModel(ctx context.Context, req *middleware.ModelRequest, st *state.AgentState, rt toolruntime.Runtime) (middleware.ModelControl, error) {
	return middleware.Skip(middleware.ModelResponse{Message: state.NewAssistantMessage("short-circuited")}), nil
}

func TestRunHonorsBeforeModelSkip(t *testing.T) {
	provider := &scriptedProvider{}
	pipeline := middleware.NewPipeline(skippingMiddleware{})
	be := backend.NewMemoryBackend(nil)
	ex := executor.New(provider, pipeline, be)

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)
	require.Equal(t, 0, provider.calls)

	last, ok := result.State.LastAssistantMessage()
	require.True(t, ok)
	require.Equal(t, "short-circuited", last.Content)
}

type interruptingMiddleware struct {
	middleware.Base
}

func (interruptingMiddleware) Name() string { return "hitl" }

func (interruptingMiddleware) AfterModel(ctx context.Context, resp middleware.ModelResponse, st *state.AgentState, rt toolruntime.Runtime) (middleware.ModelControl, error) {
	return middleware.Interrupt(middleware.InterruptRequest{Reason: "needs approval"}), nil
}

func TestRunReturnsInterruptFromAfterModel(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("wants to do something sensitive", state.ToolCall{
			ID: "call_1", Name: "boom",
		})},
	}}
	pipeline := middleware.NewPipeline(interruptingMiddleware{})
	be := backend.NewMemoryBackend(nil)
	ex := executor.New(provider, pipeline, be)

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)
	require.NotNil(t, result.Interrupt)
	require.Equal(t, "needs approval", result.Interrupt.Reason)

	// The assistant message must not have been appended yet: the
	// interrupt fires before state.AddMessages in the loop.
	_, ok := result.State.LastAssistantMessage()
	require.False(t, ok)
}

type oversizedTool struct{}

func (oversizedTool) Definition() tool.Definition {
	return tool.Definition{Name: "dump", Description: "returns a huge blob"}
}

func (oversizedTool) Execute(args map[string]any, rt toolruntime.Runtime) (tool.ToolResult, error) {
	return tool.ToolResult{Message: strings.Repeat("x", 200_000)}, nil
}

func TestRunEvictsOversizedToolResult(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("dumping", state.ToolCall{ID: "call_1", Name: "dump"})},
		{Message: state.NewAssistantMessage("done")},
	}}
	ex := newTestExecutor(t, provider, []tool.Tool{oversizedTool{}})

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)

	var toolMsg *state.Message
	for i := range result.State.Messages {
		if result.State.Messages[i].Role == state.RoleTool {
			toolMsg = &result.State.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	require.Contains(t, toolMsg.Content, "/large_tool_results/call_1")
	require.Less(t, len(toolMsg.Content), 5000)
	require.Contains(t, result.State.Files, "/large_tool_results/call_1")
}

func TestRunDisablesEvictionWhenLimitIsZero(t *testing.T) {
	provider := &scriptedProvider{responses: []llm.Response{
		{Message: state.NewAssistantMessage("dumping", state.ToolCall{ID: "call_1", Name: "dump"})},
		{Message: state.NewAssistantMessage("done")},
	}}
	ex := newTestExecutor(t, provider, []tool.Tool{oversizedTool{}}, executor.WithToolResultTokenLimit(0))

	result, err := ex.Run(context.Background(), &state.AgentState{})
	require.NoError(t, err)

	var toolMsg *state.Message
	for i := range result.State.Messages {
		if result.State.Messages[i].Role == state.RoleTool {
			toolMsg = &result.State.Messages[i]
		}
	}
	require.NotNil(t, toolMsg)
	require.Equal(t, 200_000, len(toolMsg.Content))
}

func TestRunPropagatesLlmError(t *testing.T) {
	ex := newTestExecutor(t, &erroringProvider{}, nil)
	_, err := ex.Run(context.Background(), &state.AgentState{})
	require.Error(t, err)
}

type erroringProvider struct{}

func (erroringProvider) Name() string         { return "erroring" }
func (erroringProvider) DefaultModel() string { return "erroring-1" }

func (erroringProvider) Complete(ctx context.Context, req llm.Request) (llm.Response, error) {
	return llm.Response{}, &llm.Error{Provider: "erroring", Err: errBoom}
}

func (erroringProvider) Stream(ctx context.Context, req llm.Request) (<-chan llm.Chunk, error) {
	return nil, llm.ErrStreamingUnsupported
}

var errBoom = &toolErr{"provider unavailable"}
