// Package middleware defines the AgentMiddleware contract and the
// ordered Pipeline that folds a stack of them around an LLM call: tool
// contribution, system-prompt chaining, and the four lifecycle hooks
// (before_agent, after_agent, before_model, after_model).
package middleware

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// ModelRequest is what the executor is about to send to the LLM provider.
// before_model hooks may mutate it in place via ModifyRequest.
type ModelRequest struct {
	Messages        []state.Message
	ToolDefinitions []tool.Definition
	Config          llm.Config
}

// ModelResponse wraps the assistant message a model call produced (or a
// synthetic one, when a before_model hook short-circuits via Skip).
type ModelResponse struct {
	Message state.Message
}

// ControlKind discriminates a ModelControl verdict.
type ControlKind string

const (
	// ControlContinue means the hook had no opinion; proceed normally.
	ControlContinue ControlKind = "continue"
	// ControlModifyRequest means the request has been mutated in place;
	// only meaningful from before_model.
	ControlModifyRequest ControlKind = "modify_request"
	// ControlSkip short-circuits the LLM call with a synthetic response;
	// only meaningful from before_model.
	ControlSkip ControlKind = "skip"
	// ControlInterrupt halts the executor loop and returns control to the
	// caller with an InterruptRequest describing why.
	ControlInterrupt ControlKind = "interrupt"
)

// InterruptRequest describes why execution paused and what the caller
// must supply to resume (e.g. human approval of a pending tool call).
type InterruptRequest struct {
	Reason  string
	Request *ModelRequest
}

// ModelControl is the verdict a before_model/after_model hook returns.
// Only the field matching Kind is meaningful.
type ModelControl struct {
	Kind      ControlKind
	Response  *ModelResponse   // ControlSkip
	Interrupt *InterruptRequest // ControlInterrupt
}

// Continue is the zero-effort verdict every hook defaults to.
func Continue() ModelControl { return ModelControl{Kind: ControlContinue} }

// ModifyRequest signals the request passed to the hook was mutated in place.
func ModifyRequest() ModelControl { return ModelControl{Kind: ControlModifyRequest} }

// Skip short-circuits the LLM call with resp as the response.
func Skip(resp ModelResponse) ModelControl {
	return ModelControl{Kind: ControlSkip, Response: &resp}
}

// Interrupt halts execution, surfacing req to the caller.
func Interrupt(req InterruptRequest) ModelControl {
	return ModelControl{Kind: ControlInterrupt, Interrupt: &req}
}

// Middleware is the single extension point for agent behavior: it can
// contribute tools, rewrite the system prompt, and observe/intercept the
// agent and model lifecycle. Every hook defaults to a no-op so concrete
// middlewares only implement what they need — embed Base to get the
// defaults for free.
type Middleware interface {
	Name() string

	Tools() []tool.Tool
	ModifySystemPrompt(prompt string) string

	BeforeAgent(ctx context.Context, st *state.AgentState, rt toolruntime.Runtime) (*state.StateUpdate, error)
	AfterAgent(ctx context.Context, st *state.AgentState, rt toolruntime.Runtime) (*state.StateUpdate, error)

	BeforeModel(ctx context.Context, req *ModelRequest, st *state.AgentState, rt toolruntime.Runtime) (ModelControl, error)
	AfterModel(ctx context.Context, resp ModelResponse, st *state.AgentState, rt toolruntime.Runtime) (ModelControl, error)
}

// Base implements every Middleware hook as a no-op. Concrete middlewares
// embed it and override only the hooks they care about.
type Base struct{}

func (Base) Tools() []tool.Tool                   { return nil }
func (Base) ModifySystemPrompt(prompt string) string { return prompt }

func (Base) BeforeAgent(context.Context, *state.AgentState, toolruntime.Runtime) (*state.StateUpdate, error) {
	return nil, nil
}

func (Base) AfterAgent(context.Context, *state.AgentState, toolruntime.Runtime) (*state.StateUpdate, error) {
	return nil, nil
}

func (Base) BeforeModel(context.Context, *ModelRequest, *state.AgentState, toolruntime.Runtime) (ModelControl, error) {
	return Continue(), nil
}

func (Base) AfterModel(context.Context, ModelResponse, *state.AgentState, toolruntime.Runtime) (ModelControl, error) {
	return Continue(), nil
}
