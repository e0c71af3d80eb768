// Package executor implements the agent driver loop: the synchronous
// before_agent/before_model/llm/after_model/tool-dispatch/after_agent
// cycle that folds a middleware Pipeline and an LLMProvider around one
// AgentState. It never retries a failed LLM call and never aborts on a
// tool error — tool and lookup failures become tool-role conversation
// content so the model can self-correct, matching the teacher's
// reasoning-loop shape in spirit (bounded iteration, append-then-continue)
// but not its abort-on-error policy.
package executor

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// DefaultMaxIterations bounds the executor loop when the caller doesn't
// override it. Exhausting the budget is not an error: the loop simply
// returns the current state, leaving the decision to the caller.
const DefaultMaxIterations = 50

// Result is what Run returns: the final (or interrupted-at) state, and,
// when a middleware paused execution via Interrupt, the request the
// caller must act on before resuming.
type Result struct {
	State     *state.AgentState
	Interrupt *middleware.InterruptRequest
}

// Executor drives one agent run: a Pipeline of middlewares wrapped around
// a single LLMProvider and a Backend.
type Executor struct {
	llm           llm.Provider
	pipeline      *middleware.Pipeline
	backend       backend.Backend
	maxIterations int
	systemPrompt  string
	evictor       evictor
	logger        *slog.Logger
	recursion     toolruntime.Config
}

// Option configures an Executor at construction time.
type Option func(*Executor)

// WithMaxIterations overrides DefaultMaxIterations.
func WithMaxIterations(n int) Option {
	return func(e *Executor) { e.maxIterations = n }
}

// WithSystemPrompt sets the base system prompt the middleware stack's
// ModifySystemPrompt hooks are folded onto.
func WithSystemPrompt(prompt string) Option {
	return func(e *Executor) { e.systemPrompt = prompt }
}

// WithToolResultTokenLimit overrides the default oversized-tool-result
// eviction threshold (in approximate tokens). Zero disables eviction.
func WithToolResultTokenLimit(limit int) Option {
	return func(e *Executor) { e.evictor = newEvictor(limit) }
}

// WithLogger overrides the default slog.Default() logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Executor) { e.logger = logger }
}

// WithRecursionConfig seeds the Runtime's recursion counters for this run.
// The sub-agent task tool uses this to carry the parent's
// WithIncreasedRecursion() config into the sub-executor it constructs, so
// the recursion budget is shared across delegation boundaries instead of
// resetting at each nested agent.
func WithRecursionConfig(cfg toolruntime.Config) Option {
	return func(e *Executor) { e.recursion = cfg }
}

// New builds an Executor from a provider, a middleware pipeline, and a
// backend. The pipeline's tools and system-prompt fragments are collected
// fresh on every Run.
func New(provider llm.Provider, pipeline *middleware.Pipeline, be backend.Backend, opts ...Option) *Executor {
	e := &Executor{
		llm:           provider,
		pipeline:      pipeline,
		backend:       be,
		maxIterations: DefaultMaxIterations,
		evictor:       newEvictor(DefaultToolResultTokenLimit),
		logger:        slog.Default(),
		recursion:     toolruntime.Config{MaxRecursion: toolruntime.DefaultMaxRecursion},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run drives initial through the full executor algorithm and returns the
// resulting state. initial is cloned; the caller's AgentState is never
// mutated in place.
func (e *Executor) Run(ctx context.Context, initial *state.AgentState) (Result, error) {
	st := initial.Clone()
	rt := toolruntime.Runtime{State: st, Backend: e.backend, Config: e.recursion}

	if _, err := e.pipeline.BeforeAgent(ctx, st, rt); err != nil {
		return Result{State: st}, err
	}

	tools := e.pipeline.CollectTools()
	registry := tool.NewRegistry()
	for _, t := range tools {
		registry.Register(t)
	}
	toolDefs := registry.Definitions()
	systemPrompt := e.pipeline.BuildSystemPrompt(e.systemPrompt)

	for iter := 0; iter < e.maxIterations; iter++ {
		// req.Messages mirrors st.Messages exactly — not prefixed with the
		// system prompt — so that a hook like summarization, which may
		// reset req.Messages to st.Messages wholesale (see
		// middleware/summarization), never has to know about or preserve
		// it. The system prompt is injected only on the wire call below.
		req := &middleware.ModelRequest{
			Messages:        append([]state.Message(nil), st.Messages...),
			ToolDefinitions: toolDefs,
		}

		ctrl, err := e.pipeline.BeforeModel(ctx, req, st, rt)
		if err != nil {
			return Result{State: st}, err
		}

		var assistantMsg state.Message
		switch ctrl.Kind {
		case middleware.ControlInterrupt:
			return Result{State: st, Interrupt: ctrl.Interrupt}, nil
		case middleware.ControlSkip:
			assistantMsg = ctrl.Response.Message
		default:
			wireMessages := make([]state.Message, 0, len(req.Messages)+1)
			wireMessages = append(wireMessages, state.NewSystemMessage(systemPrompt))
			wireMessages = append(wireMessages, req.Messages...)
			resp, err := e.llm.Complete(ctx, llm.Request{
				Messages:        wireMessages,
				ToolDefinitions: req.ToolDefinitions,
				Config:          req.Config,
			})
			if err != nil {
				// LlmError: executor-level, no auto-retry, propagated as-is.
				return Result{State: st}, fmt.Errorf("executor: llm completion: %w", err)
			}
			assistantMsg = resp.Message
		}

		afterCtrl, err := e.pipeline.AfterModel(ctx, middleware.ModelResponse{Message: assistantMsg}, st, rt)
		if err != nil {
			return Result{State: st}, err
		}
		if afterCtrl.Kind == middleware.ControlInterrupt {
			return Result{State: st, Interrupt: afterCtrl.Interrupt}, nil
		}

		state.AddMessages(assistantMsg).Apply(st)

		if !assistantMsg.HasToolCalls() {
			break
		}

		for _, tc := range assistantMsg.ToolCalls {
			content := e.dispatchToolCall(rt, registry, tc, st)
			state.AddMessages(state.NewToolMessage(tc.ID, content)).Apply(st)
		}
	}

	if _, err := e.pipeline.AfterAgent(ctx, st, rt); err != nil {
		return Result{State: st}, err
	}

	return Result{State: st}, nil
}

// dispatchToolCall looks up and executes a single tool call, returning the
// tool-role content that should be appended for it. A missing tool or a
// failed execution never aborts the run; both are turned into text so the
// model can see and react to the failure.
func (e *Executor) dispatchToolCall(rt toolruntime.Runtime, registry *tool.Registry, tc state.ToolCall, st *state.AgentState) string {
	rt.ToolCallID = tc.ID

	t, ok := registry.Get(tc.Name)
	if !ok {
		e.logger.Warn("tool not found", "tool", tc.Name, "tool_call_id", tc.ID)
		return (&tool.ErrNotFound{Name: tc.Name}).Error()
	}

	result, err := t.Execute(tc.Arguments, rt)
	if err != nil {
		e.logger.Warn("tool execution failed", "tool", tc.Name, "tool_call_id", tc.ID, "error", err)
		return err.Error()
	}

	result = e.evictor.maybeEvict(tc.Name, tc.ID, result, e.backend, e.logger)

	for _, upd := range result.Updates {
		upd.Apply(st)
	}
	return result.Message
}
