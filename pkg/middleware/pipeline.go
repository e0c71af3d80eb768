package middleware

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// Pipeline is an ordered stack of middlewares, folded around the executor
// loop. Ordering is the whole point: before_agent/before_model run
// 1..N, after_agent/after_model run N..1, so the middleware closest to
// the executor sees requests last and responses first — the usual
// onion-layering for cross-cutting concerns like summarization or HITL.
type Pipeline struct {
	middlewares []Middleware
}

// NewPipeline builds a Pipeline from middlewares in the given order.
func NewPipeline(middlewares ...Middleware) *Pipeline {
	return &Pipeline{middlewares: middlewares}
}

// Len reports how many middlewares are in the pipeline.
func (p *Pipeline) Len() int { return len(p.middlewares) }

// CollectTools concatenates every middleware's tools in pipeline order.
// A later middleware's tool of the same name still ends up later in the
// resulting slice; Registry.Register resolves the actual name collision
// with last-wins semantics once these are registered.
func (p *Pipeline) CollectTools() []tool.Tool {
	var tools []tool.Tool
	for _, m := range p.middlewares {
		tools = append(tools, m.Tools()...)
	}
	return tools
}

// BuildSystemPrompt folds ModifySystemPrompt left-to-right over base.
func (p *Pipeline) BuildSystemPrompt(base string) string {
	prompt := base
	for _, m := range p.middlewares {
		prompt = m.ModifySystemPrompt(prompt)
	}
	return prompt
}

// BeforeAgent runs before_agent hooks 1..N, applying each returned update
// into st immediately so later middlewares observe it.
func (p *Pipeline) BeforeAgent(ctx context.Context, st *state.AgentState, rt toolruntime.Runtime) ([]state.StateUpdate, error) {
	var updates []state.StateUpdate
	for _, m := range p.middlewares {
		upd, err := m.BeforeAgent(ctx, st, rt)
		if err != nil {
			return updates, fmt.Errorf("middleware %q before_agent: %w", m.Name(), err)
		}
		if upd != nil {
			upd.Apply(st)
			updates = append(updates, *upd)
		}
	}
	return updates, nil
}

// AfterAgent runs after_agent hooks in reverse order (N..1).
func (p *Pipeline) AfterAgent(ctx context.Context, st *state.AgentState, rt toolruntime.Runtime) ([]state.StateUpdate, error) {
	var updates []state.StateUpdate
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		m := p.middlewares[i]
		upd, err := m.AfterAgent(ctx, st, rt)
		if err != nil {
			return updates, fmt.Errorf("middleware %q after_agent: %w", m.Name(), err)
		}
		if upd != nil {
			upd.Apply(st)
			updates = append(updates, *upd)
		}
	}
	return updates, nil
}

// BeforeModel runs before_model hooks 1..N. A ModifyRequest verdict means
// the hook already mutated req in place; Skip or Interrupt short-circuit
// the remaining hooks and are returned immediately.
func (p *Pipeline) BeforeModel(ctx context.Context, req *ModelRequest, st *state.AgentState, rt toolruntime.Runtime) (ModelControl, error) {
	for _, m := range p.middlewares {
		ctrl, err := m.BeforeModel(ctx, req, st, rt)
		if err != nil {
			return ModelControl{}, fmt.Errorf("middleware %q before_model: %w", m.Name(), err)
		}
		switch ctrl.Kind {
		case ControlContinue, ControlModifyRequest:
			continue
		case ControlSkip:
			slog.Debug("middleware skipping model call", "middleware", m.Name())
			return ctrl, nil
		case ControlInterrupt:
			slog.Info("middleware triggering interrupt in before_model", "middleware", m.Name())
			return ctrl, nil
		}
	}
	return Continue(), nil
}

// AfterModel runs after_model hooks in reverse order (N..1). Only
// Continue and Interrupt are meaningful here; Skip/ModifyRequest are
// logged and ignored since they only make sense before the model call.
func (p *Pipeline) AfterModel(ctx context.Context, resp ModelResponse, st *state.AgentState, rt toolruntime.Runtime) (ModelControl, error) {
	for i := len(p.middlewares) - 1; i >= 0; i-- {
		m := p.middlewares[i]
		ctrl, err := m.AfterModel(ctx, resp, st, rt)
		if err != nil {
			return ModelControl{}, fmt.Errorf("middleware %q after_model: %w", m.Name(), err)
		}
		switch ctrl.Kind {
		case ControlContinue:
			continue
		case ControlInterrupt:
			slog.Info("middleware triggering interrupt in after_model", "middleware", m.Name())
			return ctrl, nil
		case ControlSkip, ControlModifyRequest:
			slog.Warn("skip/modify_request ignored in after_model", "middleware", m.Name())
			continue
		}
	}
	return Continue(), nil
}
