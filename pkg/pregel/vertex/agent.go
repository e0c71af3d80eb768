package vertex

import (
	"context"
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/executor"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// AgentConfig wires an AgentVertex to the executor it invokes each time
// it computes.
type AgentConfig struct {
	ID           pregel.VertexID
	Provider     llm.Provider
	Pipeline     *middleware.Pipeline
	Backend      backend.Backend
	SystemPrompt string
	MaxIterations int

	// QueryKey names the GraphState.Data entry an AgentVertex reads its
	// input from when its inbox carries no Data message with that key.
	QueryKey string

	// Mode is the graph's execution mode: MessageBased vertices emit a
	// Completed message and stay Active; EdgeDriven vertices halt so the
	// graph's edges can route onward.
	Mode pregel.ExecutionMode

	// CompletionTarget is who receives the Completed message in
	// MessageBased mode; empty means no message is sent, only the state
	// update.
	CompletionTarget pregel.VertexID
}

// AgentVertex invokes an embedded AgentExecutor over cfg's LLM and
// middleware pipeline, reading a query from its inbox or from workflow
// state, and writing the response into the state update.
type AgentVertex struct {
	cfg AgentConfig
}

// NewAgent builds an AgentVertex from cfg.
func NewAgent(cfg AgentConfig) *AgentVertex {
	if cfg.QueryKey == "" {
		cfg.QueryKey = "query"
	}
	return &AgentVertex{cfg: cfg}
}

func (v *AgentVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *AgentVertex) State() pregel.VertexState { return pregel.VertexActive }

// Compute resolves the query (inbox Data message first, GraphState.Data
// fallback), runs the agent executor to completion, and writes its
// final assistant message into the state update.
func (v *AgentVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	gs := asGraphState(cctx.State)

	query, ok := queryFromInbox(cctx.Inbox, v.cfg.QueryKey)
	if !ok {
		if raw, found := gs.Data[v.cfg.QueryKey]; found {
			query, ok = raw.(string)
		}
	}
	if !ok {
		return pregel.ComputeResult[GraphUpdate]{}, fmt.Errorf("agent vertex %q: no query in inbox or state key %q", v.cfg.ID, v.cfg.QueryKey)
	}

	maxIter := v.cfg.MaxIterations
	if maxIter <= 0 {
		maxIter = executor.DefaultMaxIterations
	}
	exec := executor.New(v.cfg.Provider, v.cfg.Pipeline, v.cfg.Backend,
		executor.WithSystemPrompt(v.cfg.SystemPrompt),
		executor.WithMaxIterations(maxIter),
		executor.WithRecursionConfig(recursionConfigFrom(cctx)),
	)

	initial := state.New()
	initial.Messages = append(initial.Messages, gs.Messages...)
	initial.AddMessage(state.NewUserMessage(query))
	initial.Files = gs.Files

	result, err := exec.Run(ctx, initial)
	if err != nil {
		return pregel.ComputeResult[GraphUpdate]{}, err
	}
	if result.Interrupt != nil {
		return pregel.ComputeResult[GraphUpdate]{}, fmt.Errorf("agent vertex %q interrupted: %s", v.cfg.ID, result.Interrupt.Reason)
	}

	reply, _ := result.State.LastAssistantMessage()

	res := pregel.ComputeResult[GraphUpdate]{
		StateUpdate: GraphUpdate{
			Messages: []state.Message{reply},
			Files:    state.FilesDiff(gs.Files, result.State.Files),
		},
	}
	if v.cfg.Mode == pregel.ExecutionModeEdgeDriven {
		res.NextState = pregel.VertexHalted
	} else {
		res.NextState = pregel.VertexActive
		if v.cfg.CompletionTarget != "" {
			res.Outbox = append(res.Outbox, pregel.OutboxEntry{
				Target:  v.cfg.CompletionTarget,
				Message: pregel.Completed(string(v.cfg.ID), reply.Content),
			})
		}
	}
	return res, nil
}

// queryFromInbox scans inbox for a MessageData entry keyed by key.
func queryFromInbox(inbox []pregel.WorkflowMessage, key string) (string, bool) {
	for _, m := range inbox {
		if m.Kind == pregel.MessageData && m.Key == key {
			if s, ok := m.Value.(string); ok {
				return s, true
			}
		}
	}
	return "", false
}

// recursionConfigFrom threads the graph's recursion depth bookkeeping
// into the sub-executor's toolruntime.Config, the same way
// subagent.runSubAgent does outside the graph.
func recursionConfigFrom(cctx pregel.ComputeContext[GraphUpdate]) toolruntime.Config {
	limit := cctx.MaxRecursion
	if limit <= 0 {
		limit = toolruntime.DefaultMaxRecursion
	}
	return toolruntime.Config{MaxRecursion: limit, CurrentRecursion: cctx.RecursionDepth}
}
