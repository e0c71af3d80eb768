package vertex

import (
	"context"
	"fmt"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/executor"
	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/middleware/subagent"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
)

// SubAgentConfig wires a SubAgentVertex to the registry it resolves
// subagent_type from, matching the §4.8 subsystem used outside the graph.
type SubAgentConfig struct {
	ID              pregel.VertexID
	SubagentType    string
	Registry        *subagent.Registry
	DefaultProvider llm.Provider
	Backend         backend.Backend
	Pipeline        *middleware.Pipeline
	QueryKey        string
	Mode            pregel.ExecutionMode
}

// SubAgentVertex looks up a sub-agent spec by name and runs it the way the
// task tool does (a fresh conversation seeded with the query, the spec's
// system prompt, and the spec's own Tools when set), but as a graph node
// instead of a tool call. SubAgentSpec.Model is not consulted: every run
// uses DefaultProvider.
type SubAgentVertex struct {
	cfg SubAgentConfig
}

// NewSubAgent builds a SubAgentVertex from cfg.
func NewSubAgent(cfg SubAgentConfig) *SubAgentVertex {
	if cfg.QueryKey == "" {
		cfg.QueryKey = "query"
	}
	return &SubAgentVertex{cfg: cfg}
}

func (v *SubAgentVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *SubAgentVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *SubAgentVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	if cctx.MaxRecursion > 0 && cctx.RecursionDepth >= cctx.MaxRecursion {
		return pregel.ComputeResult[GraphUpdate]{}, pregel.NewRecursionLimitError(string(v.cfg.ID), cctx.RecursionDepth, cctx.MaxRecursion)
	}

	spec, ok := v.cfg.Registry.Get(v.cfg.SubagentType)
	if !ok {
		return pregel.ComputeResult[GraphUpdate]{}, fmt.Errorf("subagent vertex %q: unknown subagent_type %q", v.cfg.ID, v.cfg.SubagentType)
	}

	gs := asGraphState(cctx.State)
	query, ok := queryFromInbox(cctx.Inbox, v.cfg.QueryKey)
	if !ok {
		if raw, found := gs.Data[v.cfg.QueryKey]; found {
			query, ok = raw.(string)
		}
	}
	if !ok {
		return pregel.ComputeResult[GraphUpdate]{}, fmt.Errorf("subagent vertex %q: no query in inbox or state key %q", v.cfg.ID, v.cfg.QueryKey)
	}

	subPipeline := v.cfg.Pipeline
	if spec.Tools != nil {
		subPipeline = middleware.NewPipeline(&specToolsMiddleware{tools: spec.Tools})
	}

	isolated := state.New()
	isolated.Messages = []state.Message{state.NewUserMessage(query)}
	isolated.Files = gs.Files

	exec := executor.New(v.cfg.DefaultProvider, subPipeline, v.cfg.Backend,
		executor.WithSystemPrompt(spec.SystemPrompt),
		executor.WithRecursionConfig(recursionConfigFrom(cctx)),
	)
	result, err := exec.Run(ctx, isolated)
	if err != nil {
		return pregel.ComputeResult[GraphUpdate]{}, err
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
	}
	return res, nil
}

// specToolsMiddleware exposes a SubAgentSpec's own tool list to the
// sub-agent's Pipeline, with no other behavior.
type specToolsMiddleware struct {
	middleware.Base
	tools []tool.Tool
}

func (m *specToolsMiddleware) Name() string       { return "subagent_tools_override" }
func (m *specToolsMiddleware) Tools() []tool.Tool { return m.tools }
