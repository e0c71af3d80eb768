package vertex

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/tool"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// ToolConfig wires a ToolVertex to the single tool it invokes each
// compute call.
type ToolConfig struct {
	ID      pregel.VertexID
	Tool    tool.Tool
	Backend backend.Backend

	// StaticArgs is used as-is when set; otherwise ArgsKey names the
	// GraphState.Data entry holding a map[string]any of arguments.
	StaticArgs map[string]any
	ArgsKey    string

	ResultKey string // GraphState.Data key the tool's result is written to
}

// ToolVertex invokes a single named tool with either static arguments or
// arguments extracted from state, and emits the result as a state update.
type ToolVertex struct {
	cfg ToolConfig
}

// NewTool builds a ToolVertex from cfg.
func NewTool(cfg ToolConfig) *ToolVertex {
	if cfg.ResultKey == "" {
		cfg.ResultKey = string(cfg.ID) + "_result"
	}
	return &ToolVertex{cfg: cfg}
}

func (v *ToolVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *ToolVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *ToolVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	gs := asGraphState(cctx.State)

	args := v.cfg.StaticArgs
	if args == nil && v.cfg.ArgsKey != "" {
		if raw, ok := gs.Data[v.cfg.ArgsKey]; ok {
			args, _ = raw.(map[string]any)
		}
	}

	rt := toolruntime.Runtime{
		State:   &state.AgentState{Messages: gs.Messages, Files: gs.Files},
		Backend: v.cfg.Backend,
		Config:  recursionConfigFrom(cctx),
	}

	result, err := v.cfg.Tool.Execute(args, rt)
	if err != nil {
		return pregel.ComputeResult[GraphUpdate]{}, err
	}

	return pregel.ComputeResult[GraphUpdate]{
		StateUpdate: GraphUpdate{Data: map[string]any{v.cfg.ResultKey: result.Message}},
		NextState:   pregel.VertexActive,
	}, nil
}
