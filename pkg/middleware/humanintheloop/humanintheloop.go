// Package humanintheloop implements a middleware that pauses the
// executor loop for human approval before a sensitive tool call runs.
package humanintheloop

import (
	"context"
	"fmt"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/middleware"
	"github.com/kadirpekel/deepagent-go/pkg/state"
	"github.com/kadirpekel/deepagent-go/pkg/toolruntime"
)

// InterruptOnConfig names which tools require human approval before they
// are allowed to execute.
type InterruptOnConfig struct {
	ToolNames map[string]bool
}

// NewInterruptOnConfig builds a config requiring approval for the given
// tool names.
func NewInterruptOnConfig(names ...string) InterruptOnConfig {
	cfg := InterruptOnConfig{ToolNames: make(map[string]bool, len(names))}
	for _, n := range names {
		cfg.ToolNames[n] = true
	}
	return cfg
}

// Middleware intercepts after_model: if the assistant's response carries a
// call to a configured tool, it returns ModelControl::Interrupt instead of
// letting the executor dispatch it. The caller resumes by re-invoking the
// executor with a tool-role reply already appended to state (approval or
// denial encoded as that reply's content).
type Middleware struct {
	middleware.Base
	cfg InterruptOnConfig
}

// New returns a humanintheloop Middleware gating the named tools.
func New(cfg InterruptOnConfig) *Middleware {
	return &Middleware{cfg: cfg}
}

func (m *Middleware) Name() string { return "human_in_the_loop" }

func (m *Middleware) matchingCall(resp middleware.ModelResponse) *state.ToolCall {
	for i, tc := range resp.Message.ToolCalls {
		if m.cfg.ToolNames[tc.Name] {
			return &resp.Message.ToolCalls[i]
		}
	}
	return nil
}

// AfterModel returns an Interrupt verdict when the response contains a
// pending call to a gated tool.
func (m *Middleware) AfterModel(ctx context.Context, resp middleware.ModelResponse, st *state.AgentState, rt toolruntime.Runtime) (middleware.ModelControl, error) {
	tc := m.matchingCall(resp)
	if tc == nil {
		return middleware.Continue(), nil
	}

	reason := fmt.Sprintf("tool call %q (id %s) requires human approval before execution", tc.Name, tc.ID)
	return middleware.Interrupt(middleware.InterruptRequest{
		Reason: reason,
	}), nil
}

// String renders the gated tool names for diagnostics.
func (cfg InterruptOnConfig) String() string {
	names := make([]string, 0, len(cfg.ToolNames))
	for n := range cfg.ToolNames {
		names = append(names, n)
	}
	return strings.Join(names, ", ")
}
