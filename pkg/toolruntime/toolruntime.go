// Package toolruntime defines the execution context handed to every tool
// invocation: a read-only state snapshot, the shared backend handle, the
// invoking tool-call id, and the recursion-budget counters that bound
// sub-agent delegation depth.
package toolruntime

import (
	"github.com/kadirpekel/deepagent-go/pkg/backend"
	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// Config carries the recursion budget for a run.
type Config struct {
	Debug            bool
	MaxRecursion     int
	CurrentRecursion int
}

// DefaultMaxRecursion matches the teacher's recursion-limit default.
const DefaultMaxRecursion = 100

// Runtime is the by-value capsule passed into Tool.Execute. It requires no
// explicit teardown.
type Runtime struct {
	State      *state.AgentState
	Backend    backend.Backend
	ToolCallID string
	Config     Config
}

// New builds a Runtime with the default recursion budget.
func New(st *state.AgentState, be backend.Backend, toolCallID string) Runtime {
	return Runtime{
		State:      st,
		Backend:    be,
		ToolCallID: toolCallID,
		Config:     Config{MaxRecursion: DefaultMaxRecursion},
	}
}

// WithIncreasedRecursion returns a copy of r with CurrentRecursion bumped by
// one, for handing to a nested sub-agent invocation.
func (r Runtime) WithIncreasedRecursion() Runtime {
	r.Config.CurrentRecursion++
	return r
}

// IsRecursionLimitExceeded reports whether the current recursion depth has
// reached or passed the configured cap.
func (r Runtime) IsRecursionLimitExceeded() bool {
	return r.Config.CurrentRecursion >= r.Config.MaxRecursion
}
