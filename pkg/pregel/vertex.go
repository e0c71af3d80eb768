package pregel

import "context"

// VertexID identifies a vertex within a workflow graph.
type VertexID string

// END is the sink target: routing a message to END removes it without
// re-activating anything.
const END VertexID = "__end__"

// VertexState is a vertex's lifecycle state.
type VertexState string

const (
	VertexActive VertexState = "active"
	VertexHalted VertexState = "halted"
	VertexFailed VertexState = "failed"
)

// ComputeContext is the input to a single Vertex.Compute call: one
// superstep's worth of delivered messages, an immutable snapshot of the
// workflow state, and positional/recursion bookkeeping.
type ComputeContext[U StateUpdate] struct {
	VertexID  VertexID
	Inbox     []WorkflowMessage
	State     WorkflowState[U]
	Superstep int

	// RecursionDepth threads sub-executor recursion limits through
	// Agent/SubAgent node kinds the same way executor.Run and
	// subagent.runSubAgent do outside the graph.
	RecursionDepth int
	MaxRecursion   int
}

// ComputeResult is a Vertex's output for one superstep.
type ComputeResult[U StateUpdate] struct {
	Outbox      []OutboxEntry
	StateUpdate U
	NextState   VertexState

	// RoutingHint is consulted by conditional edges in EdgeDriven mode
	// and by Router vertices; empty means "no opinion".
	RoutingHint string
}

// Vertex is a single node of computation in a workflow graph.
type Vertex[U StateUpdate] interface {
	ID() VertexID
	State() VertexState
	Compute(ctx context.Context, cctx ComputeContext[U]) (ComputeResult[U], error)
}
