// Package pregel implements a Pregel-style bulk-synchronous-parallel
// workflow runtime: a graph of vertices exchanges messages and proposes
// state updates across discrete supersteps until every vertex halts or a
// terminal condition is reached.
package pregel

// StateUpdate is a value a Vertex proposes during a superstep. It carries
// no behavior of its own beyond knowing whether it is a no-op, so the
// runtime can skip merging/applying empty updates.
type StateUpdate interface {
	// IsEmpty reports whether applying this update would be a no-op.
	IsEmpty() bool
}

// WorkflowState is the shared data vertices read and update across
// supersteps. Implementations must treat ApplyUpdate as pure: the
// receiver is never mutated in place, a new state value is returned.
//
// MergeUpdates is logically a type-level operation (it does not depend on
// the receiver's data) but is expressed as a method, following Go's lack
// of associated functions on generic interfaces; callers may invoke it on
// any WorkflowState[U] value, including a freshly zero-valued one.
type WorkflowState[U StateUpdate] interface {
	// ApplyUpdate returns a new state with update folded in.
	ApplyUpdate(update U) WorkflowState[U]

	// MergeUpdates combines updates produced by multiple vertices in the
	// same superstep into a single update. Merge must be deterministic
	// and should not depend on input order.
	MergeUpdates(updates []U) U

	// IsTerminal reports whether the workflow should stop regardless of
	// vertex states.
	IsTerminal() bool
}

// ApplyUpdates merges updates and applies the result to s, matching the
// default behavior of merge-then-apply used by the runtime at the end of
// every superstep. An empty updates slice returns s unchanged.
func ApplyUpdates[U StateUpdate](s WorkflowState[U], updates []U) WorkflowState[U] {
	if len(updates) == 0 {
		return s
	}
	merged := s.MergeUpdates(updates)
	if merged.IsEmpty() {
		return s
	}
	return s.ApplyUpdate(merged)
}

// UnitUpdate is a StateUpdate for workflows whose vertices communicate
// entirely via messages and need no shared state.
type UnitUpdate struct{}

// IsEmpty always returns true: UnitUpdate never carries data.
func (UnitUpdate) IsEmpty() bool { return true }

// UnitState is a WorkflowState that ignores every update.
type UnitState struct{}

// ApplyUpdate returns UnitState unchanged.
func (UnitState) ApplyUpdate(UnitUpdate) WorkflowState[UnitUpdate] { return UnitState{} }

// MergeUpdates always returns the empty UnitUpdate.
func (UnitState) MergeUpdates([]UnitUpdate) UnitUpdate { return UnitUpdate{} }

// IsTerminal always returns false: UnitState never forces termination.
func (UnitState) IsTerminal() bool { return false }
