package pregel

import "context"

// CheckpointRecord is the on-disk/wire shape of a persisted checkpoint,
// matching the library's checkpoint format: workflow id, superstep,
// opaque serialized state, per-vertex inboxes and retry counters, and a
// creation timestamp. State is kept as an opaque blob so a CheckpointStore
// never needs to know the concrete WorkflowState type parameter.
type CheckpointRecord struct {
	WorkflowID string
	Superstep  int
	StateData  []byte
	Inboxes    map[VertexID][]WorkflowMessage
	Retries    map[VertexID]int
	CreatedAt  string
}

// CheckpointStore persists and retrieves CheckpointRecords by workflow
// id. Implementations live in pkg/checkpoint.
type CheckpointStore interface {
	Save(ctx context.Context, rec CheckpointRecord) error

	// Load returns the latest checkpoint for workflowID, or ok=false if
	// none exists.
	Load(ctx context.Context, workflowID string) (rec CheckpointRecord, ok bool, err error)
}

// StateCodec converts a WorkflowState[U] to and from the opaque bytes a
// CheckpointStore persists. Runtime.WithCheckpointing requires one
// because Runtime itself never needs to inspect the encoded form.
type StateCodec[U StateUpdate] interface {
	Marshal(s WorkflowState[U]) ([]byte, error)
	Unmarshal(data []byte) (WorkflowState[U], error)
}
