// Package checkpoint provides pregel.CheckpointStore implementations:
// an in-memory store for tests and single-process runs, and a
// file-backed store for durability across process restarts. Remote
// store backends (Redis, Postgres, ...) are intentionally left out of
// scope here; Store is the extension point a caller wires one in through.
package checkpoint

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// Store is a pregel.CheckpointStore with one addition: LoadAt, for
// resuming from a specific superstep rather than always the latest,
// matching the "or a specified" clause of the resume-from-checkpoint
// contract.
type Store interface {
	pregel.CheckpointStore

	// LoadAt returns the checkpoint for workflowID at exactly superstep,
	// or ok=false if none exists.
	LoadAt(ctx context.Context, workflowID string, superstep int) (rec pregel.CheckpointRecord, ok bool, err error)
}
