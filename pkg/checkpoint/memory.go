package checkpoint

import (
	"context"
	"sync"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// MemoryStore keeps every checkpoint ever saved, per workflow id, for
// the lifetime of the process. It is the default store for tests and
// single-process runs where durability across restarts is not required.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string][]pregel.CheckpointRecord // workflow id -> records, append-only, superstep ascending
}

// NewMemoryStore returns an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string][]pregel.CheckpointRecord{}}
}

// Save appends rec to its workflow's history.
func (s *MemoryStore) Save(ctx context.Context, rec pregel.CheckpointRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[rec.WorkflowID] = append(s.records[rec.WorkflowID], rec)
	return nil
}

// Load returns the most recently saved checkpoint for workflowID.
func (s *MemoryStore) Load(ctx context.Context, workflowID string) (pregel.CheckpointRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	history := s.records[workflowID]
	if len(history) == 0 {
		return pregel.CheckpointRecord{}, false, nil
	}
	return history[len(history)-1], true, nil
}

// LoadAt returns the checkpoint for workflowID at exactly superstep.
func (s *MemoryStore) LoadAt(ctx context.Context, workflowID string, superstep int) (pregel.CheckpointRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, rec := range s.records[workflowID] {
		if rec.Superstep == superstep {
			return rec, true, nil
		}
	}
	return pregel.CheckpointRecord{}, false, nil
}
