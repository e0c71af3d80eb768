package checkpoint

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// FileStore persists checkpoints as one JSON file per (workflow id,
// superstep) pair under Dir, surviving process restarts. CheckpointRecord.StateData
// is already opaque bytes by the time it reaches here (pregel.Runtime
// encodes it through a StateCodec), so FileStore only needs to
// marshal/unmarshal the CheckpointRecord envelope itself.
type FileStore struct {
	Dir string
}

// NewFileStore returns a FileStore rooted at dir. The directory is
// created lazily on first Save.
func NewFileStore(dir string) *FileStore {
	return &FileStore{Dir: dir}
}

var unsafeFilenameChars = regexp.MustCompile(`[^a-zA-Z0-9_-]`)

func sanitizeWorkflowID(id string) string {
	sanitized := unsafeFilenameChars.ReplaceAllString(id, "_")
	sanitized = strings.Trim(sanitized, "_")
	if sanitized == "" {
		return "workflow"
	}
	return sanitized
}

func (s *FileStore) path(workflowID string, superstep int) string {
	return filepath.Join(s.Dir, fmt.Sprintf("%s__%06d.json", sanitizeWorkflowID(workflowID), superstep))
}

// Save writes rec to its own file, creating Dir if necessary.
func (s *FileStore) Save(ctx context.Context, rec pregel.CheckpointRecord) error {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return fmt.Errorf("checkpoint: create dir: %w", err)
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("checkpoint: marshal record: %w", err)
	}
	if err := os.WriteFile(s.path(rec.WorkflowID, rec.Superstep), data, 0o644); err != nil {
		return fmt.Errorf("checkpoint: write file: %w", err)
	}
	return nil
}

// Load returns the checkpoint with the highest superstep for workflowID.
func (s *FileStore) Load(ctx context.Context, workflowID string) (pregel.CheckpointRecord, bool, error) {
	supersteps, err := s.listSupersteps(workflowID)
	if err != nil {
		return pregel.CheckpointRecord{}, false, err
	}
	if len(supersteps) == 0 {
		return pregel.CheckpointRecord{}, false, nil
	}
	latest := supersteps[0]
	for _, n := range supersteps {
		if n > latest {
			latest = n
		}
	}
	return s.LoadAt(ctx, workflowID, latest)
}

// LoadAt returns the checkpoint for workflowID at exactly superstep.
func (s *FileStore) LoadAt(ctx context.Context, workflowID string, superstep int) (pregel.CheckpointRecord, bool, error) {
	data, err := os.ReadFile(s.path(workflowID, superstep))
	if os.IsNotExist(err) {
		return pregel.CheckpointRecord{}, false, nil
	}
	if err != nil {
		return pregel.CheckpointRecord{}, false, fmt.Errorf("checkpoint: read file: %w", err)
	}
	var rec pregel.CheckpointRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return pregel.CheckpointRecord{}, false, fmt.Errorf("checkpoint: unmarshal record: %w", err)
	}
	return rec, true, nil
}

func (s *FileStore) listSupersteps(workflowID string) ([]int, error) {
	entries, err := os.ReadDir(s.Dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("checkpoint: read dir: %w", err)
	}
	prefix := sanitizeWorkflowID(workflowID) + "__"
	var supersteps []int
	for _, entry := range entries {
		name := entry.Name()
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".json") {
			continue
		}
		numPart := strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".json")
		n, err := strconv.Atoi(numPart)
		if err != nil {
			continue
		}
		supersteps = append(supersteps, n)
	}
	return supersteps, nil
}
