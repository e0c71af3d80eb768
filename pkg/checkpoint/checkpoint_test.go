package checkpoint_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/checkpoint"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/pregel/vertex"
)

func sampleRecord(workflowID string, superstep int) pregel.CheckpointRecord {
	return pregel.CheckpointRecord{
		WorkflowID: workflowID,
		Superstep:  superstep,
		StateData:  []byte(`{"Messages":null,"Data":{},"Files":null,"Terminal":false}`),
		Inboxes:    map[pregel.VertexID][]pregel.WorkflowMessage{"v1": {pregel.Data("k", "v")}},
		Retries:    map[pregel.VertexID]int{"v1": 1},
		CreatedAt:  "2026-01-01T00:00:00Z",
	}
}

func TestMemoryStoreLoadsLatest(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord("wf1", 0)))
	require.NoError(t, store.Save(ctx, sampleRecord("wf1", 10)))

	rec, ok, err := store.Load(ctx, "wf1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 10, rec.Superstep)
}

func TestMemoryStoreLoadAt(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	ctx := context.Background()
	require.NoError(t, store.Save(ctx, sampleRecord("wf1", 0)))
	require.NoError(t, store.Save(ctx, sampleRecord("wf1", 10)))

	rec, ok, err := store.LoadAt(ctx, "wf1", 0)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 0, rec.Superstep)

	_, ok, err = store.LoadAt(ctx, "wf1", 5)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryStoreUnknownWorkflow(t *testing.T) {
	store := checkpoint.NewMemoryStore()
	_, ok, err := store.Load(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestFileStoreRoundTrips(t *testing.T) {
	dir := t.TempDir()
	store := checkpoint.NewFileStore(dir)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord("my workflow/1", 0)))
	require.NoError(t, store.Save(ctx, sampleRecord("my workflow/1", 3)))

	rec, ok, err := store.Load(ctx, "my workflow/1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 3, rec.Superstep)
	require.Equal(t, "my workflow/1", rec.WorkflowID)
	require.Equal(t, 1, rec.Retries["v1"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 2)
}

func TestFileStoreMissingWorkflowReturnsNotOk(t *testing.T) {
	store := checkpoint.NewFileStore(t.TempDir())
	_, ok, err := store.Load(context.Background(), "ghost")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestJSONCodecRoundTripsGraphState(t *testing.T) {
	codec := checkpoint.JSONCodec[vertex.GraphUpdate, vertex.GraphState]{}

	gs := vertex.NewGraphState()
	gs.Data["k"] = "v"

	data, err := codec.Marshal(gs)
	require.NoError(t, err)

	restored, err := codec.Unmarshal(data)
	require.NoError(t, err)
	require.Equal(t, "v", restored.(vertex.GraphState).Data["k"])
}
