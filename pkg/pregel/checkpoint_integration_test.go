package pregel_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/checkpoint"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// boundedCounterState is a JSON-serializable counter state (an exported
// field, unlike counterState in state_test.go) used to exercise
// checkpoint save/resume through pkg/checkpoint's JSONCodec.
type boundedCounterState struct{ Count int }

type boundedCounterUpdate struct{ Delta int }

func (u boundedCounterUpdate) IsEmpty() bool { return u.Delta == 0 }

func (s boundedCounterState) ApplyUpdate(u boundedCounterUpdate) pregel.WorkflowState[boundedCounterUpdate] {
	return boundedCounterState{Count: s.Count + u.Delta}
}

func (s boundedCounterState) MergeUpdates(updates []boundedCounterUpdate) boundedCounterUpdate {
	total := 0
	for _, u := range updates {
		total += u.Delta
	}
	return boundedCounterUpdate{Delta: total}
}

func (s boundedCounterState) IsTerminal() bool { return s.Count >= 6 }

type boundedIncrementerVertex struct{ id pregel.VertexID }

func (v *boundedIncrementerVertex) ID() pregel.VertexID       { return v.id }
func (v *boundedIncrementerVertex) State() pregel.VertexState { return pregel.VertexActive }
func (v *boundedIncrementerVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[boundedCounterUpdate]) (pregel.ComputeResult[boundedCounterUpdate], error) {
	return pregel.ComputeResult[boundedCounterUpdate]{
		StateUpdate: boundedCounterUpdate{Delta: 1},
		NextState:   pregel.VertexActive,
	}, nil
}

// TestCheckpointResumeMatchesUninterruptedRun exercises spec scenario F:
// a run that is forced to fail partway through (by a tight MaxSupersteps
// bound) with checkpointing enabled, resumed from the last saved
// checkpoint, reaches the same final state as an uninterrupted run.
func TestCheckpointResumeMatchesUninterruptedRun(t *testing.T) {
	codec := checkpoint.JSONCodec[boundedCounterUpdate, boundedCounterState]{}

	newVertex := func() []pregel.Vertex[boundedCounterUpdate] {
		return []pregel.Vertex[boundedCounterUpdate]{&boundedIncrementerVertex{id: "inc"}}
	}

	// Uninterrupted baseline: no checkpointing, generous superstep budget.
	baselineCfg := pregel.DefaultConfig()
	baselineCfg.MaxSupersteps = 20
	baseline := pregel.NewRuntime[boundedCounterUpdate]("wf-baseline", baselineCfg, newVertex(), nil, "inc")
	baselineResult, err := baseline.Run(context.Background(), boundedCounterState{})
	require.NoError(t, err)
	require.Equal(t, 6, baselineResult.State.(boundedCounterState).Count)

	// Interrupted run: checkpoints every 2 supersteps, forced to fail via
	// a MaxSupersteps bound tight enough to trip before reaching terminal.
	store := checkpoint.NewMemoryStore()
	firstCfg := pregel.DefaultConfig()
	firstCfg.MaxSupersteps = 5
	firstCfg.CheckpointInterval = 2
	first := pregel.NewRuntime[boundedCounterUpdate]("wf-resume", firstCfg, newVertex(), nil, "inc",
		pregel.WithCheckpointing[boundedCounterUpdate](store, codec))

	_, err = first.Run(context.Background(), boundedCounterState{})
	require.Error(t, err)
	perr, ok := err.(*pregel.Error)
	require.True(t, ok)
	require.Equal(t, pregel.KindMaxSupersteps, perr.Kind)

	rec, ok, err := store.Load(context.Background(), "wf-resume")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 4, rec.Superstep, "checkpoint at superstep 4 must exist before the run fails")

	// Resume with a runtime that has enough budget left to finish.
	resumeCfg := pregel.DefaultConfig()
	resumeCfg.MaxSupersteps = 20
	resumeCfg.CheckpointInterval = 2
	resumed := pregel.NewRuntime[boundedCounterUpdate]("wf-resume", resumeCfg, newVertex(), nil, "inc",
		pregel.WithCheckpointing[boundedCounterUpdate](store, codec))

	resumedResult, err := resumed.Resume(context.Background(), "wf-resume")
	require.NoError(t, err)
	require.Equal(t, 6, resumedResult.State.(boundedCounterState).Count,
		"resumed run must reach the same final state as the uninterrupted baseline")
}

// TestCheckpointResumeNoCheckpointFails checks that Resume surfaces an
// error when no checkpoint was ever saved for the given workflow id.
func TestCheckpointResumeNoCheckpointFails(t *testing.T) {
	codec := checkpoint.JSONCodec[boundedCounterUpdate, boundedCounterState]{}
	store := checkpoint.NewMemoryStore()
	cfg := pregel.DefaultConfig()
	rt := pregel.NewRuntime[boundedCounterUpdate]("wf-missing", cfg,
		[]pregel.Vertex[boundedCounterUpdate]{&boundedIncrementerVertex{id: "inc"}}, nil, "inc",
		pregel.WithCheckpointing[boundedCounterUpdate](store, codec))

	_, err := rt.Resume(context.Background(), "wf-missing")
	require.Error(t, err)
}
