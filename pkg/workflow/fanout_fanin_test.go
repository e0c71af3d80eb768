package workflow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/pregel/vertex"
	"github.com/kadirpekel/deepagent-go/pkg/workflow"
)

// reportingWorker answers any inbox message by recording 1 under its own
// id in GraphState.Data and reporting Completed to target, then halting.
type reportingWorker struct {
	id     pregel.VertexID
	target pregel.VertexID
}

func (v *reportingWorker) ID() pregel.VertexID       { return v.id }
func (v *reportingWorker) State() pregel.VertexState { return pregel.VertexActive }
func (v *reportingWorker) Compute(ctx context.Context, cctx pregel.ComputeContext[vertex.GraphUpdate]) (pregel.ComputeResult[vertex.GraphUpdate], error) {
	if len(cctx.Inbox) == 0 {
		return pregel.ComputeResult[vertex.GraphUpdate]{NextState: pregel.VertexActive}, nil
	}
	return pregel.ComputeResult[vertex.GraphUpdate]{
		StateUpdate: vertex.GraphUpdate{Data: map[string]any{string(v.id): 1}},
		Outbox: []pregel.OutboxEntry{{
			Target:  v.target,
			Message: pregel.Completed(string(v.id), 1),
		}},
		NextState: pregel.VertexHalted,
	}, nil
}

// TestFanOutFanInEndToEnd exercises spec.md's scenario E through the full
// workflow.WorkflowGraph -> pregel.Runtime stack: entry -> FanOut
// (broadcast) -> two workers -> FanIn(all sources) -> END.
func TestFanOutFanInEndToEnd(t *testing.T) {
	fanOut := vertex.NewFanOut(vertex.FanOutConfig{
		ID:       "fanout",
		Targets:  []pregel.VertexID{"worker_a", "worker_b"},
		Strategy: vertex.SplitBroadcast,
	})
	workerA := &reportingWorker{id: "worker_a", target: "fanin"}
	workerB := &reportingWorker{id: "worker_b", target: "fanin"}
	fanIn := vertex.NewFanIn(vertex.FanInConfig{
		ID:   "fanin",
		Stop: vertex.AllSources([]pregel.VertexID{"worker_a", "worker_b"}),
	})

	g, err := workflow.New[vertex.GraphState, vertex.GraphUpdate]().
		Name("fanout-fanin").
		Node("fanout", fanOut).
		Node("worker_a", workerA).
		Node("worker_b", workerB).
		Node("fanin", fanIn).
		Entry("fanout").
		Build()
	require.NoError(t, err)

	cfg := pregel.DefaultConfig()
	cfg.MaxSupersteps = 10
	rt := g.NewRuntime("wf-fanoutfanin", cfg)

	result, err := rt.Run(context.Background(), vertex.NewGraphState())
	require.NoError(t, err)

	final := result.State.(vertex.GraphState)
	sum := 0
	for _, v := range final.Data {
		sum += v.(int)
	}
	require.Equal(t, 2, sum, "both workers must have reported exactly once")
	require.LessOrEqual(t, result.Supersteps, 5)
}
