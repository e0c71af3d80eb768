package vertex_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/pregel/vertex"
)

func TestFanOutRoundRobin(t *testing.T) {
	v := vertex.NewFanOut(vertex.FanOutConfig{
		ID:       "fanout",
		Targets:  []pregel.VertexID{"a", "b"},
		Strategy: vertex.SplitRoundRobin,
	})
	inbox := []pregel.WorkflowMessage{pregel.Data("k", 1), pregel.Data("k", 2), pregel.Data("k", 3)}
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{Inbox: inbox, State: vertex.NewGraphState()})
	require.NoError(t, err)
	require.Equal(t, pregel.VertexHalted, res.NextState)
	require.Len(t, res.Outbox, 3)
	require.Equal(t, pregel.VertexID("a"), res.Outbox[0].Target)
	require.Equal(t, pregel.VertexID("b"), res.Outbox[1].Target)
	require.Equal(t, pregel.VertexID("a"), res.Outbox[2].Target)
}

func TestFanOutBroadcast(t *testing.T) {
	v := vertex.NewFanOut(vertex.FanOutConfig{
		ID:       "fanout",
		Targets:  []pregel.VertexID{"a", "b", "c"},
		Strategy: vertex.SplitBroadcast,
	})
	inbox := []pregel.WorkflowMessage{pregel.Data("k", 1)}
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{Inbox: inbox, State: vertex.NewGraphState()})
	require.NoError(t, err)
	require.Len(t, res.Outbox, 3)
}

func TestFanInCompletesOnAllSources(t *testing.T) {
	v := vertex.NewFanIn(vertex.FanInConfig{
		ID:     "fanin",
		Target: "done",
		Stop:   vertex.AllSources([]pregel.VertexID{"a", "b"}),
	})

	gs := vertex.NewGraphState()
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{
		Inbox: []pregel.WorkflowMessage{pregel.Completed("a", nil)},
		State: gs,
	})
	require.NoError(t, err)
	require.Equal(t, pregel.VertexActive, res.NextState)
	require.Empty(t, res.Outbox)

	res, err = v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{
		Inbox: []pregel.WorkflowMessage{pregel.Completed("b", nil)},
		State: gs,
	})
	require.NoError(t, err)
	require.Equal(t, pregel.VertexHalted, res.NextState)
	require.Len(t, res.Outbox, 1)
	require.Equal(t, pregel.VertexID("done"), res.Outbox[0].Target)
}

func TestFanInFirstN(t *testing.T) {
	v := vertex.NewFanIn(vertex.FanInConfig{ID: "fanin", Stop: vertex.FirstN(1)})
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{
		Inbox: []pregel.WorkflowMessage{pregel.Completed("a", nil)},
		State: vertex.NewGraphState(),
	})
	require.NoError(t, err)
	require.Equal(t, pregel.VertexHalted, res.NextState)
}

func TestPassthroughForwardsInboxToTarget(t *testing.T) {
	v := vertex.NewPassthrough("p", "next")
	inbox := []pregel.WorkflowMessage{pregel.Data("k", "v"), pregel.Halt()}
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{Inbox: inbox, State: vertex.NewGraphState()})
	require.NoError(t, err)
	require.Len(t, res.Outbox, 2)
	for _, e := range res.Outbox {
		require.Equal(t, pregel.VertexID("next"), e.Target)
	}
}

func TestRouterStatePredicate(t *testing.T) {
	v := vertex.NewRouter(vertex.RouterConfig{
		ID: "router",
		Strategy: vertex.StatePredicateStrategy(func(gs vertex.GraphState) string {
			if n, ok := gs.Data["count"].(int); ok && n > 5 {
				return "big"
			}
			return "small"
		}),
	})

	gs := vertex.NewGraphState()
	gs.Data["count"] = 10
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{State: gs})
	require.NoError(t, err)
	require.Equal(t, pregel.VertexHalted, res.NextState)
	require.Equal(t, "big", res.RoutingHint)
}

func TestRouterMatchMessage(t *testing.T) {
	v := vertex.NewRouter(vertex.RouterConfig{
		ID: "router",
		Strategy: vertex.MatchMessageStrategy(map[pregel.MessageKind]string{
			pregel.MessageHalt: "stop",
		}, "continue"),
	})
	res, err := v.Compute(context.Background(), pregel.ComputeContext[vertex.GraphUpdate]{
		Inbox: []pregel.WorkflowMessage{pregel.Halt()},
		State: vertex.NewGraphState(),
	})
	require.NoError(t, err)
	require.Equal(t, "stop", res.RoutingHint)
}

func TestGraphStateApplyUpdateIsImmutable(t *testing.T) {
	gs := vertex.NewGraphState()
	next := gs.ApplyUpdate(vertex.GraphUpdate{Data: map[string]any{"k": "v"}})
	require.Empty(t, gs.Data)
	require.Equal(t, "v", next.(vertex.GraphState).Data["k"])
}
