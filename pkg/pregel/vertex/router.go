package vertex

import (
	"context"
	"strings"

	"github.com/kadirpekel/deepagent-go/pkg/llm"
	"github.com/kadirpekel/deepagent-go/pkg/pregel"
	"github.com/kadirpekel/deepagent-go/pkg/state"
)

// RoutingStrategy decides a branch label for a RouterVertex given the
// current workflow state and the messages delivered this superstep.
type RoutingStrategy func(ctx context.Context, gs GraphState, inbox []pregel.WorkflowMessage) (string, error)

// StatePredicateStrategy builds a RoutingStrategy from a pure function of
// GraphState, for routing decisions that only need workflow data.
func StatePredicateStrategy(predicate func(GraphState) string) RoutingStrategy {
	return func(_ context.Context, gs GraphState, _ []pregel.WorkflowMessage) (string, error) {
		return predicate(gs), nil
	}
}

// MatchMessageStrategy routes by the MessageKind of the first inbox
// message matching a configured kind, falling back to fallback if none
// match.
func MatchMessageStrategy(branches map[pregel.MessageKind]string, fallback string) RoutingStrategy {
	return func(_ context.Context, _ GraphState, inbox []pregel.WorkflowMessage) (string, error) {
		for _, m := range inbox {
			if branch, ok := branches[m.Kind]; ok {
				return branch, nil
			}
		}
		return fallback, nil
	}
}

// LLMClassifierStrategy asks provider to classify the workflow state into
// one of labels, using prompt to render the classification question.
// The raw completion text is returned as the routing hint verbatim; the
// caller's conditional edges decide what to do with an unrecognized
// label (unmatched hints route to END).
func LLMClassifierStrategy(provider llm.Provider, prompt func(GraphState) string, labels []string) RoutingStrategy {
	return func(ctx context.Context, gs GraphState, _ []pregel.WorkflowMessage) (string, error) {
		system := "Classify the input into exactly one of: " + strings.Join(labels, ", ") + ". Respond with the label only."
		req := llm.Request{
			Messages: []state.Message{
				state.NewSystemMessage(system),
				state.NewUserMessage(prompt(gs)),
			},
		}
		resp, err := provider.Complete(ctx, req)
		if err != nil {
			return "", err
		}
		return strings.TrimSpace(resp.Message.Content), nil
	}
}

// RouterConfig wires a RouterVertex to its strategy.
type RouterConfig struct {
	ID       pregel.VertexID
	Strategy RoutingStrategy
}

// RouterVertex evaluates a RoutingStrategy and halts, leaving its
// RoutingHint for conditional edges (or the graph's own dispatch logic in
// MessageBased mode) to act on.
type RouterVertex struct {
	cfg RouterConfig
}

// NewRouter builds a RouterVertex from cfg.
func NewRouter(cfg RouterConfig) *RouterVertex {
	return &RouterVertex{cfg: cfg}
}

func (v *RouterVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *RouterVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *RouterVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	gs := asGraphState(cctx.State)
	hint, err := v.cfg.Strategy(ctx, gs, cctx.Inbox)
	if err != nil {
		return pregel.ComputeResult[GraphUpdate]{}, err
	}
	return pregel.ComputeResult[GraphUpdate]{
		NextState:   pregel.VertexHalted,
		RoutingHint: hint,
	}, nil
}
