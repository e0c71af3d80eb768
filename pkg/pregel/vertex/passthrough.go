package vertex

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// PassthroughVertex forwards its inbox unchanged to Target, used to
// stitch graphs together without adding computation.
type PassthroughVertex struct {
	id     pregel.VertexID
	target pregel.VertexID
}

// NewPassthrough builds a PassthroughVertex that forwards every inbox
// message to target.
func NewPassthrough(id, target pregel.VertexID) *PassthroughVertex {
	return &PassthroughVertex{id: id, target: target}
}

func (v *PassthroughVertex) ID() pregel.VertexID       { return v.id }
func (v *PassthroughVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *PassthroughVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	outbox := make([]pregel.OutboxEntry, 0, len(cctx.Inbox))
	for _, msg := range cctx.Inbox {
		outbox = append(outbox, pregel.OutboxEntry{Target: v.target, Message: msg})
	}
	return pregel.ComputeResult[GraphUpdate]{
		Outbox:    outbox,
		NextState: pregel.VertexActive,
	}, nil
}
