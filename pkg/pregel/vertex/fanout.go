package vertex

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// SplitStrategy decides which of a FanOut vertex's targets receive a
// given message.
type SplitStrategy string

const (
	SplitRoundRobin     SplitStrategy = "round_robin"
	SplitBroadcast      SplitStrategy = "broadcast"
	SplitKeyPartitioned SplitStrategy = "key_partitioned"
)

// FanOutConfig wires a FanOutVertex to its split strategy and targets.
type FanOutConfig struct {
	ID       pregel.VertexID
	Targets  []pregel.VertexID
	Strategy SplitStrategy

	// For SplitKeyPartitioned, each message's own Key is hashed (a
	// multiply-by-31 string hash, modulo len(Targets)) to pick a target,
	// giving identical keys a stable home.
}

// FanOutVertex splits its inbox across Targets according to Strategy and
// halts.
type FanOutVertex struct {
	cfg  FanOutConfig
	next int // round-robin cursor, advances across computes
}

// NewFanOut builds a FanOutVertex from cfg.
func NewFanOut(cfg FanOutConfig) *FanOutVertex {
	return &FanOutVertex{cfg: cfg}
}

func (v *FanOutVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *FanOutVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *FanOutVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	var outbox []pregel.OutboxEntry
	targets := v.cfg.Targets

	if len(targets) == 0 {
		return pregel.ComputeResult[GraphUpdate]{NextState: pregel.VertexHalted}, nil
	}

	for _, msg := range cctx.Inbox {
		switch v.cfg.Strategy {
		case SplitBroadcast:
			for _, t := range targets {
				outbox = append(outbox, pregel.OutboxEntry{Target: t, Message: msg})
			}
		case SplitKeyPartitioned:
			idx := partitionIndex(msg.Key, len(targets))
			outbox = append(outbox, pregel.OutboxEntry{Target: targets[idx], Message: msg})
		default: // SplitRoundRobin
			outbox = append(outbox, pregel.OutboxEntry{Target: targets[v.next%len(targets)], Message: msg})
			v.next++
		}
	}

	return pregel.ComputeResult[GraphUpdate]{
		Outbox:    outbox,
		NextState: pregel.VertexHalted,
	}, nil
}

func partitionIndex(key string, n int) int {
	if n == 0 {
		return 0
	}
	h := 0
	for _, r := range key {
		h = h*31 + int(r)
	}
	if h < 0 {
		h = -h
	}
	return h % n
}
