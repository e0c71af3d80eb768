package vertex

import (
	"context"

	"github.com/kadirpekel/deepagent-go/pkg/pregel"
)

// StopCondition reports whether a FanInVertex should complete given the
// set of sources it has heard from so far.
type StopCondition func(reported map[pregel.VertexID]bool) bool

// FirstN returns a StopCondition that fires once n distinct sources have
// reported.
func FirstN(n int) StopCondition {
	return func(reported map[pregel.VertexID]bool) bool {
		return len(reported) >= n
	}
}

// AllSources returns a StopCondition that fires once every source in
// sources has reported.
func AllSources(sources []pregel.VertexID) StopCondition {
	return func(reported map[pregel.VertexID]bool) bool {
		for _, s := range sources {
			if !reported[s] {
				return false
			}
		}
		return true
	}
}

// FanInConfig wires a FanInVertex to the sources it buffers and the
// condition under which it completes.
type FanInConfig struct {
	ID     pregel.VertexID
	Target pregel.VertexID
	Stop   StopCondition
}

// FanInVertex buffers messages from a set of sources across supersteps,
// completing (halting and emitting one merged Completed message) once its
// StopCondition fires.
type FanInVertex struct {
	cfg      FanInConfig
	buffered []pregel.WorkflowMessage
	reported map[pregel.VertexID]bool
}

// NewFanIn builds a FanInVertex from cfg.
func NewFanIn(cfg FanInConfig) *FanInVertex {
	return &FanInVertex{cfg: cfg, reported: map[pregel.VertexID]bool{}}
}

func (v *FanInVertex) ID() pregel.VertexID       { return v.cfg.ID }
func (v *FanInVertex) State() pregel.VertexState { return pregel.VertexActive }

func (v *FanInVertex) Compute(ctx context.Context, cctx pregel.ComputeContext[GraphUpdate]) (pregel.ComputeResult[GraphUpdate], error) {
	for _, msg := range cctx.Inbox {
		v.buffered = append(v.buffered, msg)
		if msg.Kind == pregel.MessageCompleted {
			v.reported[pregel.VertexID(msg.Source)] = true
		}
	}

	if v.cfg.Stop == nil || !v.cfg.Stop(v.reported) {
		return pregel.ComputeResult[GraphUpdate]{NextState: pregel.VertexActive}, nil
	}

	var outbox []pregel.OutboxEntry
	if v.cfg.Target != "" {
		outbox = []pregel.OutboxEntry{{
			Target:  v.cfg.Target,
			Message: pregel.Completed(string(v.cfg.ID), v.buffered),
		}}
	}

	return pregel.ComputeResult[GraphUpdate]{
		Outbox:    outbox,
		NextState: pregel.VertexHalted,
	}, nil
}
