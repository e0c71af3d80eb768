package pregel

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// WorkflowResult is what Run returns on successful completion.
type WorkflowResult[U StateUpdate] struct {
	State      WorkflowState[U]
	Supersteps int
}

// Runtime executes a graph of vertices to completion following the
// bulk-synchronous-parallel superstep algorithm: within a superstep,
// active vertices compute concurrently (bounded by Config.Parallelism)
// against a single immutable state snapshot; across supersteps execution
// is strictly sequential, the superstep barrier being the only
// synchronization point.
type Runtime[U StateUpdate] struct {
	workflowID string
	cfg        Config
	vertices   map[VertexID]Vertex[U]
	edges      map[VertexID][]Edge
	entry      VertexID
	logger     *slog.Logger

	store CheckpointStore
	codec StateCodec[U]
}

// Option configures a Runtime at construction time.
type Option[U StateUpdate] func(*Runtime[U])

// WithLogger overrides the runtime's slog.Logger (default slog.Default()).
func WithLogger[U StateUpdate](logger *slog.Logger) Option[U] {
	return func(r *Runtime[U]) { r.logger = logger }
}

// WithCheckpointing enables periodic and on-demand checkpointing via
// store, encoding workflow state through codec.
func WithCheckpointing[U StateUpdate](store CheckpointStore, codec StateCodec[U]) Option[U] {
	return func(r *Runtime[U]) {
		r.store = store
		r.codec = codec
	}
}

// NewRuntime builds a Runtime over vertices connected by edges, starting
// at entry.
func NewRuntime[U StateUpdate](workflowID string, cfg Config, vertices []Vertex[U], edges map[VertexID][]Edge, entry VertexID, opts ...Option[U]) *Runtime[U] {
	vmap := make(map[VertexID]Vertex[U], len(vertices))
	for _, v := range vertices {
		vmap[v.ID()] = v
	}
	r := &Runtime[U]{
		workflowID: workflowID,
		cfg:        cfg,
		vertices:   vmap,
		edges:      edges,
		entry:      entry,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// checkpointingEnabled reports whether a CheckpointStore was configured.
func (r *Runtime[U]) checkpointingEnabled() bool { return r.store != nil }

// Run drives the superstep loop to completion, returning the final
// workflow state once every vertex has halted (or the state itself
// reports terminal), or a *Error describing why the run failed.
func (r *Runtime[U]) Run(ctx context.Context, initial WorkflowState[U]) (WorkflowResult[U], error) {
	return r.run(ctx, initial, 0, nil, map[VertexID]int{})
}

// Resume continues a workflow from the latest checkpoint for workflowID,
// restoring state, inboxes, and retry counters and resuming at
// checkpoint.Superstep + 1. It returns a CheckpointMismatch error if the
// stored record's workflow id does not match workflowID.
func (r *Runtime[U]) Resume(ctx context.Context, workflowID string) (WorkflowResult[U], error) {
	if !r.checkpointingEnabled() {
		return WorkflowResult[U]{}, newErr(KindCheckpointError, fmt.Errorf("resume requires WithCheckpointing"))
	}
	rec, ok, err := r.store.Load(ctx, workflowID)
	if err != nil {
		return WorkflowResult[U]{}, newErr(KindCheckpointError, err)
	}
	if !ok {
		return WorkflowResult[U]{}, newErr(KindCheckpointError, fmt.Errorf("no checkpoint found for workflow %q", workflowID))
	}
	if rec.WorkflowID != workflowID {
		return WorkflowResult[U]{}, newCheckpointMismatchErr(workflowID, rec.WorkflowID)
	}
	state, err := r.codec.Unmarshal(rec.StateData)
	if err != nil {
		return WorkflowResult[U]{}, newErr(KindCheckpointError, err)
	}
	inboxes := rec.Inboxes
	if inboxes == nil {
		inboxes = map[VertexID][]WorkflowMessage{}
	}
	retries := rec.Retries
	if retries == nil {
		retries = map[VertexID]int{}
	}
	return r.run(ctx, state, rec.Superstep+1, inboxes, retries)
}

func (r *Runtime[U]) run(ctx context.Context, initial WorkflowState[U], startSuperstep int, pendingInboxes map[VertexID][]WorkflowMessage, retryCounts map[VertexID]int) (WorkflowResult[U], error) {
	if r.cfg.WorkflowTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.WorkflowTimeout)
		defer cancel()
	}

	states := make(map[VertexID]VertexState, len(r.vertices))
	for id := range r.vertices {
		switch r.cfg.ExecutionMode {
		case ExecutionModeEdgeDriven:
			if id == r.entry {
				states[id] = VertexActive
			} else {
				states[id] = VertexHalted
			}
		default:
			states[id] = VertexActive
		}
	}

	pending := pendingInboxes
	if pending == nil {
		pending = map[VertexID][]WorkflowMessage{r.entry: {Activate()}}
	}
	if retryCounts == nil {
		retryCounts = map[VertexID]int{}
	}

	state := initial
	superstep := startSuperstep

	for {
		select {
		case <-ctx.Done():
			if ctx.Err() == context.DeadlineExceeded {
				return WorkflowResult[U]{}, newErr(KindWorkflowTimeout, ctx.Err())
			}
			return WorkflowResult[U]{}, newErr(KindCancelled, ctx.Err())
		default:
		}

		// Deliver: move pending inbox into this superstep's inbox.
		current := pending
		pending = map[VertexID][]WorkflowMessage{}

		var active []VertexID
		for id, st := range states {
			if st == VertexActive || len(current[id]) > 0 {
				active = append(active, id)
			}
		}

		if len(active) == 0 {
			return WorkflowResult[U]{State: state, Supersteps: superstep}, nil
		}

		results, err := r.computeSuperstep(ctx, active, current, state, superstep, retryCounts)
		if err != nil {
			return WorkflowResult[U]{}, err
		}

		// Sort by vertex id before merging/routing: computeSuperstep's
		// results arrive in whatever order concurrent goroutines finish and
		// grab the mutex, which is not deterministic across runs. The
		// order MergeUpdates sees can be observable (GraphState appends
		// messages in input order and lets the last write win), and so is
		// outbox delivery order to a shared target vertex (e.g. FanInVertex appends inbox messages in
		// delivery order), so it must not depend on goroutine scheduling.
		sort.Slice(results, func(i, j int) bool { return results[i].vertex < results[j].vertex })

		// Merge state.
		updates := make([]U, 0, len(results))
		for _, res := range results {
			updates = append(updates, res.result.StateUpdate)
		}
		state = ApplyUpdates(state, updates)

		// Route outgoing messages.
		halted := map[VertexID]bool{}
		for _, res := range results {
			states[res.vertex] = res.result.NextState
			if res.result.NextState == VertexHalted {
				halted[res.vertex] = true
			}
			for _, entry := range res.result.Outbox {
				r.deliver(pending, entry.Target, entry.Message)
			}
			if r.cfg.ExecutionMode == ExecutionModeEdgeDriven && res.result.NextState == VertexHalted {
				r.routeOnHalt(pending, res.vertex, res.result.RoutingHint)
			}
		}

		if r.checkpointingEnabled() && r.cfg.ShouldCheckpoint(true, superstep) {
			if err := r.checkpoint(ctx, state, pending, retryCounts, superstep); err != nil {
				return WorkflowResult[U]{}, err
			}
		}

		if state.IsTerminal() {
			return WorkflowResult[U]{State: state, Supersteps: superstep}, nil
		}
		allHalted := true
		for _, st := range states {
			if st != VertexHalted {
				allHalted = false
				break
			}
		}
		if allHalted && len(pending) == 0 {
			return WorkflowResult[U]{State: state, Supersteps: superstep}, nil
		}
		if superstep+1 >= r.cfg.MaxSupersteps {
			return WorkflowResult[U]{}, newErr(KindMaxSupersteps, nil)
		}

		superstep++
	}
}

// routeOnHalt enqueues edge-routed activation messages when a vertex
// halts in EdgeDriven mode: direct edges always fire, conditional edges
// are resolved by the vertex's routing hint, and an unmatched hint routes
// to END (a no-op sink).
func (r *Runtime[U]) routeOnHalt(pending map[VertexID][]WorkflowMessage, source VertexID, hint string) {
	for _, edge := range r.edges[source] {
		target, ok := edge.resolve(hint)
		if !ok || target == END {
			continue
		}
		r.deliver(pending, target, Activate())
	}
}

func (r *Runtime[U]) deliver(pending map[VertexID][]WorkflowMessage, target VertexID, msg WorkflowMessage) {
	if target == END {
		return
	}
	pending[target] = append(pending[target], msg)
}

type vertexComputeOutcome[U StateUpdate] struct {
	vertex VertexID
	result ComputeResult[U]
}

// computeSuperstep runs every active vertex's Compute call concurrently,
// bounded by Config.Parallelism, applying per-call timeout, panic
// recovery, and retry-with-backoff; it fails fast on the first
// unrecoverable or retry-exhausted vertex error.
func (r *Runtime[U]) computeSuperstep(ctx context.Context, active []VertexID, inbox map[VertexID][]WorkflowMessage, state WorkflowState[U], superstep int, retryCounts map[VertexID]int) ([]vertexComputeOutcome[U], error) {
	parallelism := r.cfg.Parallelism
	if parallelism <= 0 {
		parallelism = 1
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(parallelism)

	var (
		mu      sync.Mutex
		results = make([]vertexComputeOutcome[U], 0, len(active))
	)

	for _, id := range active {
		id := id
		group.Go(func() error {
			res, err := r.computeVertexWithRetry(groupCtx, id, inbox[id], state, superstep, retryCounts)
			if err != nil {
				return err
			}
			mu.Lock()
			defer mu.Unlock()
			results = append(results, vertexComputeOutcome[U]{vertex: id, result: res})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// computeVertexWithRetry calls v.Compute, retrying recoverable errors per
// Config.Retry with exponential backoff, and recovering panics as a
// VertexError rather than crashing the whole workflow.
func (r *Runtime[U]) computeVertexWithRetry(ctx context.Context, id VertexID, msgs []WorkflowMessage, state WorkflowState[U], superstep int, retryCounts map[VertexID]int) (result ComputeResult[U], err error) {
	v, ok := r.vertices[id]
	if !ok {
		return ComputeResult[U]{}, newVertexErr(string(id), fmt.Errorf("vertex not found"))
	}

	cctx := ComputeContext[U]{
		VertexID:  id,
		Inbox:     msgs,
		State:     state,
		Superstep: superstep,
	}

	attempts := 0
	for {
		result, err = r.computeOnce(ctx, v, cctx)
		if err == nil {
			return result, nil
		}

		perr, ok := err.(*Error)
		if !ok {
			perr = newVertexErr(string(id), err)
		}
		if !perr.IsRecoverable() {
			return ComputeResult[U]{}, perr
		}
		if !r.cfg.Retry.ShouldRetry(attempts) {
			return ComputeResult[U]{}, newMaxRetriesErr(string(id), attempts)
		}

		delay := r.cfg.Retry.DelayForAttempt(attempts)
		attempts++
		retryCounts[id] = attempts
		r.logger.Warn("pregel: vertex compute failed, retrying", "vertex", id, "attempt", attempts, "delay", delay, "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ComputeResult[U]{}, newErr(KindCancelled, ctx.Err())
		case <-timer.C:
		}
	}
}

// computeOnce wraps a single Compute call with the vertex timeout and
// panic recovery.
func (r *Runtime[U]) computeOnce(ctx context.Context, v Vertex[U], cctx ComputeContext[U]) (result ComputeResult[U], err error) {
	callCtx := ctx
	if r.cfg.VertexTimeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.cfg.VertexTimeout)
		defer cancel()
	}

	done := make(chan struct{})
	go func() {
		defer func() {
			if p := recover(); p != nil {
				err = newVertexErr(string(v.ID()), fmt.Errorf("panic: %v", p))
			}
			close(done)
		}()
		result, err = v.Compute(callCtx, cctx)
	}()

	select {
	case <-done:
		return result, err
	case <-callCtx.Done():
		return ComputeResult[U]{}, newVertexTimeoutErr(string(v.ID()))
	}
}

func (r *Runtime[U]) checkpoint(ctx context.Context, state WorkflowState[U], inboxes map[VertexID][]WorkflowMessage, retries map[VertexID]int, superstep int) error {
	data, err := r.codec.Marshal(state)
	if err != nil {
		return newErr(KindCheckpointError, err)
	}
	rec := CheckpointRecord{
		WorkflowID: r.workflowID,
		Superstep:  superstep,
		StateData:  data,
		Inboxes:    inboxes,
		Retries:    retries,
		CreatedAt:  time.Now().UTC().Format(time.RFC3339),
	}
	if err := r.store.Save(ctx, rec); err != nil {
		return newErr(KindCheckpointError, err)
	}
	return nil
}
