package pregel

import (
	"runtime"
	"time"
)

// ExecutionMode controls how vertices are activated at workflow start.
type ExecutionMode string

const (
	// ExecutionModeMessageBased starts every vertex Active; a vertex
	// computes on every superstep until it halts itself. This is the
	// default, matching a plain Pregel/Bulk-Synchronous-Parallel graph.
	ExecutionModeMessageBased ExecutionMode = "message_based"

	// ExecutionModeEdgeDriven starts only the entry vertex Active; all
	// others begin Halted and are activated by edge-routed Activate
	// messages when their upstream neighbor halts, matching LangGraph's
	// activation model.
	ExecutionModeEdgeDriven ExecutionMode = "edge_driven"
)

const (
	// DefaultMaxSupersteps bounds how many supersteps a workflow may run
	// before failing with MaxSupersteps.
	DefaultMaxSupersteps = 100

	// DefaultCheckpointInterval is how many supersteps elapse between
	// automatic checkpoints when checkpointing is enabled.
	DefaultCheckpointInterval = 10

	// DefaultVertexTimeout bounds a single vertex's compute call.
	DefaultVertexTimeout = 300 * time.Second

	// DefaultWorkflowTimeout bounds the whole run, across all supersteps.
	DefaultWorkflowTimeout = 3600 * time.Second
)

// RetryPolicy controls per-vertex retry behavior for recoverable errors
// (VertexTimeout, VertexError, MessageDeliveryError).
type RetryPolicy struct {
	MaxRetries  int
	BackoffBase time.Duration
	BackoffMax  time.Duration
}

// DefaultRetryPolicy returns the runtime's standard retry behavior: up to
// 3 retries with exponential backoff starting at 100ms, capped at 10s.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxRetries:  3,
		BackoffBase: 100 * time.Millisecond,
		BackoffMax:  10 * time.Second,
	}
}

// NoRetry returns a RetryPolicy that never retries.
func NoRetry() RetryPolicy {
	p := DefaultRetryPolicy()
	p.MaxRetries = 0
	return p
}

// DelayForAttempt returns the backoff delay before retry attempt n
// (0-indexed), doubling from BackoffBase and capped at BackoffMax.
func (p RetryPolicy) DelayForAttempt(n int) time.Duration {
	delay := p.BackoffBase
	for i := 0; i < n; i++ {
		delay *= 2
		if delay >= p.BackoffMax {
			return p.BackoffMax
		}
	}
	if delay > p.BackoffMax {
		return p.BackoffMax
	}
	return delay
}

// ShouldRetry reports whether another attempt is permitted given the
// number of attempts already made.
func (p RetryPolicy) ShouldRetry(attempts int) bool {
	return attempts < p.MaxRetries
}

// Config controls a workflow run's scheduling, retry, checkpointing and
// timeout behavior.
type Config struct {
	MaxSupersteps      int
	Parallelism        int
	CheckpointInterval int
	VertexTimeout      time.Duration
	WorkflowTimeout    time.Duration
	TracingEnabled     bool
	ExecutionMode      ExecutionMode
	Retry              RetryPolicy

	// checkpointing is enabled by a non-nil CheckpointStore passed to
	// NewRuntime through WithCheckpointing, not by this struct; CheckpointInterval only controls the
	// cadence once a store is present.
}

// DefaultConfig returns the runtime's standard configuration.
func DefaultConfig() Config {
	return Config{
		MaxSupersteps:      DefaultMaxSupersteps,
		Parallelism:        runtime.NumCPU(),
		CheckpointInterval: DefaultCheckpointInterval,
		VertexTimeout:      DefaultVertexTimeout,
		WorkflowTimeout:    DefaultWorkflowTimeout,
		TracingEnabled:     true,
		ExecutionMode:      ExecutionModeMessageBased,
		Retry:              DefaultRetryPolicy(),
	}
}

// ShouldCheckpoint reports whether superstep should trigger a checkpoint,
// given that checkpointing is enabled (a CheckpointStore was configured).
// Superstep 0 never checkpoints (there is nothing to persist yet); after
// that, a checkpoint fires every CheckpointInterval supersteps.
func (c Config) ShouldCheckpoint(checkpointingEnabled bool, superstep int) bool {
	if !checkpointingEnabled || c.CheckpointInterval <= 0 {
		return false
	}
	return superstep > 0 && superstep%c.CheckpointInterval == 0
}
