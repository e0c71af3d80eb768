package pregel

import "fmt"

// ErrorKind enumerates the Pregel runtime's failure taxonomy.
type ErrorKind string

const (
	KindMaxSupersteps      ErrorKind = "max_supersteps_exceeded"
	KindVertexTimeout      ErrorKind = "vertex_timeout"
	KindVertexError        ErrorKind = "vertex_error"
	KindRoutingError       ErrorKind = "routing_error"
	KindRecursionLimit     ErrorKind = "recursion_limit"
	KindStateError         ErrorKind = "state_error"
	KindCheckpointError    ErrorKind = "checkpoint_error"
	KindNotImplemented     ErrorKind = "not_implemented"
	KindConfigError        ErrorKind = "config_error"
	KindMessageDelivery    ErrorKind = "message_delivery_error"
	KindCancelled          ErrorKind = "cancelled"
	KindWorkflowTimeout    ErrorKind = "workflow_timeout"
	KindMaxRetries         ErrorKind = "max_retries_exceeded"
	KindCheckpointMismatch ErrorKind = "checkpoint_mismatch"
)

// Error is the concrete error type returned by the Pregel runtime.
type Error struct {
	Kind ErrorKind

	VertexID string
	Depth    int
	Limit    int
	Attempts int
	Decision string

	Expected string
	Found    string

	Err error
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindVertexError:
		if e.Err != nil {
			return fmt.Sprintf("pregel: vertex %q failed: %v", e.VertexID, e.Err)
		}
		return fmt.Sprintf("pregel: vertex %q failed", e.VertexID)
	case KindRoutingError:
		return fmt.Sprintf("pregel: vertex %q produced unroutable decision %q", e.VertexID, e.Decision)
	case KindRecursionLimit:
		return fmt.Sprintf("pregel: vertex %q exceeded recursion depth %d (limit %d)", e.VertexID, e.Depth, e.Limit)
	case KindMaxRetries:
		return fmt.Sprintf("pregel: vertex %q exhausted retries after %d attempts", e.VertexID, e.Attempts)
	case KindCheckpointMismatch:
		return fmt.Sprintf("pregel: checkpoint mismatch: expected workflow %q, found %q", e.Expected, e.Found)
	case KindVertexTimeout:
		return fmt.Sprintf("pregel: vertex %q timed out", e.VertexID)
	default:
		if e.Err != nil {
			return fmt.Sprintf("pregel: %s: %v", e.Kind, e.Err)
		}
		return fmt.Sprintf("pregel: %s", e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// IsRecoverable reports whether a retry may resolve this error. Only
// transient per-vertex failures are recoverable; structural failures
// (routing, recursion, checkpoint, config) are not.
func (e *Error) IsRecoverable() bool {
	switch e.Kind {
	case KindVertexTimeout, KindVertexError, KindMessageDelivery:
		return true
	default:
		return false
	}
}

func newErr(kind ErrorKind, cause error) *Error {
	return &Error{Kind: kind, Err: cause}
}

func newVertexErr(vertexID string, cause error) *Error {
	return &Error{Kind: KindVertexError, VertexID: vertexID, Err: cause}
}

func newRoutingErr(vertexID, decision string) *Error {
	return &Error{Kind: KindRoutingError, VertexID: vertexID, Decision: decision}
}

func newRecursionErr(vertexID string, depth, limit int) *Error {
	return &Error{Kind: KindRecursionLimit, VertexID: vertexID, Depth: depth, Limit: limit}
}

func newMaxRetriesErr(vertexID string, attempts int) *Error {
	return &Error{Kind: KindMaxRetries, VertexID: vertexID, Attempts: attempts}
}

func newCheckpointMismatchErr(expected, found string) *Error {
	return &Error{Kind: KindCheckpointMismatch, Expected: expected, Found: found}
}

func newVertexTimeoutErr(vertexID string) *Error {
	return &Error{Kind: KindVertexTimeout, VertexID: vertexID}
}

// NewRecursionLimitError builds a RecursionLimit error, for node kinds
// outside this package (e.g. pkg/pregel/vertex's SubAgent) that need to
// report exceeding the graph's recursion depth the same way this
// package's own runtime would.
func NewRecursionLimitError(vertexID string, depth, limit int) *Error {
	return newRecursionErr(vertexID, depth, limit)
}

// NewVertexError builds a VertexError wrapping cause, for node kinds
// outside this package that need to surface a compute failure in the
// runtime's own error taxonomy.
func NewVertexError(vertexID string, cause error) *Error {
	return newVertexErr(vertexID, cause)
}
