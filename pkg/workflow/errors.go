package workflow

import "fmt"

// BuildErrorKind enumerates why WorkflowGraph.Build can fail.
type BuildErrorKind string

const (
	KindNoEntryPoint BuildErrorKind = "no_entry_point"
	KindUnknownNode  BuildErrorKind = "unknown_node"
)

// BuildError is returned by WorkflowGraph.Build when the graph as
// assembled cannot be compiled: a missing entry point, or an edge that
// references a node id that was never added.
type BuildError struct {
	Kind BuildErrorKind
	Node string
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case KindNoEntryPoint:
		return "workflow: entry point not set"
	case KindUnknownNode:
		return fmt.Sprintf("workflow: unknown node id: %s", e.Node)
	default:
		return fmt.Sprintf("workflow: %s", e.Kind)
	}
}
