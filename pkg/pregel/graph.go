package pregel

// EdgeKind discriminates how an edge selects its target(s).
type EdgeKind string

const (
	// EdgeDirect always routes to Target.
	EdgeDirect EdgeKind = "direct"

	// EdgeConditional routes by looking up a vertex's RoutingHint in
	// Branches; an unmatched hint routes to END.
	EdgeConditional EdgeKind = "conditional"
)

// Edge is one outgoing connection from a vertex, consulted only in
// EdgeDriven execution mode when the source vertex transitions to
// Halted, and by Router/conditional routing generally.
type Edge struct {
	Kind     EdgeKind
	Target   VertexID            // EdgeDirect
	Branches map[string]VertexID // EdgeConditional: routing hint -> target
}

// DirectEdge returns an unconditional edge to target.
func DirectEdge(target VertexID) Edge {
	return Edge{Kind: EdgeDirect, Target: target}
}

// ConditionalEdge returns an edge resolved by routing hint.
func ConditionalEdge(branches map[string]VertexID) Edge {
	return Edge{Kind: EdgeConditional, Branches: branches}
}

// resolve returns the edge's target given a routing hint (ignored for
// EdgeDirect); the bool is false if a conditional edge has no matching
// branch, in which case the caller should route to END.
func (e Edge) resolve(hint string) (VertexID, bool) {
	switch e.Kind {
	case EdgeDirect:
		return e.Target, true
	case EdgeConditional:
		target, ok := e.Branches[hint]
		return target, ok
	default:
		return "", false
	}
}
