// Package workflow provides a fluent builder DSL for assembling a Pregel
// graph: declare nodes, wire edges (direct or conditional), pick an
// entry point, and compile into a graph pkg/pregel can run.
package workflow

import "github.com/kadirpekel/deepagent-go/pkg/pregel"

// END is the sentinel target for edges that terminate the graph rather
// than route to another node.
const END = pregel.END

// WorkflowGraph is a fluent builder for a graph of vertices over shared
// state S, whose update type is U. S carries no runtime behavior in the
// builder itself — it exists so a graph built over one state shape
// cannot accidentally be wired with vertices built for another.
type WorkflowGraph[S pregel.WorkflowState[U], U pregel.StateUpdate] struct {
	name  string
	nodes map[pregel.VertexID]pregel.Vertex[U]
	edges map[pregel.VertexID][]pregel.Edge
	entry pregel.VertexID
}

// New returns an empty WorkflowGraph builder.
func New[S pregel.WorkflowState[U], U pregel.StateUpdate]() *WorkflowGraph[S, U] {
	return &WorkflowGraph[S, U]{
		nodes: map[pregel.VertexID]pregel.Vertex[U]{},
		edges: map[pregel.VertexID][]pregel.Edge{},
	}
}

// Name sets the workflow's name.
func (g *WorkflowGraph[S, U]) Name(name string) *WorkflowGraph[S, U] {
	g.name = name
	return g
}

// Node registers v under id.
func (g *WorkflowGraph[S, U]) Node(id pregel.VertexID, v pregel.Vertex[U]) *WorkflowGraph[S, U] {
	g.nodes[id] = v
	return g
}

// Entry sets the graph's entry point.
func (g *WorkflowGraph[S, U]) Entry(id pregel.VertexID) *WorkflowGraph[S, U] {
	g.entry = id
	return g
}

// Edge adds an unconditional edge from -> to.
func (g *WorkflowGraph[S, U]) Edge(from, to pregel.VertexID) *WorkflowGraph[S, U] {
	g.edges[from] = append(g.edges[from], pregel.DirectEdge(to))
	return g
}

// ConditionalEdges adds one conditional edge from from, resolved by
// routing hint against branches at route time; an unmatched hint routes
// to END.
func (g *WorkflowGraph[S, U]) ConditionalEdges(from pregel.VertexID, branches map[string]pregel.VertexID) *WorkflowGraph[S, U] {
	g.edges[from] = append(g.edges[from], pregel.ConditionalEdge(branches))
	return g
}

// Build validates and compiles the graph: an entry point must be set,
// and every edge endpoint other than END must reference a registered
// node.
func (g *WorkflowGraph[S, U]) Build() (*BuiltGraph[S, U], error) {
	if g.entry == "" {
		return nil, &BuildError{Kind: KindNoEntryPoint}
	}
	if _, ok := g.nodes[g.entry]; !ok {
		return nil, &BuildError{Kind: KindUnknownNode, Node: string(g.entry)}
	}

	for from, edges := range g.edges {
		if _, ok := g.nodes[from]; !ok {
			return nil, &BuildError{Kind: KindUnknownNode, Node: string(from)}
		}
		for _, e := range edges {
			targets := []pregel.VertexID{e.Target}
			if e.Kind == pregel.EdgeConditional {
				targets = targets[:0]
				for _, t := range e.Branches {
					targets = append(targets, t)
				}
			}
			for _, t := range targets {
				if t == END {
					continue
				}
				if _, ok := g.nodes[t]; !ok {
					return nil, &BuildError{Kind: KindUnknownNode, Node: string(t)}
				}
			}
		}
	}

	nodes := make(map[pregel.VertexID]pregel.Vertex[U], len(g.nodes))
	for id, v := range g.nodes {
		nodes[id] = v
	}
	edges := make(map[pregel.VertexID][]pregel.Edge, len(g.edges))
	for id, es := range g.edges {
		edges[id] = append([]pregel.Edge(nil), es...)
	}

	return &BuiltGraph[S, U]{
		Name:  g.name,
		Nodes: nodes,
		Edges: edges,
		Entry: g.entry,
	}, nil
}

// BuiltGraph is a validated, compiled graph ready to run.
type BuiltGraph[S pregel.WorkflowState[U], U pregel.StateUpdate] struct {
	Name  string
	Nodes map[pregel.VertexID]pregel.Vertex[U]
	Edges map[pregel.VertexID][]pregel.Edge
	Entry pregel.VertexID
}

// NewRuntime builds a pregel.Runtime over this graph's nodes and edges.
func (b *BuiltGraph[S, U]) NewRuntime(workflowID string, cfg pregel.Config, opts ...pregel.Option[U]) *pregel.Runtime[U] {
	vertices := make([]pregel.Vertex[U], 0, len(b.Nodes))
	for _, v := range b.Nodes {
		vertices = append(vertices, v)
	}
	return pregel.NewRuntime(workflowID, cfg, vertices, b.Edges, b.Entry, opts...)
}
