package graph

import (
	"errors"
	"fmt"

	"github.com/vk/blastradius/internal/model"
)

// ErrNodeNotFound is returned by traversal and query operations given a
// focal node id that does not exist in the graph. Unlike load-time
// diagnostics this is a hard caller error.
var ErrNodeNotFound = errors.New("node not found in graph")

// Node is one vertex of the dependency graph.
type Node struct {
	ID       string
	Name     string
	Kind     model.Kind
	TypeName string
	Category string
	Color    string
	// Metadata carries pass-through detail for rendering: source file,
	// line, and module scope.
	Metadata map[string]string
}

// Edge is a directed relationship between two nodes, pointing from the
// block that holds the reference to the block it refers to.
type Edge struct {
	From string
	To   string
	Kind model.EdgeKind
}

// Graph is an immutable dependency graph with an adjacency index for O(1)
// neighbor lookup. It is built once per parse pass; a configuration
// change rebuilds the whole graph rather than mutating this one, so a
// completed Graph is safe for unsynchronized concurrent reads.
type Graph struct {
	nodes []*Node
	byID  map[string]*Node
	edges []*Edge
	out   map[string][]*Edge // keyed by Edge.From
	in    map[string][]*Edge // keyed by Edge.To
}

func newGraph() *Graph {
	return &Graph{
		byID: map[string]*Node{},
		out:  map[string][]*Edge{},
		in:   map[string][]*Edge{},
	}
}

func (g *Graph) addNode(n *Node) {
	if _, ok := g.byID[n.ID]; ok {
		return
	}
	g.nodes = append(g.nodes, n)
	g.byID[n.ID] = n
}

// addEdge records a directed edge, collapsing duplicates of the same
// ordered pair and keeping the most specific kind observed. Self-loops
// are discarded.
func (g *Graph) addEdge(from, to string, kind model.EdgeKind) {
	if from == to {
		return
	}
	for _, e := range g.out[from] {
		if e.To == to {
			if kind.Outranks(e.Kind) {
				e.Kind = kind
			}
			return
		}
	}
	e := &Edge{From: from, To: to, Kind: kind}
	g.edges = append(g.edges, e)
	g.out[from] = append(g.out[from], e)
	g.in[to] = append(g.in[to], e)
}

// Node looks up a node by id.
func (g *Graph) Node(id string) (*Node, bool) {
	n, ok := g.byID[id]
	return n, ok
}

// Nodes returns all nodes in insertion order.
func (g *Graph) Nodes() []*Node {
	out := make([]*Node, len(g.nodes))
	copy(out, g.nodes)
	return out
}

// Edges returns all edges in insertion order.
func (g *Graph) Edges() []*Edge {
	out := make([]*Edge, len(g.edges))
	copy(out, g.edges)
	return out
}

// NodeCount returns the number of nodes.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int { return len(g.edges) }

// NodesByKind returns all nodes of the given kind, in insertion order.
func (g *Graph) NodesByKind(kind model.Kind) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

// NodesByCategory returns all nodes in the given category, in insertion
// order.
func (g *Graph) NodesByCategory(category string) []*Node {
	var out []*Node
	for _, n := range g.nodes {
		if n.Category == category {
			out = append(out, n)
		}
	}
	return out
}

// EdgesFrom returns the outgoing edges of a node.
func (g *Graph) EdgesFrom(id string) []*Edge {
	out := make([]*Edge, len(g.out[id]))
	copy(out, g.out[id])
	return out
}

// EdgesTo returns the incoming edges of a node.
func (g *Graph) EdgesTo(id string) []*Edge {
	out := make([]*Edge, len(g.in[id]))
	copy(out, g.in[id])
	return out
}

// Dependencies returns the ids this node refers to: the blocks it
// depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	if _, ok := g.byID[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	deps := make([]string, 0, len(g.out[id]))
	for _, e := range g.out[id] {
		deps = append(deps, e.To)
	}
	return deps, nil
}

// Dependents returns the ids that refer to this node: the blocks that
// depend on it.
func (g *Graph) Dependents(id string) ([]string, error) {
	if _, ok := g.byID[id]; !ok {
		return nil, fmt.Errorf("%w: %s", ErrNodeNotFound, id)
	}
	dependents := make([]string, 0, len(g.in[id]))
	for _, e := range g.in[id] {
		dependents = append(dependents, e.From)
	}
	return dependents, nil
}

// Subgraph returns the induced subgraph over the given node ids: only the
// named nodes, and only edges with both endpoints in the set. Unknown ids
// are ignored. Used for focused blast-radius views.
func (g *Graph) Subgraph(ids []string) *Graph {
	keep := make(map[string]bool, len(ids))
	for _, id := range ids {
		keep[id] = true
	}

	sub := newGraph()
	for _, n := range g.nodes {
		if keep[n.ID] {
			sub.addNode(n)
		}
	}
	for _, e := range g.edges {
		if keep[e.From] && keep[e.To] {
			sub.addEdge(e.From, e.To, e.Kind)
		}
	}
	return sub
}
