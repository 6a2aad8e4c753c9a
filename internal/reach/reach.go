// Package reach answers blast-radius queries against a built graph: which
// nodes are affected if a given node changes (downstream), and which nodes
// it depends on (upstream).
//
// Edges point from the referencing block to its target, so the impact set
// of a node is found by walking incoming edges (its dependents,
// transitively) and the cause set by walking outgoing edges. Traversal is
// breadth-first with a visited set, so cycles terminate and every node is
// visited at most once with its minimum hop distance.
//
// All operations are pure reads; any number may run concurrently against
// one completed graph.
package reach

import (
	"github.com/vk/blastradius/internal/graph"
)

// Unbounded disables the depth limit.
const Unbounded = -1

// Direction tags which side of the focal node an entry sits on.
type Direction string

const (
	DirectionSelf       Direction = "self"
	DirectionUpstream   Direction = "upstream"
	DirectionDownstream Direction = "downstream"
)

// Entry describes one node in a blast radius.
type Entry struct {
	Direction Direction `json:"direction"`
	Distance  int       `json:"distance"`
}

// Downstream returns every node whose dependency chain leads to the focal
// node, keyed by id with its minimum hop distance. The focal node itself
// is included at distance 0. maxDepth limits the number of hops; 0
// returns only the focal node and Unbounded removes the limit.
// Returns graph.ErrNodeNotFound for an unknown focal id.
func Downstream(g *graph.Graph, id string, maxDepth int) (map[string]int, error) {
	return traverse(g, id, maxDepth, (*graph.Graph).Dependents)
}

// Upstream returns every node the focal node depends on, transitively,
// keyed by id with its minimum hop distance. Semantics mirror Downstream.
func Upstream(g *graph.Graph, id string, maxDepth int) (map[string]int, error) {
	return traverse(g, id, maxDepth, (*graph.Graph).Dependencies)
}

// BlastRadius is the union of Upstream and Downstream, each node tagged
// with its direction and distance. The focal node appears with direction
// self at distance 0. A node reachable in both directions (possible on a
// cyclic graph) keeps its downstream entry.
func BlastRadius(g *graph.Graph, id string, maxDepth int) (map[string]Entry, error) {
	down, err := Downstream(g, id, maxDepth)
	if err != nil {
		return nil, err
	}
	up, err := Upstream(g, id, maxDepth)
	if err != nil {
		return nil, err
	}

	out := make(map[string]Entry, len(down)+len(up))
	for nodeID, dist := range down {
		out[nodeID] = Entry{Direction: DirectionDownstream, Distance: dist}
	}
	for nodeID, dist := range up {
		if _, ok := out[nodeID]; !ok {
			out[nodeID] = Entry{Direction: DirectionUpstream, Distance: dist}
		}
	}
	out[id] = Entry{Direction: DirectionSelf, Distance: 0}
	return out, nil
}

// traverse runs a breadth-first walk from id along the neighbors
// produced by step.
func traverse(g *graph.Graph, id string, maxDepth int, step func(*graph.Graph, string) ([]string, error)) (map[string]int, error) {
	if _, ok := g.Node(id); !ok {
		// Surface the same error the accessors produce, with the id.
		_, err := g.Dependencies(id)
		return nil, err
	}

	visited := map[string]int{id: 0}
	frontier := []string{id}

	for depth := 0; len(frontier) > 0 && (maxDepth == Unbounded || depth < maxDepth); depth++ {
		var next []string
		for _, current := range frontier {
			neighbors, err := step(g, current)
			if err != nil {
				return nil, err
			}
			for _, neighbor := range neighbors {
				if _, seen := visited[neighbor]; seen {
					continue
				}
				visited[neighbor] = depth + 1
				next = append(next, neighbor)
			}
		}
		frontier = next
	}
	return visited, nil
}
