package graph

// The JSON shapes below are a compatibility surface for downstream
// renderers; field names must not change.

// NodeJSON is the export form of a Node.
type NodeJSON struct {
	ID       string            `json:"id"`
	Type     string            `json:"type"`
	Name     string            `json:"name"`
	Category string            `json:"category"`
	Metadata map[string]string `json:"metadata"`
}

// EdgeJSON is the export form of an Edge.
type EdgeJSON struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// GraphJSON is the export form of a whole Graph.
type GraphJSON struct {
	Nodes []NodeJSON `json:"nodes"`
	Edges []EdgeJSON `json:"edges"`
}

// Export renders the graph in its serialization contract form, preserving
// insertion order.
func (g *Graph) Export() GraphJSON {
	out := GraphJSON{
		Nodes: make([]NodeJSON, 0, len(g.nodes)),
		Edges: make([]EdgeJSON, 0, len(g.edges)),
	}
	for _, n := range g.nodes {
		out.Nodes = append(out.Nodes, NodeJSON{
			ID:       n.ID,
			Type:     string(n.Kind),
			Name:     n.Name,
			Category: n.Category,
			Metadata: n.Metadata,
		})
	}
	for _, e := range g.edges {
		out.Edges = append(out.Edges, EdgeJSON{
			Source: e.From,
			Target: e.To,
			Kind:   string(e.Kind),
		})
	}
	return out
}
