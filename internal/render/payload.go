// Package render writes a built graph in its export formats: the JSON
// document contract, Graphviz DOT, and a self-contained interactive HTML
// page. It only reads the graph's query surface.
package render

import "github.com/vk/blastradius/internal/graph"

// D3Node is one node of the force-layout payload consumed by the
// interactive page.
type D3Node struct {
	ID    string `json:"id"`
	Type  string `json:"type"`
	Group string `json:"group"`
	Color string `json:"color"`
}

// D3Link is one edge of the force-layout payload. The d3 force layout
// expects the field name "links".
type D3Link struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Kind   string `json:"kind"`
}

// D3Payload is the graph shaped for the interactive page.
type D3Payload struct {
	Nodes []D3Node `json:"nodes"`
	Links []D3Link `json:"links"`
}

// BuildD3Payload shapes a graph for the d3 frontend.
func BuildD3Payload(g *graph.Graph) D3Payload {
	payload := D3Payload{
		Nodes: make([]D3Node, 0, g.NodeCount()),
		Links: make([]D3Link, 0, g.EdgeCount()),
	}
	for _, n := range g.Nodes() {
		payload.Nodes = append(payload.Nodes, D3Node{
			ID:    n.ID,
			Type:  string(n.Kind),
			Group: n.Category,
			Color: n.Color,
		})
	}
	for _, e := range g.Edges() {
		payload.Links = append(payload.Links, D3Link{
			Source: e.From,
			Target: e.To,
			Kind:   string(e.Kind),
		})
	}
	return payload
}
