package render

import (
	"encoding/json"
	"io"

	"github.com/vk/blastradius/internal/graph"
)

// Metadata summarizes the exported graph.
type Metadata struct {
	ConfigDir string         `json:"config_dir"`
	Counts    map[string]int `json:"counts"`
}

// Document is the JSON export: the serialization contract plus a summary.
type Document struct {
	Nodes    []graph.NodeJSON `json:"nodes"`
	Edges    []graph.EdgeJSON `json:"edges"`
	Metadata Metadata         `json:"metadata"`
}

// BuildDocument assembles the JSON export document for a graph.
func BuildDocument(g *graph.Graph, configDir string) Document {
	export := g.Export()
	counts := map[string]int{}
	for _, n := range export.Nodes {
		counts[n.Type]++
	}
	return Document{
		Nodes: export.Nodes,
		Edges: export.Edges,
		Metadata: Metadata{
			ConfigDir: configDir,
			Counts:    counts,
		},
	}
}

// WriteJSON writes the indented JSON export document.
func WriteJSON(w io.Writer, g *graph.Graph, configDir string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(BuildDocument(g, configDir))
}
