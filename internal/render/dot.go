package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/model"
)

// WriteDOT writes the graph in Graphviz DOT form, one filled box per
// node colored by category and one edge per relationship, styled by kind.
func WriteDOT(w io.Writer, g *graph.Graph) error {
	var sb strings.Builder
	sb.WriteString("digraph blastradius {\n")
	sb.WriteString("  rankdir = LR;\n")
	sb.WriteString("  node [shape=box, style=\"filled,rounded\"];\n\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&sb, "  %q [label=\"%s\\n(%s)\", fillcolor=%q];\n",
			n.ID, escapeLabel(n.Name), n.Kind, n.Color)
	}

	sb.WriteString("\n")
	for _, e := range g.Edges() {
		fmt.Fprintf(&sb, "  %q -> %q [style=%s];\n", e.From, e.To, edgeStyle(e.Kind))
	}
	sb.WriteString("}\n")

	_, err := io.WriteString(w, sb.String())
	return err
}

func edgeStyle(kind model.EdgeKind) string {
	switch kind {
	case model.EdgeDependsOn:
		return "bold"
	case model.EdgeModuleInput, model.EdgeModuleOutput:
		return "dashed"
	default:
		return "solid"
	}
}

func escapeLabel(s string) string {
	return strings.ReplaceAll(s, `"`, `\"`)
}
