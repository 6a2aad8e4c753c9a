package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"

	"github.com/vk/blastradius/internal/graph"
)

//go:embed templates/index.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

type pageData struct {
	Embedded  bool
	GraphData template.JS
}

// WriteHTML writes a self-contained interactive page with the graph data
// inlined, so the file works without a server behind it.
func WriteHTML(w io.Writer, g *graph.Graph) error {
	raw, err := json.Marshal(BuildD3Payload(g))
	if err != nil {
		return fmt.Errorf("marshaling graph payload: %w", err)
	}
	return pageTemplate.Execute(w, pageData{
		Embedded:  true,
		GraphData: template.JS(raw),
	})
}

// WriteIndexPage writes the interactive page in its served form, where the
// script fetches the graph from the /graph-data endpoint.
func WriteIndexPage(w io.Writer) error {
	return pageTemplate.Execute(w, pageData{})
}
