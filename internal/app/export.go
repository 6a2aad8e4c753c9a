package app

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/render"
)

// export writes the graph to the output directory in the configured
// format, or in every format when "all" is selected.
func (a *App) export(ctx context.Context, g *graph.Graph) error {
	log := ctxlog.FromContext(ctx)

	if err := os.MkdirAll(a.config.OutDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}

	formats := []string{a.config.Format}
	if a.config.Format == FormatAll {
		formats = []string{FormatJSON, FormatDOT, FormatHTML}
	}

	for _, format := range formats {
		path := filepath.Join(a.config.OutDir, "graph."+format)
		if err := a.writeExport(path, format, g); err != nil {
			return err
		}
		log.Info("Export written.", "path", path, "format", format)
	}
	return nil
}

func (a *App) writeExport(path, format string, g *graph.Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}

	switch format {
	case FormatJSON:
		err = render.WriteJSON(f, g, a.config.ConfigDir)
	case FormatDOT:
		err = render.WriteDOT(f, g)
	case FormatHTML:
		err = render.WriteHTML(f, g)
	default:
		err = fmt.Errorf("unsupported export format %q", format)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return f.Close()
}
