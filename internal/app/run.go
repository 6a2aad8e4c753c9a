package app

import (
	"context"
	"time"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/server"
	"github.com/vk/blastradius/internal/watcher"
)

// debounce window for filesystem events before a rebuild runs.
const rebuildDebounce = 500 * time.Millisecond

// Run executes the main application logic: build the graph once, then
// either write export files or serve it over HTTP until ctx is canceled.
func (a *App) Run(ctx context.Context) error {
	ctx = ctxlog.WithLogger(ctx, a.logger)
	a.logger.Debug("App.Run method started.")

	g, err := a.buildGraph(ctx)
	if err != nil {
		return err
	}

	if a.config.Export {
		return a.export(ctx, g)
	}
	return a.serve(ctx, g)
}

// serve runs the HTTP server, optionally rebuilding and swapping the
// graph on filesystem changes. A failed rebuild keeps the last good
// graph.
func (a *App) serve(ctx context.Context, g *graph.Graph) error {
	log := ctxlog.FromContext(ctx)

	srv := server.New(g, a.config.ConfigDir, a.config.MaxDepth)

	if a.config.Watch {
		w, err := watcher.New(rebuildDebounce, a.excludes, func(paths []string) {
			log.Info("Configuration changed, rebuilding graph.", "changed_files", len(paths))
			rebuilt, err := a.buildGraph(ctx)
			if err != nil {
				log.Error("Rebuild failed, keeping last good graph.", "error", err)
				return
			}
			srv.Swap(rebuilt)
		})
		if err != nil {
			return err
		}
		defer w.Close()

		if err := w.Watch(ctx, a.config.ConfigDir); err != nil {
			return err
		}
		log.Info("Watching for configuration changes.", "dir", a.config.ConfigDir)
	}

	return srv.Run(ctx, a.config.Host, a.config.Port)
}
