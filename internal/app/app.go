package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/gobwas/glob"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/fsutil"
	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/hcl"
	"github.com/vk/blastradius/internal/metrics"
	"github.com/vk/blastradius/internal/resolver"
)

// App encapsulates the application's dependencies, configuration, and
// lifecycle.
type App struct {
	outW     io.Writer
	logger   *slog.Logger
	config   *Config
	excludes []glob.Glob
	options  graph.Options
}

// NewApp is the constructor for the main application. It returns a fully
// initialized App instance with its own isolated logger, or an error when
// the exclude patterns or category file cannot be used.
func NewApp(outW io.Writer, cfg *Config) (*App, error) {
	logger := newLogger(cfg.LogLevel, cfg.LogFormat, outW)
	logger.Debug("Logger configured successfully.")

	excludes, err := fsutil.CompilePatterns(cfg.Excludes)
	if err != nil {
		return nil, fmt.Errorf("compiling exclude patterns: %w", err)
	}

	options := graph.DefaultOptions()
	if cfg.CategoriesPath != "" {
		categories, err := graph.LoadCategories(cfg.CategoriesPath)
		if err != nil {
			return nil, fmt.Errorf("loading category rules: %w", err)
		}
		options.Categories = categories
		logger.Debug("Category rules loaded.", "path", cfg.CategoriesPath)
	}

	return &App{
		outW:     outW,
		logger:   logger,
		config:   cfg,
		excludes: excludes,
		options:  options,
	}, nil
}

// buildGraph runs the full pipeline: load blocks, resolve references,
// build the graph. Diagnostics are logged, not returned; only a failure
// to produce any graph at all is an error.
func (a *App) buildGraph(ctx context.Context) (*graph.Graph, error) {
	log := ctxlog.FromContext(ctx)

	loader := hcl.NewLoader(a.excludes)
	blocks, diags, err := loader.Load(ctx, a.config.ConfigDir)
	if err != nil {
		metrics.RebuildsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	log.Debug("Configuration loaded.", "blocks", len(blocks))

	diags = diags.Extend(resolver.Resolve(ctx, blocks))

	g, buildDiags := graph.Build(ctx, blocks, a.options)
	diags = diags.Extend(buildDiags)

	logDiagnostics(log, diags)
	metrics.RebuildsTotal.WithLabelValues("success").Inc()
	log.Info("Graph built.", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "diagnostics", len(diags))
	return g, nil
}

func logDiagnostics(log *slog.Logger, diags diag.Diagnostics) {
	for _, d := range diags {
		attrs := []any{"code", d.Code}
		if d.Subject != nil {
			attrs = append(attrs, "file", d.Subject.Filename, "line", d.Subject.Line)
		}
		switch d.Severity {
		case diag.Error:
			log.Error(d.Summary, attrs...)
		default:
			log.Warn(d.Summary, attrs...)
		}
	}
}
