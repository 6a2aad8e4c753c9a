// Package server exposes a built graph over HTTP: the interactive page,
// the d3 payload, blast-radius queries, and the export formats. The
// served graph sits behind an atomic pointer so watch mode can swap in a
// rebuilt graph without interrupting in-flight requests.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/metrics"
)

// Server serves one graph snapshot at a time.
type Server struct {
	graph        atomic.Pointer[graph.Graph]
	configDir    string
	defaultDepth int
	httpServer   *http.Server
}

// New returns a Server serving g. configDir is echoed in the JSON export
// metadata. defaultDepth applies to blast-radius queries that omit
// max_depth; reach.Unbounded disables the limit.
func New(g *graph.Graph, configDir string, defaultDepth int) *Server {
	s := &Server{configDir: configDir, defaultDepth: defaultDepth}
	s.graph.Store(g)
	metrics.SetGraphSize(g.NodeCount(), g.EdgeCount())
	return s
}

// Swap replaces the served graph. Requests already holding the old
// snapshot finish against it.
func (s *Server) Swap(g *graph.Graph) {
	s.graph.Store(g)
	metrics.SetGraphSize(g.NodeCount(), g.EdgeCount())
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())

	router.GET("/", s.handleIndex)
	router.GET("/graph-data", s.handleGraphData)
	router.GET("/blast-radius/:id", s.handleBlastRadius)
	router.GET("/export/:format", s.handleExport)
	router.GET("/healthz", s.handleHealthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}

// Run serves until ctx is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, host string, port int) error {
	log := ctxlog.FromContext(ctx)

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("HTTP server listening", "addr", addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
