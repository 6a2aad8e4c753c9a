package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vk/blastradius/internal/graph"
	"github.com/vk/blastradius/internal/metrics"
	"github.com/vk/blastradius/internal/reach"
	"github.com/vk/blastradius/internal/render"
)

func (s *Server) handleIndex(c *gin.Context) {
	var buf bytes.Buffer
	if err := render.WriteIndexPage(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) handleGraphData(c *gin.Context) {
	c.JSON(http.StatusOK, render.BuildD3Payload(s.graph.Load()))
}

// blastRadiusResponse is the query result: every reachable node keyed by
// id, tagged with direction and hop distance.
type blastRadiusResponse struct {
	ID       string                 `json:"id"`
	MaxDepth int                    `json:"max_depth"`
	Count    int                    `json:"count"`
	Nodes    map[string]reach.Entry `json:"nodes"`
}

func (s *Server) handleBlastRadius(c *gin.Context) {
	id := c.Param("id")

	maxDepth := s.defaultDepth
	if raw := c.Query("max_depth"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid max_depth %q", raw)})
			return
		}
		maxDepth = parsed
	}

	start := time.Now()
	entries, err := reach.BlastRadius(s.graph.Load(), id, maxDepth)
	metrics.QuerySeconds.Observe(time.Since(start).Seconds())
	if err != nil {
		if errors.Is(err, graph.ErrNodeNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, blastRadiusResponse{
		ID:       id,
		MaxDepth: maxDepth,
		Count:    len(entries),
		Nodes:    entries,
	})
}

func (s *Server) handleExport(c *gin.Context) {
	g := s.graph.Load()
	var buf bytes.Buffer

	switch format := c.Param("format"); format {
	case "json":
		if err := render.WriteJSON(&buf, g, s.configDir); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "application/json", buf.Bytes())
	case "dot":
		if err := render.WriteDOT(&buf, g); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/vnd.graphviz; charset=utf-8", buf.Bytes())
	case "html":
		if err := render.WriteHTML(&buf, g); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("unsupported export format %q", format)})
	}
}

func (s *Server) handleHealthz(c *gin.Context) {
	g := s.graph.Load()
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"nodes":  g.NodeCount(),
		"edges":  g.EdgeCount(),
	})
}
