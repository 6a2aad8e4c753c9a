// Package metrics holds the Prometheus instruments for the process. They
// are registered on the default registry at init and exposed by the
// server's /metrics endpoint.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GraphNodes tracks the node count of the currently served graph.
	GraphNodes = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blastradius_graph_nodes",
		Help: "Number of nodes in the currently loaded graph.",
	})

	// GraphEdges tracks the edge count of the currently served graph.
	GraphEdges = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "blastradius_graph_edges",
		Help: "Number of edges in the currently loaded graph.",
	})

	// RebuildsTotal counts graph rebuilds, labeled by outcome.
	RebuildsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blastradius_rebuilds_total",
		Help: "Total number of graph rebuilds by outcome.",
	}, []string{"outcome"})

	// QuerySeconds observes the latency of blast-radius queries.
	QuerySeconds = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "blastradius_query_seconds",
		Help:    "Latency of blast-radius queries.",
		Buckets: prometheus.DefBuckets,
	})

	// WatcherEventsTotal counts filesystem events that triggered a rebuild.
	WatcherEventsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blastradius_watcher_events_total",
		Help: "Total number of filesystem change events acted on.",
	})
)

// SetGraphSize records the size of a freshly loaded graph.
func SetGraphSize(nodes, edges int) {
	GraphNodes.Set(float64(nodes))
	GraphEdges.Set(float64(edges))
}
