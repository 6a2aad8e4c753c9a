package graph

import (
	"context"
	"fmt"
	"strconv"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/model"
)

// Options controls which block kinds are materialized as nodes.
// Resources, data sources and modules always become nodes; locals and
// providers never do. Variables and outputs are included by default,
// matching the interactive view, but can be elided for a resources-only
// graph.
type Options struct {
	IncludeVariables bool
	IncludeOutputs   bool
	Categories       *CategoryMap
}

// DefaultOptions returns the standard build policy.
func DefaultOptions() Options {
	return Options{IncludeVariables: true, IncludeOutputs: true}
}

// Build materializes a Graph from resolved blocks. References whose
// target is not materialized as a node (a local, for instance) stay
// annotation-only and produce no edge. Nodes with no edges at all are
// reported as isolated-node diagnostics, useful for surfacing orphaned
// resources.
//
// Build is deterministic: the same block sequence yields the same node
// and edge sets in the same order.
func Build(ctx context.Context, blocks []*model.Block, opts Options) (*Graph, diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)
	categories := opts.Categories
	if categories == nil {
		categories = DefaultCategories()
	}

	g := newGraph()
	materialized := map[string]*model.Block{}

	for _, b := range blocks {
		if !eligible(b, opts) {
			continue
		}
		category, color := categories.Lookup(b.Kind, b.TypeName)
		g.addNode(&Node{
			ID:       b.Address(),
			Name:     displayName(b),
			Kind:     b.Kind,
			TypeName: b.TypeName,
			Category: category,
			Color:    color,
			Metadata: map[string]string{
				"file":  b.DeclRange.Filename,
				"line":  strconv.Itoa(b.DeclRange.Line),
				"scope": b.ScopeKey(),
				"color": color,
			},
		})
		materialized[b.Address()] = b
	}

	for _, b := range blocks {
		from := b.Address()
		if _, ok := materialized[from]; !ok {
			continue
		}
		for _, ref := range b.References {
			if _, ok := g.byID[ref.TargetID]; !ok {
				continue
			}
			g.addEdge(from, ref.TargetID, ref.Kind)
		}
	}

	var diags diag.Diagnostics
	for _, n := range g.nodes {
		if len(g.out[n.ID]) == 0 && len(g.in[n.ID]) == 0 {
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Warning,
				Code:     diag.IsolatedNode,
				Summary:  fmt.Sprintf("%s has no dependency relationships", n.ID),
			})
		}
	}

	logger.Info("Dependency graph built.", "nodes", g.NodeCount(), "edges", g.EdgeCount(), "isolated", len(diags))
	return g, diags
}

func eligible(b *model.Block, opts Options) bool {
	switch b.Kind {
	case model.KindResource, model.KindData, model.KindModule:
		return true
	case model.KindVariable:
		return opts.IncludeVariables
	case model.KindOutput:
		return opts.IncludeOutputs
	default:
		return false
	}
}

func displayName(b *model.Block) string {
	if b.TypeName != "" {
		return b.TypeName + "." + b.LocalName
	}
	return b.LocalName
}
