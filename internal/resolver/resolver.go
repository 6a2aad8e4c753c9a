// Package resolver turns the reference expressions embedded in block
// attributes into resolved references to concrete target blocks.
//
// Lookup is lexically scoped: a reference is searched for in the
// referencing block's own module scope first, then in each ancestor scope
// up to the root. It never descends into sibling or child module scopes.
// Namespace keywords (var, module, data, local, provider) win over a
// resource type that happens to share their name.
package resolver

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/model"
)

// builtinHeads are traversal roots that belong to the configuration
// language itself and never name another block.
var builtinHeads = map[string]bool{
	"each":      true,
	"count":     true,
	"path":      true,
	"self":      true,
	"terraform": true,
}

// candidate is a parsed reference token before scope lookup.
type candidate struct {
	token    string
	refKey   string // scope-relative lookup key, e.g. "var.cidr"
	isModule bool   // token addresses a module (module.<name>...)
}

// Resolver resolves reference tokens against an index of loaded blocks.
type Resolver struct {
	// byScope maps scopeKey -> refKey -> block.
	byScope map[string]map[string]*model.Block
	// resourceTypes holds every declared resource type, used to decide
	// whether an unrecognized traversal head is a resource reference at
	// all.
	resourceTypes map[string]bool
}

// New indexes the given blocks for resolution.
func New(blocks []*model.Block) *Resolver {
	r := &Resolver{
		byScope:       map[string]map[string]*model.Block{},
		resourceTypes: map[string]bool{},
	}
	for _, b := range blocks {
		scope := b.ScopeKey()
		if r.byScope[scope] == nil {
			r.byScope[scope] = map[string]*model.Block{}
		}
		r.byScope[scope][refKeyFor(b)] = b
		if b.Kind == model.KindResource {
			r.resourceTypes[b.TypeName] = true
		}
	}
	return r
}

// refKeyFor renders a block's scope-relative lookup key.
func refKeyFor(b *model.Block) string {
	switch b.Kind {
	case model.KindResource:
		return b.TypeName + "." + b.LocalName
	case model.KindData:
		return "data." + b.TypeName + "." + b.LocalName
	case model.KindModule:
		return "module." + b.LocalName
	case model.KindVariable:
		return "var." + b.LocalName
	case model.KindOutput:
		return "output." + b.LocalName
	case model.KindLocal:
		return "local." + b.LocalName
	case model.KindProvider:
		return "provider." + b.LocalName
	default:
		return b.LocalName
	}
}

// Resolve annotates every block with the references it makes, in
// first-seen order: explicit depends_on entries first, then attribute
// references in sorted attribute order. Unresolvable references become
// warnings on the referencing block. The returned diagnostics aggregate
// every block's findings.
func Resolve(ctx context.Context, blocks []*model.Block) diag.Diagnostics {
	logger := ctxlog.FromContext(ctx)
	r := New(blocks)

	var all diag.Diagnostics
	for _, b := range blocks {
		r.resolveBlock(b)
		all = all.Extend(b.Diags)
	}
	logger.Debug("Reference resolution complete.", "blocks", len(blocks), "diagnostics", len(all))
	return all
}

func (r *Resolver) resolveBlock(b *model.Block) {
	warned := map[string]bool{}

	for _, raw := range b.DependsOn {
		cand, ok := r.parseToken(raw)
		if !ok {
			continue
		}
		r.link(b, cand, model.EdgeDependsOn, warned)
	}

	names := make([]string, 0, len(b.Attributes))
	for name := range b.Attributes {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		for _, token := range extractTokens(b.Attributes[name]) {
			cand, ok := r.parseToken(token)
			if !ok {
				continue
			}
			kind := model.EdgeAttribute
			switch {
			case b.Kind == model.KindModule:
				// Every attribute of a module block is an input argument.
				kind = model.EdgeModuleInput
			case cand.isModule:
				kind = model.EdgeModuleOutput
			}
			r.link(b, cand, kind, warned)
		}
	}
}

// link resolves a candidate through the scope chain and records either a
// reference or an unresolved warning.
func (r *Resolver) link(b *model.Block, cand candidate, kind model.EdgeKind, warned map[string]bool) {
	target := r.lookup(b.ScopePath, cand.refKey)
	if target == nil {
		if !warned[cand.token] {
			warned[cand.token] = true
			b.Diags = b.Diags.Append(&diag.Diagnostic{
				Severity: diag.Warning,
				Code:     diag.UnresolvedReference,
				Summary:  fmt.Sprintf("reference %q in %s does not match any declaration in scope", cand.token, b.Address()),
				Subject:  &diag.SourceRange{Filename: b.DeclRange.Filename, Line: b.DeclRange.Line},
			})
		}
		return
	}
	b.AddReference(target.Address(), kind)
}

// lookup climbs the scope chain from the block's own scope to the root,
// returning the nearest matching block.
func (r *Resolver) lookup(scopePath []string, refKey string) *model.Block {
	for depth := len(scopePath); depth >= 0; depth-- {
		scope := strings.Join(scopePath[:depth], ".")
		if target, ok := r.byScope[scope][refKey]; ok {
			return target
		}
	}
	return nil
}

// parseToken classifies a dotted token. The first segment selects a
// namespace; a head that is neither a namespace keyword nor a plausible
// resource type marks the token as a non-reference literal, which is
// silently discarded to avoid false edges.
func (r *Resolver) parseToken(token string) (candidate, bool) {
	segs := strings.Split(token, ".")
	head := segs[0]

	switch head {
	case "var", "local", "provider":
		if len(segs) < 2 {
			return candidate{}, false
		}
		return candidate{token: token, refKey: head + "." + segs[1]}, true
	case "module":
		if len(segs) < 2 {
			return candidate{}, false
		}
		return candidate{token: token, refKey: "module." + segs[1], isModule: true}, true
	case "data":
		if len(segs) < 3 {
			return candidate{}, false
		}
		return candidate{token: token, refKey: "data." + segs[1] + "." + segs[2]}, true
	}

	if builtinHeads[head] || len(segs) < 2 {
		return candidate{}, false
	}
	// A resource reference. Heads following the <provider>_<type> naming
	// convention are always treated as resource types so that a dangling
	// reference still surfaces as a warning; anything else must name a
	// declared type.
	if !strings.Contains(head, "_") && !r.resourceTypes[head] {
		return candidate{}, false
	}
	return candidate{token: token, refKey: head + "." + segs[1]}, true
}
