// Package model holds the format-agnostic representation of parsed
// configuration: a flat sequence of Block records with raw attribute
// values, later annotated by the resolver with the references each block
// makes to other blocks.
package model

import (
	"strings"

	"github.com/vk/blastradius/internal/diag"
)

// Kind classifies a declaration block.
type Kind string

const (
	KindResource Kind = "resource"
	KindData     Kind = "data"
	KindModule   Kind = "module"
	KindVariable Kind = "variable"
	KindOutput   Kind = "output"
	KindLocal    Kind = "local"
	KindProvider Kind = "provider"
)

// EdgeKind classifies a dependency relationship between two blocks.
type EdgeKind string

const (
	// EdgeDependsOn comes from an explicit depends_on entry.
	EdgeDependsOn EdgeKind = "depends_on_explicit"
	// EdgeAttribute comes from a reference expression inside an ordinary
	// attribute value.
	EdgeAttribute EdgeKind = "attribute_reference"
	// EdgeModuleInput comes from a reference inside a module block's input
	// arguments.
	EdgeModuleInput EdgeKind = "module_input"
	// EdgeModuleOutput comes from a module.<name>.<output> reference.
	EdgeModuleOutput EdgeKind = "module_output"
)

// rank orders edge kinds by specificity: when the same ordered pair of
// blocks is related by several reference expressions, the most specific
// kind wins. depends_on outranks everything; the module kinds outrank a
// plain attribute reference.
func (k EdgeKind) rank() int {
	switch k {
	case EdgeDependsOn:
		return 3
	case EdgeModuleInput, EdgeModuleOutput:
		return 2
	default:
		return 1
	}
}

// Outranks reports whether k is more specific than other.
func (k EdgeKind) Outranks(other EdgeKind) bool {
	return k.rank() > other.rank()
}

// Reference is one resolved reference from a block to a target block,
// identified by the target's canonical address.
type Reference struct {
	TargetID string
	Kind     EdgeKind
}

// Block is one parsed declaration unit.
//
// Identity is the tuple (ScopePath, Kind, TypeName, LocalName); it is
// unique within a loaded configuration. ScopePath is the ordered sequence
// of module instantiation names from the root down to the block's
// enclosing module, empty for root-level blocks.
type Block struct {
	Kind      Kind
	TypeName  string // resource/data only
	LocalName string
	ScopePath []string

	// Attributes maps attribute names to their raw parsed values.
	// Reference expressions are carried as Expr values.
	Attributes map[string]Value

	// DependsOn holds the raw addresses listed in an explicit depends_on
	// attribute, kept apart from Attributes because they are references by
	// definition, not values.
	DependsOn []string

	DeclRange diag.SourceRange

	// References is filled in by the resolver: the blocks this block
	// refers to, in first-seen order, de-duplicated by target.
	References []Reference

	// Diags collects per-block findings such as unresolved references.
	Diags diag.Diagnostics
}

// localAddress renders the block's address within its own scope.
func (b *Block) localAddress() string {
	switch b.Kind {
	case KindResource:
		return b.TypeName + "." + b.LocalName
	case KindData:
		return "data." + b.TypeName + "." + b.LocalName
	case KindModule:
		return "module." + b.LocalName
	case KindVariable:
		return "var." + b.LocalName
	case KindOutput:
		return "output." + b.LocalName
	case KindLocal:
		return "local." + b.LocalName
	case KindProvider:
		return "provider." + b.LocalName
	default:
		return b.LocalName
	}
}

// Address renders the block's canonical fully-qualified address, stable
// across rebuilds: each enclosing module contributes a module.<name>
// prefix, e.g. "module.vpc.aws_subnet.private".
func (b *Block) Address() string {
	if len(b.ScopePath) == 0 {
		return b.localAddress()
	}
	var sb strings.Builder
	for _, scope := range b.ScopePath {
		sb.WriteString("module.")
		sb.WriteString(scope)
		sb.WriteString(".")
	}
	sb.WriteString(b.localAddress())
	return sb.String()
}

// ScopeKey renders the scope path as a comparable string. The root scope
// is the empty string.
func (b *Block) ScopeKey() string {
	return strings.Join(b.ScopePath, ".")
}

// Valid reports whether the block carries a complete identity. Blocks
// failing this check are skipped with a malformed-config diagnostic.
func (b *Block) Valid() bool {
	if b.LocalName == "" {
		return false
	}
	if (b.Kind == KindResource || b.Kind == KindData) && b.TypeName == "" {
		return false
	}
	return true
}

// AddReference records a resolved reference, preserving first-seen order
// and keeping one entry per target with the most specific kind observed.
// Self-references are discarded.
func (b *Block) AddReference(targetID string, kind EdgeKind) {
	if targetID == b.Address() {
		return
	}
	for i, ref := range b.References {
		if ref.TargetID == targetID {
			if kind.Outranks(ref.Kind) {
				b.References[i].Kind = kind
			}
			return
		}
	}
	b.References = append(b.References, Reference{TargetID: targetID, Kind: kind})
}
