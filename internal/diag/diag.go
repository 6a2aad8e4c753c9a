// Package diag models non-fatal findings produced while loading
// configuration and building the dependency graph.
//
// Parsing is resilient by default: a malformed block, a duplicate
// declaration, or a dangling reference is recorded as a Diagnostic and the
// pass continues. Only traversal with an unknown focal node is a hard
// error, and that lives with the graph itself.
package diag

import (
	"fmt"
	"strings"
)

// Severity classifies how serious a diagnostic is.
type Severity int

const (
	// Warning marks data-quality findings that do not invalidate the graph.
	Warning Severity = iota
	// Error marks findings that caused part of the input to be skipped.
	Error
)

func (s Severity) String() string {
	if s == Error {
		return "error"
	}
	return "warning"
}

// Code identifies the category of a diagnostic.
type Code string

const (
	// MalformedConfig means a block could not be assigned an identity and
	// was skipped.
	MalformedConfig Code = "malformed_config"
	// DuplicateDeclaration means two blocks share an identity; the later
	// declaration won.
	DuplicateDeclaration Code = "duplicate_declaration"
	// UnresolvedReference means a reference token parsed as a known
	// namespace but no matching block exists in its scope chain.
	UnresolvedReference Code = "unresolved_reference"
	// IsolatedNode means a graph node ended up with no edges at all.
	IsolatedNode Code = "isolated_node"
	// ParseError means a whole file failed to parse and was skipped.
	ParseError Code = "parse_error"
	// ModuleCycle means a module source directory refers back to a
	// directory already being loaded.
	ModuleCycle Code = "module_cycle"
)

// SourceRange points at the configuration source a diagnostic is about.
type SourceRange struct {
	Filename string
	Line     int
}

func (r SourceRange) String() string {
	if r.Filename == "" {
		return "<unknown>"
	}
	return fmt.Sprintf("%s:%d", r.Filename, r.Line)
}

// Diagnostic is a single finding.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Summary  string
	Subject  *SourceRange
}

func (d *Diagnostic) Error() string {
	if d.Subject != nil {
		return fmt.Sprintf("%s: %s: %s", d.Severity, d.Subject, d.Summary)
	}
	return fmt.Sprintf("%s: %s", d.Severity, d.Summary)
}

// Diagnostics is a collection of findings. A nil Diagnostics is valid and
// empty.
type Diagnostics []*Diagnostic

// Append adds diagnostics and returns the extended collection.
func (ds Diagnostics) Append(diags ...*Diagnostic) Diagnostics {
	return append(ds, diags...)
}

// Extend merges another collection into this one.
func (ds Diagnostics) Extend(other Diagnostics) Diagnostics {
	return append(ds, other...)
}

// HasErrors reports whether any diagnostic has Error severity.
func (ds Diagnostics) HasErrors() bool {
	for _, d := range ds {
		if d.Severity == Error {
			return true
		}
	}
	return false
}

// ByCode returns the subset of diagnostics with the given code.
func (ds Diagnostics) ByCode(code Code) Diagnostics {
	var out Diagnostics
	for _, d := range ds {
		if d.Code == code {
			out = append(out, d)
		}
	}
	return out
}

// Error implements the error interface so a collection can be returned
// through an error value when callers insist on failure.
func (ds Diagnostics) Error() string {
	switch len(ds) {
	case 0:
		return "no diagnostics"
	case 1:
		return ds[0].Error()
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d diagnostics:", len(ds))
	for _, d := range ds {
		sb.WriteString("\n  - ")
		sb.WriteString(d.Error())
	}
	return sb.String()
}
