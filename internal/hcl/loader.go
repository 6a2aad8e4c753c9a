// Package hcl adapts the hashicorp/hcl tokenizer into the format-agnostic
// block model. It is the only package that knows configuration comes from
// HCL: everything downstream works on model.Block records.
package hcl

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/hashicorp/hcl/v2/hclsyntax"

	"github.com/vk/blastradius/internal/ctxlog"
	"github.com/vk/blastradius/internal/diag"
	"github.com/vk/blastradius/internal/fsutil"
	"github.com/vk/blastradius/internal/model"
)

// Loader parses a directory of .tf files into model.Block records.
type Loader struct {
	parser   *hclparse.Parser
	excludes []glob.Glob
}

// NewLoader creates a Loader. Exclude globs are matched against file
// names within each loaded directory.
func NewLoader(excludes []glob.Glob) *Loader {
	return &Loader{
		parser:   hclparse.NewParser(),
		excludes: excludes,
	}
}

// Load parses every .tf file directly inside dir, following module blocks
// with a local relative source into their directories depth-first. Blocks
// inside a followed module get a scope path extended with the module's
// local name.
//
// A missing directory or a directory with no .tf files is a hard error
// (there is nothing to build a graph from). Everything else is resilient:
// files that fail to parse and blocks without a complete identity are
// skipped with diagnostics, and the load continues.
func (l *Loader) Load(ctx context.Context, dir string) ([]*model.Block, diag.Diagnostics, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("configuration directory not found: %w", err)
	}
	if !info.IsDir() {
		return nil, nil, fmt.Errorf("not a directory: %s", dir)
	}

	var blocks []*model.Block
	var diags diag.Diagnostics
	chain := map[string]bool{}
	if err := l.loadDir(ctx, dir, nil, chain, &blocks, &diags); err != nil {
		return nil, nil, err
	}
	if len(blocks) == 0 && len(diags) == 0 {
		// Point at nested configuration when the caller aimed too high.
		if nested, err := fsutil.FindFilesByExtension(dir, ".tf", l.excludes); err == nil && len(nested) > 0 {
			return nil, nil, fmt.Errorf("no .tf files found in %s (found %d in subdirectories; point at the directory that declares the root module)", dir, len(nested))
		}
		return nil, nil, fmt.Errorf("no .tf files found in %s", dir)
	}

	blocks, dupDiags := dedupe(blocks)
	diags = diags.Extend(dupDiags)
	return blocks, diags, nil
}

// loadDir parses one directory at the given scope. chain holds the
// absolute paths of directories currently being loaded, so a module
// source pointing back up the chain is reported instead of recursed into.
func (l *Loader) loadDir(ctx context.Context, dir string, scope []string, chain map[string]bool, blocks *[]*model.Block, diags *diag.Diagnostics) error {
	logger := ctxlog.FromContext(ctx)

	abs, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	chain[abs] = true
	defer delete(chain, abs)

	files, err := fsutil.ListFilesByExtension(dir, ".tf", l.excludes)
	if err != nil {
		return err
	}
	logger.Debug("Loading configuration directory.", "dir", dir, "scope", strings.Join(scope, "."), "files", len(files))

	for _, file := range files {
		f, parseDiags := l.parser.ParseHCLFile(file)
		if parseDiags.HasErrors() {
			*diags = (*diags).Append(&diag.Diagnostic{
				Severity: diag.Error,
				Code:     diag.ParseError,
				Summary:  fmt.Sprintf("failed to parse %s: %s", file, parseDiags.Error()),
				Subject:  &diag.SourceRange{Filename: file},
			})
			logger.Warn("Skipping unparseable file.", "file", file, "error", parseDiags.Error())
			continue
		}

		body, ok := f.Body.(*hclsyntax.Body)
		if !ok {
			// .tf files always carry native syntax bodies.
			continue
		}
		l.loadBody(ctx, body, f.Bytes, file, dir, scope, chain, blocks, diags)
	}
	return nil
}

// loadBody walks a file's top-level blocks.
func (l *Loader) loadBody(ctx context.Context, body *hclsyntax.Body, src []byte, file, dir string, scope []string, chain map[string]bool, blocks *[]*model.Block, diags *diag.Diagnostics) {
	for _, raw := range body.Blocks {
		switch raw.Type {
		case "resource", "data", "module", "variable", "output", "provider":
			block, d := l.translateBlock(raw, src, scope)
			if d != nil {
				*diags = (*diags).Append(d)
				continue
			}
			*blocks = append(*blocks, block)
			if block.Kind == model.KindModule {
				l.followModuleSource(ctx, block, dir, scope, chain, blocks, diags)
			}
		case "locals":
			*blocks = append(*blocks, l.translateLocals(raw, src, scope)...)
		default:
			// terraform blocks and anything unrecognized carry no
			// dependency information.
		}
	}
}

// followModuleSource descends into a module's source directory when it is
// a local relative path that exists on disk. Remote sources stay a single
// module block with raw input expressions.
func (l *Loader) followModuleSource(ctx context.Context, block *model.Block, dir string, scope []string, chain map[string]bool, blocks *[]*model.Block, diags *diag.Diagnostics) {
	logger := ctxlog.FromContext(ctx)

	source, ok := block.Attributes["source"]
	if !ok || source.Kind() != model.String {
		return
	}
	rel := source.AsString()
	if !strings.HasPrefix(rel, ".") {
		logger.Debug("Module source is not local, not descending.", "module", block.LocalName, "source", rel)
		return
	}

	moduleDir := filepath.Clean(filepath.Join(dir, rel))
	info, err := os.Stat(moduleDir)
	if err != nil || !info.IsDir() {
		logger.Warn("Module source directory does not exist.", "module", block.LocalName, "source", rel)
		return
	}

	abs, err := filepath.Abs(moduleDir)
	if err != nil {
		return
	}
	if chain[abs] {
		*diags = (*diags).Append(&diag.Diagnostic{
			Severity: diag.Warning,
			Code:     diag.ModuleCycle,
			Summary:  fmt.Sprintf("module %q source %q is already being loaded; not descending again", block.LocalName, rel),
			Subject:  &diag.SourceRange{Filename: block.DeclRange.Filename, Line: block.DeclRange.Line},
		})
		return
	}

	childScope := append(append([]string{}, scope...), block.LocalName)
	if err := l.loadDir(ctx, moduleDir, childScope, chain, blocks, diags); err != nil {
		logger.Warn("Failed to load module source directory.", "module", block.LocalName, "error", err)
	}
}

// dedupe enforces identity uniqueness: the later declaration wins and the
// earlier one is dropped with a duplicate-declaration diagnostic.
func dedupe(blocks []*model.Block) ([]*model.Block, diag.Diagnostics) {
	var diags diag.Diagnostics
	seen := map[string]int{}
	out := make([]*model.Block, 0, len(blocks))

	for _, block := range blocks {
		key := block.ScopeKey() + "|" + string(block.Kind) + "|" + block.TypeName + "|" + block.LocalName
		if i, dup := seen[key]; dup {
			earlier := out[i]
			diags = diags.Append(&diag.Diagnostic{
				Severity: diag.Warning,
				Code:     diag.DuplicateDeclaration,
				Summary:  fmt.Sprintf("duplicate declaration of %s; the later declaration at %s wins", earlier.Address(), block.DeclRange),
				Subject:  &diag.SourceRange{Filename: earlier.DeclRange.Filename, Line: earlier.DeclRange.Line},
			})
			out[i] = block
			continue
		}
		seen[key] = len(out)
		out = append(out, block)
	}
	return out, diags
}
