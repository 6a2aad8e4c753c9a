// Package fsutil provides file system utility functions.
package fsutil

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// CompilePatterns compiles glob patterns for use as exclusion filters.
func CompilePatterns(patterns []string) ([]glob.Glob, error) {
	globs := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		globs = append(globs, g)
	}
	return globs, nil
}

// ListFilesByExtension returns the files directly inside dir (no
// recursion) ending with the specified extension, in lexical order,
// skipping names matching any exclude glob.
func ListFilesByExtension(dir string, extension string, excludes []glob.Glob) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), extension) {
			continue
		}
		excluded := false
		for _, g := range excludes {
			if g.Match(entry.Name()) {
				excluded = true
				break
			}
		}
		if !excluded {
			files = append(files, filepath.Join(dir, entry.Name()))
		}
	}
	return files, nil
}

// FindFilesByExtension recursively searches the given root path for all
// files ending with the specified extension, returning their full paths in
// lexical order. Directories named ".terraform" are always skipped, as are
// paths matching any of the exclude globs (matched against the path
// relative to the root, with forward slashes).
func FindFilesByExtension(rootPath string, extension string, excludes []glob.Glob) ([]string, error) {
	if extension == "" {
		panic("extension must not be empty")
	}

	var files []string
	err := filepath.WalkDir(rootPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, relErr := filepath.Rel(rootPath, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if d.Name() == ".terraform" {
				return filepath.SkipDir
			}
			for _, g := range excludes {
				if g.Match(rel) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if !strings.HasSuffix(d.Name(), extension) {
			return nil
		}
		for _, g := range excludes {
			if g.Match(rel) {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})

	if err != nil {
		return nil, err
	}

	return files, nil
}
