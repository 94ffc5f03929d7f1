// Package document reads checklist documents from their locations.
package document

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrUnavailable is returned when a checklist document cannot be read. It is
// fatal to the polling cycle that hit it.
var ErrUnavailable = errors.New("document unavailable")

// Document is the text of one checklist document.
type Document struct {
	Path    string
	Content string
}

// Provider returns the current text of every checklist document.
type Provider interface {
	Read(ctx context.Context) ([]Document, error)
}

// FileProvider reads documents from the local filesystem. Each pattern is a
// plain path or a doublestar glob such as "schedules/**/*.md". Relative
// patterns are resolved against BaseDir.
type FileProvider struct {
	Patterns []string
	BaseDir  string
}

var _ Provider = (*FileProvider)(nil)

// NewFileProvider creates a provider for the given patterns.
func NewFileProvider(baseDir string, patterns ...string) *FileProvider {
	return &FileProvider{Patterns: patterns, BaseDir: baseDir}
}

// Read implements Provider. A pattern that matches nothing, or any file that
// cannot be read, fails the whole read with ErrUnavailable.
func (p *FileProvider) Read(ctx context.Context) ([]Document, error) {
	paths, err := p.Resolve()
	if err != nil {
		return nil, err
	}

	docs := make([]Document, 0, len(paths))
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrUnavailable, err)
		}

		docs = append(docs, Document{Path: path, Content: string(data)})
	}

	return docs, nil
}

// Resolve expands the patterns into a sorted, de-duplicated list of files.
func (p *FileProvider) Resolve() ([]string, error) {
	if len(p.Patterns) == 0 {
		return nil, fmt.Errorf("%w: no document locations configured", ErrUnavailable)
	}

	seen := make(map[string]bool)
	var paths []string

	for _, pattern := range p.Patterns {
		pattern = p.abs(pattern)

		matches, err := expand(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrUnavailable, pattern, err)
		}
		if len(matches) == 0 {
			return nil, fmt.Errorf("%w: %s: no matching files", ErrUnavailable, pattern)
		}

		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				paths = append(paths, m)
			}
		}
	}

	sort.Strings(paths)
	return paths, nil
}

func (p *FileProvider) abs(pattern string) string {
	if filepath.IsAbs(pattern) || p.BaseDir == "" {
		return filepath.Clean(pattern)
	}
	return filepath.Join(p.BaseDir, pattern)
}

// expand returns the files a pattern refers to. Plain paths are returned as-is
// so that a missing file surfaces as a read error with its own message.
func expand(pattern string) ([]string, error) {
	if !hasMeta(pattern) {
		info, err := os.Stat(pattern)
		if err != nil {
			return nil, err
		}
		if info.IsDir() {
			return nil, fmt.Errorf("is a directory")
		}
		return []string{pattern}, nil
	}

	matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
	if err != nil {
		return nil, err
	}
	return matches, nil
}

func hasMeta(pattern string) bool {
	for i := 0; i < len(pattern); i++ {
		switch pattern[i] {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}

// StaticProvider serves fixed documents. Used for stdin input and tests.
type StaticProvider struct {
	Docs []Document
	Err  error
}

var _ Provider = (*StaticProvider)(nil)

// Read implements Provider.
func (p *StaticProvider) Read(context.Context) ([]Document, error) {
	if p.Err != nil {
		return nil, p.Err
	}
	return p.Docs, nil
}
