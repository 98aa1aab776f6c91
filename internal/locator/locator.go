// Package locator discovers git repositories beneath a search root using a
// bounded-depth walk over a filesystem.Provider.
//
// A directory holding a repository marker is emitted and never descended into,
// so repositories nested in another repository's working tree are not reported.
package locator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/masmgr/gitwalk/internal/filesystem"
	"github.com/masmgr/gitwalk/internal/git"
)

// DefaultMaxDepth is the recursion depth used when none is configured.
const DefaultMaxDepth = 5

// SearchConfig describes where and how deep to look for repositories.
type SearchConfig struct {
	Root string
	// MaxDepth bounds recursion below Root. 0 checks only Root itself.
	MaxDepth int
	// Exclude holds doublestar patterns matched against slash-separated paths
	// relative to Root. Matching directories are neither reported nor descended.
	Exclude []string
}

// Validate checks the depth bound and exclude patterns.
func (c SearchConfig) Validate() error {
	if c.Root == "" {
		return errors.New("search root is empty")
	}
	if c.MaxDepth < 0 {
		return fmt.Errorf("max depth must be non-negative, got %d", c.MaxDepth)
	}
	for _, pattern := range c.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}
	return nil
}

// Locator finds repository roots.
type Locator struct {
	fs filesystem.Provider
}

// New creates a Locator backed by provider.
func New(provider filesystem.Provider) *Locator {
	return &Locator{fs: provider}
}

// Locate walks cfg.Root depth first and yields each repository once, keyed by
// its canonical path, in traversal order.
//
// A yielded non-nil error is a warning (typically *filesystem.IoError for a
// directory that could not be listed) and the walk continues, unless it is the
// context's error, in which case the sequence ends.
func (l *Locator) Locate(ctx context.Context, cfg SearchConfig) iter.Seq2[git.RepositoryRef, error] {
	return func(yield func(git.RepositoryRef, error) bool) {
		root, err := l.fs.Canonical(cfg.Root)
		if err != nil {
			yield(git.RepositoryRef{}, err)
			return
		}

		w := &walk{
			ctx:     ctx,
			fs:      l.fs,
			cfg:     cfg,
			root:    root,
			visited: make(map[string]struct{}),
			yield:   yield,
		}
		w.visit(root, 0)
	}
}

type walk struct {
	ctx     context.Context
	fs      filesystem.Provider
	cfg     SearchConfig
	root    string
	visited map[string]struct{}
	yield   func(git.RepositoryRef, error) bool
}

// visit reports whether the walk should continue.
func (w *walk) visit(path string, depth int) bool {
	if err := w.ctx.Err(); err != nil {
		w.yield(git.RepositoryRef{}, err)
		return false
	}

	if depth > 0 && w.excluded(path) {
		return true
	}

	canonical, err := w.fs.Canonical(path)
	if err != nil {
		return w.yield(git.RepositoryRef{}, err)
	}
	if _, seen := w.visited[canonical]; seen {
		return true
	}
	w.visited[canonical] = struct{}{}

	if w.fs.IsRepositoryMarker(canonical) {
		return w.yield(git.RepositoryRef{Path: canonical}, nil)
	}

	if depth >= w.cfg.MaxDepth {
		return true
	}

	children, err := w.fs.ListChildren(canonical)
	if err != nil {
		return w.yield(git.RepositoryRef{}, err)
	}

	for _, child := range children {
		if !child.IsDir {
			continue
		}
		if !w.visit(child.Path, depth+1) {
			return false
		}
	}
	return true
}

func (w *walk) excluded(path string) bool {
	if len(w.cfg.Exclude) == 0 {
		return false
	}
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	for _, pattern := range w.cfg.Exclude {
		if matched, _ := doublestar.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Collect drains Locate, separating repositories from warnings. The returned
// error is non-nil only when the context ended the walk.
func (l *Locator) Collect(ctx context.Context, cfg SearchConfig) ([]git.RepositoryRef, []error, error) {
	var refs []git.RepositoryRef
	var warnings []error

	for ref, err := range l.Locate(ctx, cfg) {
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
				return refs, warnings, err
			}
			warnings = append(warnings, err)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, warnings, nil
}
