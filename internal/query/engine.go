// Package query runs a commit search across every repository under a root.
package query

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"runtime"
	"time"

	"github.com/masmgr/gitwalk/internal/filter"
	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/locator"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// RepositorySource yields repository roots. *locator.Locator implements it.
type RepositorySource interface {
	Locate(ctx context.Context, cfg locator.SearchConfig) iter.Seq2[git.RepositoryRef, error]
}

var _ RepositorySource = (*locator.Locator)(nil)

// Engine combines repository discovery, history enumeration and filtering.
type Engine struct {
	source  RepositorySource
	backend git.Backend
	logger  *zap.Logger
	workers int
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithWorkers bounds how many repositories are processed at once.
// Values below 1 select runtime.GOMAXPROCS(0).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}

// NewEngine creates an Engine reading repositories from source through backend.
func NewEngine(source RepositorySource, backend git.Backend, opts ...Option) *Engine {
	e := &Engine{
		source:  source,
		backend: backend,
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.workers < 1 {
		e.workers = runtime.GOMAXPROCS(0)
	}
	return e
}

// RunOptions holds per-run presentation choices.
type RunOptions struct {
	Order Order
}

// repositorySlot is written by exactly one worker.
type repositorySlot struct {
	ref     git.RepositoryRef
	commits []git.Commit
	scanned int
	err     error
}

// Run discovers repositories under cfg.Root and collects the commits matching
// criteria.
//
// Invalid criteria or search configuration fail before any traversal. A
// repository that cannot be opened or enumerated is recorded in
// Result.Failures and the run continues. When at least one repository was
// discovered and every one failed, Run returns the populated Result together
// with an *AllRepositoriesFailedError. Cancellation is honored between
// repositories and returns the context's error.
func (e *Engine) Run(ctx context.Context, cfg locator.SearchConfig, criteria filter.Criteria, opts RunOptions) (*Result, error) {
	matcher, err := criteria.Compile()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid search configuration: %w", err)
	}
	order, err := ParseOrder(string(opts.Order))
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result := &Result{Order: order}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	var slots []*repositorySlot
	for ref, err := range e.source.Locate(gctx, cfg) {
		if err != nil {
			if gctx.Err() != nil {
				break
			}
			e.logger.Warn("skipping directory", zap.Error(err))
			result.Warnings = append(result.Warnings, err)
			continue
		}

		e.logger.Debug("repository discovered", zap.String("path", ref.Path))
		slot := &repositorySlot{ref: ref}
		slots = append(slots, slot)

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			e.scan(gctx, slot, matcher)
			if slot.err != nil && isContextError(slot.err) {
				return slot.err
			}
			return nil
		})
	}

	waitErr := g.Wait()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if waitErr != nil {
		return nil, waitErr
	}

	for _, slot := range slots {
		if slot.err != nil {
			e.logger.Warn("repository failed", zap.String("path", slot.ref.Path), zap.Error(slot.err))
			result.Failures = append(result.Failures, Failure{Repository: slot.ref, Err: slot.err})
			continue
		}
		result.Repositories = append(result.Repositories, RepositoryResult{
			Repository: slot.ref,
			Commits:    slot.commits,
			Scanned:    slot.scanned,
		})
	}

	e.logger.Info("query complete",
		zap.Int("repositories", result.Discovered()),
		zap.Int("failed", len(result.Failures)),
		zap.Int("warnings", len(result.Warnings)),
		zap.Duration("elapsed", time.Since(start)),
	)

	if len(slots) > 0 && len(result.Failures) == len(slots) {
		return result, &AllRepositoriesFailedError{Failures: result.Failures}
	}
	return result, nil
}

// scan enumerates one repository. On error the partial matches are dropped.
func (e *Engine) scan(ctx context.Context, slot *repositorySlot, matcher *filter.Matcher) {
	handle, err := e.backend.Open(slot.ref)
	if err != nil {
		slot.err = err
		return
	}

	for commit, err := range e.backend.Commits(ctx, handle) {
		if err != nil {
			slot.err = err
			slot.commits = nil
			return
		}
		slot.scanned++
		if matcher.Matches(commit) {
			commit.Repository = slot.ref
			slot.commits = append(slot.commits, commit)
		}
	}

	e.logger.Debug("repository scanned",
		zap.String("path", slot.ref.Path),
		zap.Int("scanned", slot.scanned),
		zap.Int("matched", len(slot.commits)),
	)
}

func isContextError(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
