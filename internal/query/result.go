package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/masmgr/gitwalk/internal/git"
)

// Order controls the ordering of the flattened commit list.
type Order string

const (
	// OrderDiscovery groups commits by repository in discovery order, keeping
	// each repository's native history order.
	OrderDiscovery Order = "discovery"
	// OrderNewestFirst sorts all commits by timestamp, newest first. Ties keep
	// discovery order.
	OrderNewestFirst Order = "newest"
)

// ParseOrder parses an order name. The empty string selects OrderDiscovery.
func ParseOrder(s string) (Order, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(OrderDiscovery), "repository":
		return OrderDiscovery, nil
	case string(OrderNewestFirst), "time", "date":
		return OrderNewestFirst, nil
	default:
		return "", fmt.Errorf("invalid order: %s (expected discovery or newest)", s)
	}
}

// RepositoryResult holds the matching commits of one successfully queried repository.
type RepositoryResult struct {
	Repository git.RepositoryRef
	Commits    []git.Commit
	// Scanned counts every commit enumerated, matching or not.
	Scanned int
}

// Failure records a repository that could not be opened or enumerated.
type Failure struct {
	Repository git.RepositoryRef
	Err        error
}

// Result is the aggregated outcome of a query. Failures and Warnings are
// reported alongside the commits; neither aborts the run.
type Result struct {
	Repositories []RepositoryResult
	Failures     []Failure
	// Warnings holds traversal problems such as directories that could not be listed.
	Warnings []error
	Order    Order
}

// Discovered returns the number of repositories the locator reported.
func (r *Result) Discovered() int {
	return len(r.Repositories) + len(r.Failures)
}

// Commits flattens the matching commits according to r.Order.
func (r *Result) Commits() []git.Commit {
	var total int
	for _, repo := range r.Repositories {
		total += len(repo.Commits)
	}

	commits := make([]git.Commit, 0, total)
	for _, repo := range r.Repositories {
		commits = append(commits, repo.Commits...)
	}

	if r.Order == OrderNewestFirst {
		slices.SortStableFunc(commits, func(a, b git.Commit) int {
			return b.When.Compare(a.When)
		})
	}
	return commits
}

// AllRepositoriesFailedError distinguishes "repositories were found but none
// could be read" from "no repositories were found".
type AllRepositoriesFailedError struct {
	Failures []Failure
}

func (e *AllRepositoriesFailedError) Error() string {
	if len(e.Failures) == 1 {
		return fmt.Sprintf("the only discovered repository failed: %v", e.Failures[0].Err)
	}
	return fmt.Sprintf("all %d discovered repositories failed", len(e.Failures))
}

// Unwrap exposes every per-repository error to errors.Is and errors.As.
func (e *AllRepositoriesFailedError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failures))
	for _, f := range e.Failures {
		errs = append(errs, f.Err)
	}
	return errs
}

// IsAllRepositoriesFailed reports whether err is an *AllRepositoriesFailedError.
func IsAllRepositoriesFailed(err error) bool {
	var target *AllRepositoriesFailedError
	return errors.As(err, &target)
}
