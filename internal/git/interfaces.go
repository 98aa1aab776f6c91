package git

import (
	"context"
	"fmt"
	"iter"
	"strings"
)

// Handle is an open repository returned by a Backend.
type Handle interface {
	Repository() RepositoryRef
}

// Backend defines access to repository history.
// This abstraction allows the query engine to run against canned data in tests.
type Backend interface {
	// Open opens the repository at ref. Failures are reported as *RepositoryError.
	Open(ref RepositoryRef) (Handle, error)

	// Commits enumerates the history reachable from HEAD in the backend's native
	// reverse-chronological order. Every call yields a fresh, finite sequence.
	// A non-nil error ends the sequence.
	Commits(ctx context.Context, handle Handle) iter.Seq2[Commit, error]
}

// Compile-time interface conformance checks.
var (
	_ Backend = (*GoGitBackend)(nil)
	_ Backend = (*GitCLIBackend)(nil)
	_ Backend = (*MockBackend)(nil)
)

// Backend names accepted by NewBackend.
const (
	BackendGoGit = "go-git"
	BackendCLI   = "cli"
)

// NewBackend returns the real backend with the given name. The empty string
// selects go-git.
func NewBackend(name string) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", BackendGoGit, "gogit":
		return NewGoGitBackend(), nil
	case BackendCLI, "git":
		return NewGitCLIBackend(), nil
	default:
		return nil, fmt.Errorf("invalid backend: %s (expected go-git or cli)", name)
	}
}
