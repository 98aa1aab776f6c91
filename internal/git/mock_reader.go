package git

import (
	"context"
	"iter"
	"sync"
)

// MockBackend is a test double for GoGitBackend.
// It serves predefined commit lists per repository path without touching the filesystem.
type MockBackend struct {
	// History maps a repository path to its commits, newest first.
	History map[string][]Commit
	// OpenErrors maps a repository path to the error returned by Open.
	OpenErrors map[string]error
	// EnumerateErrors maps a repository path to an error yielded after the preset history.
	EnumerateErrors map[string]error

	mu     sync.Mutex
	opened []string
}

// NewMockBackend creates a MockBackend with the given histories.
func NewMockBackend(history map[string][]Commit) *MockBackend {
	if history == nil {
		history = make(map[string][]Commit)
	}
	return &MockBackend{
		History:         history,
		OpenErrors:      make(map[string]error),
		EnumerateErrors: make(map[string]error),
	}
}

type mockHandle struct {
	ref RepositoryRef
}

func (h mockHandle) Repository() RepositoryRef {
	return h.ref
}

// Open returns the preset open error for ref, if any.
func (m *MockBackend) Open(ref RepositoryRef) (Handle, error) {
	m.mu.Lock()
	m.opened = append(m.opened, ref.Path)
	m.mu.Unlock()

	if err, ok := m.OpenErrors[ref.Path]; ok && err != nil {
		return nil, openError(ref, err)
	}
	return mockHandle{ref: ref}, nil
}

// Commits yields the preset history tagged with the handle's repository.
func (m *MockBackend) Commits(ctx context.Context, handle Handle) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		h, ok := handle.(mockHandle)
		if !ok {
			yield(Commit{}, enumerateError(handle.Repository(), ErrForeignHandle))
			return
		}

		for _, c := range m.History[h.ref.Path] {
			if err := ctx.Err(); err != nil {
				yield(Commit{}, err)
				return
			}
			c.Repository = h.ref
			if !yield(c, nil) {
				return
			}
		}

		if err, ok := m.EnumerateErrors[h.ref.Path]; ok && err != nil {
			yield(Commit{}, enumerateError(h.ref, err))
		}
	}
}

// Opened returns the repository paths passed to Open, in call order.
func (m *MockBackend) Opened() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.opened...)
}
