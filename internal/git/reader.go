package git

import (
	"context"
	"errors"
	"io"
	"iter"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// GoGitBackend reads repository history with go-git.
type GoGitBackend struct{}

// NewGoGitBackend creates a backend that opens repositories on the local filesystem.
func NewGoGitBackend() *GoGitBackend {
	return &GoGitBackend{}
}

type goGitHandle struct {
	ref  RepositoryRef
	repo *git.Repository
}

func (h *goGitHandle) Repository() RepositoryRef {
	return h.ref
}

// Open opens the repository rooted at ref.Path. Linked worktrees are supported.
func (b *GoGitBackend) Open(ref RepositoryRef) (Handle, error) {
	repo, err := git.PlainOpenWithOptions(ref.Path, &git.PlainOpenOptions{
		EnableDotGitCommonDir: true,
	})
	if err != nil {
		return nil, openError(ref, err)
	}
	return &goGitHandle{ref: ref, repo: repo}, nil
}

// Commits walks the history from HEAD ordered by committer time, newest first.
// A repository without any commits yields an empty sequence.
func (b *GoGitBackend) Commits(ctx context.Context, handle Handle) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		h, ok := handle.(*goGitHandle)
		if !ok {
			yield(Commit{}, enumerateError(handle.Repository(), ErrForeignHandle))
			return
		}

		head, err := h.repo.Head()
		if err != nil {
			if errors.Is(err, plumbing.ErrReferenceNotFound) {
				return
			}
			yield(Commit{}, enumerateError(h.ref, err))
			return
		}

		cIter, err := h.repo.Log(&git.LogOptions{From: head.Hash(), Order: git.LogOrderCommitterTime})
		if err != nil {
			yield(Commit{}, enumerateError(h.ref, err))
			return
		}
		defer cIter.Close()

		for {
			if err := ctx.Err(); err != nil {
				yield(Commit{}, err)
				return
			}

			c, err := cIter.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(Commit{}, enumerateError(h.ref, err))
				return
			}

			if !yield(convertCommit(c, h.ref), nil) {
				return
			}
		}
	}
}

func convertCommit(c *object.Commit, ref RepositoryRef) Commit {
	return Commit{
		Hash:       c.Hash.String(),
		Author:     AuthorInfo{Name: c.Author.Name, Email: c.Author.Email},
		When:       c.Committer.When,
		Message:    c.Message,
		Repository: ref,
	}
}
