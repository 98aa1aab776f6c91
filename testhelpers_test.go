package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// createTestRepo initializes a repository at dir, creating it if needed.
func createTestRepo(t *testing.T, dir string) *git.Repository {
	t.Helper()
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatalf("Failed to create repo dir: %v", err)
	}
	repo, err := git.PlainInit(dir, false)
	if err != nil {
		t.Fatalf("Failed to initialize git repo: %v", err)
	}
	return repo
}

// addCommitToRepo writes a file and commits it with the given author and time.
func addCommitToRepo(t *testing.T, repo *git.Repository, author object.Signature, message string) {
	t.Helper()
	w, err := repo.Worktree()
	if err != nil {
		t.Fatalf("Failed to get worktree: %v", err)
	}

	filename := fmt.Sprintf("file-%d.txt", author.When.UnixNano())
	content := fmt.Sprintf("%s at %s\n", message, author.When.String())
	if err := os.WriteFile(filepath.Join(w.Filesystem.Root(), filename), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write file: %v", err)
	}
	if _, err := w.Add(filename); err != nil {
		t.Fatalf("Failed to add file: %v", err)
	}

	if _, err := w.Commit(message, &git.CommitOptions{Author: &author, Committer: &author}); err != nil {
		t.Fatalf("Failed to commit: %v", err)
	}
}

func signature(name, email string, when time.Time) object.Signature {
	return object.Signature{Name: name, Email: email, When: when}
}
