package git

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"
)

// Each record is prefixed by 0x1e (record separator); fields are NUL-separated
// and the raw message is NUL-terminated, so multi-line messages parse reliably.
const (
	logRecordSeparator = 0x1e
	logFormat          = "%x1e%H%x00%cI%x00%an%x00%ae%x00%B%x00"
)

// GitCLIBackend reads repository history by running the git executable.
// It honors everything git itself understands (alternates, partial clones,
// exotic extensions) at the cost of a process per repository.
type GitCLIBackend struct {
	executable string
}

// NewGitCLIBackend creates a backend that runs "git" from PATH.
func NewGitCLIBackend() *GitCLIBackend {
	return &GitCLIBackend{executable: "git"}
}

type gitCLIHandle struct {
	ref     RepositoryRef
	hasHead bool
}

func (h *gitCLIHandle) Repository() RepositoryRef {
	return h.ref
}

// Open verifies that ref.Path is the top of a repository git can read.
func (b *GitCLIBackend) Open(ref RepositoryRef) (Handle, error) {
	if _, err := exec.LookPath(b.executable); err != nil {
		return nil, openError(ref, err)
	}

	out, err := b.command(context.Background(), ref, "rev-parse", "--git-dir").CombinedOutput()
	if err != nil {
		return nil, openError(ref, fmt.Errorf("git rev-parse failed: %w: %s", err, strings.TrimSpace(string(out))))
	}

	// Exit status 1 with --verify --quiet means HEAD does not resolve yet.
	hasHead := true
	if err := b.command(context.Background(), ref, "rev-parse", "--verify", "--quiet", "HEAD^{commit}").Run(); err != nil {
		var exitErr *exec.ExitError
		if !errors.As(err, &exitErr) || exitErr.ExitCode() != 1 {
			return nil, openError(ref, err)
		}
		hasHead = false
	}

	return &gitCLIHandle{ref: ref, hasHead: hasHead}, nil
}

// Commits streams "git log" output for HEAD. A repository without any commits
// yields an empty sequence.
func (b *GitCLIBackend) Commits(ctx context.Context, handle Handle) iter.Seq2[Commit, error] {
	return func(yield func(Commit, error) bool) {
		h, ok := handle.(*gitCLIHandle)
		if !ok {
			yield(Commit{}, enumerateError(handle.Repository(), ErrForeignHandle))
			return
		}
		if !h.hasHead {
			return
		}

		cmd := b.command(ctx, h.ref, "log", "--no-color", "--pretty=format:"+logFormat, "HEAD")
		var stderr bytes.Buffer
		cmd.Stderr = &stderr
		stdout, err := cmd.StdoutPipe()
		if err != nil {
			yield(Commit{}, enumerateError(h.ref, err))
			return
		}
		if err := cmd.Start(); err != nil {
			yield(Commit{}, enumerateError(h.ref, err))
			return
		}

		finished := false
		defer func() {
			if !finished {
				_ = cmd.Process.Kill()
				_ = cmd.Wait()
			}
		}()

		reader := bufio.NewReader(stdout)
		for {
			if err := ctx.Err(); err != nil {
				yield(Commit{}, err)
				return
			}

			rec, readErr := reader.ReadBytes(logRecordSeparator)
			rec = bytes.TrimSuffix(rec, []byte{logRecordSeparator})
			if len(bytes.TrimSpace(rec)) > 0 {
				c, err := parseLogRecord(rec, h.ref)
				if err != nil {
					yield(Commit{}, enumerateError(h.ref, err))
					return
				}
				if !yield(c, nil) {
					return
				}
			}

			if errors.Is(readErr, io.EOF) {
				break
			}
			if readErr != nil {
				yield(Commit{}, enumerateError(h.ref, readErr))
				return
			}
		}

		finished = true
		if err := cmd.Wait(); err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				yield(Commit{}, ctxErr)
				return
			}
			yield(Commit{}, enumerateError(h.ref, fmt.Errorf("git log failed: %w: %s", err, strings.TrimSpace(stderr.String()))))
		}
	}
}

// command builds a git invocation rooted at ref. The ceiling keeps git from
// falling back to an enclosing repository when ref's own .git is unusable.
func (b *GitCLIBackend) command(ctx context.Context, ref RepositoryRef, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, b.executable, append([]string{"-C", ref.Path}, args...)...)
	cmd.Env = append(os.Environ(),
		"GIT_CEILING_DIRECTORIES="+filepath.Dir(ref.Path),
		"GIT_TERMINAL_PROMPT=0",
		"LC_ALL=C",
	)
	return cmd
}

func parseLogRecord(rec []byte, ref RepositoryRef) (Commit, error) {
	fields := bytes.SplitN(rec, []byte{0x00}, 5)
	if len(fields) < 5 {
		return Commit{}, fmt.Errorf("unexpected git log record format")
	}

	when, err := time.Parse(time.RFC3339, string(fields[1]))
	if err != nil {
		return Commit{}, fmt.Errorf("parse committer date: %w", err)
	}

	// The message runs up to its terminating NUL; the record separator newline follows.
	message := fields[4]
	if idx := bytes.IndexByte(message, 0x00); idx != -1 {
		message = message[:idx]
	}

	return Commit{
		Hash:       string(fields[0]),
		Author:     AuthorInfo{Name: string(fields[2]), Email: string(fields[3])},
		When:       when,
		Message:    string(message),
		Repository: ref,
	}, nil
}
