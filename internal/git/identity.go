package git

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// ErrNoIdentity is returned when git has no user.name or user.email configured.
var ErrNoIdentity = errors.New("git user.name and user.email are not configured")

// DefaultIdentity returns the author identity git would use for a commit made in dir.
// It shells out to the git executable so that system, global and repository-local
// configuration are all honored.
func DefaultIdentity(ctx context.Context, dir string) (AuthorInfo, error) {
	name, err := gitConfigValue(ctx, dir, "user.name")
	if err != nil {
		return AuthorInfo{}, err
	}
	email, err := gitConfigValue(ctx, dir, "user.email")
	if err != nil {
		return AuthorInfo{}, err
	}
	if name == "" || email == "" {
		return AuthorInfo{}, ErrNoIdentity
	}
	return AuthorInfo{Name: name, Email: email}, nil
}

func gitConfigValue(ctx context.Context, dir, key string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", "config", "--get", key)
	cmd.Dir = dir

	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		// git config exits with 1 when the key is unset.
		if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
			return "", nil
		}
		return "", fmt.Errorf("git config %s failed: %w", key, err)
	}
	return strings.TrimSpace(string(out)), nil
}
