package git

import (
	"errors"
	"fmt"
)

// ErrForeignHandle is returned when a Handle is passed to a backend that did not create it.
var ErrForeignHandle = errors.New("handle was not created by this backend")

// RepositoryError reports a repository that matched the marker but could not be
// opened or queried.
type RepositoryError struct {
	Path string
	Op   string
	Err  error
}

func (e *RepositoryError) Error() string {
	return fmt.Sprintf("repository %s: %s: %v", e.Path, e.Op, e.Err)
}

func (e *RepositoryError) Unwrap() error {
	return e.Err
}

func openError(ref RepositoryRef, err error) error {
	return &RepositoryError{Path: ref.Path, Op: "open", Err: err}
}

func enumerateError(ref RepositoryRef, err error) error {
	return &RepositoryError{Path: ref.Path, Op: "enumerate commits", Err: err}
}
