// Package filesystem abstracts the directory listing and repository marker
// checks used by repository discovery, so traversal can run against an
// in-memory tree in tests.
package filesystem

import "fmt"

// MarkerName is the entry whose presence identifies a directory as a git repository root.
const MarkerName = ".git"

// Entry describes a single child of a listed directory.
type Entry struct {
	Name string
	Path string
	// IsDir reports whether the entry is a directory or a symbolic link to one.
	IsDir     bool
	IsSymlink bool
}

// Provider lists directories and recognizes repository roots.
type Provider interface {
	// ListChildren returns the entries of the directory at path sorted by name.
	// Failures are reported as *IoError.
	ListChildren(path string) ([]Entry, error)

	// IsRepositoryMarker reports whether the directory at path contains a MarkerName entry.
	IsRepositoryMarker(path string) bool

	// Canonical returns the absolute path with every symbolic link resolved.
	Canonical(path string) (string, error)
}

// IoError reports a filesystem access failure such as a denied or vanished directory.
type IoError struct {
	Path string
	Op   string
	Err  error
}

func (e *IoError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IoError) Unwrap() error {
	return e.Err
}

// Compile-time interface conformance checks.
var (
	_ Provider = (*OSProvider)(nil)
	_ Provider = (*MemoryProvider)(nil)
)
