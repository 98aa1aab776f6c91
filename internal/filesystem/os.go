package filesystem

import (
	"io/fs"
	"os"
	"path/filepath"
)

// OSProvider implements Provider on the operating system's filesystem.
type OSProvider struct{}

// NewOSProvider returns a Provider backed by the real filesystem.
func NewOSProvider() *OSProvider {
	return &OSProvider{}
}

// ListChildren reads the directory at path. Symbolic links are reported as
// directories when their target is one.
func (OSProvider) ListChildren(path string) ([]Entry, error) {
	dirEntries, err := os.ReadDir(path)
	if err != nil {
		return nil, &IoError{Path: path, Op: "list", Err: err}
	}

	entries := make([]Entry, 0, len(dirEntries))
	for _, dirEntry := range dirEntries {
		entryPath := filepath.Join(path, dirEntry.Name())
		entry := Entry{
			Name:      dirEntry.Name(),
			Path:      entryPath,
			IsDir:     dirEntry.IsDir(),
			IsSymlink: dirEntry.Type()&fs.ModeSymlink != 0,
		}
		if entry.IsSymlink {
			// Dangling links are left as non-directories.
			if info, statErr := os.Stat(entryPath); statErr == nil {
				entry.IsDir = info.IsDir()
			}
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// IsRepositoryMarker reports whether path holds a .git directory or a .git file
// (linked worktrees and submodules).
func (OSProvider) IsRepositoryMarker(path string) bool {
	_, err := os.Stat(filepath.Join(path, MarkerName))
	return err == nil
}

// Canonical resolves path to an absolute path without symbolic links.
func (OSProvider) Canonical(path string) (string, error) {
	absolute, err := filepath.Abs(path)
	if err != nil {
		return "", &IoError{Path: path, Op: "resolve", Err: err}
	}
	resolved, err := filepath.EvalSymlinks(absolute)
	if err != nil {
		return "", &IoError{Path: path, Op: "resolve", Err: err}
	}
	return resolved, nil
}
