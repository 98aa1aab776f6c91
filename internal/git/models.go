package git

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// RepositoryRef identifies a discovered repository by its canonical absolute path.
// It is a lookup key only; it does not own any open repository resources.
type RepositoryRef struct {
	Path string
}

// Name returns the directory name of the repository.
func (r RepositoryRef) Name() string {
	return filepath.Base(r.Path)
}

func (r RepositoryRef) String() string {
	return r.Path
}

// AuthorInfo represents commit author information.
type AuthorInfo struct {
	Name  string
	Email string
}

// String formats the author as "Name <email>".
func (a AuthorInfo) String() string {
	return fmt.Sprintf("%s <%s>", a.Name, a.Email)
}

// ContributorKey returns a normalized identifier for grouping contributors.
func (a AuthorInfo) ContributorKey() string {
	return strings.ToLower(a.Email)
}

// Commit is an immutable record of a single commit in one repository.
type Commit struct {
	Hash       string
	Author     AuthorInfo
	When       time.Time // committer time, original offset preserved
	Message    string
	Repository RepositoryRef
}

// Title returns the first line of the commit message.
func (c Commit) Title() string {
	message := strings.TrimLeft(c.Message, "\n")
	if idx := strings.IndexByte(message, '\n'); idx != -1 {
		message = message[:idx]
	}
	return strings.TrimSpace(message)
}

// ShortHash returns the abbreviated commit hash.
func (c Commit) ShortHash() string {
	if len(c.Hash) <= shortHashLength {
		return c.Hash
	}
	return c.Hash[:shortHashLength]
}

const shortHashLength = 7
