package filter

import (
	"regexp"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/internal/git"
)

// Matcher evaluates compiled Criteria. It holds no mutable state and is safe
// for concurrent use.
type Matcher struct {
	since   *time.Time
	until   *time.Time
	author  string
	mode    AuthorMatchMode
	message *regexp.Regexp
}

// Matches reports whether commit passes every active check.
func (m *Matcher) Matches(commit git.Commit) bool {
	return m.matchesDate(commit.When) && m.matchesAuthor(commit.Author) && m.matchesMessage(commit.Message)
}

func (m *Matcher) matchesDate(when time.Time) bool {
	if m.since != nil && when.Before(*m.since) {
		return false
	}
	if m.until != nil && when.After(*m.until) {
		return false
	}
	return true
}

func (m *Matcher) matchesAuthor(author git.AuthorInfo) bool {
	if m.author == "" {
		return true
	}
	formatted := author.String()
	if formatted == m.author {
		return true
	}
	if m.mode == AuthorSubstring {
		return strings.Contains(strings.ToLower(formatted), m.author)
	}
	return false
}

func (m *Matcher) matchesMessage(message string) bool {
	if m.message == nil {
		return true
	}
	return m.message.MatchString(message)
}
