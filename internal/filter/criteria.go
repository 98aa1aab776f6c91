// Package filter decides which commits a query keeps.
package filter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/internal/git"
)

// AuthorMatchMode selects how the author criterion is compared.
type AuthorMatchMode string

const (
	// AuthorExact requires the commit's "Name <email>" to equal the criterion.
	AuthorExact AuthorMatchMode = "exact"
	// AuthorSubstring accepts commits whose "Name <email>" contains the
	// criterion, ignoring case, so a fragment of the name or of the e-mail
	// address matches. It must be requested explicitly.
	AuthorSubstring AuthorMatchMode = "substring"
)

// ParseAuthorMatchMode parses a mode name. The empty string selects AuthorExact.
func ParseAuthorMatchMode(s string) (AuthorMatchMode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(AuthorExact):
		return AuthorExact, nil
	case string(AuthorSubstring), "contains":
		return AuthorSubstring, nil
	default:
		return "", fmt.Errorf("invalid author match mode: %s (expected exact or substring)", s)
	}
}

// Criteria holds the optional constraints a commit must satisfy.
// A zero-valued field imposes no constraint.
type Criteria struct {
	Since       *time.Time // inclusive
	Until       *time.Time // inclusive
	Author      string
	AuthorMatch AuthorMatchMode
	// Message is a regular expression matched case-insensitively against the full commit message.
	Message string
}

// InvalidCriteriaError reports criteria that no commit could ever satisfy or
// that cannot be evaluated.
type InvalidCriteriaError struct {
	Reason string
	Err    error
}

func (e *InvalidCriteriaError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("invalid filter criteria: %s: %v", e.Reason, e.Err)
	}
	return "invalid filter criteria: " + e.Reason
}

func (e *InvalidCriteriaError) Unwrap() error {
	return e.Err
}

// Validate checks that the date bounds are ordered and the message pattern compiles.
func (c Criteria) Validate() error {
	_, err := c.Compile()
	return err
}

// Compile validates the criteria and prepares a reusable Matcher.
func (c Criteria) Compile() (*Matcher, error) {
	if c.Since != nil && c.Until != nil && c.Since.After(*c.Until) {
		return nil, &InvalidCriteriaError{
			Reason: fmt.Sprintf("since %s is after until %s", c.Since.Format(time.RFC3339), c.Until.Format(time.RFC3339)),
		}
	}

	mode := c.AuthorMatch
	if mode == "" {
		mode = AuthorExact
	}
	if mode != AuthorExact && mode != AuthorSubstring {
		return nil, &InvalidCriteriaError{Reason: fmt.Sprintf("unknown author match mode %q", mode)}
	}

	m := &Matcher{
		since:  c.Since,
		until:  c.Until,
		author: strings.TrimSpace(c.Author),
		mode:   mode,
	}
	if mode == AuthorSubstring {
		m.author = strings.ToLower(m.author)
	}

	if pattern := strings.TrimSpace(c.Message); pattern != "" {
		if !strings.HasPrefix(pattern, "(?i)") {
			pattern = "(?i)" + pattern
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, &InvalidCriteriaError{Reason: "message pattern", Err: err}
		}
		m.message = re
	}
	return m, nil
}

// Matches reports whether commit satisfies criteria. Invalid criteria match nothing.
func Matches(commit git.Commit, criteria Criteria) bool {
	m, err := criteria.Compile()
	if err != nil {
		return false
	}
	return m.Matches(commit)
}
