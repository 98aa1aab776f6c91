package output

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/masmgr/gitwalk/internal/aggregation"
	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/query"
)

// JSONWriter writes reports as indented JSON documents.
type JSONWriter struct{}

// JSONCommitReport is the JSON output structure for a commit query.
type JSONCommitReport struct {
	Root         string        `json:"root"`
	Since        *string       `json:"since,omitempty"`
	Until        *string       `json:"until,omitempty"`
	Author       string        `json:"author,omitempty"`
	GeneratedAt  string        `json:"generatedAt"`
	Order        string        `json:"order"`
	Discovered   int           `json:"discovered"`
	TotalCommits int           `json:"totalCommits"`
	Commits      []JSONCommit  `json:"commits"`
	Failures     []JSONFailure `json:"failures"`
	Warnings     []string      `json:"warnings"`
	Summary      *JSONSummary  `json:"summary,omitempty"`
}

// JSONCommit is the JSON output structure for a single commit.
type JSONCommit struct {
	Repository string `json:"repository"`
	Hash       string `json:"hash"`
	When       string `json:"when"`
	Author     string `json:"author"`
	Email      string `json:"email"`
	Message    string `json:"message"`
}

// JSONFailure describes a repository that could not be queried.
type JSONFailure struct {
	Repository string `json:"repository"`
	Error      string `json:"error"`
}

// JSONSummary holds aggregate statistics.
type JSONSummary struct {
	Repositories []JSONRepositorySummary `json:"repositories"`
	Authors      []JSONAuthorSummary     `json:"authors"`
}

// JSONRepositorySummary holds per-repository statistics.
type JSONRepositorySummary struct {
	Repository   string `json:"repository"`
	Matched      int    `json:"matched"`
	Scanned      int    `json:"scanned"`
	Contributors int    `json:"contributors"`
}

// JSONAuthorSummary holds per-author statistics.
type JSONAuthorSummary struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Commits      int    `json:"commits"`
	Repositories int    `json:"repositories"`
	Peak24h      int    `json:"peak24h"`
	First        string `json:"first"`
	Last         string `json:"last"`
}

// JSONRepositoryReport is the JSON output structure for repository discovery.
type JSONRepositoryReport struct {
	Root         string   `json:"root"`
	MaxDepth     int      `json:"maxDepth"`
	Repositories []string `json:"repositories"`
	Warnings     []string `json:"warnings"`
}

// WriteCommits outputs the commit report as JSON.
func (w *JSONWriter) WriteCommits(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	commits := report.Result.Commits()
	doc := JSONCommitReport{
		Root:         report.Root,
		Since:        formatOptionalTime(report.Since),
		Until:        formatOptionalTime(report.Until),
		Author:       report.Author,
		GeneratedAt:  report.GeneratedAt.Format(time.RFC3339),
		Order:        string(report.Result.Order),
		Discovered:   report.Result.Discovered(),
		TotalCommits: len(commits),
		Commits:      toJSONCommits(limitTop(commits, options.Top)),
		Failures:     toJSONFailures(report.Result.Failures),
		Warnings:     errorStrings(report.Result.Warnings),
	}
	if report.Summary != nil {
		doc.Summary = toJSONSummary(report.Summary)
	}

	return writeJSON(out, doc)
}

// WriteRepositories outputs the discovered repositories as JSON.
func (w *JSONWriter) WriteRepositories(report *RepositoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	paths := make([]string, len(report.Repositories))
	for i, r := range report.Repositories {
		paths[i] = r.Path
	}

	return writeJSON(out, JSONRepositoryReport{
		Root:         report.Root,
		MaxDepth:     report.MaxDepth,
		Repositories: paths,
		Warnings:     errorStrings(report.Warnings),
	})
}

func toJSONCommits(commits []git.Commit) []JSONCommit {
	items := make([]JSONCommit, len(commits))
	for i, c := range commits {
		items[i] = JSONCommit{
			Repository: c.Repository.Path,
			Hash:       c.Hash,
			When:       c.When.Format(time.RFC3339),
			Author:     c.Author.Name,
			Email:      c.Author.Email,
			Message:    c.Message,
		}
	}
	return items
}

func toJSONFailures(failures []query.Failure) []JSONFailure {
	items := make([]JSONFailure, len(failures))
	for i, f := range failures {
		items[i] = JSONFailure{Repository: f.Repository.Path, Error: f.Err.Error()}
	}
	return items
}

func toJSONSummary(s *aggregation.Summary) *JSONSummary {
	js := &JSONSummary{
		Repositories: make([]JSONRepositorySummary, len(s.Repositories)),
		Authors:      make([]JSONAuthorSummary, len(s.Authors)),
	}
	for i, r := range s.Repositories {
		js.Repositories[i] = JSONRepositorySummary{
			Repository:   r.Repository.Path,
			Matched:      r.Matched,
			Scanned:      r.Scanned,
			Contributors: r.ContributorCount(),
		}
	}
	for i, a := range s.Authors {
		js.Authors[i] = JSONAuthorSummary{
			Name:         a.Author.Name,
			Email:        a.Author.Email,
			Commits:      a.CommitCount,
			Repositories: a.RepositoryCount(),
			Peak24h:      a.Peak.Commits,
			First:        a.First.Format(time.RFC3339),
			Last:         a.Last.Format(time.RFC3339),
		}
	}
	return js
}

func errorStrings(errs []error) []string {
	out := make([]string, len(errs))
	for i, err := range errs {
		out[i] = err.Error()
	}
	return out
}

func writeJSON(out io.Writer, data interface{}) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
