package output

import (
	"encoding/json"
	"fmt"
	"time"
)

// NDJSONWriter writes reports as newline-delimited JSON for CI pipelines.
// Every line carries a "type" discriminator; the summary line comes last.
type NDJSONWriter struct{}

type ndjsonCommit struct {
	Type       string `json:"type"`
	Repository string `json:"repository"`
	Hash       string `json:"hash"`
	When       string `json:"when"`
	Author     string `json:"author"`
	Email      string `json:"email"`
	Title      string `json:"title"`
}

type ndjsonFailure struct {
	Type       string `json:"type"`
	Repository string `json:"repository"`
	Error      string `json:"error"`
}

type ndjsonWarning struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type ndjsonRepository struct {
	Type string `json:"type"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// NDJSONSummary is the final line of NDJSON output.
type NDJSONSummary struct {
	Type         string `json:"type"`
	Discovered   int    `json:"discovered"`
	Failed       int    `json:"failed"`
	Warnings     int    `json:"warnings"`
	TotalCommits int    `json:"totalCommits,omitempty"`
}

// WriteCommits outputs commits, failures and warnings as NDJSON.
func (w *NDJSONWriter) WriteCommits(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	encoder := json.NewEncoder(out)

	result := report.Result
	commits := result.Commits()
	for _, c := range limitTop(commits, options.Top) {
		if err := encoder.Encode(ndjsonCommit{
			Type:       "commit",
			Repository: c.Repository.Path,
			Hash:       c.Hash,
			When:       c.When.Format(time.RFC3339),
			Author:     c.Author.Name,
			Email:      c.Author.Email,
			Title:      c.Title(),
		}); err != nil {
			return fmt.Errorf("failed to encode commit: %w", err)
		}
	}
	for _, f := range result.Failures {
		if err := encoder.Encode(ndjsonFailure{Type: "failure", Repository: f.Repository.Path, Error: f.Err.Error()}); err != nil {
			return fmt.Errorf("failed to encode failure: %w", err)
		}
	}
	if err := encodeWarnings(encoder, result.Warnings); err != nil {
		return err
	}

	summary := NDJSONSummary{
		Type:         "summary",
		Discovered:   result.Discovered(),
		Failed:       len(result.Failures),
		Warnings:     len(result.Warnings),
		TotalCommits: len(commits),
	}
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

// WriteRepositories outputs one line per repository followed by a summary.
func (w *NDJSONWriter) WriteRepositories(report *RepositoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	encoder := json.NewEncoder(out)

	for _, r := range report.Repositories {
		if err := encoder.Encode(ndjsonRepository{Type: "repository", Name: r.Name(), Path: r.Path}); err != nil {
			return fmt.Errorf("failed to encode repository: %w", err)
		}
	}
	if err := encodeWarnings(encoder, report.Warnings); err != nil {
		return err
	}
	summary := NDJSONSummary{
		Type:       "summary",
		Discovered: len(report.Repositories),
		Warnings:   len(report.Warnings),
	}
	if err := encoder.Encode(summary); err != nil {
		return fmt.Errorf("failed to encode summary: %w", err)
	}
	return nil
}

func encodeWarnings(encoder *json.Encoder, warnings []error) error {
	for _, warn := range warnings {
		if err := encoder.Encode(ndjsonWarning{Type: "warning", Message: warn.Error()}); err != nil {
			return fmt.Errorf("failed to encode warning: %w", err)
		}
	}
	return nil
}
