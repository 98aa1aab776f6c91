package output

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/internal/aggregation"
	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/query"
)

// Compile-time interface conformance checks.
var (
	_ ReportWriter = (*ConsoleWriter)(nil)
	_ ReportWriter = (*JSONWriter)(nil)
	_ ReportWriter = (*CSVWriter)(nil)
	_ ReportWriter = (*MarkdownWriter)(nil)
	_ ReportWriter = (*NDJSONWriter)(nil)
)

// OutputFormat represents the output format type.
type OutputFormat string

const (
	FormatConsole  OutputFormat = "console"
	FormatJSON     OutputFormat = "json"
	FormatCSV      OutputFormat = "csv"
	FormatMarkdown OutputFormat = "markdown"
	FormatNDJSON   OutputFormat = "ndjson"
)

// ParseFormat parses a format name. The empty string selects FormatConsole.
func ParseFormat(s string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(FormatConsole):
		return FormatConsole, nil
	case string(FormatJSON):
		return FormatJSON, nil
	case string(FormatCSV):
		return FormatCSV, nil
	case string(FormatMarkdown), "md":
		return FormatMarkdown, nil
	case string(FormatNDJSON), "jsonl":
		return FormatNDJSON, nil
	default:
		return "", fmt.Errorf("invalid format: %s (expected console, json, csv, markdown or ndjson)", s)
	}
}

// OutputOptions controls output behavior.
type OutputOptions struct {
	Format     OutputFormat
	OutputPath string
	// Top limits the number of commits written; 0 writes all.
	Top int
	// Out overrides the destination. When nil, OutputPath or stdout is used.
	Out io.Writer
}

// CommitReport holds the outcome of a commit query across repositories.
type CommitReport struct {
	Root        string
	Since       *time.Time
	Until       *time.Time
	Author      string
	GeneratedAt time.Time
	Result      *query.Result
	// Summary is optional.
	Summary *aggregation.Summary
}

// RepositoryReport holds the outcome of repository discovery.
type RepositoryReport struct {
	Root         string
	MaxDepth     int
	Repositories []git.RepositoryRef
	Warnings     []error
}

// ReportWriter writes commit and repository reports in one format.
type ReportWriter interface {
	WriteCommits(report *CommitReport, options OutputOptions) error
	WriteRepositories(report *RepositoryReport, options OutputOptions) error
}

// NewReportWriter creates a report writer for the specified format.
func NewReportWriter(format OutputFormat) ReportWriter {
	switch format {
	case FormatJSON:
		return &JSONWriter{}
	case FormatCSV:
		return &CSVWriter{}
	case FormatMarkdown:
		return &MarkdownWriter{}
	case FormatNDJSON:
		return &NDJSONWriter{}
	default:
		return &ConsoleWriter{}
	}
}
