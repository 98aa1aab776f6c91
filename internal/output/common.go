package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/internal/query"
)

const (
	reportDateLayout     = "2006-01-02"
	reportDateTimeLayout = "2006-01-02 15:04:05 -0700"
)

func limitTop[T any](items []T, top int) []T {
	if top <= 0 || top >= len(items) {
		return items
	}
	return items[:top]
}

func dateRangeLabelAndValue(since, until *time.Time) (string, string) {
	switch {
	case since != nil && until != nil:
		return "Period", since.Format(reportDateLayout) + " to " + until.Format(reportDateLayout)
	case since != nil:
		return "Since", since.Format(reportDateLayout)
	case until != nil:
		return "Until", until.Format(reportDateLayout)
	default:
		return "Period", "all history"
	}
}

func formatOptionalTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	formatted := t.Format(time.RFC3339)
	return &formatted
}

func openOutputWriter(options OutputOptions) (io.Writer, *os.File, error) {
	if options.Out != nil {
		return options.Out, nil, nil
	}
	if options.OutputPath == "" {
		return os.Stdout, nil, nil
	}
	file, err := os.Create(options.OutputPath)
	if err != nil {
		return nil, nil, err
	}
	return file, file, nil
}

func truncateMessage(msg string, maxLen int) string {
	if len(msg) <= maxLen {
		return msg
	}
	return msg[:maxLen-3] + "..."
}

var markdownEscaper = strings.NewReplacer(
	"|", "\\|",
	"*", "\\*",
	"_", "\\_",
	"`", "\\`",
)

func escapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// WriteDiagnostics writes failures and warnings as plain text. Formats whose
// tabular layout has no room for them (CSV) rely on this to keep problems visible.
func WriteDiagnostics(w io.Writer, result *query.Result) {
	if result == nil {
		return
	}
	for _, f := range result.Failures {
		fmt.Fprintf(w, "failed: %s: %v\n", f.Repository.Path, f.Err)
	}
	for _, warn := range result.Warnings {
		fmt.Fprintf(w, "warning: %v\n", warn)
	}
}
