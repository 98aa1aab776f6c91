package output

import (
	"encoding/csv"
	"strconv"
	"time"
)

// CSVWriter writes reports as CSV with a header row. Failures and warnings
// are not part of the table; see WriteDiagnostics.
type CSVWriter struct{}

// WriteCommits outputs one row per matching commit.
func (w *CSVWriter) WriteCommits(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	headers := []string{"Repository", "Hash", "When", "AuthorName", "AuthorEmail", "Title"}
	if err := writer.Write(headers); err != nil {
		return err
	}

	for _, c := range limitTop(report.Result.Commits(), options.Top) {
		row := []string{
			c.Repository.Path,
			c.Hash,
			c.When.Format(time.RFC3339),
			c.Author.Name,
			c.Author.Email,
			c.Title(),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteRepositories outputs one row per discovered repository.
func (w *CSVWriter) WriteRepositories(report *RepositoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}
	writer := csv.NewWriter(out)

	if err := writer.Write([]string{"#", "Name", "Path"}); err != nil {
		return err
	}
	for i, r := range report.Repositories {
		if err := writer.Write([]string{strconv.Itoa(i + 1), r.Name(), r.Path}); err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
