package output

import "fmt"

// MarkdownWriter writes reports as Markdown.
type MarkdownWriter struct{}

// WriteCommits outputs the commit report as Markdown.
func (w *MarkdownWriter) WriteCommits(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	commits := result.Commits()

	fmt.Fprintln(out, "# Commit Log")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Root:** %s\n\n", report.Root)
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "**%s:** %s\n\n", label, value)
	if report.Author != "" {
		fmt.Fprintf(out, "**Author:** %s\n\n", escapeMarkdown(report.Author))
	}
	fmt.Fprintf(out, "**Repositories:** %d discovered, %d failed\n\n", result.Discovered(), len(result.Failures))
	fmt.Fprintf(out, "**Matching Commits:** %d\n\n", len(commits))

	fmt.Fprintln(out, "## Commits")
	fmt.Fprintln(out)
	if len(commits) == 0 {
		fmt.Fprintln(out, "No matching commits found.")
		fmt.Fprintln(out)
	} else {
		fmt.Fprintln(out, "| Repository | Commit | Date | Author | Message |")
		fmt.Fprintln(out, "|------------|--------|------|--------|---------|")
		for _, c := range limitTop(commits, options.Top) {
			fmt.Fprintf(out, "| %s | `%s` | %s | %s | %s |\n",
				escapeMarkdown(c.Repository.Name()),
				c.ShortHash(),
				c.When.Format(reportDateTimeLayout),
				escapeMarkdown(c.Author.Name),
				escapeMarkdown(truncateMessage(c.Title(), 80)),
			)
		}
		fmt.Fprintln(out)
	}

	if s := report.Summary; s != nil {
		fmt.Fprintln(out, "## Authors")
		fmt.Fprintln(out)
		fmt.Fprintln(out, "| # | Author | Commits | Repositories | Last |")
		fmt.Fprintln(out, "|---|--------|---------|--------------|------|")
		for i, a := range s.Authors {
			fmt.Fprintf(out, "| %d | %s | %d | %d | %s |\n",
				i+1, escapeMarkdown(a.Author.Name), a.CommitCount, a.RepositoryCount(), a.Last.Format(reportDateLayout))
		}
		fmt.Fprintln(out)
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(out, "## Failed Repositories")
		fmt.Fprintln(out)
		for _, f := range result.Failures {
			fmt.Fprintf(out, "- `%s`: %s\n", f.Repository.Path, escapeMarkdown(f.Err.Error()))
		}
		fmt.Fprintln(out)
	}

	if len(result.Warnings) > 0 {
		fmt.Fprintln(out, "## Warnings")
		fmt.Fprintln(out)
		for _, warn := range result.Warnings {
			fmt.Fprintf(out, "- %s\n", escapeMarkdown(warn.Error()))
		}
		fmt.Fprintln(out)
	}

	return nil
}

// WriteRepositories outputs the discovered repositories as a Markdown list.
func (w *MarkdownWriter) WriteRepositories(report *RepositoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	fmt.Fprintln(out, "# Repositories")
	fmt.Fprintln(out)
	fmt.Fprintf(out, "**Root:** %s (max depth %d)\n\n", report.Root, report.MaxDepth)
	for _, r := range report.Repositories {
		fmt.Fprintf(out, "- **%s** `%s`\n", escapeMarkdown(r.Name()), r.Path)
	}
	if len(report.Warnings) > 0 {
		fmt.Fprintln(out)
		fmt.Fprintln(out, "## Warnings")
		fmt.Fprintln(out)
		for _, warn := range report.Warnings {
			fmt.Fprintf(out, "- %s\n", escapeMarkdown(warn.Error()))
		}
	}
	return nil
}
