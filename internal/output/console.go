package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/masmgr/gitwalk/internal/query"
)

// ConsoleWriter writes reports to the console as aligned tables.
type ConsoleWriter struct{}

// WriteCommits outputs the commit report to the console.
func (w *ConsoleWriter) WriteCommits(report *CommitReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	result := report.Result
	commits := result.Commits()
	shown := limitTop(commits, options.Top)

	color.New(color.FgGreen).Fprintln(out, "Commit Log")
	fmt.Fprintf(out, "Root: %s\n", report.Root)
	label, value := dateRangeLabelAndValue(report.Since, report.Until)
	fmt.Fprintf(out, "%s: %s\n", label, value)
	if report.Author != "" {
		fmt.Fprintf(out, "Author: %s\n", report.Author)
	}
	fmt.Fprintf(out, "Repositories: %d discovered, %d failed\n", result.Discovered(), len(result.Failures))
	fmt.Fprintf(out, "Matching commits: %d\n\n", len(commits))

	if len(commits) == 0 {
		fmt.Fprintln(out, "No matching commits found.")
	} else {
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Repository\tCommit\tDate\tAuthor\tMessage")
		for _, c := range shown {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
				c.Repository.Name(),
				color.YellowString(c.ShortHash()),
				c.When.Format(reportDateTimeLayout),
				c.Author.Name,
				truncateMessage(c.Title(), 60),
			)
		}
		tw.Flush()
		if len(shown) < len(commits) {
			fmt.Fprintf(out, "... %d more\n", len(commits)-len(shown))
		}
	}

	if s := report.Summary; s != nil {
		fmt.Fprintln(out)
		color.New(color.FgGreen).Fprintln(out, "Repositories")
		tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "Repository\tMatched\tScanned\tContributors\tPath")
		for _, r := range s.Repositories {
			fmt.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\n",
				r.Repository.Name(), r.Matched, r.Scanned, r.ContributorCount(), r.Repository.Path)
		}
		tw.Flush()

		fmt.Fprintln(out)
		color.New(color.FgGreen).Fprintln(out, "Authors")
		tw = tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
		fmt.Fprintln(tw, "#\tAuthor\tCommits\tRepositories\tPeak 24h\tLast")
		for i, a := range s.Authors {
			fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%d\t%s\n",
				i+1, a.Author.String(), a.CommitCount, a.RepositoryCount(), a.Peak.Commits, a.Last.Format(reportDateLayout))
		}
		tw.Flush()
	}

	writeConsoleDiagnostics(out, report.Result.Failures, report.Result.Warnings)
	return nil
}

// WriteRepositories outputs the discovered repositories to the console.
func (w *ConsoleWriter) WriteRepositories(report *RepositoryReport, options OutputOptions) error {
	out, file, err := openOutputWriter(options)
	if err != nil {
		return err
	}
	if file != nil {
		defer file.Close()
	}

	color.New(color.FgGreen).Fprintln(out, "Repositories")
	fmt.Fprintf(out, "Root: %s (max depth %d)\n", report.Root, report.MaxDepth)
	fmt.Fprintf(out, "Found: %d\n\n", len(report.Repositories))

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	for i, r := range report.Repositories {
		fmt.Fprintf(tw, "%d\t%s\t%s\n", i+1, r.Name(), r.Path)
	}
	tw.Flush()

	for _, warn := range report.Warnings {
		color.New(color.FgYellow).Fprintf(out, "warning: %v\n", warn)
	}
	return nil
}

func writeConsoleDiagnostics(out io.Writer, failures []query.Failure, warnings []error) {
	if len(failures) > 0 {
		fmt.Fprintln(out)
		color.New(color.FgRed).Fprintf(out, "Failed repositories (%d)\n", len(failures))
		for _, f := range failures {
			fmt.Fprintf(out, "  %s: %v\n", f.Repository.Path, f.Err)
		}
	}
	if len(warnings) > 0 {
		fmt.Fprintln(out)
		color.New(color.FgYellow).Fprintf(out, "Warnings (%d)\n", len(warnings))
		for _, warn := range warnings {
			fmt.Fprintf(out, "  %v\n", warn)
		}
	}
}
