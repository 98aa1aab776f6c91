package cmd

import (
	"os"
	"time"

	"github.com/masmgr/gitwalk/internal/aggregation"
	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/output"
	"github.com/masmgr/gitwalk/internal/query"
	"github.com/urfave/cli/v2"
)

func logFlags() []cli.Flag {
	return append(commonFlags(), queryFlags()...)
}

// LogCmd returns the log command, which is also the default action.
func LogCmd() *cli.Command {
	return &cli.Command{
		Name:    "log",
		Aliases: []string{"l"},
		Usage:   "List matching commits across all discovered repositories",
		Flags:   append([]cli.Flag{configFlag()}, logFlags()...),
		Action:  logAction,
	}
}

func logAction(c *cli.Context) error {
	return runLog(c, git.DefaultIdentity, nil)
}

// runLog executes a commit query. A nil backend is resolved from configuration.
func runLog(c *cli.Context, lookup identityLookup, backend git.Backend) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	if backend == nil {
		backend, err = git.NewBackend(cmdCtx.Config.Query.Backend)
		if err != nil {
			return err
		}
	}

	now := time.Now()
	criteria, err := buildCriteria(c, cmdCtx.Config, now, lookup)
	if err != nil {
		return err
	}
	order, err := query.ParseOrder(cmdCtx.Config.Query.Order)
	if err != nil {
		return err
	}

	engine := query.NewEngine(cmdCtx.Locator, backend,
		query.WithLogger(cmdCtx.Logger),
		query.WithWorkers(cmdCtx.Config.Query.Workers),
	)

	result, runErr := engine.Run(c.Context, cmdCtx.Search, criteria, query.RunOptions{Order: order})
	if result == nil {
		return runErr
	}

	report := &output.CommitReport{
		Root:        cmdCtx.Search.Root,
		Since:       criteria.Since,
		Until:       criteria.Until,
		Author:      criteria.Author,
		GeneratedAt: now,
		Result:      result,
	}
	if c.Bool("summary") {
		report.Summary = aggregation.Summarize(result)
	}

	if err := writeCommitReport(cmdCtx.Output, report); err != nil {
		return err
	}

	// All repositories failing still produces a report; the error sets the exit status.
	return runErr
}

func writeCommitReport(opts output.OutputOptions, report *output.CommitReport) error {
	writer := output.NewReportWriter(opts.Format)
	if err := writer.WriteCommits(report, opts); err != nil {
		return err
	}
	if opts.Format == output.FormatCSV {
		output.WriteDiagnostics(os.Stderr, report.Result)
	}
	return nil
}
