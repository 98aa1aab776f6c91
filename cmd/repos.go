package cmd

import (
	"github.com/masmgr/gitwalk/internal/output"
	"github.com/urfave/cli/v2"
)

// ReposCmd returns the repos command.
func ReposCmd() *cli.Command {
	return &cli.Command{
		Name:    "repos",
		Aliases: []string{"r"},
		Usage:   "List the Git repositories found under the root",
		Flags:   append([]cli.Flag{configFlag()}, commonFlags()...),
		Action:  reposAction,
	}
}

func reposAction(c *cli.Context) error {
	cmdCtx, err := NewCommandContext(c)
	if err != nil {
		return err
	}
	defer cmdCtx.Close()

	repos, warnings, err := cmdCtx.Locator.Collect(c.Context, cmdCtx.Search)
	if err != nil {
		return err
	}
	for _, warning := range warnings {
		cmdCtx.Logger.Sugar().Warnw("skipping directory", "error", warning)
	}

	report := &output.RepositoryReport{
		Root:         cmdCtx.Search.Root,
		MaxDepth:     cmdCtx.Search.MaxDepth,
		Repositories: repos,
		Warnings:     warnings,
	}
	writer := output.NewReportWriter(cmdCtx.Output.Format)
	return writer.WriteRepositories(report, cmdCtx.Output)
}
