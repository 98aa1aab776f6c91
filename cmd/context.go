package cmd

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/masmgr/gitwalk/config"
	"github.com/masmgr/gitwalk/internal/filesystem"
	"github.com/masmgr/gitwalk/internal/filter"
	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/locator"
	"github.com/masmgr/gitwalk/internal/logging"
	"github.com/masmgr/gitwalk/internal/output"
	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// CommandContext holds common state for command execution.
// It encapsulates the shared setup logic across commands.
type CommandContext struct {
	Config  *config.Config
	Logger  *zap.Logger
	Search  locator.SearchConfig
	Locator *locator.Locator
	Output  output.OutputOptions
}

// NewCommandContext creates a context from CLI flags.
// It loads configuration, builds the logger and resolves the search root.
func NewCommandContext(c *cli.Context) (*CommandContext, error) {
	cfg, err := loadConfig(c)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(os.Stderr, logging.Level(cfg.Log.Level), logging.Format(cfg.Log.Format))
	if err != nil {
		return nil, fmt.Errorf("failed to create logger: %w", err)
	}

	opts, err := outputOptions(c)
	if err != nil {
		return nil, err
	}

	search := locator.SearchConfig{
		Root:     c.String("root"),
		MaxDepth: cfg.Search.MaxDepth,
		Exclude:  cfg.Search.Exclude,
	}
	if err := search.Validate(); err != nil {
		return nil, err
	}

	return &CommandContext{
		Config:  cfg,
		Logger:  logger,
		Search:  search,
		Locator: locator.New(filesystem.NewOSProvider()),
		Output:  opts,
	}, nil
}

// Close flushes buffered log entries.
func (ctx *CommandContext) Close() {
	_ = ctx.Logger.Sync()
}

// identityLookup resolves the default author; replaced in tests.
type identityLookup func(ctx context.Context, dir string) (git.AuthorInfo, error)

// buildCriteria assembles the commit filter from flags and configuration.
// Since defaults to now minus the configured lookback, until to now, and the
// author to the local git identity unless --any-author is given.
func buildCriteria(c *cli.Context, cfg *config.Config, now time.Time, lookup identityLookup) (filter.Criteria, error) {
	since, err := parseDateFlag(c.String("since"), false)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("invalid since date: %w", err)
	}
	until, err := parseDateFlag(c.String("until"), true)
	if err != nil {
		return filter.Criteria{}, fmt.Errorf("invalid until date: %w", err)
	}
	if since == nil && cfg.Query.LookbackHours > 0 {
		t := now.Add(-time.Duration(cfg.Query.LookbackHours) * time.Hour)
		since = &t
	}
	if until == nil {
		until = &now
	}

	mode, err := filter.ParseAuthorMatchMode(cfg.Query.AuthorMatch)
	if err != nil {
		return filter.Criteria{}, err
	}

	author := c.String("author")
	if author == "" && !c.Bool("any-author") {
		identity, err := lookup(c.Context, c.String("root"))
		if err != nil {
			return filter.Criteria{}, fmt.Errorf("no --author given and the git identity could not be read (use --any-author to disable author filtering): %w", err)
		}
		author = identity.String()
	}

	return filter.Criteria{
		Since:       since,
		Until:       until,
		Author:      author,
		AuthorMatch: mode,
		Message:     c.String("grep"),
	}, nil
}

// outputOptions creates OutputOptions from CLI flags.
func outputOptions(c *cli.Context) (output.OutputOptions, error) {
	format, err := output.ParseFormat(c.String("format"))
	if err != nil {
		return output.OutputOptions{}, err
	}
	return output.OutputOptions{
		Format:     format,
		OutputPath: c.String("output"),
		Top:        c.Int("top"),
	}, nil
}
