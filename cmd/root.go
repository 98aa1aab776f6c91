package cmd

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/config"
	"github.com/masmgr/gitwalk/internal/query"
	"github.com/urfave/cli/v2"
)

// Exit codes returned by Run.
const (
	exitError         = 1
	exitAllRepoFailed = 2
)

// App creates the CLI application.
func App() *cli.App {
	return &cli.App{
		Name:    "gitwalk",
		Usage:   "Find Git repositories under a directory and report their commits",
		Version: "1.0.0",
		Commands: []*cli.Command{
			LogCmd(),
			ReposCmd(),
			InitConfigCmd(),
		},
		// Without a subcommand the app behaves like "gitwalk log".
		Flags:  append([]cli.Flag{configFlag()}, logFlags()...),
		Action: logAction,
	}
}

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

// Common flags shared across commands
func commonFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "root",
			Aliases: []string{"r"},
			Usage:   "Directory to search for repositories",
			Value:   ".",
		},
		&cli.IntFlag{
			Name:    "depth",
			Aliases: []string{"d"},
			Usage:   "Maximum directory depth to search (0 checks only the root; default: 5)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude",
			Usage: "Glob patterns, relative to the root, of directories to skip (can be specified multiple times)",
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format (console, json, csv, markdown, ndjson)",
			Value:   "console",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Usage: "Diagnostic log level (debug, info, warn, error)",
		},
		&cli.StringFlag{
			Name:  "log-format",
			Usage: "Diagnostic log format (console, json)",
		},
	}
}

// Flags that only apply to commit queries
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "since",
			Aliases: []string{"s"},
			Usage:   "Include commits at or after this time (YYYY-MM-DD, \"YYYY-MM-DD HH:MM:SS\" or RFC 3339; a bare date starts at 00:00; default: 24 hours ago)",
		},
		&cli.StringFlag{
			Name:    "until",
			Aliases: []string{"u"},
			Usage:   "Include commits at or before this time (a bare date includes the whole day; default: now)",
		},
		&cli.StringFlag{
			Name:    "author",
			Aliases: []string{"a"},
			Usage:   "Author to match (default: \"user.name <user.email>\" from git config)",
		},
		&cli.BoolFlag{
			Name:  "any-author",
			Usage: "Do not filter by author",
		},
		&cli.StringFlag{
			Name:  "author-match",
			Usage: "Author matching mode (exact, substring)",
		},
		&cli.StringFlag{
			Name:    "grep",
			Aliases: []string{"g"},
			Usage:   "Case-insensitive regular expression the commit message must match",
		},
		&cli.StringFlag{
			Name:  "order",
			Usage: "Commit order (discovery, newest)",
		},
		&cli.IntFlag{
			Name:    "workers",
			Aliases: []string{"w"},
			Usage:   "Number of repositories queried concurrently (default: number of CPUs)",
		},
		&cli.StringFlag{
			Name:  "backend",
			Usage: "History reader (go-git, cli)",
		},
		&cli.IntFlag{
			Name:    "top",
			Aliases: []string{"n"},
			Usage:   "Number of commits to show (0 shows all)",
		},
		&cli.BoolFlag{
			Name:  "summary",
			Usage: "Include per-repository and per-author totals",
		},
	}
}

var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDateFlag parses a date string flag in local time. A bare date is the
// start of the day, or the last instant of it when endOfDay is set.
func parseDateFlag(s string, endOfDay bool) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, s, time.Local)
		if err != nil {
			continue
		}
		if layout == "2006-01-02" && endOfDay {
			t = t.AddDate(0, 0, 1).Add(-time.Nanosecond)
		}
		return &t, nil
	}
	return nil, fmt.Errorf("invalid date format: %s (expected YYYY-MM-DD, \"YYYY-MM-DD HH:MM:SS\" or RFC 3339)", s)
}

// loadConfig loads configuration from file or defaults and applies CLI overrides.
func loadConfig(c *cli.Context) (*config.Config, error) {
	configPath := c.String("config")
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if c.IsSet("depth") {
		cfg.Search.MaxDepth = c.Int("depth")
	}
	if excludes := c.StringSlice("exclude"); len(excludes) > 0 {
		cfg.Search.Exclude = excludes
	}
	if level := c.String("log-level"); level != "" {
		cfg.Log.Level = level
	}
	if format := c.String("log-format"); format != "" {
		cfg.Log.Format = format
	}
	if mode := c.String("author-match"); mode != "" {
		cfg.Query.AuthorMatch = mode
	}
	if order := c.String("order"); order != "" {
		cfg.Query.Order = order
	}
	if backend := c.String("backend"); backend != "" {
		cfg.Query.Backend = backend
	}
	if c.IsSet("workers") {
		cfg.Query.Workers = c.Int("workers")
	}

	return cfg, nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if query.IsAllRepositoriesFailed(err) {
		return exitAllRepoFailed
	}
	return exitError
}

// Run executes the CLI application.
func Run() {
	if err := App().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
