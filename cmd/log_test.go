package cmd

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/output"
	"github.com/masmgr/gitwalk/internal/query"
	"github.com/urfave/cli/v2"
)

// makeRepoDirs creates directories with a .git marker under a fresh root and
// returns the canonical root.
func makeRepoDirs(t *testing.T, names ...string) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("EvalSymlinks: %v", err)
	}
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name, ".git"), 0755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
	}
	return root
}

func readJSONReport(t *testing.T, path string) output.JSONCommitReport {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var report output.JSONCommitReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON report: %v\n%s", err, data)
	}
	return report
}

func TestRunLog_PartialFailure(t *testing.T) {
	root := makeRepoDirs(t, "alpha", "beta", "gamma")
	alice := git.AuthorInfo{Name: "Alice", Email: "alice@example.com"}
	bob := git.AuthorInfo{Name: "Bob", Email: "bob@example.com"}

	backend := git.NewMockBackend(map[string][]git.Commit{
		filepath.Join(root, "alpha"): {
			{Hash: "a3", Author: alice, When: time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), Message: "third"},
			{Hash: "a2", Author: bob, When: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC), Message: "second"},
			{Hash: "a1", Author: alice, When: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), Message: "old"},
		},
		filepath.Join(root, "beta"): {},
	})
	backend.OpenErrors[filepath.Join(root, "gamma")] = errors.New("corrupt")

	outPath := filepath.Join(t.TempDir(), "report.json")
	err := runWithFlags(t, []string{
		"--root", root,
		"--since", "2024-01-01",
		"--until", "2024-12-31",
		"--format", "json",
		"--output", outPath,
		"--log-level", "error",
		"--summary",
	}, func(c *cli.Context) error {
		return runLog(c, fixedIdentity("Alice", "alice@example.com"), backend)
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	report := readJSONReport(t, outPath)
	if report.Discovered != 3 {
		t.Errorf("Discovered = %d, want 3", report.Discovered)
	}
	if report.TotalCommits != 1 || report.Commits[0].Hash != "a3" {
		t.Errorf("Commits = %+v, want only a3", report.Commits)
	}
	if report.Commits[0].Repository != filepath.Join(root, "alpha") {
		t.Errorf("Repository = %q", report.Commits[0].Repository)
	}
	if len(report.Failures) != 1 || report.Failures[0].Repository != filepath.Join(root, "gamma") {
		t.Errorf("Failures = %+v", report.Failures)
	}
	if report.Summary == nil || len(report.Summary.Authors) != 1 {
		t.Errorf("Summary = %+v", report.Summary)
	}
}

func TestRunLog_AllRepositoriesFailed(t *testing.T) {
	root := makeRepoDirs(t, "only")
	backend := git.NewMockBackend(nil)
	backend.OpenErrors[filepath.Join(root, "only")] = errors.New("corrupt")

	outPath := filepath.Join(t.TempDir(), "report.json")
	err := runWithFlags(t, []string{
		"--root", root,
		"--any-author",
		"--format", "json",
		"--output", outPath,
		"--log-level", "error",
	}, func(c *cli.Context) error {
		return runLog(c, fixedIdentity("Alice", "alice@example.com"), backend)
	})
	if !query.IsAllRepositoriesFailed(err) {
		t.Fatalf("expected AllRepositoriesFailedError, got %v", err)
	}
	if exitCode(err) != exitAllRepoFailed {
		t.Errorf("exitCode = %d, want %d", exitCode(err), exitAllRepoFailed)
	}

	// The report is still written so the failure details are visible.
	report := readJSONReport(t, outPath)
	if len(report.Failures) != 1 {
		t.Errorf("Failures = %+v", report.Failures)
	}
}

func TestRunLog_NoRepositories(t *testing.T) {
	root := makeRepoDirs(t)
	outPath := filepath.Join(t.TempDir(), "report.json")

	err := runWithFlags(t, []string{
		"--root", root,
		"--any-author",
		"--format", "json",
		"--output", outPath,
	}, func(c *cli.Context) error {
		return runLog(c, fixedIdentity("Alice", "alice@example.com"), git.NewMockBackend(nil))
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	report := readJSONReport(t, outPath)
	if report.Discovered != 0 || report.TotalCommits != 0 {
		t.Errorf("report = %+v, want empty", report)
	}
}

func TestRunLog_ReversedRange(t *testing.T) {
	root := makeRepoDirs(t, "alpha")
	backend := git.NewMockBackend(nil)

	err := runWithFlags(t, []string{
		"--root", root,
		"--any-author",
		"--since", "2024-02-01",
		"--until", "2024-01-01",
	}, func(c *cli.Context) error {
		return runLog(c, fixedIdentity("Alice", "alice@example.com"), backend)
	})
	if err == nil {
		t.Fatal("expected error for since after until")
	}
	if opened := backend.Opened(); len(opened) != 0 {
		t.Errorf("backend opened %v before criteria validation", opened)
	}
}

func TestReposCommand(t *testing.T) {
	root := makeRepoDirs(t, "alpha", "nested/beta", "deep/a/b/c/gamma")
	outPath := filepath.Join(t.TempDir(), "repos.json")

	app := App()
	err := app.Run([]string{
		"gitwalk", "repos",
		"--config", filepath.Join(t.TempDir(), "none.json"),
		"--root", root,
		"--depth", "2",
		"--format", "json",
		"--output", outPath,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	var report output.JSONRepositoryReport
	if err := json.Unmarshal(data, &report); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(report.Repositories) != 2 {
		t.Fatalf("Repositories = %v, want alpha and nested/beta", report.Repositories)
	}
	found := map[string]bool{}
	for _, p := range report.Repositories {
		found[p] = true
	}
	if !found[filepath.Join(root, "alpha")] || !found[filepath.Join(root, "nested", "beta")] {
		t.Errorf("Repositories = %v", report.Repositories)
	}
}

func TestInitConfigCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gitwalk.yaml")
	app := App()
	app.Writer = io.Discard

	if err := app.Run([]string{"gitwalk", "init-config", "--path", path}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("config file not written: %v", err)
	}
	if err := app.Run([]string{"gitwalk", "init-config", "--path", path}); err == nil {
		t.Fatal("expected error when file exists")
	}
	if err := app.Run([]string{"gitwalk", "init-config", "--path", path, "--force"}); err != nil {
		t.Fatalf("unexpected error with --force: %v", err)
	}
}
