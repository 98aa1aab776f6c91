package locator_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/masmgr/gitwalk/internal/filesystem"
	"github.com/masmgr/gitwalk/internal/locator"
	"pgregory.net/rapid"
)

const rapidRoot = "/root"

// --- Generators ---

func genRelPath() *rapid.Generator[string] {
	return rapid.Custom(func(t *rapid.T) string {
		segments := rapid.SliceOfN(rapid.SampledFrom([]string{"a", "b", "c"}), 1, 5).Draw(t, "segments")
		return strings.Join(segments, "/")
	})
}

type genTree struct {
	provider *filesystem.MemoryProvider
	repos    []string
}

func genRepositoryTree(withSymlinks bool) *rapid.Generator[genTree] {
	return rapid.Custom(func(t *rapid.T) genTree {
		provider := filesystem.NewMemoryProvider().AddDir(rapidRoot)
		dirs := rapid.SliceOfN(genRelPath(), 0, 20).Draw(t, "dirs")

		var repos []string
		for i, rel := range dirs {
			full := filepath.Join(rapidRoot, rel)
			if rapid.Bool().Draw(t, "isRepo") {
				provider.AddRepository(full)
				repos = append(repos, full)
				continue
			}
			provider.AddDir(full)

			if withSymlinks && len(dirs) > 0 && rapid.Bool().Draw(t, "addLink") {
				target := filepath.Join(rapidRoot, dirs[rapid.IntRange(0, len(dirs)-1).Draw(t, "target")])
				provider.AddSymlink(filepath.Join(full, "link"+string(rune('0'+i%10))), target)
			}
		}
		return genTree{provider: provider, repos: repos}
	})
}

func depthBelowRoot(path string) int {
	rel := strings.TrimPrefix(path, rapidRoot+"/")
	return len(strings.Split(rel, "/"))
}

func hasRepoAncestor(path string, repos map[string]struct{}) bool {
	for dir := filepath.Dir(path); dir != rapidRoot && dir != "/"; dir = filepath.Dir(dir) {
		if _, ok := repos[dir]; ok {
			return true
		}
	}
	return false
}

// --- Property Tests ---

func TestRapidLocate_DepthBoundAndCompleteness(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genRepositoryTree(false).Draw(t, "tree")
		maxDepth := rapid.IntRange(0, 6).Draw(t, "maxDepth")

		refs, warnings, err := locator.New(tree.provider).Collect(context.Background(), locator.SearchConfig{Root: rapidRoot, MaxDepth: maxDepth})
		if err != nil || len(warnings) > 0 {
			t.Fatalf("unexpected err=%v warnings=%v", err, warnings)
		}

		repoSet := make(map[string]struct{})
		for _, repo := range tree.repos {
			repoSet[repo] = struct{}{}
		}

		emitted := make(map[string]struct{})
		for _, ref := range refs {
			if d := depthBelowRoot(ref.Path); d > maxDepth {
				t.Fatalf("emitted %s at depth %d > max depth %d", ref.Path, d, maxDepth)
			}
			if _, dup := emitted[ref.Path]; dup {
				t.Fatalf("emitted %s twice", ref.Path)
			}
			emitted[ref.Path] = struct{}{}
		}

		for repo := range repoSet {
			want := depthBelowRoot(repo) <= maxDepth && !hasRepoAncestor(repo, repoSet)
			_, got := emitted[repo]
			if want != got {
				t.Fatalf("repository %s: emitted=%v, expected %v (max depth %d)", repo, got, want, maxDepth)
			}
		}
	})
}

func TestRapidLocate_SymlinkCyclesTerminate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		tree := genRepositoryTree(true).Draw(t, "tree")
		maxDepth := rapid.IntRange(0, 30).Draw(t, "maxDepth")

		refs, _, err := locator.New(tree.provider).Collect(context.Background(), locator.SearchConfig{Root: rapidRoot, MaxDepth: maxDepth})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		emitted := make(map[string]struct{})
		for _, ref := range refs {
			if _, dup := emitted[ref.Path]; dup {
				t.Fatalf("emitted %s twice", ref.Path)
			}
			emitted[ref.Path] = struct{}{}
		}
	})
}
