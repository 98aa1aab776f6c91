package aggregation

import (
	"sort"
	"strings"
	"time"

	"github.com/masmgr/gitwalk/internal/git"
	"github.com/masmgr/gitwalk/internal/query"
)

// AuthorSummary holds activity totals for one contributor across all repositories.
type AuthorSummary struct {
	Author       git.AuthorInfo
	CommitCount  int
	Repositories map[string]struct{}
	First        time.Time
	Last         time.Time
	// Peak is the busiest DefaultPeakWindow across all repositories.
	Peak Peak

	times []time.Time
}

// RepositoryCount returns the number of distinct repositories the author committed to.
func (a *AuthorSummary) RepositoryCount() int {
	return len(a.Repositories)
}

// RepositorySummary holds totals for one successfully queried repository.
type RepositorySummary struct {
	Repository   git.RepositoryRef
	Matched      int
	Scanned      int
	Contributors map[string]struct{}
	First        time.Time
	Last         time.Time
}

// ContributorCount returns number of unique contributors among matching commits.
func (r *RepositorySummary) ContributorCount() int {
	return len(r.Contributors)
}

// Summary aggregates a query result.
type Summary struct {
	Repositories []*RepositorySummary
	Authors      []*AuthorSummary
	TotalCommits int
	Failed       int
	Warnings     int
}

// Summarize computes per-repository and per-author totals. Authors are
// grouped by e-mail, case-insensitively, and ranked by commit count.
func Summarize(result *query.Result) *Summary {
	summary := &Summary{
		Failed:   len(result.Failures),
		Warnings: len(result.Warnings),
	}

	authors := make(map[string]*AuthorSummary)

	for _, repo := range result.Repositories {
		repoSummary := &RepositorySummary{
			Repository:   repo.Repository,
			Matched:      len(repo.Commits),
			Scanned:      repo.Scanned,
			Contributors: make(map[string]struct{}),
		}

		for _, commit := range repo.Commits {
			key := commit.Author.ContributorKey()
			repoSummary.Contributors[key] = struct{}{}
			repoSummary.First, repoSummary.Last = widen(repoSummary.First, repoSummary.Last, commit.When)

			author, ok := authors[key]
			if !ok {
				author = &AuthorSummary{Author: commit.Author, Repositories: make(map[string]struct{})}
				authors[key] = author
			}
			author.CommitCount++
			author.Repositories[repo.Repository.Path] = struct{}{}
			author.First, author.Last = widen(author.First, author.Last, commit.When)
			author.times = append(author.times, commit.When)
		}

		summary.TotalCommits += repoSummary.Matched
		summary.Repositories = append(summary.Repositories, repoSummary)
	}

	summary.Authors = make([]*AuthorSummary, 0, len(authors))
	for _, author := range authors {
		author.Peak = PeakActivity(author.times, DefaultPeakWindow)
		author.times = nil
		summary.Authors = append(summary.Authors, author)
	}
	sort.Slice(summary.Authors, func(i, j int) bool {
		a, b := summary.Authors[i], summary.Authors[j]
		if a.CommitCount != b.CommitCount {
			return a.CommitCount > b.CommitCount
		}
		return strings.ToLower(a.Author.Name) < strings.ToLower(b.Author.Name)
	})

	return summary
}

func widen(first, last, when time.Time) (time.Time, time.Time) {
	if first.IsZero() || when.Before(first) {
		first = when
	}
	if last.IsZero() || when.After(last) {
		last = when
	}
	return first, last
}
