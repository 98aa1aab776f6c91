package filter

import (
	"testing"
	"time"

	"github.com/masmgr/gitwalk/internal/git"
	"pgregory.net/rapid"
)

// --- Generators ---

func genInstant() *rapid.Generator[time.Time] {
	return rapid.Custom(func(t *rapid.T) time.Time {
		seconds := rapid.Int64Range(0, 4_000_000_000).Draw(t, "seconds")
		offsetHours := rapid.IntRange(-12, 14).Draw(t, "offsetHours")
		return time.Unix(seconds, 0).In(time.FixedZone("", offsetHours*60*60))
	})
}

// --- Property Tests ---

func TestRapidMatcher_DateRangeInclusive(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		a := genInstant().Draw(t, "a")
		b := genInstant().Draw(t, "b")
		since, until := a, b
		if since.After(until) {
			since, until = until, since
		}
		when := rapid.SampledFrom([]time.Time{since, until, genInstant().Draw(t, "when")}).Draw(t, "pick")

		m, err := Criteria{Since: &since, Until: &until}.Compile()
		if err != nil {
			t.Fatalf("Compile: %v", err)
		}

		expected := !when.Before(since) && !when.After(until)
		if got := m.Matches(git.Commit{When: when}); got != expected {
			t.Fatalf("Matches(%v) in [%v, %v] = %v, expected %v", when, since, until, got, expected)
		}
	})
}

func TestRapidMatcher_ReversedBoundsRejected(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		until := genInstant().Draw(t, "until")
		since := until.Add(time.Duration(rapid.Int64Range(1, 1_000_000).Draw(t, "gap")) * time.Second)

		if _, err := (Criteria{Since: &since, Until: &until}).Compile(); err == nil {
			t.Fatalf("expected error for since %v > until %v", since, until)
		}
	})
}

func TestRapidMatcher_NoCriteriaMatchesEverything(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		commit := git.Commit{
			When:    genInstant().Draw(t, "when"),
			Author:  git.AuthorInfo{Name: rapid.String().Draw(t, "name"), Email: rapid.String().Draw(t, "email")},
			Message: rapid.String().Draw(t, "message"),
		}
		if !Matches(commit, Criteria{}) {
			t.Fatalf("empty criteria rejected %+v", commit)
		}
	})
}
