package aggregation

import (
	"slices"
	"time"
)

// DefaultPeakWindow is the window used for AuthorSummary.Peak.
const DefaultPeakWindow = 24 * time.Hour

// Peak describes the densest stretch of activity.
type Peak struct {
	Commits int
	Start   time.Time
}

// PeakActivity returns the largest number of commits falling within any
// window of the given length, and the time of the first commit in it.
// Input order does not matter; the slice is not modified.
func PeakActivity(times []time.Time, window time.Duration) Peak {
	if len(times) == 0 {
		return Peak{}
	}

	sorted := slices.Clone(times)
	switch {
	case isSortedAscending(sorted):
	case isSortedDescending(sorted):
		// Backends yield newest first; reversing avoids a sort.
		slices.Reverse(sorted)
	default:
		slices.SortFunc(sorted, func(a, b time.Time) int { return a.Compare(b) })
	}

	peak := Peak{Commits: 1, Start: sorted[0]}

	// Two-pointer sliding window
	left := 0
	for right := range sorted {
		for sorted[right].Sub(sorted[left]) > window {
			left++
		}
		if n := right - left + 1; n > peak.Commits {
			peak = Peak{Commits: n, Start: sorted[left]}
		}
	}
	return peak
}

func isSortedAscending(times []time.Time) bool {
	for i := 1; i < len(times); i++ {
		if times[i].Before(times[i-1]) {
			return false
		}
	}
	return true
}

func isSortedDescending(times []time.Time) bool {
	for i := 1; i < len(times); i++ {
		if times[i].After(times[i-1]) {
			return false
		}
	}
	return true
}
