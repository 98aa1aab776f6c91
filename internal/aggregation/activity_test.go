package aggregation

import (
	"fmt"
	"testing"
	"time"

	"pgregory.net/rapid"
)

func TestPeakActivity(t *testing.T) {
	base := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	at := func(hours int) time.Time { return base.Add(time.Duration(hours) * time.Hour) }

	tests := []struct {
		name          string
		times         []time.Time
		expectedCount int
		expectedStart time.Time
	}{
		{name: "Empty", times: nil},
		{name: "Single", times: []time.Time{at(0)}, expectedCount: 1, expectedStart: at(0)},
		{name: "All in window", times: []time.Time{at(0), at(5), at(24)}, expectedCount: 3, expectedStart: at(0)},
		{name: "Newest first", times: []time.Time{at(60), at(50), at(49), at(0)}, expectedCount: 3, expectedStart: at(49)},
		{name: "Unsorted", times: []time.Time{at(49), at(0), at(60), at(50)}, expectedCount: 3, expectedStart: at(49)},
		{name: "Spread out", times: []time.Time{at(0), at(48), at(96)}, expectedCount: 1, expectedStart: at(0)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			peak := PeakActivity(tt.times, DefaultPeakWindow)
			if peak.Commits != tt.expectedCount {
				t.Errorf("Commits = %d, expected %d", peak.Commits, tt.expectedCount)
			}
			if !peak.Start.Equal(tt.expectedStart) {
				t.Errorf("Start = %v, expected %v", peak.Start, tt.expectedStart)
			}
		})
	}
}

func TestPeakActivity_DoesNotMutateInput(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base.Add(time.Hour), base, base.Add(2 * time.Hour)}
	original := append([]time.Time(nil), times...)

	PeakActivity(times, time.Hour)

	for i := range times {
		if !times[i].Equal(original[i]) {
			t.Fatalf("input modified at %d: %v != %v", i, times[i], original[i])
		}
	}
}

func genCommitTimes() *rapid.Generator[[]time.Time] {
	return rapid.Custom(func(t *rapid.T) []time.Time {
		count := rapid.IntRange(0, 100).Draw(t, "count")
		base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
		times := make([]time.Time, count)
		for i := 0; i < count; i++ {
			dayOffset := rapid.IntRange(0, 60).Draw(t, fmt.Sprintf("day%d", i))
			hourOffset := rapid.IntRange(0, 23).Draw(t, fmt.Sprintf("hour%d", i))
			times[i] = base.Add(time.Duration(dayOffset)*24*time.Hour + time.Duration(hourOffset)*time.Hour)
		}
		return times
	})
}

func TestRapidPeakActivity_Bounds(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		times := genCommitTimes().Draw(t, "times")
		windowHours := rapid.IntRange(1, 24*30).Draw(t, "windowHours")

		peak := PeakActivity(times, time.Duration(windowHours)*time.Hour)

		if len(times) == 0 {
			if peak.Commits != 0 {
				t.Fatalf("empty input gave %d", peak.Commits)
			}
			return
		}
		if peak.Commits < 1 || peak.Commits > len(times) {
			t.Fatalf("Commits = %d, expected in [1, %d]", peak.Commits, len(times))
		}
	})
}

func TestRapidPeakActivity_MatchesBruteForce(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		times := genCommitTimes().Draw(t, "times")
		window := time.Duration(rapid.IntRange(1, 24*7).Draw(t, "windowHours")) * time.Hour

		best := 0
		for _, start := range times {
			n := 0
			for _, other := range times {
				if !other.Before(start) && other.Sub(start) <= window {
					n++
				}
			}
			if n > best {
				best = n
			}
		}

		if got := PeakActivity(times, window).Commits; got != best {
			t.Fatalf("PeakActivity = %d, brute force = %d", got, best)
		}
	})
}

func TestRapidPeakActivity_WiderWindowNeverSmaller(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		times := genCommitTimes().Draw(t, "times")
		small := rapid.IntRange(1, 48).Draw(t, "small")
		large := rapid.IntRange(small, 24*30).Draw(t, "large")

		a := PeakActivity(times, time.Duration(small)*time.Hour).Commits
		b := PeakActivity(times, time.Duration(large)*time.Hour).Commits
		if b < a {
			t.Fatalf("window %dh gave %d, wider %dh gave %d", small, a, large, b)
		}
	})
}
