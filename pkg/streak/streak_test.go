package streak

import (
	"testing"
	"time"

	"github.com/streakstats/streakcard/pkg/calendar"
	"github.com/streakstats/streakcard/pkg/errors"
)

func day(s string, count int) Day {
	d, err := calendar.Parse(s)
	if err != nil {
		panic(err)
	}
	return Day{Date: d, Count: count}
}

func date(s string) calendar.Date {
	d, err := calendar.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestCompute_EmptyDataset(t *testing.T) {
	_, err := Compute(nil, date("2024-06-01"))
	if !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Fatalf("Compute(nil) error = %v, want EMPTY_DATASET", err)
	}
}

func TestCompute_Totals(t *testing.T) {
	days := []Day{
		day("2024-05-01", 3),
		day("2024-05-02", 0),
		day("2024-05-03", 7),
	}
	stats, err := Compute(days, date("2024-05-03"))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if stats.TotalContributions != 10 {
		t.Errorf("TotalContributions = %d, want 10", stats.TotalContributions)
	}
}

func TestCompute_SortInvariance(t *testing.T) {
	ordered := []Day{
		day("2024-05-01", 1),
		day("2024-05-02", 2),
		day("2024-05-03", 3),
		day("2024-05-05", 4),
	}
	shuffled := []Day{ordered[2], ordered[0], ordered[3], ordered[1]}

	today := date("2024-05-05")
	a, err := Compute(ordered, today)
	if err != nil {
		t.Fatalf("Compute(ordered) error: %v", err)
	}
	b, err := Compute(shuffled, today)
	if err != nil {
		t.Fatalf("Compute(shuffled) error: %v", err)
	}
	if a != b {
		t.Errorf("stats differ by input order:\n ordered: %+v\nshuffled: %+v", a, b)
	}
}

func TestCompute_FirstContribution(t *testing.T) {
	t.Run("first active day", func(t *testing.T) {
		days := []Day{
			day("2024-05-01", 0),
			day("2024-05-02", 0),
			day("2024-05-03", 2),
			day("2024-05-04", 1),
		}
		stats, _ := Compute(days, date("2024-05-04"))
		if stats.FirstContribution != date("2024-05-03") {
			t.Errorf("FirstContribution = %v, want 2024-05-03", stats.FirstContribution)
		}
	})

	t.Run("all-zero dataset falls back to first record", func(t *testing.T) {
		days := []Day{
			day("2024-05-01", 0),
			day("2024-05-02", 0),
		}
		stats, _ := Compute(days, date("2024-05-02"))
		if stats.FirstContribution != date("2024-05-01") {
			t.Errorf("FirstContribution = %v, want 2024-05-01", stats.FirstContribution)
		}
		if stats.LongestStreak.Length != 0 {
			t.Errorf("LongestStreak.Length = %d, want 0", stats.LongestStreak.Length)
		}
		if stats.CurrentStreak.Length != 0 {
			t.Errorf("CurrentStreak.Length = %d, want 0", stats.CurrentStreak.Length)
		}
	})
}

func TestCompute_LongestStreak(t *testing.T) {
	tests := []struct {
		name  string
		days  []Day
		start string
		end   string
		len   int
	}{
		{
			name: "single run",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 1),
				day("2024-05-03", 1),
			},
			start: "2024-05-01", end: "2024-05-03", len: 3,
		},
		{
			name: "gap splits runs",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 1),
				day("2024-05-04", 1),
				day("2024-05-05", 1),
				day("2024-05-06", 1),
			},
			start: "2024-05-04", end: "2024-05-06", len: 3,
		},
		{
			name: "zero-count day splits runs",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 0),
				day("2024-05-03", 1),
			},
			start: "2024-05-01", end: "2024-05-01", len: 1,
		},
		{
			name: "tie keeps earliest run",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 1),
				day("2024-05-10", 1),
				day("2024-05-11", 1),
			},
			start: "2024-05-01", end: "2024-05-02", len: 2,
		},
		{
			name: "run spans month boundary",
			days: []Day{
				day("2024-01-30", 1),
				day("2024-01-31", 1),
				day("2024-02-01", 1),
			},
			start: "2024-01-30", end: "2024-02-01", len: 3,
		},
		{
			name: "run spans leap day",
			days: []Day{
				day("2024-02-28", 1),
				day("2024-02-29", 1),
				day("2024-03-01", 1),
			},
			start: "2024-02-28", end: "2024-03-01", len: 3,
		},
		{
			name: "non-leap february",
			days: []Day{
				day("2023-02-28", 1),
				day("2023-03-01", 1),
			},
			start: "2023-02-28", end: "2023-03-01", len: 2,
		},
	}

	today := date("2024-12-31")
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := Compute(tt.days, today)
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			got := stats.LongestStreak
			if got.Start != date(tt.start) || got.End != date(tt.end) || got.Length != tt.len {
				t.Errorf("LongestStreak = %v–%v (%d), want %s–%s (%d)",
					got.Start, got.End, got.Length, tt.start, tt.end, tt.len)
			}
			if got.Length > 0 && calendar.DaysBetween(got.Start, got.End)+1 != got.Length {
				t.Errorf("length invariant violated: %+v", got)
			}
		})
	}
}

func TestCompute_CurrentStreak(t *testing.T) {
	tests := []struct {
		name  string
		days  []Day
		today string
		start string
		end   string
		len   int
	}{
		{
			name: "active today",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 1),
				day("2024-05-03", 2),
			},
			today: "2024-05-03",
			start: "2024-05-01", end: "2024-05-03", len: 3,
		},
		{
			name: "grace: inactive today, active yesterday",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 1),
				day("2024-05-03", 0),
			},
			today: "2024-05-03",
			start: "2024-05-01", end: "2024-05-02", len: 2,
		},
		{
			name: "no grace: inactive today and yesterday",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 0),
				day("2024-05-03", 0),
			},
			today: "2024-05-03",
			start: "2024-05-03", end: "2024-05-03", len: 0,
		},
		{
			name: "no grace: trailing inactive day is not today",
			days: []Day{
				day("2024-05-01", 1),
				day("2024-05-02", 0),
			},
			today: "2024-05-05",
			start: "2024-05-05", end: "2024-05-05", len: 0,
		},
		{
			name: "gap stops the run",
			days: []Day{
				day("2024-04-28", 1),
				day("2024-04-30", 1),
				day("2024-05-01", 1),
			},
			today: "2024-05-01",
			start: "2024-04-30", end: "2024-05-01", len: 2,
		},
		{
			name: "run across year boundary",
			days: []Day{
				day("2023-12-30", 1),
				day("2023-12-31", 1),
				day("2024-01-01", 1),
			},
			today: "2024-01-01",
			start: "2023-12-30", end: "2024-01-01", len: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats, err := Compute(tt.days, date(tt.today))
			if err != nil {
				t.Fatalf("Compute() error: %v", err)
			}
			got := stats.CurrentStreak
			if got.Start != date(tt.start) || got.End != date(tt.end) || got.Length != tt.len {
				t.Errorf("CurrentStreak = %v–%v (%d), want %s–%s (%d)",
					got.Start, got.End, got.Length, tt.start, tt.end, tt.len)
			}
		})
	}
}

func TestCompute_IgnoresFutureDays(t *testing.T) {
	// The contribution calendar pads the current week with zero-count days
	// past today; they must not break the trailing run or inflate totals.
	days := []Day{
		day("2024-05-14", 1),
		day("2024-05-15", 1),
		day("2024-05-16", 3),
		day("2024-05-17", 0),
		day("2024-05-18", 0),
	}
	stats, err := Compute(days, date("2024-05-16"))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	got := stats.CurrentStreak
	if got.Start != date("2024-05-14") || got.End != date("2024-05-16") || got.Length != 3 {
		t.Errorf("CurrentStreak = %v–%v (%d), want 2024-05-14–2024-05-16 (3)",
			got.Start, got.End, got.Length)
	}
	if stats.TotalContributions != 5 {
		t.Errorf("TotalContributions = %d, want 5 (future days excluded)", stats.TotalContributions)
	}

	// A future active day is equally invisible until it arrives.
	days = []Day{
		day("2024-05-15", 1),
		day("2024-05-16", 3),
		day("2024-05-18", 4),
	}
	stats, err = Compute(days, date("2024-05-16"))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if stats.TotalContributions != 4 {
		t.Errorf("TotalContributions = %d, want 4 with future active day", stats.TotalContributions)
	}
	if stats.CurrentStreak.Length != 2 {
		t.Errorf("CurrentStreak.Length = %d, want 2", stats.CurrentStreak.Length)
	}
}

func TestCompute_OnlyFutureDays(t *testing.T) {
	days := []Day{
		day("2024-05-17", 0),
		day("2024-05-18", 2),
	}
	_, err := Compute(days, date("2024-05-16"))
	if !errors.Is(err, errors.ErrCodeEmptyDataset) {
		t.Fatalf("Compute(all future) error = %v, want EMPTY_DATASET", err)
	}
}

func TestCompute_LongestAtLeastCurrentAfterWindow(t *testing.T) {
	// When today is strictly after the dataset's active window, any current
	// streak is a finalized run and can tie but never exceed the longest.
	days := []Day{
		day("2024-04-01", 1),
		day("2024-04-02", 1),
		day("2024-04-03", 1),
		day("2024-04-10", 1),
		day("2024-04-11", 1),
	}
	stats, err := Compute(days, calendar.NewDate(2024, time.April, 20))
	if err != nil {
		t.Fatalf("Compute() error: %v", err)
	}
	if stats.LongestStreak.Length < stats.CurrentStreak.Length {
		t.Errorf("longest (%d) < current (%d)",
			stats.LongestStreak.Length, stats.CurrentStreak.Length)
	}
}
