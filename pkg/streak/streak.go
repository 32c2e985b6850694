// Package streak computes contribution streak statistics.
//
// The input is a sequence of per-day activity counts in no particular order;
// the output is the total count, the first active day, the longest run of
// consecutive active days, and the run that is still "current" relative to an
// injected "today". Computation is pure: no I/O, no wall clock.
package streak

import (
	"slices"

	"github.com/streakstats/streakcard/pkg/calendar"
	"github.com/streakstats/streakcard/pkg/errors"
)

// ErrEmptyDataset is returned by [Compute] when no activity records are given.
var ErrEmptyDataset = errors.New(errors.ErrCodeEmptyDataset, "no contribution data")

// Day is a single activity record: one calendar day and its count.
// Dates are expected to be unique within a dataset.
type Day struct {
	Date  calendar.Date
	Count int
}

// Range is a run of consecutive active days. Length is in days, so
// Length == DaysBetween(Start, End) + 1 for any non-empty range.
type Range struct {
	Start  calendar.Date `json:"start"`
	End    calendar.Date `json:"end"`
	Length int           `json:"length"`
}

// Stats is the computed result. JSON field names are part of the public
// response contract and must not change.
type Stats struct {
	TotalContributions int           `json:"totalContributions"`
	FirstContribution  calendar.Date `json:"firstContribution"`
	LongestStreak      Range         `json:"longestStreak"`
	CurrentStreak      Range         `json:"currentStreak"`
}

// Compute derives streak statistics from days, evaluated as of today.
//
// Records are sorted before processing; source order is undefined. A run
// extends only when an active day is exactly one calendar day after the
// previous active day, so month/year boundaries and leap days are handled
// through calendar arithmetic. On ties for the longest run, the
// earliest-seen run wins.
//
// The current streak carries a grace allowance: an inactive most-recent
// record does not break the trailing run when that record is today itself and
// yesterday was active, since today's activity may not have been recorded
// yet. Two or more trailing inactive days mean the streak is over, reported
// as a zero-length range anchored at today.
//
// Records dated after today are dropped before anything is computed: the
// data source pads the current week with zero-count future days, which must
// not count toward totals or break the trailing run.
//
// Returns [ErrEmptyDataset] if days is empty or holds only future records.
func Compute(days []Day, today calendar.Date) (Stats, error) {
	sorted := slices.Clone(days)
	slices.SortStableFunc(sorted, func(a, b Day) int {
		return a.Date.Compare(b.Date)
	})
	for len(sorted) > 0 && sorted[len(sorted)-1].Date.After(today) {
		sorted = sorted[:len(sorted)-1]
	}
	if len(sorted) == 0 {
		return Stats{}, ErrEmptyDataset
	}

	var s Stats
	s.FirstContribution = sorted[0].Date
	s.LongestStreak = longestRun(sorted)
	s.CurrentStreak = currentRun(sorted, today)

	firstSeen := false
	for _, d := range sorted {
		s.TotalContributions += d.Count
		if d.Count > 0 && !firstSeen {
			s.FirstContribution = d.Date
			firstSeen = true
		}
	}
	return s, nil
}

// longestRun scans forward once, extending a run while active days stay
// consecutive and closing it otherwise. Strict comparison keeps the first
// maximal run on ties.
func longestRun(sorted []Day) Range {
	var best, run Range

	closeRun := func() {
		if run.Length > best.Length {
			best = run
		}
		run = Range{}
	}

	for _, d := range sorted {
		if d.Count <= 0 {
			closeRun()
			continue
		}
		if run.Length > 0 && calendar.IsNextDay(run.End, d.Date) {
			run.End = d.Date
			run.Length++
			continue
		}
		closeRun()
		run = Range{Start: d.Date, End: d.Date, Length: 1}
	}
	closeRun()
	return best
}

// currentRun walks backward from the most recent record. An inactive final
// record is skipped only when it is today and yesterday was active (the
// grace rule); otherwise the streak is broken.
func currentRun(sorted []Day, today calendar.Date) Range {
	broken := Range{Start: today, End: today, Length: 0}

	last := len(sorted) - 1
	if sorted[last].Count <= 0 {
		graceApplies := sorted[last].Date == today &&
			last > 0 &&
			sorted[last-1].Count > 0 &&
			calendar.IsNextDay(sorted[last-1].Date, today)
		if !graceApplies {
			return broken
		}
		last--
	}

	run := Range{Start: sorted[last].Date, End: sorted[last].Date, Length: 1}
	for i := last - 1; i >= 0; i-- {
		if sorted[i].Count <= 0 || !calendar.IsNextDay(sorted[i].Date, run.Start) {
			break
		}
		run.Start = sorted[i].Date
		run.Length++
	}
	return run
}
