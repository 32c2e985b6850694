// Package calendar provides civil-date arithmetic for streak computation.
//
// A [Date] is a plain calendar day with no time-of-day or zone attached.
// Day differences are computed through time.Time at UTC midnight, which keeps
// month, year, and leap-day boundaries exact without any DST interference.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the wire format for dates (ISO 8601 calendar date).
const Layout = "2006-01-02"

// Date is a calendar day. The zero value is invalid; construct dates with
// [NewDate], [Parse], or [FromTime]. Date is comparable and usable as a map key.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate returns the date for the given year, month, and day.
// Out-of-range values are normalized the same way time.Date normalizes them.
func NewDate(year int, month time.Month, day int) Date {
	return FromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// FromTime truncates t to its calendar day in t's location.
func FromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// Parse parses a YYYY-MM-DD string.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// Time returns the date at midnight UTC.
func (d Date) Time() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// String returns the date in YYYY-MM-DD form.
func (d Date) String() string {
	return d.Time().Format(Layout)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n calendar days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return FromTime(d.Time().AddDate(0, 0, n))
}

// Before reports whether d is earlier than other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is later than other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// Compare returns -1 if d is before other, 0 if equal, +1 if after.
// Suitable for slices.SortFunc.
func (d Date) Compare(other Date) int {
	switch {
	case d.Year != other.Year:
		return sign(d.Year - other.Year)
	case d.Month != other.Month:
		return sign(int(d.Month) - int(other.Month))
	default:
		return sign(d.Day - other.Day)
	}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	}
	return 0
}

// DaysBetween returns the signed number of calendar days from a to b.
// The result is positive when b is after a. Month, year, and leap-day
// boundaries are handled exactly; this is never a fixed-size subtraction.
func DaysBetween(a, b Date) int {
	return int(b.Time().Sub(a.Time()) / (24 * time.Hour))
}

// IsNextDay reports whether b is exactly one calendar day after a.
func IsNextDay(a, b Date) bool {
	return DaysBetween(a, b) == 1
}

// MarshalJSON encodes the date as a quoted YYYY-MM-DD string.
func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

// UnmarshalJSON decodes a quoted YYYY-MM-DD string.
func (d *Date) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("invalid date %s", data)
	}
	parsed, err := Parse(string(data[1 : len(data)-1]))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}
