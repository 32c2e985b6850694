package calendar

import "time"

// Clock supplies "today" so that streak computation never reads the wall
// clock directly. Production code uses [SystemClock]; tests inject a
// [FixedClock] to pin the current day.
type Clock interface {
	Today() Date
}

// SystemClock returns a Clock that reads the current day in loc.
// A nil loc defaults to UTC, matching the contribution data source.
func SystemClock(loc *time.Location) Clock {
	if loc == nil {
		loc = time.UTC
	}
	return systemClock{loc: loc}
}

type systemClock struct{ loc *time.Location }

func (c systemClock) Today() Date {
	return FromTime(time.Now().In(c.loc))
}

// FixedClock is a Clock that always reports the same day.
type FixedClock struct{ Day Date }

func (c FixedClock) Today() Date { return c.Day }
