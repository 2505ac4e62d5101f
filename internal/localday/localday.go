// Package localday provides a calendar-day type anchored to a configurable
// timezone. Portfolio summaries are keyed by the calendar day an event or
// price falls on in the tracker's local timezone (default Asia/Manila), not
// the UTC day, so a record stamped 23:30 UTC belongs to the next local day
// under a UTC+8 offset.
package localday

import (
	"encoding/json"
	"fmt"
	"time"
)

// Format is the string representation of a day, ISO-8601 date only.
const Format = "2006-01-02"

// Day represents a calendar date with day-level granularity.
// The zero value is meaningless; construct through New, FromTime or Parse.
type Day struct {
	y int
	m time.Month
	d int
}

// New returns a normalized Day for the given year, month, and day.
func New(year int, month time.Month, day int) Day {
	d := Day{year, month, day}
	d.y, d.m, d.d = d.canonical(time.UTC).Date()
	return d
}

// FromTime returns the calendar day the instant t falls on in loc.
func FromTime(t time.Time, loc *time.Location) Day {
	return New(t.In(loc).Date())
}

// Today returns the current calendar day in loc.
func Today(loc *time.Location) Day {
	return FromTime(time.Now(), loc)
}

// Parse parses a Day from its ISO-8601 string form.
func Parse(str string) (Day, error) {
	t, err := time.Parse(Format, str)
	if err != nil {
		return Day{}, fmt.Errorf("invalid day %q, want format %q: %w", str, Format, err)
	}
	return New(t.Date()), nil
}

// MustParse is like Parse but panics on error. Intended for tests and constants.
func MustParse(str string) Day {
	d, err := Parse(str)
	if err != nil {
		panic(err.Error())
	}
	return d
}

func (d Day) canonical(loc *time.Location) time.Time {
	return time.Date(d.y, d.m, d.d, 0, 0, 0, 0, loc)
}

// Start returns the first instant of the day in loc (local midnight).
func (d Day) Start(loc *time.Location) time.Time {
	return d.canonical(loc)
}

// End returns the last representable instant of the day in loc, one
// nanosecond before the next local midnight. The latest price at or before
// End(loc) is the day's closing price.
func (d Day) End(loc *time.Location) time.Time {
	return d.Add(1).canonical(loc).Add(-time.Nanosecond)
}

// Add returns the day i calendar days after d (or before, for negative i).
func (d Day) Add(i int) Day {
	return New(d.y, d.m, d.d+i)
}

// Before reports whether d is before x.
func (d Day) Before(x Day) bool { return d.canonical(time.UTC).Before(x.canonical(time.UTC)) }

// After reports whether d is after x.
func (d Day) After(x Day) bool { return d.canonical(time.UTC).After(x.canonical(time.UTC)) }

// Year returns the year of the day.
func (d Day) Year() int { return d.y }

// Month returns the month of the day.
func (d Day) Month() time.Month { return d.m }

// DayOfMonth returns the day of the month.
func (d Day) DayOfMonth() int { return d.d }

// String formats the day in its standard ISO-8601 form.
func (d Day) String() string { return d.canonical(time.UTC).Format(Format) }

// MarshalJSON encodes the day as a JSON string in the standard form.
func (d Day) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON decodes a day from a JSON string in the standard form.
func (d *Day) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	day, err := Parse(str)
	if err != nil {
		return err
	}
	*d = day
	return nil
}

// Min returns the earlier of a and b.
func Min(a, b Day) Day {
	if a.Before(b) {
		return a
	}
	return b
}

// Max returns the later of a and b.
func Max(a, b Day) Day {
	if a.After(b) {
		return a
	}
	return b
}
