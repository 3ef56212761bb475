// Package month handles the "YYYY-MM" period keys the budget tables are
// organized around. Keys are zero-padded, so lexicographic comparison of
// two keys orders them chronologically.
package month

import (
	"fmt"
	"regexp"
	"time"
)

var keyPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)

// Month is a calendar month in a specific year.
type Month struct {
	year int
	mon  time.Month
}

// New returns the Month for the given year and month number.
func New(year int, mon time.Month) Month {
	return Month{year: year, mon: mon}
}

// Parse converts a "YYYY-MM" key into a Month.
func Parse(key string) (Month, error) {
	if !keyPattern.MatchString(key) {
		return Month{}, fmt.Errorf("invalid month %q, expected YYYY-MM", key)
	}
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return Month{}, fmt.Errorf("invalid month %q: %w", key, err)
	}
	return Month{year: t.Year(), mon: t.Month()}, nil
}

// FromTime returns the Month containing t, evaluated in UTC.
func FromTime(t time.Time) Month {
	u := t.UTC()
	return Month{year: u.Year(), mon: u.Month()}
}

// Key returns the zero-padded "YYYY-MM" form.
func (m Month) Key() string {
	return fmt.Sprintf("%04d-%02d", m.year, int(m.mon))
}

// Prev returns the preceding month, wrapping the year at January.
func (m Month) Prev() Month {
	if m.mon == time.January {
		return Month{year: m.year - 1, mon: time.December}
	}
	return Month{year: m.year, mon: m.mon - 1}
}

// Next returns the following month, wrapping the year at December.
func (m Month) Next() Month {
	if m.mon == time.December {
		return Month{year: m.year + 1, mon: time.January}
	}
	return Month{year: m.year, mon: m.mon + 1}
}

// Start is the first instant of the month in UTC.
func (m Month) Start() time.Time {
	return time.Date(m.year, m.mon, 1, 0, 0, 0, 0, time.UTC)
}

// End is the last instant of the month in UTC, so [Start, End] is an
// inclusive range covering the whole month.
func (m Month) End() time.Time {
	return m.Next().Start().Add(-time.Nanosecond)
}

// Contains reports whether t falls inside the month, evaluated in UTC.
func (m Month) Contains(t time.Time) bool {
	return FromTime(t) == m
}

// Before reports whether m is chronologically before other.
func (m Month) Before(other Month) bool {
	return m.Key() < other.Key()
}

func (m Month) String() string {
	return m.Key()
}
