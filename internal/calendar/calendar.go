// Package calendar does date arithmetic on YYYY-MM-DD calendar dates.
//
// Dates are plain strings so they can be stored, compared and sorted as-is.
// Arithmetic is done at midnight UTC, which has no DST transitions, so a day
// is always exactly 24 hours.
package calendar

import (
	"fmt"
	"time"
)

// Layout is the storage and wire format for calendar dates.
const Layout = "2006-01-02"

// Parse parses a YYYY-MM-DD date at midnight UTC.
func Parse(date string) (time.Time, error) {
	t, err := time.Parse(Layout, date)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	return t, nil
}

// Valid reports whether date is a well-formed YYYY-MM-DD calendar date.
func Valid(date string) bool {
	_, err := time.Parse(Layout, date)
	return err == nil
}

// Format returns the calendar date of t in t's own location.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// Today returns the calendar date of now as observed in loc.
func Today(now time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).Format(Layout)
}

// LoadLocation loads an IANA timezone. "" and "Local" mean the system timezone.
func LoadLocation(timezone string) (*time.Location, error) {
	if timezone == "" || timezone == "Local" {
		return time.Local, nil
	}
	return time.LoadLocation(timezone)
}

// AddDays shifts date by n days. It panics on a malformed date; callers
// validate input at the boundary.
func AddDays(date string, n int) string {
	return mustParse(date).AddDate(0, 0, n).Format(Layout)
}

// DaysBetween returns b - a in whole days.
func DaysBetween(a, b string) int {
	return int(mustParse(b).Sub(mustParse(a)).Hours() / 24)
}

func mustParse(date string) time.Time {
	t, err := Parse(date)
	if err != nil {
		panic(err)
	}
	return t
}
