package calendar

import "time"

// Window is an inclusive range of calendar dates.
type Window struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// WeekOf returns the Sunday..Saturday week containing now, observed in loc.
func WeekOf(now time.Time, loc *time.Location) Window {
	today := Today(now, loc)
	offset := int(mustParse(today).Weekday()) // Sunday == 0
	start := AddDays(today, -offset)
	return Window{Start: start, End: AddDays(start, 6)}
}

// LastDays returns the window of n days ending on (and including) today.
func LastDays(today string, n int) Window {
	if n < 1 {
		n = 1
	}
	return Window{Start: AddDays(today, -(n - 1)), End: today}
}

// Contains reports whether date falls inside the window. ISO dates order
// lexically, so this is a string comparison.
func (w Window) Contains(date string) bool {
	return date >= w.Start && date <= w.End
}

// Days lists every date in the window in ascending order.
func (w Window) Days() []string {
	n := DaysBetween(w.Start, w.End)
	if n < 0 {
		return nil
	}
	days := make([]string, 0, n+1)
	for i := 0; i <= n; i++ {
		days = append(days, AddDays(w.Start, i))
	}
	return days
}
