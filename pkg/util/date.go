package util

import "time"

// DayLayout is the wire format for daily-bar dates.
const DayLayout = "2006-01-02"

// ParseDay parses a YYYY-MM-DD string into a UTC midnight time.
func ParseDay(s string) (time.Time, error) {
	return time.Parse(DayLayout, s)
}

// DayKey formats a time as its YYYY-MM-DD day, suitable for map keys
// and query parameters.
func DayKey(t time.Time) string {
	return t.Format(DayLayout)
}

// Day truncates a time to UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
