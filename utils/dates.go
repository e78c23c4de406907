package utils

import "time"

const DateLayout = "2006-01-02"

// Today returns the current calendar date as YYYY-MM-DD. Menu dates are
// compared as plain strings, so lexicographic order is date order.
func Today() string {
	return time.Now().Format(DateLayout)
}

// DateString formats a time as a calendar date string.
func DateString(t time.Time) string {
	return t.Format(DateLayout)
}
