package temporal

import (
	"fmt"
	"time"
)

// InvalidDateError reports year/month/day fields that do not form a real
// calendar date even after unknown-component substitution.
type InvalidDateError struct {
	Year  int
	Month int
	Day   int
}

func (e *InvalidDateError) Error() string {
	return fmt.Sprintf("invalid calendar date %04d-%02d-%02d", e.Year, e.Month, e.Day)
}

// Normalize converts partial year/month/day fields into a canonical UTC
// date. A zero or negative month or day means "unknown within the year"
// and is substituted with 1. Year must already be present; callers exclude
// year-less records before normalization.
func Normalize(year, month, day int) (time.Time, error) {
	if month <= 0 {
		month = 1
	}
	if day <= 0 {
		day = 1
	}

	d := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	// time.Date silently rolls over out-of-range components (Feb 30 ->
	// Mar 2), so round-trip to catch impossible dates.
	if d.Year() != year || d.Month() != time.Month(month) || d.Day() != day {
		return time.Time{}, &InvalidDateError{Year: year, Month: month, Day: day}
	}
	return d, nil
}

// DaysBetween returns the whole-day span from a to b. Negative when b is
// before a.
func DaysBetween(a, b time.Time) int {
	return int(b.Sub(a) / (24 * time.Hour))
}

// HoursBetween returns the whole-hour span from a to b, computed on the
// calendar dates themselves rather than raw day-of-month arithmetic, so a
// window crossing a month boundary measures correctly.
func HoursBetween(a, b time.Time) int {
	return int(b.Sub(a) / time.Hour)
}

// WithinWindow reports whether b falls in [a, a+window] inclusive.
func WithinWindow(a, b time.Time, window time.Duration) bool {
	return !b.Before(a) && !b.After(a.Add(window))
}

// AddMonths advances a date by calendar months. Month arithmetic follows
// time.AddDate semantics, matching the duration({months: n}) behavior of
// the corpus queries.
func AddMonths(t time.Time, months int) time.Time {
	return t.AddDate(0, months, 0)
}
