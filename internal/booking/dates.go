package booking

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidDuration is returned when a stay is shorter than one night.
var ErrInvalidDuration = errors.New("duration must be at least one night")

// Dates are timezone-naive calendar dates carried as UTC midnight. No
// location conversion happens anywhere in this package, which keeps date
// arithmetic stable across DST boundaries.

// Day normalizes t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a YYYY-MM-DD string into a calendar date.
func ParseDate(s string) (time.Time, error) {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: invalid date %q; expected YYYY-MM-DD", ErrInvalidInput, s)
	}
	return d, nil
}

// AddNights returns the checkout date for a stay of nights starting at start.
func AddNights(start time.Time, nights int) (time.Time, error) {
	if nights < 1 {
		return time.Time{}, ErrInvalidDuration
	}
	return Day(start).AddDate(0, 0, nights), nil
}

// NightsBetween returns the number of nights between two calendar dates.
func NightsBetween(start, end time.Time) int {
	return int(Day(end).Sub(Day(start)).Hours() / 24)
}

var arabicMonths = [...]string{
	"يناير", "فبراير", "مارس", "أبريل", "مايو", "يونيو",
	"يوليو", "أغسطس", "سبتمبر", "أكتوبر", "نوفمبر", "ديسمبر",
}

// FormatRange renders a human-readable date range, e.g. "Jan 5 – Jan 8, 2025".
// Locale is passed explicitly; "ar" selects Arabic month names, anything else
// falls back to English.
func FormatRange(start, end time.Time, locale string) string {
	if locale == "ar" {
		return fmt.Sprintf("%d %s – %d %s %d",
			start.Day(), arabicMonths[start.Month()-1],
			end.Day(), arabicMonths[end.Month()-1], end.Year())
	}
	if start.Year() != end.Year() {
		return fmt.Sprintf("%s – %s", start.Format("Jan 2, 2006"), end.Format("Jan 2, 2006"))
	}
	return fmt.Sprintf("%s – %s", start.Format("Jan 2"), end.Format("Jan 2, 2006"))
}
