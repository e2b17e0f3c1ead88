package booking

import "time"

// Overlaps reports whether the half-open ranges [aStart, aEnd) and
// [bStart, bEnd) intersect.
//
// The comparisons are strict so that a checkout on day X and a check-in on
// day X never conflict (same-day turnover). Inclusive comparisons here would
// reject legitimate turnovers.
func Overlaps(aStart, aEnd, bStart, bEnd time.Time) bool {
	return aStart.Before(bEnd) && bStart.Before(aEnd)
}
