package booking

import (
	"fmt"
	"time"

	"manzil/internal/models"
)

// ConflictError reports a date collision with an existing active booking on
// the same unit. It carries the conflicting booking and its window so callers
// can show the tenant which stay is in the way.
type ConflictError struct {
	UnitID    int64
	BookingID int64
	Start     time.Time
	End       time.Time
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("unit %d is already booked %s – %s (booking #%d)",
		e.UnitID, e.Start.Format("2006-01-02"), e.End.Format("2006-01-02"), e.BookingID)
}

// CheckConflict scans existing bookings for a date collision with the
// candidate window [start, end) on the given unit. Cancelled bookings are
// skipped, and so is the booking identified by excludeID — an update must
// not conflict with its own prior record. Pass excludeID 0 on create.
//
// Returns nil when the window is free. This is a best-effort pre-flight
// check over a snapshot; the store re-runs the same test inside the write
// transaction as the serialization backstop.
func CheckConflict(unitID int64, start, end time.Time, existing []models.Booking, excludeID int64) *ConflictError {
	for i := range existing {
		b := &existing[i]
		if b.UnitID != unitID || !b.IsActive() || b.ID == excludeID {
			continue
		}
		if Overlaps(start, end, b.StartDate, b.EndDate) {
			return &ConflictError{
				UnitID:    unitID,
				BookingID: b.ID,
				Start:     b.StartDate,
				End:       b.EndDate,
			}
		}
	}
	return nil
}
