package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manzil/internal/models"
)

func stay(id, unitID int64, status string, start time.Time, nights int) models.Booking {
	end, _ := AddNights(start, nights)
	return models.Booking{
		ID:        id,
		UnitID:    unitID,
		Status:    status,
		StartDate: start,
		EndDate:   end,
		Nights:    nights,
	}
}

func TestCheckConflict(t *testing.T) {
	existing := []models.Booking{
		stay(1, 10, models.StatusConfirmed, day(2025, 1, 5), 3),   // Jan 5 – Jan 8
		stay(2, 10, models.StatusCancelled, day(2025, 1, 10), 5),  // cancelled, ignored
		stay(3, 20, models.StatusConfirmed, day(2025, 1, 5), 10),  // other unit, ignored
		stay(4, 10, models.StatusUnconfirmed, day(2025, 1, 20), 2), // Jan 20 – Jan 22
	}

	tests := []struct {
		name       string
		unitID     int64
		start      time.Time
		nights     int
		excludeID  int64
		conflictID int64 // 0 = no conflict expected
	}{
		{
			name:   "free window between stays",
			unitID: 10,
			start:  day(2025, 1, 8), nights: 4, // Jan 8 – Jan 12
		},
		{
			name:   "check-in on existing checkout day is allowed",
			unitID: 10,
			start:  day(2025, 1, 8), nights: 2,
		},
		{
			name:   "checkout on existing check-in day is allowed",
			unitID: 10,
			start:  day(2025, 1, 3), nights: 2, // ends Jan 5
		},
		{
			name:   "real overlap with confirmed stay",
			unitID: 10,
			start:  day(2025, 1, 7), nights: 2,
			conflictID: 1,
		},
		{
			name:   "unconfirmed stays still block",
			unitID: 10,
			start:  day(2025, 1, 19), nights: 3,
			conflictID: 4,
		},
		{
			name:   "window overlapping only the cancelled stay is free",
			unitID: 10,
			start:  day(2025, 1, 11), nights: 3,
		},
		{
			name:   "other unit never conflicts",
			unitID: 30,
			start:  day(2025, 1, 5), nights: 10,
		},
		{
			name:      "update excluding itself sees no conflict",
			unitID:    10,
			start:     day(2025, 1, 5), nights: 3,
			excludeID: 1,
		},
		{
			name:   "same window without exclusion conflicts",
			unitID: 10,
			start:  day(2025, 1, 5), nights: 3,
			conflictID: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			end, err := AddNights(tt.start, tt.nights)
			require.NoError(t, err)

			conflict := CheckConflict(tt.unitID, tt.start, end, existing, tt.excludeID)
			if tt.conflictID == 0 {
				assert.Nil(t, conflict)
				return
			}
			require.NotNil(t, conflict)
			assert.Equal(t, tt.conflictID, conflict.BookingID)
			assert.Equal(t, tt.unitID, conflict.UnitID)
		})
	}
}

func TestConflictErrorMessageNamesUnitAndWindow(t *testing.T) {
	err := &ConflictError{UnitID: 7, BookingID: 42, Start: day(2025, 1, 5), End: day(2025, 1, 8)}
	msg := err.Error()
	assert.Contains(t, msg, "unit 7")
	assert.Contains(t, msg, "2025-01-05")
	assert.Contains(t, msg, "2025-01-08")
	assert.Contains(t, msg, "#42")
}

// Updating a booking to its own unchanged dates must never conflict with
// itself.
func TestCheckConflictUpdateIdempotence(t *testing.T) {
	b := stay(5, 10, models.StatusConfirmed, day(2025, 2, 1), 7)
	existing := []models.Booking{b}

	conflict := CheckConflict(b.UnitID, b.StartDate, b.EndDate, existing, b.ID)
	assert.Nil(t, conflict)
}
