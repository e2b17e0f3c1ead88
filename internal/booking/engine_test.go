package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"manzil/internal/models"
)

func validBooking() models.Booking {
	return models.Booking{
		UnitID:               10,
		OwnerID:              1,
		TenantName:           "Ahmed Hassan",
		Phone:                "+20 100 000 0000",
		StartDate:            day(2025, 1, 5),
		Nights:               4,
		DailyRate:            100,
		HousekeepingRequired: true,
		HousekeepingAmount:   50,
		DepositTaken:         true,
		DepositAmount:        500,
	}
}

func TestPrepare(t *testing.T) {
	t.Run("fills derived fields", func(t *testing.T) {
		b := validBooking()
		require.NoError(t, Prepare(&b))

		assert.Equal(t, day(2025, 1, 9), b.EndDate)
		assert.Equal(t, int64(450), b.TotalAmount) // base 400 + housekeeping 50
		assert.Equal(t, models.StatusUnconfirmed, b.Status)
		assert.Equal(t, models.PaymentPending, b.PaymentStatus)
		assert.NotEmpty(t, b.ReceiptNo)
	})

	t.Run("keeps existing receipt number", func(t *testing.T) {
		b := validBooking()
		b.ReceiptNo = "keep-me"
		require.NoError(t, Prepare(&b))
		assert.Equal(t, "keep-me", b.ReceiptNo)
	})

	t.Run("zeroes amounts behind disabled flags", func(t *testing.T) {
		b := validBooking()
		b.HousekeepingRequired = false
		b.DepositTaken = false
		require.NoError(t, Prepare(&b))

		assert.Zero(t, b.HousekeepingAmount)
		assert.Zero(t, b.DepositAmount)
		assert.Equal(t, int64(400), b.TotalAmount)
	})

	t.Run("deposit excluded from stored total", func(t *testing.T) {
		b := validBooking()
		b.DepositAmount = 1_000_000
		require.NoError(t, Prepare(&b))
		assert.Equal(t, int64(450), b.TotalAmount)
	})

	tests := []struct {
		name    string
		mutate  func(*models.Booking)
		wantErr error
	}{
		{
			name:    "missing unit",
			mutate:  func(b *models.Booking) { b.UnitID = 0 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "blank tenant name",
			mutate:  func(b *models.Booking) { b.TenantName = "   " },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "missing start date",
			mutate:  func(b *models.Booking) { b.StartDate = time.Time{} },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "zero nights",
			mutate:  func(b *models.Booking) { b.Nights = 0 },
			wantErr: ErrInvalidDuration,
		},
		{
			name:    "negative rate",
			mutate:  func(b *models.Booking) { b.DailyRate = -5 },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown status",
			mutate:  func(b *models.Booking) { b.Status = "maybe" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown payment status",
			mutate:  func(b *models.Booking) { b.PaymentStatus = "iou" },
			wantErr: ErrInvalidInput,
		},
		{
			name:    "unknown rating",
			mutate:  func(b *models.Booking) { b.Rating = "five_stars" },
			wantErr: ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := validBooking()
			tt.mutate(&b)
			err := Prepare(&b)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTotalsForMatchesStoredTotal(t *testing.T) {
	b := validBooking()
	require.NoError(t, Prepare(&b))

	totals, err := TotalsFor(&b)
	require.NoError(t, err)
	assert.Equal(t, b.TotalAmount, totals.GrandTotal)
	assert.Equal(t, int64(400), totals.TotalRent)
}
