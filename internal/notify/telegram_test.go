package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"manzil/internal/models"
)

func testBooking() *models.Booking {
	return &models.Booking{
		ID:          42,
		TenantName:  "Ahmed Hassan",
		StartDate:   time.Date(2025, time.January, 5, 0, 0, 0, 0, time.UTC),
		EndDate:     time.Date(2025, time.January, 9, 0, 0, 0, 0, time.UTC),
		Nights:      4,
		TotalAmount: 450,
	}
}

func TestFormatBookingCreated(t *testing.T) {
	b := testBooking()
	msg := formatBookingCreated(b, "Sea Breeze")

	assert.Contains(t, msg, "#42")
	assert.Contains(t, msg, "Sea Breeze")
	assert.Contains(t, msg, "Ahmed Hassan")
	assert.Contains(t, msg, "Jan 5 – Jan 9, 2025")
	assert.Contains(t, msg, "4 nights")
	assert.NotContains(t, msg, "Deposit")
}

func TestFormatBookingCreatedWithDeposit(t *testing.T) {
	b := testBooking()
	b.DepositTaken = true
	b.DepositAmount = 500

	msg := formatBookingCreated(b, "Sea Breeze")
	assert.Contains(t, msg, "Deposit: 500 (refundable)")
}

func TestFormatBookingCancelled(t *testing.T) {
	msg := formatBookingCancelled(testBooking(), "Sea Breeze")
	assert.Contains(t, msg, "cancelled")
	assert.Contains(t, msg, "#42")
}

func TestNilNotifierIsNoOp(t *testing.T) {
	var n *TelegramNotifier
	// Must not panic.
	n.BookingCreated(context.Background(), testBooking(), "Sea Breeze")
	n.BookingCancelled(context.Background(), testBooking(), "Sea Breeze")
}
