package booking

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"manzil/internal/models"
)

// Prepare validates a booking's raw inputs and fills its derived fields:
// end date, published total and receipt number. It mutates b only on
// success. The caller persists the result; Prepare itself never touches
// storage.
func Prepare(b *models.Booking) error {
	if b.UnitID <= 0 {
		return fmt.Errorf("%w: unit is required", ErrInvalidInput)
	}
	if strings.TrimSpace(b.TenantName) == "" {
		return fmt.Errorf("%w: tenant name is required", ErrInvalidInput)
	}
	if b.StartDate.IsZero() {
		return fmt.Errorf("%w: start date is required", ErrInvalidInput)
	}

	if b.Status == "" {
		b.Status = models.StatusUnconfirmed
	}
	if !models.ValidStatus(b.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, b.Status)
	}
	if b.PaymentStatus == "" {
		b.PaymentStatus = models.PaymentPending
	}
	if !models.ValidPaymentStatus(b.PaymentStatus) {
		return fmt.Errorf("%w: unknown payment status %q", ErrInvalidInput, b.PaymentStatus)
	}
	if !models.ValidRating(b.Rating) {
		return fmt.Errorf("%w: unknown rating %q", ErrInvalidInput, b.Rating)
	}

	end, err := AddNights(b.StartDate, b.Nights)
	if err != nil {
		return err
	}

	totals, err := ComputeTotals(b.DailyRate, b.Nights,
		b.HousekeepingRequired, b.HousekeepingAmount,
		b.DepositTaken, b.DepositAmount)
	if err != nil {
		return err
	}

	b.StartDate = Day(b.StartDate)
	b.EndDate = end
	b.TotalAmount = totals.GrandTotal
	// Disabled flags win over whatever amount was entered.
	b.HousekeepingAmount = totals.HousekeepingFee
	b.DepositAmount = totals.RefundableDeposit
	if b.ReceiptNo == "" {
		b.ReceiptNo = uuid.NewString()
	}
	return nil
}

// TotalsFor recomputes the financial breakdown of an already-prepared
// booking. Presentation layers call this instead of re-deriving figures
// inline.
func TotalsFor(b *models.Booking) (Totals, error) {
	return ComputeTotals(b.DailyRate, b.Nights,
		b.HousekeepingRequired, b.HousekeepingAmount,
		b.DepositTaken, b.DepositAmount)
}
