package booking

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is returned for negative monetary amounts or missing
// required booking fields. Inputs are never silently clamped.
var ErrInvalidInput = errors.New("invalid input")

// Totals is the financial breakdown of a booking. All amounts are in minor
// currency units (piasters).
//
// TotalRent is base rent only. Housekeeping is a pass-through fee charged to
// the tenant: it belongs in GrandTotal but never in TotalRent. The deposit is
// refundable and appears in no total at all.
type Totals struct {
	BaseRent          int64 `json:"base_rent"`
	HousekeepingFee   int64 `json:"housekeeping_fee"`
	RefundableDeposit int64 `json:"refundable_deposit"`
	TotalRent         int64 `json:"total_rent"`   // = BaseRent
	GrandTotal        int64 `json:"grand_total"`  // = BaseRent + HousekeepingFee
}

// ComputeTotals derives the published totals from a booking's raw inputs.
// This is the single place totals are computed; receipts, reports and the
// stored total_amount all go through it.
//
// A disabled housekeeping or deposit flag forces the matching amount to zero
// no matter what was entered. Everything else that is negative is an error.
func ComputeTotals(dailyRate int64, nights int, housekeepingRequired bool, housekeepingAmount int64, depositTaken bool, depositAmount int64) (Totals, error) {
	if nights < 1 {
		return Totals{}, ErrInvalidDuration
	}
	if dailyRate < 0 {
		return Totals{}, fmt.Errorf("%w: daily rate is negative", ErrInvalidInput)
	}
	if housekeepingRequired && housekeepingAmount < 0 {
		return Totals{}, fmt.Errorf("%w: housekeeping amount is negative", ErrInvalidInput)
	}
	if depositTaken && depositAmount < 0 {
		return Totals{}, fmt.Errorf("%w: deposit amount is negative", ErrInvalidInput)
	}

	t := Totals{BaseRent: dailyRate * int64(nights)}
	if housekeepingRequired {
		t.HousekeepingFee = housekeepingAmount
	}
	if depositTaken {
		t.RefundableDeposit = depositAmount
	}
	t.TotalRent = t.BaseRent
	t.GrandTotal = t.BaseRent + t.HousekeepingFee
	return t, nil
}
