package models

import "time"

// Unit types.
const (
	UnitVilla  = "villa"
	UnitChalet = "chalet"
	UnitPalace = "palace"
)

// Booking statuses.
const (
	StatusUnconfirmed = "unconfirmed"
	StatusConfirmed   = "confirmed"
	StatusCancelled   = "cancelled"
)

// Payment statuses.
const (
	PaymentPending = "pending"
	PaymentPaid    = "paid"
	PaymentOverdue = "overdue"
)

// Tenant ratings. Empty string means not rated yet.
const (
	RatingNone        = ""
	RatingWelcomeBack = "welcome_back"
	RatingDoNotRent   = "do_not_rent"
)

// ValidUnitType reports whether t is a known unit type.
func ValidUnitType(t string) bool {
	return t == UnitVilla || t == UnitChalet || t == UnitPalace
}

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s string) bool {
	return s == StatusUnconfirmed || s == StatusConfirmed || s == StatusCancelled
}

// ValidPaymentStatus reports whether s is a known payment status.
func ValidPaymentStatus(s string) bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentOverdue
}

// ValidRating reports whether r is a known tenant rating.
func ValidRating(r string) bool {
	return r == RatingNone || r == RatingWelcomeBack || r == RatingDoNotRent
}

// Unit represents a rentable property.
type Unit struct {
	ID        int64     `json:"id"`
	OwnerID   int64     `json:"owner_id"`
	Name      string    `json:"name"`
	Type      string    `json:"type"` // villa, chalet, palace
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Booking represents a reservation of one unit for a contiguous date range.
// Monetary fields are in minor currency units (piasters).
// EndDate and TotalAmount are derived; they are recomputed whenever the
// inputs change and never accepted from callers as-is.
type Booking struct {
	ID                   int64     `json:"id"`
	UnitID               int64     `json:"unit_id"`
	OwnerID              int64     `json:"owner_id"`
	TenantName           string    `json:"tenant_name"`
	Phone                string    `json:"phone,omitempty"`
	StartDate            time.Time `json:"start_date"`
	Nights               int       `json:"nights"`
	EndDate              time.Time `json:"end_date"` // always StartDate + Nights
	DailyRate            int64     `json:"daily_rate"`
	TotalAmount          int64     `json:"total_amount"` // base rent + housekeeping, deposit excluded
	Status               string    `json:"status"`
	PaymentStatus        string    `json:"payment_status"`
	DepositTaken         bool      `json:"deposit_taken"`
	DepositAmount        int64     `json:"deposit_amount"`
	HousekeepingRequired bool      `json:"housekeeping_required"`
	HousekeepingAmount   int64     `json:"housekeeping_amount"`
	Notes                string    `json:"notes,omitempty"`
	Rating               string    `json:"rating,omitempty"`
	ReceiptNo            string    `json:"receipt_no,omitempty"`
	CreatedAt            time.Time `json:"created_at"`
	UpdatedAt            time.Time `json:"updated_at"`
}

// IsActive reports whether the booking participates in conflict checks
// and revenue aggregation.
func (b *Booking) IsActive() bool {
	return b.Status != StatusCancelled
}

// OverlapsWith checks if this booking's date range collides with another.
// Ranges are half-open [start, end): a checkout and a check-in on the same
// day do not conflict.
func (b *Booking) OverlapsWith(other *Booking) bool {
	return b.StartDate.Before(other.EndDate) && other.StartDate.Before(b.EndDate)
}

// Expense represents a cost record, optionally tied to a unit.
// UnitID 0 means a general/overhead expense.
type Expense struct {
	ID          int64     `json:"id"`
	OwnerID     int64     `json:"owner_id"`
	UnitID      int64     `json:"unit_id,omitempty"`
	Description string    `json:"description"`
	Amount      int64     `json:"amount"`
	Category    string    `json:"category,omitempty"`
	Date        time.Time `json:"date"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
