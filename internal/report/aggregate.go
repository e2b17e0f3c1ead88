// Package report rolls up bookings and expenses into the figures the
// dashboards, receipts and exports present. All reducers here operate on
// already-loaded collections and perform no I/O.
package report

import (
	"time"

	"manzil/internal/models"
)

// GeneralExpenses selects overhead expenses not tied to any unit.
const GeneralExpenses int64 = 0

func inPeriod(d, from, to time.Time) bool {
	if !from.IsZero() && d.Before(from) {
		return false
	}
	if !to.IsZero() && d.After(to) {
		return false
	}
	return true
}

// RevenueForUnit sums base rent over non-cancelled bookings of the unit whose
// start date falls in the optional period (zero times mean unbounded).
//
// Revenue deliberately excludes the housekeeping fee: it is pass-through
// money, not owner income, and counting it here would double-book it against
// the cleaning expense.
func RevenueForUnit(unitID int64, bookings []models.Booking, from, to time.Time) int64 {
	var total int64
	for i := range bookings {
		b := &bookings[i]
		if b.UnitID != unitID || !b.IsActive() || !inPeriod(b.StartDate, from, to) {
			continue
		}
		total += b.DailyRate * int64(b.Nights)
	}
	return total
}

// ExpensesForUnit sums expense amounts for the unit within the optional
// period. Passing GeneralExpenses matches only overhead expenses that are not
// tied to any unit.
func ExpensesForUnit(unitID int64, expenses []models.Expense, from, to time.Time) int64 {
	var total int64
	for i := range expenses {
		e := &expenses[i]
		if e.UnitID != unitID || !inPeriod(e.Date, from, to) {
			continue
		}
		total += e.Amount
	}
	return total
}

// NetProfit is revenue minus expenses for the unit over the period.
func NetProfit(unitID int64, bookings []models.Booking, expenses []models.Expense, from, to time.Time) int64 {
	return RevenueForUnit(unitID, bookings, from, to) - ExpensesForUnit(unitID, expenses, from, to)
}

// OccupiedDays sums nights over the non-cancelled bookings in scope.
func OccupiedDays(bookings []models.Booking) int {
	days := 0
	for i := range bookings {
		if bookings[i].IsActive() {
			days += bookings[i].Nights
		}
	}
	return days
}

// UnitSummary is the rolled-up financial picture of one unit for a period.
type UnitSummary struct {
	UnitID       int64  `json:"unit_id"`
	UnitName     string `json:"unit_name,omitempty"`
	Bookings     int    `json:"bookings"`
	OccupiedDays int    `json:"occupied_days"`
	Revenue      int64  `json:"revenue"`
	Expenses     int64  `json:"expenses"`
	NetProfit    int64  `json:"net_profit"`
}

// Summarize builds a UnitSummary for one unit over the optional period.
func Summarize(unit models.Unit, bookings []models.Booking, expenses []models.Expense, from, to time.Time) UnitSummary {
	var scoped []models.Booking
	for i := range bookings {
		b := bookings[i]
		if b.UnitID == unit.ID && inPeriod(b.StartDate, from, to) {
			scoped = append(scoped, b)
		}
	}

	active := 0
	for i := range scoped {
		if scoped[i].IsActive() {
			active++
		}
	}

	return UnitSummary{
		UnitID:       unit.ID,
		UnitName:     unit.Name,
		Bookings:     active,
		OccupiedDays: OccupiedDays(scoped),
		Revenue:      RevenueForUnit(unit.ID, bookings, from, to),
		Expenses:     ExpensesForUnit(unit.ID, expenses, from, to),
		NetProfit:    NetProfit(unit.ID, bookings, expenses, from, to),
	}
}
