package report

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"manzil/internal/booking"
	"manzil/internal/models"
)

// labels holds the strings a workbook needs in one locale. The locale is
// always an explicit argument; there is no package-level language state.
type labels struct {
	receipt      string
	tenant       string
	phone        string
	unit         string
	period       string
	nights       string
	dailyRate    string
	baseRent     string
	housekeeping string
	deposit      string
	totalRent    string
	grandTotal   string
	report       string
	bookings     string
	occupied     string
	revenue      string
	expenses     string
	netProfit    string
	general      string
	rtl          bool
}

var localeLabels = map[string]labels{
	"en": {
		receipt:      "Booking Receipt",
		tenant:       "Tenant",
		phone:        "Phone",
		unit:         "Unit",
		period:       "Stay",
		nights:       "Nights",
		dailyRate:    "Daily Rate",
		baseRent:     "Base Rent",
		housekeeping: "Housekeeping Fee",
		deposit:      "Refundable Deposit",
		totalRent:    "Total Rent",
		grandTotal:   "Grand Total",
		report:       "Financial Report",
		bookings:     "Bookings",
		occupied:     "Occupied Days",
		revenue:      "Revenue",
		expenses:     "Expenses",
		netProfit:    "Net Profit",
		general:      "General",
	},
	"ar": {
		receipt:      "إيصال حجز",
		tenant:       "المستأجر",
		phone:        "الهاتف",
		unit:         "الوحدة",
		period:       "مدة الإقامة",
		nights:       "الليالي",
		dailyRate:    "السعر اليومي",
		baseRent:     "الإيجار الأساسي",
		housekeeping: "رسوم النظافة",
		deposit:      "التأمين المسترد",
		totalRent:    "إجمالي الإيجار",
		grandTotal:   "الإجمالي الكلي",
		report:       "التقرير المالي",
		bookings:     "الحجوزات",
		occupied:     "أيام الإشغال",
		revenue:      "الإيرادات",
		expenses:     "المصروفات",
		netProfit:    "صافي الربح",
		general:      "مصروفات عامة",
		rtl:          true,
	},
}

func labelsFor(locale string) labels {
	if l, ok := localeLabels[locale]; ok {
		return l
	}
	return localeLabels["en"]
}

// sheetWriter appends rows to one sheet of a workbook.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
}

func newSheetWriter(file *excelize.File, sheet string, rtl bool) (*sheetWriter, error) {
	// Rename the default sheet on first use, create afterwards.
	if file.SheetCount == 1 && file.GetSheetName(0) == "Sheet1" {
		file.SetSheetName("Sheet1", sheet)
	} else if _, err := file.NewSheet(sheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", sheet, err)
	}
	if rtl {
		enabled := true
		if err := file.SetSheetView(sheet, -1, &excelize.ViewOptions{RightToLeft: &enabled}); err != nil {
			return nil, fmt.Errorf("set rtl view: %w", err)
		}
	}
	return &sheetWriter{file: file, sheet: sheet, row: 1}, nil
}

func (w *sheetWriter) writeRow(values ...interface{}) error {
	for i, val := range values {
		cell, err := excelize.CoordinatesToCellName(i+1, w.row)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(w.sheet, cell, val); err != nil {
			return err
		}
	}
	w.row++
	return nil
}

func (w *sheetWriter) writeHeader(values ...interface{}) error {
	start := w.row
	if err := w.writeRow(values...); err != nil {
		return err
	}
	style, err := w.file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		startCell, _ := excelize.CoordinatesToCellName(1, start)
		endCell, _ := excelize.CoordinatesToCellName(len(values), start)
		_ = w.file.SetCellStyle(w.sheet, startCell, endCell, style)
	}
	return nil
}

func (w *sheetWriter) skipRow() { w.row++ }

// BuildReceipt renders one booking's receipt as a workbook. Totals come from
// the pricing engine, never recomputed inline.
func BuildReceipt(b models.Booking, u models.Unit, locale string) (*excelize.File, error) {
	totals, err := booking.TotalsFor(&b)
	if err != nil {
		return nil, fmt.Errorf("receipt totals: %w", err)
	}

	l := labelsFor(locale)
	file := excelize.NewFile()
	w, err := newSheetWriter(file, l.receipt, l.rtl)
	if err != nil {
		return nil, err
	}

	rows := [][]interface{}{
		{l.receipt, b.ReceiptNo},
		{l.tenant, b.TenantName},
		{l.phone, b.Phone},
		{l.unit, u.Name},
		{l.period, booking.FormatRange(b.StartDate, b.EndDate, locale)},
		{l.nights, b.Nights},
		{l.dailyRate, b.DailyRate},
		{l.baseRent, totals.BaseRent},
		{l.housekeeping, totals.HousekeepingFee},
		{l.totalRent, totals.TotalRent},
		{l.grandTotal, totals.GrandTotal},
		{l.deposit, totals.RefundableDeposit},
	}
	for _, r := range rows {
		if err := w.writeRow(r...); err != nil {
			return nil, err
		}
	}
	return file, nil
}

// BuildFinancialReport renders per-unit summaries for the period, followed by
// a general-expenses line and grand totals.
func BuildFinancialReport(units []models.Unit, bookings []models.Booking, expenses []models.Expense, from, to time.Time, locale string) (*excelize.File, error) {
	l := labelsFor(locale)
	file := excelize.NewFile()
	w, err := newSheetWriter(file, l.report, l.rtl)
	if err != nil {
		return nil, err
	}

	if err := w.writeHeader(l.unit, l.bookings, l.occupied, l.revenue, l.expenses, l.netProfit); err != nil {
		return nil, err
	}

	var totalRevenue, totalExpenses int64
	for _, u := range units {
		s := Summarize(u, bookings, expenses, from, to)
		totalRevenue += s.Revenue
		totalExpenses += s.Expenses
		if err := w.writeRow(u.Name, s.Bookings, s.OccupiedDays, s.Revenue, s.Expenses, s.NetProfit); err != nil {
			return nil, err
		}
	}

	general := ExpensesForUnit(GeneralExpenses, expenses, from, to)
	totalExpenses += general
	if err := w.writeRow(l.general, "", "", "", general, -general); err != nil {
		return nil, err
	}

	w.skipRow()
	if err := w.writeHeader(l.netProfit, "", "", totalRevenue, totalExpenses, totalRevenue-totalExpenses); err != nil {
		return nil, err
	}
	return file, nil
}
