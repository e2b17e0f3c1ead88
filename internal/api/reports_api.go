package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/xuri/excelize/v2"

	"manzil/internal/booking"
	"manzil/internal/database"
	"manzil/internal/metrics"
	"manzil/internal/models"
	"manzil/internal/report"
)

func periodFromQuery(r *http.Request) (from, to time.Time, err error) {
	q := r.URL.Query()
	if v := q.Get("from"); v != "" {
		if from, err = booking.ParseDate(v); err != nil {
			return
		}
	}
	if v := q.Get("to"); v != "" {
		if to, err = booking.ParseDate(v); err != nil {
			return
		}
	}
	return
}

func (s *HTTPServer) localeFromQuery(r *http.Request) string {
	if l := r.URL.Query().Get("locale"); l != "" {
		return l
	}
	return s.locale
}

// handleSummary returns per-unit financial summaries for a period.
// GET /api/reports/summary?unit_id=N&from=YYYY-MM-DD&to=YYYY-MM-DD
//
// With unit_id the response is cached in Redis; without it every unit is
// summarized fresh.
func (s *HTTPServer) handleSummary(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_summary")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, err := periodFromQuery(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	unitID, _ := strconv.ParseInt(r.URL.Query().Get("unit_id"), 10, 64)

	if unitID > 0 {
		var cached report.UnitSummary
		key := report.SummaryKey(unitID, from, to)
		if s.cache.Get(r.Context(), key, &cached) {
			writeJSON(w, http.StatusOK, map[string]any{"summaries": []report.UnitSummary{cached}})
			return
		}
		unit, err := s.db.GetUnit(r.Context(), unitID)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		summary, err := s.summarizeUnit(r, *unit, from, to)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.cache.Set(r.Context(), key, summary)
		writeJSON(w, http.StatusOK, map[string]any{"summaries": []report.UnitSummary{summary}})
		return
	}

	units, err := s.db.ListUnits(r.Context(), 0)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	summaries := make([]report.UnitSummary, 0, len(units))
	for _, u := range units {
		summary, err := s.summarizeUnit(r, u, from, to)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		summaries = append(summaries, summary)
	}
	writeJSON(w, http.StatusOK, map[string]any{"summaries": summaries})
}

func (s *HTTPServer) summarizeUnit(r *http.Request, unit models.Unit, from, to time.Time) (report.UnitSummary, error) {
	bookings, err := s.db.ListBookings(r.Context(), database.BookingFilter{UnitID: unit.ID})
	if err != nil {
		return report.UnitSummary{}, err
	}
	expenses, err := s.db.ListExpenses(r.Context(), database.ExpenseFilter{UnitID: unit.ID})
	if err != nil {
		return report.UnitSummary{}, err
	}
	return report.Summarize(unit, bookings, expenses, from, to), nil
}

// handleReceipt streams a booking receipt workbook.
// GET /api/reports/receipt/{booking_id}?locale=en|ar
func (s *HTTPServer) handleReceipt(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_receipt")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	id, rest, err := pathID(r.URL.Path, "/api/reports/receipt/")
	if err != nil || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	b, err := s.db.GetBooking(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	unit, err := s.db.GetUnit(r.Context(), b.UnitID)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	file, err := report.BuildReceipt(*b, *unit, s.localeFromQuery(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	metrics.IncReceiptGenerated()
	s.writeWorkbook(w, file, fmt.Sprintf("receipt-%d.xlsx", b.ID))
}

// handleFinancialReport streams the per-unit financial workbook.
// GET /api/reports/financial?from=YYYY-MM-DD&to=YYYY-MM-DD&locale=en|ar
func (s *HTTPServer) handleFinancialReport(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("report_financial")
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	from, to, err := periodFromQuery(r)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	units, err := s.db.ListUnits(r.Context(), 0)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	bookings, err := s.db.ListBookings(r.Context(), database.BookingFilter{})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	expenses, err := s.db.ListExpenses(r.Context(), database.ExpenseFilter{UnitID: database.AnyUnit})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	file, err := report.BuildFinancialReport(units, bookings, expenses, from, to, s.localeFromQuery(r))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	s.writeWorkbook(w, file, "financial-report.xlsx")
}

func (s *HTTPServer) writeWorkbook(w http.ResponseWriter, file *excelize.File, name string) {
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	if err := file.Write(w); err != nil {
		s.log.Error().Err(err).Msg("failed to stream workbook")
	}
}
