package api

import (
	"net/http"
	"strconv"

	"manzil/internal/booking"
	"manzil/internal/database"
	"manzil/internal/metrics"
	"manzil/internal/models"
)

// ExpenseRequest is the request body for recording an expense. A zero
// unit_id records a general overhead expense.
type ExpenseRequest struct {
	OwnerID     int64  `json:"owner_id,omitempty"`
	UnitID      int64  `json:"unit_id,omitempty"`
	Description string `json:"description"`
	Amount      int64  `json:"amount"`
	Category    string `json:"category,omitempty"`
	Date        string `json:"date"`
	Notes       string `json:"notes,omitempty"`
}

// handleExpenses serves the expense collection.
// GET /api/expenses?unit_id=N&from=YYYY-MM-DD&to=YYYY-MM-DD
// POST /api/expenses
func (s *HTTPServer) handleExpenses(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("expenses")
	switch r.Method {
	case http.MethodGet:
		filter := database.ExpenseFilter{UnitID: database.AnyUnit}
		q := r.URL.Query()
		filter.OwnerID, _ = strconv.ParseInt(q.Get("owner_id"), 10, 64)
		if v := q.Get("unit_id"); v != "" {
			id, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				writeError(w, http.StatusBadRequest, "invalid unit_id")
				return
			}
			filter.UnitID = id
		}
		var err error
		if v := q.Get("from"); v != "" {
			if filter.From, err = booking.ParseDate(v); err != nil {
				s.writeDomainError(w, err)
				return
			}
		}
		if v := q.Get("to"); v != "" {
			if filter.To, err = booking.ParseDate(v); err != nil {
				s.writeDomainError(w, err)
				return
			}
		}
		expenses, err := s.db.ListExpenses(r.Context(), filter)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"expenses": expenses})

	case http.MethodPost:
		var req ExpenseRequest
		if err := decodeStrict(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		date, err := booking.ParseDate(req.Date)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		expense := &models.Expense{
			OwnerID:     req.OwnerID,
			UnitID:      req.UnitID,
			Description: req.Description,
			Amount:      req.Amount,
			Category:    req.Category,
			Date:        date,
			Notes:       req.Notes,
		}
		if err := s.db.CreateExpense(r.Context(), expense); err != nil {
			s.writeDomainError(w, err)
			return
		}
		metrics.IncExpenseRecorded()
		s.log.Info().
			Int64("expense_id", expense.ID).
			Int64("unit_id", expense.UnitID).
			Int64("amount", expense.Amount).
			Msg("expense recorded")
		writeJSON(w, http.StatusCreated, expense)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleExpenseByID serves one expense.
// GET|DELETE /api/expenses/{id}
func (s *HTTPServer) handleExpenseByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("expense")
	id, rest, err := pathID(r.URL.Path, "/api/expenses/")
	if err != nil || rest != "" {
		writeError(w, http.StatusBadRequest, "invalid expense id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		expense, err := s.db.GetExpense(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, expense)

	case http.MethodDelete:
		if err := s.db.DeleteExpense(r.Context(), id); err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}
