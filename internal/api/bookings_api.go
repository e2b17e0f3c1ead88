package api

import (
	"net/http"
	"strconv"

	"manzil/internal/booking"
	"manzil/internal/database"
	"manzil/internal/metrics"
	"manzil/internal/models"
)

// BookingRequest is the request body for creating or updating a booking.
// Dates use YYYY-MM-DD; amounts are minor currency units.
type BookingRequest struct {
	UnitID               int64  `json:"unit_id"`
	OwnerID              int64  `json:"owner_id,omitempty"`
	TenantName           string `json:"tenant_name"`
	Phone                string `json:"phone,omitempty"`
	StartDate            string `json:"start_date"`
	Nights               int    `json:"nights"`
	DailyRate            int64  `json:"daily_rate"`
	Status               string `json:"status,omitempty"`
	PaymentStatus        string `json:"payment_status,omitempty"`
	DepositTaken         bool   `json:"deposit_taken,omitempty"`
	DepositAmount        int64  `json:"deposit_amount,omitempty"`
	HousekeepingRequired bool   `json:"housekeeping_required,omitempty"`
	HousekeepingAmount   int64  `json:"housekeeping_amount,omitempty"`
	Notes                string `json:"notes,omitempty"`
}

func (req *BookingRequest) toModel() (*models.Booking, error) {
	start, err := booking.ParseDate(req.StartDate)
	if err != nil {
		return nil, err
	}
	return &models.Booking{
		UnitID:               req.UnitID,
		OwnerID:              req.OwnerID,
		TenantName:           req.TenantName,
		Phone:                req.Phone,
		StartDate:            start,
		Nights:               req.Nights,
		DailyRate:            req.DailyRate,
		Status:               req.Status,
		PaymentStatus:        req.PaymentStatus,
		DepositTaken:         req.DepositTaken,
		DepositAmount:        req.DepositAmount,
		HousekeepingRequired: req.HousekeepingRequired,
		HousekeepingAmount:   req.HousekeepingAmount,
		Notes:                req.Notes,
	}, nil
}

// handleBookings serves the booking collection.
// GET /api/bookings?unit_id=N&status=S&from=YYYY-MM-DD&to=YYYY-MM-DD
// POST /api/bookings
func (s *HTTPServer) handleBookings(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("bookings")
	switch r.Method {
	case http.MethodGet:
		filter, err := bookingFilterFromQuery(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		bookings, err := s.db.ListBookings(r.Context(), filter)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"bookings": bookings})

	case http.MethodPost:
		var req BookingRequest
		if err := decodeStrict(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		b, err := req.toModel()
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		if err := booking.Prepare(b); err != nil {
			s.writeDomainError(w, err)
			return
		}
		if err := s.preflightConflict(r, b, 0); err != nil {
			metrics.IncBookingConflict()
			s.writeDomainError(w, err)
			return
		}
		if err := s.db.CreateBooking(r.Context(), b); err != nil {
			if _, ok := err.(*booking.ConflictError); ok {
				metrics.IncBookingConflict()
			}
			s.writeDomainError(w, err)
			return
		}
		metrics.IncBookingCreated(b.Status)
		if s.notifier != nil {
			if unit, uerr := s.db.GetUnit(r.Context(), b.UnitID); uerr == nil {
				s.notifier.BookingCreated(r.Context(), b, unit.Name)
			}
		}
		s.log.Info().
			Int64("booking_id", b.ID).
			Int64("unit_id", b.UnitID).
			Str("start", b.StartDate.Format("2006-01-02")).
			Int("nights", b.Nights).
			Msg("booking created")
		writeJSON(w, http.StatusCreated, b)

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

// handleBookingByID serves one booking and its sub-resources.
// GET|PUT|DELETE /api/bookings/{id}
// POST /api/bookings/{id}/status
// POST /api/bookings/{id}/rating
func (s *HTTPServer) handleBookingByID(w http.ResponseWriter, r *http.Request) {
	metrics.IncHTTP("booking")
	id, rest, err := pathID(r.URL.Path, "/api/bookings/")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return
	}

	switch rest {
	case "status":
		s.handleBookingStatus(w, r, id)
		return
	case "rating":
		s.handleBookingRating(w, r, id)
		return
	case "":
	default:
		writeError(w, http.StatusNotFound, "not found")
		return
	}

	switch r.Method {
	case http.MethodGet:
		b, err := s.db.GetBooking(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)

	case http.MethodPut:
		var req BookingRequest
		if err := decodeStrict(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}
		existing, err := s.db.GetBooking(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		b, err := req.toModel()
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		b.ID = existing.ID
		b.OwnerID = existing.OwnerID
		b.Rating = existing.Rating
		b.ReceiptNo = existing.ReceiptNo
		if err := booking.Prepare(b); err != nil {
			s.writeDomainError(w, err)
			return
		}
		if err := s.preflightConflict(r, b, b.ID); err != nil {
			metrics.IncBookingConflict()
			s.writeDomainError(w, err)
			return
		}
		if err := s.db.UpdateBooking(r.Context(), b); err != nil {
			if _, ok := err.(*booking.ConflictError); ok {
				metrics.IncBookingConflict()
			}
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, b)

	case http.MethodDelete:
		if err := s.db.DeleteBooking(r.Context(), id); err != nil {
			s.writeDomainError(w, err)
			return
		}
		s.log.Info().Int64("booking_id", id).Msg("booking deleted")
		writeJSON(w, http.StatusOK, map[string]any{"success": true})

	default:
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (s *HTTPServer) handleBookingStatus(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.db.UpdateBookingStatus(r.Context(), id, req.Status); err != nil {
		s.writeDomainError(w, err)
		return
	}
	if req.Status == models.StatusCancelled && s.notifier != nil {
		if b, berr := s.db.GetBooking(r.Context(), id); berr == nil {
			if unit, uerr := s.db.GetUnit(r.Context(), b.UnitID); uerr == nil {
				s.notifier.BookingCancelled(r.Context(), b, unit.Name)
			}
		}
	}
	s.log.Info().Int64("booking_id", id).Str("status", req.Status).Msg("booking status changed")
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *HTTPServer) handleBookingRating(w http.ResponseWriter, r *http.Request, id int64) {
	if r.Method != http.MethodPost {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	var req struct {
		Rating string `json:"rating"`
	}
	if err := decodeStrict(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if err := s.db.UpdateBookingRating(r.Context(), id, req.Rating); err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"success": true})
}

// preflightConflict runs the in-memory guard over the unit's current
// bookings before the write is attempted. The store repeats the check
// inside its transaction; this pass exists to reject the common case
// without opening one.
func (s *HTTPServer) preflightConflict(r *http.Request, b *models.Booking, excludeID int64) error {
	if !b.IsActive() {
		return nil
	}
	existing, err := s.db.ListBookings(r.Context(), database.BookingFilter{UnitID: b.UnitID})
	if err != nil {
		return err
	}
	if conflict := booking.CheckConflict(b.UnitID, b.StartDate, b.EndDate, existing, excludeID); conflict != nil {
		return conflict
	}
	return nil
}

func bookingFilterFromQuery(r *http.Request) (database.BookingFilter, error) {
	var filter database.BookingFilter
	q := r.URL.Query()
	filter.OwnerID, _ = strconv.ParseInt(q.Get("owner_id"), 10, 64)
	filter.UnitID, _ = strconv.ParseInt(q.Get("unit_id"), 10, 64)
	filter.Status = q.Get("status")

	var err error
	if v := q.Get("from"); v != "" {
		if filter.From, err = booking.ParseDate(v); err != nil {
			return filter, err
		}
	}
	if v := q.Get("to"); v != "" {
		if filter.To, err = booking.ParseDate(v); err != nil {
			return filter, err
		}
	}
	return filter, nil
}
