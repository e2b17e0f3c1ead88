// Package api exposes the rental ledger over HTTP: unit, booking and
// expense management plus report downloads. Every /api route requires the
// configured x-api-key header.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"manzil/internal/booking"
	"manzil/internal/database"
	"manzil/internal/notify"
	"manzil/internal/report"
)

// HTTPServer serves the management API.
type HTTPServer struct {
	db       *database.Store
	cache    *report.SummaryCache
	notifier notify.Notifier
	log      *zerolog.Logger
	apiKey   string
	locale   string
	limiter  *rate.Limiter
	srv      *http.Server
}

// Options configures NewHTTPServer.
type Options struct {
	Port          int
	APIKey        string
	DefaultLocale string
	RateLimit     float64
	RateBurst     int
	SummaryCache  *report.SummaryCache
	Notifier      notify.Notifier
}

// NewHTTPServer wires the API routes. The summary cache may be nil.
func NewHTTPServer(db *database.Store, log *zerolog.Logger, opts Options) *HTTPServer {
	if opts.DefaultLocale == "" {
		opts.DefaultLocale = "en"
	}
	s := &HTTPServer{
		db:       db,
		cache:    opts.SummaryCache,
		notifier: opts.Notifier,
		log:      log,
		apiKey:   opts.APIKey,
		locale:   opts.DefaultLocale,
		limiter:  rate.NewLimiter(rate.Limit(opts.RateLimit), opts.RateBurst),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/readyz", s.handleReady)
	mux.HandleFunc("/api/units", s.protect(s.handleUnits))
	mux.HandleFunc("/api/units/", s.protect(s.handleUnitByID))
	mux.HandleFunc("/api/bookings", s.protect(s.handleBookings))
	mux.HandleFunc("/api/bookings/", s.protect(s.handleBookingByID))
	mux.HandleFunc("/api/expenses", s.protect(s.handleExpenses))
	mux.HandleFunc("/api/expenses/", s.protect(s.handleExpenseByID))
	mux.HandleFunc("/api/reports/summary", s.protect(s.handleSummary))
	mux.HandleFunc("/api/reports/receipt/", s.protect(s.handleReceipt))
	mux.HandleFunc("/api/reports/financial", s.protect(s.handleFinancialReport))

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", opts.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed handler, mainly for tests.
func (s *HTTPServer) Handler() http.Handler { return s.srv.Handler }

// Start runs the server until Shutdown or failure.
func (s *HTTPServer) Start() error {
	s.log.Info().Str("addr", s.srv.Addr).Msg("api server listening")
	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}

// protect enforces the rate limit and API key on a handler.
func (s *HTTPServer) protect(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.limiter.Allow() {
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		if s.apiKey == "" || r.Header.Get("x-api-key") != s.apiKey {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *HTTPServer) handleReady(w http.ResponseWriter, r *http.Request) {
	if err := s.db.PingContext(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{"error": msg})
}

// writeDomainError maps storage and validation failures onto API statuses.
// Conflicts carry the colliding booking so clients can show the blocked
// window.
func (s *HTTPServer) writeDomainError(w http.ResponseWriter, err error) {
	var conflict *booking.ConflictError
	switch {
	case errors.As(err, &conflict):
		writeJSON(w, http.StatusConflict, map[string]any{
			"error":      conflict.Error(),
			"unit_id":    conflict.UnitID,
			"booking_id": conflict.BookingID,
			"start":      conflict.Start.Format("2006-01-02"),
			"end":        conflict.End.Format("2006-01-02"),
		})
	case errors.Is(err, booking.ErrInvalidInput), errors.Is(err, booking.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, database.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		s.log.Error().Err(err).Msg("request failed")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

// decodeStrict decodes a JSON body rejecting unknown fields.
func decodeStrict(r *http.Request, v any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(v)
}

// pathID extracts the numeric ID segment after prefix, returning the ID and
// any trailing sub-path ("status", "rating").
func pathID(path, prefix string) (int64, string, error) {
	if len(path) <= len(prefix) || path[:len(prefix)] != prefix {
		return 0, "", fmt.Errorf("invalid path")
	}
	rest := path[len(prefix):]
	var id int64
	i := 0
	for ; i < len(rest) && rest[i] >= '0' && rest[i] <= '9'; i++ {
		id = id*10 + int64(rest[i]-'0')
	}
	if i == 0 || id == 0 {
		return 0, "", fmt.Errorf("invalid id")
	}
	if i < len(rest) {
		if rest[i] != '/' {
			return 0, "", fmt.Errorf("invalid path")
		}
		return id, rest[i+1:], nil
	}
	return id, "", nil
}
