// Package sheets mirrors bookings into a Google Sheets spreadsheet the
// owner shares with accountants. The spreadsheet is a one-way export; the
// database stays the source of truth.
package sheets

import (
	"context"
	"fmt"
	"os"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"manzil/internal/models"
)

var headerRow = []interface{}{
	"ID", "Unit", "Tenant", "Phone", "Check-in", "Check-out", "Nights",
	"Daily Rate", "Total", "Deposit", "Status", "Payment", "Receipt",
}

// SheetsService syncs bookings to one sheet of a spreadsheet. The row cache
// maps booking IDs to sheet rows so repeated syncs update in place instead
// of appending duplicates.
type SheetsService struct {
	srv           *sheets.Service
	spreadsheetID string
	sheetName     string
	log           *zerolog.Logger

	mu       sync.Mutex
	rowCache map[int64]int
}

// NewSheetsService authenticates with a service-account credentials file.
func NewSheetsService(ctx context.Context, credentialsFile, spreadsheetID, sheetName string, log *zerolog.Logger) (*SheetsService, error) {
	data, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	conf, err := google.JWTConfigFromJSON(data, sheets.SpreadsheetsScope)
	if err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	srv, err := sheets.NewService(ctx, option.WithHTTPClient(conf.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("sheets client: %w", err)
	}
	return &SheetsService{
		srv:           srv,
		spreadsheetID: spreadsheetID,
		sheetName:     sheetName,
		log:           log,
		rowCache:      make(map[int64]int),
	}, nil
}

func (s *SheetsService) filterActiveBookings(bookings []models.Booking) []models.Booking {
	active := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.IsActive() {
			active = append(active, b)
		}
	}
	return active
}

func bookingRowValues(b *models.Booking, unitName string) []interface{} {
	return []interface{}{
		b.ID,
		unitName,
		b.TenantName,
		b.Phone,
		b.StartDate.Format("2006-01-02"),
		b.EndDate.Format("2006-01-02"),
		b.Nights,
		b.DailyRate,
		b.TotalAmount,
		b.DepositAmount,
		b.Status,
		b.PaymentStatus,
		b.ReceiptNo,
	}
}

func (s *SheetsService) getCachedRow(bookingID int64) (int, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rowCache[bookingID]
	return row, ok
}

func (s *SheetsService) setCachedRow(bookingID int64, row int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache[bookingID] = row
}

// ClearCache drops the booking-to-row mapping, forcing the next sync to
// rewrite the sheet from scratch.
func (s *SheetsService) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rowCache = make(map[int64]int)
}

// SyncBookings rewrites the sheet with the active bookings. Unit names are
// resolved through the given map (unit ID to name).
func (s *SheetsService) SyncBookings(ctx context.Context, bookings []models.Booking, unitNames map[int64]string) error {
	active := s.filterActiveBookings(bookings)

	values := make([][]interface{}, 0, len(active)+1)
	values = append(values, headerRow)
	for i := range active {
		b := &active[i]
		values = append(values, bookingRowValues(b, unitNames[b.UnitID]))
		s.setCachedRow(b.ID, len(values))
	}

	rangeName := fmt.Sprintf("%s!A1", s.sheetName)
	_, err := s.srv.Spreadsheets.Values.Update(s.spreadsheetID, rangeName, &sheets.ValueRange{
		Values: values,
	}).ValueInputOption("RAW").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("update sheet: %w", err)
	}

	s.log.Info().Int("bookings", len(active)).Msg("sheet synced")
	return nil
}
