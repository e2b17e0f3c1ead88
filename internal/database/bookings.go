package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"manzil/internal/booking"
	"manzil/internal/models"
)

// BookingFilter narrows ListBookings.
type BookingFilter struct {
	OwnerID int64
	UnitID  int64
	Status  string
	From    time.Time
	To      time.Time
}

const bookingColumns = `id, unit_id, owner_id, tenant_name, phone, start_date, nights, end_date,
	daily_rate, total_amount, status, payment_status, deposit_taken, deposit_amount,
	housekeeping_required, housekeeping_amount, notes, rating, receipt_no, created_at, updated_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (*models.Booking, error) {
	var b models.Booking
	var phone, notes, receiptNo sql.NullString
	err := row.Scan(
		&b.ID, &b.UnitID, &b.OwnerID, &b.TenantName, &phone, &b.StartDate, &b.Nights, &b.EndDate,
		&b.DailyRate, &b.TotalAmount, &b.Status, &b.PaymentStatus, &b.DepositTaken, &b.DepositAmount,
		&b.HousekeepingRequired, &b.HousekeepingAmount, &notes, &b.Rating, &receiptNo,
		&b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.Phone = phone.String
	b.Notes = notes.String
	b.ReceiptNo = receiptNo.String
	return &b, nil
}

// findConflict runs the half-open overlap test in SQL, skipping cancelled
// bookings and the record identified by excludeID. Executed inside the write
// transaction it is the serialization backstop behind the in-memory guard.
func findConflict(ctx context.Context, q interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, unitID int64, start, end time.Time, excludeID int64) (*booking.ConflictError, error) {
	var id int64
	var bStart, bEnd time.Time
	err := q.QueryRowContext(ctx, `
		SELECT id, start_date, end_date FROM bookings
		WHERE unit_id = ? AND status != 'cancelled' AND id != ?
		AND start_date < ? AND end_date > ?
		ORDER BY start_date LIMIT 1`,
		unitID, excludeID, end, start,
	).Scan(&id, &bStart, &bEnd)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("conflict scan: %w", err)
	}
	return &booking.ConflictError{UnitID: unitID, BookingID: id, Start: bStart, End: bEnd}, nil
}

// CreateBooking inserts a prepared booking. The overlap check runs inside the
// insert transaction; on collision the returned error unwraps to
// *booking.ConflictError and nothing is written.
func (s *Store) CreateBooking(ctx context.Context, b *models.Booking) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if b.IsActive() {
		conflict, err := findConflict(ctx, tx, b.UnitID, b.StartDate, b.EndDate, 0)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		INSERT INTO bookings (
			unit_id, owner_id, tenant_name, phone, start_date, nights, end_date,
			daily_rate, total_amount, status, payment_status, deposit_taken, deposit_amount,
			housekeeping_required, housekeeping_amount, notes, rating, receipt_no,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.UnitID, b.OwnerID, b.TenantName, b.Phone, b.StartDate, b.Nights, b.EndDate,
		b.DailyRate, b.TotalAmount, b.Status, b.PaymentStatus, b.DepositTaken, b.DepositAmount,
		b.HousekeepingRequired, b.HousekeepingAmount, b.Notes, b.Rating, b.ReceiptNo,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	b.ID = id
	b.CreatedAt = now
	b.UpdatedAt = now
	return nil
}

// UpdateBooking rewrites a prepared booking. The overlap check excludes the
// booking's own prior record so an unchanged update never conflicts with
// itself.
func (s *Store) UpdateBooking(ctx context.Context, b *models.Booking) error {
	tx, err := s.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if b.IsActive() {
		conflict, err := findConflict(ctx, tx, b.UnitID, b.StartDate, b.EndDate, b.ID)
		if err != nil {
			return err
		}
		if conflict != nil {
			return conflict
		}
	}

	now := time.Now()
	result, err := tx.ExecContext(ctx, `
		UPDATE bookings SET
			unit_id = ?, tenant_name = ?, phone = ?, start_date = ?, nights = ?, end_date = ?,
			daily_rate = ?, total_amount = ?, status = ?, payment_status = ?,
			deposit_taken = ?, deposit_amount = ?, housekeeping_required = ?, housekeeping_amount = ?,
			notes = ?, rating = ?, updated_at = ?
		WHERE id = ?`,
		b.UnitID, b.TenantName, b.Phone, b.StartDate, b.Nights, b.EndDate,
		b.DailyRate, b.TotalAmount, b.Status, b.PaymentStatus,
		b.DepositTaken, b.DepositAmount, b.HousekeepingRequired, b.HousekeepingAmount,
		b.Notes, b.Rating, now, b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	b.UpdatedAt = now
	return nil
}

// GetBooking returns a booking by ID.
func (s *Store) GetBooking(ctx context.Context, id int64) (*models.Booking, error) {
	row := s.QueryRowContext(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE id = ?`, id)
	b, err := scanBooking(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	return b, err
}

// ListBookings returns bookings matching the filter, ordered by start date.
func (s *Store) ListBookings(ctx context.Context, filter BookingFilter) ([]models.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE 1=1`
	var args []any
	if filter.OwnerID > 0 {
		query += ` AND owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	if filter.UnitID > 0 {
		query += ` AND unit_id = ?`
		args = append(args, filter.UnitID)
	}
	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, filter.Status)
	}
	if !filter.From.IsZero() {
		query += ` AND start_date >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND start_date <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY start_date, id`

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// UpdateBookingStatus changes only the booking status.
func (s *Store) UpdateBookingStatus(ctx context.Context, id int64, status string) error {
	if !models.ValidStatus(status) {
		return fmt.Errorf("%w: unknown status %q", booking.ErrInvalidInput, status)
	}
	result, err := s.ExecContext(ctx,
		`UPDATE bookings SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update status: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// UpdateBookingRating sets the post-stay tenant tag.
func (s *Store) UpdateBookingRating(ctx context.Context, id int64, rating string) error {
	if !models.ValidRating(rating) {
		return fmt.Errorf("%w: unknown rating %q", booking.ErrInvalidInput, rating)
	}
	result, err := s.ExecContext(ctx,
		`UPDATE bookings SET rating = ?, updated_at = ? WHERE id = ?`,
		rating, time.Now(), id,
	)
	if err != nil {
		return fmt.Errorf("update rating: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteBooking removes a booking.
func (s *Store) DeleteBooking(ctx context.Context, id int64) error {
	result, err := s.ExecContext(ctx, `DELETE FROM bookings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete booking: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
