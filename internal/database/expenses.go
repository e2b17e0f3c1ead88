package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"manzil/internal/booking"
	"manzil/internal/models"
)

// ExpenseFilter narrows ListExpenses. UnitID -1 means any unit; 0 means
// general expenses only.
type ExpenseFilter struct {
	OwnerID int64
	UnitID  int64
	From    time.Time
	To      time.Time
}

// AnyUnit matches expenses regardless of unit.
const AnyUnit int64 = -1

// CreateExpense inserts an expense and fills its ID and timestamps.
func (s *Store) CreateExpense(ctx context.Context, e *models.Expense) error {
	if e.Amount < 0 {
		return fmt.Errorf("%w: expense amount is negative", booking.ErrInvalidInput)
	}
	if e.Description == "" {
		return fmt.Errorf("%w: expense description is required", booking.ErrInvalidInput)
	}
	if e.Date.IsZero() {
		return fmt.Errorf("%w: expense date is required", booking.ErrInvalidInput)
	}

	now := time.Now()
	result, err := s.ExecContext(ctx, `
		INSERT INTO expenses (owner_id, unit_id, description, amount, category, date, notes, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.OwnerID, e.UnitID, e.Description, e.Amount, e.Category, e.Date, e.Notes, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	e.CreatedAt = now
	e.UpdatedAt = now
	return nil
}

// GetExpense returns an expense by ID.
func (s *Store) GetExpense(ctx context.Context, id int64) (*models.Expense, error) {
	var e models.Expense
	var category, notes sql.NullString
	err := s.QueryRowContext(ctx, `
		SELECT id, owner_id, unit_id, description, amount, category, date, notes, created_at, updated_at
		FROM expenses WHERE id = ?`, id,
	).Scan(&e.ID, &e.OwnerID, &e.UnitID, &e.Description, &e.Amount, &category, &e.Date, &notes, &e.CreatedAt, &e.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	e.Category = category.String
	e.Notes = notes.String
	return &e, nil
}

// ListExpenses returns expenses matching the filter, newest first.
func (s *Store) ListExpenses(ctx context.Context, filter ExpenseFilter) ([]models.Expense, error) {
	query := `
		SELECT id, owner_id, unit_id, description, amount, category, date, notes, created_at, updated_at
		FROM expenses WHERE 1=1`
	var args []any
	if filter.OwnerID > 0 {
		query += ` AND owner_id = ?`
		args = append(args, filter.OwnerID)
	}
	if filter.UnitID != AnyUnit {
		query += ` AND unit_id = ?`
		args = append(args, filter.UnitID)
	}
	if !filter.From.IsZero() {
		query += ` AND date >= ?`
		args = append(args, filter.From)
	}
	if !filter.To.IsZero() {
		query += ` AND date <= ?`
		args = append(args, filter.To)
	}
	query += ` ORDER BY date DESC, id DESC`

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []models.Expense
	for rows.Next() {
		var e models.Expense
		var category, notes sql.NullString
		if err := rows.Scan(&e.ID, &e.OwnerID, &e.UnitID, &e.Description, &e.Amount, &category, &e.Date, &notes, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, err
		}
		e.Category = category.String
		e.Notes = notes.String
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

// DeleteExpense removes an expense.
func (s *Store) DeleteExpense(ctx context.Context, id int64) error {
	result, err := s.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete expense: %w", err)
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
