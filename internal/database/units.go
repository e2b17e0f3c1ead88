package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"manzil/internal/models"
)

// CreateUnit inserts a unit and fills its ID and timestamps.
func (s *Store) CreateUnit(ctx context.Context, u *models.Unit) error {
	now := time.Now()
	result, err := s.ExecContext(ctx, `
		INSERT INTO units (owner_id, name, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?)`,
		u.OwnerID, u.Name, u.Type, now, now,
	)
	if err != nil {
		return fmt.Errorf("insert unit: %w", err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("last insert id: %w", err)
	}
	u.ID = id
	u.CreatedAt = now
	u.UpdatedAt = now
	return nil
}

// GetUnit returns a unit by ID.
func (s *Store) GetUnit(ctx context.Context, id int64) (*models.Unit, error) {
	var u models.Unit
	err := s.QueryRowContext(ctx, `
		SELECT id, owner_id, name, type, created_at, updated_at
		FROM units WHERE id = ?`, id,
	).Scan(&u.ID, &u.OwnerID, &u.Name, &u.Type, &u.CreatedAt, &u.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ListUnits returns all units for an owner, or every unit when ownerID is 0.
func (s *Store) ListUnits(ctx context.Context, ownerID int64) ([]models.Unit, error) {
	query := `SELECT id, owner_id, name, type, created_at, updated_at FROM units`
	args := []any{}
	if ownerID > 0 {
		query += ` WHERE owner_id = ?`
		args = append(args, ownerID)
	}
	query += ` ORDER BY name, id`

	rows, err := s.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var units []models.Unit
	for rows.Next() {
		var u models.Unit
		if err := rows.Scan(&u.ID, &u.OwnerID, &u.Name, &u.Type, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		units = append(units, u)
	}
	return units, rows.Err()
}

// UpdateUnit changes a unit's name and type.
func (s *Store) UpdateUnit(ctx context.Context, u *models.Unit) error {
	result, err := s.ExecContext(ctx, `
		UPDATE units SET name = ?, type = ?, updated_at = ? WHERE id = ?`,
		u.Name, u.Type, time.Now(), u.ID,
	)
	if err != nil {
		return fmt.Errorf("update unit: %w", err)
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

// DeleteUnit removes a unit. Its bookings cascade with it.
func (s *Store) DeleteUnit(ctx context.Context, id int64) error {
	result, err := s.ExecContext(ctx, `DELETE FROM units WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete unit: %w", err)
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
