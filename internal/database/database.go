// Package database is the SQLite persistence layer. It owns the schema and
// is the serialization point for booking writes: the conflict guard's
// pre-flight check is repeated inside the write transaction so that two
// concurrent submissions can never both land.
package database

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3" // sqlite3 driver
	"github.com/rs/zerolog"
)

// Store wraps the database connection.
type Store struct {
	*sql.DB
	logger *zerolog.Logger
}

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("record not found")

// NewStore opens the database at path and creates tables if they don't exist.
func NewStore(path string, logger *zerolog.Logger) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	// WAL mode and a busy timeout keep concurrent writers from failing fast.
	// _txlock=immediate takes the write lock at BEGIN, so the conflict check
	// inside a booking transaction always sees committed rivals.
	dsn := path + "?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000&_foreign_keys=on&_txlock=immediate"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(time.Hour)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	s := &Store{DB: db, logger: logger}
	if err := s.createTables(); err != nil {
		return nil, fmt.Errorf("create tables: %w", err)
	}

	logger.Info().Str("path", path).Msg("database initialized")
	return s, nil
}

func (s *Store) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS units (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			name TEXT NOT NULL,
			type TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE TABLE IF NOT EXISTS bookings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			unit_id INTEGER NOT NULL,
			owner_id INTEGER NOT NULL,
			tenant_name TEXT NOT NULL,
			phone TEXT,
			start_date DATETIME NOT NULL,
			nights INTEGER NOT NULL,
			end_date DATETIME NOT NULL,
			daily_rate INTEGER NOT NULL DEFAULT 0,
			total_amount INTEGER NOT NULL DEFAULT 0,
			status TEXT NOT NULL DEFAULT 'unconfirmed',
			payment_status TEXT NOT NULL DEFAULT 'pending',
			deposit_taken BOOLEAN NOT NULL DEFAULT 0,
			deposit_amount INTEGER NOT NULL DEFAULT 0,
			housekeeping_required BOOLEAN NOT NULL DEFAULT 0,
			housekeeping_amount INTEGER NOT NULL DEFAULT 0,
			notes TEXT,
			rating TEXT NOT NULL DEFAULT '',
			receipt_no TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (unit_id) REFERENCES units(id) ON DELETE CASCADE
		)`,

		`CREATE TABLE IF NOT EXISTS expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			owner_id INTEGER NOT NULL,
			unit_id INTEGER NOT NULL DEFAULT 0,
			description TEXT NOT NULL,
			amount INTEGER NOT NULL DEFAULT 0,
			category TEXT,
			date DATETIME NOT NULL,
			notes TEXT,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,

		`CREATE INDEX IF NOT EXISTS idx_units_owner ON units(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_unit_dates ON bookings(unit_id, start_date, end_date)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_status ON bookings(status)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_owner ON bookings(owner_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_unit ON expenses(unit_id)`,
		`CREATE INDEX IF NOT EXISTS idx_expenses_date ON expenses(date)`,
	}

	for _, query := range queries {
		if _, err := s.Exec(query); err != nil {
			return fmt.Errorf("exec migration: %w", err)
		}
	}
	return nil
}

func (s *Store) Close() error {
	return s.DB.Close()
}
