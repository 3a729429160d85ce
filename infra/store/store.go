// Package store implements the project database on SQLite. Both the
// canonical database and the per-task copies go through this package.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrNoTable is returned when an operation targets a table that does not exist.
var ErrNoTable = errors.New("table not found")

// Store wraps one SQLite database file.
type Store struct {
	db   *sql.DB
	path string
}

// Open opens the SQLite database at dbPath, creating it when missing.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set WAL mode: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	return &Store{db: db, path: dbPath}, nil
}

// Close closes the underlying database connection. Required before the
// backing file may be deleted on platforms that hold exclusive locks.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string { return s.path }

// HasTable reports whether the named table exists.
func (s *Store) HasTable(ctx context.Context, name string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name,
	).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("query sqlite_master: %w", err)
	}
	return n > 0, nil
}

// TableNames lists all tables in the database.
func (s *Store) TableNames(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT name FROM sqlite_master WHERE type = 'table' AND name NOT LIKE 'sqlite_%' ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("list tables: %w", err)
	}
	defer rows.Close()
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("scan table name: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// CountRows returns the row count of the named table.
func (s *Store) CountRows(ctx context.Context, table string) (int, error) {
	ok, err := s.HasTable(ctx, table)
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrNoTable, table)
	}
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+quoteIdent(table)).Scan(&n); err != nil {
		return 0, fmt.Errorf("count rows of %s: %w", table, err)
	}
	return n, nil
}

// CopyTo writes a consistent copy of the database to targetPath using
// VACUUM INTO, which is safe while the source is in WAL mode.
func (s *Store) CopyTo(ctx context.Context, targetPath string) error {
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO ?", targetPath); err != nil {
		return fmt.Errorf("copy database to %s: %w", targetPath, err)
	}
	return nil
}

// quoteIdent quotes an SQL identifier. Table names come from the fixed
// project table set, never from user input.
func quoteIdent(name string) string {
	return `"` + name + `"`
}
