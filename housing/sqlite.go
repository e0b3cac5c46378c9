package housing

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS properties (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    total_units INTEGER NOT NULL CHECK (total_units >= 0),
    active_subs INTEGER NOT NULL CHECK (active_subs >= 0),
    owner_type TEXT NOT NULL
);
`

// Store keeps loaded property records in a SQLite database so that a
// cleaned data set can be clustered repeatedly without re-reading the CSV.
type Store struct {
	db *sql.DB
}

// Open opens or creates the SQLite database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// Import appends records in a single transaction and returns how many were written.
func (s *Store) Import(ctx context.Context, records []Record) (int, error) {
	return s.write(ctx, records, false)
}

// Replace deletes every stored record and writes records in their place, in a
// single transaction. Importing the same file twice therefore keeps one copy.
func (s *Store) Replace(ctx context.Context, records []Record) (int, error) {
	return s.write(ctx, records, true)
}

func (s *Store) write(ctx context.Context, records []Record, truncate bool) (int, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if truncate {
		if _, err := tx.ExecContext(ctx, "DELETE FROM properties"); err != nil {
			return 0, fmt.Errorf("failed to clear records: %w", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO properties (total_units, active_subs, owner_type) VALUES (?, ?, ?)")
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, r := range records {
		if _, err := stmt.ExecContext(ctx, r.TotalUnits, r.SubsidyCount, r.OwnerType); err != nil {
			return 0, fmt.Errorf("failed to insert record %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit: %w", err)
	}
	return len(records), nil
}

// Records returns every stored record in insertion order.
func (s *Store) Records(ctx context.Context) ([]Record, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT total_units, active_subs, owner_type FROM properties ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("failed to query records: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var r Record
		if err := rows.Scan(&r.TotalUnits, &r.SubsidyCount, &r.OwnerType); err != nil {
			return nil, fmt.Errorf("failed to scan record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// Count returns the number of stored records.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM properties").Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return n, nil
}
