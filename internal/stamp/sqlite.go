package stamp

import (
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps fingerprints in a single-table sqlite database, for
// setups that want stamp history queryable next to the exported data.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the stamp database at dsn.
// Use ":memory:" for an in-memory database.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if dsn != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode = WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL: %w", err)
		}
	}

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS stamps (
		name TEXT PRIMARY KEY,
		fingerprint TEXT NOT NULL,
		updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Load(name string) (string, error) {
	var fingerprint string
	err := s.db.QueryRow(`SELECT fingerprint FROM stamps WHERE name = ?`, name).Scan(&fingerprint)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoStamp
	}
	if err != nil {
		return "", fmt.Errorf("load stamp %s: %w", name, err)
	}
	return fingerprint, nil
}

func (s *SQLiteStore) Commit(name, fingerprint string) error {
	_, err := s.db.Exec(`INSERT INTO stamps (name, fingerprint, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(name) DO UPDATE SET
			fingerprint = excluded.fingerprint,
			updated_at = CURRENT_TIMESTAMP`, name, fingerprint)
	if err != nil {
		return fmt.Errorf("commit stamp %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error { return s.db.Close() }
