package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// InitSQLite opens the local SQLite database and creates the schemas for
// the save document and the persisted journal.
func InitSQLite(dbPath string) (*sql.DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	if err := createSchemas(db); err != nil {
		return nil, fmt.Errorf("failed to create schemas: %w", err)
	}

	return db, nil
}

func createSchemas(db *sql.DB) error {
	schemas := []string{
		`CREATE TABLE IF NOT EXISTS saves (
			slot INTEGER PRIMARY KEY,
			schema_version INTEGER NOT NULL,
			saved_at DATETIME NOT NULL,
			checksum TEXT NOT NULL,
			payload BLOB NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS journal (
			id TEXT PRIMARY KEY,
			tick INTEGER NOT NULL,
			timestamp DATETIME NOT NULL,
			severity TEXT NOT NULL,
			code TEXT NOT NULL,
			message TEXT NOT NULL,
			effect TEXT NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_tick ON journal(tick);`,
		`CREATE INDEX IF NOT EXISTS idx_journal_code ON journal(code);`,
	}

	for _, query := range schemas {
		if _, err := db.Exec(query); err != nil {
			return err
		}
	}

	return nil
}
