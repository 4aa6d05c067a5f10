package storage

import (
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// New opens the ledger database at path.
// The API server reads the ledger while addapp writes to it, so the database
// runs in WAL mode and waits on locks instead of failing immediately.
func New(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxIdleTime(5 * time.Minute)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open ledger %s: %w", path, err)
	}

	return db, nil
}

// Migrate runs database migrations to create the required tables.
// It is idempotent and can be run multiple times safely.
func Migrate(db *sql.DB) error {
	schema := []string{
		`CREATE TABLE IF NOT EXISTS ingestion_runs (
			id TEXT PRIMARY KEY,
			app_id TEXT NOT NULL,
			query TEXT NOT NULL,
			status TEXT NOT NULL,
			catalog_id INTEGER,
			screenshot_count INTEGER NOT NULL DEFAULT 0,
			error TEXT,
			started_at DATETIME NOT NULL,
			finished_at DATETIME
		);`,
		`CREATE INDEX IF NOT EXISTS idx_ingestion_runs_started_at ON ingestion_runs(started_at);`,
		`CREATE INDEX IF NOT EXISTS idx_ingestion_runs_app_id ON ingestion_runs(app_id);`,
	}

	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migrate ledger: %w", err)
		}
	}

	return nil
}
