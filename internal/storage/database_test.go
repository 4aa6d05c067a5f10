package storage

import (
	"database/sql"
	"path/filepath"
	"testing"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := New(filepath.Join(t.TempDir(), "ledger.db"))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		{
			name:    "valid path",
			path:    filepath.Join(t.TempDir(), "ledger.db"),
			wantErr: false,
		},
		{
			name:    "missing directory",
			path:    "/nonexistent/path/ledger.db",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, err := New(tt.path)
			if db != nil {
				defer func() {
					_ = db.Close()
				}()
			}

			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && db.Stats().MaxOpenConnections != 4 {
				t.Errorf("New() MaxOpenConnections = %v, want 4", db.Stats().MaxOpenConnections)
			}
		})
	}
}

func TestNew_UsesWAL(t *testing.T) {
	db := openTestDB(t)

	var mode string
	if err := db.QueryRow("PRAGMA journal_mode").Scan(&mode); err != nil {
		t.Fatalf("PRAGMA journal_mode error = %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := openTestDB(t)

	for i := 0; i < 2; i++ {
		if err := Migrate(db); err != nil {
			t.Fatalf("Migrate() run %d error = %v", i+1, err)
		}
	}

	objects := []struct {
		kind string
		name string
	}{
		{"table", "ingestion_runs"},
		{"index", "idx_ingestion_runs_started_at"},
		{"index", "idx_ingestion_runs_app_id"},
	}
	for _, obj := range objects {
		var count int
		err := db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type=? AND name=?", obj.kind, obj.name).Scan(&count)
		if err != nil {
			t.Fatalf("Failed to check %s %s: %v", obj.kind, obj.name, err)
		}
		if count != 1 {
			t.Errorf("Migrate() %s %s not created", obj.kind, obj.name)
		}
	}
}
