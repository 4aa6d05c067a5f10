package storage

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_run_store.go -package=mocks appshelf/internal/storage RunStore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when a record is not found.
	ErrNotFound = errors.New("record not found")
)

// RunStore defines the interface for ingestion ledger operations.
type RunStore interface {
	// Start records a new running ingestion and returns it with a generated ID.
	Start(ctx context.Context, appID, query string) (*RunRecord, error)
	// Finish marks a run as succeeded or failed.
	Finish(ctx context.Context, run *RunRecord) error
	// ListRecent returns the most recent runs, newest first.
	ListRecent(ctx context.Context, limit int) ([]RunRecord, error)
}

// RunRepo provides methods for ingestion ledger operations.
// It implements the RunStore interface.
type RunRepo struct {
	db  *sql.DB
	now func() time.Time
}

// NewRunRepo creates a new RunRepo.
func NewRunRepo(db *sql.DB) *RunRepo {
	return &RunRepo{db: db, now: time.Now}
}

// Start records a new running ingestion.
func (r *RunRepo) Start(ctx context.Context, appID, query string) (*RunRecord, error) {
	run := &RunRecord{
		ID:        uuid.New().String(),
		AppID:     appID,
		Query:     query,
		Status:    RunStatusRunning,
		StartedAt: r.now().UTC(),
	}

	_, err := r.db.ExecContext(ctx,
		"INSERT INTO ingestion_runs (id, app_id, query, status, started_at) VALUES (?, ?, ?, ?, ?)",
		run.ID, run.AppID, run.Query, run.Status, run.StartedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert ingestion run: %w", err)
	}

	return run, nil
}

// Finish stores the final status, counters and error of run and stamps finished_at.
func (r *RunRepo) Finish(ctx context.Context, run *RunRecord) error {
	finished := r.now().UTC()

	result, err := r.db.ExecContext(ctx,
		`UPDATE ingestion_runs
		SET status = ?, catalog_id = ?, screenshot_count = ?, error = ?, finished_at = ?
		WHERE id = ?`,
		run.Status, run.CatalogID, run.ScreenshotCount, run.Error, finished.Format(time.RFC3339Nano), run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update ingestion run: %w", err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check updated rows: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}

	run.FinishedAt = &finished
	return nil
}

// ListRecent returns up to limit runs ordered by start time, newest first.
func (r *RunRepo) ListRecent(ctx context.Context, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.QueryContext(ctx,
		`SELECT id, app_id, query, status, catalog_id, screenshot_count, error, started_at, finished_at
		FROM ingestion_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query ingestion runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		var (
			run        RunRecord
			catalogID  sql.NullInt64
			errText    sql.NullString
			startedAt  string
			finishedAt sql.NullString
		)
		if err := rows.Scan(&run.ID, &run.AppID, &run.Query, &run.Status, &catalogID,
			&run.ScreenshotCount, &errText, &startedAt, &finishedAt); err != nil {
			return nil, fmt.Errorf("failed to scan ingestion run: %w", err)
		}

		run.CatalogID = catalogID.Int64
		run.Error = errText.String

		run.StartedAt, err = time.Parse(time.RFC3339Nano, startedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to parse started_at timestamp: %w", err)
		}
		if finishedAt.Valid {
			t, err := time.Parse(time.RFC3339Nano, finishedAt.String)
			if err != nil {
				return nil, fmt.Errorf("failed to parse finished_at timestamp: %w", err)
			}
			run.FinishedAt = &t
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return runs, nil
}
