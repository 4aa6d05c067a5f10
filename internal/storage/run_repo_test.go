package storage

import (
	"context"
	"testing"
	"time"
)

func newTestRunRepo(t *testing.T) *RunRepo {
	t.Helper()
	db := openTestDB(t)
	if err := Migrate(db); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return NewRunRepo(db)
}

func TestRunRepo_StartFinish(t *testing.T) {
	ctx := context.Background()
	repo := newTestRunRepo(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return base }

	run, err := repo.Start(ctx, "gentler", "gentler streak")
	if err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	if run.ID == "" || run.Status != RunStatusRunning {
		t.Fatalf("Start() = %+v, want generated id and running status", run)
	}

	repo.now = func() time.Time { return base.Add(3 * time.Second) }
	run.Status = RunStatusSucceeded
	run.CatalogID = 1536346373
	run.ScreenshotCount = 4
	if err := repo.Finish(ctx, run); err != nil {
		t.Fatalf("Finish() error = %v", err)
	}
	if run.FinishedAt == nil || !run.FinishedAt.Equal(base.Add(3*time.Second)) {
		t.Errorf("Finish() FinishedAt = %v", run.FinishedAt)
	}

	runs, err := repo.ListRecent(ctx, 10)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("ListRecent() len = %d, want 1", len(runs))
	}
	got := runs[0]
	if got.ID != run.ID || got.Status != RunStatusSucceeded || got.CatalogID != 1536346373 || got.ScreenshotCount != 4 {
		t.Errorf("ListRecent()[0] = %+v", got)
	}
	if !got.StartedAt.Equal(base) {
		t.Errorf("StartedAt = %v, want %v", got.StartedAt, base)
	}
	if got.FinishedAt == nil {
		t.Error("FinishedAt should be set")
	}
}

func TestRunRepo_ListRecentOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newTestRunRepo(t)

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"first", "second", "third"} {
		repo.now = func() time.Time { return base.Add(time.Duration(i) * time.Minute) }
		run, err := repo.Start(ctx, id, id)
		if err != nil {
			t.Fatalf("Start() error = %v", err)
		}
		if id == "second" {
			run.Status = RunStatusFailed
			run.Error = "no catalog results found"
			if err := repo.Finish(ctx, run); err != nil {
				t.Fatalf("Finish() error = %v", err)
			}
		}
	}

	runs, err := repo.ListRecent(ctx, 2)
	if err != nil {
		t.Fatalf("ListRecent() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("ListRecent() len = %d, want 2", len(runs))
	}
	if runs[0].AppID != "third" || runs[1].AppID != "second" {
		t.Errorf("ListRecent() order = %s, %s; want third, second", runs[0].AppID, runs[1].AppID)
	}
	if runs[0].FinishedAt != nil {
		t.Error("unfinished run should have nil FinishedAt")
	}
	if runs[1].Error != "no catalog results found" || runs[1].Status != RunStatusFailed {
		t.Errorf("failed run = %+v", runs[1])
	}
}

func TestRunRepo_FinishUnknown(t *testing.T) {
	repo := newTestRunRepo(t)
	err := repo.Finish(context.Background(), &RunRecord{ID: "missing", Status: RunStatusFailed})
	if err != ErrNotFound {
		t.Errorf("Finish() error = %v, want ErrNotFound", err)
	}
}
