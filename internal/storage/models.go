package storage

import "time"

// Run statuses recorded in the ingestion ledger.
const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// RunRecord represents one add-app invocation in the ingestion ledger.
type RunRecord struct {
	ID              string // UUID
	AppID           string // Folder name / record id
	Query           string // Catalog search query
	Status          string
	CatalogID       int64 // Zero until the catalog search succeeds
	ScreenshotCount int
	Error           string
	StartedAt       time.Time
	FinishedAt      *time.Time
}
