package handlers

import (
	"net/http"
	"strconv"
	"time"

	"appshelf/internal/contextutil"
)

const (
	defaultIngestionLimit = 20
	maxIngestionLimit     = 100
)

// IngestionsHandler lists recent add-app runs from the ledger.
type IngestionsHandler struct {
	runs RunLister
}

// NewIngestionsHandler creates a new IngestionsHandler.
func NewIngestionsHandler(runs RunLister) *IngestionsHandler {
	return &IngestionsHandler{runs: runs}
}

// IngestionResponse is one ledger row.
//
// swagger:model IngestionResponse
type IngestionResponse struct {
	ID              string     `json:"id"`
	AppID           string     `json:"appId"`
	Query           string     `json:"query"`
	Status          string     `json:"status"`
	CatalogID       int64      `json:"catalogId,omitempty"`
	ScreenshotCount int        `json:"screenshotCount"`
	Error           string     `json:"error,omitempty"`
	StartedAt       time.Time  `json:"startedAt"`
	FinishedAt      *time.Time `json:"finishedAt,omitempty"`
}

// ServeHTTP handles GET /api/ingestions?limit=N.
func (h *IngestionsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	limit := defaultIngestionLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			writeError(ctx, w, http.StatusBadRequest, "Invalid limit")
			return
		}
		limit = min(n, maxIngestionLimit)
	}

	runs, err := h.runs.ListRecent(ctx, limit)
	if err != nil {
		logger.ErrorContext(ctx, "failed to list ingestions", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list ingestions")
		return
	}

	resp := make([]IngestionResponse, len(runs))
	for i, run := range runs {
		resp[i] = IngestionResponse{
			ID:              run.ID,
			AppID:           run.AppID,
			Query:           run.Query,
			Status:          run.Status,
			CatalogID:       run.CatalogID,
			ScreenshotCount: run.ScreenshotCount,
			Error:           run.Error,
			StartedAt:       run.StartedAt,
			FinishedAt:      run.FinishedAt,
		}
	}
	writeJSON(ctx, w, http.StatusOK, resp)
}
