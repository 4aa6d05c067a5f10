package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appshelf/internal/contextutil"
	"appshelf/internal/ingest"
	"appshelf/internal/store"
)

// AppsHandler serves the directory records.
type AppsHandler struct {
	apps    AppLister
	catalog CatalogLookup
}

// NewAppsHandler creates a new AppsHandler. catalog is used only for ?live=true.
func NewAppsHandler(apps AppLister, catalog CatalogLookup) *AppsHandler {
	return &AppsHandler{apps: apps, catalog: catalog}
}

// List handles GET /api/apps.
//
// With live=true each record's category and description are replaced by the
// catalog's current values for this response only. A failed lookup is logged
// and the stored records are returned unchanged.
func (h *AppsHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	records, err := h.apps.List()
	if err != nil {
		logger.ErrorContext(ctx, "failed to list apps", "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to list apps")
		return
	}
	if records == nil {
		records = []store.AppRecord{}
	}

	if r.URL.Query().Get("live") == "true" && h.catalog != nil && len(records) > 0 {
		records = h.applyLive(r, records)
	}

	writeJSON(ctx, w, http.StatusOK, records)
}

func (h *AppsHandler) applyLive(r *http.Request, records []store.AppRecord) []store.AppRecord {
	ctx := r.Context()

	ids := make([]int64, 0, len(records))
	for _, rec := range records {
		ids = append(ids, rec.AppStoreID)
	}

	entries, err := h.catalog.Lookup(ctx, ids)
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "live metadata lookup failed", "error", err)
		return records
	}

	byID := make(map[int64]int, len(entries))
	for i, e := range entries {
		byID[e.TrackID] = i
	}

	out := make([]store.AppRecord, len(records))
	for i, rec := range records {
		if j, ok := byID[rec.AppStoreID]; ok {
			rec.Category = entries[j].PrimaryGenreName
			rec.Description = ingest.TwoSentences(entries[j].Description)
		}
		out[i] = rec
	}
	return out
}

// Get handles GET /api/apps/{id}.
func (h *AppsHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	rec, ok := lookupApp(w, r, h.apps)
	if !ok {
		return
	}
	writeJSON(ctx, w, http.StatusOK, rec)
}

// lookupApp resolves the {id} URL parameter, writing 404 or 500 on failure.
func lookupApp(w http.ResponseWriter, r *http.Request, apps AppLister) (store.AppRecord, bool) {
	ctx := r.Context()
	id := chi.URLParam(r, "id")

	rec, err := apps.Get(id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "App not found")
		return store.AppRecord{}, false
	}
	if err != nil {
		contextutil.LoggerFromContext(ctx).ErrorContext(ctx, "failed to load app", "id", id, "error", err)
		writeError(ctx, w, http.StatusInternalServerError, "Failed to load app")
		return store.AppRecord{}, false
	}
	return rec, true
}
