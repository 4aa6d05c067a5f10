package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"appshelf/internal/contextutil"
	"appshelf/internal/ingest"
)

const appStoreCacheControl = "public, max-age=86400, s-maxage=86400"

// AppStoreHandler proxies live catalog metadata for a list of catalog ids.
type AppStoreHandler struct {
	catalog CatalogLookup
}

// NewAppStoreHandler creates a new AppStoreHandler.
func NewAppStoreHandler(catalog CatalogLookup) *AppStoreHandler {
	return &AppStoreHandler{catalog: catalog}
}

// AppStoreMeta is the trimmed live metadata for one app.
//
// swagger:model AppStoreMeta
type AppStoreMeta struct {
	TrackID   int64  `json:"trackId"`
	TrackName string `json:"trackName"`
	// First two sentences of the catalog description
	Description string `json:"description"`
	Category    string `json:"category"`
}

// ServeHTTP handles GET /api/appstore?ids=1,2,3.
//
// swagger:route GET /api/appstore appStoreLookup
//
// # Live catalog metadata
//
// ---
// produces:
// - application/json
// responses:
//
//	'200':
//	  description: Metadata for every id the catalog knows
//	  schema:
//	    type: array
//	    items:
//	      "$ref": "#/definitions/AppStoreMeta"
//	'400':
//	  description: Missing or invalid ids
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
//	'502':
//	  description: Catalog unavailable
//	  schema:
//	    "$ref": "#/definitions/ErrorResponse"
func (h *AppStoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	raw := r.URL.Query().Get("ids")
	if raw == "" {
		writeError(ctx, w, http.StatusBadRequest, "Missing ids parameter")
		return
	}

	ids, err := parseIDs(raw)
	if err != nil {
		logger.WarnContext(ctx, "invalid ids parameter", "ids", raw, "error", err)
		writeError(ctx, w, http.StatusBadRequest, "Invalid ids parameter")
		return
	}

	entries, err := h.catalog.Lookup(ctx, ids)
	if err != nil {
		logger.ErrorContext(ctx, "catalog lookup failed", "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Catalog lookup failed")
		return
	}

	resp := make([]AppStoreMeta, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, AppStoreMeta{
			TrackID:     e.TrackID,
			TrackName:   e.TrackName,
			Description: ingest.TwoSentences(e.Description),
			Category:    e.PrimaryGenreName,
		})
	}

	w.Header().Set("Cache-Control", appStoreCacheControl)
	writeJSON(ctx, w, http.StatusOK, resp)
}

func parseIDs(raw string) ([]int64, error) {
	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		id, err := strconv.ParseInt(p, 10, 64)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return nil, strconv.ErrSyntax
	}
	return ids, nil
}
