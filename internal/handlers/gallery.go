package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"appshelf/internal/contextutil"
	"appshelf/internal/gallery"
	"appshelf/internal/media"
)

// GalleryHandler serves screenshots as PNG clipboard payloads.
type GalleryHandler struct {
	apps       AppLister
	compositor *gallery.Compositor
	copiers    *gallery.Copiers
}

// NewGalleryHandler creates a new GalleryHandler.
func NewGalleryHandler(apps AppLister, compositor *gallery.Compositor, copiers *gallery.Copiers) *GalleryHandler {
	return &GalleryHandler{apps: apps, compositor: compositor, copiers: copiers}
}

// responseClipboard writes the clipboard payload as the HTTP response body.
type responseClipboard struct {
	w       http.ResponseWriter
	written bool
}

func (c *responseClipboard) WriteImage(mimeType string, data []byte) error {
	c.written = true
	c.w.Header().Set("Content-Type", mimeType)
	c.w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	c.w.Header().Set("Cache-Control", "no-store")
	c.w.WriteHeader(http.StatusOK)
	_, err := c.w.Write(data)
	return err
}

// CopyOne handles GET /api/apps/{id}/screenshots/{index}/copy.
// index is zero-based into the record's screenshot list.
func (h *GalleryHandler) CopyOne(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rec, ok := lookupApp(w, r, h.apps)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil || index < 0 {
		writeError(ctx, w, http.StatusBadRequest, "Invalid screenshot index")
		return
	}
	if index >= len(rec.Screenshots) {
		writeError(ctx, w, http.StatusNotFound, "Screenshot not found")
		return
	}

	src := rec.Screenshots[index]
	if media.IsVideo(src) {
		writeError(ctx, w, http.StatusBadRequest, "Videos cannot be copied")
		return
	}

	data, err := h.compositor.CopySingle(ctx, src)
	if err != nil {
		logger.WarnContext(ctx, "screenshot copy failed", "id", rec.ID, "index", index, "error", err)
		writeError(ctx, w, http.StatusBadGateway, "Failed to load screenshot")
		return
	}

	cb := &responseClipboard{w: w}
	if err := cb.WriteImage("image/png", data); err != nil {
		logger.ErrorContext(ctx, "failed to write screenshot", "error", err)
	}
}

// CopyAll handles POST /api/apps/{id}/screenshots/copy-all.
//
// The response is the composite PNG of every image screenshot. 409 means a
// composite for the same app is still loading; 422 means the app has only videos.
func (h *GalleryHandler) CopyAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := contextutil.LoggerFromContext(ctx)

	rec, ok := lookupApp(w, r, h.apps)
	if !ok {
		return
	}

	cb := &responseClipboard{w: w}
	err := h.copiers.Get(rec.ID).Copy(ctx, rec.Screenshots, cb)
	if err == nil {
		return
	}
	if cb.written {
		logger.ErrorContext(ctx, "failed to write composite", "error", err)
		return
	}

	var decodeErr *gallery.DecodeError
	switch {
	case errors.Is(err, gallery.ErrBusy):
		writeError(ctx, w, http.StatusConflict, "Copy already in progress")
	case errors.Is(err, gallery.ErrNoImages):
		writeError(ctx, w, http.StatusUnprocessableEntity, "No images to copy")
	case errors.As(err, &decodeErr):
		writeError(ctx, w, http.StatusBadGateway, "Failed to load screenshots")
	default:
		writeError(ctx, w, http.StatusInternalServerError, "Failed to copy screenshots")
	}
}
