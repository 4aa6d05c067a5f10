package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"appshelf/internal/articles"
)

// ArticlesHandler serves the insight articles.
type ArticlesHandler struct {
	library *articles.Library
}

// NewArticlesHandler creates a new ArticlesHandler.
func NewArticlesHandler(library *articles.Library) *ArticlesHandler {
	return &ArticlesHandler{library: library}
}

// List handles GET /api/articles. Content is omitted.
func (h *ArticlesHandler) List(w http.ResponseWriter, r *http.Request) {
	writeJSON(r.Context(), w, http.StatusOK, h.library.List())
}

// Get handles GET /api/articles/{slug}.
func (h *ArticlesHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	article, err := h.library.Get(chi.URLParam(r, "slug"))
	if errors.Is(err, articles.ErrNotFound) {
		writeError(ctx, w, http.StatusNotFound, "Article not found")
		return
	}
	if err != nil {
		writeError(ctx, w, http.StatusInternalServerError, "Failed to load article")
		return
	}
	writeJSON(ctx, w, http.StatusOK, article)
}
