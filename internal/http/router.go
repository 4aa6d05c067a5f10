package http

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"appshelf/internal/articles"
	"appshelf/internal/gallery"
	"appshelf/internal/handlers"
)

// Deps holds dependencies for the HTTP router.
type Deps struct {
	Apps       handlers.AppLister
	Catalog    handlers.CatalogLookup
	Runs       handlers.RunLister // Optional; /api/ingestions is only mounted when set
	Ledger     handlers.Pinger    // Optional; checked by /api/health
	Articles   *articles.Library
	Compositor *gallery.Compositor
	Copiers    *gallery.Copiers

	AssetsDir       string
	AssetsURLPrefix string
}

// NewRouter creates a new HTTP router with the provided dependencies.
func NewRouter(deps *Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(LoggerMiddleware)
	r.Use(RequestLogger)
	r.Use(middleware.Recoverer)
	r.Use(CORS)

	apps := handlers.NewAppsHandler(deps.Apps, deps.Catalog)
	galleryHandler := handlers.NewGalleryHandler(deps.Apps, deps.Compositor, deps.Copiers)
	articlesHandler := handlers.NewArticlesHandler(deps.Articles)

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/health", handlers.NewHealthHandler(deps.Apps, deps.Ledger))
		r.Method(http.MethodGet, "/appstore", handlers.NewAppStoreHandler(deps.Catalog))

		r.Get("/apps", apps.List)
		r.Get("/apps/{id}", apps.Get)
		r.Get("/apps/{id}/screenshots/{index}/copy", galleryHandler.CopyOne)
		r.Post("/apps/{id}/screenshots/copy-all", galleryHandler.CopyAll)

		r.Get("/articles", articlesHandler.List)
		r.Get("/articles/{slug}", articlesHandler.Get)

		if deps.Runs != nil {
			r.Method(http.MethodGet, "/ingestions", handlers.NewIngestionsHandler(deps.Runs))
		}
	})

	if deps.AssetsDir != "" {
		prefix := "/" + strings.Trim(deps.AssetsURLPrefix, "/")
		r.Handle(prefix+"/*", http.StripPrefix(prefix, http.FileServer(http.Dir(deps.AssetsDir))))
	}

	return r
}
