package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"appshelf/internal/articles"
	"appshelf/internal/catalog"
	"appshelf/internal/config"
	"appshelf/internal/gallery"
	"appshelf/internal/http"
	"appshelf/internal/storage"
	"appshelf/internal/store"
)

//go:generate swagger generate spec -o swagger.json

// General API information
//
// Serves the app directory: records, live catalog metadata, screenshot
// clipboard images, articles and the ingestion ledger.
//
// swagger:meta
//
// ---
// swagger: '2.0'
// info:
//   title: Appshelf API
//   description: |
//     Read API for the curated app directory. Records are added offline with the addapp command.
//   version: 1.0.0
// schemes:
//   - http
//   - https
// consumes:
//   - application/json
// produces:
//   - application/json
//   - image/png

const lookupCacheSize = 256

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	slog.SetDefault(slog.New(handler))
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	if cfg.StoreFormat != "json" {
		log.Fatalf("The API serves the JSON record store only; STORE_FORMAT is %q", cfg.StoreFormat)
	}
	apps := store.NewJSONStore(cfg.StorePath)
	if _, err := apps.List(); err != nil {
		log.Fatalf("Failed to read record store: %v", err)
	}
	slog.Info("Record store ready", "path", cfg.StorePath)

	db, err := storage.New(cfg.LedgerDBPath)
	if err != nil {
		log.Fatalf("Failed to open ledger database: %v", err)
	}
	defer func() {
		_ = db.Close()
	}()
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Ledger initialized", "path", cfg.LedgerDBPath)

	library, err := articles.LoadDir(cfg.ArticlesDir)
	if err != nil {
		log.Fatalf("Failed to load articles: %v", err)
	}
	slog.Info("Articles loaded", "dir", cfg.ArticlesDir, "count", len(library.List()))

	catalogClient := catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogCountry,
		catalog.NewCachingHTTPClient(lookupCacheSize, cfg.LookupCacheTTL))

	compositor := gallery.NewCompositor(
		gallery.NewLoader(&nethttp.Client{Timeout: 30 * time.Second}, cfg.AssetsDir, cfg.AssetsURLPrefix),
		cfg.CompositeGap,
	)
	copiers := gallery.NewCopiers(compositor, cfg.CopyResetDelay)
	defer copiers.Close()

	router := http.NewRouter(&http.Deps{
		Apps:            apps,
		Catalog:         catalogClient,
		Runs:            storage.NewRunRepo(db),
		Ledger:          db,
		Articles:        library,
		Compositor:      compositor,
		Copiers:         copiers,
		AssetsDir:       cfg.AssetsDir,
		AssetsURLPrefix: cfg.AssetsURLPrefix,
	})

	server := &nethttp.Server{
		Addr:              ":" + cfg.APIPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Server shutdown failed", "error", err)
		}
	}()

	slog.Info("Starting API server", "addr", server.Addr)
	slog.Debug("Catalog configuration", "base_url", cfg.CatalogBaseURL, "country", cfg.CatalogCountry)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, nethttp.ErrServerClosed) {
		log.Fatalf("API server failed: %v", err)
	}
	slog.Info("API server stopped")
}
