package ingest

//go:generate go run go.uber.org/mock/mockgen@latest -destination=mocks/mock_catalog.go -package=mocks appshelf/internal/ingest Catalog

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"appshelf/internal/catalog"
	"appshelf/internal/contextutil"
	"appshelf/internal/storage"
	"appshelf/internal/store"
)

// Catalog resolves a free-text query to a single catalog entry.
// This interface is defined from the pipeline's perspective (consumer-first).
type Catalog interface {
	// Search returns the best (first) match for term, or catalog.ErrNoResults.
	Search(ctx context.Context, term string) (catalog.Entry, error)
}

// recordGetter is implemented by stores that can be checked for an existing id up front.
type recordGetter interface {
	Get(id string) (store.AppRecord, error)
}

// Request is one add-app invocation.
type Request struct {
	Dir     string // Asset folder name; lowercased to become the record id
	Search  string // Catalog search query
	Color   string // Optional accent color override (#rrggbb or rrggbb)
	Excerpt bool   // Store a short description instead of the full text
}

// Summary describes a successfully added app.
type Summary struct {
	ID          string
	Name        string
	Category    string
	Screenshots int
	AccentColor string
	AppStoreID  int64
	Downloaded  bool // Screenshots were fetched from the catalog rather than staged locally
}

// Pipeline runs catalog lookup, screenshot resolution, downloads, record synthesis
// and the store append, in that order. Nothing is appended unless every earlier step succeeds.
type Pipeline struct {
	catalog    Catalog
	downloader *Downloader
	store      store.Appender
	ledger     storage.RunStore
	assetsDir  string
	urlPrefix  string
}

// NewPipeline creates a new ingestion pipeline. ledger may be nil.
func NewPipeline(
	cat Catalog,
	downloader *Downloader,
	appender store.Appender,
	ledger storage.RunStore,
	assetsDir string,
	urlPrefix string,
) *Pipeline {
	return &Pipeline{
		catalog:    cat,
		downloader: downloader,
		store:      appender,
		ledger:     ledger,
		assetsDir:  assetsDir,
		urlPrefix:  urlPrefix,
	}
}

// Normalize validates req and returns it with the id lowercased and the color canonicalized.
func (req Request) Normalize() (Request, error) {
	req.Dir = strings.ToLower(strings.TrimSpace(req.Dir))
	req.Search = strings.TrimSpace(req.Search)
	req.Color = strings.TrimSpace(req.Color)

	if req.Dir == "" {
		return req, &UsageError{Field: "dir", Message: "is required"}
	}
	if strings.ContainsAny(req.Dir, `/\`) || req.Dir == "." || req.Dir == ".." {
		return req, &UsageError{Field: "dir", Message: "must be a single folder name"}
	}
	if req.Search == "" {
		return req, &UsageError{Field: "search", Message: "is required"}
	}
	if req.Color != "" {
		if !strings.HasPrefix(req.Color, "#") {
			req.Color = "#" + req.Color
		}
		req.Color = strings.ToLower(req.Color)
		if !store.IsHexColor(req.Color) {
			return req, &UsageError{Field: "color", Message: "must be a 6-digit hex color"}
		}
	}
	return req, nil
}

// Run executes the pipeline for req.
func (p *Pipeline) Run(ctx context.Context, req Request) (Summary, error) {
	req, err := req.Normalize()
	if err != nil {
		return Summary{}, err
	}

	logger := contextutil.LoggerFromContext(ctx).With("app_id", req.Dir)
	ctx = contextutil.WithLogger(ctx, logger)

	var run *storage.RunRecord
	if p.ledger != nil {
		run, err = p.ledger.Start(ctx, req.Dir, req.Search)
		if err != nil {
			logger.WarnContext(ctx, "failed to record ingestion run", "error", err)
		}
	}

	summary, err := p.run(ctx, req)

	if run != nil {
		run.CatalogID = summary.AppStoreID
		run.ScreenshotCount = summary.Screenshots
		run.Status = storage.RunStatusSucceeded
		if err != nil {
			run.Status = storage.RunStatusFailed
			run.Error = err.Error()
		}
		if ferr := p.ledger.Finish(ctx, run); ferr != nil {
			logger.WarnContext(ctx, "failed to finish ingestion run", "run_id", run.ID, "error", ferr)
		}
	}

	return summary, err
}

func (p *Pipeline) run(ctx context.Context, req Request) (Summary, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if getter, ok := p.store.(recordGetter); ok {
		if _, err := getter.Get(req.Dir); err == nil {
			return Summary{}, fmt.Errorf("%w: %s", store.ErrDuplicateID, req.Dir)
		} else if !errors.Is(err, store.ErrNotFound) {
			return Summary{}, err
		}
	}

	logger.InfoContext(ctx, "searching catalog", "query", req.Search)
	entry, err := p.catalog.Search(ctx, req.Search)
	if err != nil {
		return Summary{}, fmt.Errorf("catalog search: %w", err)
	}
	logger.InfoContext(ctx, "catalog match", "track_name", entry.TrackName, "genre", entry.PrimaryGenreName, "track_id", entry.TrackID)

	summary := Summary{ID: req.Dir, AppStoreID: entry.TrackID}
	appDir := filepath.Join(p.assetsDir, req.Dir)

	screenshots, err := ListScreenshots(appDir)
	if err != nil {
		return summary, err
	}
	if len(screenshots) > 0 {
		logger.InfoContext(ctx, "using staged screenshots", "count", len(screenshots), "dir", appDir)
	} else if len(entry.ScreenshotURLs) > 0 {
		logger.InfoContext(ctx, "downloading catalog screenshots", "count", len(entry.ScreenshotURLs))
		screenshots, err = p.downloader.DownloadScreenshots(ctx, entry.ScreenshotURLs, appDir)
		if err != nil {
			return summary, err
		}
		summary.Downloaded = true
	}
	if len(screenshots) == 0 {
		return summary, fmt.Errorf("%w in %s", ErrNoScreenshots, appDir)
	}
	summary.Screenshots = len(screenshots)

	logger.InfoContext(ctx, "downloading icon")
	if _, err := p.downloader.DownloadIcon(ctx, entry.IconURL(), appDir); err != nil {
		return summary, fmt.Errorf("icon: %w", err)
	}

	rec := BuildRecord(RecordInput{
		ID:          req.Dir,
		Entry:       entry,
		Screenshots: screenshots,
		URLPrefix:   p.urlPrefix,
		Color:       req.Color,
		Excerpt:     req.Excerpt,
	})

	if err := p.store.Append(rec); err != nil {
		return summary, fmt.Errorf("append record: %w", err)
	}

	summary.Name = rec.Name
	summary.Category = rec.Category
	summary.AccentColor = rec.AccentColor
	return summary, nil
}
