package ingest

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/time/rate"

	"appshelf/internal/contextutil"
	"appshelf/internal/media"
)

const (
	// IconFile is the file name the app icon is stored under.
	IconFile = "logo.jpg"

	defaultExt = "jpg"
)

// Downloader fetches remote assets into an app's asset directory.
// Downloads run one at a time.
type Downloader struct {
	client   *http.Client
	limiter  *rate.Limiter
	progress io.Writer
}

// DownloaderOption configures a Downloader.
type DownloaderOption func(*Downloader)

// WithInterval spaces consecutive downloads at least d apart. Zero disables pacing.
func WithInterval(d time.Duration) DownloaderOption {
	return func(dl *Downloader) {
		if d > 0 {
			dl.limiter = rate.NewLimiter(rate.Every(d), 1)
		}
	}
}

// WithProgress renders a progress bar for screenshot batches to w.
func WithProgress(w io.Writer) DownloaderOption {
	return func(dl *Downloader) {
		dl.progress = w
	}
}

// NewDownloader creates a Downloader. A nil client uses http.DefaultClient.
func NewDownloader(client *http.Client, opts ...DownloaderOption) *Downloader {
	if client == nil {
		client = http.DefaultClient
	}
	dl := &Downloader{client: client}
	for _, opt := range opts {
		opt(dl)
	}
	return dl
}

// DownloadScreenshots writes each URL to dir as <position>.<ext>, keeping catalog order.
// A failed download is logged and skipped; the returned names cover only the
// files that were written. dir is created if needed.
func (d *Downloader) DownloadScreenshots(ctx context.Context, urls []string, dir string) ([]string, error) {
	logger := contextutil.LoggerFromContext(ctx)

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create asset directory: %w", err)
	}

	var bar *progressbar.ProgressBar
	if d.progress != nil && len(urls) > 0 {
		bar = progressbar.NewOptions(len(urls),
			progressbar.OptionSetWriter(d.progress),
			progressbar.OptionSetDescription("screenshots"),
			progressbar.OptionShowCount(),
			progressbar.OptionClearOnFinish(),
		)
	}

	var names []string
	for i, u := range urls {
		if err := ctx.Err(); err != nil {
			return names, err
		}

		name := fmt.Sprintf("%d.%s", i+1, ExtFromURL(u))
		if err := d.fetch(ctx, u, filepath.Join(dir, name)); err != nil {
			logger.WarnContext(ctx, "skipping screenshot", "index", i+1, "url", u, "error", err)
		} else {
			logger.DebugContext(ctx, "downloaded screenshot", "index", i+1, "file", name)
			names = append(names, name)
		}

		if bar != nil {
			_ = bar.Add(1)
		}
	}
	if bar != nil {
		_ = bar.Finish()
	}

	return names, nil
}

// DownloadIcon writes the icon at iconURL to dir/logo.jpg.
// Unlike screenshots, any failure is returned: an app without an icon is not publishable.
func (d *Downloader) DownloadIcon(ctx context.Context, iconURL, dir string) (string, error) {
	if iconURL == "" {
		return "", &AssetDownloadError{URL: iconURL, Err: fmt.Errorf("catalog entry has no artwork")}
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create asset directory: %w", err)
	}
	if err := d.fetch(ctx, iconURL, filepath.Join(dir, IconFile)); err != nil {
		return "", err
	}
	return IconFile, nil
}

func (d *Downloader) fetch(ctx context.Context, rawURL, dest string) error {
	if d.limiter != nil {
		if err := d.limiter.Wait(ctx); err != nil {
			return &AssetDownloadError{URL: rawURL, Err: err}
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return &AssetDownloadError{URL: rawURL, Err: err}
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return &AssetDownloadError{URL: rawURL, Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &AssetDownloadError{URL: rawURL, StatusCode: resp.StatusCode}
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", dest, err)
	}
	if _, err := io.Copy(f, resp.Body); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return &AssetDownloadError{URL: rawURL, Err: err}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(dest)
		return fmt.Errorf("failed to close %s: %w", dest, err)
	}
	return nil
}

// ExtFromURL returns the media extension of the URL path without the dot,
// or "jpg" when none can be detected.
func ExtFromURL(rawURL string) string {
	p := rawURL
	if u, err := url.Parse(rawURL); err == nil {
		p = u.Path
	}
	if !media.IsMedia(p) {
		return defaultExt
	}
	return strings.TrimPrefix(media.Ext(p), ".")
}
