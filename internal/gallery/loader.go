package gallery

import (
	"context"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	_ "golang.org/x/image/webp"
	"golang.org/x/sync/errgroup"
)

// DecodeError reports a screenshot that could not be fetched or decoded.
type DecodeError struct {
	Src string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("failed to load image %s: %v", e.Src, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Loader decodes screenshots from remote URLs or from the local asset directory.
type Loader struct {
	client    *http.Client
	assetsDir string
	urlPrefix string
}

// NewLoader creates a Loader. Sources beginning with urlPrefix are read from
// assetsDir; http and https sources are fetched with client.
func NewLoader(client *http.Client, assetsDir, urlPrefix string) *Loader {
	if client == nil {
		client = http.DefaultClient
	}
	return &Loader{
		client:    client,
		assetsDir: assetsDir,
		urlPrefix: strings.TrimSuffix(urlPrefix, "/"),
	}
}

// Load decodes a single image. Every failure is returned as a *DecodeError.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	rc, err := l.open(ctx, src)
	if err != nil {
		return nil, &DecodeError{Src: src, Err: err}
	}
	defer func() {
		_ = rc.Close()
	}()

	img, _, err := image.Decode(rc)
	if err != nil {
		return nil, &DecodeError{Src: src, Err: err}
	}
	return img, nil
}

// LoadAll decodes srcs concurrently and returns the images in source order.
// The first failure cancels the remaining loads.
func (l *Loader) LoadAll(ctx context.Context, srcs []string) ([]image.Image, error) {
	images := make([]image.Image, len(srcs))
	g, gctx := errgroup.WithContext(ctx)
	for i, src := range srcs {
		g.Go(func() error {
			img, err := l.Load(gctx, src)
			if err != nil {
				return err
			}
			images[i] = img
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return images, nil
}

func (l *Loader) open(ctx context.Context, src string) (io.ReadCloser, error) {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return l.fetch(ctx, src)
	}

	path, err := l.localPath(src)
	if err != nil {
		return nil, err
	}
	return os.Open(path)
}

func (l *Loader) fetch(ctx context.Context, src string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	resp, err := l.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// localPath maps a public asset URL onto the asset directory. Paths that
// would escape the directory are rejected.
func (l *Loader) localPath(src string) (string, error) {
	rel, ok := strings.CutPrefix(src, l.urlPrefix+"/")
	if !ok {
		return "", fmt.Errorf("source is outside %s", l.urlPrefix)
	}
	rel = filepath.Clean(filepath.FromSlash(rel))
	if rel == "." || filepath.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid asset path %q", src)
	}
	return filepath.Join(l.assetsDir, rel), nil
}
