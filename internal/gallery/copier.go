package gallery

import (
	"context"
	"errors"
	"image"
	"sync"
	"time"

	"appshelf/internal/contextutil"
	"appshelf/internal/media"
)

var (
	// ErrBusy is returned when a composite for the same gallery is still loading.
	ErrBusy = errors.New("composite already in progress")
	// ErrNoImages is returned when a gallery has nothing but videos.
	ErrNoImages = errors.New("no images to copy")
)

// ImageLoader decodes images from asset sources.
type ImageLoader interface {
	Load(ctx context.Context, src string) (image.Image, error)
	LoadAll(ctx context.Context, srcs []string) ([]image.Image, error)
}

// ClipboardWriter receives the encoded composite.
type ClipboardWriter interface {
	WriteImage(mimeType string, data []byte) error
}

// Compositor turns screenshots into PNG clipboard payloads.
type Compositor struct {
	loader ImageLoader
	gap    int
}

// NewCompositor creates a Compositor that separates images by gap pixels.
func NewCompositor(loader ImageLoader, gap int) *Compositor {
	return &Compositor{loader: loader, gap: gap}
}

// CopySingle decodes src and re-encodes it as PNG.
func (c *Compositor) CopySingle(ctx context.Context, src string) ([]byte, error) {
	img, err := c.loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return encodeBytes(img)
}

// CopyAll composes every image in srcs into one PNG. Videos are skipped.
func (c *Compositor) CopyAll(ctx context.Context, srcs []string) ([]byte, error) {
	images := media.Images(srcs)
	if len(images) == 0 {
		return nil, ErrNoImages
	}

	decoded, err := c.loader.LoadAll(ctx, images)
	if err != nil {
		return nil, err
	}
	return encodeBytes(Compose(decoded, c.gap))
}

// State is the progress of a Copier.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateDone    State = "done"
)

// Copier runs CopyAll for one gallery and tracks its progress.
// After a successful copy it reports StateDone until resetDelay has passed.
type Copier struct {
	compositor *Compositor
	resetDelay time.Duration

	mu    sync.Mutex
	state State
	timer *time.Timer
}

// NewCopier creates an idle Copier.
func NewCopier(compositor *Compositor, resetDelay time.Duration) *Copier {
	return &Copier{
		compositor: compositor,
		resetDelay: resetDelay,
		state:      StateIdle,
	}
}

// State returns the current state.
func (c *Copier) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// Copy composes srcs and hands the PNG to w. It returns ErrBusy if another
// Copy is still loading. Failures put the Copier back to idle.
func (c *Copier) Copy(ctx context.Context, srcs []string, w ClipboardWriter) error {
	if len(media.Images(srcs)) == 0 {
		return ErrNoImages
	}

	c.mu.Lock()
	if c.state == StateLoading {
		c.mu.Unlock()
		return ErrBusy
	}
	c.state = StateLoading
	c.stopTimer()
	c.mu.Unlock()

	data, err := c.compositor.CopyAll(ctx, srcs)
	if err == nil {
		err = w.WriteImage("image/png", data)
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		contextutil.LoggerFromContext(ctx).WarnContext(ctx, "composite copy failed", "sources", len(srcs), "error", err)
		c.state = StateIdle
		return err
	}

	c.state = StateDone
	c.timer = time.AfterFunc(c.resetDelay, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.state == StateDone {
			c.state = StateIdle
		}
	})
	return nil
}

// Close cancels a pending reset and returns the Copier to idle.
func (c *Copier) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stopTimer()
	if c.state == StateDone {
		c.state = StateIdle
	}
}

func (c *Copier) stopTimer() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

// Copiers hands out one Copier per gallery key.
type Copiers struct {
	compositor *Compositor
	resetDelay time.Duration

	mu      sync.Mutex
	copiers map[string]*Copier
}

// NewCopiers creates an empty registry.
func NewCopiers(compositor *Compositor, resetDelay time.Duration) *Copiers {
	return &Copiers{
		compositor: compositor,
		resetDelay: resetDelay,
		copiers:    make(map[string]*Copier),
	}
}

// Get returns the Copier for key, creating it on first use.
func (r *Copiers) Get(key string) *Copier {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.copiers[key]
	if !ok {
		c = NewCopier(r.compositor, r.resetDelay)
		r.copiers[key] = c
	}
	return c
}

// Close stops every pending reset timer.
func (r *Copiers) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.copiers {
		c.Close()
	}
}
