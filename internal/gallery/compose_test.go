package gallery

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func solid(w, h int, c color.Color) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestLayout(t *testing.T) {
	tests := []struct {
		name        string
		sizes       []image.Point
		gap         int
		wantCanvas  image.Point
		wantOrigins []image.Point
	}{
		{
			name:        "three images centred on the tallest",
			sizes:       []image.Point{{50, 100}, {60, 200}, {70, 150}},
			gap:         40,
			wantCanvas:  image.Pt(260, 200),
			wantOrigins: []image.Point{{0, 50}, {90, 0}, {190, 25}},
		},
		{
			name:        "single image has no gap",
			sizes:       []image.Point{{300, 600}},
			gap:         40,
			wantCanvas:  image.Pt(300, 600),
			wantOrigins: []image.Point{{0, 0}},
		},
		{
			name:        "zero gap",
			sizes:       []image.Point{{10, 10}, {10, 20}},
			gap:         0,
			wantCanvas:  image.Pt(20, 20),
			wantOrigins: []image.Point{{0, 5}, {10, 0}},
		},
		{
			name:       "empty",
			sizes:      nil,
			gap:        40,
			wantCanvas: image.Point{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			canvas, origins := Layout(tt.sizes, tt.gap)
			assert.Equal(t, tt.wantCanvas, canvas)
			assert.Equal(t, tt.wantOrigins, origins)
		})
	}
}

func TestCompose(t *testing.T) {
	red := color.RGBA{R: 255, A: 255}
	blue := color.RGBA{B: 255, A: 255}

	out := Compose([]image.Image{solid(4, 2, red), solid(4, 6, blue)}, 2)
	require.Equal(t, image.Rect(0, 0, 10, 6), out.Bounds())

	assert.Equal(t, red, out.RGBAAt(0, 2), "first image is centred vertically")
	assert.Equal(t, color.RGBA{}, out.RGBAAt(0, 0), "space above a short image stays transparent")
	assert.Equal(t, color.RGBA{}, out.RGBAAt(5, 3), "gap stays transparent")
	assert.Equal(t, blue, out.RGBAAt(6, 0))
	assert.Equal(t, blue, out.RGBAAt(9, 5))
}

func TestCompose_NonZeroBoundsOrigin(t *testing.T) {
	green := color.RGBA{G: 255, A: 255}
	src := solid(10, 10, green).SubImage(image.Rect(5, 5, 8, 8))

	out := Compose([]image.Image{src}, 0)
	require.Equal(t, image.Rect(0, 0, 3, 3), out.Bounds())
	assert.Equal(t, green, out.RGBAAt(0, 0))
	assert.Equal(t, green, out.RGBAAt(2, 2))
}

func TestEncodePNG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, EncodePNG(&buf, solid(3, 2, color.White)))

	decoded, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 3, 2), decoded.Bounds())
}
