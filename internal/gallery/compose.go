// Package gallery composes app screenshots into a single image for the clipboard.
package gallery

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"
	"io"
)

// Layout places images of the given sizes left to right with gap pixels
// between neighbours, each centred vertically against the tallest.
// It returns the canvas size and the top-left origin of each image.
func Layout(sizes []image.Point, gap int) (image.Point, []image.Point) {
	if len(sizes) == 0 {
		return image.Point{}, nil
	}

	var canvas image.Point
	for i, s := range sizes {
		canvas.X += s.X
		if i > 0 {
			canvas.X += gap
		}
		canvas.Y = max(canvas.Y, s.Y)
	}

	origins := make([]image.Point, len(sizes))
	x := 0
	for i, s := range sizes {
		origins[i] = image.Pt(x, (canvas.Y-s.Y)/2)
		x += s.X + gap
	}
	return canvas, origins
}

// Compose draws images onto a transparent canvas using Layout.
func Compose(images []image.Image, gap int) *image.RGBA {
	sizes := make([]image.Point, len(images))
	for i, img := range images {
		sizes[i] = img.Bounds().Size()
	}

	size, origins := Layout(sizes, gap)
	canvas := image.NewRGBA(image.Rectangle{Max: size})
	for i, img := range images {
		b := img.Bounds()
		draw.Draw(canvas, image.Rectangle{Min: origins[i], Max: origins[i].Add(b.Size())}, img, b.Min, draw.Src)
	}
	return canvas
}

// EncodePNG writes img to w as PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

func encodeBytes(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := EncodePNG(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
