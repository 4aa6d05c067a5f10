// Package media classifies screenshot assets by file extension.
package media

import (
	"path"
	"strings"
)

var (
	imageExts = map[string]bool{".webp": true, ".png": true, ".jpg": true, ".jpeg": true}
	videoExts = map[string]bool{".mp4": true, ".mov": true, ".webm": true}
)

// Ext returns the lowercased extension of name, including the dot.
// Query strings and fragments are ignored so URLs classify like paths.
func Ext(name string) string {
	if i := strings.IndexAny(name, "?#"); i >= 0 {
		name = name[:i]
	}
	return strings.ToLower(path.Ext(name))
}

// IsImage reports whether name has a supported still-image extension.
func IsImage(name string) bool {
	return imageExts[Ext(name)]
}

// IsVideo reports whether name has a supported video extension.
func IsVideo(name string) bool {
	return videoExts[Ext(name)]
}

// IsMedia reports whether name is an image or a video.
func IsMedia(name string) bool {
	return IsImage(name) || IsVideo(name)
}

// Images returns srcs without video entries, preserving order.
func Images(srcs []string) []string {
	out := make([]string, 0, len(srcs))
	for _, s := range srcs {
		if !IsVideo(s) {
			out = append(out, s)
		}
	}
	return out
}
