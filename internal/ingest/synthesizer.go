package ingest

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"appshelf/internal/catalog"
	"appshelf/internal/store"
)

// DefaultAccentColor is used when the genre has no palette entry.
const DefaultAccentColor = "#6366f1"

// ExcerptLimit is the character budget of a short description.
const ExcerptLimit = 200

var genrePalette = map[string]string{
	"Productivity":     "#6366f1",
	"Education":        "#f59e0b",
	"Lifestyle":        "#ec4899",
	"Health & Fitness": "#10b981",
	"Photo & Video":    "#f97316",
	"Sports":           "#22c55e",
	"Utilities":        "#3b82f6",
	"Entertainment":    "#a855f7",
	"Games":            "#ef4444",
	"Finance":          "#14b8a6",
	"Food & Drink":     "#f43f5e",
	"Music":            "#8b5cf6",
	"Social":           "#06b6d4",
	"Travel":           "#0ea5e9",
	"Weather":          "#38bdf8",
}

var (
	extraNewlines = regexp.MustCompile(`\n{3,}`)
	sentenceRun   = regexp.MustCompile(`[^.!?]+[.!?]+`)
)

// ShortName returns the part of a catalog title before the first ':', '-' or '–', trimmed.
func ShortName(title string) string {
	if i := strings.IndexAny(title, ":-–"); i >= 0 {
		title = title[:i]
	}
	return strings.TrimSpace(title)
}

// CleanDescription normalizes line endings, collapses runs of three or more
// newlines to a single blank line and trims surrounding whitespace.
func CleanDescription(raw string) string {
	s := strings.ReplaceAll(raw, "\r\n", "\n")
	s = extraNewlines.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}

// Excerpt accumulates whole sentences while the result stays within limit characters.
// The first sentence is always kept, even when it alone exceeds the limit.
func Excerpt(raw string, limit int) string {
	var b strings.Builder
	for i, s := range splitSentences(raw) {
		if i > 0 && utf8.RuneCountInString(b.String())+1+utf8.RuneCountInString(s) > limit {
			break
		}
		if i > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s)
	}
	return b.String()
}

// TwoSentences returns the first two sentences of text, or text unchanged
// when it has no sentence punctuation.
func TwoSentences(text string) string {
	sentences := sentenceRun.FindAllString(text, 2)
	if len(sentences) == 0 {
		return text
	}
	return strings.TrimSpace(strings.Join(sentences, ""))
}

// splitSentences splits text after '.', '!' or '?' when followed by whitespace.
func splitSentences(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	start := 0
	runes := []rune(text)
	for i := 0; i < len(runes)-1; i++ {
		if !strings.ContainsRune(".!?", runes[i]) || !unicode.IsSpace(runes[i+1]) {
			continue
		}
		out = append(out, string(runes[start:i+1]))
		j := i + 1
		for j < len(runes) && unicode.IsSpace(runes[j]) {
			j++
		}
		start = j
		i = j - 1
	}
	if start < len(runes) {
		out = append(out, string(runes[start:]))
	}
	return out
}

// AccentColor returns override when it is a #rrggbb color, otherwise the palette color for genre.
func AccentColor(override, genre string) string {
	if store.IsHexColor(override) {
		return override
	}
	if c, ok := genrePalette[genre]; ok {
		return c
	}
	return DefaultAccentColor
}

// RecordInput carries everything needed to synthesize an AppRecord.
type RecordInput struct {
	ID          string
	Entry       catalog.Entry
	Screenshots []string // File names inside the asset directory, in display order
	URLPrefix   string   // Web path the asset root is served under, e.g. "/appstore"
	Color       string   // Optional accent color override
	Excerpt     bool     // Use the short description instead of the full text
}

// BuildRecord turns a catalog entry and its resolved asset files into an AppRecord.
func BuildRecord(in RecordInput) store.AppRecord {
	base := strings.TrimRight(in.URLPrefix, "/") + "/" + in.ID

	description := CleanDescription(in.Entry.Description)
	if in.Excerpt {
		description = Excerpt(in.Entry.Description, ExcerptLimit)
	}

	paths := make([]string, len(in.Screenshots))
	for i, name := range in.Screenshots {
		paths[i] = base + "/" + name
	}

	return store.AppRecord{
		ID:          in.ID,
		Name:        ShortName(in.Entry.TrackName),
		Icon:        base + "/" + IconFile,
		Category:    in.Entry.PrimaryGenreName,
		Description: description,
		AppStoreID:  in.Entry.TrackID,
		AccentColor: AccentColor(in.Color, in.Entry.PrimaryGenreName),
		Screenshots: paths,
	}
}
