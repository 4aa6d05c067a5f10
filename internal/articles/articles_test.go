package articles

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const asoArticle = `---
slug: app-store-seo
title: App Store Optimization (ASO)
date: 2025-02-28
---
Most apps fail at discovery.

---

## The 160 characters that decide your fate

Apple indexes three fields.

### Subtitle

Thirty characters.

## Screenshots *sell* the app

Nobody reads descriptions.
`

func TestExtractSections(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []Section
	}{
		{
			name:    "h2 only",
			content: "# Title\n\n## First Part\n\ntext\n\n### Nested\n\n## Second Part\n",
			want: []Section{
				{ID: "first-part", Title: "First Part"},
				{ID: "second-part", Title: "Second Part"},
			},
		},
		{
			name:    "inline formatting is flattened",
			content: "## Screenshots *sell* the `app`\n",
			want:    []Section{{ID: "screenshots-sell-the-app", Title: "Screenshots sell the app"}},
		},
		{
			name:    "headings inside code blocks are ignored",
			content: "```\n## not a heading\n```\n\n## Real\n",
			want:    []Section{{ID: "real", Title: "Real"}},
		},
		{
			name:    "no headings",
			content: "just a paragraph",
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractSections([]byte(tt.content)))
		})
	}
}

func TestSectionID(t *testing.T) {
	tests := []struct {
		title string
		want  string
	}{
		{"The 160 characters that decide your fate", "the-160-characters-that-decide-your-fate"},
		{"App Name: Brand + your most important keyword", "app-name-brand-your-most-important-keyword"},
		{"Subtitle: Expand, don't repeat", "subtitle-expand-don-t-repeat"},
		{"Keyword Field: Your hidden 100-character weapon", "keyword-field-your-hidden-100-character-weapon"},
		{"Localization: Free keyword slots you're probably ignoring", "localization-free-keyword-slots-you-re-probably-ignoring"},
		{"Localization: Free keyword slots you’re probably ignoring", "localization-free-keyword-slots-you-re-probably-ignoring"},
		{"The paid + organic flywheel", "the-paid-organic-flywheel"},
		{"Tips & tricks", "tips-tricks"},
	}
	for _, tt := range tests {
		t.Run(tt.title, func(t *testing.T) {
			assert.Equal(t, tt.want, sectionID(tt.title))
		})
	}
}

func TestParse(t *testing.T) {
	article, err := Parse([]byte(asoArticle), "aso.md")
	require.NoError(t, err)

	assert.Equal(t, "app-store-seo", article.Slug)
	assert.Equal(t, "App Store Optimization (ASO)", article.Title)
	assert.Equal(t, "2025-02-28", article.Date)
	assert.Contains(t, article.Content, "Most apps fail at discovery.")
	assert.NotContains(t, article.Content, "title:")
	assert.Equal(t, []Section{
		{ID: "the-160-characters-that-decide-your-fate", Title: "The 160 characters that decide your fate"},
		{ID: "screenshots-sell-the-app", Title: "Screenshots sell the app"},
	}, article.Sections)
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"no front matter", "## Heading\n"},
		{"unterminated", "---\ntitle: x\ndate: 2025-01-01\n"},
		{"missing title", "---\ndate: 2025-01-01\n---\nbody"},
		{"bad date", "---\ntitle: x\ndate: yesterday\n---\nbody"},
		{"bad yaml", "---\ntitle: [x\n---\nbody"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data), "a.md")
			assert.Error(t, err)
		})
	}
}

func TestParse_SlugFromFilename(t *testing.T) {
	article, err := Parse([]byte("---\r\ntitle: Icons\r\ndate: 2025-03-01\r\n---\r\nBody\r\n"), "app-icons.md")
	require.NoError(t, err)
	assert.Equal(t, "app-icons", article.Slug)
	assert.Equal(t, "Body", article.Content)
}

func TestLoadDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"aso.md":    asoArticle,
		"icons.md":  "---\ntitle: Icons\ndate: 2025-03-10\n---\n## Shape\n",
		"old.md":    "---\ntitle: Old\ndate: 2024-12-01\n---\nbody\n",
		"notes.txt": "ignored",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	lib, err := LoadDir(dir)
	require.NoError(t, err)

	list := lib.List()
	require.Len(t, list, 3)
	assert.Equal(t, []string{"icons", "app-store-seo", "old"}, []string{list[0].Slug, list[1].Slug, list[2].Slug})
	for _, a := range list {
		assert.Empty(t, a.Content, "list omits content")
	}

	got, err := lib.Get("app-store-seo")
	require.NoError(t, err)
	assert.Len(t, got.Sections, 2)
	assert.NotEmpty(t, got.Content)

	_, err = lib.Get("missing")
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestLoadDir_BundledContent(t *testing.T) {
	lib, err := LoadDir(filepath.Join("..", "..", "content", "articles"))
	require.NoError(t, err)

	article, err := lib.Get("app-store-seo")
	require.NoError(t, err)
	require.Len(t, article.Sections, 12)
	assert.Equal(t, "the-160-characters-that-decide-your-fate", article.Sections[0].ID)
	assert.Equal(t, "subtitle-expand-don-t-repeat", article.Sections[2].ID)
	assert.Equal(t, "localization-free-keyword-slots-you-re-probably-ignoring", article.Sections[8].ID)
	assert.Equal(t, "your-first-week", article.Sections[11].ID)
	for _, s := range article.Sections {
		assert.Contains(t, article.HTML, `id="`+s.ID+`"`, s.Title)
	}
}

func TestLoadDir_DuplicateSlug(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.md"), []byte("---\nslug: same\ntitle: A\ndate: 2025-01-01\n---\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.md"), []byte("---\nslug: same\ntitle: B\ndate: 2025-01-02\n---\n"), 0644))

	_, err := LoadDir(dir)
	assert.ErrorContains(t, err, "duplicate slug")
}

func TestLoadDir_Missing(t *testing.T) {
	lib, err := LoadDir(filepath.Join(t.TempDir(), "absent"))
	require.NoError(t, err)
	assert.Empty(t, lib.List())
}

func TestRenderer_Render(t *testing.T) {
	html, err := NewRenderer().Render([]byte("## The 160 characters\n\nSee https://example.com.\n\n### Sub\n\n<script>x</script>\n"))
	require.NoError(t, err)

	assert.Contains(t, html, `<h2 id="the-160-characters">The 160 characters</h2>`)
	assert.Contains(t, html, "<h3>Sub</h3>")
	assert.Contains(t, html, `<a href="https://example.com">`)
	assert.NotContains(t, html, "<script>")
}

func TestParse_RendersHTML(t *testing.T) {
	article, err := Parse([]byte(asoArticle), "aso.md")
	require.NoError(t, err)
	for _, s := range article.Sections {
		assert.Contains(t, article.HTML, `id="`+s.ID+`"`)
	}
}
