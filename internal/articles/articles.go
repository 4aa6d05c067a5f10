// Package articles loads the long-form insight articles served next to the directory.
package articles

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/gosimple/slug"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

var (
	// ErrNotFound is returned when no article has the requested slug.
	ErrNotFound = errors.New("article not found")

	frontMatterDelim = []byte("---")

	renderer = NewRenderer()

	// slug.Make drops these or spells them out; anchors keep them as separators.
	idSeparators = strings.NewReplacer("'", " ", "’", " ", "\"", " ", "&", " ")
)

// Article is one markdown article with its front matter.
type Article struct {
	Slug     string    `json:"slug"`
	Title    string    `json:"title"`
	Date     string    `json:"date"`
	Content  string    `json:"content,omitempty"`
	HTML     string    `json:"html,omitempty"`
	Sections []Section `json:"sections,omitempty"`
}

// Section is a level-2 heading, used for the table of contents.
type Section struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

type frontMatter struct {
	Slug  string `yaml:"slug"`
	Title string `yaml:"title"`
	Date  string `yaml:"date"`
}

// Library holds the loaded articles, newest first.
type Library struct {
	articles []Article
	bySlug   map[string]int
}

// LoadDir parses every *.md file in dir. A missing directory yields an empty library.
func LoadDir(dir string) (*Library, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("failed to list articles: %w", err)
	}

	lib := &Library{bySlug: make(map[string]int)}
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		article, err := Parse(data, filepath.Base(path))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if _, dup := lib.bySlug[article.Slug]; dup {
			return nil, fmt.Errorf("%s: duplicate slug %q", path, article.Slug)
		}
		lib.bySlug[article.Slug] = -1
		lib.articles = append(lib.articles, article)
	}

	sort.SliceStable(lib.articles, func(i, j int) bool {
		if lib.articles[i].Date != lib.articles[j].Date {
			return lib.articles[i].Date > lib.articles[j].Date
		}
		return lib.articles[i].Slug < lib.articles[j].Slug
	})
	for i, a := range lib.articles {
		lib.bySlug[a.Slug] = i
	}
	return lib, nil
}

// Parse reads an article from markdown with YAML front matter.
// The slug defaults to the file name without its extension.
func Parse(data []byte, filename string) (Article, error) {
	meta, body, err := splitFrontMatter(data)
	if err != nil {
		return Article{}, err
	}

	var fm frontMatter
	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return Article{}, fmt.Errorf("invalid front matter: %w", err)
	}
	if strings.TrimSpace(fm.Title) == "" {
		return Article{}, fmt.Errorf("front matter is missing a title")
	}
	if _, err := time.Parse(dateLayout, fm.Date); err != nil {
		return Article{}, fmt.Errorf("invalid date %q: want YYYY-MM-DD", fm.Date)
	}
	if fm.Slug == "" {
		fm.Slug = strings.TrimSuffix(filename, filepath.Ext(filename))
	}

	content := strings.TrimSpace(string(body))
	html, err := renderer.Render([]byte(content))
	if err != nil {
		return Article{}, err
	}
	return Article{
		Slug:     fm.Slug,
		Title:    strings.TrimSpace(fm.Title),
		Date:     fm.Date,
		Content:  content,
		HTML:     html,
		Sections: ExtractSections([]byte(content)),
	}, nil
}

func splitFrontMatter(data []byte) (meta, body []byte, err error) {
	data = bytes.TrimPrefix(data, []byte("\ufeff"))
	data = bytes.ReplaceAll(data, []byte("\r\n"), []byte("\n"))
	if !bytes.HasPrefix(data, frontMatterDelim) {
		return nil, nil, fmt.Errorf("missing front matter")
	}

	rest := data[len(frontMatterDelim):]
	end := bytes.Index(rest, append([]byte("\n"), frontMatterDelim...))
	if end < 0 {
		return nil, nil, fmt.Errorf("unterminated front matter")
	}
	meta = rest[:end]
	body = rest[end+1+len(frontMatterDelim):]
	return meta, body, nil
}

// List returns the articles without their content, newest first.
func (l *Library) List() []Article {
	out := make([]Article, len(l.articles))
	for i, a := range l.articles {
		out[i] = Article{Slug: a.Slug, Title: a.Title, Date: a.Date}
	}
	return out
}

// Get returns the article with the given slug.
func (l *Library) Get(s string) (Article, error) {
	i, ok := l.bySlug[s]
	if !ok {
		return Article{}, fmt.Errorf("%w: %s", ErrNotFound, s)
	}
	return l.articles[i], nil
}

// sectionID turns a heading into its anchor: lowercase alphanumeric runs joined by '-'.
func sectionID(title string) string {
	return slug.Make(idSeparators.Replace(title))
}

// ExtractSections returns the level-2 headings of a markdown document in order.
func ExtractSections(content []byte) []Section {
	doc := goldmark.New().Parser().Parse(text.NewReader(content))

	var sections []Section
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 {
			title := headingText(heading, content)
			sections = append(sections, Section{ID: sectionID(title), Title: title})
		}
		return ast.WalkSkipChildren, nil
	})
	return sections
}

func headingText(n ast.Node, content []byte) string {
	var b strings.Builder
	_ = ast.Walk(n, func(node ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch v := node.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(content))
		case *ast.String:
			b.Write(v.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(b.String())
}
