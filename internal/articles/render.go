package articles

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
)

// Renderer converts article markdown to HTML. Level-2 headings get the same
// ids ExtractSections reports, so the table of contents links resolve.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer creates a Renderer.
func NewRenderer() *Renderer {
	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.GFM,
				extension.Table,
				extension.Strikethrough,
				extension.Linkify,
			),
			goldmark.WithParserOptions(
				parser.WithASTTransformers(util.Prioritized(sectionIDs{}, 100)),
			),
		),
	}
}

// Render returns content as HTML. Raw HTML in the source is omitted.
func (r *Renderer) Render(content []byte) (string, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(content, &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// sectionIDs sets the id attribute of every level-2 heading.
type sectionIDs struct{}

func (sectionIDs) Transform(doc *ast.Document, reader text.Reader, pc parser.Context) {
	src := reader.Source()
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		heading, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		if heading.Level == 2 {
			heading.SetAttributeString("id", []byte(sectionID(headingText(heading, src))))
		}
		return ast.WalkSkipChildren, nil
	})
}
