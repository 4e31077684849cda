// Package markdown wraps the goldmark engine. The only original
// responsibility here is configuration plumbing; rendering itself is
// delegated entirely to goldmark.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
)

// Options controls rendering behavior derived from site configuration.
type Options struct {
	// UnsafeHTML passes raw embedded HTML through unescaped.
	UnsafeHTML bool
}

// Renderer converts markdown bodies to HTML. It is stateless after
// construction and safe for concurrent use by the render worker pool.
type Renderer struct {
	md goldmark.Markdown
}

// NewRenderer builds a renderer with GFM extensions (tables, strikethrough,
// autolinks, task lists, footnotes) and auto heading IDs.
func NewRenderer(opts Options) *Renderer {
	rendererOptions := []renderer.Option{}
	if opts.UnsafeHTML {
		rendererOptions = append(rendererOptions, html.WithUnsafe())
	}

	return &Renderer{
		md: goldmark.New(
			goldmark.WithExtensions(
				extension.Table,
				extension.Strikethrough,
				extension.Linkify,
				extension.TaskList,
				extension.Footnote,
			),
			goldmark.WithParserOptions(
				parser.WithAutoHeadingID(),
			),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}
}

// Render converts a markdown body to HTML.
func (r *Renderer) Render(body []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := r.md.Convert(body, &buf); err != nil {
		return nil, fmt.Errorf("markdown render: %w", err)
	}
	return buf.Bytes(), nil
}
