package api

import (
	"bytes"
	"html/template"
	"log/slog"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// Markdown renders the site's Markdown snippets to HTML.
type Markdown struct {
	md goldmark.Markdown
}

// NewMarkdown creates a renderer with GitHub Flavored Markdown enabled.
// Raw HTML in the source is omitted.
func NewMarkdown() *Markdown {
	return &Markdown{
		md: goldmark.New(
			goldmark.WithExtensions(extension.GFM),
			goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		),
	}
}

// Render converts src to HTML. A conversion error yields the escaped source.
func (m *Markdown) Render(src string) template.HTML {
	if src == "" {
		return ""
	}
	var buf bytes.Buffer
	if err := m.md.Convert([]byte(src), &buf); err != nil {
		slog.Warn("Failed to render markdown", "error", err)
		return template.HTML(template.HTMLEscapeString(src)) //nolint:gosec // escaped above
	}
	return template.HTML(buf.String()) //nolint:gosec // goldmark drops raw HTML without WithUnsafe
}
