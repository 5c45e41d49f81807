package ui

import (
	"bytes"
	"html/template"

	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// renderMarkdown converts a markdown report to HTML. Raw HTML in the source
// is skipped since group ids come from user files.
func renderMarkdown(md string) template.HTML {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{
		Flags: mdhtml.CommonFlags | mdhtml.SkipHTML,
	})
	return template.HTML(markdown.ToHTML([]byte(md), p, renderer))
}

// inlineSVG marks a rendered chart safe for embedding. Every text node in
// the chart is escaped by the renderer.
func inlineSVG(buf *bytes.Buffer) template.HTML {
	return template.HTML(buf.String())
}
