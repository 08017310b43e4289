package render

import (
	"bytes"
	"html"
	"html/template"
	"log/slog"
	"strings"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	gmhtml "github.com/yuin/goldmark/renderer/html"
)

// Markdown turns chat text into safe HTML.
type Markdown interface {
	Render(text string) template.HTML
}

var agentMarkers = strings.NewReplacer("/*PLANNING*/", "", "/*ACTION*/", "")

// StripMarkers removes agent planning and action markers.
func StripMarkers(text string) string {
	return agentMarkers.Replace(text)
}

// PlainMarkdown escapes text and keeps line breaks.
type PlainMarkdown struct{}

func (PlainMarkdown) Render(text string) template.HTML {
	escaped := html.EscapeString(StripMarkers(text))
	return template.HTML(strings.ReplaceAll(escaped, "\n", "<br>"))
}

// GoldmarkMarkdown renders GitHub flavoured markdown. Raw HTML in the
// source is allowed through goldmark and then filtered by a UGC policy.
type GoldmarkMarkdown struct {
	md     goldmark.Markdown
	policy *bluemonday.Policy
}

func NewGoldmarkMarkdown() *GoldmarkMarkdown {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(gmhtml.WithUnsafe(), gmhtml.WithHardWraps()),
	)
	return &GoldmarkMarkdown{md: md, policy: newPolicy()}
}

func (g *GoldmarkMarkdown) Render(text string) template.HTML {
	var buf bytes.Buffer
	if err := g.md.Convert([]byte(StripMarkers(text)), &buf); err != nil {
		slog.Warn("[markdown] convert failed, falling back to plain text", "error", err)
		return PlainMarkdown{}.Render(text)
	}
	return template.HTML(g.policy.SanitizeBytes(buf.Bytes()))
}

// newPolicy is the UGC policy plus inline styles, which bot HTML uses for
// headings and banners.
func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowStyling()
	p.AllowAttrs("style").Globally()
	return p
}

// SanitizeHTML filters bot-supplied HTML with the renderer's policy.
func SanitizeHTML(s string) template.HTML {
	return template.HTML(sharedPolicy.Sanitize(StripMarkers(s)))
}

var sharedPolicy = newPolicy()
