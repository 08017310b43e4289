package render

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"log/slog"
	"strings"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Option configures a Renderer.
type Option func(*Renderer)

// WithMaxDepth bounds the widget tree depth accepted by Render.
func WithMaxDepth(n int) Option {
	return func(r *Renderer) { r.maxDepth = n }
}

// WithMarkdown sets the markdown capability used by text widgets.
func WithMarkdown(md Markdown) Option {
	return func(r *Renderer) {
		if md != nil {
			r.markdown = md
		}
	}
}

// Renderer renders one widget tree at a time. It holds no per-call state
// and is safe for concurrent use.
type Renderer struct {
	tmpl     *template.Template
	maxDepth int
	markdown Markdown
}

func New(opts ...Option) *Renderer {
	r := &Renderer{
		tmpl:     template.Must(template.New("widgets").Funcs(funcMap()).ParseFS(templateFS, "templates/*.gohtml")),
		maxDepth: widget.DefaultMaxDepth,
		markdown: PlainMarkdown{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// nodeView is the data each per-type template receives.
type nodeView struct {
	Theme    Theme
	ID       string
	W        widget.Widget
	Children []template.HTML
	Content  template.HTML
	Body     template.HTML
	Cart     *widget.CartState
}

// Render flattens w and renders its nodes from the leaves up, so every
// container and popup receives its children already rendered. Invalid and
// unknown nodes render as nothing.
func (r *Renderer) Render(w widget.Widget, theme Theme) (template.HTML, error) {
	if !theme.Valid() {
		theme = ThemeLight
	}
	tree, err := widget.Flatten(w, r.maxDepth)
	if err != nil {
		metricRenders.WithLabelValues("rejected").Inc()
		return "", fmt.Errorf("render widget tree: %w", err)
	}

	out := make([]template.HTML, tree.Len())
	for i := tree.Len() - 1; i >= 0; i-- {
		node := tree.Nodes[i]
		html, err := r.renderNode(node, out, theme)
		if err != nil {
			metricRenders.WithLabelValues("error").Inc()
			return "", err
		}
		out[i] = html
	}

	metricRenders.WithLabelValues("ok").Inc()
	return out[0], nil
}

func (r *Renderer) renderNode(node widget.Node, rendered []template.HTML, theme Theme) (template.HTML, error) {
	if !renderable(node.Widget) {
		var declared widget.Type
		if node.Widget != nil {
			declared = node.Widget.Kind()
		}
		slog.Debug("[render] skipping unrenderable node", "path", node.Path, "type", declared)
		metricSkipped.WithLabelValues(string(declared)).Inc()
		return "", nil
	}

	v := nodeView{
		Theme: theme,
		ID:    "w-" + strings.ReplaceAll(node.Path, ".", "-"),
		W:     node.Widget,
	}
	for _, child := range node.Children {
		v.Children = append(v.Children, rendered[child])
	}

	switch w := node.Widget.(type) {
	case *widget.Popup:
		if len(node.Children) == 1 {
			v.Content = rendered[node.Children[0]]
		}
	case *widget.Text:
		if w.Markdown {
			v.Body = r.markdown.Render(w.Content)
		} else {
			v.Body = SanitizeHTML(w.Content)
		}
	case *widget.Cart:
		v.Cart = widget.NewCartState(w)
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, string(node.Widget.Kind()), v); err != nil {
		return "", fmt.Errorf("render %s at %s: %w", node.Widget.Kind(), node.Path, err)
	}
	return template.HTML(buf.String()), nil
}

// renderable is the total dispatch check: only the fourteen concrete
// variants have templates.
func renderable(w widget.Widget) bool {
	switch w.(type) {
	case *widget.PricingCards, *widget.Form, *widget.QuickLinks, *widget.Popup,
		*widget.Container, *widget.Text, *widget.Table, *widget.Alert,
		*widget.CardGrid, *widget.Accordion, *widget.Timeline, *widget.Carousel,
		*widget.Rating, *widget.Cart:
		return true
	default:
		return false
	}
}
