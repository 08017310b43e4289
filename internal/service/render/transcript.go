package render

import (
	"bytes"
	"fmt"
	"html/template"
	"log/slog"

	chatmodel "github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
)

// TranscriptRenderer renders a whole chat panel.
type TranscriptRenderer interface {
	RenderMessages(msgs []chat.MessageView, theme Theme) (template.HTML, error)
}

// Transcript is the default chat panel: bot prose goes through the markdown
// capability and widget segments through the Renderer.
type Transcript struct {
	r  *Renderer
	md Markdown
}

func NewTranscript(r *Renderer, md Markdown) *Transcript {
	if r == nil {
		r = New()
	}
	if md == nil {
		md = PlainMarkdown{}
	}
	return &Transcript{r: r, md: md}
}

type messageView struct {
	Role      string
	Author    string
	IconClass string
	Mixed     bool
	Parts     []template.HTML
}

type transcriptView struct {
	Theme    Theme
	Messages []messageView
}

// RenderMessages renders msgs in order. A widget that fails to render is
// omitted; the rest of the message still renders.
func (t *Transcript) RenderMessages(msgs []chat.MessageView, theme Theme) (template.HTML, error) {
	if !theme.Valid() {
		theme = ThemeLight
	}
	view := transcriptView{Theme: theme, Messages: make([]messageView, 0, len(msgs))}

	for _, m := range msgs {
		mv := messageView{
			Role:      string(m.Role),
			Author:    m.Author,
			IconClass: m.IconClass,
			Mixed:     m.Mixed,
		}
		for i, seg := range m.Segments {
			part, ok := t.renderSegment(m, i, seg, theme)
			if ok {
				mv.Parts = append(mv.Parts, part)
			}
		}
		view.Messages = append(view.Messages, mv)
	}

	var buf bytes.Buffer
	if err := t.r.tmpl.ExecuteTemplate(&buf, "transcript", view); err != nil {
		return "", fmt.Errorf("render transcript: %w", err)
	}
	return template.HTML(buf.String()), nil
}

func (t *Transcript) renderSegment(m chat.MessageView, i int, seg extract.Segment, theme Theme) (template.HTML, bool) {
	if seg.Kind == extract.KindText {
		if m.Role == chatmodel.RoleBot {
			return t.md.Render(seg.Text), true
		}
		return PlainMarkdown{}.Render(seg.Text), true
	}
	if !seg.Renderable() {
		slog.Debug("[render] omitting undecodable widget", "message", m.ID, "segment", i, "error", seg.Err)
		return "", false
	}
	html, err := t.r.Render(seg.Widget, theme)
	if err != nil {
		slog.Warn("[render] omitting widget", "message", m.ID, "segment", i, "error", err)
		return "", false
	}
	return html, true
}
