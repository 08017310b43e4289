package chat

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
)

// MessageView is a message prepared for display: its author, the icon color
// class for that author and the extracted segments.
type MessageView struct {
	chat.Message
	Author    string            `json:"author"`
	IconClass string            `json:"iconClass,omitempty"`
	Segments  []extract.Segment `json:"segments"`
	Mixed     bool              `json:"mixed"`
}

// AuthorFunc resolves an event id to its author.
type AuthorFunc func(eventID string) string

// BuildViews extracts bot messages into segments. User messages stay a
// single text segment. A nil authors resolves everyone to the root agent.
func BuildViews(msgs []chat.Message, ex *extract.Extractor, authors AuthorFunc) []MessageView {
	if ex == nil {
		ex = extract.New(nil)
	}
	views := make([]MessageView, 0, len(msgs))
	for _, m := range msgs {
		author := chat.RootAgent
		if authors != nil {
			author = authors(m.EventID)
		}

		var segs []extract.Segment
		if m.Role == chat.RoleBot {
			segs = ex.Extract(m.Text)
		} else if m.Text != "" {
			segs = []extract.Segment{{Kind: extract.KindText, Text: m.Text}}
		}

		views = append(views, MessageView{
			Message:   m,
			Author:    author,
			IconClass: IconColorClass(author),
			Segments:  segs,
			Mixed:     extract.Mixed(segs),
		})
	}
	return views
}

// IconColorClass derives a stable color class from an author name. The root
// agent keeps the default icon.
func IconColorClass(author string) string {
	if author == "" || author == chat.RootAgent {
		return ""
	}
	return fmt.Sprintf("custom-icon-color-%06x", xxhash.Sum64String(author)&0xffffff)
}
