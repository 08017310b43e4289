// Package demo serves the canned transcript that showcases every widget.
package demo

import (
	_ "embed"
	"fmt"

	"github.com/zhouzirui/widget-chat/backend/internal/model/chat"
	"gopkg.in/yaml.v3"
)

//go:embed messages.yaml
var messagesYAML []byte

type entry struct {
	Role    chat.Role `yaml:"role"`
	Text    string    `yaml:"text"`
	EventID string    `yaml:"eventId"`
}

// Messages decodes the demo transcript. Each call returns a fresh slice so
// callers may stamp session ids on it.
func Messages() ([]chat.Message, error) {
	return parse(messagesYAML)
}

func parse(data []byte) ([]chat.Message, error) {
	var entries []entry
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("decode demo transcript: %w", err)
	}

	msgs := make([]chat.Message, 0, len(entries))
	for i, e := range entries {
		if !e.Role.Valid() {
			return nil, fmt.Errorf("demo message %d: invalid role %q", i, e.Role)
		}
		msgs = append(msgs, chat.Message{Role: e.Role, Text: e.Text, EventID: e.EventID})
	}
	return msgs, nil
}
