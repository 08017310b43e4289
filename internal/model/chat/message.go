package chat

import "time"

// Role distinguishes the two sides of a conversation.
type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Valid reports whether r is user or bot.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleBot
}

// Message is one turn. Text is the only input the widget extractor reads;
// EventID correlates the turn to the event that produced it.
type Message struct {
	ID        string    `json:"id"`
	SessionID string    `json:"sessionId"`
	Role      Role      `json:"role"`
	Text      string    `json:"text"`
	EventID   string    `json:"eventId,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
