package chat

// RootAgent authors every event without explicit metadata.
const RootAgent = "root_agent"

// Event is backend metadata for a bot turn.
type Event struct {
	ID     string `json:"id"`
	Author string `json:"author"`
}
