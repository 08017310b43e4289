package agent

import "github.com/zhouzirui/widget-chat/backend/internal/model/widget"

// Agent is a bot the user can talk to. Widgets lists the widget types the
// agent is prompted to answer with.
type Agent struct {
	ID          string        `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	PromptHint  string        `json:"promptHint"`
	OpeningLine string        `json:"openingLine,omitempty"`
	Widgets     []widget.Type `json:"widgets,omitempty"`
}

// Seed provides the default agents.
func Seed() []Agent {
	return []Agent{
		{
			ID:          "root_agent",
			Name:        "Assistant",
			Description: "General assistant that routes questions and answers with any widget.",
			PromptHint:  "Answer briefly. Use a widget whenever it makes the answer easier to act on.",
			OpeningLine: "Hi! Ask me anything, or try the demo to see every widget.",
			Widgets:     widget.Types(),
		},
		{
			ID:          "pricing_agent",
			Name:        "Plans Advisor",
			Description: "Helps pick a plan and check out.",
			PromptHint:  "Compare plans with pricing cards and tables. Offer a cart once the user has chosen.",
			OpeningLine: "Looking for a plan? I can compare them side by side.",
			Widgets: []widget.Type{
				widget.TypePricingCards, widget.TypeTable, widget.TypeCart,
				widget.TypeQuickLinks, widget.TypeAlert, widget.TypePopup, widget.TypeContainer,
			},
		},
		{
			ID:          "support_agent",
			Name:        "Support",
			Description: "Troubleshoots issues and collects details.",
			PromptHint:  "Collect details with forms, explain steps with timelines and accordions, and ask for a rating at the end.",
			OpeningLine: "Something not working? Tell me what happened.",
			Widgets: []widget.Type{
				widget.TypeForm, widget.TypeAccordion, widget.TypeTimeline, widget.TypeRating,
				widget.TypeAlert, widget.TypeQuickLinks, widget.TypeText,
			},
		},
	}
}
