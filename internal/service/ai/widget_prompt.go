package ai

import (
	"fmt"
	"strings"

	"github.com/zhouzirui/widget-chat/backend/internal/model/agent"
	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

// widgetExamples is one minimal literal per widget type.
var widgetExamples = map[widget.Type]string{
	widget.TypePricingCards: `{"type":"pricing-cards","cards":[{"id":"basic","title":"Basic","price":{"currency":"$","amount":"9","period":"/mo"},"features":[{"text":"1 seat","enabled":true}],"cta":{"text":"Choose"}}]}`,
	widget.TypeForm:         `{"type":"form","title":"Contact","fields":[{"type":"email","name":"email","label":"Email","required":true}],"submitText":"Send"}`,
	widget.TypeQuickLinks:   `{"type":"quick-links","links":[{"text":"Track my order"},{"text":"Talk to a human"}]}`,
	widget.TypePopup:        `{"type":"popup","trigger":{"text":"Details","style":"button"},"title":"Details","content":{"type":"text","content":"..."}}`,
	widget.TypeContainer:    `{"type":"container","layout":"vertical","widgets":[{"type":"text","content":"..."}]}`,
	widget.TypeText:         `{"type":"text","content":"**Bold** text","markdown":true}`,
	widget.TypeTable:        `{"type":"table","columns":[{"key":"plan","label":"Plan"}],"rows":[{"plan":"Basic"}]}`,
	widget.TypeAlert:        `{"type":"alert","variant":"warning","message":"Your plan renews tomorrow","actions":[{"text":"Manage"}]}`,
	widget.TypeCardGrid:     `{"type":"card-grid","cards":[{"title":"Laptop","price":"$999","cta":{"text":"View"}}]}`,
	widget.TypeAccordion:    `{"type":"accordion","items":[{"id":"q1","title":"How do I cancel?","content":"..."}]}`,
	widget.TypeTimeline:     `{"type":"timeline","items":[{"date":"Mon","title":"Ordered","status":"completed"}]}`,
	widget.TypeCarousel:     `{"type":"carousel","items":[{"image":"https://example.com/a.png","title":"A"}]}`,
	widget.TypeRating:       `{"type":"rating","value":0,"allowInput":true}`,
	widget.TypeCart:         `{"type":"cart","items":[{"id":"a","name":"Mug","price":12,"quantity":1}]}`,
}

// BuildSystemPrompt tells the model who it is and which widget literals it
// may embed in replies.
func BuildSystemPrompt(a *agent.Agent) string {
	types := a.Widgets
	if len(types) == 0 {
		types = widget.Types()
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are %s. %s\n", a.Name, a.Description)
	if a.PromptHint != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", a.PromptHint)
	}
	b.WriteString(`
You can embed interactive widgets in replies. A widget is a single JSON object written inline in the
message, with a "type" field naming the widget. Write prose before or after it as needed. Do not wrap
widgets in code fences. Keep each widget valid JSON.

Available widgets:
`)
	for _, typ := range types {
		if ex, ok := widgetExamples[typ]; ok {
			fmt.Fprintf(&b, "- %s: %s\n", typ, ex)
		}
	}
	if a.OpeningLine != "" {
		fmt.Fprintf(&b, "\nOpening line: %s", a.OpeningLine)
	}
	return b.String()
}
