package action

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
	"github.com/zhouzirui/widget-chat/backend/internal/service/extract"
)

func newTestMapper() (*Mapper, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewMapper(slog.New(slog.NewJSONHandler(&buf, nil))), &buf
}

func TestMapPricingCardClick(t *testing.T) {
	m, _ := newTestMapper()
	card := widget.PricingCard{
		ID:    "plan_002",
		Title: "Fast 500",
		Price: widget.PricingCardPrice{Currency: "$", Amount: "49.99", Period: "/mo"},
		CTA:   widget.PricingCardCTA{Text: "Choose Plan"},
	}
	msg, ok := m.Map((&widget.PricingCards{}).Click(card))
	require.True(t, ok)
	assert.Equal(t, "I'd like to select the **Fast 500** plan at $49.99/mo. (Plan ID: plan_002)", msg)
}

func TestMapFormSubmitKeepsDeclaredOrder(t *testing.T) {
	form := &widget.Form{
		Title: "Contact Us",
		Fields: []widget.FormField{
			{Type: widget.FieldText, Name: "fullName", Label: "Full Name"},
			{Type: widget.FieldEmail, Name: "email", Label: "Email"},
			{Type: widget.FieldCheckbox, Name: "services", Label: "Services"},
		},
	}
	ev, err := form.Submit(url.Values{
		"services": {"training", "analytics"},
		"email":    {"ada@example.com"},
		"fullName": {"Ada"},
	})
	require.NoError(t, err)

	m, _ := newTestMapper()
	msg, ok := m.Map(ev)
	require.True(t, ok)
	assert.Equal(t, "**Contact Us**\n\n**Full Name:** Ada\n**Email:** ada@example.com\n**Services:** training, analytics\n", msg)
}

func TestMapSimpleEvents(t *testing.T) {
	m, _ := newTestMapper()
	cases := []struct {
		name string
		ev   widget.ActionEvent
		want string
	}{
		{"quick link", widget.ActionEvent{Type: widget.ActionQuickLinkClick, Data: &widget.QuickLinkClickData{Link: widget.QuickLink{Text: "Pay Bill"}}}, "Pay Bill"},
		{"card", widget.ActionEvent{Type: widget.ActionCardClick, Data: &widget.CardClickData{Card: widget.GridCard{Title: "Laptop"}}}, "I'm interested in **Laptop**."},
		{"alert", widget.ActionEvent{Type: widget.ActionAlertAction, Data: &widget.AlertActionData{Action: widget.AlertAction{Text: "Update Now"}}}, "Update Now"},
		{"rating", widget.ActionEvent{Type: widget.ActionRatingChange, Data: &widget.RatingChangeData{Value: 4, Max: 5}}, "I'd rate this 4 out of 5."},
		{"half rating", widget.ActionEvent{Type: widget.ActionRatingChange, Data: &widget.RatingChangeData{Value: 3.5, Max: 10}}, "I'd rate this 3.5 out of 10."},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			msg, ok := m.Map(tc.ev)
			require.True(t, ok)
			assert.Equal(t, tc.want, msg)
		})
	}
}

func TestMapInformationalEventsProduceNothing(t *testing.T) {
	m, logs := newTestMapper()
	for _, ev := range []widget.ActionEvent{
		{Type: widget.ActionPopupOpen, Data: &widget.PopupData{PopupID: "w-0"}},
		{Type: widget.ActionPopupClose, Data: &widget.PopupData{PopupID: "w-0"}},
		{Type: widget.ActionAccordionToggle, Data: &widget.AccordionToggleData{ItemID: "faq1", Expanded: true}},
	} {
		msg, ok := m.Map(ev)
		assert.False(t, ok, ev.Type)
		assert.Empty(t, msg)
	}
	assert.Empty(t, logs.String())
}

func TestMapUnknownTypeLogs(t *testing.T) {
	m, logs := newTestMapper()

	var ev widget.ActionEvent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"video-play","data":{"t":1}}`), &ev))

	msg, ok := m.Map(ev)
	assert.False(t, ok)
	assert.Empty(t, msg)
	assert.Contains(t, logs.String(), "unknown widget action type")
	assert.Contains(t, logs.String(), "video-play")

	assert.NotPanics(t, func() { m.Map(widget.ActionEvent{Type: widget.ActionCardClick}) })
}

func TestMapIgnoresPayloadOfAnotherType(t *testing.T) {
	m, logs := newTestMapper()
	card := &widget.PricingCardClickData{Card: widget.PricingCard{ID: "plan_001", Title: "Basic"}}

	for _, ev := range []widget.ActionEvent{
		{Type: widget.ActionPopupOpen, Data: card},
		{Type: "video-play", Data: card},
		{Type: widget.ActionQuickLinkClick, Data: card},
	} {
		msg, ok := m.Map(ev)
		assert.False(t, ok, ev.Type)
		assert.Empty(t, msg, ev.Type)
	}
	assert.Contains(t, logs.String(), "unknown widget action type")
	assert.Contains(t, logs.String(), "payload does not match action type")
}

func demoCartState() *widget.CartState {
	pct := 10.0
	return widget.NewCartState(&widget.Cart{
		Items: []widget.CartItem{
			{ID: "item1", Name: "Laptop", Price: 1000, Quantity: 1, MaxQuantity: 3},
			{ID: "item2", Name: "Mouse", Price: 25, Quantity: 2},
		},
		Shipping: &widget.CartShipping{Amount: 15},
		Discount: &widget.CartDiscount{Percentage: &pct},
	})
}

func TestMapCartActions(t *testing.T) {
	m, _ := newTestMapper()

	msg, ok := m.Map(demoCartState().Checkout())
	require.True(t, ok)
	assert.Equal(t, "**Proceed to Checkout**\n\n**Items:** 2\n**Subtotal:** $1050.00\n**Shipping:** $15.00\n**Discount:** -$105.00\n**Total:** $960.00", msg)

	msg, ok = m.Map(demoCartState().ContinueShopping())
	require.True(t, ok)
	assert.Equal(t, "Continue shopping", msg)

	ev, err := demoCartState().UpdateQuantity("item1", 2)
	require.NoError(t, err)
	msg, ok = m.Map(ev)
	require.True(t, ok)
	assert.Equal(t, "Updated Laptop quantity to 2", msg)

	ev, err = demoCartState().Remove("item2")
	require.NoError(t, err)
	msg, ok = m.Map(ev)
	require.True(t, ok)
	assert.Equal(t, "Removed Mouse from cart", msg)
}

func TestMapUnmappedCartAction(t *testing.T) {
	m, logs := newTestMapper()
	for _, action := range []widget.CartAction{widget.CartApplyCoupon, "teleport"} {
		msg, ok := m.Map(widget.ActionEvent{Type: widget.ActionCart, Data: &widget.CartActionData{Action: action}})
		assert.False(t, ok)
		assert.Empty(t, msg)
	}
	assert.Contains(t, logs.String(), "teleport")
}

func TestPickAPlanEndToEnd(t *testing.T) {
	text := `Pick a plan: {"type":"pricing-cards","cards":[{"title":"Basic","price":{"currency":"$","amount":"9","period":"/mo"},"features":[],"cta":{"text":"Buy"}}]}`

	segs := extract.New(nil).Extract(text)
	require.Len(t, segs, 2)
	assert.Equal(t, extract.KindText, segs[0].Kind)
	assert.Equal(t, "Pick a plan:", segs[0].Text)
	require.True(t, segs[1].Renderable())

	pc := segs[1].Widget.(*widget.PricingCards)
	ev := pc.Click(pc.Cards[0])
	assert.Equal(t, widget.ActionPricingCardClick, ev.Type)
	assert.Equal(t, "Buy", ev.Data.(*widget.PricingCardClickData).CTAText)

	// The event survives a trip through the client.
	payload, err := json.Marshal(ev)
	require.NoError(t, err)
	var received widget.ActionEvent
	require.NoError(t, json.Unmarshal(payload, &received))

	m, _ := newTestMapper()
	msg, ok := m.Map(received)
	require.True(t, ok)
	assert.Equal(t, "I'd like to select the **Basic** plan at $9/mo.", msg)
}
