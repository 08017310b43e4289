package widget

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionEventPricingClick(t *testing.T) {
	raw := `{"type":"pricing-card-click","data":{"card":{"id":"plan_002","title":"Fast 500",
		"price":{"currency":"$","amount":"49.99","period":"/mo"},"cta":{"text":"Choose Plan"}},"ctaText":"Choose Plan"}}`

	var ev ActionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))
	assert.Equal(t, ActionPricingCardClick, ev.Type)

	data, ok := ev.Data.(*PricingCardClickData)
	require.True(t, ok)
	assert.Equal(t, "plan_002", data.Card.ID)
	assert.Equal(t, "Choose Plan", data.CTAText)
}

func TestActionEventFormFieldsObjectKeepsOrder(t *testing.T) {
	raw := `{"type":"form-submit","data":{"title":"Contact Us","fields":{"zeta":"last?","alpha":"x","services":["training","analytics"],"count":3}}}`

	var ev ActionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	data := ev.Data.(*FormSubmitData)
	assert.Equal(t, "Contact Us", data.Title)
	require.Len(t, data.Fields, 4)
	assert.Equal(t, SubmittedField{Name: "zeta", Label: "zeta", Value: "last?"}, data.Fields[0])
	assert.Equal(t, "alpha", data.Fields[1].Name)
	assert.Equal(t, "training, analytics", data.Fields[2].Value)
	assert.Equal(t, "3", data.Fields[3].Value)
}

func TestActionEventFormFieldsArray(t *testing.T) {
	raw := `{"type":"form-submit","data":{"title":"T","fields":[{"name":"email","label":"Email","value":"a@b.c"}]}}`

	var ev ActionEvent
	require.NoError(t, json.Unmarshal([]byte(raw), &ev))

	data := ev.Data.(*FormSubmitData)
	require.Len(t, data.Fields, 1)
	assert.Equal(t, "Email", data.Fields[0].Label)
}

func TestActionEventUnknownKeepsRaw(t *testing.T) {
	var ev ActionEvent
	require.NoError(t, json.Unmarshal([]byte(`{"type":"video-play","data":{"t":12}}`), &ev))
	assert.Equal(t, ActionType("video-play"), ev.Type)

	raw, ok := ev.Data.(json.RawMessage)
	require.True(t, ok)
	assert.JSONEq(t, `{"t":12}`, string(raw))
}

func TestActionEventMissingType(t *testing.T) {
	var ev ActionEvent
	assert.Error(t, json.Unmarshal([]byte(`{"data":{}}`), &ev))
}

func TestActionEventBadPayload(t *testing.T) {
	var ev ActionEvent
	assert.Error(t, json.Unmarshal([]byte(`{"type":"rating-change","data":{"value":"five"}}`), &ev))
}

func TestActionEventCartRoundTrip(t *testing.T) {
	cart := &Cart{WidgetType: TypeCart, Items: []CartItem{{ID: "a", Name: "Mug", Price: 10, Quantity: 2}}}
	ev := NewCartState(cart).Checkout()

	payload, err := json.Marshal(ev)
	require.NoError(t, err)

	var decoded ActionEvent
	require.NoError(t, json.Unmarshal(payload, &decoded))
	data := decoded.Data.(*CartActionData)
	assert.Equal(t, CartCheckout, data.Action)
	require.NotNil(t, data.CartData)
	assert.InDelta(t, 20, data.CartData.Total, 1e-9)
}
