package widget

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ActionType discriminates ActionEvent payloads.
type ActionType string

const (
	ActionPricingCardClick ActionType = "pricing-card-click"
	ActionFormSubmit       ActionType = "form-submit"
	ActionQuickLinkClick   ActionType = "quick-link-click"
	ActionPopupOpen        ActionType = "popup-open"
	ActionPopupClose       ActionType = "popup-close"
	ActionCardClick        ActionType = "card-click"
	ActionAlertAction      ActionType = "alert-action"
	ActionAccordionToggle  ActionType = "accordion-toggle"
	ActionRatingChange     ActionType = "rating-change"
	ActionCart             ActionType = "cart-action"
)

// ActionEvent is what a widget raises when the user interacts with it.
// Data holds one of the *Data types below, or json.RawMessage when Type is
// not recognised.
type ActionEvent struct {
	Type ActionType `json:"type"`
	Data any        `json:"data,omitempty"`
}

type PricingCardClickData struct {
	Card    PricingCard `json:"card"`
	CTAText string      `json:"ctaText"`
}

// SubmittedField is one form value in declaration order.
type SubmittedField struct {
	Name  string `json:"name"`
	Label string `json:"label,omitempty"`
	Value string `json:"value"`
}

type FormSubmitData struct {
	Title  string           `json:"title"`
	Fields []SubmittedField `json:"fields"`
}

// UnmarshalJSON accepts fields either as an ordered array or as an object
// keyed by field name. Object key order is kept; array values are joined
// with ", ".
func (f *FormSubmitData) UnmarshalJSON(data []byte) error {
	var wire struct {
		Title  string          `json:"title"`
		Fields json.RawMessage `json:"fields"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	f.Title = wire.Title
	f.Fields = nil

	raw := bytes.TrimSpace(wire.Fields)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		return json.Unmarshal(raw, &f.Fields)
	}
	fields, err := decodeOrderedFields(raw)
	if err != nil {
		return fmt.Errorf("form fields: %w", err)
	}
	f.Fields = fields
	return nil
}

func decodeOrderedFields(raw []byte) ([]SubmittedField, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))
	tok, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("expected object or array, got %v", tok)
	}

	var fields []SubmittedField
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key, _ := keyTok.(string)

		var value any
		if err := dec.Decode(&value); err != nil {
			return nil, err
		}
		fields = append(fields, SubmittedField{Name: key, Label: key, Value: stringifyValue(value)})
	}
	if _, err := dec.Token(); err != nil {
		return nil, err
	}
	return fields, nil
}

func stringifyValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []any:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, stringifyValue(item))
		}
		return strings.Join(parts, ", ")
	default:
		return fmt.Sprint(val)
	}
}

type QuickLinkClickData struct {
	Link QuickLink `json:"link"`
}

type PopupData struct {
	PopupID string `json:"popupId"`
}

type CardClickData struct {
	Card GridCard `json:"card"`
}

type AlertActionData struct {
	Action AlertAction `json:"action"`
}

type AccordionToggleData struct {
	ItemID    string `json:"itemId"`
	ItemTitle string `json:"itemTitle"`
	Expanded  bool   `json:"expanded"`
}

type RatingChangeData struct {
	Value float64 `json:"value"`
	Max   int     `json:"max"`
}

// CartAction names what happened in a cart.
type CartAction string

const (
	CartCheckout         CartAction = "checkout"
	CartContinueShopping CartAction = "continue-shopping"
	CartUpdateQuantity   CartAction = "update-quantity"
	CartRemoveItem       CartAction = "remove-item"
	CartApplyCoupon      CartAction = "apply-coupon"
)

// CartSnapshot is the computed state of a cart at the time of an action.
type CartSnapshot struct {
	Items    []CartItem `json:"items"`
	Currency string     `json:"currency,omitempty"`
	Subtotal float64    `json:"subtotal"`
	Tax      float64    `json:"tax"`
	Shipping float64    `json:"shipping"`
	Discount float64    `json:"discount"`
	Total    float64    `json:"total"`
}

type CartActionData struct {
	Action      CartAction    `json:"action"`
	CartData    *CartSnapshot `json:"cartData,omitempty"`
	ItemID      string        `json:"itemId,omitempty"`
	NewQuantity int           `json:"newQuantity,omitempty"`
	CouponCode  string        `json:"couponCode,omitempty"`
}

// UnmarshalJSON reads the type first and decodes data into the matching
// payload struct.
func (e *ActionEvent) UnmarshalJSON(data []byte) error {
	var wire struct {
		Type ActionType      `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(data, &wire); err != nil {
		return err
	}
	if wire.Type == "" {
		return fmt.Errorf("action event: missing type")
	}
	e.Type = wire.Type

	var payload any
	switch wire.Type {
	case ActionPricingCardClick:
		payload = &PricingCardClickData{}
	case ActionFormSubmit:
		payload = &FormSubmitData{}
	case ActionQuickLinkClick:
		payload = &QuickLinkClickData{}
	case ActionPopupOpen, ActionPopupClose:
		payload = &PopupData{}
	case ActionCardClick:
		payload = &CardClickData{}
	case ActionAlertAction:
		payload = &AlertActionData{}
	case ActionAccordionToggle:
		payload = &AccordionToggleData{}
	case ActionRatingChange:
		payload = &RatingChangeData{}
	case ActionCart:
		payload = &CartActionData{}
	default:
		e.Data = append(json.RawMessage(nil), wire.Data...)
		return nil
	}

	if len(wire.Data) > 0 && !bytes.Equal(bytes.TrimSpace(wire.Data), []byte("null")) {
		if err := json.Unmarshal(wire.Data, payload); err != nil {
			return fmt.Errorf("action event %s: %w", wire.Type, err)
		}
	}
	e.Data = payload
	return nil
}
