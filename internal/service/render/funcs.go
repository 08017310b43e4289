package render

import (
	"encoding/json"
	"fmt"
	"html/template"
	"math"
	"strconv"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

func funcMap() template.FuncMap {
	return template.FuncMap{
		"pricingClick":    pricingClick,
		"quickLinkClick":  quickLinkClick,
		"cardClick":       cardClick,
		"alertAct":        alertAct,
		"popupOpen":       popupEvent(widget.ActionPopupOpen),
		"popupClose":      popupEvent(widget.ActionPopupClose),
		"accordionToggle": accordionToggle,
		"ratingSet":       ratingSet,
		"cartCheckout":    cartCheckout,
		"cartContinue":    cartContinue,
		"cartQuantity":    cartQuantity,
		"cartRemove":      cartRemove,
		"formMeta":        formMeta,
		"cell":            cell,
		"stars":           stars,
		"orDefault":       orDefault,
		"add":             func(a, b int) int { return a + b },
		"lineTotal":       func(i widget.CartItem) float64 { return i.Price * float64(i.Quantity) },
		"showImages":      func(c *widget.Cart) bool { return c.ShowItemImages == nil || *c.ShowItemImages },
	}
}

func encodeEvent(ev widget.ActionEvent) (string, error) {
	data, err := json.Marshal(ev)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func pricingClick(card widget.PricingCard) (string, error) {
	return encodeEvent((&widget.PricingCards{}).Click(card))
}

func quickLinkClick(link widget.QuickLink) (string, error) {
	return encodeEvent(widget.ActionEvent{Type: widget.ActionQuickLinkClick, Data: &widget.QuickLinkClickData{Link: link}})
}

func cardClick(card widget.GridCard) (string, error) {
	return encodeEvent(widget.ActionEvent{Type: widget.ActionCardClick, Data: &widget.CardClickData{Card: card}})
}

func alertAct(action widget.AlertAction) (string, error) {
	return encodeEvent(widget.ActionEvent{Type: widget.ActionAlertAction, Data: &widget.AlertActionData{Action: action}})
}

func popupEvent(t widget.ActionType) func(string) (string, error) {
	return func(id string) (string, error) {
		return encodeEvent(widget.ActionEvent{Type: t, Data: &widget.PopupData{PopupID: id}})
	}
}

// accordionToggle describes the event the item raises when clicked from
// its rendered state.
func accordionToggle(item widget.AccordionItem) (string, error) {
	return encodeEvent(widget.ActionEvent{
		Type: widget.ActionAccordionToggle,
		Data: &widget.AccordionToggleData{ItemID: item.ID, ItemTitle: item.Title, Expanded: !item.Expanded},
	})
}

func ratingSet(r *widget.Rating, value int) (string, error) {
	ev, err := r.Rate(float64(value))
	if err != nil {
		return "", err
	}
	return encodeEvent(ev)
}

func cartCheckout(s *widget.CartState) (string, error) {
	return encodeEvent(s.Checkout())
}

func cartContinue(s *widget.CartState) (string, error) {
	return encodeEvent(s.ContinueShopping())
}

// cartQuantity returns "" when the change is not allowed, which templates
// use to disable the control.
func cartQuantity(c *widget.Cart, id string, n int) string {
	ev, err := widget.NewCartState(c).UpdateQuantity(id, n)
	if err != nil {
		return ""
	}
	out, err := encodeEvent(ev)
	if err != nil {
		return ""
	}
	return out
}

func cartRemove(c *widget.Cart, id string) string {
	ev, err := widget.NewCartState(c).Remove(id)
	if err != nil {
		return ""
	}
	out, err := encodeEvent(ev)
	if err != nil {
		return ""
	}
	return out
}

type formField struct {
	Name     string `json:"name"`
	Label    string `json:"label"`
	Required bool   `json:"required,omitempty"`
}

// formMeta is what a client needs to turn a submitted form into a
// form-submit event.
func formMeta(f *widget.Form) (string, error) {
	meta := struct {
		Title  string      `json:"title"`
		Fields []formField `json:"fields"`
	}{Title: f.Title}
	for _, field := range f.Fields {
		meta.Fields = append(meta.Fields, formField{Name: field.Name, Label: field.Label, Required: field.Required})
	}
	data, err := json.Marshal(meta)
	return string(data), err
}

func cell(row map[string]any, key string) string {
	v, ok := row[key]
	if !ok || v == nil {
		return ""
	}
	switch val := v.(type) {
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return fmt.Sprint(val)
	}
}

// stars splits a rating into full, half and empty star slots.
func stars(value float64, scale int) []string {
	if scale <= 0 {
		scale = widget.DefaultRatingMax
	}
	out := make([]string, scale)
	for i := range out {
		pos := float64(i + 1)
		switch {
		case value >= pos:
			out[i] = "full"
		case value >= pos-0.5 && math.Mod(value, 1) != 0:
			out[i] = "half"
		default:
			out[i] = "empty"
		}
	}
	return out
}

func orDefault(v, fallback string) string {
	if v == "" {
		return fallback
	}
	return v
}
