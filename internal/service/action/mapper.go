// Package action turns widget action events into outbound chat messages.
package action

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

// Mapper formats action events as the text a user would have typed.
type Mapper struct {
	logger *slog.Logger
}

// NewMapper builds a Mapper. A nil logger uses slog.Default().
func NewMapper(logger *slog.Logger) *Mapper {
	if logger == nil {
		logger = slog.Default()
	}
	return &Mapper{logger: logger}
}

// Map returns the message for ev and whether one should be sent.
// Informational events, unknown types and payloads of the wrong shape map
// to nothing.
func (m *Mapper) Map(ev widget.ActionEvent) (string, bool) {
	msg, ok := m.mapEvent(ev)
	outcome := "sent"
	if !ok {
		outcome = "dropped"
	}
	metricMapped.WithLabelValues(string(ev.Type), outcome).Inc()
	return msg, ok
}

func (m *Mapper) mapEvent(ev widget.ActionEvent) (string, bool) {
	switch ev.Type {
	case widget.ActionPricingCardClick:
		if data, ok := ev.Data.(*widget.PricingCardClickData); ok {
			return pricingMessage(data.Card), true
		}
	case widget.ActionFormSubmit:
		if data, ok := ev.Data.(*widget.FormSubmitData); ok {
			return formMessage(data), true
		}
	case widget.ActionQuickLinkClick:
		if data, ok := ev.Data.(*widget.QuickLinkClickData); ok {
			return data.Link.Text, true
		}
	case widget.ActionCart:
		if data, ok := ev.Data.(*widget.CartActionData); ok {
			msg, ok := cartMessage(data)
			if !ok {
				m.logger.Warn("[action] unmapped cart action", "action", data.Action)
			}
			return msg, ok
		}
	case widget.ActionCardClick:
		if data, ok := ev.Data.(*widget.CardClickData); ok {
			return fmt.Sprintf("I'm interested in **%s**.", data.Card.Title), true
		}
	case widget.ActionAlertAction:
		if data, ok := ev.Data.(*widget.AlertActionData); ok {
			return data.Action.Text, true
		}
	case widget.ActionRatingChange:
		if data, ok := ev.Data.(*widget.RatingChangeData); ok {
			return fmt.Sprintf("I'd rate this %s out of %d.", formatNumber(data.Value), data.Max), true
		}
	case widget.ActionPopupOpen, widget.ActionPopupClose, widget.ActionAccordionToggle:
		return "", false
	default:
		m.logger.Warn("[action] unknown widget action type", "type", ev.Type)
		return "", false
	}

	m.logger.Warn("[action] payload does not match action type", "type", ev.Type, "data", fmt.Sprintf("%T", ev.Data))
	return "", false
}

func pricingMessage(card widget.PricingCard) string {
	msg := fmt.Sprintf("I'd like to select the **%s** plan at %s%s%s.",
		card.Title, card.Price.Currency, card.Price.Amount, card.Price.Period)
	if card.ID != "" {
		msg += fmt.Sprintf(" (Plan ID: %s)", card.ID)
	}
	return msg
}

func formMessage(data *widget.FormSubmitData) string {
	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", data.Title)
	for _, f := range data.Fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		fmt.Fprintf(&b, "**%s:** %s\n", label, f.Value)
	}
	return b.String()
}

func cartMessage(data *widget.CartActionData) (string, bool) {
	snap := data.CartData
	if snap == nil {
		snap = &widget.CartSnapshot{}
	}
	switch data.Action {
	case widget.CartCheckout:
		var b strings.Builder
		b.WriteString("**Proceed to Checkout**\n\n")
		fmt.Fprintf(&b, "**Items:** %d\n", len(snap.Items))
		fmt.Fprintf(&b, "**Subtotal:** $%.2f\n", snap.Subtotal)
		if snap.Tax != 0 {
			fmt.Fprintf(&b, "**Tax:** $%.2f\n", snap.Tax)
		}
		if snap.Shipping != 0 {
			fmt.Fprintf(&b, "**Shipping:** $%.2f\n", snap.Shipping)
		}
		if snap.Discount != 0 {
			fmt.Fprintf(&b, "**Discount:** -$%.2f\n", snap.Discount)
		}
		fmt.Fprintf(&b, "**Total:** $%.2f", snap.Total)
		return b.String(), true
	case widget.CartContinueShopping:
		return "Continue shopping", true
	case widget.CartUpdateQuantity:
		return fmt.Sprintf("Updated %s quantity to %d", itemName(snap, data.ItemID), data.NewQuantity), true
	case widget.CartRemoveItem:
		return fmt.Sprintf("Removed %s from cart", itemName(snap, data.ItemID)), true
	default:
		return "", false
	}
}

// itemName falls back to the id when the snapshot does not list the item.
func itemName(snap *widget.CartSnapshot, id string) string {
	for _, item := range snap.Items {
		if item.ID == id {
			return item.Name
		}
	}
	return id
}

func formatNumber(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%g", v)
}
