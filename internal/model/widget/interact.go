package widget

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strings"
)

var (
	ErrRequiredField  = errors.New("widget: required field missing")
	ErrIndexRange     = errors.New("widget: index out of range")
	ErrInputDisabled  = errors.New("widget: rating input disabled")
	ErrItemNotFound   = errors.New("widget: cart item not found")
	ErrQuantityRange  = errors.New("widget: quantity out of range")
	ErrItemLocked     = errors.New("widget: cart item cannot be changed")
	ErrPopupIDMissing = errors.New("widget: popup id is required")
)

// Click raises pricing-card-click for card.
func (p *PricingCards) Click(card PricingCard) ActionEvent {
	return ActionEvent{
		Type: ActionPricingCardClick,
		Data: &PricingCardClickData{Card: card, CTAText: card.CTA.Text},
	}
}

// AllCards returns the flat cards followed by every tab's cards.
func (p *PricingCards) AllCards() []PricingCard {
	cards := append([]PricingCard(nil), p.Cards...)
	for _, tab := range p.Tabs {
		cards = append(cards, tab.Cards...)
	}
	return cards
}

// Submit builds a form-submit event from posted values. Fields keep the
// form's declaration order; undeclared keys are dropped.
func (f *Form) Submit(values url.Values) (ActionEvent, error) {
	fields := make([]SubmittedField, 0, len(f.Fields))
	for _, field := range f.Fields {
		vals := values[field.Name]
		nonEmpty := vals[:0:0]
		for _, v := range vals {
			if strings.TrimSpace(v) != "" {
				nonEmpty = append(nonEmpty, v)
			}
		}
		if field.Required && len(nonEmpty) == 0 {
			return ActionEvent{}, fmt.Errorf("%w: %s", ErrRequiredField, field.Name)
		}
		if len(vals) == 0 {
			continue
		}
		fields = append(fields, SubmittedField{
			Name:  field.Name,
			Label: field.Label,
			Value: strings.Join(nonEmpty, ", "),
		})
	}
	return ActionEvent{
		Type: ActionFormSubmit,
		Data: &FormSubmitData{Title: f.Title, Fields: fields},
	}, nil
}

// ResetVisible reports whether the reset button is shown. Defaults to true.
func (f *Form) ResetVisible() bool {
	return f.ShowResetButton == nil || *f.ShowResetButton
}

func (q *QuickLinks) Click(i int) (ActionEvent, error) {
	if i < 0 || i >= len(q.Links) {
		return ActionEvent{}, fmt.Errorf("%w: link %d", ErrIndexRange, i)
	}
	return ActionEvent{Type: ActionQuickLinkClick, Data: &QuickLinkClickData{Link: q.Links[i]}}, nil
}

func (g *CardGrid) Click(i int) (ActionEvent, error) {
	if i < 0 || i >= len(g.Cards) {
		return ActionEvent{}, fmt.Errorf("%w: card %d", ErrIndexRange, i)
	}
	return ActionEvent{Type: ActionCardClick, Data: &CardClickData{Card: g.Cards[i]}}, nil
}

func (a *Alert) Act(i int) (ActionEvent, error) {
	if i < 0 || i >= len(a.Actions) {
		return ActionEvent{}, fmt.Errorf("%w: action %d", ErrIndexRange, i)
	}
	return ActionEvent{Type: ActionAlertAction, Data: &AlertActionData{Action: a.Actions[i]}}, nil
}

// Rate raises rating-change with v clamped to 1..Scale().
func (r *Rating) Rate(v float64) (ActionEvent, error) {
	if !r.AllowInput {
		return ActionEvent{}, ErrInputDisabled
	}
	scale := r.Scale()
	value := math.Max(v, 1)
	value = math.Min(value, float64(scale))
	return ActionEvent{Type: ActionRatingChange, Data: &RatingChangeData{Value: value, Max: scale}}, nil
}

func (p *Popup) Open(id string) (ActionEvent, error) {
	if id == "" {
		return ActionEvent{}, ErrPopupIDMissing
	}
	return ActionEvent{Type: ActionPopupOpen, Data: &PopupData{PopupID: id}}, nil
}

func (p *Popup) Close(id string) (ActionEvent, error) {
	if id == "" {
		return ActionEvent{}, ErrPopupIDMissing
	}
	return ActionEvent{Type: ActionPopupClose, Data: &PopupData{PopupID: id}}, nil
}
