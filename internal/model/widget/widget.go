// Package widget defines the structured payloads a bot can embed in chat text.
package widget

// Type is the discriminator carried in every widget's "type" field.
type Type string

const (
	TypePricingCards Type = "pricing-cards"
	TypeForm         Type = "form"
	TypeQuickLinks   Type = "quick-links"
	TypePopup        Type = "popup"
	TypeContainer    Type = "container"
	TypeText         Type = "text"
	TypeTable        Type = "table"
	TypeAlert        Type = "alert"
	TypeCardGrid     Type = "card-grid"
	TypeAccordion    Type = "accordion"
	TypeTimeline     Type = "timeline"
	TypeCarousel     Type = "carousel"
	TypeRating       Type = "rating"
	TypeCart         Type = "cart"
)

var allTypes = []Type{
	TypePricingCards,
	TypeForm,
	TypeQuickLinks,
	TypePopup,
	TypeContainer,
	TypeText,
	TypeTable,
	TypeAlert,
	TypeCardGrid,
	TypeAccordion,
	TypeTimeline,
	TypeCarousel,
	TypeRating,
	TypeCart,
}

// Types returns the closed widget type set.
func Types() []Type {
	return append([]Type(nil), allTypes...)
}

// Valid reports whether t belongs to the widget type set.
func (t Type) Valid() bool {
	for _, known := range allTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Widget is implemented by every variant. Kind never depends on the
// value's shape, only on its declared discriminator.
type Widget interface {
	Kind() Type
}

func (*PricingCards) Kind() Type { return TypePricingCards }
func (*Form) Kind() Type         { return TypeForm }
func (*QuickLinks) Kind() Type   { return TypeQuickLinks }
func (*Popup) Kind() Type        { return TypePopup }
func (*Container) Kind() Type    { return TypeContainer }
func (*Text) Kind() Type         { return TypeText }
func (*Table) Kind() Type        { return TypeTable }
func (*Alert) Kind() Type        { return TypeAlert }
func (*CardGrid) Kind() Type     { return TypeCardGrid }
func (*Accordion) Kind() Type    { return TypeAccordion }
func (*Timeline) Kind() Type     { return TypeTimeline }
func (*Carousel) Kind() Type     { return TypeCarousel }
func (*Rating) Kind() Type       { return TypeRating }
func (*Cart) Kind() Type         { return TypeCart }

// Invalid stands in for a nested widget that failed to decode. It keeps
// the declared discriminator (possibly empty or unknown) so renderers can
// skip it without guessing what it was meant to be.
type Invalid struct {
	Declared Type
	Raw      []byte
	Err      error
}

func (i *Invalid) Kind() Type { return i.Declared }

// MarshalJSON re-emits the original bytes.
func (i *Invalid) MarshalJSON() ([]byte, error) {
	if len(i.Raw) == 0 {
		return []byte("null"), nil
	}
	return i.Raw, nil
}
