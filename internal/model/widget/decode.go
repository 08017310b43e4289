package widget

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// DefaultMaxDepth bounds container/popup nesting when no option overrides it.
const DefaultMaxDepth = 16

var (
	ErrNotObject   = errors.New("widget: not a JSON object")
	ErrMissingType = errors.New("widget: missing or non-string type")
	ErrUnknownType = errors.New("widget: unknown type")
	ErrTooDeep     = errors.New("widget: nesting exceeds depth limit")
	ErrCycle       = errors.New("widget: cycle detected")
)

// Stage names the decoding step that rejected a payload.
type Stage string

const (
	StageDiscriminator Stage = "discriminator"
	StageSchema        Stage = "schema"
	StageStructure     Stage = "structure"
	StageChildren      Stage = "children"
)

// DecodeError reports which stage failed and for which declared type.
type DecodeError struct {
	Stage Stage
	Type  Type
	Err   error
}

func (e *DecodeError) Error() string {
	if e.Type == "" {
		return fmt.Sprintf("widget %s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("widget %s (%s): %v", e.Stage, e.Type, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Option configures a Decoder.
type Option func(*Decoder)

// WithMaxDepth sets the nesting limit. Values below 1 fall back to the default.
func WithMaxDepth(n int) Option {
	return func(d *Decoder) {
		if n >= 1 {
			d.maxDepth = n
		}
	}
}

// Decoder turns raw JSON into typed widgets. It is safe for concurrent use.
type Decoder struct {
	maxDepth int
	schemas  *schemaSet
}

func NewDecoder(opts ...Option) *Decoder {
	d := &Decoder{maxDepth: DefaultMaxDepth, schemas: defaultSchemas()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// MaxDepth returns the configured nesting limit.
func (d *Decoder) MaxDepth() int { return d.maxDepth }

var defaultDecoder = NewDecoder()

// Decode decodes raw with the default decoder.
func Decode(raw []byte) (Widget, error) {
	return defaultDecoder.Decode(raw)
}

// Decode runs the discriminator, schema, structure and children stages in
// that order and stops at the first failing one.
func (d *Decoder) Decode(raw []byte) (Widget, error) {
	return d.decode(raw, 1)
}

// Discriminate reads only the "type" field. It is the cheap check the
// extractor uses to decide whether a brace-balanced slice is a widget.
func (d *Decoder) Discriminate(raw []byte) (Type, error) {
	t, _, err := discriminate(raw)
	return t, err
}

// discriminate also returns the declared type even when it is unknown, so
// placeholders can keep it.
func discriminate(raw []byte) (Type, Type, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return "", "", &DecodeError{Stage: StageDiscriminator, Err: ErrNotObject}
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(trimmed, &probe); err != nil {
		return "", "", &DecodeError{Stage: StageDiscriminator, Err: fmt.Errorf("%w: %v", ErrNotObject, err)}
	}

	rawType, ok := probe["type"]
	if !ok {
		return "", "", &DecodeError{Stage: StageDiscriminator, Err: ErrMissingType}
	}

	var name string
	if err := json.Unmarshal(rawType, &name); err != nil || name == "" {
		return "", "", &DecodeError{Stage: StageDiscriminator, Err: ErrMissingType}
	}

	declared := Type(name)
	if !declared.Valid() {
		return "", declared, &DecodeError{Stage: StageDiscriminator, Type: declared, Err: fmt.Errorf("%w %q", ErrUnknownType, name)}
	}
	return declared, declared, nil
}

func (d *Decoder) decode(raw []byte, depth int) (Widget, error) {
	t, _, err := discriminate(raw)
	if err != nil {
		return nil, err
	}
	if depth > d.maxDepth {
		return nil, &DecodeError{Stage: StageChildren, Type: t, Err: ErrTooDeep}
	}

	if err := d.schemas.validate(t, raw); err != nil {
		return nil, &DecodeError{Stage: StageSchema, Type: t, Err: err}
	}

	switch t {
	case TypeContainer:
		return d.decodeContainer(raw, depth)
	case TypePopup:
		return d.decodePopup(raw, depth)
	}

	w := newLeaf(t)
	if err := json.Unmarshal(raw, w); err != nil {
		return nil, &DecodeError{Stage: StageStructure, Type: t, Err: err}
	}
	return w, nil
}

func newLeaf(t Type) Widget {
	switch t {
	case TypePricingCards:
		return &PricingCards{}
	case TypeForm:
		return &Form{}
	case TypeQuickLinks:
		return &QuickLinks{}
	case TypeText:
		return &Text{}
	case TypeTable:
		return &Table{}
	case TypeAlert:
		return &Alert{}
	case TypeCardGrid:
		return &CardGrid{}
	case TypeAccordion:
		return &Accordion{}
	case TypeTimeline:
		return &Timeline{}
	case TypeCarousel:
		return &Carousel{}
	case TypeRating:
		return &Rating{}
	case TypeCart:
		return &Cart{}
	}
	// discriminate has already rejected anything else.
	panic("widget: newLeaf called with " + string(t))
}

// containerWire shadows Widgets so children can be decoded one at a time.
type containerWire struct {
	Container
	Widgets []json.RawMessage `json:"widgets"`
}

func (d *Decoder) decodeContainer(raw []byte, depth int) (Widget, error) {
	var wire containerWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &DecodeError{Stage: StageStructure, Type: TypeContainer, Err: err}
	}

	c := wire.Container
	if c.Layout == "" {
		c.Layout = LayoutVertical
	}
	c.Widgets = make([]Widget, 0, len(wire.Widgets))
	for _, child := range wire.Widgets {
		w, err := d.decodeChild(child, depth+1)
		if err != nil {
			return nil, err
		}
		c.Widgets = append(c.Widgets, w)
	}
	return &c, nil
}

type popupWire struct {
	Popup
	Content json.RawMessage `json:"content"`
}

func (d *Decoder) decodePopup(raw []byte, depth int) (Widget, error) {
	var wire popupWire
	if err := json.Unmarshal(raw, &wire); err != nil {
		return nil, &DecodeError{Stage: StageStructure, Type: TypePopup, Err: err}
	}

	p := wire.Popup
	content, err := d.decodeChild(wire.Content, depth+1)
	if err != nil {
		return nil, err
	}
	p.Content = content
	return &p, nil
}

// decodeChild turns a failing child into an Invalid placeholder. Only a
// depth violation aborts the whole tree.
func (d *Decoder) decodeChild(raw json.RawMessage, depth int) (Widget, error) {
	w, err := d.decode(raw, depth)
	if err == nil {
		return w, nil
	}
	if errors.Is(err, ErrTooDeep) {
		return nil, err
	}

	var declared Type
	var de *DecodeError
	if errors.As(err, &de) {
		declared = de.Type
	}
	return &Invalid{Declared: declared, Raw: append([]byte(nil), raw...), Err: err}, nil
}
