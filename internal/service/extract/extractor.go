// Package extract splits chat message text into prose and widget segments.
package extract

import (
	"encoding/json"
	"slices"
	"strings"

	"github.com/zhouzirui/widget-chat/backend/internal/model/widget"
)

// Kind tells a text segment from a widget segment.
type Kind string

const (
	KindText   Kind = "text"
	KindWidget Kind = "widget"
)

// Segment is one ordered piece of a message. Text segments carry Text.
// Widget segments carry the decoded Widget, or Err when the candidate had a
// valid type but failed a later decode stage; Raw always holds the slice.
type Segment struct {
	Kind   Kind
	Text   string
	Widget widget.Widget
	Raw    json.RawMessage
	Err    error
}

// Renderable reports whether the segment carries a usable widget.
func (s Segment) Renderable() bool {
	return s.Kind == KindWidget && s.Err == nil && s.Widget != nil
}

// MarshalJSON emits {"kind": ..., "content": ...}.
func (s Segment) MarshalJSON() ([]byte, error) {
	out := struct {
		Kind    Kind   `json:"kind"`
		Content any    `json:"content"`
		Error   string `json:"error,omitempty"`
	}{Kind: s.Kind}

	switch {
	case s.Kind == KindText:
		out.Content = s.Text
	case s.Err != nil:
		out.Content = s.Raw
		out.Error = s.Err.Error()
	default:
		out.Content = s.Widget
	}
	return json.Marshal(out)
}

// DefaultMaxTextBytes bounds the text Extract will scan for widgets.
const DefaultMaxTextBytes = 64 << 10

// Extractor scans message text for embedded widget JSON.
type Extractor struct {
	dec          *widget.Decoder
	maxTextBytes int
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithMaxTextBytes sets the scan ceiling. Values below 1 keep the default.
func WithMaxTextBytes(n int) Option {
	return func(e *Extractor) {
		if n > 0 {
			e.maxTextBytes = n
		}
	}
}

// New builds an Extractor. A nil decoder uses widget defaults.
func New(dec *widget.Decoder, opts ...Option) *Extractor {
	if dec == nil {
		dec = widget.NewDecoder()
	}
	e := &Extractor{dec: dec, maxTextBytes: DefaultMaxTextBytes}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxTextBytes is the longest text Extract scans for widgets.
func (e *Extractor) MaxTextBytes() int { return e.maxTextBytes }

// Extract walks text left to right. Each '{' starts a brace-balanced
// candidate; candidates whose type is in the widget set become widget
// segments and everything else is kept as trimmed text. A '{' that does not
// start a widget is emitted on its own and the scan resumes one byte later.
// Text longer than MaxTextBytes is returned as a single text segment.
func (e *Extractor) Extract(text string) []Segment {
	if len(text) > e.maxTextBytes {
		segments := appendText(nil, text)
		observeSegments(segments)
		return segments
	}

	var segments []Segment
	ends := matchBraces(text)
	hints := typeHints(text)
	cursor := 0

	for cursor < len(text) {
		open := strings.IndexByte(text[cursor:], '{')
		if open < 0 {
			segments = appendText(segments, text[cursor:])
			break
		}
		open += cursor
		segments = appendText(segments, text[cursor:open])

		if end, ok := ends[open]; ok && startsObject(text[open:end]) && hinted(hints, open, end) {
			raw := text[open:end]
			if _, err := e.dec.Discriminate([]byte(raw)); err == nil {
				segments = append(segments, e.widgetSegment(raw))
				cursor = end
				continue
			}
		}

		segments = append(segments, Segment{Kind: KindText, Text: "{"})
		cursor = open + 1
	}

	observeSegments(segments)
	return segments
}

func (e *Extractor) widgetSegment(raw string) Segment {
	seg := Segment{Kind: KindWidget, Raw: json.RawMessage(raw)}
	w, err := e.dec.Decode(seg.Raw)
	if err != nil {
		seg.Err = err
		return seg
	}
	seg.Widget = w
	return seg
}

func appendText(segments []Segment, s string) []Segment {
	if trimmed := strings.TrimSpace(s); trimmed != "" {
		return append(segments, Segment{Kind: KindText, Text: trimmed})
	}
	return segments
}

// startsObject reports whether raw opens with '{' and a quoted key, the only
// shape that can carry a "type" field.
func startsObject(raw string) bool {
	rest := strings.TrimLeft(raw[1:], " \t\r\n")
	return rest != "" && rest[0] == '"'
}

// typeHints lists, in order, every offset where a literal "type" starts or a
// backslash sits. A candidate without either cannot carry a "type" key and
// is rejected before any parsing.
func typeHints(text string) []int {
	var hints []int
	for i := 0; i < len(text); i++ {
		if text[i] == '\\' || strings.HasPrefix(text[i:], `"type"`) {
			hints = append(hints, i)
		}
	}
	return hints
}

func hinted(hints []int, open, end int) bool {
	i, _ := slices.BinarySearch(hints, open+1)
	return i < len(hints) && hints[i] < end
}

// matchBraces returns, for every '{' in text, the exclusive end of the
// balanced object a scan starting at that '{' would find. Escapes are single
// use and apply inside and outside strings alike, so every such scan shares
// its escape state with the whole text after its first byte and differs only
// in string parity. That leaves two lanes, one per parity, each with its own
// depth; a start joins the lane that is outside a string at its position and
// closes when that lane's depth first drops to its target.
func matchBraces(text string) map[int]int {
	type start struct{ pos, target int }

	ends := make(map[int]int)
	var (
		depth   [2]int
		stacks  [2][]start
		lane    int
		escaped bool
	)
	for i := 0; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			if c == '{' {
				// The lane skips this brace but a scan starting here counts it.
				stacks[lane] = append(stacks[lane], start{pos: i, target: depth[lane] - 1})
			}
			continue
		}
		switch c {
		case '\\':
			escaped = true
		case '"':
			lane ^= 1
		case '{':
			stacks[lane] = append(stacks[lane], start{pos: i, target: depth[lane]})
			depth[lane]++
		case '}':
			depth[lane]--
			st := stacks[lane]
			for len(st) > 0 && st[len(st)-1].target == depth[lane] {
				ends[st[len(st)-1].pos] = i + 1
				st = st[:len(st)-1]
			}
			stacks[lane] = st
		}
	}
	return ends
}

// Mixed reports whether a message has more than one segment.
func Mixed(segments []Segment) bool {
	return len(segments) > 1
}

// Widgets returns the renderable widgets in order.
func Widgets(segments []Segment) []widget.Widget {
	var out []widget.Widget
	for _, seg := range segments {
		if seg.Renderable() {
			out = append(out, seg.Widget)
		}
	}
	return out
}
