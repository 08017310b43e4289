package widget

import "fmt"

// AccordionState is the UI-side expansion state of an accordion. It starts
// from the items' expanded flags and never writes back to the source.
type AccordionState struct {
	src      *Accordion
	expanded []bool
}

func NewAccordionState(a *Accordion) *AccordionState {
	s := &AccordionState{src: a, expanded: make([]bool, len(a.Items))}
	for i, item := range a.Items {
		s.expanded[i] = item.Expanded
	}
	return s
}

// Expanded reports whether item i is open.
func (s *AccordionState) Expanded(i int) bool {
	return i >= 0 && i < len(s.expanded) && s.expanded[i]
}

// Toggle flips item i. Unless the accordion allows multiple open items,
// every other item is closed first.
func (s *AccordionState) Toggle(i int) (ActionEvent, error) {
	if i < 0 || i >= len(s.expanded) {
		return ActionEvent{}, fmt.Errorf("%w: accordion item %d", ErrIndexRange, i)
	}

	next := !s.expanded[i]
	if !s.src.AllowMultiple {
		for j := range s.expanded {
			s.expanded[j] = false
		}
	}
	s.expanded[i] = next

	item := s.src.Items[i]
	return ActionEvent{
		Type: ActionAccordionToggle,
		Data: &AccordionToggleData{ItemID: item.ID, ItemTitle: item.Title, Expanded: next},
	}, nil
}
