package browser

import (
	"fmt"

	models "opsconsole/internal/domain/models/docstore"
)

// ClickMode selects how a click changes the selection
type ClickMode int

const (
	// ClickPlain replaces the selection
	ClickPlain ClickMode = iota
	// ClickToggle flips one item (ctrl/cmd-click)
	ClickToggle
	// ClickRange extends from the anchor (shift-click)
	ClickRange
)

func (m ClickMode) String() string {
	switch m {
	case ClickPlain:
		return "plain"
	case ClickToggle:
		return "toggle"
	case ClickRange:
		return "range"
	}
	return fmt.Sprintf("ClickMode(%d)", int(m))
}

// Selection tracks selected items over an ordered listing.
//
// A range click selects everything between the anchor and the clicked index
// and leaves the anchor where it was, so successive shift-clicks all extend
// from the same origin.
type Selection struct {
	items    []models.ItemRef
	selected map[models.ItemRef]bool
	anchor   int
}

// NewSelection returns an empty selection over items (folders first, then
// files, in display order)
func NewSelection(items []models.ItemRef) *Selection {
	return &Selection{
		items:    append([]models.ItemRef(nil), items...),
		selected: make(map[models.ItemRef]bool),
		anchor:   -1,
	}
}

// Click applies a click on the item at index
func (s *Selection) Click(index int, mode ClickMode) error {
	if index < 0 || index >= len(s.items) {
		return fmt.Errorf("selection index %d out of range [0,%d)", index, len(s.items))
	}
	item := s.items[index]

	if mode == ClickRange && s.anchor < 0 {
		mode = ClickPlain
	}

	switch mode {
	case ClickPlain:
		if len(s.selected) == 1 && s.selected[item] {
			s.Clear()
			return nil
		}
		s.selected = map[models.ItemRef]bool{item: true}
		s.anchor = index
	case ClickToggle:
		if s.selected[item] {
			delete(s.selected, item)
		} else {
			s.selected[item] = true
		}
		s.anchor = index
	case ClickRange:
		lo, hi := s.anchor, index
		if lo > hi {
			lo, hi = hi, lo
		}
		s.selected = make(map[models.ItemRef]bool, hi-lo+1)
		for i := lo; i <= hi; i++ {
			s.selected[s.items[i]] = true
		}
	default:
		return fmt.Errorf("unknown click mode %v", mode)
	}
	return nil
}

// Clear drops the selection and the anchor
func (s *Selection) Clear() {
	s.selected = make(map[models.ItemRef]bool)
	s.anchor = -1
}

// Anchor is the index of the last plain or toggle click, -1 if none
func (s *Selection) Anchor() int {
	return s.anchor
}

// Contains reports whether item is selected
func (s *Selection) Contains(item models.ItemRef) bool {
	return s.selected[item]
}

// Len is the number of selected items
func (s *Selection) Len() int {
	return len(s.selected)
}

// Items returns the listing the selection ranges over
func (s *Selection) Items() []models.ItemRef {
	return append([]models.ItemRef(nil), s.items...)
}

// Selected returns the selected items in listing order
func (s *Selection) Selected() []models.ItemRef {
	out := make([]models.ItemRef, 0, len(s.selected))
	for _, item := range s.items {
		if s.selected[item] {
			out = append(out, item)
		}
	}
	return out
}

// IndexOf returns the listing index of item, -1 if absent
func (s *Selection) IndexOf(item models.ItemRef) int {
	for i, it := range s.items {
		if it == item {
			return i
		}
	}
	return -1
}
