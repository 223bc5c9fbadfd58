package model

import (
	"encoding/json"
	"strings"
)

// Filter represents which items should be shown.
type Filter string

const (
	FilterAll      Filter = "ALL"
	FilterActive   Filter = "ACTIVE"
	FilterComplete Filter = "COMPLETE"
)

// Filters lists every filter in header order.
var Filters = []Filter{FilterAll, FilterActive, FilterComplete}

// Valid reports whether f is one of the known filters.
func (f Filter) Valid() bool {
	switch f {
	case FilterAll, FilterActive, FilterComplete:
		return true
	}
	return false
}

// Label is the human label shown in the header.
func (f Filter) Label() string {
	switch f {
	case FilterActive:
		return "Active"
	case FilterComplete:
		return "Complete"
	default:
		return "All"
	}
}

// ParseFilter accepts the filter names case-insensitively.
func ParseFilter(s string) (Filter, bool) {
	f := Filter(strings.ToUpper(strings.TrimSpace(s)))
	return f, f.Valid()
}

// Item is one to-do entry.
type Item struct {
	ID       int64  `json:"id"`
	Title    string `json:"title"`
	Complete bool   `json:"complete"`
}

// Patch is a shallow set of field overrides for an item.
// Nil fields keep the existing value.
type Patch struct {
	Title    *string `json:"title,omitempty"`
	Complete *bool   `json:"complete,omitempty"`
}

// Apply returns item with the patch merged on top.
func (p Patch) Apply(item Item) Item {
	if p.Title != nil {
		item.Title = *p.Title
	}
	if p.Complete != nil {
		item.Complete = *p.Complete
	}
	return item
}

// SetComplete builds a patch that only changes the completion flag.
func SetComplete(v bool) Patch {
	return Patch{Complete: &v}
}

// SetTitle builds a patch that only changes the title.
func SetTitle(v string) Patch {
	return Patch{Title: &v}
}

// State is the persisted list state. The filter is view-only and lives
// outside of it.
type State struct {
	Items []Item `json:"items"`
}

// NewState returns an initialized empty state.
func NewState() State {
	return State{Items: []Item{}}
}

// UnmarshalJSON accepts both the {"items": [...]} object and a bare array of
// items, which is how the earliest snapshots stored the list.
func (s *State) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		var items []Item
		if err := json.Unmarshal(data, &items); err != nil {
			return err
		}
		s.Items = items
		return nil
	}

	type plain State
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	*s = State(p)
	return nil
}

// Visible returns the items matching filter, preserving order.
func Visible(items []Item, filter Filter) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if matchesFilter(filter, it.Complete) {
			out = append(out, it)
		}
	}
	return out
}

// ActiveCount returns the number of incomplete items.
func ActiveCount(items []Item) int {
	n := 0
	for _, it := range items {
		if !it.Complete {
			n++
		}
	}
	return n
}

// AllComplete reports whether the list is non-empty and every item is complete.
func AllComplete(items []Item) bool {
	if len(items) == 0 {
		return false
	}
	return ActiveCount(items) == 0
}

func matchesFilter(filter Filter, complete bool) bool {
	switch filter {
	case FilterActive:
		return !complete
	case FilterComplete:
		return complete
	default:
		return true
	}
}
