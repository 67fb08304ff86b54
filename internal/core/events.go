package core

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

// EventType names a user input.
type EventType string

const (
	EventSetMetric     EventType = "set_metric"
	EventSetRegion     EventType = "set_region"
	EventSetCountries  EventType = "set_countries"
	EventSetCategory   EventType = "set_category"
	EventClickCategory EventType = "click_category"
	EventResetCategory EventType = "reset_category"
	EventClickMap      EventType = "click_map"
	EventSelectMap     EventType = "select_map"
	EventResetMap      EventType = "reset_map"
	EventRefresh       EventType = "refresh"
)

// ErrInvalidEvent is returned for events that cannot be applied.
var ErrInvalidEvent = errors.New("invalid event")

// Event is one input from the UI. Value carries single values (metric,
// region, category, clicked label or headquarters); Values carries lists
// (countries, map selection).
type Event struct {
	Type   EventType `json:"type"`
	Value  string    `json:"value,omitempty"`
	Values []string  `json:"values,omitempty"`
}

// DecodeEvent parses a JSON event and checks its type.
func DecodeEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("%w: %v", ErrInvalidEvent, err)
	}
	if !ev.Type.Valid() {
		return Event{}, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
	}
	return ev, nil
}

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventSetMetric, EventSetRegion, EventSetCountries, EventSetCategory,
		EventClickCategory, EventResetCategory, EventClickMap, EventSelectMap,
		EventResetMap, EventRefresh:
		return true
	}
	return false
}

// ApplyEvent writes ev into sel and returns the fields it touched.
// A field is reported even when the new value equals the old one: every
// input event re-triggers its subscribers. Unknown values are stored as
// given and simply filter everything out.
func ApplyEvent(ctrl *controls.Controls, sel *Selection, ev Event) ([]Field, error) {
	switch ev.Type {
	case EventSetMetric:
		sel.Metric = ParseMetric(ev.Value)
		return []Field{FieldMetric}, nil

	case EventSetRegion:
		sel.Region = ev.Value
		return []Field{FieldRegion}, nil

	case EventSetCountries:
		sel.setCountries(ctrl, ev.Values)
		return []Field{FieldCountries}, nil

	case EventSetCategory:
		sel.Category = categoryOrAll(ev.Value)
		return []Field{FieldCategory}, nil

	case EventClickCategory:
		sel.CategoryClick = ev.Value
		return []Field{FieldCategoryClick}, nil

	case EventResetCategory:
		sel.CategoryClick = ""
		return []Field{FieldCategoryClick}, nil

	case EventClickMap:
		sel.Map.Click = ev.Value
		return []Field{FieldMap}, nil

	case EventSelectMap:
		sel.Map.Selection = dedupe(ev.Values)
		sel.Map.Selected = true
		return []Field{FieldMap}, nil

	case EventResetMap:
		sel.Map = MapFilter{}
		return []Field{FieldMap}, nil

	case EventRefresh:
		// Leaf fields only: marking region or category_click would re-run
		// derivations and discard a country override or a dropdown category.
		return []Field{FieldMetric, FieldCountries, FieldCategory, FieldMap}, nil
	}

	return nil, fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, ev.Type)
}

func categoryOrAll(s string) string {
	if s == "" {
		return controls.All
	}
	return s
}

func dedupe(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" || seen[v] {
			continue
		}
		seen[v] = true
		out = append(out, v)
	}
	return out
}
