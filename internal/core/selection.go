package core

import (
	"slices"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

// MapFilter is the map's click and box/lasso selection. Both hold
// headquarters strings. Selected is set by any box selection, including
// one that caught no bubbles, which restricts the table to nothing.
type MapFilter struct {
	Click     string   `json:"click,omitempty"`
	Selection []string `json:"selection,omitempty"`
	Selected  bool     `json:"selected,omitempty"`
}

// Active reports whether the map restricts the table.
func (m MapFilter) Active() bool {
	return m.Click != "" || m.Selected || len(m.Selection) > 0
}

// Headquarters returns the union of the click and the selection, in order
// of first appearance.
func (m MapFilter) Headquarters() []string {
	var out []string
	seen := make(map[string]bool)
	add := func(hq string) {
		if hq == "" || seen[hq] {
			return
		}
		seen[hq] = true
		out = append(out, hq)
	}
	add(m.Click)
	for _, hq := range m.Selection {
		add(hq)
	}
	return out
}

// Selection is the full set of filter values driving every view.
//
// Countries is normally the region's country list. CountriesOverridden is
// true exactly when the user picked countries that are not a subset of the
// region's list.
type Selection struct {
	Metric              Metric    `json:"metric"`
	Region              string    `json:"region"`
	Countries           []string  `json:"countries"`
	CountriesOverridden bool      `json:"countries_overridden"`
	Category            string    `json:"category"`
	CategoryClick       string    `json:"category_click,omitempty"`
	Map                 MapFilter `json:"map"`
}

// NewSelection returns the initial state: default metric, every country,
// no category constraint and no map filter.
func NewSelection(ctrl *controls.Controls) Selection {
	return Selection{
		Metric:    ParseMetric(ctrl.DefaultMetric),
		Region:    controls.All,
		Countries: ctrl.AllCountries(),
		Category:  controls.All,
	}
}

// Clone returns a deep copy.
func (s Selection) Clone() Selection {
	s.Countries = slices.Clone(s.Countries)
	s.Map.Selection = slices.Clone(s.Map.Selection)
	return s
}

// Consistent reports whether the country set honors the region rule.
func (s Selection) Consistent(ctrl *controls.Controls) bool {
	if s.CountriesOverridden {
		return true
	}
	region, ok := ctrl.RegionCountries(s.Region)
	if !ok {
		return len(s.Countries) == 0
	}
	return isSubset(s.Countries, region)
}

// setCountries normalizes countries into canonical order and recomputes
// the override flag against the current region.
func (s *Selection) setCountries(ctrl *controls.Controls, countries []string) {
	s.Countries = NormalizeCountries(ctrl, countries)
	region, _ := ctrl.RegionCountries(s.Region)
	s.CountriesOverridden = !isSubset(s.Countries, region)
}

// NormalizeCountries de-duplicates countries and orders them like the
// catch-all region. Unknown countries are kept, after the known ones, in
// input order; they simply match no records.
func NormalizeCountries(ctrl *controls.Controls, countries []string) []string {
	want := make(map[string]bool, len(countries))
	for _, c := range countries {
		if c != "" {
			want[c] = true
		}
	}

	out := make([]string, 0, len(want))
	for _, c := range ctrl.AllCountries() {
		if want[c] {
			out = append(out, c)
			delete(want, c)
		}
	}
	for _, c := range countries {
		if want[c] {
			out = append(out, c)
			delete(want, c)
		}
	}
	return out
}

func isSubset(set, of []string) bool {
	for _, s := range set {
		if !slices.Contains(of, s) {
			return false
		}
	}
	return true
}
