package core

import (
	"errors"
	"slices"
	"testing"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

func dispatch(t *testing.T, d *Dashboard, sel Selection, ev Event) Cycle {
	t.Helper()
	c, err := d.Dispatch(sel, ev)
	if err != nil {
		t.Fatalf("Dispatch(%+v) error = %v", ev, err)
	}
	return c
}

func TestNewSelection(t *testing.T) {
	ctrl := controls.Default()
	sel := NewSelection(ctrl)

	if sel.Metric != MetricCount {
		t.Errorf("Metric = %q, want %q", sel.Metric, MetricCount)
	}
	if sel.Region != controls.All || sel.Category != controls.All {
		t.Errorf("Region, Category = %q, %q, want All, All", sel.Region, sel.Category)
	}
	if !slices.Equal(sel.Countries, ctrl.AllCountries()) {
		t.Errorf("Countries = %v, want all countries", sel.Countries)
	}
	if !sel.Consistent(ctrl) {
		t.Error("initial selection is not consistent")
	}
}

// Selecting any region yields exactly that region's country list.
func TestDispatch_RegionDerivesCountries(t *testing.T) {
	d := newTestDashboard(t)
	ctrl := d.Controls()

	for _, region := range ctrl.RegionNames() {
		t.Run(region, func(t *testing.T) {
			c := dispatch(t, d, d.Initial(), Event{Type: EventSetRegion, Value: region})
			want, _ := ctrl.RegionCountries(region)
			if !slices.Equal(c.Selection.Countries, want) {
				t.Errorf("Countries = %v, want %v", c.Selection.Countries, want)
			}
			if c.Selection.CountriesOverridden {
				t.Error("CountriesOverridden = true, want false")
			}
			if !c.Selection.Consistent(ctrl) {
				t.Error("selection not consistent")
			}
		})
	}
}

func TestDispatch_RegionClearsOverride(t *testing.T) {
	d := newTestDashboard(t)
	sel := dispatch(t, d, d.Initial(), Event{Type: EventSetRegion, Value: "Asia"}).Selection

	sel = dispatch(t, d, sel, Event{Type: EventSetCountries, Values: []string{"China", "France"}}).Selection
	if !sel.CountriesOverridden {
		t.Fatal("CountriesOverridden = false after picking a country outside the region")
	}
	if !sel.Consistent(d.Controls()) {
		t.Error("overridden selection should be consistent")
	}

	sel = dispatch(t, d, sel, Event{Type: EventSetRegion, Value: "Europe"}).Selection
	want, _ := d.Controls().RegionCountries("Europe")
	if sel.CountriesOverridden || !slices.Equal(sel.Countries, want) {
		t.Errorf("after region change: overridden=%v countries=%v", sel.CountriesOverridden, sel.Countries)
	}
}

func TestDispatch_SubsetIsNotOverride(t *testing.T) {
	d := newTestDashboard(t)
	sel := dispatch(t, d, d.Initial(), Event{Type: EventSetRegion, Value: "Asia"}).Selection
	sel = dispatch(t, d, sel, Event{Type: EventSetCountries, Values: []string{"Japan", "China", "Japan"}}).Selection

	if sel.CountriesOverridden {
		t.Error("CountriesOverridden = true for a subset of the region")
	}
	// canonical order, de-duplicated
	if want := []string{"China", "Japan"}; !slices.Equal(sel.Countries, want) {
		t.Errorf("Countries = %v, want %v", sel.Countries, want)
	}
}

// Region All followed by the full All list leaves the initial state.
func TestDispatch_AllRoundTrip(t *testing.T) {
	d := newTestDashboard(t)
	initial := d.Initial()

	sel := dispatch(t, d, initial, Event{Type: EventSetRegion, Value: controls.All}).Selection
	sel = dispatch(t, d, sel, Event{Type: EventSetCountries, Values: d.Controls().AllCountries()}).Selection

	if sel.CountriesOverridden {
		t.Error("CountriesOverridden = true, want false")
	}
	if !slices.Equal(sel.Countries, initial.Countries) || sel.Region != initial.Region {
		t.Errorf("selection = %+v, want %+v", sel, initial)
	}
}

func TestDispatch_CategoryClickAndReset(t *testing.T) {
	d := newTestDashboard(t)

	c := dispatch(t, d, d.Initial(), Event{Type: EventClickCategory, Value: catDesign})
	if c.Selection.Category != catDesign {
		t.Fatalf("Category = %q, want %q", c.Selection.Category, catDesign)
	}
	if !slices.Contains(c.Dirty, FieldCategory) {
		t.Errorf("Dirty = %v, want category", c.Dirty)
	}
	cat, ok := findView(c.Views, ViewCategory)
	if !ok {
		t.Fatal("category view not recomputed")
	}
	if want := d.Controls().CategoryIndex(catDesign); cat.Highlight != want {
		t.Errorf("Highlight = %d, want %d", cat.Highlight, want)
	}
	wc, _ := findView(c.Views, ViewWordCloud)
	if wc.Src != "/wordcloud/Design%20drugs" {
		t.Errorf("word cloud Src = %q", wc.Src)
	}

	c = dispatch(t, d, c.Selection, Event{Type: EventResetCategory})
	if c.Selection.Category != controls.All {
		t.Errorf("Category after reset = %q, want All", c.Selection.Category)
	}
	if c.Selection.CategoryClick != "" {
		t.Errorf("CategoryClick after reset = %q, want empty", c.Selection.CategoryClick)
	}
}

// Resetting the category after a dropdown change still returns to All.
func TestDispatch_ResetAfterDropdown(t *testing.T) {
	d := newTestDashboard(t)
	sel := dispatch(t, d, d.Initial(), Event{Type: EventSetCategory, Value: catTrials}).Selection
	if sel.Category != catTrials {
		t.Fatalf("Category = %q, want %q", sel.Category, catTrials)
	}
	sel = dispatch(t, d, sel, Event{Type: EventResetCategory}).Selection
	if sel.Category != controls.All {
		t.Errorf("Category = %q, want All", sel.Category)
	}
}

func TestDispatch_MapClickThenReset(t *testing.T) {
	d := newTestDashboard(t)
	initial := d.Initial()
	full := d.TableRows(initial)

	c := dispatch(t, d, initial, Event{Type: EventClickMap, Value: "Boston"})
	table, ok := findView(c.Views, ViewTable)
	if !ok {
		t.Fatal("table not recomputed after map click")
	}
	if got := names(table.Rows); !slices.Equal(got, []string{"Gamma", "Zeta"}) {
		t.Errorf("table rows = %v, want [Gamma Zeta]", got)
	}
	if len(c.Views) != 1 {
		t.Errorf("map click recomputed %d views, want 1", len(c.Views))
	}

	c = dispatch(t, d, c.Selection, Event{Type: EventSelectMap, Values: []string{"Paris"}})
	table, _ = findView(c.Views, ViewTable)
	if got := names(table.Rows); !slices.Equal(got, []string{"Beta", "Gamma", "Zeta"}) {
		t.Errorf("table rows = %v, want union of click and selection", got)
	}

	c = dispatch(t, d, c.Selection, Event{Type: EventResetMap})
	if c.Selection.Map.Active() {
		t.Errorf("Map = %+v, want empty", c.Selection.Map)
	}
	table, _ = findView(c.Views, ViewTable)
	if len(table.Rows) != len(full) {
		t.Errorf("len(table rows) = %d, want %d", len(table.Rows), len(full))
	}
}

func TestDispatch_UnknownMetricDefaultsToCount(t *testing.T) {
	d := newTestDashboard(t)
	sel := dispatch(t, d, d.Initial(), Event{Type: EventSetMetric, Value: string(MetricFunding)}).Selection
	sel = dispatch(t, d, sel, Event{Type: EventSetMetric, Value: "bananas"}).Selection

	if sel.Metric != MetricCount {
		t.Errorf("Metric = %q, want %q", sel.Metric, MetricCount)
	}
}

func TestDispatch_UnknownValuesYieldEmptyViews(t *testing.T) {
	d := newTestDashboard(t)

	c := dispatch(t, d, d.Initial(), Event{Type: EventSetCategory, Value: "Alchemy"})
	pie, _ := findView(c.Views, ViewCountryPie)
	if len(pie.Groups) != 0 {
		t.Errorf("pie groups = %v, want none", pie.Groups)
	}
	cat, _ := findView(c.Views, ViewCategory)
	if cat.Highlight != -1 {
		t.Errorf("Highlight = %d, want -1", cat.Highlight)
	}

	c = dispatch(t, d, d.Initial(), Event{Type: EventSetRegion, Value: "Atlantis"})
	if len(c.Selection.Countries) != 0 {
		t.Errorf("Countries = %v, want none", c.Selection.Countries)
	}
	table, _ := findView(c.Views, ViewTable)
	if len(table.Rows) != 0 {
		t.Errorf("table rows = %v, want none", names(table.Rows))
	}
}

func TestDispatch_InvalidEvent(t *testing.T) {
	d := newTestDashboard(t)
	initial := d.Initial()

	c, err := d.Dispatch(initial, Event{Type: "explode"})
	if !errors.Is(err, ErrInvalidEvent) {
		t.Fatalf("Dispatch() error = %v, want ErrInvalidEvent", err)
	}
	if len(c.Views) != 0 {
		t.Errorf("Views = %d, want 0", len(c.Views))
	}
	if c.Selection.Region != initial.Region {
		t.Errorf("Selection changed on error")
	}
}

func TestDispatch_MetricRecomputesCharts(t *testing.T) {
	d := newTestDashboard(t)
	c := dispatch(t, d, d.Initial(), Event{Type: EventSetMetric, Value: string(MetricFunding)})

	var keys []ViewKey
	for _, v := range c.Views {
		keys = append(keys, v.Key)
	}
	want := []ViewKey{ViewFoundedYear, ViewVentureStage, ViewCountryPie, ViewMap, ViewCategory}
	if !slices.Equal(keys, want) {
		t.Errorf("recomputed = %v, want %v", keys, want)
	}
}

func TestDispatch_Refresh(t *testing.T) {
	d := newTestDashboard(t)
	sel := dispatch(t, d, d.Initial(), Event{Type: EventSetCountries, Values: []string{"China", "Atlantis"}}).Selection
	sel = dispatch(t, d, sel, Event{Type: EventSetCategory, Value: catDesign}).Selection

	c := dispatch(t, d, sel, Event{Type: EventRefresh})
	if len(c.Views) != len(d.ViewKeys()) {
		t.Errorf("refresh recomputed %d views, want %d", len(c.Views), len(d.ViewKeys()))
	}
	if !slices.Equal(c.Selection.Countries, sel.Countries) || c.Selection.Category != catDesign {
		t.Errorf("refresh changed the selection: %+v", c.Selection)
	}
}

func TestViews_Content(t *testing.T) {
	d := newTestDashboard(t)
	sel := d.Initial()

	stage, _ := d.View(sel, ViewVentureStage)
	if len(stage.Groups) != len(d.Controls().FundingStages) {
		t.Errorf("stage groups = %d, want %d", len(stage.Groups), len(d.Controls().FundingStages))
	}

	cat, _ := d.View(sel, ViewCategory)
	if len(cat.Groups) != len(d.Controls().Categories) || cat.Kind != KindHBar {
		t.Errorf("category view = %+v", cat)
	}

	// category chart ignores the category filter
	sel.Category = catDesign
	cat, _ = d.View(sel, ViewCategory)
	if Total(cat.Groups) != float64(len(fixtureCompanies())) {
		t.Errorf("category total = %v, want %d", Total(cat.Groups), len(fixtureCompanies()))
	}

	m, _ := d.View(d.Initial(), ViewMap)
	if len(m.Points) != 4 { // Beijing, Boston, Paris, San Francisco; London has no coordinates
		t.Errorf("map points = %+v, want 4", m.Points)
	}
	for _, p := range m.Points {
		if p.Headquarters == "Boston" && (p.Value != 2 || p.Latitude != 42.36) {
			t.Errorf("Boston point = %+v, want value 2 at first location", p)
		}
	}

	founded, _ := d.View(d.Initial(), ViewFoundedYear)
	if founded.Axis == nil || founded.Axis.Min != 1990 || founded.Axis.Max != 2020 {
		t.Errorf("Axis = %+v", founded.Axis)
	}

	if _, ok := d.View(d.Initial(), "nope"); ok {
		t.Error("View(nope) ok = true, want false")
	}
}

func TestDecodeEvent(t *testing.T) {
	ev, err := DecodeEvent([]byte(`{"type":"set_countries","values":["China"]}`))
	if err != nil {
		t.Fatalf("DecodeEvent() error = %v", err)
	}
	if ev.Type != EventSetCountries || !slices.Equal(ev.Values, []string{"China"}) {
		t.Errorf("DecodeEvent() = %+v", ev)
	}

	for _, raw := range []string{`{`, `{"type":"nope"}`, `{}`} {
		if _, err := DecodeEvent([]byte(raw)); !errors.Is(err, ErrInvalidEvent) {
			t.Errorf("DecodeEvent(%s) error = %v, want ErrInvalidEvent", raw, err)
		}
	}
}

func TestMapFilter_Headquarters(t *testing.T) {
	m := MapFilter{Click: "Boston", Selection: []string{"Paris", "Boston", ""}}
	if got := m.Headquarters(); !slices.Equal(got, []string{"Boston", "Paris"}) {
		t.Errorf("Headquarters() = %v", got)
	}
	if (MapFilter{}).Active() {
		t.Error("empty MapFilter is active")
	}
}

func TestDispatch_EmptyMapSelectionEmptiesTable(t *testing.T) {
	d := newTestDashboard(t)
	c := dispatch(t, d, d.Initial(), Event{Type: EventSelectMap})

	if !c.Selection.Map.Active() {
		t.Fatalf("Map = %+v, want active", c.Selection.Map)
	}
	table, ok := findView(c.Views, ViewTable)
	if !ok {
		t.Fatal("table not recomputed after box selection")
	}
	if len(table.Rows) != 0 {
		t.Errorf("table rows = %v, want none", names(table.Rows))
	}

	c = dispatch(t, d, c.Selection, Event{Type: EventResetMap})
	if c.Selection.Map.Active() {
		t.Errorf("Map = %+v, want inactive after reset", c.Selection.Map)
	}
}
