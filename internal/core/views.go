package core

import (
	"fmt"
	"net/url"
	"slices"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

// ViewKey identifies a derived view.
type ViewKey string

const (
	ViewFoundedYear  ViewKey = "founded_year_graph"
	ViewVentureStage ViewKey = "venture_stage_graph"
	ViewCountryPie   ViewKey = "country_pie_graph"
	ViewMap          ViewKey = "map_graph"
	ViewTable        ViewKey = "table"
	ViewCategory     ViewKey = "category_graph"
	ViewWordCloud    ViewKey = "word_cloud"
)

// ViewKind tells the presentation layer how to draw a view.
type ViewKind string

const (
	KindBar   ViewKind = "bar"
	KindHBar  ViewKind = "hbar"
	KindPie   ViewKind = "pie"
	KindMap   ViewKind = "map"
	KindTable ViewKind = "table"
	KindImage ViewKind = "image"
)

// MapPoint is one bubble of the map view.
type MapPoint struct {
	Headquarters string  `json:"headquarters"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	Value        float64 `json:"value"`
}

// ViewResult is the output of one view computation. Only the fields that
// matter for Kind are set.
type ViewResult struct {
	Key       ViewKey        `json:"key"`
	Kind      ViewKind       `json:"kind"`
	Title     string         `json:"title,omitempty"`
	Metric    Metric         `json:"metric,omitempty"`
	XLabel    string         `json:"x_label,omitempty"`
	Groups    []Group        `json:"groups,omitempty"`
	Highlight int            `json:"highlight"`
	Axis      *controls.Axis `json:"axis,omitempty"`
	Points    []MapPoint     `json:"points,omitempty"`
	Rows      []Company      `json:"rows,omitempty"`
	Category  string         `json:"category,omitempty"`
	Src       string         `json:"src,omitempty"`
	Columns   []string       `json:"columns,omitempty"`
}

// Dashboard binds the dataset and the control vocabularies to the
// selection graph. It is immutable and safe for concurrent use.
type Dashboard struct {
	records []Company
	ctrl    *controls.Controls
	graph   *Graph
}

// NewDashboard builds the dashboard graph over ds.
func NewDashboard(ds *Dataset, ctrl *controls.Controls) (*Dashboard, error) {
	d := &Dashboard{records: ds.Companies(), ctrl: ctrl}

	g, err := NewGraph(d.derivations(), d.viewNodes())
	if err != nil {
		return nil, fmt.Errorf("build selection graph: %w", err)
	}
	d.graph = g
	return d, nil
}

// Controls returns the vocabularies the dashboard was built with.
func (d *Dashboard) Controls() *controls.Controls {
	return d.ctrl
}

// Initial returns the starting selection.
func (d *Dashboard) Initial() Selection {
	return NewSelection(d.ctrl)
}

// Dispatch applies ev to sel and propagates the change. On error sel is
// returned unchanged inside the Cycle and no view is computed.
func (d *Dashboard) Dispatch(sel Selection, ev Event) (Cycle, error) {
	next := sel.Clone()
	dirty, err := ApplyEvent(d.ctrl, &next, ev)
	if err != nil {
		eventsTotal.WithLabelValues(string(ev.Type), "rejected").Inc()
		return Cycle{Selection: sel}, err
	}
	eventsTotal.WithLabelValues(string(ev.Type), "applied").Inc()
	return d.graph.Propagate(next, dirty), nil
}

// View computes one view for sel.
func (d *Dashboard) View(sel Selection, key ViewKey) (ViewResult, bool) {
	return d.graph.Compute(sel, key)
}

// ViewKeys lists every view in display order.
func (d *Dashboard) ViewKeys() []ViewKey {
	return d.graph.Views()
}

// TableRows returns the rows the table view shows for sel.
func (d *Dashboard) TableRows(sel Selection) []Company {
	return d.tableRows(sel)
}

func (d *Dashboard) derivations() []Derivation {
	return []Derivation{
		{
			Name:   "region_countries",
			Inputs: []Field{FieldRegion},
			Output: FieldCountries,
			Derive: func(sel *Selection) bool {
				countries, _ := d.ctrl.RegionCountries(sel.Region)
				changed := sel.CountriesOverridden || !slices.Equal(countries, sel.Countries)
				sel.Countries = countries
				sel.CountriesOverridden = false
				return changed
			},
		},
		{
			Name:   "category_click",
			Inputs: []Field{FieldCategoryClick},
			Output: FieldCategory,
			Derive: func(sel *Selection) bool {
				category := categoryOrAll(sel.CategoryClick)
				changed := category != sel.Category
				sel.Category = category
				return changed
			},
		},
	}
}

func (d *Dashboard) viewNodes() []ViewNode {
	charts := []Field{FieldMetric, FieldCountries, FieldCategory}
	return []ViewNode{
		{Key: ViewFoundedYear, Inputs: charts, Compute: d.foundedYear},
		{Key: ViewVentureStage, Inputs: charts, Compute: d.ventureStage},
		{Key: ViewCountryPie, Inputs: charts, Compute: d.countryPie},
		{Key: ViewMap, Inputs: charts, Compute: d.mapView},
		{Key: ViewTable, Inputs: []Field{FieldCountries, FieldCategory, FieldMap}, Compute: d.table},
		{Key: ViewCategory, Inputs: charts, Compute: d.categoryChart},
		{Key: ViewWordCloud, Inputs: []Field{FieldCategory}, Compute: d.wordCloud},
	}
}

func (d *Dashboard) filtered(sel Selection) []Company {
	return Filter(d.records, sel.Countries, sel.Category)
}

func (d *Dashboard) foundedYear(sel Selection) ViewResult {
	axis := d.ctrl.FoundedAxis
	return ViewResult{
		Key:       ViewFoundedYear,
		Kind:      KindBar,
		Title:     "Chronological Trend",
		Metric:    sel.Metric,
		XLabel:    "founded",
		Groups:    Aggregate(d.filtered(sel), DimFounded, sel.Metric),
		Highlight: -1,
		Axis:      &axis,
	}
}

func (d *Dashboard) ventureStage(sel Selection) ViewResult {
	return ViewResult{
		Key:       ViewVentureStage,
		Kind:      KindBar,
		Title:     "Venture Stages",
		Metric:    sel.Metric,
		XLabel:    "funding stage",
		Groups:    AggregateDomain(d.filtered(sel), DimStage, sel.Metric, d.ctrl.FundingStages),
		Highlight: -1,
	}
}

func (d *Dashboard) countryPie(sel Selection) ViewResult {
	return ViewResult{
		Key:       ViewCountryPie,
		Kind:      KindPie,
		Title:     "Countries",
		Metric:    sel.Metric,
		Groups:    Aggregate(d.filtered(sel), DimCountry, sel.Metric),
		Highlight: -1,
	}
}

// mapView places one bubble per headquarters at the first known location
// of that headquarters. Headquarters without coordinates are left off the
// map but still count in every other view.
func (d *Dashboard) mapView(sel Selection) ViewResult {
	records := d.filtered(sel)

	type location struct{ lat, lon float64 }
	locations := make(map[string]location)
	for _, r := range records {
		if !r.HasLocation || r.Headquarters == "" {
			continue
		}
		if _, ok := locations[r.Headquarters]; !ok {
			locations[r.Headquarters] = location{r.Latitude, r.Longitude}
		}
	}

	groups := Aggregate(records, DimHeadquarters, sel.Metric)
	var points []MapPoint
	for _, g := range groups {
		loc, ok := locations[g.Key]
		if !ok {
			continue
		}
		points = append(points, MapPoint{
			Headquarters: g.Key,
			Latitude:     loc.lat,
			Longitude:    loc.lon,
			Value:        g.Value,
		})
	}

	return ViewResult{
		Key:       ViewMap,
		Kind:      KindMap,
		Metric:    sel.Metric,
		Groups:    groups,
		Points:    points,
		Highlight: -1,
	}
}

func (d *Dashboard) tableRows(sel Selection) []Company {
	rows := d.filtered(sel)
	if sel.Map.Active() {
		rows = FilterHeadquarters(rows, sel.Map.Headquarters())
	}
	return rows
}

func (d *Dashboard) table(sel Selection) ViewResult {
	return ViewResult{
		Key:       ViewTable,
		Kind:      KindTable,
		Rows:      d.tableRows(sel),
		Columns:   d.ctrl.TableColumns,
		Highlight: -1,
	}
}

// categoryChart ignores the category filter so every category keeps its
// bar; the selected one is highlighted instead.
func (d *Dashboard) categoryChart(sel Selection) ViewResult {
	records := Filter(d.records, sel.Countries, controls.All)
	return ViewResult{
		Key:       ViewCategory,
		Kind:      KindHBar,
		Title:     "R&D category",
		Metric:    sel.Metric,
		XLabel:    "category",
		Groups:    AggregateDomain(records, DimCategory, sel.Metric, d.ctrl.Categories),
		Highlight: d.ctrl.CategoryIndex(sel.Category),
		Category:  sel.Category,
	}
}

func (d *Dashboard) wordCloud(sel Selection) ViewResult {
	return ViewResult{
		Key:       ViewWordCloud,
		Kind:      KindImage,
		Category:  sel.Category,
		Src:       WordCloudPath(sel.Category),
		Highlight: -1,
	}
}

// WordCloudPath is the URL of the word-cloud image for a category.
func WordCloudPath(category string) string {
	return "/wordcloud/" + url.PathEscape(category)
}
