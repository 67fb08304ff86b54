package render

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
)

func render(t *testing.T, v core.ViewResult) string {
	t.Helper()
	var buf bytes.Buffer
	if err := Chart(&buf, v, Options{}); err != nil {
		t.Fatalf("Chart(%s) error = %v", v.Key, err)
	}
	return buf.String()
}

func TestChart_EmptyDataUsesPlaceholder(t *testing.T) {
	tests := []struct {
		name string
		view core.ViewResult
	}{
		{name: "no groups", view: core.ViewResult{Key: core.ViewCountryPie, Kind: core.KindPie}},
		{name: "all zero", view: core.ViewResult{Key: core.ViewVentureStage, Kind: core.KindBar, Groups: []core.Group{{Key: "Seed"}, {Key: "A"}}}},
		{name: "no map points", view: core.ViewResult{Key: core.ViewMap, Kind: core.KindMap, Groups: []core.Group{{Key: "Boston", Value: 2}}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := render(t, tt.view)
			if !strings.Contains(out, `class="placeholder"`) {
				t.Errorf("output is not the placeholder:\n%s", out)
			}
		})
	}
}

func TestChart_UnsupportedKind(t *testing.T) {
	var buf bytes.Buffer
	err := Chart(&buf, core.ViewResult{Key: core.ViewTable, Kind: core.KindTable}, Options{})
	if !errors.Is(err, ErrUnsupportedKind) {
		t.Errorf("Chart(table) error = %v, want ErrUnsupportedKind", err)
	}
}

func TestChart_BarAndPie(t *testing.T) {
	axis := controls.Axis{Min: 1990, Max: 2020, Step: 5}
	views := []core.ViewResult{
		{
			Key: core.ViewFoundedYear, Kind: core.KindBar, Title: "Chronological Trend",
			Metric: core.MetricCount, Axis: &axis,
			Groups: []core.Group{{Key: "2010", Value: 2}, {Key: "2015", Value: 1}},
		},
		{
			Key: core.ViewVentureStage, Kind: core.KindBar, Title: "Venture Stages",
			Metric: core.MetricFunding,
			Groups: []core.Group{{Key: "Seed", Value: 5}, {Key: "A", Value: 0}, {Key: "B", Value: 20}},
		},
		{
			Key: core.ViewCountryPie, Kind: core.KindPie, Title: "Countries",
			Metric: core.MetricCount,
			Groups: []core.Group{{Key: "France", Value: 1}, {Key: "United States", Value: 3}},
		},
	}

	for _, v := range views {
		t.Run(string(v.Key), func(t *testing.T) {
			out := render(t, v)
			if !strings.Contains(out, "<svg") {
				t.Errorf("output is not SVG:\n%.200s", out)
			}
		})
	}
}

func TestCategoryChart_Highlight(t *testing.T) {
	v := core.ViewResult{
		Key: core.ViewCategory, Kind: core.KindHBar, Title: "R&D category",
		Metric: core.MetricCount,
		Groups: []core.Group{
			{Key: "Aggregate and synthesize information", Value: 2},
			{Key: "Design drugs", Value: 3},
			{Key: "Publish data", Value: 0},
		},
		Highlight: 1,
	}
	out := render(t, v)

	if got := strings.Count(out, `data-category=`); got != 3 {
		t.Errorf("data-category groups = %d, want 3", got)
	}
	if got := strings.Count(out, "fill:"+colorHighlight); got != 1 {
		t.Errorf("highlighted bars = %d, want 1", got)
	}
	if !strings.Contains(out, "R&amp;D category") {
		t.Error("title not escaped")
	}
}

func TestChart_SmallSizeIsRaised(t *testing.T) {
	groups := make([]core.Group, 15)
	for i := range groups {
		groups[i] = core.Group{Key: string(rune('A' + i)), Value: float64(i + 1)}
	}
	v := core.ViewResult{Key: core.ViewCategory, Kind: core.KindHBar, Metric: core.MetricCount, Groups: groups, Highlight: -1}

	var buf bytes.Buffer
	if err := Chart(&buf, v, Options{Width: 10, Height: 5}); err != nil {
		t.Fatalf("Chart() error = %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, `width="240" height="200"`) {
		t.Errorf("canvas not raised to the minimum size:\n%.200s", out)
	}
	if strings.Contains(out, `height="-`) || strings.Contains(out, `height="0"`) {
		t.Error("category rows have non-positive height")
	}
}

func TestBubbleMap(t *testing.T) {
	v := core.ViewResult{
		Key: core.ViewMap, Kind: core.KindMap, Metric: core.MetricFunding,
		Points: []core.MapPoint{
			{Headquarters: "Boston", Latitude: 42.36, Longitude: -71.06, Value: 27},
			{Headquarters: "Paris", Latitude: 48.86, Longitude: 2.35, Value: 3},
		},
	}
	out := render(t, v)

	for _, hq := range []string{`data-hq="Boston"`, `data-hq="Paris"`} {
		if !strings.Contains(out, hq) {
			t.Errorf("missing %s", hq)
		}
	}
	if !strings.Contains(out, Viridis(1)) {
		t.Error("largest bubble is not coloured with the top of the scale")
	}
	if !strings.Contains(out, "fill:"+Viridis(0)) {
		t.Error("smallest bubble is not coloured with the bottom of the scale")
	}
	if !strings.Contains(out, `class="map-bg"`) {
		t.Error("map background is missing the map-bg hook")
	}
}

func TestProject(t *testing.T) {
	tests := []struct {
		lat, lon float64
		x, y     int
	}{
		{lat: 0, lon: 0, x: 360, y: 180},
		{lat: 90, lon: -180, x: 0, y: 0},
		{lat: -90, lon: 180, x: 720, y: 360},
	}
	for _, tt := range tests {
		x, y := Project(tt.lat, tt.lon, 720, 360)
		if x != tt.x || y != tt.y {
			t.Errorf("Project(%v, %v) = %d, %d, want %d, %d", tt.lat, tt.lon, x, y, tt.x, tt.y)
		}
	}
}

func TestViridis(t *testing.T) {
	tests := []struct {
		t    float64
		want string
	}{
		{t: 0, want: "#440154"},
		{t: 0.5, want: "#21918c"},
		{t: 1, want: "#fde725"},
		{t: -1, want: "#440154"},
		{t: 2, want: "#fde725"},
	}
	for _, tt := range tests {
		if got := Viridis(tt.t); got != tt.want {
			t.Errorf("Viridis(%v) = %s, want %s", tt.t, got, tt.want)
		}
	}
}

func TestFormatValue(t *testing.T) {
	tests := []struct {
		metric core.Metric
		v      float64
		want   string
	}{
		{metric: core.MetricCount, v: 1234, want: "1,234"},
		{metric: core.MetricCount, v: 2.6, want: "3"},
		{metric: core.MetricFunding, v: 1520.26, want: "$1,520.3M"},
	}
	for _, tt := range tests {
		if got := FormatValue(tt.metric, tt.v); got != tt.want {
			t.Errorf("FormatValue(%q, %v) = %q, want %q", tt.metric, tt.v, got, tt.want)
		}
	}
}

func TestExpandYears(t *testing.T) {
	axis := controls.Axis{Min: 1990, Max: 2020, Step: 5}

	got := expandYears([]core.Group{{Key: "1987", Value: 1}, {Key: "2010", Value: 4}}, axis)
	if got[0].Key != "1985" {
		t.Errorf("first year = %s, want 1985 (aligned to step)", got[0].Key)
	}
	if last := got[len(got)-1].Key; last != "2020" {
		t.Errorf("last year = %s, want 2020", last)
	}
	for _, g := range got {
		if g.Key == "2010" && g.Value != 4 {
			t.Errorf("2010 = %v, want 4", g.Value)
		}
	}
}

func TestWordCloud(t *testing.T) {
	var buf bytes.Buffer
	kws := []core.Keyword{{Term: "molecules", Count: 3}, {Term: "protein", Count: 2}, {Term: "trials", Count: 1}}
	if err := WordCloud(&buf, kws, Options{}); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, kw := range kws {
		if !strings.Contains(out, ">"+kw.Term+"<") {
			t.Errorf("missing word %q", kw.Term)
		}
	}
	if !strings.Contains(out, "font-size:44px") {
		t.Error("top keyword not drawn at the largest size")
	}

	buf.Reset()
	if err := WordCloud(&buf, nil, Options{}); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `class="placeholder"`) {
		t.Error("empty keyword list did not render the placeholder")
	}
}
