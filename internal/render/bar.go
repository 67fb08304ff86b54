package render

import (
	"io"
	"strconv"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
)

func barChart(w io.Writer, v core.ViewResult, opts Options) error {
	groups := v.Groups
	labelEvery := 0
	if v.Axis != nil {
		groups = expandYears(groups, *v.Axis)
		labelEvery = v.Axis.Step
	}

	fill := drawing.ColorFromHex(colorBar[1:])
	bars := make([]chart.Value, 0, len(groups))
	for _, g := range groups {
		label := g.Key
		if labelEvery > 0 {
			if year, _ := strconv.Atoi(g.Key); year%labelEvery != 0 {
				label = ""
			}
		}
		bars = append(bars, chart.Value{
			Label: label,
			Value: g.Value,
			Style: chart.Style{FillColor: fill, StrokeColor: fill},
		})
	}

	_, hi := core.Bounds(groups)
	bc := chart.BarChart{
		Title:    v.Title,
		Width:    opts.Width,
		Height:   opts.Height,
		BarWidth: barWidth(opts.Width, len(bars)),
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		XAxis: chart.Style{
			FontSize:            8,
			TextRotationDegrees: rotation(v),
		},
		YAxis: chart.YAxis{
			Name:           string(v.Metric),
			Range:          &chart.ContinuousRange{Min: 0, Max: hi * 1.1},
			ValueFormatter: metricFormatter(v.Metric),
		},
		Bars: bars,
	}
	return bc.Render(chart.SVG, w)
}

// expandYears lays founded-year groups out on a continuous axis so gaps
// show as empty slots. Years outside the configured axis widen it.
func expandYears(groups []core.Group, axis controls.Axis) []core.Group {
	lo, hi := axis.Min, axis.Max
	values := make(map[int]float64, len(groups))
	for _, g := range groups {
		year, err := strconv.Atoi(g.Key)
		if err != nil {
			continue
		}
		values[year] += g.Value
		lo = min(lo, year)
		hi = max(hi, year)
	}
	// Keep label positions aligned with the step.
	if axis.Step > 0 {
		lo -= ((lo % axis.Step) + axis.Step) % axis.Step
	}

	out := make([]core.Group, 0, hi-lo+1)
	for y := lo; y <= hi; y++ {
		out = append(out, core.Group{Key: strconv.Itoa(y), Value: values[y]})
	}
	return out
}

func barWidth(width, n int) int {
	if n == 0 {
		return 0
	}
	bw := (width - 120) * 6 / (n * 10)
	return max(2, min(bw, 60))
}

func rotation(v core.ViewResult) float64 {
	if v.Axis != nil {
		return 0
	}
	return 45
}

func metricFormatter(m core.Metric) chart.ValueFormatter {
	return func(v interface{}) string {
		if f, ok := v.(float64); ok {
			return FormatValue(m, f)
		}
		return ""
	}
}

func pieChart(w io.Writer, v core.ViewResult, opts Options) error {
	values := make([]chart.Value, 0, len(v.Groups))
	for _, g := range v.Groups {
		if g.Value <= 0 {
			continue
		}
		color := drawing.ColorFromHex(pieColors[len(values)%len(pieColors)])
		values = append(values, chart.Value{
			Label: g.Key,
			Value: g.Value,
			Style: chart.Style{FillColor: color, FontSize: 9},
		})
	}

	pc := chart.PieChart{
		Title:  v.Title,
		Width:  opts.Width,
		Height: opts.Height,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16},
		},
		Values: values,
	}
	return pc.Render(chart.SVG, w)
}
