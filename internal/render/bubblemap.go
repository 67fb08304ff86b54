package render

import (
	"fmt"
	"html"
	"io"
	"math"
	"sort"

	svg "github.com/ajstarks/svgo"

	"github.com/JonMunkholm/aidrug/internal/core"
)

const (
	minRadius = 3.0
	maxRadius = 22.0
)

// Project maps a latitude/longitude pair onto an equirectangular canvas.
func Project(lat, lon float64, width, height int) (x, y int) {
	x = int(math.Round((lon + 180) / 360 * float64(width)))
	y = int(math.Round((90 - lat) / 180 * float64(height)))
	return x, y
}

// bubbleMap draws one circle per headquarters, sized by the square root
// of its value and coloured on the viridis scale. Circles carry data-hq
// so clicks and box selections map back to headquarters names; the
// background rect carries class map-bg for clicks on empty space.
func bubbleMap(w io.Writer, v core.ViewResult, opts Options) error {
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height, `font-family="Helvetica,Arial,sans-serif"`)
	defer canvas.End()

	canvas.Rect(0, 0, opts.Width, opts.Height, `class="map-bg"`, "fill:"+colorOcean)
	canvas.Group(`class="graticule"`, fmt.Sprintf(`stroke="%s"`, colorGrid))
	for lon := -150; lon <= 150; lon += 30 {
		x, _ := Project(0, float64(lon), opts.Width, opts.Height)
		canvas.Line(x, 0, x, opts.Height)
	}
	for lat := -60; lat <= 60; lat += 30 {
		_, y := Project(float64(lat), 0, opts.Width, opts.Height)
		canvas.Line(0, y, opts.Width, y)
	}
	canvas.Gend()

	points := make([]core.MapPoint, len(v.Points))
	copy(points, v.Points)
	// Large bubbles first so small ones stay on top and clickable.
	sort.SliceStable(points, func(i, j int) bool { return points[i].Value > points[j].Value })

	values := make([]core.Group, len(points))
	for i, p := range points {
		values[i] = core.Group{Key: p.Headquarters, Value: p.Value}
	}
	lo, hi := core.Bounds(values)

	canvas.Group(`class="bubbles"`, `stroke="#ffffff"`, `stroke-width="0.5"`, `fill-opacity="0.85"`)
	for _, p := range points {
		x, y := Project(p.Latitude, p.Longitude, opts.Width, opts.Height)
		size := 0.0
		if hi > 0 {
			size = p.Value / hi
		}
		r := minRadius + (maxRadius-minRadius)*math.Sqrt(size)

		// Colour spans the observed range, so the smallest bubble sits at
		// the bottom of the scale.
		shade := 1.0
		if hi > lo {
			shade = (p.Value - lo) / (hi - lo)
		}

		canvas.Group(`class="hq"`, fmt.Sprintf(`data-hq="%s"`, html.EscapeString(p.Headquarters)))
		canvas.Title(fmt.Sprintf("%s: %s", p.Headquarters, FormatValue(v.Metric, p.Value)))
		canvas.Circle(x, y, int(math.Round(r)), "fill:"+Viridis(shade))
		canvas.Gend()
	}
	canvas.Gend()
	return nil
}
