// Package render draws dashboard views as SVG.
//
// Bar and pie charts go through go-chart. The interactive charts (the
// clickable category bars, the headquarters bubble map and the generated
// word cloud) are written with svgo so their elements can carry data-*
// attributes the page script hooks into.
package render

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"github.com/JonMunkholm/aidrug/internal/core"
)

// ErrUnsupportedKind is returned for views that have no chart form.
var ErrUnsupportedKind = errors.New("view has no chart rendering")

// Options controls chart dimensions.
type Options struct {
	Width  int
	Height int
}

// DefaultOptions is the size used by the dashboard grid.
var DefaultOptions = Options{Width: 640, Height: 400}

// MinOptions is the smallest size a chart is drawn at; smaller requests
// are raised to it.
var MinOptions = Options{Width: 240, Height: 200}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = DefaultOptions.Width
	}
	if o.Height <= 0 {
		o.Height = DefaultOptions.Height
	}
	o.Width = max(o.Width, MinOptions.Width)
	o.Height = max(o.Height, MinOptions.Height)
	return o
}

// Chart renders v as an SVG document. Views with no data, or whose
// rendering fails, produce the placeholder instead of an error.
func Chart(w io.Writer, v core.ViewResult, opts Options) error {
	opts = opts.withDefaults()

	var draw func(io.Writer, core.ViewResult, Options) error
	switch v.Kind {
	case core.KindBar:
		draw = barChart
	case core.KindPie:
		draw = pieChart
	case core.KindHBar:
		draw = categoryChart
	case core.KindMap:
		draw = bubbleMap
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedKind, v.Kind)
	}

	if !hasData(v) {
		return Placeholder(w, opts, "No data for the current selection")
	}

	var buf bytes.Buffer
	if err := draw(&buf, v, opts); err != nil {
		slog.Warn("chart render failed, using placeholder",
			"view", v.Key,
			"error", err,
		)
		return Placeholder(w, opts, "Chart unavailable")
	}
	_, err := buf.WriteTo(w)
	return err
}

func hasData(v core.ViewResult) bool {
	if v.Kind == core.KindMap {
		return len(v.Points) > 0
	}
	for _, g := range v.Groups {
		if g.Value != 0 {
			return true
		}
	}
	return false
}

// ContentType is the media type of everything this package writes.
const ContentType = "image/svg+xml"
