package render

import (
	"fmt"
	"html"
	"io"

	svg "github.com/ajstarks/svgo"

	"github.com/JonMunkholm/aidrug/internal/core"
)

const (
	titleHeight = 36
	labelShare  = 0.42
	valueRoom   = 70
)

// categoryChart draws one horizontal bar per category. Each bar sits in a
// <g data-category> element so a click can be turned into a
// click_category event; the highlighted bar is filled differently.
func categoryChart(w io.Writer, v core.ViewResult, opts Options) error {
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height, `font-family="Helvetica,Arial,sans-serif"`)
	defer canvas.End()

	canvas.Text(opts.Width/2, 22, v.Title, "text-anchor:middle;font-size:16px;fill:"+colorText)

	n := len(v.Groups)
	rowH := max((opts.Height-titleHeight-8)/n, 1)
	labelW := int(float64(opts.Width) * labelShare)
	plotW := opts.Width - labelW - valueRoom
	_, hi := core.Bounds(v.Groups)

	for i, g := range v.Groups {
		y := titleHeight + i*rowH
		barW := 0
		if hi > 0 {
			barW = int(float64(plotW) * g.Value / hi)
		}
		fill := colorBar
		if i == v.Highlight {
			fill = colorHighlight
		}

		canvas.Group(`class="category-bar"`, fmt.Sprintf(`data-category="%s"`, html.EscapeString(g.Key)))
		canvas.Title(fmt.Sprintf("%s: %s", g.Key, FormatValue(v.Metric, g.Value)))
		// Full-row hit area so short bars stay clickable.
		canvas.Rect(0, y, opts.Width, rowH, "fill:transparent")
		canvas.Text(labelW-6, y+rowH/2, g.Key, fmt.Sprintf("text-anchor:end;dominant-baseline:middle;font-size:%dpx;fill:%s", fontFor(rowH), colorText))
		canvas.Rect(labelW, y+rowH/8, barW, rowH*3/4, "fill:"+fill)
		canvas.Text(labelW+barW+4, y+rowH/2, FormatValue(v.Metric, g.Value), fmt.Sprintf("dominant-baseline:middle;font-size:%dpx;fill:%s", fontFor(rowH), colorMuted))
		canvas.Gend()
	}
	return nil
}

func fontFor(rowH int) int {
	return max(8, min(rowH*3/5, 13))
}
