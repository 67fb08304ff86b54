package render

import (
	"io"

	svg "github.com/ajstarks/svgo"
)

// Placeholder writes a blank chart carrying msg.
func Placeholder(w io.Writer, opts Options, msg string) error {
	opts = opts.withDefaults()

	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height, `class="placeholder"`)
	canvas.Rect(0, 0, opts.Width, opts.Height, "fill:#fafafa;stroke:#dddddd")
	canvas.Text(opts.Width/2, opts.Height/2, msg,
		"text-anchor:middle;dominant-baseline:middle;font-family:Helvetica,Arial,sans-serif;font-size:14px;fill:"+colorMuted)
	canvas.End()
	return nil
}
