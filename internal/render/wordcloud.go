package render

import (
	"fmt"
	"io"
	"unicode/utf8"

	svg "github.com/ajstarks/svgo"

	"github.com/JonMunkholm/aidrug/internal/core"
)

const (
	minFont   = 12
	maxFont   = 44
	wordGap   = 10
	linePad   = 6
	charWidth = 0.58
)

type placedWord struct {
	term string
	size int
	x, y int
	fill string
}

// WordCloud draws keywords as a centred, line-wrapped cloud with font
// size proportional to count. Keywords are expected in descending count
// order; words that do not fit the canvas are dropped.
func WordCloud(w io.Writer, keywords []core.Keyword, opts Options) error {
	opts = opts.withDefaults()
	if len(keywords) == 0 {
		return Placeholder(w, opts, "No keywords for this category")
	}

	words := layoutWords(keywords, opts)
	canvas := svg.New(w)
	canvas.Start(opts.Width, opts.Height, `class="wordcloud"`, `font-family="Helvetica,Arial,sans-serif"`)
	for _, pw := range words {
		canvas.Text(pw.x, pw.y, pw.term, fmt.Sprintf("font-size:%dpx;fill:%s", pw.size, pw.fill))
	}
	canvas.End()
	return nil
}

func layoutWords(keywords []core.Keyword, opts Options) []placedWord {
	lo, hi := keywords[0].Count, keywords[0].Count
	for _, kw := range keywords {
		lo = min(lo, kw.Count)
		hi = max(hi, kw.Count)
	}

	type line struct {
		words  []placedWord
		width  int
		height int
	}
	var lines []line
	cur := line{}
	usable := opts.Width - 2*wordGap

	for i, kw := range keywords {
		t := 1.0
		if hi > lo {
			t = float64(kw.Count-lo) / float64(hi-lo)
		}
		size := minFont + int(t*float64(maxFont-minFont))
		width := int(float64(utf8.RuneCountInString(kw.Term)*size) * charWidth)
		if width > usable {
			continue
		}
		if cur.width > 0 && cur.width+wordGap+width > usable {
			lines = append(lines, cur)
			cur = line{}
		}
		if cur.width > 0 {
			cur.width += wordGap
		}
		cur.words = append(cur.words, placedWord{
			term: kw.Term,
			size: size,
			x:    cur.width,
			fill: Viridis(float64(i%7) / 7),
		})
		cur.width += width
		cur.height = max(cur.height, size)
	}
	if cur.width > 0 {
		lines = append(lines, cur)
	}

	total := 0
	kept := lines[:0]
	for _, l := range lines {
		if total+l.height+linePad > opts.Height {
			break
		}
		total += l.height + linePad
		kept = append(kept, l)
	}

	var out []placedWord
	y := (opts.Height - total) / 2
	for _, l := range kept {
		y += l.height
		offset := (opts.Width - l.width) / 2
		for _, pw := range l.words {
			pw.x += offset
			pw.y = y
			out = append(out, pw)
		}
		y += linePad
	}
	return out
}
