package render

import (
	"fmt"
	"math"
)

const (
	colorBar       = "#636EFA"
	colorHighlight = "#EF553B"
	colorText      = "#444444"
	colorMuted     = "#999999"
	colorOcean     = "#e5ecf6"
	colorGrid      = "#ffffff"
)

// pieColors cycles through the qualitative palette used for slices.
var pieColors = []string{
	"636EFA", "EF553B", "00CC96", "AB63FA", "FFA15A",
	"19D3F3", "FF6692", "B6E880", "FF97FF", "FECB52",
}

type rgb struct{ r, g, b float64 }

var viridis = []rgb{
	{0x44, 0x01, 0x54},
	{0x3b, 0x52, 0x8b},
	{0x21, 0x91, 0x8c},
	{0x5e, 0xc9, 0x62},
	{0xfd, 0xe7, 0x25},
}

// Viridis maps t in [0, 1] onto the viridis scale as a #rrggbb string.
func Viridis(t float64) string {
	if math.IsNaN(t) || t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	pos := t * float64(len(viridis)-1)
	i := int(pos)
	if i >= len(viridis)-1 {
		i = len(viridis) - 2
	}
	f := pos - float64(i)
	a, b := viridis[i], viridis[i+1]
	return fmt.Sprintf("#%02x%02x%02x",
		int(math.Round(a.r+(b.r-a.r)*f)),
		int(math.Round(a.g+(b.g-a.g)*f)),
		int(math.Round(a.b+(b.b-a.b)*f)),
	)
}
