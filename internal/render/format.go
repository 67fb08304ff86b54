package render

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/JonMunkholm/aidrug/internal/core"
)

var printer = message.NewPrinter(language.English)

// FormatValue formats a metric value for labels and tooltips: whole
// startups for counts, one decimal of $M for funding.
func FormatValue(m core.Metric, v float64) string {
	if m == core.MetricFunding {
		return printer.Sprintf("$%.1fM", v)
	}
	return printer.Sprintf("%d", int64(math.Round(v)))
}

// FormatNumber formats v with thousands separators and no decimals.
func FormatNumber(v float64) string {
	return printer.Sprintf("%d", int64(math.Round(v)))
}
