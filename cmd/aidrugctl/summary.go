package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/render"
)

var summaryArgs struct {
	by     string
	metric string
	sel    selectionFlags
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print an aggregate of the dataset as a table",
	Example: `  aidrugctl summary --by country --region Europe
  aidrugctl summary --by funding_stage --metric '$M of investment'`,
	RunE: runSummary,
}

func init() {
	fs := summaryCmd.Flags()
	fs.StringVar(&summaryArgs.by, "by", string(core.DimCountry), "dimension: founded, funding_stage, country, category, headquarters")
	fs.StringVar(&summaryArgs.metric, "metric", string(core.MetricCount), "metric to measure")
	summaryArgs.sel.register(fs)
}

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#636EFA"))
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
)

func runSummary(cmd *cobra.Command, argv []string) error {
	dim, ok := core.ParseDimension(summaryArgs.by)
	if !ok {
		return fmt.Errorf("unknown dimension %q", summaryArgs.by)
	}
	metric := core.ParseMetric(summaryArgs.metric)

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctrl, err := loadControls(cfg)
	if err != nil {
		return err
	}
	ds, err := loadCSV(cfg)
	if err != nil {
		return err
	}

	records, err := summaryArgs.sel.apply(ctrl, ds.Companies())
	if err != nil {
		return err
	}

	groups := summarize(ctrl, records, dim, metric)
	title := fmt.Sprintf("%s by %s (%d companies)", metric, dim, len(records))
	fmt.Fprintln(cmd.OutOrStdout(), titleStyle.Render(title))
	fmt.Fprintln(cmd.OutOrStdout(), summaryTable(groups, dim, metric))
	return nil
}

// summarize aggregates records, using the fixed control order for stages
// and categories.
func summarize(ctrl *controls.Controls, records []core.Company, dim core.Dimension, metric core.Metric) []core.Group {
	switch dim {
	case core.DimStage:
		return core.AggregateDomain(records, dim, metric, ctrl.FundingStages)
	case core.DimCategory:
		return core.AggregateDomain(records, dim, metric, ctrl.Categories)
	default:
		return core.Aggregate(records, dim, metric)
	}
}

// summaryTable renders groups with a share column and a total row.
func summaryTable(groups []core.Group, dim core.Dimension, metric core.Metric) string {
	total := core.Total(groups)

	rows := make([][]string, 0, len(groups)+1)
	for _, g := range groups {
		share := "-"
		if total > 0 {
			share = fmt.Sprintf("%.1f%%", 100*g.Value/total)
		}
		rows = append(rows, []string{g.Key, render.FormatValue(metric, g.Value), share})
	}
	rows = append(rows, []string{"Total", render.FormatValue(metric, total), ""})

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers(strings.ToUpper(string(dim)), string(metric), "share").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if col > 0 {
				return cellStyle.Align(lipgloss.Right)
			}
			return cellStyle
		})
	return t.String()
}
