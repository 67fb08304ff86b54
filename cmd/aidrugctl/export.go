package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/export"
)

var exportArgs struct {
	format  string
	output  string
	sort    []string
	filters []string
	sel     selectionFlags
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write the table rows for a selection as CSV or XLSX",
	Example: `  aidrugctl export --format xlsx -o europe.xlsx --region Europe
  aidrugctl export --category 'Design drugs' --filter funding_amount=gte:10 --sort funding_amount:desc`,
	RunE: runExport,
}

func init() {
	fs := exportCmd.Flags()
	fs.StringVar(&exportArgs.format, "format", string(export.FormatCSV), "csv or xlsx")
	fs.StringVarP(&exportArgs.output, "output", "o", "", "output file (default: stdout)")
	fs.StringSliceVar(&exportArgs.sort, "sort", nil, "sort as column[:asc|desc], up to two")
	fs.StringArrayVar(&exportArgs.filters, "filter", nil, "column filter as column=op:value")
	exportArgs.sel.register(fs)
}

func runExport(cmd *cobra.Command, argv []string) error {
	format, err := export.ParseFormat(exportArgs.format)
	if err != nil {
		return err
	}
	filters, err := parseFilterArgs(exportArgs.filters)
	if err != nil {
		return err
	}

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

	rows, err := exportArgs.sel.apply(ctrl, ds.Companies())
	if err != nil {
		return err
	}
	rows = core.ApplyColumnFilters(rows, filters)
	rows = append([]core.Company(nil), rows...)
	core.SortRows(rows, parseSortArgs(exportArgs.sort))

	var w io.Writer = cmd.OutOrStdout()
	if exportArgs.output != "" {
		f, err := os.Create(exportArgs.output)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		defer f.Close()
		w = f
	}

	if err := export.Write(w, format, ctrl.TableColumns, rows); err != nil {
		return err
	}
	if exportArgs.output != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "wrote %d rows to %s\n", len(rows), exportArgs.output)
	}
	return nil
}

// parseSortArgs turns column[:dir] values into sort specs.
func parseSortArgs(args []string) []core.SortSpec {
	var sorts []core.SortSpec
	for _, a := range args {
		col, dir, _ := strings.Cut(a, ":")
		sorts = append(sorts, core.SortSpec{Column: strings.TrimSpace(col), Dir: dir})
	}
	return sorts
}

// parseFilterArgs turns column=op:value values into a filter set.
func parseFilterArgs(args []string) (core.FilterSet, error) {
	var filters []core.ColumnFilter
	for _, a := range args {
		col, raw, ok := strings.Cut(a, "=")
		if !ok {
			return core.FilterSet{}, fmt.Errorf("invalid filter %q: want column=op:value", a)
		}
		f, ok := core.ParseFilter(strings.TrimSpace(col), raw)
		if !ok {
			return core.FilterSet{}, fmt.Errorf("invalid filter %q", a)
		}
		filters = append(filters, f)
	}
	return core.FilterSet{Filters: filters}, nil
}
