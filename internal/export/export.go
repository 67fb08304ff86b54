// Package export writes table rows as CSV or as an Excel workbook.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/JonMunkholm/aidrug/internal/core"
)

// Format is an export file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// SheetName is the worksheet the XLSX export writes to.
const SheetName = "Companies"

// flushInterval is how many CSV rows are buffered between flushes.
const flushInterval = 500

// ParseFormat accepts "csv" and "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("export failed: unknown format %q", s)
}

// ContentType returns the media type of f.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write dispatches to WriteCSV or WriteXLSX.
func Write(w io.Writer, f Format, columns []string, rows []core.Company) error {
	if f == FormatXLSX {
		return WriteXLSX(w, columns, rows)
	}
	return WriteCSV(w, columns, rows)
}

// WriteCSV writes a header row then one line per company, flushing
// periodically so large exports stream.
func WriteCSV(w io.Writer, columns []string, rows []core.Company) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	record := make([]string, len(columns))
	for i, row := range rows {
		for j, col := range columns {
			record[j] = row.Text(col)
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if (i+1)%flushInterval == 0 {
			cw.Flush()
			if f, ok := w.(interface{ Flush() }); ok {
				f.Flush()
			}
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

// WriteXLSX writes a single-sheet workbook with a bold header row.
// Numeric columns are stored as numbers so spreadsheet formulas work.
func WriteXLSX(w io.Writer, columns []string, rows []core.Company) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if len(columns) > 0 {
		if err := sw.SetColWidth(1, len(columns), 22); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	header := make([]interface{}, len(columns))
	for i, col := range columns {
		header[i] = excelize.Cell{StyleID: bold, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	for i, row := range rows {
		values := make([]interface{}, len(columns))
		for j, col := range columns {
			values[j] = cellValue(row, col)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		if err := sw.SetRow(cell, values); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("export failed: %w", err)
	}
	return nil
}

func cellValue(row core.Company, col string) interface{} {
	if core.IsNumericColumn(col) {
		if v, ok := row.Number(col); ok {
			return v
		}
		return nil
	}
	return row.Text(col)
}
