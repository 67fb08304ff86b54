package web

import (
	"bytes"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/JonMunkholm/aidrug/internal/core"
	"github.com/JonMunkholm/aidrug/internal/export"
	"github.com/JonMunkholm/aidrug/internal/logging"
)

// parseIntParam parses a positive integer query parameter with a default value.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

// parseSorts parses comma-separated sort and dir parameters.
// Validation of column names happens in core.SortRows.
func parseSorts(r *http.Request) []core.SortSpec {
	sortStr := r.URL.Query().Get("sort")
	if sortStr == "" {
		return nil
	}

	cols := strings.Split(sortStr, ",")
	dirs := strings.Split(r.URL.Query().Get("dir"), ",")

	var sorts []core.SortSpec
	for i, col := range cols {
		col = strings.TrimSpace(col)
		if col == "" {
			continue
		}
		dir := "asc"
		if i < len(dirs) && strings.TrimSpace(dirs[i]) == "desc" {
			dir = "desc"
		}
		sorts = append(sorts, core.SortSpec{Column: col, Dir: dir})
	}
	return sorts
}

// parseFilters extracts filter[col]=op:value parameters for the columns
// the table shows. Invalid operators and empty values are ignored.
func parseFilters(r *http.Request, columns []string) core.FilterSet {
	known := make(map[string]string, len(columns))
	for _, col := range columns {
		known[strings.ToLower(col)] = col
	}

	var filters []core.ColumnFilter
	for key, values := range r.URL.Query() {
		if !strings.HasPrefix(key, "filter[") || !strings.HasSuffix(key, "]") {
			continue
		}
		col, ok := known[strings.ToLower(key[len("filter["):len(key)-1])]
		if !ok {
			continue
		}
		for _, raw := range values {
			if f, ok := core.ParseFilter(col, raw); ok {
				filters = append(filters, f)
			}
		}
	}
	return core.FilterSet{Filters: filters}
}

func (s *Server) tableQuery(r *http.Request) core.TableQuery {
	return core.TableQuery{
		Page:     parseIntParam(r, "page", 1),
		PageSize: min(parseIntParam(r, "page_size", core.DefaultPageSize), 500),
		Sorts:    parseSorts(r),
		Filters:  parseFilters(r, s.service.Controls().TableColumns),
	}
}

// handleTable returns one page of the session's table view.
func (s *Server) handleTable(w http.ResponseWriter, r *http.Request) {
	id, r := sessionParam(r)
	page, err := s.service.Table(id, s.tableQuery(r))
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, http.StatusOK, page)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, export.FormatCSV)
}

func (s *Server) handleExportXLSX(w http.ResponseWriter, r *http.Request) {
	s.handleExport(w, r, export.FormatXLSX)
}

// handleExport writes every row of the session's table view, after column
// filters and sorting, as an attachment.
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request, format export.Format) {
	id, r := sessionParam(r)

	release, err := s.service.Exports().Acquire(r.Context())
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}
	defer release()

	q := s.tableQuery(r)
	rows, err := s.service.ExportRows(id, q)
	if err != nil {
		respondError(w, r, err, statusFor(err))
		return
	}

	columns := s.service.Controls().TableColumns
	filename := fmt.Sprintf("ai_drug_startups_%s.%s", time.Now().Format("20060102_150405"), format)

	// XLSX is assembled in memory so a failure can still produce an
	// error response; CSV streams straight to the client.
	if format == export.FormatXLSX {
		var buf bytes.Buffer
		if err := export.WriteXLSX(&buf, columns, rows); err != nil {
			respondError(w, r, err, http.StatusInternalServerError)
			return
		}
		setAttachment(w, format, filename)
		_, _ = buf.WriteTo(w)
		return
	}

	setAttachment(w, format, filename)
	if err := export.WriteCSV(w, columns, rows); err != nil && r.Context().Err() == nil {
		// Headers are sent; all we can do is log.
		logging.FromContext(r.Context()).Error("csv export interrupted", "error", err, "rows", len(rows))
	}
}

func setAttachment(w http.ResponseWriter, format export.Format, filename string) {
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
