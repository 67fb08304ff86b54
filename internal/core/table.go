package core

// table.go pages, sorts and filters the table view's rows in memory.
// The row set is already restricted by the selection; these are the data
// table's own column sort and filter controls.

import (
	"cmp"
	"slices"
	"strings"

	"github.com/aclements/go-moremath/stats"
)

// DefaultPageSize is the number of table rows per page.
const DefaultPageSize = 12

// maxSorts is the number of sort levels honored.
const maxSorts = 2

// FilterOperator represents a comparison operator for column filters.
type FilterOperator string

const (
	OpContains   FilterOperator = "contains"
	OpEquals     FilterOperator = "eq"
	OpStartsWith FilterOperator = "starts"
	OpEndsWith   FilterOperator = "ends"
	OpGreaterEq  FilterOperator = "gte"
	OpLessEq     FilterOperator = "lte"
	OpGreater    FilterOperator = "gt"
	OpLess       FilterOperator = "lt"
	OpIn         FilterOperator = "in"
)

// ColumnFilter represents a single filter condition on a column.
type ColumnFilter struct {
	Column   string         `json:"column"`
	Operator FilterOperator `json:"op"`
	Value    string         `json:"value"` // comma-separated for OpIn
}

// FilterSet represents all active filters (combined with AND logic).
type FilterSet struct {
	Filters []ColumnFilter
}

// SortSpec represents a single sort column and direction.
type SortSpec struct {
	Column string `json:"column"`
	Dir    string `json:"dir"` // "asc" or "desc"
}

// ColumnAggregation holds aggregated values for a single numeric column.
type ColumnAggregation struct {
	Column string   `json:"column"`
	Sum    *float64 `json:"sum,omitempty"` // nil if no valid values
	Avg    *float64 `json:"avg,omitempty"`
	Min    *float64 `json:"min,omitempty"`
	Max    *float64 `json:"max,omitempty"`
	Count  int64    `json:"count"`
}

// Aggregations maps column names to their aggregation results.
type Aggregations map[string]*ColumnAggregation

// TableQuery selects one page of the table.
type TableQuery struct {
	Page     int
	PageSize int
	Sorts    []SortSpec
	Filters  FilterSet
}

// TablePage contains paginated table data.
type TablePage struct {
	Columns       []string          `json:"columns"`
	Rows          []Company         `json:"rows"`
	TotalRows     int               `json:"total_rows"`
	Page          int               `json:"page"`
	PageSize      int               `json:"page_size"`
	TotalPages    int               `json:"total_pages"`
	Sorts         []SortSpec        `json:"sorts,omitempty"`
	ActiveFilters map[string]string `json:"active_filters,omitempty"` // column -> "op:value"
	Aggregations  Aggregations      `json:"aggregations,omitempty"`
}

// ValidOperator reports whether op can be applied to col.
func ValidOperator(op FilterOperator, col string) bool {
	if IsNumericColumn(col) {
		switch op {
		case OpEquals, OpGreaterEq, OpLessEq, OpGreater, OpLess, OpIn:
			return true
		}
		return false
	}
	switch op {
	case OpContains, OpEquals, OpStartsWith, OpEndsWith, OpIn:
		return true
	}
	return false
}

// ApplyColumnFilters keeps rows matching every filter. Filters on unknown
// columns or with an operator the column does not support are ignored.
func ApplyColumnFilters(rows []Company, filters FilterSet) []Company {
	var active []ColumnFilter
	for _, f := range filters.Filters {
		if f.Value == "" || !slices.Contains(DatasetColumns, f.Column) || !ValidOperator(f.Operator, f.Column) {
			continue
		}
		active = append(active, f)
	}
	if len(active) == 0 {
		return rows
	}

	var out []Company
	for _, r := range rows {
		keep := true
		for _, f := range active {
			if !matchFilter(r, f) {
				keep = false
				break
			}
		}
		if keep {
			out = append(out, r)
		}
	}
	return out
}

func matchFilter(r Company, f ColumnFilter) bool {
	if IsNumericColumn(f.Column) {
		v, ok := r.Number(f.Column)
		if !ok {
			return false
		}
		if f.Operator == OpIn {
			for _, s := range strings.Split(f.Value, ",") {
				if want, ok := ParseNumber(s); ok && v == want {
					return true
				}
			}
			return false
		}
		want, ok := ParseNumber(f.Value)
		if !ok {
			return false
		}
		switch f.Operator {
		case OpEquals:
			return v == want
		case OpGreaterEq:
			return v >= want
		case OpLessEq:
			return v <= want
		case OpGreater:
			return v > want
		case OpLess:
			return v < want
		}
		return false
	}

	text := strings.ToLower(r.Text(f.Column))
	want := strings.ToLower(f.Value)
	switch f.Operator {
	case OpContains:
		return strings.Contains(text, want)
	case OpEquals:
		return text == want
	case OpStartsWith:
		return strings.HasPrefix(text, want)
	case OpEndsWith:
		return strings.HasSuffix(text, want)
	case OpIn:
		for _, s := range strings.Split(want, ",") {
			if text == strings.TrimSpace(s) {
				return true
			}
		}
	}
	return false
}

// SortRows sorts rows in place by up to two sort levels. Invalid columns
// are skipped; the returned specs are the ones actually applied. Missing
// numeric values sort first.
func SortRows(rows []Company, sorts []SortSpec) []SortSpec {
	var valid []SortSpec
	for _, s := range sorts {
		if s.Column == "" || !slices.Contains(DatasetColumns, s.Column) {
			continue
		}
		dir := strings.ToLower(s.Dir)
		if dir != "desc" {
			dir = "asc"
		}
		valid = append(valid, SortSpec{Column: s.Column, Dir: dir})
		if len(valid) >= maxSorts {
			break
		}
	}
	if len(valid) == 0 {
		return nil
	}

	slices.SortStableFunc(rows, func(a, b Company) int {
		for _, s := range valid {
			c := compareColumn(a, b, s.Column)
			if s.Dir == "desc" {
				c = -c
			}
			if c != 0 {
				return c
			}
		}
		return 0
	})
	return valid
}

func compareColumn(a, b Company, col string) int {
	if IsNumericColumn(col) {
		av, aok := a.Number(col)
		bv, bok := b.Number(col)
		switch {
		case !aok && !bok:
			return 0
		case !aok:
			return -1
		case !bok:
			return 1
		}
		return cmp.Compare(av, bv)
	}
	return cmp.Compare(strings.ToLower(a.Text(col)), strings.ToLower(b.Text(col)))
}

// Paginate applies filters, sorting and paging to rows. rows is not
// modified.
func Paginate(rows []Company, columns []string, q TableQuery) TablePage {
	filtered := slices.Clone(ApplyColumnFilters(rows, q.Filters))
	sorts := SortRows(filtered, q.Sorts)

	pageSize := q.PageSize
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	total := len(filtered)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	page := q.Page
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, total)

	active := make(map[string]string)
	for _, f := range q.Filters.Filters {
		active[f.Column] = FormatFilter(f)
	}

	return TablePage{
		Columns:       columns,
		Rows:          filtered[start:end],
		TotalRows:     total,
		Page:          page,
		PageSize:      pageSize,
		TotalPages:    totalPages,
		Sorts:         sorts,
		ActiveFilters: active,
		Aggregations:  ColumnAggregations(filtered, columns),
	}
}

// ColumnAggregations calculates Sum, Avg, Min, Max for the numeric columns
// among columns. Missing values are not counted.
func ColumnAggregations(rows []Company, columns []string) Aggregations {
	result := make(Aggregations)
	for _, col := range columns {
		if !IsNumericColumn(col) {
			continue
		}
		var xs []float64
		for _, r := range rows {
			if v, ok := r.Number(col); ok {
				xs = append(xs, v)
			}
		}

		agg := &ColumnAggregation{Column: col, Count: int64(len(xs))}
		if len(xs) > 0 {
			sample := stats.Sample{Xs: xs}
			sum, mean := sample.Sum(), sample.Mean()
			lo, hi := sample.Bounds()
			agg.Sum, agg.Avg, agg.Min, agg.Max = &sum, &mean, &lo, &hi
		}
		result[col] = agg
	}
	return result
}

// FormatFilter renders a filter the way the query string carries it.
func FormatFilter(f ColumnFilter) string {
	return string(f.Operator) + ":" + f.Value
}

// ParseFilter parses "op:value" for col.
func ParseFilter(col, raw string) (ColumnFilter, bool) {
	op, value, ok := strings.Cut(raw, ":")
	if !ok || value == "" {
		return ColumnFilter{}, false
	}
	f := ColumnFilter{Column: col, Operator: FilterOperator(op), Value: value}
	if !ValidOperator(f.Operator, col) {
		return ColumnFilter{}, false
	}
	return f, true
}
