package core

// aggregate.go computes grouped summaries over filtered records.
//
// Records are loaded into a go-gg table with one key column and one amount
// column, grouped by key, and each group is measured as a row count or an
// amount sum. Records with a missing key belong to no group.

import (
	"sort"
	"strconv"

	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/stats"
)

const colAmount = "amount"

// Aggregate groups records by dim and measures each group with metric.
// Groups without records are omitted. Founded years are ordered
// numerically, every other dimension alphabetically.
func Aggregate(records []Company, dim Dimension, metric Metric) []Group {
	keys := make([]string, 0, len(records))
	amounts := make([]float64, 0, len(records))
	for _, r := range records {
		k, ok := r.Key(dim)
		if !ok {
			continue
		}
		keys = append(keys, k)
		amounts = append(amounts, r.FundingAmount)
	}
	if len(keys) == 0 {
		return nil
	}

	tab := new(table.Builder).
		Add(string(dim), keys).
		Add(colAmount, amounts).
		Done()
	grouped := table.GroupBy(tab, string(dim))

	gids := grouped.Tables()
	groups := make([]Group, 0, len(gids))
	for _, gid := range gids {
		groups = append(groups, Group{
			Key:   gid.Label().(string),
			Value: measure(grouped.Table(gid), metric),
		})
	}

	sortGroups(groups, dim)
	return groups
}

// AggregateDomain measures records over a fixed, ordered domain of keys.
// The result has exactly one entry per domain key, zero when no record
// falls in it. Records whose key is outside the domain are ignored.
func AggregateDomain(records []Company, dim Dimension, metric Metric, domain []string) []Group {
	byKey := make(map[string]float64)
	for _, g := range Aggregate(records, dim, metric) {
		byKey[g.Key] = g.Value
	}

	out := make([]Group, len(domain))
	for i, key := range domain {
		out[i] = Group{Key: key, Value: byKey[key]}
	}
	return out
}

// Total sums the values of groups.
func Total(groups []Group) float64 {
	xs := make([]float64, len(groups))
	for i, g := range groups {
		xs[i] = g.Value
	}
	return stats.Sample{Xs: xs}.Sum()
}

// Bounds returns the smallest and largest group values, or 0, 0 for no groups.
func Bounds(groups []Group) (lo, hi float64) {
	if len(groups) == 0 {
		return 0, 0
	}
	xs := make([]float64, len(groups))
	for i, g := range groups {
		xs[i] = g.Value
	}
	return stats.Sample{Xs: xs}.Bounds()
}

func measure(t *table.Table, metric Metric) float64 {
	if metric == MetricFunding {
		amounts := t.MustColumn(colAmount).([]float64)
		return stats.Sample{Xs: amounts}.Sum()
	}
	return float64(t.Len())
}

func sortGroups(groups []Group, dim Dimension) {
	if dim == DimFounded {
		sort.SliceStable(groups, func(i, j int) bool {
			a, _ := strconv.Atoi(groups[i].Key)
			b, _ := strconv.Atoi(groups[j].Key)
			return a < b
		})
		return
	}
	sort.SliceStable(groups, func(i, j int) bool {
		return groups[i].Key < groups[j].Key
	})
}
