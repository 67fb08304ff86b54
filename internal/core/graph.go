package core

// graph.go is the selection state graph.
//
// Nodes are selection fields. Derivations write one field from others
// (region re-derives the country list, a category click re-derives the
// category). Views are pure functions of declared fields.
//
// One propagation cycle:
//  1. the event marks its target fields dirty
//  2. derivations run in topological order; an output becomes dirty only
//     when its value actually changed
//  3. every view with a dirty input is computed exactly once
//
// Views never read other views, so there is no view-to-view ordering.

import (
	"errors"
	"fmt"
	"slices"
	"time"
)

// Field names one selection value.
type Field string

const (
	FieldMetric        Field = "metric"
	FieldRegion        Field = "region"
	FieldCountries     Field = "countries"
	FieldCategory      Field = "category"
	FieldCategoryClick Field = "category_click"
	FieldMap           Field = "map"
)

// AllFields lists every selection field.
var AllFields = []Field{
	FieldMetric,
	FieldRegion,
	FieldCountries,
	FieldCategory,
	FieldCategoryClick,
	FieldMap,
}

// ErrGraphCycle is returned when derivations depend on each other in a loop.
var ErrGraphCycle = errors.New("selection graph has a cycle")

// Derivation writes Output from Inputs. Derive mutates the selection and
// reports whether Output changed.
type Derivation struct {
	Name   string
	Inputs []Field
	Output Field
	Derive func(sel *Selection) bool
}

// ViewNode is a derived view subscribed to a set of fields.
type ViewNode struct {
	Key     ViewKey
	Inputs  []Field
	Compute func(sel Selection) ViewResult
}

// Cycle is the outcome of one propagation.
type Cycle struct {
	Selection Selection    `json:"selection"`
	Dirty     []Field      `json:"dirty"`
	Views     []ViewResult `json:"views"`
}

// Graph holds derivations in topological order and the view subscribers.
type Graph struct {
	derivations []Derivation
	views       []ViewNode
}

// NewGraph validates and orders the nodes. It rejects unknown fields,
// two derivations writing the same field, duplicate view keys and cycles.
func NewGraph(derivations []Derivation, views []ViewNode) (*Graph, error) {
	writers := make(map[Field]int, len(derivations))
	for i, d := range derivations {
		if d.Derive == nil {
			return nil, fmt.Errorf("derivation %q: nil derive func", d.Name)
		}
		if !knownField(d.Output) {
			return nil, fmt.Errorf("derivation %q: unknown output field %q", d.Name, d.Output)
		}
		for _, in := range d.Inputs {
			if !knownField(in) {
				return nil, fmt.Errorf("derivation %q: unknown input field %q", d.Name, in)
			}
		}
		if prev, dup := writers[d.Output]; dup {
			return nil, fmt.Errorf("derivations %q and %q both write %q",
				derivations[prev].Name, d.Name, d.Output)
		}
		writers[d.Output] = i
	}

	seen := make(map[ViewKey]bool, len(views))
	for _, v := range views {
		if seen[v.Key] {
			return nil, fmt.Errorf("duplicate view %q", v.Key)
		}
		seen[v.Key] = true
		if v.Compute == nil {
			return nil, fmt.Errorf("view %q: nil compute func", v.Key)
		}
		for _, in := range v.Inputs {
			if !knownField(in) {
				return nil, fmt.Errorf("view %q: unknown input field %q", v.Key, in)
			}
		}
	}

	ordered, err := topoSort(derivations, writers)
	if err != nil {
		return nil, err
	}

	return &Graph{derivations: ordered, views: slices.Clone(views)}, nil
}

// topoSort orders derivations so every writer of a field runs before its
// readers (Kahn's algorithm). Ties keep declaration order.
func topoSort(derivations []Derivation, writers map[Field]int) ([]Derivation, error) {
	n := len(derivations)
	indegree := make([]int, n)
	edges := make([][]int, n)
	for i, d := range derivations {
		for _, in := range d.Inputs {
			if w, ok := writers[in]; ok {
				edges[w] = append(edges[w], i)
				indegree[i]++
			}
		}
	}

	var queue []int
	for i := range derivations {
		if indegree[i] == 0 {
			queue = append(queue, i)
		}
	}

	ordered := make([]Derivation, 0, n)
	for len(queue) > 0 {
		i := queue[0]
		queue = queue[1:]
		ordered = append(ordered, derivations[i])
		for _, j := range edges[i] {
			indegree[j]--
			if indegree[j] == 0 {
				queue = append(queue, j)
			}
		}
	}

	if len(ordered) != n {
		var stuck []string
		for i, d := range derivations {
			if indegree[i] > 0 {
				stuck = append(stuck, d.Name)
			}
		}
		return nil, fmt.Errorf("%w: %v", ErrGraphCycle, stuck)
	}
	return ordered, nil
}

// Views returns the view keys in declaration order.
func (g *Graph) Views() []ViewKey {
	keys := make([]ViewKey, len(g.views))
	for i, v := range g.views {
		keys[i] = v.Key
	}
	return keys
}

// Propagate runs one cycle starting from the fields in dirty.
// sel is not modified; the resulting selection is returned in the Cycle.
func (g *Graph) Propagate(sel Selection, dirty []Field) Cycle {
	start := time.Now()
	defer func() { dispatchDuration.Observe(time.Since(start).Seconds()) }()

	next := sel.Clone()
	marked := make(map[Field]bool, len(AllFields))
	for _, f := range dirty {
		marked[f] = true
	}

	for _, d := range g.derivations {
		if !anyMarked(marked, d.Inputs) {
			continue
		}
		if d.Derive(&next) {
			marked[d.Output] = true
		}
	}

	var results []ViewResult
	for _, v := range g.views {
		if !anyMarked(marked, v.Inputs) {
			continue
		}
		results = append(results, v.Compute(next.Clone()))
		viewRecomputesTotal.WithLabelValues(string(v.Key)).Inc()
	}

	var out []Field
	for _, f := range AllFields {
		if marked[f] {
			out = append(out, f)
		}
	}

	return Cycle{Selection: next, Dirty: out, Views: results}
}

// Compute evaluates a single view against sel without any propagation.
func (g *Graph) Compute(sel Selection, key ViewKey) (ViewResult, bool) {
	for _, v := range g.views {
		if v.Key == key {
			return v.Compute(sel.Clone()), true
		}
	}
	return ViewResult{}, false
}

func anyMarked(marked map[Field]bool, fields []Field) bool {
	for _, f := range fields {
		if marked[f] {
			return true
		}
	}
	return false
}

func knownField(f Field) bool {
	return slices.Contains(AllFields, f)
}
