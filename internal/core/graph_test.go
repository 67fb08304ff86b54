package core

import (
	"errors"
	"slices"
	"testing"
)

func TestNewGraph_RejectsCycle(t *testing.T) {
	noop := func(*Selection) bool { return false }
	derivs := []Derivation{
		{Name: "a", Inputs: []Field{FieldRegion}, Output: FieldCountries, Derive: noop},
		{Name: "b", Inputs: []Field{FieldCountries}, Output: FieldRegion, Derive: noop},
	}

	_, err := NewGraph(derivs, nil)
	if !errors.Is(err, ErrGraphCycle) {
		t.Errorf("NewGraph() error = %v, want ErrGraphCycle", err)
	}
}

func TestNewGraph_Validation(t *testing.T) {
	noop := func(*Selection) bool { return false }
	compute := func(Selection) ViewResult { return ViewResult{} }

	tests := []struct {
		name   string
		derivs []Derivation
		views  []ViewNode
	}{
		{
			name:   "unknown derivation input",
			derivs: []Derivation{{Name: "x", Inputs: []Field{"bogus"}, Output: FieldCountries, Derive: noop}},
		},
		{
			name:   "unknown derivation output",
			derivs: []Derivation{{Name: "x", Inputs: []Field{FieldRegion}, Output: "bogus", Derive: noop}},
		},
		{
			name: "two writers",
			derivs: []Derivation{
				{Name: "x", Inputs: []Field{FieldRegion}, Output: FieldCountries, Derive: noop},
				{Name: "y", Inputs: []Field{FieldMetric}, Output: FieldCountries, Derive: noop},
			},
		},
		{
			name:  "unknown view input",
			views: []ViewNode{{Key: "v", Inputs: []Field{"bogus"}, Compute: compute}},
		},
		{
			name: "duplicate view",
			views: []ViewNode{
				{Key: "v", Inputs: []Field{FieldMetric}, Compute: compute},
				{Key: "v", Inputs: []Field{FieldMetric}, Compute: compute},
			},
		},
		{
			name:  "nil compute",
			views: []ViewNode{{Key: "v", Inputs: []Field{FieldMetric}}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewGraph(tt.derivs, tt.views); err == nil {
				t.Error("NewGraph() error = nil, want error")
			}
		})
	}
}

func TestGraph_TopologicalOrder(t *testing.T) {
	var order []string
	record := func(name string) func(*Selection) bool {
		return func(*Selection) bool {
			order = append(order, name)
			return true
		}
	}

	// Declared out of order on purpose: second depends on first.
	g, err := NewGraph([]Derivation{
		{Name: "second", Inputs: []Field{FieldCountries}, Output: FieldCategory, Derive: record("second")},
		{Name: "first", Inputs: []Field{FieldRegion}, Output: FieldCountries, Derive: record("first")},
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	cycle := g.Propagate(Selection{}, []Field{FieldRegion})
	if want := []string{"first", "second"}; !slices.Equal(order, want) {
		t.Errorf("derivation order = %v, want %v", order, want)
	}
	if want := []Field{FieldRegion, FieldCountries, FieldCategory}; !slices.Equal(cycle.Dirty, want) {
		t.Errorf("Dirty = %v, want %v", cycle.Dirty, want)
	}
}

func TestGraph_RecomputesEachViewOnce(t *testing.T) {
	calls := make(map[ViewKey]int)
	view := func(key ViewKey) func(Selection) ViewResult {
		return func(Selection) ViewResult {
			calls[key]++
			return ViewResult{Key: key}
		}
	}

	g, err := NewGraph(
		[]Derivation{{
			Name: "region", Inputs: []Field{FieldRegion}, Output: FieldCountries,
			Derive: func(*Selection) bool { return true },
		}},
		[]ViewNode{
			{Key: "both", Inputs: []Field{FieldRegion, FieldCountries}, Compute: view("both")},
			{Key: "countries", Inputs: []Field{FieldCountries}, Compute: view("countries")},
			{Key: "metric", Inputs: []Field{FieldMetric}, Compute: view("metric")},
		},
	)
	if err != nil {
		t.Fatal(err)
	}

	cycle := g.Propagate(Selection{}, []Field{FieldRegion, FieldRegion})

	if calls["both"] != 1 || calls["countries"] != 1 {
		t.Errorf("calls = %v, want both=1 countries=1", calls)
	}
	if calls["metric"] != 0 {
		t.Errorf("calls[metric] = %d, want 0", calls["metric"])
	}
	if len(cycle.Views) != 2 {
		t.Errorf("len(Views) = %d, want 2", len(cycle.Views))
	}
}

func TestGraph_UnchangedDerivationStopsPropagation(t *testing.T) {
	calls := 0
	g, err := NewGraph(
		[]Derivation{{
			Name: "noop", Inputs: []Field{FieldRegion}, Output: FieldCountries,
			Derive: func(*Selection) bool { return false },
		}},
		[]ViewNode{{
			Key: "countries", Inputs: []Field{FieldCountries},
			Compute: func(Selection) ViewResult { calls++; return ViewResult{} },
		}},
	)
	if err != nil {
		t.Fatal(err)
	}

	g.Propagate(Selection{}, []Field{FieldRegion})
	if calls != 0 {
		t.Errorf("view computed %d times, want 0", calls)
	}
}

func TestGraph_PropagateDoesNotMutateInput(t *testing.T) {
	g, err := NewGraph([]Derivation{{
		Name: "clear", Inputs: []Field{FieldRegion}, Output: FieldCountries,
		Derive: func(s *Selection) bool { s.Countries[0] = "changed"; return true },
	}}, nil)
	if err != nil {
		t.Fatal(err)
	}

	sel := Selection{Countries: []string{"China"}}
	g.Propagate(sel, []Field{FieldRegion})
	if sel.Countries[0] != "China" {
		t.Errorf("input selection mutated: %v", sel.Countries)
	}
}

func TestDashboard_ViewKeys(t *testing.T) {
	d := newTestDashboard(t)
	want := []ViewKey{
		ViewFoundedYear, ViewVentureStage, ViewCountryPie, ViewMap,
		ViewTable, ViewCategory, ViewWordCloud,
	}
	if got := d.ViewKeys(); !slices.Equal(got, want) {
		t.Errorf("ViewKeys() = %v, want %v", got, want)
	}
	if d.Controls() != d.ctrl {
		t.Error("Controls() returned a different instance")
	}
}
