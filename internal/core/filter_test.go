package core

import (
	"slices"
	"testing"
)

func TestFilter(t *testing.T) {
	records := fixtureCompanies()

	tests := []struct {
		name      string
		countries []string
		category  string
		want      []string
	}{
		{
			name:      "All ignores category",
			countries: []string{"United States", "France"},
			category:  "All",
			want:      []string{"Beta", "Gamma", "Delta", "Zeta"},
		},
		{
			name:      "category and country",
			countries: []string{"United States", "United Kingdom"},
			category:  catDesign,
			want:      []string{"Gamma", "Epsilon"},
		},
		{
			name:      "empty country set",
			countries: nil,
			category:  "All",
			want:      nil,
		},
		{
			name:      "unknown country",
			countries: []string{"Atlantis"},
			category:  "All",
			want:      nil,
		},
		{
			name:      "unknown category",
			countries: []string{"United States"},
			category:  "Alchemy",
			want:      nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := names(Filter(records, tt.countries, tt.category))
			if !slices.Equal(got, tt.want) && !(len(got) == 0 && len(tt.want) == 0) {
				t.Errorf("Filter() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilter_EmptyInput(t *testing.T) {
	if got := Filter(nil, []string{"China"}, "All"); len(got) != 0 {
		t.Errorf("Filter(nil) = %v, want empty", got)
	}
}

// Every record whose country is selected comes back when the category is
// "All", and nothing else does.
func TestFilter_AllMatchesCountryOnly(t *testing.T) {
	records := fixtureCompanies()
	countries := []string{"United States", "China"}

	got := Filter(records, countries, "All")

	want := 0
	for _, r := range records {
		if slices.Contains(countries, r.Country) {
			want++
		}
	}
	if len(got) != want {
		t.Fatalf("len(Filter()) = %d, want %d", len(got), want)
	}
	for _, r := range got {
		if !slices.Contains(countries, r.Country) {
			t.Errorf("Filter() returned %s from %s", r.Name, r.Country)
		}
	}
}

func TestFilter_Scenario(t *testing.T) {
	records := []Company{
		{Name: "one", Country: "China", Category: "Design drugs", FundingAmount: 5},
		{Name: "two", Country: "France", Category: "All", FundingAmount: 3},
	}

	got := Filter(records, []string{"China"}, "Design drugs")
	if len(got) != 1 || got[0].Name != "one" {
		t.Fatalf("Filter() = %v, want [one]", names(got))
	}

	groups := Aggregate(got, DimCountry, MetricFunding)
	want := []Group{{Key: "China", Value: 5}}
	if !slices.Equal(groups, want) {
		t.Errorf("Aggregate() = %v, want %v", groups, want)
	}
}

func TestFilterHeadquarters(t *testing.T) {
	records := fixtureCompanies()

	got := names(FilterHeadquarters(records, []string{"Boston", "Paris"}))
	want := []string{"Beta", "Gamma", "Zeta"}
	if !slices.Equal(got, want) {
		t.Errorf("FilterHeadquarters() = %v, want %v", got, want)
	}

	if got := FilterHeadquarters(records, nil); len(got) != 0 {
		t.Errorf("FilterHeadquarters(nil) = %v, want empty", names(got))
	}
}
