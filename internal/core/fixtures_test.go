package core

import (
	"testing"

	"github.com/JonMunkholm/aidrug/internal/controls"
)

const (
	catDesign    = "Design drugs"
	catAggregate = "Aggregate and synthesize information"
	catTrials    = "Design clinical trials"
)

// fixtureCompanies is a small dataset covering every view:
//   - three countries in North America/Asia/Europe
//   - a shared headquarters (Boston)
//   - one record with an unknown founded year
//   - one record without coordinates
func fixtureCompanies() []Company {
	return []Company{
		{Name: "Alpha", Country: "China", Headquarters: "Beijing", Category: catDesign,
			FundingStage: "Seed", FundingAmount: 5, Founded: 2015,
			Latitude: 39.9, Longitude: 116.4, HasLocation: true,
			UsesAITo: "predict protein structures", AllowsResearchersTo: "design molecules faster"},
		{Name: "Beta", Country: "France", Headquarters: "Paris", Category: catAggregate,
			FundingStage: "A", FundingAmount: 3, Founded: 2010,
			Latitude: 48.85, Longitude: 2.35, HasLocation: true,
			UsesAITo: "mine literature", AllowsResearchersTo: "search literature and patents"},
		{Name: "Gamma", Country: "United States", Headquarters: "Boston", Category: catDesign,
			FundingStage: "B", FundingAmount: 20, Founded: 2010,
			Latitude: 42.36, Longitude: -71.06, HasLocation: true,
			UsesAITo: "generate molecules", AllowsResearchersTo: "design molecules"},
		{Name: "Delta", Country: "United States", Headquarters: "San Francisco", Category: catTrials,
			FundingStage: "Seed", FundingAmount: 0, Founded: 0,
			Latitude: 37.77, Longitude: -122.42, HasLocation: true},
		{Name: "Epsilon", Country: "United Kingdom", Headquarters: "London", Category: catDesign,
			FundingStage: "Acquired", FundingAmount: 12, Founded: 2018},
		{Name: "Zeta", Country: "United States", Headquarters: "Boston", Category: catAggregate,
			FundingStage: "A", FundingAmount: 7, Founded: 2018,
			Latitude: 42.35, Longitude: -71.05, HasLocation: true},
	}
}

func fixtureDataset() *Dataset {
	return NewDataset(fixtureCompanies(), "fixture")
}

func newTestDashboard(t *testing.T) *Dashboard {
	t.Helper()
	d, err := NewDashboard(fixtureDataset(), controls.Default())
	if err != nil {
		t.Fatalf("NewDashboard() error = %v", err)
	}
	return d
}

func names(records []Company) []string {
	out := make([]string, len(records))
	for i, r := range records {
		out[i] = r.Name
	}
	return out
}

func findView(views []ViewResult, key ViewKey) (ViewResult, bool) {
	for _, v := range views {
		if v.Key == key {
			return v, true
		}
	}
	return ViewResult{}, false
}
