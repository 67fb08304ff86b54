package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/JonMunkholm/aidrug/internal/controls"
	"github.com/JonMunkholm/aidrug/internal/core"
)

// selectionFlags mirror the dashboard controls that narrow the records.
type selectionFlags struct {
	region    string
	countries []string
	category  string
}

func (f *selectionFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.region, "region", controls.All, "region whose countries are included")
	fs.StringSliceVar(&f.countries, "countries", nil, "explicit country list (overrides --region)")
	fs.StringVar(&f.category, "category", controls.All, "category to keep")
}

// apply filters records the way the dashboard filter engine does.
func (f *selectionFlags) apply(ctrl *controls.Controls, records []core.Company) ([]core.Company, error) {
	countries := f.countries
	if len(countries) == 0 {
		c, ok := ctrl.RegionCountries(f.region)
		if !ok {
			return nil, fmt.Errorf("unknown region %q (known: %v)", f.region, ctrl.RegionNames())
		}
		countries = c
	}
	return core.Filter(records, countries, f.category), nil
}
