package core

import "github.com/JonMunkholm/aidrug/internal/controls"

// Filter returns the records whose country is in countries and, unless
// category is "All", whose category equals category.
//
// Unknown countries or categories simply match nothing. An empty country
// set yields an empty result.
func Filter(records []Company, countries []string, category string) []Company {
	if len(records) == 0 || len(countries) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(countries))
	for _, c := range countries {
		allowed[c] = struct{}{}
	}

	var out []Company
	for _, r := range records {
		if _, ok := allowed[r.Country]; !ok {
			continue
		}
		if category != controls.All && r.Category != category {
			continue
		}
		out = append(out, r)
	}
	return out
}

// FilterHeadquarters keeps records whose headquarters is in hqs.
func FilterHeadquarters(records []Company, hqs []string) []Company {
	if len(records) == 0 || len(hqs) == 0 {
		return nil
	}

	allowed := make(map[string]struct{}, len(hqs))
	for _, hq := range hqs {
		allowed[hq] = struct{}{}
	}

	var out []Company
	for _, r := range records {
		if _, ok := allowed[r.Headquarters]; ok {
			out = append(out, r)
		}
	}
	return out
}
