package core

import (
	"strconv"
)

// Metric is the quantity a chart measures.
type Metric string

const (
	MetricCount   Metric = "number of startups"
	MetricFunding Metric = "$M of investment"
)

// ParseMetric converts a selector value to a Metric.
// Unknown values fall back to MetricCount so a chart is always drawn.
func ParseMetric(s string) Metric {
	if Metric(s) == MetricFunding {
		return MetricFunding
	}
	return MetricCount
}

// Dimension is a column records can be grouped by.
type Dimension string

const (
	DimFounded      Dimension = "founded"
	DimStage        Dimension = "funding_stage"
	DimCountry      Dimension = "country"
	DimCategory     Dimension = "category"
	DimHeadquarters Dimension = "headquarters"
)

// ParseDimension returns the Dimension named by s.
func ParseDimension(s string) (Dimension, bool) {
	switch d := Dimension(s); d {
	case DimFounded, DimStage, DimCountry, DimCategory, DimHeadquarters:
		return d, true
	}
	return "", false
}

// Column names of the dataset file.
const (
	ColCompanyName         = "company_name"
	ColWebsite             = "website"
	ColFounded             = "founded"
	ColHeadquarters        = "headquarters"
	ColCountry             = "country"
	ColLatitude            = "latitude"
	ColLongitude           = "longitude"
	ColFundingStage        = "funding_stage"
	ColFundingAmount       = "funding_amount"
	ColCategory            = "category"
	ColUsesAITo            = "uses_ai_to"
	ColAllowsResearchersTo = "allows_researchers_to"
)

// DatasetColumns lists every column the dataset must provide, in file order.
var DatasetColumns = []string{
	ColCompanyName,
	ColWebsite,
	ColFounded,
	ColHeadquarters,
	ColCountry,
	ColLatitude,
	ColLongitude,
	ColFundingStage,
	ColFundingAmount,
	ColCategory,
	ColUsesAITo,
	ColAllowsResearchersTo,
}

// Company is one startup record. Records are never modified after load.
type Company struct {
	Name                string  `json:"company_name"`
	Website             string  `json:"website"`
	Founded             int     `json:"founded"` // 0 when unknown
	Headquarters        string  `json:"headquarters"`
	Country             string  `json:"country"`
	Latitude            float64 `json:"latitude"`
	Longitude           float64 `json:"longitude"`
	HasLocation         bool    `json:"-"`
	FundingStage        string  `json:"funding_stage"`
	FundingAmount       float64 `json:"funding_amount"` // $M, 0 when unknown
	Category            string  `json:"category"`
	UsesAITo            string  `json:"uses_ai_to"`
	AllowsResearchersTo string  `json:"allows_researchers_to"`
}

// Key returns the record's value for a grouping dimension.
// The second result is false when the value is missing, in which case the
// record belongs to no group.
func (c Company) Key(d Dimension) (string, bool) {
	var v string
	switch d {
	case DimFounded:
		if c.Founded == 0 {
			return "", false
		}
		v = strconv.Itoa(c.Founded)
	case DimStage:
		v = c.FundingStage
	case DimCountry:
		v = c.Country
	case DimCategory:
		v = c.Category
	case DimHeadquarters:
		v = c.Headquarters
	}
	return v, v != ""
}

// Text returns a column value formatted for display or export.
func (c Company) Text(col string) string {
	switch col {
	case ColCompanyName:
		return c.Name
	case ColWebsite:
		return c.Website
	case ColFounded:
		if c.Founded == 0 {
			return ""
		}
		return strconv.Itoa(c.Founded)
	case ColHeadquarters:
		return c.Headquarters
	case ColCountry:
		return c.Country
	case ColLatitude:
		if !c.HasLocation {
			return ""
		}
		return strconv.FormatFloat(c.Latitude, 'f', -1, 64)
	case ColLongitude:
		if !c.HasLocation {
			return ""
		}
		return strconv.FormatFloat(c.Longitude, 'f', -1, 64)
	case ColFundingStage:
		return c.FundingStage
	case ColFundingAmount:
		return strconv.FormatFloat(c.FundingAmount, 'f', -1, 64)
	case ColCategory:
		return c.Category
	case ColUsesAITo:
		return c.UsesAITo
	case ColAllowsResearchersTo:
		return c.AllowsResearchersTo
	}
	return ""
}

// Number returns a numeric column value. The second result is false for
// text columns and missing values.
func (c Company) Number(col string) (float64, bool) {
	switch col {
	case ColFounded:
		return float64(c.Founded), c.Founded != 0
	case ColFundingAmount:
		return c.FundingAmount, true
	case ColLatitude:
		return c.Latitude, c.HasLocation
	case ColLongitude:
		return c.Longitude, c.HasLocation
	}
	return 0, false
}

// IsNumericColumn reports whether col holds numbers.
func IsNumericColumn(col string) bool {
	switch col {
	case ColFounded, ColFundingAmount, ColLatitude, ColLongitude:
		return true
	}
	return false
}

// Group is one row of a derived view: a group key and its measured value.
type Group struct {
	Key   string  `json:"key"`
	Value float64 `json:"value"`
}
