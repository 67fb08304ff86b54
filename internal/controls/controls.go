// Package controls defines the vocabularies behind the dashboard widgets:
// metrics, regions and their countries, R&D categories, funding stages and
// the table columns.
//
// The defaults are embedded from controls.yaml. An operator may point
// CONTROLS_FILE at a replacement file with the same shape.
package controls

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// All is the catch-all value for both the region and the category selector.
const All = "All"

//go:embed controls.yaml
var defaultYAML []byte

// Region is a named group of countries.
type Region struct {
	Name      string   `yaml:"name" json:"name"`
	Countries []string `yaml:"countries" json:"countries"`
}

// Axis is a numeric axis range for the chronological chart.
type Axis struct {
	Min  int `yaml:"min" json:"min"`
	Max  int `yaml:"max" json:"max"`
	Step int `yaml:"step" json:"step"`
}

// Controls holds every option list the UI offers.
type Controls struct {
	Metrics       []string `yaml:"metrics" json:"metrics"`
	DefaultMetric string   `yaml:"default_metric" json:"default_metric"`
	Regions       []Region `yaml:"regions" json:"regions"`
	Categories    []string `yaml:"categories" json:"categories"`
	FundingStages []string `yaml:"funding_stages" json:"funding_stages"`
	TableColumns  []string `yaml:"table_columns" json:"table_columns"`
	FoundedAxis   Axis     `yaml:"founded_axis" json:"founded_axis"`
}

// Default returns the embedded controls. It panics if the embedded file is
// invalid, which can only happen through a broken build.
func Default() *Controls {
	c, err := Parse(defaultYAML)
	if err != nil {
		panic(fmt.Sprintf("embedded controls: %v", err))
	}
	return c
}

// Load reads controls from path, or returns the embedded defaults when path
// is empty.
func Load(path string) (*Controls, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read controls file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("controls file %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a controls document.
func Parse(data []byte) (*Controls, error) {
	var c Controls
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("decode controls: %w", err)
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

// Marshal encodes the controls back to YAML.
func (c *Controls) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}

// Validate checks the structural rules the rest of the program relies on.
// Returns an error describing all failures.
func (c *Controls) Validate() error {
	var errs []string

	if len(c.Metrics) == 0 {
		errs = append(errs, "at least one metric is required")
	}
	if c.DefaultMetric == "" && len(c.Metrics) > 0 {
		c.DefaultMetric = c.Metrics[0]
	}
	if !contains(c.Metrics, c.DefaultMetric) {
		errs = append(errs, fmt.Sprintf("default_metric %q is not a listed metric", c.DefaultMetric))
	}

	all, ok := c.RegionCountries(All)
	if !ok {
		errs = append(errs, fmt.Sprintf("region %q is required", All))
	}
	seen := make(map[string]bool)
	for _, r := range c.Regions {
		if seen[r.Name] {
			errs = append(errs, fmt.Sprintf("duplicate region %q", r.Name))
		}
		seen[r.Name] = true
		if r.Name == All {
			continue
		}
		for _, country := range r.Countries {
			if !contains(all, country) {
				errs = append(errs, fmt.Sprintf("region %q lists %q which is missing from %q", r.Name, country, All))
			}
		}
	}

	if len(c.Categories) == 0 {
		errs = append(errs, "at least one category is required")
	}
	if contains(c.Categories, All) {
		errs = append(errs, fmt.Sprintf("categories must not contain %q; it is implied", All))
	}
	if len(c.FundingStages) == 0 {
		errs = append(errs, "at least one funding stage is required")
	}
	if len(c.TableColumns) == 0 {
		errs = append(errs, "at least one table column is required")
	}
	if c.FoundedAxis.Max < c.FoundedAxis.Min {
		errs = append(errs, "founded_axis.max must be >= founded_axis.min")
	}
	if c.FoundedAxis.Step <= 0 {
		c.FoundedAxis.Step = 5
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid controls:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// RegionNames returns region names in display order.
func (c *Controls) RegionNames() []string {
	names := make([]string, len(c.Regions))
	for i, r := range c.Regions {
		names[i] = r.Name
	}
	return names
}

// RegionCountries returns a copy of the country list for a region.
func (c *Controls) RegionCountries(name string) ([]string, bool) {
	for _, r := range c.Regions {
		if r.Name == name {
			return append([]string(nil), r.Countries...), true
		}
	}
	return nil, false
}

// AllCountries returns the country list of the catch-all region.
func (c *Controls) AllCountries() []string {
	countries, _ := c.RegionCountries(All)
	return countries
}

// CategoryOptions returns the category dropdown values, "All" first.
func (c *Controls) CategoryOptions() []string {
	return append([]string{All}, c.Categories...)
}

// CategoryIndex returns the position of a category in the fixed order,
// or -1.
func (c *Controls) CategoryIndex(category string) int {
	return indexOf(c.Categories, category)
}

// StageIndex returns the position of a funding stage in the fixed order,
// or -1.
func (c *Controls) StageIndex(stage string) int {
	return indexOf(c.FundingStages, stage)
}

// IsMetric reports whether m is a known metric.
func (c *Controls) IsMetric(m string) bool {
	return contains(c.Metrics, m)
}

// IsRegion reports whether name is a known region.
func (c *Controls) IsRegion(name string) bool {
	_, ok := c.RegionCountries(name)
	return ok
}

func contains(list []string, s string) bool {
	return indexOf(list, s) >= 0
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}
