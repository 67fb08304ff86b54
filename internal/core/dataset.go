package core

// dataset.go loads the company dataset once at startup.
//
// Input is normalized before the CSV reader sees it: a UTF-8 byte order
// mark is dropped and invalid UTF-8 is replaced with U+FFFD, so files saved
// by spreadsheet tools load the same as clean ones.

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"
	"time"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrMissingColumns is returned when the dataset header lacks required columns.
var ErrMissingColumns = errors.New("missing required column")

// Dataset is the immutable, process-wide company table.
type Dataset struct {
	companies []Company
	source    string
	loadedAt  time.Time
}

// NewDataset wraps already-parsed records. The slice is copied.
func NewDataset(companies []Company, source string) *Dataset {
	return &Dataset{
		companies: slices.Clone(companies),
		source:    source,
		loadedAt:  time.Now(),
	}
}

// Companies returns a copy of every record in load order.
func (d *Dataset) Companies() []Company {
	return slices.Clone(d.companies)
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.companies)
}

// Source describes where the dataset came from.
func (d *Dataset) Source() string {
	return d.source
}

// LoadedAt returns when the dataset was loaded.
func (d *Dataset) LoadedAt() time.Time {
	return d.loadedAt
}

// LoadCSVFile opens and parses the dataset file at path.
func LoadCSVFile(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer f.Close()

	ds, err := LoadCSV(f, path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return ds, nil
}

// LoadCSV parses a dataset from r. Every column in DatasetColumns must be
// present in the header. Rows without a company name are skipped.
func LoadCSV(r io.Reader, source string) (*Dataset, error) {
	reader := csv.NewReader(NormalizeReader(r))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("invalid csv: empty file")
	}
	if err != nil {
		return nil, fmt.Errorf("invalid csv: read header: %w", err)
	}

	idx, err := ValidateHeaders(header)
	if err != nil {
		return nil, err
	}

	var companies []Company
	line := 1
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("invalid csv: line %d: %w", line, err)
		}

		c := ParseCompany(row, idx)
		if c.Name == "" {
			continue
		}
		companies = append(companies, c)
	}

	return NewDataset(companies, source), nil
}

// NormalizeReader strips a UTF-8 BOM and replaces invalid UTF-8.
func NormalizeReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// ValidateHeaders checks that every dataset column is present.
// Returns the header index, or an error listing all missing columns.
func ValidateHeaders(header []string) (HeaderIndex, error) {
	idx := MakeHeaderIndex(header)

	var missing []string
	for _, col := range DatasetColumns {
		if _, ok := idx[col]; !ok {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return idx, nil
}

// ParseCompany builds a record from one CSV row.
func ParseCompany(row []string, idx HeaderIndex) Company {
	c := Company{
		Name:                idx.Cell(row, ColCompanyName),
		Website:             idx.Cell(row, ColWebsite),
		Headquarters:        idx.Cell(row, ColHeadquarters),
		Country:             idx.Cell(row, ColCountry),
		FundingStage:        idx.Cell(row, ColFundingStage),
		Category:            idx.Cell(row, ColCategory),
		UsesAITo:            idx.Cell(row, ColUsesAITo),
		AllowsResearchersTo: idx.Cell(row, ColAllowsResearchersTo),
	}

	if y, ok := ParseYear(idx.Cell(row, ColFounded)); ok {
		c.Founded = y
	}
	if v, ok := ParseNumber(idx.Cell(row, ColFundingAmount)); ok {
		c.FundingAmount = v
	}

	lat, latOK := ParseCoordinate(idx.Cell(row, ColLatitude), 90)
	lon, lonOK := ParseCoordinate(idx.Cell(row, ColLongitude), 180)
	if latOK && lonOK {
		c.Latitude, c.Longitude, c.HasLocation = lat, lon, true
	}

	return c
}
