package data

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"croprec/internal/features"
)

// ReferenceHeader is the header of the public crop recommendation dataset
// (2200 rows, 22 crops) the service is built around. Any header that names
// the same columns, in any order and through any alias, is accepted.
const ReferenceHeader = "N,P,K,temperature,humidity,ph,rainfall,label"

// LabelAliases are the header names accepted for the crop label column.
var LabelAliases = []string{"label", "crop", "class"}

// Dataset is a labeled feature matrix with columns in canonical order.
type Dataset struct {
	X       [][]decimal.Decimal
	Labels  []string
	Headers []string
	Source  string
}

func (d *Dataset) Len() int {
	return len(d.X)
}

// Schema maps canonical features and the label onto file columns.
type Schema struct {
	FeatureCols [features.Count]int
	LabelCol    int
	Headers     []string
}

// ResolveSchema matches header names to features through the feature alias
// table. Column order is free; every feature and the label must be present
// exactly once.
func ResolveSchema(header []string) (*Schema, error) {
	s := &Schema{LabelCol: -1}
	for i := range s.FeatureCols {
		s.FeatureCols[i] = -1
	}

	for j, raw := range header {
		name := strings.TrimSpace(strings.TrimPrefix(raw, "\ufeff"))
		if isLabelColumn(name) {
			if s.LabelCol >= 0 {
				return nil, fmt.Errorf("duplicate label column %q", name)
			}
			s.LabelCol = j
			continue
		}
		idx, ok := features.Index(name)
		if !ok {
			continue
		}
		if s.FeatureCols[idx] >= 0 {
			return nil, fmt.Errorf("duplicate column for feature %s: %q", features.Fields[idx].Name, name)
		}
		s.FeatureCols[idx] = j
	}

	var missing []string
	s.Headers = make([]string, features.Count)
	for i, col := range s.FeatureCols {
		if col < 0 {
			missing = append(missing, features.Fields[i].Name)
			continue
		}
		s.Headers[i] = strings.TrimSpace(header[col])
	}
	if s.LabelCol < 0 {
		missing = append(missing, "label")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("dataset is missing required columns: %s", strings.Join(missing, ", "))
	}
	return s, nil
}

func isLabelColumn(name string) bool {
	for _, a := range LabelAliases {
		if strings.EqualFold(a, name) {
			return true
		}
	}
	return false
}

type CSVReader struct {
	filename string
}

func NewCSVReader(filename string) *CSVReader {
	return &CSVReader{filename: filename}
}

// LoadDataset reads and parses the CSV dataset at path.
func LoadDataset(path string) (*Dataset, error) {
	return NewCSVReader(path).LoadData()
}

// LoadData reads the whole file. Any unreadable row or non-numeric feature
// cell fails the load.
func (cr *CSVReader) LoadData() (*Dataset, error) {
	file, err := os.Open(cr.filename)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("dataset %s not found, expected a CSV with header %s: %w", cr.filename, ReferenceHeader, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer file.Close()

	ds, err := Read(file)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", cr.filename, err)
	}
	ds.Source = cr.filename
	return ds, nil
}

// Read parses a dataset from r.
func Read(r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("dataset is empty")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read headers: %w", err)
	}

	schema, err := ResolveSchema(header)
	if err != nil {
		return nil, err
	}

	ds := &Dataset{Headers: schema.Headers}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("error reading record: %w", err)
		}

		line, _ := reader.FieldPos(0)

		label := strings.TrimSpace(record[schema.LabelCol])
		if label == "" {
			return nil, fmt.Errorf("line %d: empty label", line)
		}

		row := make([]decimal.Decimal, features.Count)
		for i, col := range schema.FeatureCols {
			val := strings.TrimSpace(record[col])
			d, err := decimal.NewFromString(val)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid numeric value for %s: %q", line, features.Fields[i].Name, val)
			}
			row[i] = d
		}

		ds.X = append(ds.X, row)
		ds.Labels = append(ds.Labels, label)
	}

	if len(ds.X) == 0 {
		return nil, fmt.Errorf("insufficient data: no rows after header")
	}
	return ds, nil
}
