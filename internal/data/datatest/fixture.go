// Package datatest writes small deterministic crop datasets for tests.
package datatest

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// Header matches the column names of the reference crop dataset.
const Header = "N,P,K,temperature,humidity,ph,rainfall,label"

// Center is the typical growing condition for a crop.
type Center struct {
	Label  string
	Values [7]float64
}

// Centers are well separated so nearest neighbours stay inside a class.
var Centers = []Center{
	{"apple", [7]float64{21, 134, 200, 22.6, 92.3, 5.9, 112.6}},
	{"chickpea", [7]float64{40, 68, 80, 18.9, 16.9, 7.3, 80.0}},
	{"coffee", [7]float64{101, 28, 30, 25.5, 58.9, 6.8, 158.1}},
	{"maize", [7]float64{77, 48, 20, 22.4, 65.1, 6.2, 84.8}},
	{"mango", [7]float64{20, 27, 30, 31.2, 50.2, 5.8, 94.7}},
	{"rice", [7]float64{80, 48, 40, 23.7, 82.3, 6.4, 236.2}},
}

// Rows returns perClass deterministic rows for every center.
func Rows(perClass int) []string {
	var rows []string
	for _, c := range Centers {
		for i := 0; i < perClass; i++ {
			// small symmetric jitter, different per column
			off := float64(i%5-2) * 0.5
			vals := make([]string, 0, 8)
			for j, v := range c.Values {
				vals = append(vals, fmt.Sprintf("%.2f", v+off*float64(j%3+1)))
			}
			vals = append(vals, c.Label)
			rows = append(rows, strings.Join(vals, ","))
		}
	}
	return rows
}

// Labels returns the fixture class names in ascending order.
func Labels() []string {
	out := make([]string, len(Centers))
	for i, c := range Centers {
		out[i] = c.Label
	}
	return out
}

// WriteCSV writes a CSV file with the given header and rows to path.
func WriteCSV(t testing.TB, path, header string, rows []string) {
	t.Helper()
	var b strings.Builder
	b.WriteString(header + "\n")
	for _, r := range rows {
		b.WriteString(r + "\n")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o600); err != nil {
		t.Fatalf("failed to write csv %s: %v", path, err)
	}
}

// WriteFixture writes the default fixture (10 rows per crop) into a temp
// directory and returns its path.
func WriteFixture(t testing.TB) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crops.csv")
	WriteCSV(t, path, Header, Rows(10))
	return path
}
