package data

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validator checks an encoded dataset before it reaches the trainer.
type Validator struct {
	// features is the required row width; zero accepts any consistent width.
	features int
}

func NewValidator(features int) *Validator {
	return &Validator{features: features}
}

// Dataset checks that X and y line up and every row has the same width.
func (v *Validator) Dataset(X [][]decimal.Decimal, y []int) error {
	if len(X) == 0 {
		return fmt.Errorf("dataset has no rows")
	}
	if len(X) != len(y) {
		return fmt.Errorf("row and label counts differ: %d vs %d", len(X), len(y))
	}

	width := v.features
	if width == 0 {
		width = len(X[0])
	}
	if width == 0 {
		return fmt.Errorf("rows have no feature values")
	}

	for i, sample := range X {
		if len(sample) != width {
			return fmt.Errorf("row %d: expected %d features, got %d", i, width, len(sample))
		}
	}
	return nil
}

// Labels requires at least two distinct classes and returns the row count
// of every class code.
func (v *Validator) Labels(y []int) (map[int]int, error) {
	if len(y) == 0 {
		return nil, fmt.Errorf("dataset has no labels")
	}

	counts := make(map[int]int)
	for _, code := range y {
		counts[code]++
	}
	if len(counts) < 2 {
		return nil, fmt.Errorf("dataset must have at least 2 classes, found %d", len(counts))
	}
	return counts, nil
}

// Partitions checks both sides of a train/test split. An empty test side is
// accepted.
func (v *Validator) Partitions(xTrain, xTest [][]decimal.Decimal, yTrain, yTest []int) error {
	if err := v.Dataset(xTrain, yTrain); err != nil {
		return fmt.Errorf("training partition: %w", err)
	}
	if len(xTest) == 0 {
		return nil
	}
	if err := v.Dataset(xTest, yTest); err != nil {
		return fmt.Errorf("test partition: %w", err)
	}
	if len(xTrain[0]) != len(xTest[0]) {
		return fmt.Errorf("partitions differ in width: %d vs %d", len(xTrain[0]), len(xTest[0]))
	}
	return nil
}

// ClassDistribution counts rows per crop label.
func ClassDistribution(ds *Dataset) map[string]int {
	out := make(map[string]int)
	for _, label := range ds.Labels {
		out[label]++
	}
	return out
}
