package models

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Model is a classifier over integer class codes. PredictProba returns one
// row per sample with a column per entry of GetClasses.
type Model interface {
	Fit(X [][]decimal.Decimal, y []int) error
	Predict(X [][]decimal.Decimal) ([]int, error)
	PredictProba(X [][]decimal.Decimal) ([][]decimal.Decimal, error)
	GetName() string
	GetParams() map[string]any
	GetClasses() []int
}

type BaseModel struct {
	Name    string
	Params  map[string]any
	Classes []int
}

func (bm *BaseModel) GetName() string {
	return bm.Name
}

func (bm *BaseModel) GetParams() map[string]any {
	return bm.Params
}

func (bm *BaseModel) GetClasses() []int {
	out := make([]int, len(bm.Classes))
	copy(out, bm.Classes)
	return out
}

// ExtractClasses returns the distinct class codes in ascending order.
func ExtractClasses(y []int) []int {
	classMap := make(map[int]struct{})
	for _, label := range y {
		classMap[label] = struct{}{}
	}

	classes := make([]int, 0, len(classMap))
	for class := range classMap {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	return classes
}

// ArgMax returns the index of the largest value, preferring the lowest
// index on ties.
func ArgMax(row []decimal.Decimal) int {
	best := 0
	for i := 1; i < len(row); i++ {
		if row[i].GreaterThan(row[best]) {
			best = i
		}
	}
	return best
}
