package preprocessing

import (
	"fmt"
	"sort"
)

// LabelEncoder maps crop names to dense integer codes. Codes follow the
// sorted order of the distinct labels, so the mapping is the same on every
// run for the same dataset.
type LabelEncoder struct {
	classes    []string
	classToInt map[string]int
	isFitted   bool
}

func NewLabelEncoder() *LabelEncoder {
	return &LabelEncoder{
		classToInt: make(map[string]int),
	}
}

func (le *LabelEncoder) Fit(labels []string) {
	uniqueLabels := make(map[string]struct{})
	for _, label := range labels {
		uniqueLabels[label] = struct{}{}
	}

	le.classes = make([]string, 0, len(uniqueLabels))
	for label := range uniqueLabels {
		le.classes = append(le.classes, label)
	}
	sort.Strings(le.classes)

	le.classToInt = make(map[string]int, len(le.classes))
	for idx, label := range le.classes {
		le.classToInt[label] = idx
	}

	le.isFitted = true
}

func (le *LabelEncoder) Transform(labels []string) ([]int, error) {
	if !le.isFitted {
		return nil, fmt.Errorf("LabelEncoder must be fitted before transform")
	}

	result := make([]int, len(labels))
	for i, label := range labels {
		val, ok := le.classToInt[label]
		if !ok {
			return nil, fmt.Errorf("unknown label: %s", label)
		}
		result[i] = val
	}

	return result, nil
}

func (le *LabelEncoder) FitTransform(labels []string) ([]int, error) {
	le.Fit(labels)
	return le.Transform(labels)
}

func (le *LabelEncoder) InverseTransform(encoded []int) ([]string, error) {
	if !le.isFitted {
		return nil, fmt.Errorf("LabelEncoder must be fitted before inverse transform")
	}

	result := make([]string, len(encoded))
	for i, val := range encoded {
		if val < 0 || val >= len(le.classes) {
			return nil, fmt.Errorf("unknown encoding: %d", val)
		}
		result[i] = le.classes[val]
	}

	return result, nil
}

// Classes returns a copy of the known labels indexed by code.
func (le *LabelEncoder) Classes() []string {
	out := make([]string, len(le.classes))
	copy(out, le.classes)
	return out
}

func (le *LabelEncoder) NumClasses() int {
	return len(le.classes)
}

func (le *LabelEncoder) Contains(label string) bool {
	_, ok := le.classToInt[label]
	return ok
}

func (le *LabelEncoder) IsFitted() bool {
	return le.isFitted
}
