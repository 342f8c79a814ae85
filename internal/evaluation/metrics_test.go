package evaluation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateMetrics_Perfect(t *testing.T) {
	y := []int{0, 1, 2, 0, 1, 2}

	m, err := CalculateMetrics(y, y, []int{0, 1, 2})
	require.NoError(t, err)

	assert.Equal(t, 1.0, m.Accuracy)
	assert.Equal(t, 1.0, m.MacroPrecision)
	assert.Equal(t, 1.0, m.MacroRecall)
	assert.Equal(t, 1.0, m.MacroF1)
	assert.Equal(t, 6, m.NumSamples)
	assert.Equal(t, 3, m.NumClasses)
	assert.Equal(t, [][]int{{2, 0, 0}, {0, 2, 0}, {0, 0, 2}}, m.ConfusionMatrix)
}

func TestCalculateMetrics_Mixed(t *testing.T) {
	yTrue := []int{0, 0, 1, 1}
	yPred := []int{0, 1, 1, 1}

	m, err := CalculateMetrics(yTrue, yPred, []int{0, 1})
	require.NoError(t, err)

	assert.InDelta(t, 0.75, m.Accuracy, 1e-12)
	// class 0: p=1, r=0.5; class 1: p=2/3, r=1
	assert.InDelta(t, (1.0+2.0/3.0)/2, m.MacroPrecision, 1e-12)
	assert.InDelta(t, 0.75, m.MacroRecall, 1e-12)
	assert.InDelta(t, 0.5, m.PerClassMetrics[0].Recall, 1e-12)
	assert.Equal(t, 2, m.PerClassMetrics[1].Support)
	assert.Equal(t, [][]int{{1, 1}, {0, 2}}, m.ConfusionMatrix)
}

func TestCalculateMetrics_Errors(t *testing.T) {
	_, err := CalculateMetrics([]int{0}, []int{0, 1}, []int{0, 1})
	require.Error(t, err)

	_, err = CalculateMetrics([]int{0}, []int{0}, nil)
	require.Error(t, err)
}

func TestCalculateMetrics_EmptyPartition(t *testing.T) {
	m, err := CalculateMetrics(nil, nil, []int{0, 1})
	require.NoError(t, err)
	assert.Equal(t, 0.0, m.Accuracy)
	assert.Equal(t, 0, m.NumSamples)
}

func TestFormatMetrics(t *testing.T) {
	m := &ClassificationMetrics{Accuracy: 0.5, MacroPrecision: 0.25, MacroRecall: 0.5, MacroF1: 0.3333, WeightedF1: 0.4}
	assert.Equal(t,
		"Accuracy: 0.5000\nMacro Avg - Precision: 0.2500, Recall: 0.5000, F1: 0.3333\nWeighted F1: 0.4000\n",
		m.FormatMetrics())
}
