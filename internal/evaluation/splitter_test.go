package evaluation

import (
	"sort"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// labelled builds one single-feature row per label; the feature is the row
// index so rows can be traced back after a split.
func labelled(counts map[int]int) ([][]decimal.Decimal, []int) {
	classes := make([]int, 0, len(counts))
	for c := range counts {
		classes = append(classes, c)
	}
	sort.Ints(classes)

	var X [][]decimal.Decimal
	var y []int
	for _, c := range classes {
		for i := 0; i < counts[c]; i++ {
			X = append(X, []decimal.Decimal{decimal.NewFromInt(int64(len(y)))})
			y = append(y, c)
		}
	}
	return X, y
}

func countBy(y []int) map[int]int {
	out := make(map[int]int)
	for _, v := range y {
		out[v]++
	}
	return out
}

func TestTestCount(t *testing.T) {
	tests := []struct {
		n    int
		want int
	}{
		{n: 0, want: 0},
		{n: 1, want: 0},
		{n: 2, want: 1},
		{n: 4, want: 1},
		{n: 5, want: 1},
		{n: 10, want: 2},
		{n: 100, want: 20},
		{n: 101, want: 20},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TestCount(tt.n, 0.2), "n=%d", tt.n)
	}
}

func TestStratifiedSplit_Proportions(t *testing.T) {
	X, y := labelled(map[int]int{0: 100, 1: 100, 2: 10, 3: 1})

	split, err := NewTrainTestSplitter(0.2, 42, true).StratifiedSplit(X, y)
	require.NoError(t, err)

	assert.Equal(t, map[int]int{0: 20, 1: 20, 2: 2}, countBy(split.YTest))
	assert.Equal(t, map[int]int{0: 80, 1: 80, 2: 8, 3: 1}, countBy(split.YTrain))
	assert.Len(t, split.XTrain, len(split.YTrain))
	assert.Len(t, split.XTest, len(split.YTest))
}

func TestStratifiedSplit_PartitionsEveryRowOnce(t *testing.T) {
	X, y := labelled(map[int]int{0: 13, 1: 7, 2: 22})

	split, err := NewTrainTestSplitter(0.2, 7, true).StratifiedSplit(X, y)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, idx := range append(append([]int{}, split.TrainIndices...), split.TestIndices...) {
		assert.False(t, seen[idx], "row %d assigned twice", idx)
		seen[idx] = true
	}
	assert.Len(t, seen, len(y))

	for i, idx := range split.TrainIndices {
		assert.Equal(t, y[idx], split.YTrain[i])
		assert.True(t, X[idx][0].Equal(split.XTrain[i][0]))
	}
}

func TestStratifiedSplit_Deterministic(t *testing.T) {
	X, y := labelled(map[int]int{0: 30, 1: 25, 2: 40, 3: 12, 4: 9})

	first, err := NewTrainTestSplitter(0.2, 42, true).StratifiedSplit(X, y)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		again, err := NewTrainTestSplitter(0.2, 42, true).StratifiedSplit(X, y)
		require.NoError(t, err)
		assert.Equal(t, first.TrainIndices, again.TrainIndices)
		assert.Equal(t, first.TestIndices, again.TestIndices)
	}

	other, err := NewTrainTestSplitter(0.2, 43, true).StratifiedSplit(X, y)
	require.NoError(t, err)
	assert.NotEqual(t, first.TestIndices, other.TestIndices)
}

func TestStratifiedSplit_CopiesRows(t *testing.T) {
	X, y := labelled(map[int]int{0: 5, 1: 5})

	split, err := NewTrainTestSplitter(0.2, 42, false).StratifiedSplit(X, y)
	require.NoError(t, err)

	split.XTrain[0][0] = decimal.NewFromInt(-1)
	for _, row := range X {
		assert.False(t, row[0].Equal(decimal.NewFromInt(-1)))
	}
}

func TestStratifiedSplit_Errors(t *testing.T) {
	splitter := NewTrainTestSplitter(0.2, 42, true)

	_, err := splitter.StratifiedSplit(nil, nil)
	require.Error(t, err)

	_, err = splitter.StratifiedSplit([][]decimal.Decimal{{decimal.Zero}}, []int{0, 1})
	require.Error(t, err)

	_, err = NewTrainTestSplitter(1.5, 42, true).StratifiedSplit([][]decimal.Decimal{{decimal.Zero}}, []int{0})
	require.Error(t, err)
}
