package evaluation

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/shopspring/decimal"
)

type TrainTestSplitter struct {
	testSize   float64
	randomSeed int64
	shuffle    bool
}

func NewTrainTestSplitter(testSize float64, randomSeed int64, shuffle bool) *TrainTestSplitter {
	return &TrainTestSplitter{
		testSize:   testSize,
		randomSeed: randomSeed,
		shuffle:    shuffle,
	}
}

// Split holds the partitioned rows together with the source row indices
// each partition was drawn from.
type Split struct {
	XTrain       [][]decimal.Decimal
	XTest        [][]decimal.Decimal
	YTrain       []int
	YTest        []int
	TrainIndices []int
	TestIndices  []int
}

// TestCount is the number of rows of a class with n members that go to the
// test partition: floor(n*testSize), at least one when the class has two or
// more rows and none when it has a single row.
func TestCount(n int, testSize float64) int {
	if n < 2 {
		return 0
	}
	count := int(math.Floor(float64(n)*testSize + 1e-9))
	if count == 0 {
		count = 1
	}
	if count >= n {
		count = n - 1
	}
	return count
}

// StratifiedIndices assigns every row to train or test so that each class is
// split in proportion. Classes are visited in ascending code order, which
// together with the seed makes the result reproducible.
func (tts *TrainTestSplitter) StratifiedIndices(y []int) ([]int, []int, error) {
	if len(y) == 0 {
		return nil, nil, fmt.Errorf("cannot split empty dataset")
	}
	if tts.testSize <= 0 || tts.testSize >= 1 {
		return nil, nil, fmt.Errorf("test size must be between 0 and 1, got %v", tts.testSize)
	}

	classIndices := make(map[int][]int)
	for i, label := range y {
		classIndices[label] = append(classIndices[label], i)
	}

	classes := make([]int, 0, len(classIndices))
	for class := range classIndices {
		classes = append(classes, class)
	}
	sort.Ints(classes)

	var trainIndices, testIndices []int

	rng := rand.New(rand.NewSource(tts.randomSeed))
	for _, class := range classes {
		indices := classIndices[class]
		if tts.shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}

		testCount := TestCount(len(indices), tts.testSize)
		trainCount := len(indices) - testCount

		trainIndices = append(trainIndices, indices[:trainCount]...)
		testIndices = append(testIndices, indices[trainCount:]...)
	}

	if tts.shuffle {
		rng.Shuffle(len(trainIndices), func(i, j int) {
			trainIndices[i], trainIndices[j] = trainIndices[j], trainIndices[i]
		})
		rng.Shuffle(len(testIndices), func(i, j int) {
			testIndices[i], testIndices[j] = testIndices[j], testIndices[i]
		})
	}

	return trainIndices, testIndices, nil
}

func (tts *TrainTestSplitter) StratifiedSplit(X [][]decimal.Decimal, y []int) (*Split, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("x and y must have the same length: %d vs %d", len(X), len(y))
	}

	trainIndices, testIndices, err := tts.StratifiedIndices(y)
	if err != nil {
		return nil, err
	}

	split := &Split{
		TrainIndices: trainIndices,
		TestIndices:  testIndices,
	}
	split.XTrain, split.YTrain = take(X, y, trainIndices)
	split.XTest, split.YTest = take(X, y, testIndices)
	return split, nil
}

func take(X [][]decimal.Decimal, y []int, indices []int) ([][]decimal.Decimal, []int) {
	XOut := make([][]decimal.Decimal, len(indices))
	yOut := make([]int, len(indices))
	for i, idx := range indices {
		XOut[i] = make([]decimal.Decimal, len(X[idx]))
		copy(XOut[i], X[idx])
		yOut[i] = y[idx]
	}
	return XOut, yOut
}
