package evaluation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"

	"croprec/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

type CrossValidator struct {
	NFolds     int
	Shuffle    bool
	RandomSeed int64
	MaxWorkers int
}

func NewCrossValidator(nFolds int, randomSeed int64) *CrossValidator {
	return &CrossValidator{
		NFolds:     nFolds,
		Shuffle:    true,
		RandomSeed: randomSeed,
		MaxWorkers: 4,
	}
}

type CVResult struct {
	Scores []float64 `json:"scores" yaml:"scores"`
	Mean   float64   `json:"mean" yaml:"mean"`
	Std    float64   `json:"std" yaml:"std"`
}

// CrossValidate scores a fresh model per fold on accuracy. Folds run
// concurrently, at most MaxWorkers at a time; the first failing fold
// cancels the rest.
func (cv *CrossValidator) CrossValidate(
	ctx context.Context,
	X [][]decimal.Decimal,
	y []int,
	newModel func() models.Model,
) (*CVResult, error) {
	if len(X) != len(y) {
		return nil, fmt.Errorf("x and y must have the same length: %d vs %d", len(X), len(y))
	}

	folds, err := cv.StratifiedFolds(y)
	if err != nil {
		return nil, err
	}

	scores := make([]float64, len(folds))

	g, gctx := errgroup.WithContext(ctx)
	if cv.MaxWorkers > 0 {
		g.SetLimit(cv.MaxWorkers)
	}

	for i, testIndices := range folds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			score, err := cv.evaluateFold(X, y, newModel(), testIndices)
			if err != nil {
				return fmt.Errorf("fold %d failed: %w", i, err)
			}
			scores[i] = score
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	mean, std := calculateStats(scores)
	return &CVResult{Scores: scores, Mean: mean, Std: std}, nil
}

func (cv *CrossValidator) evaluateFold(
	X [][]decimal.Decimal,
	y []int,
	model models.Model,
	testIndices []int,
) (float64, error) {
	testSet := make(map[int]bool, len(testIndices))
	for _, idx := range testIndices {
		testSet[idx] = true
	}

	trainIndices := make([]int, 0, len(X)-len(testIndices))
	for i := 0; i < len(X); i++ {
		if !testSet[i] {
			trainIndices = append(trainIndices, i)
		}
	}

	XTrain, yTrain := take(X, y, trainIndices)
	XTest, yTest := take(X, y, testIndices)

	if err := model.Fit(XTrain, yTrain); err != nil {
		return 0, err
	}

	predictions, err := model.Predict(XTest)
	if err != nil {
		return 0, err
	}

	correct := 0
	for i, pred := range predictions {
		if pred == yTest[i] {
			correct++
		}
	}

	return float64(correct) / float64(len(yTest)), nil
}

// calculateStats returns the mean and population standard deviation.
func calculateStats(scores []float64) (mean, std float64) {
	if len(scores) == 0 {
		return 0, 0
	}

	sum := 0.0
	for _, s := range scores {
		sum += s
	}
	mean = sum / float64(len(scores))

	variance := 0.0
	for _, s := range scores {
		diff := s - mean
		variance += diff * diff
	}
	std = math.Sqrt(variance / float64(len(scores)))

	return mean, std
}

// StratifiedFolds returns the test indices of each fold. Every class is
// shuffled with the seed and dealt round robin across the folds, continuing
// from where the previous class stopped so fold sizes stay balanced.
func (cv *CrossValidator) StratifiedFolds(y []int) ([][]int, error) {
	n := len(y)
	if cv.NFolds < 2 || cv.NFolds > n {
		return nil, fmt.Errorf("invalid number of folds: %d (must be between 2 and %d)", cv.NFolds, n)
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

	rng := rand.New(rand.NewSource(cv.RandomSeed))
	folds := make([][]int, cv.NFolds)
	next := 0
	for _, class := range classes {
		indices := classIndices[class]
		if cv.Shuffle {
			rng.Shuffle(len(indices), func(i, j int) {
				indices[i], indices[j] = indices[j], indices[i]
			})
		}
		for _, idx := range indices {
			folds[next] = append(folds[next], idx)
			next = (next + 1) % cv.NFolds
		}
	}

	for _, fold := range folds {
		sort.Ints(fold)
	}

	return folds, nil
}
