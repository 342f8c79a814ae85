// Package experiment sweeps KNN hyperparameters with stratified cross
// validation on an already scaled training partition.
package experiment

import (
	"context"
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"croprec/internal/evaluation"
	"croprec/internal/models"

	"github.com/shopspring/decimal"
)

type ExperimentConfig struct {
	K         []int
	Distances []string
	Folds     int
	Workers   int
	Seed      int64
}

type ExperimentRunner struct {
	Config ExperimentConfig
	Logger *slog.Logger
}

func NewRunner(config ExperimentConfig, logger *slog.Logger) *ExperimentRunner {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExperimentRunner{Config: config, Logger: logger}
}

type ExperimentResult struct {
	K              int       `json:"k" yaml:"k"`
	Distance       string    `json:"distance" yaml:"distance"`
	CVMean         float64   `json:"cvMean" yaml:"cv_mean"`
	CVStd          float64   `json:"cvStd" yaml:"cv_std"`
	Scores         []float64 `json:"scores" yaml:"scores"`
	TrainingTimeMs int64     `json:"trainingTimeMs" yaml:"training_time_ms"`
}

// Run cross-validates every k and distance combination and returns the
// results best first: highest mean accuracy, then lowest spread, then
// smallest k.
func (r *ExperimentRunner) Run(ctx context.Context, X [][]decimal.Decimal, y []int) ([]ExperimentResult, error) {
	if len(r.Config.K) == 0 || len(r.Config.Distances) == 0 {
		return nil, fmt.Errorf("at least one k and one distance are required")
	}

	cv := evaluation.NewCrossValidator(r.Config.Folds, r.Config.Seed)
	if r.Config.Workers > 0 {
		cv.MaxWorkers = r.Config.Workers
	}

	results := make([]ExperimentResult, 0, len(r.Config.K)*len(r.Config.Distances))
	for _, dist := range r.Config.Distances {
		for _, k := range r.Config.K {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			result, err := r.evaluateModel(ctx, cv, X, y, k, dist)
			if err != nil {
				return nil, fmt.Errorf("k=%d distance=%s: %w", k, dist, err)
			}
			r.Logger.Debug("candidate evaluated",
				"k", k,
				"distance", dist,
				"cv_mean", result.CVMean,
				"cv_std", result.CVStd)
			results = append(results, result)
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.CVMean != b.CVMean {
			return a.CVMean > b.CVMean
		}
		if a.CVStd != b.CVStd {
			return a.CVStd < b.CVStd
		}
		return a.K < b.K
	})

	return results, nil
}

func (r *ExperimentRunner) evaluateModel(
	ctx context.Context,
	cv *evaluation.CrossValidator,
	X [][]decimal.Decimal,
	y []int,
	k int,
	distance string,
) (ExperimentResult, error) {
	newModel, err := models.Factory(models.ModelConfig{K: k, Distance: distance, Weights: models.WeightsDistance})
	if err != nil {
		return ExperimentResult{}, err
	}

	startTime := time.Now()
	scores, err := cv.CrossValidate(ctx, X, y, newModel)
	if err != nil {
		return ExperimentResult{}, err
	}

	return ExperimentResult{
		K:              k,
		Distance:       distance,
		CVMean:         scores.Mean,
		CVStd:          scores.Std,
		Scores:         scores.Scores,
		TrainingTimeMs: time.Since(startTime).Milliseconds(),
	}, nil
}

func (r *ExperimentRunner) ExportResults(results []ExperimentResult, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)

	if err := writer.Write([]string{"K", "Distance", "CVMean", "CVStd", "TrainingTimeMs"}); err != nil {
		return err
	}

	for _, result := range results {
		err := writer.Write([]string{
			strconv.Itoa(result.K),
			result.Distance,
			fmt.Sprintf("%.4f", result.CVMean),
			fmt.Sprintf("%.4f", result.CVStd),
			strconv.FormatInt(result.TrainingTimeMs, 10),
		})
		if err != nil {
			return err
		}
	}

	writer.Flush()
	return writer.Error()
}
