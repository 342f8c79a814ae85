package recommender

import (
	"context"
	"fmt"
	"time"

	"croprec/internal/data"
	"croprec/internal/evaluation"
	"croprec/internal/features"
	"croprec/internal/models"
	"croprec/internal/preprocessing"

	"github.com/shopspring/decimal"
)

// holdoutBatchSize bounds how many held-out rows are scored per Predict call.
const holdoutBatchSize = 128

// Artifacts is everything a prediction needs. It is built once by Train and
// never mutated afterwards.
type Artifacts struct {
	Encoder *preprocessing.LabelEncoder
	Scaler  *preprocessing.Scaler
	Model   models.Model
	Report  *TrainingReport

	xTrain [][]decimal.Decimal
	yTrain []int
}

// TrainingSet returns the scaled training partition and its class codes.
func (a *Artifacts) TrainingSet() ([][]decimal.Decimal, []int) {
	return a.xTrain, a.yTrain
}

// FeatureReport describes the scaler state learned for one feature.
type FeatureReport struct {
	Name string  `json:"name" yaml:"name"`
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

type TrainingReport struct {
	Dataset    string                            `json:"dataset" yaml:"dataset"`
	Samples    int                               `json:"samples" yaml:"samples"`
	Classes    []string                          `json:"classes" yaml:"classes"`
	Support    map[string]int                    `json:"support" yaml:"support"`
	TrainSize  int                               `json:"trainSize" yaml:"train_size"`
	TestSize   int                               `json:"testSize" yaml:"test_size"`
	Seed       int64                             `json:"seed" yaml:"seed"`
	Model      map[string]any                    `json:"model" yaml:"model"`
	Scaling    string                            `json:"scaling" yaml:"scaling"`
	Features   []FeatureReport                   `json:"features" yaml:"features"`
	Holdout    *evaluation.ClassificationMetrics `json:"holdout,omitempty" yaml:"holdout,omitempty"`
	DurationMs int64                             `json:"durationMs" yaml:"duration_ms"`
}

// Train loads the dataset named in opts and fits the artifacts.
func Train(ctx context.Context, opts Options) (*Artifacts, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid training options: %w", err)
	}

	ds, err := data.LoadDataset(opts.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to load dataset: %w", err)
	}

	return Fit(ctx, ds, opts)
}

// Fit trains on an already loaded dataset.
func Fit(ctx context.Context, ds *data.Dataset, opts Options) (*Artifacts, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid training options: %w", err)
	}

	log := opts.logger()
	start := time.Now()

	encoder := preprocessing.NewLabelEncoder()
	y, err := encoder.FitTransform(ds.Labels)
	if err != nil {
		return nil, fmt.Errorf("failed to encode labels: %w", err)
	}

	validator := data.NewValidator(features.Count)
	if err := validator.Dataset(ds.X, y); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	if _, err := validator.Labels(y); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}

	log.Info("dataset loaded",
		"source", ds.Source,
		"samples", ds.Len(),
		"classes", encoder.NumClasses())

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	split, err := evaluation.NewTrainTestSplitter(opts.TestSize, opts.Seed, true).StratifiedSplit(ds.X, y)
	if err != nil {
		return nil, fmt.Errorf("failed to split dataset: %w", err)
	}
	if err := validator.Partitions(split.XTrain, split.XTest, split.YTrain, split.YTest); err != nil {
		return nil, err
	}

	log.Debug("dataset split",
		"train", len(split.YTrain),
		"test", len(split.YTest),
		"seed", opts.Seed)

	scaler := preprocessing.NewScaler(opts.Scaling)
	xTrain, err := scaler.FitTransform(split.XTrain)
	if err != nil {
		return nil, fmt.Errorf("failed to fit scaler: %w", err)
	}

	model, err := models.CreateModel(opts.modelConfig())
	if err != nil {
		return nil, err
	}
	if err := model.Fit(xTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("failed to fit model: %w", err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report := &TrainingReport{
		Dataset:   ds.Source,
		Samples:   ds.Len(),
		Classes:   encoder.Classes(),
		Support:   data.ClassDistribution(ds),
		TrainSize: len(split.YTrain),
		TestSize:  len(split.YTest),
		Seed:      opts.Seed,
		Model:     model.GetParams(),
		Scaling:   scaler.ScaleType,
	}

	names := features.Names()
	for j, p := range scaler.Params() {
		report.Features = append(report.Features, FeatureReport{
			Name: names[j],
			Mean: p.Mean,
			Std:  p.Std,
			Min:  p.Min,
			Max:  p.Max,
		})
	}

	if len(split.YTest) > 0 {
		holdout, err := scoreHoldout(ctx, scaler, model, split, encoder.NumClasses())
		if err != nil {
			return nil, fmt.Errorf("failed to score held-out partition: %w", err)
		}
		report.Holdout = holdout
	}
	report.DurationMs = time.Since(start).Milliseconds()

	attrs := []any{
		"train", report.TrainSize,
		"test", report.TestSize,
		"k", opts.K,
		"distance", opts.Distance,
		"duration_ms", report.DurationMs,
	}
	if report.Holdout != nil {
		attrs = append(attrs, "holdout_accuracy", report.Holdout.Accuracy)
		trainingAccuracy.Set(report.Holdout.Accuracy)
	}
	log.Info("model trained", attrs...)
	trainingSamples.Set(float64(report.TrainSize))

	return &Artifacts{
		Encoder: encoder,
		Scaler:  scaler,
		Model:   model,
		Report:  report,
		xTrain:  xTrain,
		yTrain:  split.YTrain,
	}, nil
}

func scoreHoldout(ctx context.Context, scaler *preprocessing.Scaler, model models.Model, split *evaluation.Split, numClasses int) (*evaluation.ClassificationMetrics, error) {
	xTest, err := scaler.Transform(split.XTest)
	if err != nil {
		return nil, err
	}

	predictions := make([]int, len(xTest))
	err = data.NewBatchProcessor(holdoutBatchSize).Process(ctx, xTest, func(start int, batch [][]decimal.Decimal) error {
		pred, err := model.Predict(batch)
		if err != nil {
			return err
		}
		copy(predictions[start:], pred)
		return nil
	})
	if err != nil {
		return nil, err
	}

	classes := make([]int, numClasses)
	for i := range classes {
		classes[i] = i
	}
	return evaluation.CalculateMetrics(split.YTest, predictions, classes)
}
