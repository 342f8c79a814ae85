package recommender

import (
	"fmt"
	"log/slog"

	"croprec/internal/config"
	"croprec/internal/defaults"
	"croprec/internal/models"
	"croprec/internal/preprocessing"
)

// Options controls a training run.
type Options struct {
	Dataset  string
	K        int
	Distance string
	Scaling  string
	TestSize float64
	Seed     int64
	TopN     int
	Logger   *slog.Logger
}

// DefaultOptions mirrors the reference service: k=8, euclidean distance,
// standard scaling, 80/20 split seeded with 42, top 4.
func DefaultOptions() Options {
	return Options{
		Dataset:  defaults.DatasetPath,
		K:        defaults.Neighbors,
		Distance: defaults.Distance,
		Scaling:  defaults.Scaling,
		TestSize: defaults.TestSize,
		Seed:     defaults.Seed,
		TopN:     defaults.TopN,
	}
}

// OptionsFromConfig maps the model section of cfg onto training options.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		Dataset:  cfg.Dataset,
		K:        cfg.Model.K,
		Distance: cfg.Model.Distance,
		Scaling:  cfg.Model.Scaling,
		TestSize: cfg.Model.TestSize,
		Seed:     cfg.Model.Seed,
		TopN:     cfg.Model.TopN,
	}
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) modelConfig() models.ModelConfig {
	return models.ModelConfig{
		K:        o.K,
		Distance: o.Distance,
		Weights:  models.WeightsDistance,
	}
}

func (o Options) validate() error {
	if o.K <= 0 {
		return fmt.Errorf("k must be positive, got %d", o.K)
	}
	if o.TestSize <= 0 || o.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1, got %v", o.TestSize)
	}
	if o.TopN <= 0 {
		return fmt.Errorf("top_n must be positive, got %d", o.TopN)
	}
	switch preprocessing.NewScaler(o.Scaling).ScaleType {
	case preprocessing.ScaleStandard, preprocessing.ScaleMinMax, preprocessing.ScaleNone:
	default:
		return fmt.Errorf("unknown scaling: %s", o.Scaling)
	}
	if _, err := models.CreateModel(o.modelConfig()); err != nil {
		return err
	}
	return nil
}
