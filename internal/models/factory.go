package models

import (
	"fmt"
)

type ModelConfig struct {
	K        int
	Distance string
	Weights  string
}

// CreateModel builds an unfitted KNN. Unlike NewKNN it rejects values it
// does not understand instead of falling back.
func CreateModel(config ModelConfig) (Model, error) {
	if config.K <= 0 {
		return nil, fmt.Errorf("k must be positive, got %d", config.K)
	}

	switch config.Distance {
	case "", DistanceEuclidean:
		config.Distance = DistanceEuclidean
	case DistanceManhattan:
	default:
		return nil, fmt.Errorf("unknown distance: %s", config.Distance)
	}

	switch config.Weights {
	case "", WeightsDistance:
		config.Weights = WeightsDistance
	case WeightsUniform:
	default:
		return nil, fmt.Errorf("unknown weights: %s", config.Weights)
	}

	return NewKNN(config.K, config.Distance, config.Weights), nil
}

// Factory returns a constructor producing fresh, unfitted models for config.
func Factory(config ModelConfig) (func() Model, error) {
	if _, err := CreateModel(config); err != nil {
		return nil, err
	}
	return func() Model {
		m, _ := CreateModel(config)
		return m
	}, nil
}

func DefaultConfig() ModelConfig {
	return ModelConfig{
		K:        8,
		Distance: DistanceEuclidean,
		Weights:  WeightsDistance,
	}
}
