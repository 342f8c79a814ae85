package recommender

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	predictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "croprec_predictions_total",
			Help: "Total number of rankings served, by top-ranked crop",
		},
		[]string{"crop"},
	)

	predictionDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "croprec_prediction_duration_seconds",
			Help:    "Time spent scaling, classifying and ranking a query",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25},
		},
	)

	trainingSamples = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "croprec_training_samples",
			Help: "Number of rows in the training partition of the fitted model",
		},
	)

	trainingAccuracy = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "croprec_training_holdout_accuracy",
			Help: "Accuracy of the fitted model on the held-out partition",
		},
	)
)
