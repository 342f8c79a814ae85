package recommender

import (
	"fmt"
	"sort"
	"time"

	"croprec/internal/defaults"
	cerrors "croprec/internal/errors"
	"croprec/internal/features"

	"github.com/shopspring/decimal"
)

// Predictor ranks crops for feature vectors using fitted artifacts. It holds
// no mutable state.
type Predictor struct {
	artifacts *Artifacts
	topN      int
}

// NewPredictor returns a predictor over a. A non-positive topN means the
// default of 4.
func NewPredictor(a *Artifacts, topN int) *Predictor {
	if topN <= 0 {
		topN = defaults.TopN
	}
	return &Predictor{artifacts: a, topN: topN}
}

// Classes returns every label the model was trained on, in code order.
func (p *Predictor) Classes() []string {
	return p.artifacts.Encoder.Classes()
}

// Report returns the training report of the underlying artifacts.
func (p *Predictor) Report() *TrainingReport {
	return p.artifacts.Report
}

// TopCrops ranks the crops for the first vector. At most topN entries are
// returned, highest probability first; equal probabilities are ordered by
// label, and crops with zero probability are left out.
func (p *Predictor) TopCrops(vectors []features.Vector) (Ranking, error) {
	if len(vectors) == 0 {
		return nil, cerrors.NewWithContext(cerrors.ErrCodeInvalidRequest,
			"at least one feature vector is required",
			map[string]any{"got": 0})
	}

	start := time.Now()
	defer func() {
		predictionDuration.Observe(time.Since(start).Seconds())
	}()

	scaled, err := p.artifacts.Scaler.TransformRow(vectors[0].Slice())
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to scale features", err)
	}

	proba, err := p.artifacts.Model.PredictProba([][]decimal.Decimal{scaled})
	if err != nil {
		return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to compute class probabilities", err)
	}
	if len(proba) != 1 {
		return nil, cerrors.New(cerrors.ErrCodeInternal,
			fmt.Sprintf("classifier returned %d probability rows for 1 sample", len(proba)))
	}

	ranking, err := p.rank(proba[0])
	if err != nil {
		return nil, err
	}

	if len(ranking) > 0 {
		predictionsTotal.WithLabelValues(ranking[0].Label).Inc()
	}
	return ranking, nil
}

func (p *Predictor) rank(row []decimal.Decimal) (Ranking, error) {
	classes := p.artifacts.Model.GetClasses()
	if len(classes) != len(row) {
		return nil, cerrors.New(cerrors.ErrCodeInternal,
			fmt.Sprintf("classifier returned %d probabilities for %d classes", len(row), len(classes)))
	}

	order := make([]int, len(row))
	for i := range order {
		order[i] = i
	}
	// classes are in ascending code order, so a stable sort keeps ties
	// ordered by code
	sort.SliceStable(order, func(a, b int) bool {
		return row[order[a]].GreaterThan(row[order[b]])
	})

	if len(order) > p.topN {
		order = order[:p.topN]
	}

	ranking := make(Ranking, 0, len(order))
	for _, idx := range order {
		if !row[idx].IsPositive() {
			continue
		}
		labels, err := p.artifacts.Encoder.InverseTransform([]int{classes[idx]})
		if err != nil {
			return nil, cerrors.Wrap(cerrors.ErrCodeInternal, "failed to decode class", err)
		}
		ranking = append(ranking, Prediction{
			Label:       labels[0],
			Probability: row[idx].InexactFloat64(),
		})
	}
	return ranking, nil
}
