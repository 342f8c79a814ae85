package preprocessing

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

const (
	ScaleStandard = "standard"
	ScaleMinMax   = "minmax"
	ScaleNone     = "none"
)

// Scaler is a per-feature transform fitted on the training partition and
// then applied unchanged to every other input.
type Scaler struct {
	ScaleType   string
	IsFitted    bool
	FeatureMin  []decimal.Decimal
	FeatureMax  []decimal.Decimal
	FeatureMean []decimal.Decimal
	FeatureStd  []decimal.Decimal
}

// NewScaler accepts the scale names and their long forms. An empty name
// means standard scaling.
func NewScaler(scaleType string) *Scaler {
	switch scaleType {
	case "standardized", "":
		scaleType = ScaleStandard
	case "normalized":
		scaleType = ScaleMinMax
	case "raw":
		scaleType = ScaleNone
	}
	return &Scaler{
		ScaleType: scaleType,
	}
}

func (s *Scaler) Fit(X [][]decimal.Decimal) error {
	if len(X) == 0 {
		return fmt.Errorf("empty dataset")
	}

	nFeatures := len(X[0])
	for i, row := range X {
		if len(row) != nFeatures {
			return fmt.Errorf("inconsistent feature count at sample %d: expected %d, got %d", i, nFeatures, len(row))
		}
	}

	s.FeatureMin = make([]decimal.Decimal, nFeatures)
	s.FeatureMax = make([]decimal.Decimal, nFeatures)
	s.FeatureMean = make([]decimal.Decimal, nFeatures)
	s.FeatureStd = make([]decimal.Decimal, nFeatures)

	switch s.ScaleType {
	case ScaleMinMax, ScaleNone:
	case ScaleStandard:
		s.fitStandard(X)
	default:
		return fmt.Errorf("unknown scale type: %s", s.ScaleType)
	}
	// ranges are kept for every scale type so reports can show them
	s.fitMinMax(X)

	s.IsFitted = true
	return nil
}

func (s *Scaler) Transform(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	result := make([][]decimal.Decimal, len(X))
	for i := range X {
		row, err := s.TransformRow(X[i])
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		result[i] = row
	}
	return result, nil
}

// TransformRow scales a single sample.
func (s *Scaler) TransformRow(x []decimal.Decimal) ([]decimal.Decimal, error) {
	if !s.IsFitted {
		return nil, fmt.Errorf("scaler must be fitted before transform")
	}
	if len(x) != s.NumFeatures() {
		return nil, fmt.Errorf("expected %d features, got %d", s.NumFeatures(), len(x))
	}

	out := make([]decimal.Decimal, len(x))
	for j := range x {
		switch s.ScaleType {
		case ScaleMinMax:
			out[j] = s.transformMinMax(x[j], j)
		case ScaleStandard:
			out[j] = s.transformStandard(x[j], j)
		default:
			out[j] = x[j]
		}
	}
	return out, nil
}

func (s *Scaler) FitTransform(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X)
}

func (s *Scaler) NumFeatures() int {
	return len(s.FeatureMean)
}

func (s *Scaler) fitMinMax(X [][]decimal.Decimal) {
	nFeatures := len(X[0])

	for j := 0; j < nFeatures; j++ {
		s.FeatureMin[j] = X[0][j]
		s.FeatureMax[j] = X[0][j]

		for i := 1; i < len(X); i++ {
			if X[i][j].LessThan(s.FeatureMin[j]) {
				s.FeatureMin[j] = X[i][j]
			}
			if X[i][j].GreaterThan(s.FeatureMax[j]) {
				s.FeatureMax[j] = X[i][j]
			}
		}
	}
}

// fitStandard uses the population standard deviation. A constant feature
// gets std 1 so it transforms to zero instead of dividing by zero.
func (s *Scaler) fitStandard(X [][]decimal.Decimal) {
	nFeatures := len(X[0])
	nSamples := decimal.NewFromInt(int64(len(X)))

	for j := 0; j < nFeatures; j++ {
		sum := decimal.Zero
		for i := 0; i < len(X); i++ {
			sum = sum.Add(X[i][j])
		}
		s.FeatureMean[j] = sum.Div(nSamples)
	}

	for j := 0; j < nFeatures; j++ {
		variance := decimal.Zero
		for i := 0; i < len(X); i++ {
			diff := X[i][j].Sub(s.FeatureMean[j])
			variance = variance.Add(diff.Mul(diff))
		}
		variance = variance.Div(nSamples)

		stdFloat := math.Sqrt(variance.InexactFloat64())
		s.FeatureStd[j] = decimal.NewFromFloat(stdFloat)

		if s.FeatureStd[j].IsZero() {
			s.FeatureStd[j] = decimal.NewFromInt(1)
		}
	}
}

func (s *Scaler) transformMinMax(value decimal.Decimal, featureIndex int) decimal.Decimal {
	span := s.FeatureMax[featureIndex].Sub(s.FeatureMin[featureIndex])
	if span.IsZero() {
		return decimal.Zero
	}
	return value.Sub(s.FeatureMin[featureIndex]).Div(span)
}

func (s *Scaler) transformStandard(value decimal.Decimal, featureIndex int) decimal.Decimal {
	return value.Sub(s.FeatureMean[featureIndex]).Div(s.FeatureStd[featureIndex])
}

// FeatureParams is the fitted state of one feature, for reports.
type FeatureParams struct {
	Mean float64 `json:"mean" yaml:"mean"`
	Std  float64 `json:"std" yaml:"std"`
	Min  float64 `json:"min" yaml:"min"`
	Max  float64 `json:"max" yaml:"max"`
}

func (s *Scaler) Params() []FeatureParams {
	out := make([]FeatureParams, s.NumFeatures())
	for j := range out {
		out[j] = FeatureParams{
			Mean: s.FeatureMean[j].InexactFloat64(),
			Std:  s.FeatureStd[j].InexactFloat64(),
			Min:  s.FeatureMin[j].InexactFloat64(),
			Max:  s.FeatureMax[j].InexactFloat64(),
		}
	}
	return out
}
