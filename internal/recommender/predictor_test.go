package recommender

import (
	"testing"

	"croprec/internal/features"
	"croprec/internal/models"
	"croprec/internal/preprocessing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fixedModel returns the same probability row for every sample.
type fixedModel struct {
	models.BaseModel
	row []decimal.Decimal
}

func (m *fixedModel) Fit([][]decimal.Decimal, []int) error { return nil }

func (m *fixedModel) Predict(X [][]decimal.Decimal) ([]int, error) {
	out := make([]int, len(X))
	for i := range out {
		out[i] = m.Classes[models.ArgMax(m.row)]
	}
	return out, nil
}

func (m *fixedModel) PredictProba(X [][]decimal.Decimal) ([][]decimal.Decimal, error) {
	out := make([][]decimal.Decimal, len(X))
	for i := range out {
		out[i] = m.row
	}
	return out, nil
}

func fixedPredictor(t *testing.T, labels []string, probs ...string) *Predictor {
	t.Helper()

	encoder := preprocessing.NewLabelEncoder()
	encoder.Fit(labels)

	scaler := preprocessing.NewScaler(preprocessing.ScaleNone)
	require.NoError(t, scaler.Fit([][]decimal.Decimal{features.Vector{}.Slice()}))

	row := make([]decimal.Decimal, len(probs))
	classes := make([]int, len(probs))
	for i, p := range probs {
		row[i] = decimal.RequireFromString(p)
		classes[i] = i
	}

	model := &fixedModel{BaseModel: models.BaseModel{Name: "fixed", Classes: classes}, row: row}
	return NewPredictor(&Artifacts{Encoder: encoder, Scaler: scaler, Model: model}, 4)
}

func TestRank_TiesBrokenByLabel(t *testing.T) {
	p := fixedPredictor(t, []string{"a", "b", "c", "d", "e"}, "0.2", "0.3", "0.3", "0", "0.2")

	r, err := p.TopCrops([]features.Vector{{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a", "e"}, r.Labels())
	assert.Equal(t, 0.3, r[0].Probability)
	assert.Equal(t, 0.2, r[3].Probability)
}

func TestRank_TruncatesToTopN(t *testing.T) {
	p := fixedPredictor(t, []string{"a", "b", "c", "d", "e", "f"}, "0.05", "0.1", "0.15", "0.2", "0.25", "0.25")

	r, err := p.TopCrops([]features.Vector{{}})
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "f", "d", "c"}, r.Labels())
}

func TestRank_DropsZeroProbabilities(t *testing.T) {
	p := fixedPredictor(t, []string{"a", "b", "c"}, "0", "1", "0")

	r, err := p.TopCrops([]features.Vector{{}})
	require.NoError(t, err)
	require.Len(t, r, 1)
	assert.Equal(t, Prediction{Label: "b", Probability: 1}, r[0])
}

func TestRank_ProbabilityCountMismatch(t *testing.T) {
	p := fixedPredictor(t, []string{"a", "b"}, "0.5", "0.5")
	p.artifacts.Model.(*fixedModel).row = []decimal.Decimal{decimal.NewFromInt(1)}

	_, err := p.TopCrops([]features.Vector{{}})
	require.Error(t, err)
}

func TestNewPredictor_DefaultTopN(t *testing.T) {
	p := NewPredictor(&Artifacts{}, 0)
	assert.Equal(t, 4, p.topN)
}
