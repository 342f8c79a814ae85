package recommender

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"

	"croprec/internal/data"
	"croprec/internal/data/datatest"
	cerrors "croprec/internal/errors"
	"croprec/internal/features"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions(path string) Options {
	opts := DefaultOptions()
	opts.Dataset = path
	opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	return opts
}

func trainFixture(t *testing.T) *Artifacts {
	t.Helper()
	a, err := Train(context.Background(), testOptions(datatest.WriteFixture(t)))
	require.NoError(t, err)
	return a
}

func vector(t *testing.T, values ...float64) features.Vector {
	t.Helper()
	v, err := features.FromFloats(values...)
	require.NoError(t, err)
	return v
}

func assertWellFormed(t *testing.T, r Ranking, classes []string) {
	t.Helper()
	require.NotEmpty(t, r)
	assert.LessOrEqual(t, len(r), 4)
	for i, p := range r {
		assert.Greater(t, p.Probability, 0.0, "entry %d", i)
		assert.LessOrEqual(t, p.Probability, 1.0, "entry %d", i)
		assert.Contains(t, classes, p.Label)
		if i > 0 {
			assert.LessOrEqual(t, p.Probability, r[i-1].Probability, "entry %d out of order", i)
		}
	}
}

func TestTrain_Report(t *testing.T) {
	a := trainFixture(t)
	report := a.Report

	assert.Equal(t, 60, report.Samples)
	assert.Equal(t, datatest.Labels(), report.Classes)
	assert.Equal(t, 48, report.TrainSize)
	assert.Equal(t, 12, report.TestSize)
	assert.Equal(t, int64(42), report.Seed)
	assert.Equal(t, "standard", report.Scaling)
	assert.Equal(t, 8, report.Model["k"])
	assert.Equal(t, "euclidean", report.Model["distance"])

	require.Len(t, report.Features, features.Count)
	assert.Equal(t, features.Names(), []string{
		report.Features[0].Name, report.Features[1].Name, report.Features[2].Name,
		report.Features[3].Name, report.Features[4].Name, report.Features[5].Name,
		report.Features[6].Name,
	})
	for _, f := range report.Features {
		assert.Greater(t, f.Std, 0.0, f.Name)
	}

	require.NotNil(t, report.Holdout)
	assert.Equal(t, 12, report.Holdout.NumSamples)
	assert.GreaterOrEqual(t, report.Holdout.Accuracy, 0.9)

	xTrain, yTrain := a.TrainingSet()
	assert.Len(t, xTrain, 48)
	assert.Len(t, yTrain, 48)
}

func TestTrain_EmptyScalingStandardizes(t *testing.T) {
	opts := testOptions(datatest.WriteFixture(t))
	opts.Scaling = ""

	a, err := Train(context.Background(), opts)
	require.NoError(t, err)
	assert.Equal(t, "standard", a.Report.Scaling)
	for _, f := range a.Report.Features {
		assert.Greater(t, f.Std, 0.0, f.Name)
	}

	xTrain, _ := a.TrainingSet()
	var sum float64
	for _, row := range xTrain {
		sum += row[0].InexactFloat64()
	}
	assert.InDelta(t, 0, sum/float64(len(xTrain)), 1e-6)
}

func TestTrain_Deterministic(t *testing.T) {
	path := datatest.WriteFixture(t)

	first, err := Train(context.Background(), testOptions(path))
	require.NoError(t, err)
	second, err := Train(context.Background(), testOptions(path))
	require.NoError(t, err)

	assert.Equal(t, first.Report.Features, second.Report.Features)
	assert.Equal(t, first.Report.Holdout.Accuracy, second.Report.Holdout.Accuracy)

	x1, y1 := first.TrainingSet()
	x2, y2 := second.TrainingSet()
	assert.Equal(t, y1, y2)
	require.Len(t, x2, len(x1))
	for i := range x1 {
		for j := range x1[i] {
			assert.True(t, x1[i][j].Equal(x2[i][j]))
		}
	}
}

func TestTrain_Errors(t *testing.T) {
	ctx := context.Background()

	_, err := Train(ctx, testOptions(filepath.Join(t.TempDir(), "missing.csv")))
	require.Error(t, err)

	single := filepath.Join(t.TempDir(), "single.csv")
	datatest.WriteCSV(t, single, datatest.Header, []string{
		"1,2,3,4,5,6,7,rice",
		"1,2,3,4,5,6,8,rice",
	})
	_, err = Train(ctx, testOptions(single))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "at least 2 classes")

	bad := testOptions(datatest.WriteFixture(t))
	bad.K = 0
	_, err = Train(ctx, bad)
	require.Error(t, err)

	bad = testOptions(datatest.WriteFixture(t))
	bad.Distance = "cosine"
	_, err = Train(ctx, bad)
	require.Error(t, err)

	bad = testOptions(datatest.WriteFixture(t))
	bad.Scaling = "log"
	_, err = Train(ctx, bad)
	require.Error(t, err)
}

func TestTrain_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Train(ctx, testOptions(datatest.WriteFixture(t)))
	require.ErrorIs(t, err, context.Canceled)
}

func TestFit_RejectsWrongFeatureCount(t *testing.T) {
	ds := &data.Dataset{
		X: [][]decimal.Decimal{
			{decimal.NewFromInt(1), decimal.NewFromInt(2)},
			{decimal.NewFromInt(3), decimal.NewFromInt(4)},
		},
		Labels: []string{"x", "y"},
	}

	_, err := Fit(context.Background(), ds, testOptions(""))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected 7 features")
}

func TestTopCrops_ReferenceQuery(t *testing.T) {
	a := trainFixture(t)
	p := NewPredictor(a, 4)

	r, err := p.TopCrops([]features.Vector{vector(t, 20, 20, 10, 3, 20, 1, 100)})
	require.NoError(t, err)
	assertWellFormed(t, r, p.Classes())
}

func TestTopCrops_WellFormedAcrossQueries(t *testing.T) {
	a := trainFixture(t)
	p := NewPredictor(a, 4)

	queries := [][]float64{
		{90, 42, 43, 20.8, 82, 6.5, 202.9},
		{0, 0, 0, 0, 0, 0, 0},
		{140, 145, 205, 43, 99, 9.9, 298},
		{50, 80, 100, 20, 50, 6, 100},
	}
	for _, q := range queries {
		r, err := p.TopCrops([]features.Vector{vector(t, q...)})
		require.NoError(t, err)
		assertWellFormed(t, r, p.Classes())
	}
}

func TestTopCrops_SingleClassNeighborhood(t *testing.T) {
	a := trainFixture(t)
	p := NewPredictor(a, 4)

	center := datatest.Centers[5]
	require.Equal(t, "rice", center.Label)

	r, err := p.TopCrops([]features.Vector{vector(t, center.Values[:]...)})
	require.NoError(t, err)
	require.Len(t, r, 1)
	assert.Equal(t, "rice", r[0].Label)
	assert.Equal(t, 1.0, r[0].Probability)
}

func TestTopCrops_Repeatable(t *testing.T) {
	p := NewPredictor(trainFixture(t), 4)
	v := []features.Vector{vector(t, 60, 55, 44, 23, 82, 7, 263)}

	first, err := p.TopCrops(v)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		again, err := p.TopCrops(v)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestTopCrops_NamedEqualsOrdered(t *testing.T) {
	p := NewPredictor(trainFixture(t), 4)

	named, err := features.FromNamed(map[string]any{
		"nitrogen":    90,
		"phosphorus":  40,
		"potassium":   40,
		"temperature": 25,
		"humidity":    80,
		"ph":          6.5,
		"rainfall":    200,
	})
	require.NoError(t, err)
	ordered, err := features.FromSample([]any{90, 40, 40, 25, 80, 6.5, 200})
	require.NoError(t, err)

	fromNamed, err := p.TopCrops([]features.Vector{named})
	require.NoError(t, err)
	fromOrdered, err := p.TopCrops([]features.Vector{ordered})
	require.NoError(t, err)
	assert.Equal(t, fromOrdered, fromNamed)
}

func TestTopCrops_OnlyFirstVectorRanked(t *testing.T) {
	p := NewPredictor(trainFixture(t), 4)
	rice := datatest.Centers[5].Values
	apple := datatest.Centers[0].Values

	r, err := p.TopCrops([]features.Vector{vector(t, rice[:]...), vector(t, apple[:]...)})
	require.NoError(t, err)
	assert.Equal(t, "rice", r[0].Label)
}

func TestTopCrops_EmptyInput(t *testing.T) {
	p := NewPredictor(trainFixture(t), 4)

	_, err := p.TopCrops(nil)
	require.Error(t, err)
	assert.Equal(t, cerrors.ErrCodeInvalidRequest, cerrors.CodeOf(err))
}

func TestTopCrops_ConcurrentUse(t *testing.T) {
	p := NewPredictor(trainFixture(t), 4)
	v := []features.Vector{vector(t, 40, 68, 80, 18.9, 16.9, 7.3, 80)}
	want, err := p.TopCrops(v)
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]Ranking, 16)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = p.TopCrops(v)
		}()
	}
	wg.Wait()

	for _, r := range results {
		assert.Equal(t, want, r)
	}
}
