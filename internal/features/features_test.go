package features

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cerrors "croprec/internal/errors"
)

func structured(t *testing.T, err error) *cerrors.StructuredError {
	t.Helper()
	se, ok := err.(*cerrors.StructuredError)
	require.True(t, ok, "expected *StructuredError, got %T", err)
	return se
}

func TestFromSample(t *testing.T) {
	v, err := FromSample([]any{90.0, 40.0, 40.0, 25.0, 80.0, 6.5, 200.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 40, 40, 25, 80, 6.5, 200}, v.Float64s())
}

func TestFromSample_IgnoresExtraValues(t *testing.T) {
	v, err := FromSample([]any{1.0, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0, 8.0, 9.0})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 2, 3, 4, 5, 6, 7}, v.Float64s())
}

func TestFromSample_TooShort(t *testing.T) {
	_, err := FromSample([]any{1.0, 2.0, 3.0, 4.0, 5.0})
	require.Error(t, err)

	se := structured(t, err)
	assert.Equal(t, cerrors.ErrCodeInvalidRequest, se.Code)
	assert.Contains(t, se.Message, "at least 7")
	assert.Contains(t, se.Message, "got 5")
	assert.Equal(t, 5, se.Context["got"])
	assert.Equal(t, Count, se.Context["expected"])
}

func TestFromSample_NonNumeric(t *testing.T) {
	_, err := FromSample([]any{1.0, 2.0, "abc", 4.0, 5.0, 6.0, 7.0})
	require.Error(t, err)

	se := structured(t, err)
	assert.Equal(t, cerrors.ErrCodeInvalidRequest, se.Code)
	assert.Equal(t, 2, se.Context["index"])
	assert.Equal(t, "potassium", se.Context["field"])
}

func TestFromSample_AcceptsNumericStringsAndJSONNumbers(t *testing.T) {
	v, err := FromSample([]any{"90", json.Number("40"), 40, int64(25), " 80 ", "6.5", json.Number("200")})
	require.NoError(t, err)
	assert.Equal(t, []float64{90, 40, 40, 25, 80, 6.5, 200}, v.Float64s())
}

func TestFromSample_RejectsBoolAndNull(t *testing.T) {
	_, err := FromSample([]any{true, 2.0, 3.0, 4.0, 5.0, 6.0, 7.0})
	assert.True(t, cerrors.IsInvalidRequest(err))

	_, err = FromSample([]any{1.0, nil, 3.0, 4.0, 5.0, 6.0, 7.0})
	assert.True(t, cerrors.IsInvalidRequest(err))
}

func TestFromFloats_RejectsNaN(t *testing.T) {
	_, err := FromFloats(1, 2, 3, math.NaN(), 5, 6, 7)
	assert.True(t, cerrors.IsInvalidRequest(err))
}

func TestToDecimal_RejectsOutOfRange(t *testing.T) {
	for _, val := range []any{json.Number("1e400"), json.Number("-1e400"), "1e400"} {
		_, err := ToDecimal(val)
		assert.Error(t, err, "%v", val)
	}

	d, err := ToDecimal(json.Number("1e300"))
	require.NoError(t, err)
	assert.Equal(t, 1e300, d.InexactFloat64())

	_, err = FromSample([]any{json.Number("1e400"), 20.0, 10.0, 3.0, 20.0, 1.0, 100.0})
	require.True(t, cerrors.IsInvalidRequest(err))
	assert.Contains(t, err.Error(), "nitrogen")

	_, err = FromNamed(map[string]any{
		"nitrogen": 1.0, "phosphorus": 1.0, "potassium": 1.0, "temperature": 1.0,
		"humidity": 1.0, "ph": 1.0, "rainfall": "-1e999",
	})
	assert.True(t, cerrors.IsInvalidRequest(err))
}

func TestFromNamed_MatchesOrderedSample(t *testing.T) {
	named, err := FromNamed(map[string]any{
		"nitrogen": 90.0, "phosphorus": 40.0, "potassium": 40.0,
		"temperature": 25.0, "humidity": 80.0, "ph": 6.5, "rainfall": 200.0,
	})
	require.NoError(t, err)

	ordered, err := FromFloats(90, 40, 40, 25, 80, 6.5, 200)
	require.NoError(t, err)

	assert.Equal(t, ordered.Float64s(), named.Float64s())
}

func TestFromNamed_Aliases(t *testing.T) {
	v, err := FromNamed(map[string]any{
		"N": 10.0, "phosph": 20.0, "k": 30.0,
		"temp": 21.5, "humid": 60.0, "pH": 7.0, "rain": 120.0,
	})
	require.NoError(t, err)
	assert.Equal(t, []float64{10, 20, 30, 21.5, 60, 7, 120}, v.Float64s())
}

func TestFromNamed_FirstAliasWins(t *testing.T) {
	v, err := FromNamed(map[string]any{
		"nitrogen": 1.0, "nitro": 99.0,
		"p": 2.0, "k": 3.0, "t": 4.0, "h": 5.0, "ph": 6.0, "rainfall": 7.0,
	})
	require.NoError(t, err)
	assert.True(t, v[0].Equal(decimal.NewFromInt(1)))
}

func TestFromNamed_MissingFields(t *testing.T) {
	_, err := FromNamed(map[string]any{
		"nitrogen": 90.0, "potassium": 40.0, "temperature": 25.0, "humidity": 80.0,
	})
	require.Error(t, err)

	se := structured(t, err)
	assert.Equal(t, cerrors.ErrCodeInvalidRequest, se.Code)
	assert.Equal(t, []string{"phosphorus", "ph", "rainfall"}, se.Context["missing"])
	assert.True(t, strings.HasSuffix(se.Message, "phosphorus, ph, rainfall"))
}

func TestFromNamed_NullCountsAsMissing(t *testing.T) {
	_, err := FromNamed(map[string]any{
		"n": 1.0, "p": 2.0, "k": 3.0, "t": 4.0, "h": 5.0, "ph": nil, "rain": 7.0,
	})
	se := structured(t, err)
	assert.Equal(t, []string{"ph"}, se.Context["missing"])
}

func TestFromNamed_BadValue(t *testing.T) {
	_, err := FromNamed(map[string]any{
		"n": 1.0, "p": 2.0, "k": 3.0, "t": "warm", "h": 5.0, "ph": 6.0, "rain": 7.0,
	})
	se := structured(t, err)
	assert.Equal(t, "temperature", se.Context["field"])
}

func TestIndex(t *testing.T) {
	tests := []struct {
		name string
		want int
		ok   bool
	}{
		{"N", 0, true},
		{"P", 1, true},
		{"K", 2, true},
		{"temperature", 3, true},
		{"Humidity", 4, true},
		{"ph", 5, true},
		{" rainfall ", 6, true},
		{"label", -1, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Index(tt.name)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNames(t *testing.T) {
	assert.Equal(t, []string{"nitrogen", "phosphorus", "potassium", "temperature", "humidity", "ph", "rainfall"}, Names())
}
