package data

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rows(n int) [][]decimal.Decimal {
	X := make([][]decimal.Decimal, n)
	for i := range X {
		X[i] = []decimal.Decimal{decimal.NewFromInt(int64(i))}
	}
	return X
}

func TestBatchProcessor(t *testing.T) {
	bp := NewBatchProcessor(4)

	var starts, sizes []int
	err := bp.Process(context.Background(), rows(10), func(start int, batch [][]decimal.Decimal) error {
		starts = append(starts, start)
		sizes = append(sizes, len(batch))
		assert.True(t, batch[0][0].Equal(decimal.NewFromInt(int64(start))))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []int{0, 4, 8}, starts)
	assert.Equal(t, []int{4, 4, 2}, sizes)
}

func TestBatchProcessorDefaults(t *testing.T) {
	assert.Equal(t, DefaultBatchSize, NewBatchProcessor(0).BatchSize())
	assert.Equal(t, DefaultBatchSize, NewBatchProcessor(-3).BatchSize())

	calls := 0
	err := NewBatchProcessor(2).Process(context.Background(), nil, func(int, [][]decimal.Decimal) error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Zero(t, calls)
}

func TestBatchProcessorStops(t *testing.T) {
	boom := errors.New("boom")
	calls := 0
	err := NewBatchProcessor(3).Process(context.Background(), rows(9), func(start int, _ [][]decimal.Decimal) error {
		calls++
		if start == 3 {
			return boom
		}
		return nil
	})
	require.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "batch 3-6")
	assert.Equal(t, 2, calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err = NewBatchProcessor(3).Process(ctx, rows(9), func(int, [][]decimal.Decimal) error {
		t.Fatal("called after cancel")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
