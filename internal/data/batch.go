package data

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// DefaultBatchSize is used when a processor is created with a non-positive size.
const DefaultBatchSize = 256

// BatchProcessor walks a feature matrix in fixed-size chunks.
type BatchProcessor struct {
	batchSize int
}

func NewBatchProcessor(batchSize int) *BatchProcessor {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &BatchProcessor{batchSize: batchSize}
}

// Process calls fn for consecutive row ranges of X. start is the index of
// the first row of batch within X. Processing stops at the first error or
// when ctx is done.
func (bp *BatchProcessor) Process(ctx context.Context, X [][]decimal.Decimal, fn func(start int, batch [][]decimal.Decimal) error) error {
	for start := 0; start < len(X); start += bp.batchSize {
		if err := ctx.Err(); err != nil {
			return err
		}

		end := min(start+bp.batchSize, len(X))
		if err := fn(start, X[start:end]); err != nil {
			return fmt.Errorf("batch %d-%d: %w", start, end, err)
		}
	}
	return nil
}

func (bp *BatchProcessor) BatchSize() int {
	return bp.batchSize
}
