// Package reduce has the scans and reductions used by the CSR5 builder and
// multiply kernel.
package reduce

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

// MinParallelRows is the row count below which SumRows stays on the caller's goroutine.
const MinParallelRows = 64

// PrefixSum replaces v with its inclusive prefix sum.
func PrefixSum[T sparse.Number](v []T) {
	for i := 1; i < len(v); i++ {
		v[i] += v[i-1]
	}
}

// SegmentedSum leaves in v[i] the sum of v[i..i+segOffset[i]]. Every index
// reads the same frozen prefix sums and its own original value, so the
// updates are independent of each other.
func SegmentedSum[T sparse.Number](v []T, segOffset []int) {
	if len(v) != len(segOffset) {
		panic(errors.AssertionFailedf("segmented sum: %d values, %d offsets", len(v), len(segOffset)))
	}
	prefixed := make([]T, len(v))
	copy(prefixed, v)
	PrefixSum(prefixed)
	for i, s := range segOffset {
		if s < 0 || i+s >= len(v) {
			panic(errors.AssertionFailedf("segmented sum: offset %d at %d out of range", s, i))
		}
		v[i] = prefixed[i+s] - prefixed[i] + v[i]
	}
}

// SumRows sums a rows×cols row-major block by summing every row on its own
// and then the per-row partials. A nil pool, or fewer than MinParallelRows
// rows, keeps the work sequential.
func SumRows[T sparse.Number](pool *workerpool.Pool, v []T, rows, cols int) T {
	return SumRowsBy(pool, v, rows, cols, func(x T) T { return x })
}

// CountTrue counts the set flags of a rows×cols flag matrix through SumRows.
func CountTrue(pool *workerpool.Pool, flags []bool, rows, cols int) int {
	return SumRowsBy(pool, flags, rows, cols, func(b bool) int {
		if b {
			return 1
		}
		return 0
	})
}

// SumRowsBy is SumRows over f applied to every element.
func SumRowsBy[E any, T sparse.Number](pool *workerpool.Pool, v []E, rows, cols int, f func(E) T) T {
	if len(v) < rows*cols {
		panic(errors.AssertionFailedf("sum rows: %d values for %dx%d", len(v), rows, cols))
	}
	partials := make([]T, rows)
	row := func(start, end int) {
		for r := start; r < end; r++ {
			var acc T
			for _, x := range v[r*cols : (r+1)*cols] {
				acc += f(x)
			}
			partials[r] = acc
		}
	}
	if pool == nil || rows < MinParallelRows {
		row(0, rows)
	} else {
		pool.ParallelFor(rows, row)
	}
	return lo.Sum(partials)
}
