// Package csr is the plain compressed sparse row encoding. It is the
// correctness baseline the CSR5 kernel is checked against.
package csr

import (
	"fmt"
	"strings"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

// Matrix stores the nonzeros of each row contiguously.
type Matrix[T sparse.Number] struct {
	RowPtr []int // RowPtr[i]..RowPtr[i+1] indexes the nonzeros of row i
	ColIdx []int
	Val    []T
	cols   int
}

// New builds a Matrix from a flat row-major dense matrix.
func New[T sparse.Number](dense []T, rows, cols int) (*Matrix[T], error) {
	if err := sparse.CheckDense(len(dense), rows, cols); err != nil {
		return nil, err
	}
	nnz := sparse.CountNonZero(dense)
	m := &Matrix[T]{
		RowPtr: make([]int, rows+1),
		ColIdx: make([]int, 0, nnz),
		Val:    make([]T, 0, nnz),
		cols:   cols,
	}
	for i := 0; i < rows; i++ {
		for j, x := range dense[i*cols : (i+1)*cols] {
			if x != 0 {
				m.ColIdx = append(m.ColIdx, j)
				m.Val = append(m.Val, x)
			}
		}
		m.RowPtr[i+1] = len(m.Val)
	}
	return m, nil
}

func (m *Matrix[T]) Rows() int { return len(m.RowPtr) - 1 }
func (m *Matrix[T]) Cols() int { return m.cols }
func (m *Matrix[T]) NNZ() int  { return len(m.Val) }

// Row expands row i to a dense slice of Cols() elements.
func (m *Matrix[T]) Row(i int) []T {
	res := make([]T, m.cols)
	for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
		res[m.ColIdx[k]] = m.Val[k]
	}
	return res
}

// Mul returns m·v, one expanded row at a time.
func (m *Matrix[T]) Mul(v []T) ([]T, error) {
	if err := sparse.CheckVector(len(v), m.cols); err != nil {
		return nil, err
	}
	y := make([]T, m.Rows())
	for i := range y {
		y[i] = m.rowDot(i, v)
	}
	return y, nil
}

// MulParallel returns m·v computing rows on the pool. Every row owns its
// output slot, so no synchronization is needed beyond the pool barrier.
func (m *Matrix[T]) MulParallel(pool *workerpool.Pool, v []T) ([]T, error) {
	if err := sparse.CheckVector(len(v), m.cols); err != nil {
		return nil, err
	}
	if pool == nil {
		pool = workerpool.Default()
	}
	y := make([]T, m.Rows())
	pool.ParallelFor(len(y), func(start, end int) {
		for i := start; i < end; i++ {
			y[i] = m.rowDot(i, v)
		}
	})
	return y, nil
}

func (m *Matrix[T]) rowDot(i int, v []T) T {
	var acc T
	for k := m.RowPtr[i]; k < m.RowPtr[i+1]; k++ {
		acc += m.Val[k] * v[m.ColIdx[k]]
	}
	return acc
}

// String prints row pointers, column indices and values, one line each.
func (m *Matrix[T]) String() string {
	var b strings.Builder
	writeInts(&b, m.RowPtr)
	writeInts(&b, m.ColIdx)
	for _, x := range m.Val {
		fmt.Fprintf(&b, "%v ", x)
	}
	b.WriteByte('\n')
	return b.String()
}

func writeInts(b *strings.Builder, v []int) {
	for _, x := range v {
		fmt.Fprintf(b, "%d ", x)
	}
	b.WriteByte('\n')
}
