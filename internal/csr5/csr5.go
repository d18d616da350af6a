// Package csr5 implements the CSR5 sparse matrix encoding and its
// segmented-sum SpMV kernel.
//
// Nonzeros are cut, in row-major order, into tiles of Omega lanes by Sigma
// entries. Each lane holds Sigma consecutive nonzeros, so every tile costs
// the same to multiply no matter how row lengths are distributed. Row
// boundaries inside a tile are described by a bit flag per entry plus the
// per-lane YOffset and SegOffset arrays; partial row sums that spill from
// one lane into the next are stitched together with a segmented sum.
// Nonzeros past the last full tile ("excess") are kept in plain order and
// accumulated directly.
package csr5

import (
	"math"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

// Matrix is a CSR5 encoded matrix. It is not modified after New returns
// and can be multiplied from several goroutines at once.
type Matrix[T sparse.Number] struct {
	Omega int // lanes per tile
	Sigma int // entries per lane

	RowPtr  []int // len rows+1, offsets in row-major nonzero order
	TilePtr []int // len tiles+1, row of the first nonzero of each tile
	ColIdx  []int
	Val     []T
	Tiles   []Tile

	cols int
	pool *workerpool.Pool
}

// New encodes the rows×cols row-major dense matrix into CSR5 tiles of
// omega lanes by sigma entries.
func New[T sparse.Number](dense []T, rows, cols, omega, sigma int, opts ...Option) (*Matrix[T], error) {
	if err := sparse.CheckDense(len(dense), rows, cols); err != nil {
		return nil, err
	}
	if omega <= 0 || sigma <= 0 || sigma > math.MaxInt/omega {
		return nil, errors.Wrapf(sparse.ErrInvalidTileParameters, "omega=%d sigma=%d", omega, sigma)
	}
	c := newConfig(opts)

	nnz := sparse.CountNonZero(dense)
	per := omega * sigma
	numTiles := nnz / per
	m := &Matrix[T]{
		Omega:   omega,
		Sigma:   sigma,
		RowPtr:  make([]int, rows+1),
		TilePtr: make([]int, numTiles+1),
		ColIdx:  make([]int, nnz),
		Val:     make([]T, nnz),
		Tiles:   make([]Tile, numTiles),
		cols:    cols,
		pool:    c.pool,
	}
	for t := range m.Tiles {
		m.Tiles[t] = newTile(omega, sigma)
	}

	k := 0 // nonzeros seen so far
	lastRow := -1
	for i, x := range dense {
		if x == 0 {
			continue
		}
		row, col := i/cols, i%cols
		newRow := row != lastRow
		if newRow {
			// rows skipped since lastRow are empty and start where this one does
			for r := lastRow + 1; r <= row; r++ {
				m.RowPtr[r] = k
			}
			lastRow = row
		}
		if t := k / per; t < numTiles {
			local := k % per
			slot := m.tileIndex(local)
			if local == 0 {
				m.TilePtr[t] = row
			}
			m.Tiles[t].BitFlag[slot] = newRow || local == 0
			m.ColIdx[t*per+slot] = col
			m.Val[t*per+slot] = x
		} else {
			m.ColIdx[k] = col
			m.Val[k] = x
		}
		k++
	}
	for r := lastRow + 1; r <= rows; r++ {
		m.RowPtr[r] = nnz
	}
	m.TilePtr[numTiles] = rows

	// tiles only read RowPtr/TilePtr here, each writes its own descriptor
	m.pool.Each(numTiles, func(t int) {
		m.Tiles[t].derive(m.RowPtr, m.TilePtr[t], omega, sigma)
	})

	c.log.WithFields(logrus.Fields{
		"rows":   rows,
		"cols":   cols,
		"nnz":    nnz,
		"omega":  omega,
		"sigma":  sigma,
		"tiles":  numTiles,
		"excess": m.Excess(),
	}).Debug("csr5 matrix built")
	return m, nil
}

func (m *Matrix[T]) Rows() int     { return len(m.RowPtr) - 1 }
func (m *Matrix[T]) Cols() int     { return m.cols }
func (m *Matrix[T]) NNZ() int      { return len(m.Val) }
func (m *Matrix[T]) NumTiles() int { return len(m.Tiles) }

// Excess is the number of nonzeros stored after the last full tile.
func (m *Matrix[T]) Excess() int { return m.NNZ() - m.NumTiles()*m.Omega*m.Sigma }

// tileIndex maps the k-th nonzero of a tile to its slot: the entries of a
// lane are consecutive nonzeros, slots are laid out depth by depth.
func (m *Matrix[T]) tileIndex(k int) int {
	return (k%m.Sigma)*m.Omega + k/m.Sigma
}
