package csr5

import (
	"sort"

	"github.com/micferr/intensive-computation-2020/internal/reduce"
	"github.com/micferr/intensive-computation-2020/internal/sparse"
)

// tileBatch is the number of tiles a worker takes per grab.
const tileBatch = 4

// scratch is per-worker state reused across the tiles it processes.
type scratch[T sparse.Number] struct {
	tmp  []T   // red partial sums, tmp[j-1] belongs to lane j
	last []T   // blue partial sum of each lane
	row  []int // row-start counter of each lane after its walk
}

// Mul returns m·v. Tiles run on the matrix's worker pool, each into its own
// buffer; the buffers are summed into the result after all tiles finish.
func (m *Matrix[T]) Mul(v []T) ([]T, error) {
	if err := sparse.CheckVector(len(v), m.cols); err != nil {
		return nil, err
	}
	partial := make([][]T, len(m.Tiles))
	m.pool.ParallelForBatched(len(m.Tiles), tileBatch, func(start, end int) {
		s := &scratch[T]{
			tmp:  make([]T, m.Omega),
			last: make([]T, m.Omega),
			row:  make([]int, m.Omega),
		}
		for t := start; t < end; t++ {
			partial[t] = m.mulTile(t, v, s)
		}
	})

	y := make([]T, m.Rows())
	for t, p := range partial {
		// neighbouring tiles overlap on at most the row that straddles them
		base := m.TilePtr[t]
		for i, x := range p {
			y[base+i] += x
		}
	}
	m.mulExcess(v, y)
	return y, nil
}

// mulTile returns the contribution of tile t to rows TilePtr[t]..+Rows.
func (m *Matrix[T]) mulTile(t int, v []T, s *scratch[T]) []T {
	tile := &m.Tiles[t]
	omega, sigma := m.Omega, m.Sigma
	base := t * omega * sigma
	val := m.Val[base : base+omega*sigma]
	col := m.ColIdx[base : base+omega*sigma]
	y := make([]T, tile.Rows)
	clear(s.tmp)

	for i := 0; i < omega; i++ {
		var sum T
		red := !tile.BitFlag[i] // lane opens inside a row begun in an earlier lane
		row := tile.YOffset[i]
		for j := 0; j < sigma; j++ {
			p := j*omega + i
			sum += val[p] * v[col[p]]
			if j == sigma-1 || !tile.BitFlag[p+omega] {
				continue
			}
			if red {
				s.tmp[i-1] = sum
				red = false
			} else {
				// green: the row starts and ends in this lane
				y[tile.outRow(row)] = sum
				row++
			}
			sum = 0
		}
		if red {
			s.tmp[i-1] = sum
			sum = 0
		}
		s.last[i] = sum // blue: continues into the next lane
		s.row[i] = row
	}

	reduce.SegmentedSum(s.tmp, tile.SegOffset)
	for i := 0; i < omega; i++ {
		if tile.hasStart(i) {
			y[tile.outRow(s.row[i])] = s.last[i] + s.tmp[i]
		}
	}
	return y
}

// mulExcess accumulates the nonzeros stored after the last full tile into
// the rows they belong to.
func (m *Matrix[T]) mulExcess(v, y []T) {
	k0 := m.NumTiles() * m.Omega * m.Sigma
	if k0 >= m.NNZ() {
		return
	}
	r := sort.Search(m.Rows(), func(r int) bool { return m.RowPtr[r+1] > k0 })
	for k := k0; k < m.NNZ(); k++ {
		for m.RowPtr[r+1] <= k {
			r++
		}
		y[r] += m.Val[k] * v[m.ColIdx[k]]
	}
}
