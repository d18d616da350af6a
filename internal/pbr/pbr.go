// Package pbr is the block pattern format: small dense blocks registered
// by block coordinate, plus loose nonzeros that belong to no block.
package pbr

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

// Coord is a block coordinate: block (i, j) covers rows i*size.. and
// columns j*size.. of the matrix.
type Coord struct{ I, J int }

// Block is a row-major dense block. Blocks on the bottom and right edges of
// the matrix may be smaller than the matrix block size.
type Block[T sparse.Number] struct {
	Rows, Cols int
	Val        []T
}

// NNZ counts the nonzero entries of the block.
func (b *Block[T]) NNZ() int { return sparse.CountNonZero(b.Val) }

// mulAdd adds b·x to y.
func (b *Block[T]) mulAdd(x, y []T) {
	for i := 0; i < b.Rows; i++ {
		var acc T
		for j, a := range b.Val[i*b.Cols : (i+1)*b.Cols] {
			if a != 0 {
				acc += a * x[j]
			}
		}
		y[i] += acc
	}
}

type entry[T sparse.Number] struct {
	row, col int
	val      T
}

// Matrix owns its blocks; Set copies the values it is given.
type Matrix[T sparse.Number] struct {
	rows, cols, size int
	blocks           map[Coord]*Block[T]
	rem              []entry[T]
}

func New[T sparse.Number](rows, cols, size int) (*Matrix[T], error) {
	if rows <= 0 || cols <= 0 {
		return nil, errors.Wrapf(sparse.ErrInvalidShape, "%dx%d", rows, cols)
	}
	if size <= 0 {
		return nil, errors.Wrapf(sparse.ErrInvalidTileParameters, "block size %d", size)
	}
	return &Matrix[T]{rows: rows, cols: cols, size: size, blocks: map[Coord]*Block[T]{}}, nil
}

// FromDense registers every block holding at least minNNZ nonzeros and keeps
// the nonzeros of sparser blocks as loose entries.
func FromDense[T sparse.Number](dense []T, rows, cols, size, minNNZ int) (*Matrix[T], error) {
	if err := sparse.CheckDense(len(dense), rows, cols); err != nil {
		return nil, err
	}
	m, err := New[T](rows, cols, size)
	if err != nil {
		return nil, err
	}
	for bi := 0; bi*size < rows; bi++ {
		for bj := 0; bj*size < cols; bj++ {
			br, bc := m.blockDims(Coord{bi, bj})
			vals := make([]T, br*bc)
			for i := 0; i < br; i++ {
				copy(vals[i*bc:(i+1)*bc], dense[(bi*size+i)*cols+bj*size:])
			}
			n := sparse.CountNonZero(vals)
			switch {
			case n == 0:
			case n >= minNNZ:
				m.blocks[Coord{bi, bj}] = &Block[T]{Rows: br, Cols: bc, Val: vals}
			default:
				for k, x := range vals {
					if x != 0 {
						m.rem = append(m.rem, entry[T]{bi*size + k/bc, bj*size + k%bc, x})
					}
				}
			}
		}
	}
	return m, nil
}

func (m *Matrix[T]) Rows() int   { return m.rows }
func (m *Matrix[T]) Cols() int   { return m.cols }
func (m *Matrix[T]) Blocks() int { return len(m.blocks) }

// Loose is the number of nonzeros kept outside blocks.
func (m *Matrix[T]) Loose() int { return len(m.rem) }

func (m *Matrix[T]) blockDims(c Coord) (int, int) {
	return min(m.size, m.rows-c.I*m.size), min(m.size, m.cols-c.J*m.size)
}

// Set registers the row-major values of block c, replacing any previous block.
func (m *Matrix[T]) Set(c Coord, vals []T) error {
	if c.I < 0 || c.J < 0 || c.I*m.size >= m.rows || c.J*m.size >= m.cols {
		return errors.Wrapf(sparse.ErrDimensionMismatch, "block %v outside %dx%d", c, m.rows, m.cols)
	}
	br, bc := m.blockDims(c)
	if len(vals) != br*bc {
		return errors.Wrapf(sparse.ErrInconsistentMatrixSize, "block %v: %d values for %dx%d", c, len(vals), br, bc)
	}
	m.blocks[c] = &Block[T]{Rows: br, Cols: bc, Val: slices.Clone(vals)}
	return nil
}

// AddRemainder adds a loose nonzero.
func (m *Matrix[T]) AddRemainder(row, col int, val T) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return errors.Wrapf(sparse.ErrDimensionMismatch, "entry (%d,%d) outside %dx%d", row, col, m.rows, m.cols)
	}
	m.rem = append(m.rem, entry[T]{row, col, val})
	return nil
}

// Mul returns m·v. Blocks are multiplied on the pool (nil means the default
// pool) into private buffers, merged by block row once all are done.
func (m *Matrix[T]) Mul(pool *workerpool.Pool, v []T) ([]T, error) {
	if err := sparse.CheckVector(len(v), m.cols); err != nil {
		return nil, err
	}
	if pool == nil {
		pool = workerpool.Default()
	}
	coords := make([]Coord, 0, len(m.blocks))
	for c := range m.blocks {
		coords = append(coords, c)
	}
	slices.SortFunc(coords, func(a, b Coord) int {
		return cmp.Or(cmp.Compare(a.I, b.I), cmp.Compare(a.J, b.J))
	})

	partial := make([][]T, len(coords))
	pool.Each(len(coords), func(k int) {
		c := coords[k]
		b := m.blocks[c]
		y := make([]T, b.Rows)
		b.mulAdd(v[c.J*m.size:c.J*m.size+b.Cols], y)
		partial[k] = y
	})

	y := make([]T, m.rows)
	for k, c := range coords {
		for i, x := range partial[k] {
			y[c.I*m.size+i] += x
		}
	}
	for _, e := range m.rem {
		y[e.row] += e.val * v[e.col]
	}
	return y, nil
}
