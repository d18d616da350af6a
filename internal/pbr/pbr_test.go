package pbr

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micferr/intensive-computation-2020/internal/csr"
	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

func TestSingleBlock(t *testing.T) {
	// a 10x10 matrix whose only block is (1,1), holding 0..15
	m, err := New[int](10, 10, 4)
	require.NoError(t, err)
	vals := make([]int, 16)
	for i := range vals {
		vals[i] = i
	}
	require.NoError(t, m.Set(Coord{1, 1}, vals))
	vals[0] = 99 // Set copies

	ones := make([]int, 10)
	for i := range ones {
		ones[i] = 1
	}
	y, err := m.Mul(nil, ones)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 6, 22, 38, 54, 0, 0}, y)
}

func TestEdgeBlocksAndRemainder(t *testing.T) {
	m, err := New[int](5, 6, 4)
	require.NoError(t, err)
	require.NoError(t, m.Set(Coord{1, 1}, []int{1, 2})) // 1x2 corner block
	require.NoError(t, m.AddRemainder(0, 0, 7))
	require.NoError(t, m.AddRemainder(0, 0, 1))

	y, err := m.Mul(nil, []int{1, 2, 3, 4, 5, 6})
	require.NoError(t, err)
	assert.Equal(t, []int{8, 0, 0, 0, 17}, y)

	err = m.Set(Coord{1, 1}, []int{1, 2, 3})
	assert.True(t, errors.Is(err, sparse.ErrInconsistentMatrixSize))
	err = m.Set(Coord{2, 0}, []int{1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	err = m.AddRemainder(5, 0, 1)
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	_, err = m.Mul(nil, []int{1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
}

func TestNewErrors(t *testing.T) {
	_, err := New[float64](0, 3, 2)
	assert.True(t, errors.Is(err, sparse.ErrInvalidShape))
	_, err = New[float64](3, 3, 0)
	assert.True(t, errors.Is(err, sparse.ErrInvalidTileParameters))
	_, err = FromDense([]int{1, 2}, 2, 2, 2, 1)
	assert.True(t, errors.Is(err, sparse.ErrInconsistentMatrixSize))
}

func TestFromDenseMatchesCSR(t *testing.T) {
	rng := rand.New(rand.NewSource(9))
	pool := workerpool.New(3)
	defer pool.Close()
	for iter := 0; iter < 30; iter++ {
		rows, cols := 1+rng.Intn(40), 1+rng.Intn(40)
		dense := make([]int64, rows*cols)
		for i := range dense {
			if rng.Intn(3) == 0 {
				dense[i] = int64(rng.Intn(11) - 5)
			}
		}
		size := 1 + rng.Intn(6)
		minNNZ := rng.Intn(size*size + 1)
		m, err := FromDense(dense, rows, cols, size, minNNZ)
		require.NoError(t, err)
		base, err := csr.New(dense, rows, cols)
		require.NoError(t, err)

		inBlocks := 0
		for _, b := range m.blocks {
			inBlocks += b.NNZ()
		}
		assert.Equal(t, base.NNZ(), inBlocks+m.Loose())

		v := make([]int64, cols)
		for i := range v {
			v[i] = int64(rng.Intn(7) - 3)
		}
		want, err := base.Mul(v)
		require.NoError(t, err)
		got, err := m.Mul(pool, v)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}
