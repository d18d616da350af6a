package csr

import (
	"math/rand"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

func TestNewFromDense(t *testing.T) {
	m, err := New([]int{
		1, 0, 2,
		0, 0, 0,
		0, 3, 4,
	}, 3, 3)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2, 2, 4}, m.RowPtr)
	assert.Equal(t, []int{0, 2, 1, 2}, m.ColIdx)
	assert.Equal(t, []int{1, 2, 3, 4}, m.Val)
	assert.Equal(t, 3, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, 4, m.NNZ())
	assert.Equal(t, []int{0, 3, 4}, m.Row(2))
	assert.Equal(t, []int{0, 0, 0}, m.Row(1))
	assert.Equal(t, "0 2 2 4 \n0 2 1 2 \n1 2 3 4 \n", m.String())
}

func TestNewErrors(t *testing.T) {
	_, err := New([]int{1, 2, 3}, 2, 2)
	assert.True(t, errors.Is(err, sparse.ErrInconsistentMatrixSize))
	_, err = New([]int{}, 0, 2)
	assert.True(t, errors.Is(err, sparse.ErrInvalidShape))
}

func TestMulRowSums(t *testing.T) {
	dense := make([]int, 16)
	for i := range dense {
		dense[i] = i
	}
	m, err := New(dense, 4, 4)
	require.NoError(t, err)
	ones := []int{1, 1, 1, 1}

	y, err := m.Mul(ones)
	require.NoError(t, err)
	assert.Equal(t, []int{6, 22, 38, 54}, y)

	yp, err := m.MulParallel(nil, ones)
	require.NoError(t, err)
	assert.Equal(t, y, yp)

	_, err = m.Mul([]int{1, 1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
	_, err = m.MulParallel(nil, []int{1})
	assert.True(t, errors.Is(err, sparse.ErrDimensionMismatch))
}

func TestMulMatchesDense(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	pool := workerpool.New(3)
	defer pool.Close()
	rows, cols := 37, 23
	dense := make([]float64, rows*cols)
	for i := range dense {
		if rng.Float64() < 0.2 {
			dense[i] = rng.NormFloat64()
		}
	}
	v := make([]float64, cols)
	for i := range v {
		v[i] = rng.Float64()
	}
	m, err := New(dense, rows, cols)
	require.NoError(t, err)

	want := mat.NewVecDense(rows, nil)
	want.MulVec(mat.NewDense(rows, cols, dense), mat.NewVecDense(cols, v))

	got, err := m.Mul(v)
	require.NoError(t, err)
	assert.True(t, floats.EqualApprox(want.RawVector().Data, got, 1e-12))

	gotP, err := m.MulParallel(pool, v)
	require.NoError(t, err)
	assert.Equal(t, got, gotP)
}
