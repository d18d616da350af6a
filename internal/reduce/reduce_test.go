package reduce

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/micferr/intensive-computation-2020/internal/workerpool"
)

func TestPrefixSum(t *testing.T) {
	v := []int{3, 1, 4, 1, 5}
	PrefixSum(v)
	assert.Equal(t, []int{3, 4, 8, 9, 14}, v)

	var empty []float64
	PrefixSum(empty)
	assert.Empty(t, empty)
}

func TestSegmentedSum(t *testing.T) {
	tests := []struct {
		name string
		v    []int
		seg  []int
		want []int
	}{
		{"no segments", []int{1, 2, 3, 4}, []int{0, 0, 0, 0}, []int{1, 2, 3, 4}},
		{"one run", []int{1, 2, 3, 4}, []int{3, 2, 1, 0}, []int{10, 9, 7, 4}},
		{"mixed", []int{5, 14, 13, 0}, []int{0, 1, 0, 0}, []int{5, 27, 13, 0}},
		{"pairs", []int{14, 13, 18, 0}, []int{1, 0, 1, 0}, []int{27, 13, 18, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := append([]int(nil), tt.v...)
			SegmentedSum(v, tt.seg)
			assert.Equal(t, tt.want, v)
		})
	}
}

// Each index must see the original inputs, not values already rewritten
// by a neighbour: compare with a direct per-index sum.
func TestSegmentedSumMatchesDirectSums(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	for iter := 0; iter < 50; iter++ {
		n := 1 + rng.Intn(32)
		v := make([]int64, n)
		seg := make([]int, n)
		for i := range v {
			v[i] = int64(rng.Intn(200) - 100)
		}
		for i := n - 1; i >= 0; i-- {
			if i < n-1 && rng.Intn(2) == 0 {
				seg[i] = seg[i+1] + 1
			}
		}
		want := make([]int64, n)
		for i := range v {
			for k := i; k <= i+seg[i]; k++ {
				want[i] += v[k]
			}
		}
		SegmentedSum(v, seg)
		require.Equal(t, want, v)
	}
}

func TestSegmentedSumPanicsOnBadOffsets(t *testing.T) {
	assert.Panics(t, func() { SegmentedSum([]int{1, 2}, []int{0}) })
	assert.Panics(t, func() { SegmentedSum([]int{1, 2}, []int{2, 0}) })
}

func TestSumRows(t *testing.T) {
	v := []int{1, 2, 3, 4, 5, 6}
	assert.Equal(t, 21, SumRows(nil, v, 2, 3))
	assert.Equal(t, 21, SumRows(nil, v, 3, 2))

	pool := workerpool.New(4)
	defer pool.Close()
	big := make([]float64, 200*7)
	for i := range big {
		big[i] = 0.5
	}
	assert.InDelta(t, 700.0, SumRows(pool, big, 200, 7), 1e-9)
}

func TestCountTrue(t *testing.T) {
	flags := []bool{
		true, false, false, true,
		false, true, false, false,
	}
	assert.Equal(t, 3, CountTrue(nil, flags, 2, 4))

	pool := workerpool.New(2)
	defer pool.Close()
	many := make([]bool, 128*3)
	for i := 0; i < len(many); i += 3 {
		many[i] = true
	}
	assert.Equal(t, 128, CountTrue(pool, many, 128, 3))
}
