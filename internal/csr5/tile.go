package csr5

import "github.com/micferr/intensive-computation-2020/internal/reduce"

// Tile describes where rows start inside one tile of Omega×Sigma entries.
// Slot d*Omega+j is entry d (depth) of lane j.
type Tile struct {
	// YOffset[j] is the tile-local index of the first row starting in lane j,
	// i.e. the number of row starts in lanes 0..j-1.
	YOffset []int
	// SegOffset[j] is how many lanes after j carry no row start at all; the
	// open row of lane j continues through lanes j+1..j+1+SegOffset[j].
	SegOffset []int
	// EmptyOffset maps the k-th row start of the tile to its tile-local output
	// row when empty rows sit between them. Nil when there are none.
	EmptyOffset []int
	// BitFlag marks entries that begin a row. The first slot of a tile is
	// always set.
	BitFlag []bool
	// Rows is the number of consecutive output rows, starting at the tile's
	// TilePtr entry, that the tile writes to. Empty rows in between count.
	Rows int
}

func newTile(omega, sigma int) Tile {
	return Tile{
		YOffset:   make([]int, omega),
		SegOffset: make([]int, omega),
		BitFlag:   make([]bool, omega*sigma),
	}
}

// derive fills the offsets from BitFlag. first is the row holding the
// tile's first nonzero.
func (t *Tile) derive(rowPtr []int, first, omega, sigma int) {
	starts := make([]bool, omega)
	for j := 0; j < omega; j++ {
		n := 0
		for d := 0; d < sigma; d++ {
			if t.BitFlag[d*omega+j] {
				n++
			}
		}
		starts[j] = n > 0
		if j+1 < omega {
			t.YOffset[j+1] = t.YOffset[j] + n
		}
	}
	for j := omega - 2; j >= 0; j-- {
		if starts[j+1] {
			t.SegOffset[j] = 0
		} else {
			t.SegOffset[j] = t.SegOffset[j+1] + 1
		}
	}

	flags := reduce.CountTrue(nil, t.BitFlag, sigma, omega)
	span, empty := flags, false
	for i := 0; i < span; i++ {
		if rowPtr[first+i] == rowPtr[first+i+1] {
			empty = true
			span++
		}
	}
	t.Rows = span
	if !empty {
		return
	}
	t.EmptyOffset = make([]int, 0, flags)
	for i := 0; i < span; i++ {
		if rowPtr[first+i] != rowPtr[first+i+1] {
			t.EmptyOffset = append(t.EmptyOffset, i)
		}
	}
}

// outRow is the tile-local output row of the k-th row start.
func (t *Tile) outRow(k int) int {
	if t.EmptyOffset == nil {
		return k
	}
	return t.EmptyOffset[k]
}

// hasStart reports whether some row begins in lane j.
func (t *Tile) hasStart(j int) bool {
	return j == 0 || t.SegOffset[j-1] == 0
}
