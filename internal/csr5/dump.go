package csr5

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	xxh3 "github.com/zeebo/xxh3"
)

// Dump writes every internal array of m as text, for debugging.
func (m *Matrix[T]) Dump(w io.Writer) error {
	bw := bufio.NewWriter(w)
	line(bw, "Row Ptr:", m.RowPtr)
	line(bw, "Col Idx:", m.ColIdx)
	line(bw, "Val:", m.Val)
	line(bw, "Tile Ptr:", m.TilePtr)
	for i := range m.Tiles {
		t := &m.Tiles[i]
		fmt.Fprintln(bw, "Begin Tile:")
		line(bw, "Y Offset:", t.YOffset)
		line(bw, "Seg Offset:", t.SegOffset)
		line(bw, "Empty offset:", t.EmptyOffset)
		bits := make([]int, len(t.BitFlag))
		for j, b := range t.BitFlag {
			if b {
				bits[j] = 1
			}
		}
		line(bw, "Bit Flag:", bits)
		fmt.Fprintln(bw, "End Tile")
	}
	return bw.Flush()
}

func line[E any](w io.Writer, label string, v []E) {
	fmt.Fprint(w, label)
	for _, x := range v {
		fmt.Fprintf(w, " %v", x)
	}
	fmt.Fprintln(w)
}

func (m *Matrix[T]) String() string {
	var b strings.Builder
	_ = m.Dump(&b)
	return b.String()
}

// Checksum is the xxh3 hash of the dump. It changes whenever any array of
// the structure does.
func (m *Matrix[T]) Checksum() uint64 {
	h := xxh3.New()
	_ = m.Dump(h)
	return h.Sum64()
}
