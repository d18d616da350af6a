package main

import (
	"fmt"

	"github.com/micferr/intensive-computation-2020/internal/csr"
	"github.com/micferr/intensive-computation-2020/internal/pbr"
)

func cmdApply() {
	fs := newFlags("apply")
	in := fs.String("in", "", "problem file (.yaml)")
	block := fs.Int("block", 0, "also multiply with the block pattern format using this block size")
	fs.parse()
	p := loadProblem("apply", *in)

	m := buildCSR5(p)
	fmt.Printf("rows=%d cols=%d nnz=%d tiles=%d excess=%d\n", m.Rows(), m.Cols(), m.NNZ(), m.NumTiles(), m.Excess())
	printVector("csr5:", must(m.Mul(p.Vector)))
	base := must(csr.New(p.Matrix, p.Rows, p.Cols))
	printVector("csr: ", must(base.MulParallel(nil, p.Vector)))
	if *block > 0 {
		b := must(pbr.FromDense(p.Matrix, p.Rows, p.Cols, *block, *block))
		fmt.Printf("pbr: blocks=%d loose=%d\n", b.Blocks(), b.Loose())
		printVector("pbr: ", must(b.Mul(nil, p.Vector)))
	}
}
