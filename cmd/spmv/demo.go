package main

import (
	"fmt"

	"github.com/micferr/intensive-computation-2020/internal/csr"
	"github.com/micferr/intensive-computation-2020/internal/pbr"
	"github.com/micferr/intensive-computation-2020/internal/problem"
)

func cmdDemo() {
	fs := newFlags("demo")
	fs.parse()
	for _, p := range problem.Demos() {
		must(0, p.Normalize())
		fmt.Printf("== %s (%dx%d, omega=%d sigma=%d)\n", p.Name, p.Rows, p.Cols, p.Omega, p.Sigma)
		base := must(csr.New(p.Matrix, p.Rows, p.Cols))
		printVector("csr:         ", must(base.Mul(p.Vector)))
		printVector("csr parallel:", must(base.MulParallel(nil, p.Vector)))
		m := buildCSR5(&p)
		fmt.Print(m)
		printVector("csr5:        ", must(m.Mul(p.Vector)))
	}

	fmt.Println("== block pattern 10x10, block (1,1) = 0..15")
	b := must(pbr.New[float64](10, 10, 4))
	vals := make([]float64, 16)
	for i := range vals {
		vals[i] = float64(i)
	}
	must(0, b.Set(pbr.Coord{I: 1, J: 1}, vals))
	printVector("pbr:         ", must(b.Mul(nil, problem.Ones(10))))
}
