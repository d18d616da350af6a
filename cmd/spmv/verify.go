package main

import (
	"fmt"
	"math"
	"os"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"

	"github.com/micferr/intensive-computation-2020/internal/csr"
	"github.com/micferr/intensive-computation-2020/internal/csr5"
	"github.com/micferr/intensive-computation-2020/internal/problem"
)

// tolerance absorbs the different summation orders of the three products.
const tolerance = 1e-9

type report struct {
	Runs     int
	Checksum uint64
	MaxDiff  float64
}

func cmdVerify() {
	fs := newFlags("verify")
	in := fs.String("in", "", "problem file (.yaml)")
	runs := fs.Int("runs", 3, "number of repeated multiplications")
	fs.parse()
	p := loadProblem("verify", *in)
	r, err := verifyProblem(p, *runs)
	if err != nil {
		fmt.Fprintln(os.Stderr, "verify: FAILED:", err)
		os.Exit(3)
	}
	fmt.Printf("verify: OK (%d runs, checksum %016x, max diff %g)\n", r.Runs, r.Checksum, r.MaxDiff)
}

// verifyProblem multiplies p with CSR5 runs times and checks every result
// against CSR and a dense product, and that the CSR5 arrays never change.
func verifyProblem(p *problem.Problem, runs int) (*report, error) {
	if runs < 1 {
		runs = 1
	}
	m, err := csr5.New(p.Matrix, p.Rows, p.Cols, p.Omega, p.Sigma)
	if err != nil {
		return nil, err
	}
	base, err := csr.New(p.Matrix, p.Rows, p.Cols)
	if err != nil {
		return nil, err
	}
	want, err := base.Mul(p.Vector)
	if err != nil {
		return nil, err
	}
	dense := mat.NewVecDense(p.Rows, nil)
	dense.MulVec(mat.NewDense(p.Rows, p.Cols, p.Matrix), mat.NewVecDense(p.Cols, p.Vector))
	oracle := dense.RawVector().Data

	sum := m.Checksum()
	r := &report{Runs: runs, Checksum: sum}
	for run := 0; run < runs; run++ {
		got, err := m.Mul(p.Vector)
		if err != nil {
			return nil, err
		}
		if !floats.EqualApprox(got, want, tolerance) {
			return r, errors.Newf("run %d: csr5 and csr results differ", run)
		}
		if !floats.EqualApprox(got, oracle, tolerance) {
			return r, errors.Newf("run %d: csr5 result differs from dense product", run)
		}
		r.MaxDiff = math.Max(r.MaxDiff, floats.Distance(got, oracle, math.Inf(1)))
		if c := m.Checksum(); c != sum {
			return r, errors.Newf("run %d: matrix arrays changed (checksum %016x, was %016x)", run, c, sum)
		}
		logrus.WithFields(logrus.Fields{"run": run, "rows": len(got)}).Debug("verify run ok")
	}
	return r, nil
}
