// Package problem describes SpMV inputs for the command line tool: a dense
// matrix, the vector to multiply and the CSR5 tile shape. Problems are read
// from YAML files or taken from the built-in demos.
package problem

import (
	"math/rand"
	"os"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"

	"github.com/micferr/intensive-computation-2020/internal/sparse"
)

const (
	DefaultOmega = 4
	DefaultSigma = 4
)

// Problem is one multiplication: a rows×cols row-major matrix, the vector
// and the tile shape used to encode the matrix.
type Problem struct {
	Name   string    `yaml:"name"`
	Rows   int       `yaml:"rows"`
	Cols   int       `yaml:"cols"`
	Omega  int       `yaml:"omega"`
	Sigma  int       `yaml:"sigma"`
	Matrix []float64 `yaml:"matrix"`
	Vector []float64 `yaml:"vector"`
	// Random fills Matrix when it is left empty.
	Random *Random `yaml:"random,omitempty"`
}

// Random asks for a seeded matrix with the given fraction of nonzeros.
type Random struct {
	Density float64 `yaml:"density"`
	Seed    int64   `yaml:"seed"`
}

// Load reads and validates a YAML problem file.
func Load(path string) (*Problem, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	p, err := Parse(b)
	if err != nil {
		return nil, errors.Wrapf(err, "problem %s", path)
	}
	return p, nil
}

// Parse decodes and validates a YAML problem.
func Parse(b []byte) (*Problem, error) {
	var p Problem
	if err := yaml.Unmarshal(b, &p); err != nil {
		return nil, err
	}
	if err := p.Normalize(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Normalize fills defaults (tile shape, all-ones vector, random matrix) and
// checks that the shapes agree.
func (p *Problem) Normalize() error {
	if p.Omega == 0 {
		p.Omega = DefaultOmega
	}
	if p.Sigma == 0 {
		p.Sigma = DefaultSigma
	}
	if p.Omega < 0 || p.Sigma < 0 {
		return errors.Wrapf(sparse.ErrInvalidTileParameters, "omega=%d sigma=%d", p.Omega, p.Sigma)
	}
	if len(p.Matrix) == 0 && p.Random != nil && p.Rows > 0 && p.Cols > 0 {
		p.Matrix = RandomDense(p.Rows, p.Cols, p.Random.Density, p.Random.Seed)
	}
	if err := sparse.CheckDense(len(p.Matrix), p.Rows, p.Cols); err != nil {
		return err
	}
	if len(p.Vector) == 0 {
		p.Vector = Ones(p.Cols)
	}
	return sparse.CheckVector(len(p.Vector), p.Cols)
}

// Ones returns a vector of n ones; multiplying by it gives row sums.
func Ones(n int) []float64 {
	v := make([]float64, n)
	for i := range v {
		v[i] = 1
	}
	return v
}

// RandomDense returns a rows×cols matrix with small integer entries, each
// present with probability density.
func RandomDense(rows, cols int, density float64, seed int64) []float64 {
	rng := rand.New(rand.NewSource(seed))
	m := make([]float64, rows*cols)
	for i := range m {
		if rng.Float64() < density {
			m[i] = float64(1 + rng.Intn(9))
		}
	}
	return m
}

// Demos are the scenarios the demo command runs.
func Demos() []Problem {
	iota16 := make([]float64, 16)
	for i := range iota16 {
		iota16[i] = float64(i)
	}
	return []Problem{
		{
			Name: "dense 4x4", Rows: 4, Cols: 4, Omega: 2, Sigma: 2,
			Matrix: iota16, Vector: Ones(4),
		},
		{
			Name: "identity 4x4", Rows: 4, Cols: 4, Omega: 2, Sigma: 2,
			Matrix: []float64{
				1, 0, 0, 0,
				0, 1, 0, 0,
				0, 0, 1, 0,
				0, 0, 0, 1,
			},
			Vector: []float64{1, 2, 3, 4},
		},
		{
			Name: "8x8 with an empty row", Rows: 8, Cols: 8, Omega: 4, Sigma: 4,
			Matrix: []float64{
				1, 0, 2, 3, 0, 0, 4, 5,
				0, 1, 0, 2, 0, 0, 0, 0,
				0, 0, 0, 0, 0, 0, 0, 0,
				1, 2, 3, 4, 5, 0, 6, 7,
				0, 1, 0, 2, 0, 3, 0, 0,
				1, 2, 0, 0, 0, 0, 0, 0,
				0, 1, 2, 3, 4, 5, 6, 7,
				1, 2, 3, 4, 5, 6, 7, 8,
			},
			Vector: Ones(8),
		},
	}
}
