// Package sparse holds what the sparse encodings share: the element
// constraint, the error kinds and validation of dense inputs.
package sparse

import (
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// Number is the element type of matrices and vectors.
type Number interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64 |
		~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 |
		~float32 | ~float64
}

var (
	ErrDimensionMismatch      = errors.New("dimension mismatch")
	ErrInvalidTileParameters  = errors.New("invalid tile parameters")
	ErrInconsistentMatrixSize = errors.New("inconsistent matrix size")
	ErrInvalidShape           = errors.New("invalid shape")
)

// CheckDense validates a flat row-major matrix against its declared shape.
func CheckDense(n, rows, cols int) error {
	if rows <= 0 || cols <= 0 {
		return errors.Wrapf(ErrInvalidShape, "%dx%d", rows, cols)
	}
	if n != rows*cols {
		return errors.Wrapf(ErrInconsistentMatrixSize, "%d elements for %dx%d", n, rows, cols)
	}
	return nil
}

// CheckVector validates the length of a vector multiplied by a matrix with cols columns.
func CheckVector(n, cols int) error {
	if n != cols {
		return errors.Wrapf(ErrDimensionMismatch, "vector length %d != cols %d", n, cols)
	}
	return nil
}

// CountNonZero returns the number of elements different from zero.
func CountNonZero[T Number](m []T) int {
	return lo.CountBy(m, func(x T) bool { return x != 0 })
}
