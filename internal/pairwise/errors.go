package pairwise

import (
	"errors"
	"fmt"
)

// Domain errors for distance computation.
var (
	// ErrShapeMismatch indicates a position set whose length differs from n.
	ErrShapeMismatch = errors.New("pairwise: position count does not match n")

	// ErrNegativeCount indicates a negative particle count.
	ErrNegativeCount = errors.New("pairwise: negative particle count")

	// ErrInvalidBox indicates a box edge that is zero, negative or not finite.
	ErrInvalidBox = errors.New("pairwise: invalid box geometry")

	// ErrUnknownDiscipline indicates an unrecognized write discipline name.
	ErrUnknownDiscipline = errors.New("pairwise: unknown write discipline")

	// ErrAsymmetric indicates m[i][j] != m[j][i].
	ErrAsymmetric = errors.New("pairwise: matrix is not symmetric")

	// ErrNonZeroDiagonal indicates m[i][i] != 0.
	ErrNonZeroDiagonal = errors.New("pairwise: non-zero diagonal entry")

	// ErrNegativeDistance indicates an entry below zero.
	ErrNegativeDistance = errors.New("pairwise: negative distance")

	// ErrNonFinite indicates a NaN or Inf entry.
	ErrNonFinite = errors.New("pairwise: non-finite distance")
)

// PreconditionError is the panic value raised by Compute when the caller breaks
// the input contract.
type PreconditionError struct {
	N       int
	Len     int
	Wrapped error
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("%s (n=%d, len=%d)", e.Wrapped.Error(), e.N, e.Len)
}

func (e *PreconditionError) Unwrap() error {
	return e.Wrapped
}

// MatrixError wraps a validation failure with the offending cell.
type MatrixError struct {
	Row     int
	Col     int
	Value   float32
	Wrapped error
}

func (e *MatrixError) Error() string {
	return fmt.Sprintf("%s at (%d, %d): %g", e.Wrapped.Error(), e.Row, e.Col, e.Value)
}

func (e *MatrixError) Unwrap() error {
	return e.Wrapped
}
