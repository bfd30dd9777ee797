// SPDX-License-Identifier: MIT
// Package matrix: sentinel errors shared by the dense store and the tableau
// row operations. Detection sites wrap them with fmt.Errorf("Op: %w", ErrX);
// callers match with errors.Is. Indexers return errors instead of panicking.

package matrix

import "errors"

var (
	// ErrInvalidDimensions indicates that requested matrix dimensions are negative,
	// or zero where the public constructor requires a positive shape.
	ErrInvalidDimensions = errors.New("matrix: invalid dimensions")

	// ErrOutOfRange indicates that an index (row or column) is outside valid bounds.
	// Public indexers (At/Set/Row) MUST return this, not panic.
	ErrOutOfRange = errors.New("matrix: index out of range")

	// ErrDimensionMismatch indicates incompatible dimensions between operands,
	// e.g., MatVec with len(x) != Cols().
	ErrDimensionMismatch = errors.New("matrix: dimension mismatch")

	// ErrNaNInf signals a NaN or ±Inf value was encountered where finite values
	// are required by the numeric policy.
	ErrNaNInf = errors.New("matrix: NaN or Inf encountered")

	// ErrZeroPivot is returned by Pivot when the selected element is zero within
	// the supplied tolerance; pivoting on it would divide by ~0.
	ErrZeroPivot = errors.New("matrix: zero pivot")

	// ErrNilMatrix indicates that a nil *Dense (receiver or argument) was used.
	ErrNilMatrix = errors.New("matrix: nil receiver")
)
