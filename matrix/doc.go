// Package matrix offers the dense numeric storage used by the LP tableau and by
// stoichiometric-matrix exports.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with safe accessors (At/Set return
//     errors instead of panicking) and an optional finite-only numeric policy.
//   - Row operations used by elimination kernels: ScaleRow, AddScaledRow and
//     Pivot (Gauss–Jordan pivot on one element, the simplex workhorse).
//   - MatVec and Transpose for small verification tasks in tests and
//     diagnostics (e.g., checking S·v ≈ 0 for a flux vector).
//
// Dense matrices are best for small to medium systems, where O(r·c) memory
// is acceptable. Determinism: all kernels iterate rows and columns in fixed
// ascending order; there is no map iteration and no randomness.
//
// Errors:
//
//	ErrInvalidDimensions - negative shape (or zero shape in NewDense).
//	ErrOutOfRange        - row/column index outside the matrix.
//	ErrDimensionMismatch - operand lengths disagree.
//	ErrNaNInf            - NaN/±Inf rejected by the numeric policy.
//	ErrZeroPivot         - Pivot element is zero within tolerance.
//	ErrNilMatrix         - nil *Dense used.
package matrix
