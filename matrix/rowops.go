// SPDX-License-Identifier: MIT

// Package matrix - elementary row operations and small kernels.
//
// Purpose:
//   - Gauss–Jordan style row operations shared by elimination kernels (the
//     simplex tableau in package lp pivots exclusively through Pivot).
//   - MatVec/Transpose for verification of flux vectors against S.
//
// Determinism:
//   - Fixed ascending loops; identical inputs give bit-identical outputs.

package matrix

import (
	"fmt"
	"math"
)

// Operation name constants for unified error wrapping.
const (
	opScaleRow     = "ScaleRow"
	opAddScaledRow = "AddScaledRow"
	opPivot        = "Pivot"
	opMatVec       = "MatVec"
	opTranspose    = "Transpose"
)

// matrixErrorf wraps err with an operation tag, preserving the sentinel via %w.
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// ScaleRow multiplies row i by alpha in place.
// Errors: ErrOutOfRange, ErrNaNInf (non-finite alpha).
// Complexity: O(c).
func (m *Dense) ScaleRow(i int, alpha float64) error {
	if i < 0 || i >= m.r {
		return matrixErrorf(opScaleRow, ErrOutOfRange)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return matrixErrorf(opScaleRow, ErrNaNInf)
	}
	row := m.data[i*m.c : (i+1)*m.c]
	for j := range row {
		row[j] *= alpha
	}

	return nil
}

// AddScaledRow performs row[dst] += alpha * row[src] in place.
// Errors: ErrOutOfRange, ErrNaNInf (non-finite alpha).
// Complexity: O(c).
func (m *Dense) AddScaledRow(dst, src int, alpha float64) error {
	if dst < 0 || dst >= m.r || src < 0 || src >= m.r {
		return matrixErrorf(opAddScaledRow, ErrOutOfRange)
	}
	if math.IsNaN(alpha) || math.IsInf(alpha, 0) {
		return matrixErrorf(opAddScaledRow, ErrNaNInf)
	}
	if alpha == 0 {
		return nil
	}
	d := m.data[dst*m.c : (dst+1)*m.c]
	s := m.data[src*m.c : (src+1)*m.c]
	for j := range d {
		d[j] += alpha * s[j]
	}

	return nil
}

// Pivot performs a Gauss–Jordan pivot on element (pr, pc).
// MAIN DESCRIPTION:
//   - Scale row pr so that a[pr,pc] == 1, then eliminate column pc from
//     every other row.
//
// Implementation:
//   - Stage 1: bounds check and |a[pr,pc]| > tol check.
//   - Stage 2: scale the pivot row by 1/a[pr,pc]; force the pivot cell to 1.
//   - Stage 3: for each other row r with a[r,pc] != 0: row_r -= a[r,pc]·row_pr,
//     then force a[r,pc] to exactly 0 (kills round-off residue).
//
// Errors:
//   - ErrOutOfRange for invalid coordinates.
//   - ErrZeroPivot when |a[pr,pc]| <= tol.
//
// Complexity:
//   - Time O(r*c), Space O(1).
func (m *Dense) Pivot(pr, pc int, tol float64) error {
	if pr < 0 || pr >= m.r || pc < 0 || pc >= m.c {
		return matrixErrorf(opPivot, ErrOutOfRange)
	}
	c := m.c
	prow := m.data[pr*c : (pr+1)*c]
	pv := prow[pc]
	if math.Abs(pv) <= tol {
		return matrixErrorf(opPivot, ErrZeroPivot)
	}

	inv := 1 / pv
	for j := range prow {
		prow[j] *= inv
	}
	prow[pc] = 1

	for r := 0; r < m.r; r++ {
		if r == pr {
			continue
		}
		row := m.data[r*c : (r+1)*c]
		f := row[pc]
		if f == 0 {
			continue
		}
		for j := range row {
			row[j] -= f * prow[j]
		}
		row[pc] = 0
	}

	return nil
}

// MatVec computes y = m·x.
// Errors: ErrNilMatrix, ErrDimensionMismatch.
// Complexity: O(r*c).
func MatVec(m *Dense, x []float64) ([]float64, error) {
	if m == nil {
		return nil, matrixErrorf(opMatVec, ErrNilMatrix)
	}
	if len(x) != m.c {
		return nil, matrixErrorf(opMatVec, ErrDimensionMismatch)
	}
	y := make([]float64, m.r)
	for i := 0; i < m.r; i++ {
		sum := 0.0
		row := m.data[i*m.c : (i+1)*m.c]
		for j, v := range row {
			sum += v * x[j]
		}
		y[i] = sum
	}

	return y, nil
}

// Transpose returns a new c×r matrix with t[j,i] = m[i,j].
// Errors: ErrNilMatrix.
// Complexity: O(r*c).
func Transpose(m *Dense) (*Dense, error) {
	if m == nil {
		return nil, matrixErrorf(opTranspose, ErrNilMatrix)
	}
	t := &Dense{r: m.c, c: m.r, data: make([]float64, len(m.data))}
	for i := 0; i < m.r; i++ {
		for j := 0; j < m.c; j++ {
			t.data[j*m.r+i] = m.data[i*m.c+j]
		}
	}

	return t, nil
}
