// Package matrix_test contains unit tests for Dense storage and row operations.
package matrix_test

import (
	"math"
	"testing"

	"github.com/katalvlaran/fbctest/matrix"
	"github.com/stretchr/testify/require"
)

// TestNewDenseInvalidDimensions ensures that NewDense rejects negative dimensions
// and accepts empty shapes.
func TestNewDenseInvalidDimensions(t *testing.T) {
	_, err := matrix.NewDense(-1, 5)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	_, err = matrix.NewDense(5, -1)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)

	m, err := matrix.NewDense(0, 3) // empty constraint block is legal
	require.NoError(t, err)
	require.Equal(t, 0, m.Rows())
	require.Equal(t, 3, m.Cols())
}

// TestAtSetOutOfBounds ensures At() and Set() return ErrOutOfRange on invalid access.
func TestAtSetOutOfBounds(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	_, err = m.At(-1, 0)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.At(0, 2)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	err = m.Set(2, 0, 1.23)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)

	_, err = m.Row(5)
	require.ErrorIs(t, err, matrix.ErrOutOfRange)
}

// TestSetRejectsNonFinite verifies the finite-only numeric policy.
func TestSetRejectsNonFinite(t *testing.T) {
	m, err := matrix.NewDense(1, 1)
	require.NoError(t, err)

	require.ErrorIs(t, m.Set(0, 0, math.NaN()), matrix.ErrNaNInf)
	require.ErrorIs(t, m.Set(0, 0, math.Inf(1)), matrix.ErrNaNInf)
}

// TestCloneIndependence ensures Clone() returns a deep copy that does not share storage.
func TestCloneIndependence(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, 0}, {0, 2}})
	require.NoError(t, err)

	clone := m.Clone()
	require.NoError(t, clone.Set(0, 0, 3.0))

	v, err := m.At(0, 0)
	require.NoError(t, err)
	require.Equal(t, 1.0, v)
}

// TestNewDenseFromRagged rejects rows of unequal length.
func TestNewDenseFromRagged(t *testing.T) {
	_, err := matrix.NewDenseFrom([][]float64{{1, 2}, {3}})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
}

// TestRowViewAliases confirms that writes through RowView reach the matrix,
// while Row returns an independent copy.
func TestRowViewAliases(t *testing.T) {
	m, err := matrix.NewDense(2, 2)
	require.NoError(t, err)

	view, err := m.RowView(1)
	require.NoError(t, err)
	view[0] = 4

	v, err := m.At(1, 0)
	require.NoError(t, err)
	require.Equal(t, 4.0, v)

	cp, err := m.Row(1)
	require.NoError(t, err)
	cp[0] = 9
	v, _ = m.At(1, 0)
	require.Equal(t, 4.0, v)
}

// TestPivot checks a Gauss–Jordan pivot against a hand-computed result.
func TestPivot(t *testing.T) {
	// [2 4 | 6]
	// [1 3 | 5]
	m, err := matrix.NewDenseFrom([][]float64{{2, 4, 6}, {1, 3, 5}})
	require.NoError(t, err)

	require.NoError(t, m.Pivot(0, 0, 1e-12))
	// Row0 = [1 2 3]; Row1 = [1 3 5] - 1*[1 2 3] = [0 1 2]
	r0, _ := m.Row(0)
	r1, _ := m.Row(1)
	require.Equal(t, []float64{1, 2, 3}, r0)
	require.Equal(t, []float64{0, 1, 2}, r1)

	require.NoError(t, m.Pivot(1, 1, 1e-12))
	r0, _ = m.Row(0)
	require.Equal(t, []float64{1, 0, -1}, r0)
}

// TestPivotZero ensures a zero pivot is reported instead of dividing by zero.
func TestPivotZero(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{0, 1}, {1, 0}})
	require.NoError(t, err)
	require.ErrorIs(t, m.Pivot(0, 0, 1e-12), matrix.ErrZeroPivot)
	require.ErrorIs(t, m.Pivot(3, 0, 1e-12), matrix.ErrOutOfRange)
}

// TestRowOps covers ScaleRow and AddScaledRow.
func TestRowOps(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, 2}, {3, 4}})
	require.NoError(t, err)

	require.NoError(t, m.ScaleRow(0, 2))
	require.NoError(t, m.AddScaledRow(1, 0, -1.5))
	r0, _ := m.Row(0)
	r1, _ := m.Row(1)
	require.Equal(t, []float64{2, 4}, r0)
	require.Equal(t, []float64{0, -2}, r1)

	require.ErrorIs(t, m.ScaleRow(0, math.Inf(1)), matrix.ErrNaNInf)
	require.ErrorIs(t, m.AddScaledRow(0, 7, 1), matrix.ErrOutOfRange)
}

// TestMatVecTranspose validates the small kernels.
func TestMatVecTranspose(t *testing.T) {
	m, err := matrix.NewDenseFrom([][]float64{{1, -1, 0}, {0, 1, -1}})
	require.NoError(t, err)

	y, err := matrix.MatVec(m, []float64{2, 2, 2})
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0}, y)

	_, err = matrix.MatVec(m, []float64{1})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)

	tr, err := matrix.Transpose(m)
	require.NoError(t, err)
	require.Equal(t, 3, tr.Rows())
	v, _ := tr.At(2, 1)
	require.Equal(t, -1.0, v)

	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}
