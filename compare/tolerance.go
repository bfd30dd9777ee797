// Package compare certifies that two reproducibility reports, or two
// metadata records, agree: it walks both trees and yields a tree of
// findings with one leaf per compared value.
package compare

import (
	"math"

	"github.com/katalvlaran/fbctest/fba"
)

// Tolerance bounds the accepted difference between two present values.
type Tolerance struct {
	Absolute float64
	Relative float64
}

// DefaultTolerance is 1e-6 absolute and 1e-6 relative.
func DefaultTolerance() Tolerance { return Tolerance{Absolute: 1e-6, Relative: 1e-6} }

// InTol reports whether x and y agree:
//
//	absent, absent  → true
//	absent, present → false
//	present x, y    → |x − y| <= Absolute, and either x and y share a sign
//	                  or max(|x|,|y|) <= (1 + Relative)·min(|x|,|y|)
//
// Zero shares a sign with every value. NaN agrees with nothing but NaN.
func InTol(x, y fba.Value, tol Tolerance) bool {
	if !x.Valid || !y.Valid {
		return x.Valid == y.Valid
	}
	a, b := x.Float, y.Float
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}
	if a == b {
		return true
	}
	if math.Abs(a-b) > tol.Absolute {
		return false
	}
	if a*b >= 0 {
		return true
	}
	lo, hi := math.Abs(a), math.Abs(b)
	if lo > hi {
		lo, hi = hi, lo
	}

	return hi <= (1+tol.Relative)*lo
}
