package lp

import (
	"fmt"
	"math"
)

// Defaults (single source of truth).
const (
	// DefaultTolerance is the pivot/reduced-cost tolerance of the simplex.
	DefaultTolerance = 1e-9

	// DefaultMaxIterations bounds the number of pivots per phase pair.
	// Zero means "derive from problem size" (50 × (rows + cols), at least 10 000).
	DefaultMaxIterations = 0

	// checkEvery is the pivot interval between context checks.
	checkEvery = 16
)

// Options holds simplex parameters. Fields are set through Option values.
type Options struct {
	Tolerance     float64
	MaxIterations int

	// internal error recorded during option parsing
	err error
}

// Option configures a Simplex. Invalid values are recorded and surfaced as
// ErrOptionViolation by NewSimplex.
type Option func(*Options)

// DefaultOptions returns production-safe defaults.
func DefaultOptions() Options {
	return Options{Tolerance: DefaultTolerance, MaxIterations: DefaultMaxIterations}
}

// WithTolerance sets the numeric tolerance (finite, > 0).
func WithTolerance(tol float64) Option {
	return func(o *Options) {
		if !(tol > 0) || math.IsInf(tol, 0) {
			o.err = fmt.Errorf("%w: tolerance must be finite and positive (%g)", ErrOptionViolation, tol)
			return
		}
		o.Tolerance = tol
	}
}

// WithMaxIterations caps the pivot count.
//
//	n > 0: explicit cap
//	n == 0: size-derived cap
//	n < 0: invalid option → ErrOptionViolation
func WithMaxIterations(n int) Option {
	return func(o *Options) {
		if n < 0 {
			o.err = fmt.Errorf("%w: MaxIterations cannot be negative (%d)", ErrOptionViolation, n)
			return
		}
		o.MaxIterations = n
	}
}
