// Package lp defines the linear-programming contract consumed by the analyses
// (Problem, Result, Solver) together with sentinel errors.
package lp

import (
	"context"
	"errors"
	"fmt"
	"math"
)

// Sentinel errors for LP construction and solving.
var (
	// ErrInvalidProblem is returned when a Problem is malformed (length
	// mismatch, NaN coefficient, unknown variable index). It signals a
	// backend/model failure and is never used for infeasibility.
	ErrInvalidProblem = errors.New("lp: invalid problem")

	// ErrIterationLimit is returned when the simplex exceeds its pivot budget.
	ErrIterationLimit = errors.New("lp: iteration limit reached")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("lp: invalid option supplied")
)

// Sense selects minimization or maximization of the objective.
type Sense int

const (
	// Maximize is the zero value because flux balance objectives are maximized
	// unless stated otherwise.
	Maximize Sense = iota
	// Minimize the objective.
	Minimize
)

// String implements fmt.Stringer.
func (s Sense) String() string {
	if s == Minimize {
		return "min"
	}
	return "max"
}

// Status is the terminal state of a solve.
type Status int

const (
	// StatusOptimal means an optimal basic solution was found.
	StatusOptimal Status = iota
	// StatusInfeasible means no point satisfies bounds and constraints.
	StatusInfeasible
	// StatusUnbounded means the objective improves without limit.
	StatusUnbounded
	// StatusTimeLimit means the context deadline expired before termination.
	StatusTimeLimit
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "optimal"
	case StatusInfeasible:
		return "infeasible"
	case StatusUnbounded:
		return "unbounded"
	case StatusTimeLimit:
		return "time_limit"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Relation is the comparison used by a Constraint row.
type Relation int

const (
	// EQ is Σ a_j x_j == RHS.
	EQ Relation = iota
	// LE is Σ a_j x_j <= RHS.
	LE
	// GE is Σ a_j x_j >= RHS.
	GE
)

// Bound is a closed variable interval; either side may be infinite.
type Bound struct {
	Lower float64
	Upper float64
}

// Free returns the unbounded interval (-Inf, +Inf).
func Free() Bound { return Bound{Lower: math.Inf(-1), Upper: math.Inf(1)} }

// NonNegative returns [0, +Inf).
func NonNegative() Bound { return Bound{Lower: 0, Upper: math.Inf(1)} }

// Constraint is one sparse linear row over variable indices.
type Constraint struct {
	Name     string
	Coeffs   map[int]float64
	Relation Relation
	RHS      float64
}

// Problem is a linear program over len(Bounds) variables:
//
//	optimize  Σ Objective[j]·x_j
//	subject   Constraints,  Bounds[j].Lower <= x_j <= Bounds[j].Upper
//
// Names is optional and only used for diagnostics.
type Problem struct {
	Names       []string
	Bounds      []Bound
	Objective   []float64
	Sense       Sense
	Constraints []Constraint
}

// NumVars reports the number of decision variables.
func (p *Problem) NumVars() int { return len(p.Bounds) }

// Result carries the outcome of Solver.Solve. X and Objective are only
// meaningful when Status == StatusOptimal.
type Result struct {
	Status    Status
	Objective float64
	X         []float64
}

// Feasible reports whether the solve produced a usable optimum.
func (r Result) Feasible() bool { return r.Status == StatusOptimal }

// Solver is the black-box optimizer contract. Implementations must be safe for
// concurrent use: many goroutines call Solve with distinct problems.
//
// Infeasibility, unboundedness and deadline expiry are reported through
// Result.Status; a non-nil error means the backend itself failed.
type Solver interface {
	Solve(ctx context.Context, p *Problem) (Result, error)
	Name() string
}
