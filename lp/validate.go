package lp

import (
	"fmt"
	"math"
)

// Validate checks structural well-formedness of p.
//
// Inverted bounds (Lower > Upper) are NOT an error: they describe an empty
// feasible set and are reported by the solver as StatusInfeasible.
//
// Errors: ErrInvalidProblem wrapped with the offending location.
func (p *Problem) Validate() error {
	if p == nil {
		return fmt.Errorf("%w: nil problem", ErrInvalidProblem)
	}
	n := len(p.Bounds)
	if len(p.Objective) != n {
		return fmt.Errorf("%w: objective has %d entries, want %d", ErrInvalidProblem, len(p.Objective), n)
	}
	if p.Names != nil && len(p.Names) != n {
		return fmt.Errorf("%w: names has %d entries, want %d", ErrInvalidProblem, len(p.Names), n)
	}
	for j, b := range p.Bounds {
		if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) {
			return fmt.Errorf("%w: NaN bound on variable %d", ErrInvalidProblem, j)
		}
		if math.IsInf(b.Lower, 1) || math.IsInf(b.Upper, -1) {
			return fmt.Errorf("%w: bound of variable %d excludes every finite value", ErrInvalidProblem, j)
		}
		if c := p.Objective[j]; math.IsNaN(c) || math.IsInf(c, 0) {
			return fmt.Errorf("%w: non-finite objective coefficient on variable %d", ErrInvalidProblem, j)
		}
	}
	for i, row := range p.Constraints {
		if math.IsNaN(row.RHS) || math.IsInf(row.RHS, 0) {
			return fmt.Errorf("%w: non-finite rhs in constraint %d (%s)", ErrInvalidProblem, i, row.Name)
		}
		switch row.Relation {
		case EQ, LE, GE:
		default:
			return fmt.Errorf("%w: unknown relation in constraint %d (%s)", ErrInvalidProblem, i, row.Name)
		}
		for j, a := range row.Coeffs {
			if j < 0 || j >= n {
				return fmt.Errorf("%w: constraint %d (%s) references variable %d", ErrInvalidProblem, i, row.Name, j)
			}
			if math.IsNaN(a) || math.IsInf(a, 0) {
				return fmt.Errorf("%w: non-finite coefficient in constraint %d (%s)", ErrInvalidProblem, i, row.Name)
			}
		}
	}

	return nil
}
