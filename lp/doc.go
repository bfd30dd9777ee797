// SPDX-License-Identifier: MIT

// Package lp is the optimization boundary of fbctest.
//
// MAIN DESCRIPTION
//
//	Every analysis (flux balance, variability, knockouts, stoichiometric
//	consistency, energy-cycle detection) reduces to a linear program over
//	reaction fluxes or metabolite masses. Package lp defines that program
//	(Problem, Constraint, Bound), the result contract (Result, Status) and
//	the Solver interface. A dense two-phase primal simplex (Simplex) is the
//	bundled implementation.
//
// Status vs. error
//
//	Infeasible, unbounded and time-limited solves are ordinary outcomes and
//	are reported through Result.Status. A returned error always means the
//	problem was malformed (ErrInvalidProblem), the solver exhausted its pivot
//	budget (ErrIterationLimit) or the context was cancelled.
//
// Options
//
//	WithTolerance(tol)      pivot / reduced-cost tolerance (default 1e-9)
//	WithMaxIterations(n)    pivot budget; 0 derives it from problem size
//
// Complexity
//
//	Dense tableau: O(m·n) memory and O(m·n) per pivot, where m counts
//	constraint rows plus finite two-sided bounds and n counts columns after
//	splitting free variables and adding slacks.
package lp
