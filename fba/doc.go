// Package fba runs flux balance analysis over a model.Network.
//
// BuildProblem turns a network (base model or overlay) into an lp.Problem:
// reactions become bounded variables, metabolites steady-state equality
// rows, and the active objective the LP objective. Optimizer wraps an
// lp.Solver with a per-call deadline, logging and metrics, and maps every
// non-optimal outcome to an absent Value instead of an error.
//
//	opt, _ := fba.New(solver, fba.WithTimeout(10*time.Second))
//	sol, err := opt.Optimize(ctx, m)
//	if v, ok := sol.Objective.Get(); ok { ... }
package fba
