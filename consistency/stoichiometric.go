package consistency

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
)

// Kinds reported to the optimizer's logs and metrics.
const (
	kindConsistency = "stoichiometric_consistency"
	kindUnconserved = "unconserved_metabolites"
)

// IsConsistent reports whether a strictly positive mass vector m exists
// with mᵀS = 0 over every non-exempt reaction.
//
// LP:
//
//	minimize   Σ m_i
//	subject to Σ_i m_i·S_ir = 0   for each non-exempt reaction r
//	           m_i >= 1
//
// Infeasibility means inconsistency and yields (false, nil); a deadline
// yields ErrInconclusive; solver failures are returned as errors.
// Formulas and charges are not consulted.
func IsConsistent(ctx context.Context, net model.Network, opt *fba.Optimizer, opts ...Option) (bool, error) {
	o, err := prepare(net, opt, opts)
	if err != nil {
		return false, err
	}
	mets := net.Metabolites()
	p := &lp.Problem{
		Bounds:    make([]lp.Bound, len(mets)),
		Objective: make([]float64, len(mets)),
		Sense:     lp.Minimize,
	}
	for i := range mets {
		p.Bounds[i] = lp.Bound{Lower: 1, Upper: math.Inf(1)}
		p.Objective[i] = 1
	}
	p.Constraints = massRows(net, &o, indexOf(mets))

	res, err := opt.SolveProblem(ctx, p, kindConsistency)
	if err != nil {
		return false, fmt.Errorf("consistency: %w", err)
	}
	switch res.Status {
	case lp.StatusOptimal:
		return true, nil
	case lp.StatusTimeLimit:
		return false, fmt.Errorf("%w: %s", ErrInconclusive, kindConsistency)
	default:
		return false, nil
	}
}

// UnconservedMetabolites returns the metabolites that cannot carry positive
// mass in any conservation vector, in declaration order. It is empty
// exactly when IsConsistent is true.
//
// LP:
//
//	maximize   Σ k_i
//	subject to Σ_i m_i·S_ir = 0   for each non-exempt reaction r
//	           m_i − k_i >= 0,  m_i >= 0,  0 <= k_i <= 1
//
// Complexity: one LP with 2|M| variables and |R|+|M| rows.
func UnconservedMetabolites(ctx context.Context, net model.Network, opt *fba.Optimizer, opts ...Option) ([]string, error) {
	o, err := prepare(net, opt, opts)
	if err != nil {
		return nil, err
	}
	mets := net.Metabolites()
	n := len(mets)
	p := &lp.Problem{
		Bounds:    make([]lp.Bound, 2*n),
		Objective: make([]float64, 2*n),
		Sense:     lp.Maximize,
	}
	for i := 0; i < n; i++ {
		p.Bounds[i] = lp.NonNegative()
		p.Bounds[n+i] = lp.Bound{Lower: 0, Upper: 1}
		p.Objective[n+i] = 1
	}
	p.Constraints = massRows(net, &o, indexOf(mets))
	for i, m := range mets {
		p.Constraints = append(p.Constraints, lp.Constraint{
			Name:     "k_" + m.ID,
			Coeffs:   map[int]float64{i: 1, n + i: -1},
			Relation: lp.GE,
		})
	}

	res, err := opt.SolveProblem(ctx, p, kindUnconserved)
	if err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}
	if res.Status != lp.StatusOptimal {
		return nil, fmt.Errorf("%w: %s ended %s", ErrInconclusive, kindUnconserved, res.Status)
	}

	var out []string
	for i, m := range mets {
		if res.X[n+i] < 0.5 {
			out = append(out, m.ID)
		}
	}

	return out, nil
}

func prepare(net model.Network, opt *fba.Optimizer, opts []Option) (Options, error) {
	if net == nil {
		return Options{}, ErrNilNetwork
	}
	if opt == nil {
		return Options{}, ErrNilOptimizer
	}

	return buildOptions(opts)
}

func indexOf(mets []*model.Metabolite) map[string]int {
	idx := make(map[string]int, len(mets))
	for i, m := range mets {
		idx[m.ID] = i
	}

	return idx
}

// massRows emits one equality row Σ_i m_i·S_ir = 0 per non-exempt reaction.
func massRows(net model.Network, o *Options, idx map[string]int) []lp.Constraint {
	var rows []lp.Constraint
	for _, r := range net.Reactions() {
		if o.exempt(r) {
			continue
		}
		coeffs := make(map[int]float64, len(r.Stoichiometry))
		for mid, c := range r.Stoichiometry {
			if c != 0 {
				coeffs[idx[mid]] += c
			}
		}
		if len(coeffs) == 0 {
			continue
		}
		rows = append(rows, lp.Constraint{Name: r.ID, Coeffs: coeffs, Relation: lp.EQ})
	}

	return rows
}

// ExemptReactions lists the reactions excluded from mass balance under
// opts, sorted.
func ExemptReactions(net model.Network, opts ...Option) ([]string, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, r := range net.Reactions() {
		if o.exempt(r) {
			out = append(out, r.ID)
		}
	}
	sort.Strings(out)

	return out, nil
}
