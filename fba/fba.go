package fba

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/katalvlaran/fbctest/logging"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/metrics"
	"github.com/katalvlaran/fbctest/model"
)

// Sentinel errors.
var (
	// ErrNilSolver is returned by New without a solver.
	ErrNilSolver = errors.New("fba: nil solver")

	// ErrNilNetwork is returned when a nil network is optimized.
	ErrNilNetwork = errors.New("fba: nil network")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("fba: invalid option supplied")
)

// KindBase labels plain (unperturbed) solves in logs and metrics.
const KindBase = "base"

// Option configures an Optimizer.
type Option func(*Optimizer)

// WithTimeout bounds every optimizer call; an expired deadline is reported
// as an absent value. d == 0 disables the bound; d < 0 is invalid.
func WithTimeout(d time.Duration) Option {
	return func(o *Optimizer) {
		if d < 0 {
			o.err = fmt.Errorf("%w: timeout cannot be negative (%s)", ErrOptionViolation, d)
			return
		}
		o.timeout = d
	}
}

// WithLogger sets the logger (default no-op).
func WithLogger(l *zap.Logger) Option {
	return func(o *Optimizer) { o.logger = logging.OrNop(l) }
}

// WithMetrics records every call on c.
func WithMetrics(c *metrics.Collector) Option {
	return func(o *Optimizer) { o.metrics = c }
}

// Optimizer adapts a model.Network to an lp.Solver. It holds no per-call
// state and is safe for concurrent use when the solver is.
type Optimizer struct {
	solver  lp.Solver
	timeout time.Duration
	logger  *zap.Logger
	metrics *metrics.Collector

	err error
}

// New wraps solver.
// Errors: ErrNilSolver, ErrOptionViolation.
func New(solver lp.Solver, opts ...Option) (*Optimizer, error) {
	if solver == nil {
		return nil, ErrNilSolver
	}
	o := &Optimizer{solver: solver, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return o, nil
}

// SolverName identifies the backend.
func (o *Optimizer) SolverName() string { return o.solver.Name() }

// Logger returns the configured logger.
func (o *Optimizer) Logger() *zap.Logger { return o.logger }

// Metrics returns the configured collector (possibly nil).
func (o *Optimizer) Metrics() *metrics.Collector { return o.metrics }

// Solution is the outcome of Optimize. Objective is absent unless Status is
// optimal; Fluxes is nil then as well.
type Solution struct {
	Status    lp.Status
	Objective Value
	Fluxes    map[string]float64
}

// Flux returns the flux of rid, absent when the solve failed.
func (s Solution) Flux(rid string) Value {
	if s.Fluxes == nil {
		return None()
	}
	f, ok := s.Fluxes[rid]
	if !ok {
		return None()
	}
	return Some(f)
}

// Optimize solves net for its active objective.
//
// Infeasible, unbounded and timed-out solves are not errors: they return a
// Solution with the corresponding status. Errors come from malformed
// problems, solver failures and caller cancellation.
func (o *Optimizer) Optimize(ctx context.Context, net model.Network) (Solution, error) {
	return o.optimize(ctx, net, KindBase)
}

// Evaluate solves net and returns only the objective value; kind labels the
// call in logs and metrics.
func (o *Optimizer) Evaluate(ctx context.Context, net model.Network, kind string) (Value, error) {
	sol, err := o.optimize(ctx, net, kind)
	if err != nil {
		return None(), err
	}

	return sol.Objective, nil
}

func (o *Optimizer) optimize(ctx context.Context, net model.Network, kind string) (Solution, error) {
	p, rids, err := BuildProblem(net)
	if err != nil {
		return Solution{}, err
	}
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}

	start := time.Now()
	res, err := o.solver.Solve(ctx, p)
	elapsed := time.Since(start)
	if err != nil {
		o.metrics.ObserveSolve(kind, "error", elapsed)
		return Solution{}, fmt.Errorf("fba: %s solve of %q with %s: %w", kind, net.ID(), o.solver.Name(), err)
	}
	o.metrics.ObserveSolve(kind, res.Status.String(), elapsed)
	if ce := o.logger.Check(zap.DebugLevel, "solve"); ce != nil {
		ce.Write(
			zap.String("kind", kind),
			zap.String("model", net.ID()),
			zap.Stringer("status", res.Status),
			zap.Float64("objective", res.Objective),
			zap.Duration("elapsed", elapsed),
		)
	}

	sol := Solution{Status: res.Status}
	if res.Status != lp.StatusOptimal {
		return sol, nil
	}
	sol.Objective = Some(res.Objective)
	sol.Fluxes = make(map[string]float64, len(rids))
	for j, rid := range rids {
		sol.Fluxes[rid] = res.X[j]
	}

	return sol, nil
}

// SolveProblem solves a raw LP under the same deadline, logging and
// metrics as network solves. It serves analyses whose variables are not
// reaction fluxes (e.g. metabolite masses).
func (o *Optimizer) SolveProblem(ctx context.Context, p *lp.Problem, kind string) (lp.Result, error) {
	if o.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, o.timeout)
		defer cancel()
	}
	start := time.Now()
	res, err := o.solver.Solve(ctx, p)
	elapsed := time.Since(start)
	if err != nil {
		o.metrics.ObserveSolve(kind, "error", elapsed)
		return lp.Result{}, fmt.Errorf("fba: %s solve with %s: %w", kind, o.solver.Name(), err)
	}
	o.metrics.ObserveSolve(kind, res.Status.String(), elapsed)
	o.logger.Debug("solve",
		zap.String("kind", kind),
		zap.Stringer("status", res.Status),
		zap.Duration("elapsed", elapsed),
	)

	return res, nil
}

// BuildProblem translates net into an LP: one variable per reaction (in
// Reactions order, effective bounds), one steady-state row per metabolite
// that takes part in any reaction, the network's extra constraints, and
// its active objective. The returned IDs name the variables.
//
// Complexity: O(|R| + nnz(S)).
func BuildProblem(net model.Network) (*lp.Problem, []string, error) {
	if net == nil {
		return nil, nil, ErrNilNetwork
	}
	rxns := net.Reactions()
	col := make(map[string]int, len(rxns))
	p := &lp.Problem{
		Names:     make([]string, len(rxns)),
		Bounds:    make([]lp.Bound, len(rxns)),
		Objective: make([]float64, len(rxns)),
	}

	rows := make(map[string]map[int]float64)
	var order []string
	for j, r := range rxns {
		col[r.ID] = j
		p.Names[j] = r.ID
		b, _ := net.Bounds(r.ID)
		p.Bounds[j] = b
		for _, mid := range r.MetaboliteIDs() {
			row, ok := rows[mid]
			if !ok {
				row = make(map[int]float64)
				rows[mid] = row
				order = append(order, mid)
			}
			row[j] += r.Stoichiometry[mid]
		}
	}

	// rows follow metabolite declaration order
	for _, m := range net.Metabolites() {
		if row, ok := rows[m.ID]; ok {
			p.Constraints = append(p.Constraints, lp.Constraint{Name: m.ID, Coeffs: row, Relation: lp.EQ})
			delete(rows, m.ID)
		}
	}
	for _, mid := range order {
		if row, ok := rows[mid]; ok {
			p.Constraints = append(p.Constraints, lp.Constraint{Name: mid, Coeffs: row, Relation: lp.EQ})
		}
	}

	for _, c := range net.Constraints() {
		coeffs := make(map[int]float64, len(c.Coefficients))
		for rid, a := range c.Coefficients {
			j, ok := col[rid]
			if !ok {
				return nil, nil, fmt.Errorf("fba: constraint %q: %w: %q", c.Name, model.ErrUnknownReaction, rid)
			}
			coeffs[j] = a
		}
		p.Constraints = append(p.Constraints, lp.Constraint{Name: c.Name, Coeffs: coeffs, Relation: c.Relation, RHS: c.RHS})
	}

	obj := net.Objective()
	p.Sense = obj.Sense
	for rid, c := range obj.Coefficients {
		j, ok := col[rid]
		if !ok {
			return nil, nil, fmt.Errorf("fba: objective %q: %w: %q", obj.ID, model.ErrUnknownReaction, rid)
		}
		p.Objective[j] = c
	}

	return p, p.Names, nil
}

// OptimumConstraint returns the row that keeps net's objective at least
// fraction (0, 1] as good as optimum: a GE row for maximization, LE for
// minimization. A tiny slack proportional to |optimum| absorbs solver
// round-off so the re-optimized problem stays feasible.
func OptimumConstraint(obj model.Objective, optimum, fraction float64) model.Constraint {
	slack := 1e-9 * math.Max(1, math.Abs(optimum))
	c := model.Constraint{Name: "objective_" + obj.ID, Coefficients: obj.Coefficients}

	// relaxing toward worse values: shrink when the optimum is on the
	// improving side of zero, grow otherwise
	improving := optimum >= 0
	if obj.Sense == lp.Minimize {
		improving = optimum <= 0
	}
	target := optimum
	if fraction > 0 && fraction < 1 {
		if improving {
			target = fraction * optimum
		} else {
			target = optimum / fraction
		}
	}

	if obj.Sense == lp.Minimize {
		c.Relation = lp.LE
		c.RHS = target + slack
		return c
	}
	c.Relation = lp.GE
	c.RHS = target - slack

	return c
}
