package lp

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/matrix"
)

// SolverName is reported by Simplex.Name and recorded in report metadata.
const SolverName = "fbctest-simplex"

// Simplex is a dense two-phase primal simplex with Bland's anti-cycling rule.
// It holds only immutable parameters, so one value may serve many goroutines.
type Simplex struct {
	opts Options
}

// NewSimplex constructs a Simplex from DefaultOptions overlaid with opts.
// Errors: ErrOptionViolation when an option carried an invalid value.
func NewSimplex(opts ...Option) (*Simplex, error) {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	return &Simplex{opts: o}, nil
}

// Name implements Solver.
func (s *Simplex) Name() string { return SolverName }

// Solve implements Solver.
//
// Implementation:
//   - Stage 1: validate and convert p to min c·y, A y = b, y >= 0, b >= 0.
//   - Stage 2: seed the basis with +1 slacks; add artificials elsewhere.
//   - Stage 3: phase 1 minimizes the artificial sum; a positive optimum
//     above the feasibility tolerance yields StatusInfeasible.
//   - Stage 4: pivot remaining artificials out of the basis.
//   - Stage 5: phase 2 on the true costs; a column without a leaving row
//     yields StatusUnbounded.
//   - Stage 6: recover x and evaluate the objective on the original data.
//
// The context is polled every few pivots: an expired deadline returns
// StatusTimeLimit, cancellation returns ctx.Err().
//
// Complexity: O(iter · m · n) time, O(m · n) memory for the dense tableau.
func (s *Simplex) Solve(ctx context.Context, p *Problem) (Result, error) {
	if err := p.Validate(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return ctxResult(err)
	}
	tol := s.opts.Tolerance

	sf, ok := toStandardForm(p, tol)
	if !ok {
		return Result{Status: StatusInfeasible}, nil
	}

	tb, err := newTableau(sf, tol)
	if err != nil {
		return Result{}, err
	}

	budget := s.opts.MaxIterations
	if budget == 0 {
		budget = 50 * (tb.m + tb.n)
		if budget < 10000 {
			budget = 10000
		}
	}

	// phase 1
	if tb.nA > 0 {
		tb.loadPhase1Costs()
		status, err := tb.iterate(ctx, tb.nCols(), &budget)
		if err != nil || status != StatusOptimal {
			return Result{Status: status}, err
		}
		if infeas := -tb.objRHS(); infeas > tb.feasTol {
			return Result{Status: StatusInfeasible}, nil
		}
		if err := tb.evictArtificials(); err != nil {
			return Result{}, err
		}
	}

	// phase 2
	tb.loadPhase2Costs(sf.cost)
	status, err := tb.iterate(ctx, sf.nY+sf.nS, &budget)
	if err != nil || status != StatusOptimal {
		return Result{Status: status}, err
	}

	x := sf.recover(tb.primal(sf.nY))
	obj := 0.0
	for j, c := range p.Objective {
		obj += c * x[j]
	}

	return Result{Status: StatusOptimal, Objective: obj, X: x}, nil
}

func ctxResult(err error) (Result, error) {
	if errors.Is(err, context.DeadlineExceeded) {
		return Result{Status: StatusTimeLimit}, nil
	}

	return Result{}, err
}

// tableau stores constraint rows 0..m-1 and the cost row m; the last column
// is the right-hand side (the cost row's rhs cell holds −z).
type tableau struct {
	t       *matrix.Dense
	m       int // constraint rows
	n       int // structural + slack + artificial columns
	nA      int // artificial columns (the last nA of n)
	basis   []int
	tol     float64
	feasTol float64
}

func newTableau(sf *standardForm, tol float64) (*tableau, error) {
	m := len(sf.rows)
	width := sf.nY + sf.nS

	basis := make([]int, m)
	nA := 0
	maxRHS := 0.0
	for i, r := range sf.rows {
		if r.slack >= 0 && r.coef[r.slack] > 0 {
			basis[i] = r.slack
		} else {
			basis[i] = width + nA
			nA++
		}
		maxRHS = math.Max(maxRHS, r.rhs)
	}

	n := width + nA
	t, err := matrix.NewDense(m+1, n+1)
	if err != nil {
		return nil, fmt.Errorf("lp: tableau: %w", err)
	}
	for i, r := range sf.rows {
		row, _ := t.RowView(i)
		copy(row, r.coef)
		row[n] = r.rhs
		if basis[i] >= width {
			row[basis[i]] = 1
		}
	}

	return &tableau{
		t:       t,
		m:       m,
		n:       n,
		nA:      nA,
		basis:   basis,
		tol:     tol,
		feasTol: 1e-7 * (1 + maxRHS),
	}, nil
}

func (tb *tableau) nCols() int { return tb.n }

func (tb *tableau) isArtificial(col int) bool { return col >= tb.n-tb.nA }

func (tb *tableau) objRow() []float64 {
	row, _ := tb.t.RowView(tb.m)
	return row
}

func (tb *tableau) objRHS() float64 { return tb.objRow()[tb.n] }

// loadPhase1Costs prices out the basic artificials from the cost row.
func (tb *tableau) loadPhase1Costs() {
	obj := tb.objRow()
	for j := range obj {
		obj[j] = 0
	}
	for j := tb.n - tb.nA; j < tb.n; j++ {
		obj[j] = 1
	}
	for i, b := range tb.basis {
		if tb.isArtificial(b) {
			_ = tb.t.AddScaledRow(tb.m, i, -1)
		}
	}
}

// loadPhase2Costs installs cost (structural columns only) in canonical form.
func (tb *tableau) loadPhase2Costs(cost []float64) {
	obj := tb.objRow()
	for j := range obj {
		obj[j] = 0
	}
	copy(obj, cost)
	for i, b := range tb.basis {
		if b < len(cost) && cost[b] != 0 {
			_ = tb.t.AddScaledRow(tb.m, i, -cost[b])
		}
	}
}

// evictArtificials swaps each basic artificial (at level zero after a
// feasible phase 1) for any non-artificial column with a nonzero entry.
// Rows with no such entry are redundant and keep their artificial at zero.
func (tb *tableau) evictArtificials() error {
	for i, b := range tb.basis {
		if !tb.isArtificial(b) {
			continue
		}
		row, _ := tb.t.RowView(i)
		row[tb.n] = 0
		for j := 0; j < tb.n-tb.nA; j++ {
			if math.Abs(row[j]) > tb.tol {
				if err := tb.t.Pivot(i, j, 0); err != nil {
					return fmt.Errorf("lp: evict artificial: %w", err)
				}
				tb.basis[i] = j
				break
			}
		}
	}

	return nil
}

// iterate runs Bland-rule pivots over entering columns [0, limit).
func (tb *tableau) iterate(ctx context.Context, limit int, budget *int) (Status, error) {
	obj := tb.objRow()
	for step := 0; ; step++ {
		if step%checkEvery == 0 {
			if err := ctx.Err(); err != nil {
				r, err := ctxResult(err)
				return r.Status, err
			}
		}

		// entering: smallest index with negative reduced cost
		q := -1
		for j := 0; j < limit; j++ {
			if obj[j] < -tb.tol {
				q = j
				break
			}
		}
		if q < 0 {
			return StatusOptimal, nil
		}

		// leaving: minimum ratio, ties broken by smallest basic index
		p := -1
		best := math.Inf(1)
		for i := 0; i < tb.m; i++ {
			row, _ := tb.t.RowView(i)
			a := row[q]
			if a <= tb.tol {
				continue
			}
			ratio := row[tb.n] / a
			switch {
			case p < 0 || ratio < best-tb.tol:
				p, best = i, ratio
			case ratio <= best+tb.tol && tb.basis[i] < tb.basis[p]:
				p, best = i, math.Min(best, ratio)
			}
		}
		if p < 0 {
			return StatusUnbounded, nil
		}

		if *budget <= 0 {
			return 0, fmt.Errorf("%w after %d pivots", ErrIterationLimit, step)
		}
		*budget--

		if err := tb.t.Pivot(p, q, 0); err != nil {
			return 0, fmt.Errorf("lp: pivot (%d,%d): %w", p, q, err)
		}
		tb.basis[p] = q
		tb.clampRHS()
	}
}

// clampRHS zeroes round-off negatives in the basic solution.
func (tb *tableau) clampRHS() {
	for i := 0; i < tb.m; i++ {
		row, _ := tb.t.RowView(i)
		if v := row[tb.n]; v < 0 && v > -tb.feasTol {
			row[tb.n] = 0
		}
	}
}

// primal extracts the values of the first nY columns.
func (tb *tableau) primal(nY int) []float64 {
	y := make([]float64, nY)
	for i, b := range tb.basis {
		if b < nY {
			row, _ := tb.t.RowView(i)
			y[b] = math.Max(row[tb.n], 0)
		}
	}

	return y
}
