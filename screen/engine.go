package screen

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/logging"
	"github.com/katalvlaran/fbctest/model"
)

// Sentinel errors.
var (
	// ErrNilOptimizer is returned by NewEngine without an optimizer.
	ErrNilOptimizer = errors.New("screen: nil optimizer")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("screen: invalid option supplied")
)

// DefaultWorkers runs perturbations sequentially.
const DefaultWorkers = 1

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the worker-pool size (n >= 1).
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n < 1 {
			e.err = fmt.Errorf("%w: workers must be >= 1 (%d)", ErrOptionViolation, n)
			return
		}
		e.workers = n
	}
}

// WithLogger sets the logger (default: the optimizer's).
func WithLogger(l *zap.Logger) Option {
	return func(e *Engine) { e.logger = logging.OrNop(l) }
}

// Engine runs batches of independent perturbations over a bounded pool.
// It is stateless between calls; one Engine may serve concurrent batches,
// each bounded by its own pool.
type Engine struct {
	opt     *fba.Optimizer
	workers int
	logger  *zap.Logger

	err error
}

// NewEngine builds an Engine over opt.
// Errors: ErrNilOptimizer, ErrOptionViolation.
func NewEngine(opt *fba.Optimizer, opts ...Option) (*Engine, error) {
	if opt == nil {
		return nil, ErrNilOptimizer
	}
	e := &Engine{opt: opt, workers: DefaultWorkers, logger: opt.Logger()}
	for _, o := range opts {
		o(e)
	}
	if e.err != nil {
		return nil, e.err
	}

	return e, nil
}

// Optimizer returns the wrapped optimizer.
func (e *Engine) Optimizer() *fba.Optimizer { return e.opt }

// Workers returns the pool size.
func (e *Engine) Workers() int { return e.workers }

// Base solves net without perturbation.
func (e *Engine) Base(ctx context.Context, net model.Network) (fba.Solution, error) {
	return e.opt.Optimize(ctx, net)
}

// Run evaluates every perturbation in ps against its own overlay of net.
//
// Implementation:
//   - Stage 1: allocate one result slot per perturbation.
//   - Stage 2: submit one task per slot to an errgroup limited to Workers;
//     each task builds a fresh Variant, applies its perturbation, solves,
//     and writes only its own slot.
//   - Stage 3: wait; the first task error cancels the rest.
//
// Guarantees: len(result) == len(ps) and result[i] belongs to ps[i].
// Infeasible, unbounded, timed-out and vacuous tasks yield absent values;
// only malformed perturbations, solver failures and cancellation are errors.
//
// Complexity: O(len(ps)) solves, at most Workers at a time.
func (e *Engine) Run(ctx context.Context, net model.Network, ps []Perturbation) ([]fba.Value, error) {
	results := make([]fba.Value, len(ps))
	if len(ps) == 0 {
		return results, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, p := range ps {
		g.Go(func() error {
			v, err := e.evaluate(gctx, net, p)
			if err != nil {
				return fmt.Errorf("screen: perturbation %d (%s): %w", i, p, err)
			}
			results[i] = v
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		e.opt.Metrics().ObserveBatch("error")
		return nil, err
	}
	e.opt.Metrics().ObserveBatch("ok")
	e.logger.Debug("screen batch done",
		zap.String("model", net.ID()),
		zap.Int("tasks", len(ps)),
		zap.Int("workers", e.workers),
	)

	return results, nil
}

func (e *Engine) evaluate(ctx context.Context, net model.Network, p Perturbation) (fba.Value, error) {
	v := model.NewVariant(net)
	ok, err := p.Apply(v)
	if err != nil {
		return fba.None(), err
	}
	if !ok {
		return fba.None(), nil
	}

	return e.opt.Evaluate(ctx, v, p.Kind())
}

// Range is a flux interval; either side is absent when its solve failed.
type Range struct {
	Min fba.Value
	Max fba.Value
}

// Variability runs flux variability for rids at fraction of optimum and
// returns one Range per reaction, in order. An absent optimum yields
// all-absent ranges.
func (e *Engine) Variability(ctx context.Context, net model.Network, rids []string, fraction float64, optimum fba.Value) ([]Range, error) {
	vals, err := e.Run(ctx, net, VariabilityScan(rids, fraction, optimum))
	if err != nil {
		return nil, err
	}
	out := make([]Range, len(rids))
	for i := range rids {
		out[i] = Range{Min: vals[2*i], Max: vals[2*i+1]}
	}

	return out, nil
}
