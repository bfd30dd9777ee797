package frog

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/logging"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/screen"
)

// DefaultFraction keeps the full optimum during flux variability.
const DefaultFraction = 1.0

// Options tunes BuildReport.
type Options struct {
	Logger   *zap.Logger
	Fraction float64

	err error
}

// Option configures BuildReport.
type Option func(*Options)

// DefaultOptions returns a no-op logger and DefaultFraction.
func DefaultOptions() Options {
	return Options{Logger: zap.NewNop(), Fraction: DefaultFraction}
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(o *Options) { o.Logger = logging.OrNop(l) }
}

// WithFraction sets the share of the optimum that variability must keep.
//
//	0 < f <= 1: accepted
//	otherwise:  ErrOptionViolation
func WithFraction(f float64) Option {
	return func(o *Options) {
		if !(f > 0 && f <= 1) {
			o.err = fmt.Errorf("%w: fraction must be in (0, 1] (%g)", ErrOptionViolation, f)
			return
		}
		o.Fraction = f
	}
}

// BuildReport assembles the reproducibility report of net: one
// ObjectiveReport per named objective, in a single pass.
//
// Implementation, per objective:
//   - Stage 1: overlay net with the objective active and solve it.
//   - Stage 2: flux variability over every reaction, keeping Fraction of
//     the optimum; an infeasible base makes every range absent.
//   - Stage 3: the gene and the reaction knockout screens, concurrently.
//   - Stage 4: zip flux, range and deletion value into per-reaction leaves
//     and pair genes with their knockout values.
//
// Infeasible solves yield absent values, never errors. Errors come from
// option parsing, overlay construction, solver failures and cancellation.
//
// Complexity: per objective 1 + 2|R| + |R| + |G| solves on eng's pool.
func BuildReport(ctx context.Context, net model.Network, eng *screen.Engine, opts ...Option) (ReportData, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	if eng == nil {
		return nil, ErrNilEngine
	}
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.err != nil {
		return nil, o.err
	}

	data := make(ReportData, len(net.Objectives()))
	for _, obj := range net.Objectives() {
		rep, err := buildObjective(ctx, net, eng, obj, o)
		if err != nil {
			return nil, fmt.Errorf("frog: objective %q: %w", obj.ID, err)
		}
		data[obj.ID] = rep
		o.Logger.Info("objective report built",
			zap.String("model", net.ID()),
			zap.String("objective", obj.ID),
			zap.Stringer("optimum", rep.Optimum),
			zap.Int("reactions", len(rep.Reactions)),
			zap.Int("genes", len(rep.GeneDeletions)),
		)
	}

	return data, nil
}

func buildObjective(ctx context.Context, net model.Network, eng *screen.Engine, obj model.Objective, o Options) (ObjectiveReport, error) {
	v := model.NewVariant(net)
	if err := v.SetObjective(obj); err != nil {
		return ObjectiveReport{}, err
	}

	// 1) base
	base, err := eng.Base(ctx, v)
	if err != nil {
		return ObjectiveReport{}, err
	}
	if !base.Objective.Valid {
		o.Logger.Warn("base problem not optimal",
			zap.String("objective", obj.ID),
			zap.Stringer("status", base.Status),
		)
	}

	rxns := v.Reactions()
	rids := make([]string, len(rxns))
	for i, r := range rxns {
		rids[i] = r.ID
	}

	// 2) variability; an absent optimum makes every task vacuous
	ranges, err := eng.Variability(ctx, v, rids, o.Fraction, base.Objective)
	if err != nil {
		return ObjectiveReport{}, err
	}

	// 3) knockout screens
	var geneVals, rxnVals []fba.Value
	genes := screen.GeneKnockouts(v)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		geneVals, err = eng.Run(gctx, v, genes)
		return err
	})
	g.Go(func() error {
		var err error
		rxnVals, err = eng.Run(gctx, v, screen.ReactionKnockouts(v))
		return err
	})
	if err := g.Wait(); err != nil {
		return ObjectiveReport{}, err
	}

	// 4) zip
	rep := ObjectiveReport{
		Optimum:       base.Objective,
		Reactions:     make(map[string]ReactionReport, len(rids)),
		GeneDeletions: make(map[string]fba.Value, len(genes)),
	}
	for i, rid := range rids {
		rep.Reactions[rid] = ReactionReport{
			Flux:           base.Flux(rid),
			VariabilityMin: ranges[i].Min,
			VariabilityMax: ranges[i].Max,
			Deletion:       rxnVals[i],
		}
	}
	for i, gene := range v.Genes() {
		rep.GeneDeletions[gene.ID] = geneVals[i]
	}

	return rep, nil
}
