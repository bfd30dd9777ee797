package screen_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/goleak"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/model/modeltest"
	"github.com/katalvlaran/fbctest/screen"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const tol = 1e-6

type EngineSuite struct {
	suite.Suite
	m   *model.Model
	opt *fba.Optimizer
}

func (s *EngineSuite) SetupTest() {
	s.m = modeltest.Toy(s.T())
	solver, err := lp.NewSimplex()
	s.Require().NoError(err)
	s.opt, err = fba.New(solver)
	s.Require().NoError(err)
}

func TestEngineSuite(t *testing.T) {
	suite.Run(t, new(EngineSuite))
}

func (s *EngineSuite) engine(workers int) *screen.Engine {
	e, err := screen.NewEngine(s.opt, screen.WithWorkers(workers))
	s.Require().NoError(err)
	return e
}

// mixedBatch interleaves infeasible and vacuous tasks with feasible ones.
func mixedBatch() []screen.Perturbation {
	return []screen.Perturbation{
		screen.GeneKnockout{Gene: "g2"},
		screen.GeneKnockout{Gene: "g1"}, // no glucose: ATPM cannot be met
		screen.ReactionKnockout("EX_pi"),
		screen.Variability{Reaction: "HEX", Sense: lp.Maximize, Fraction: 1, Optimum: fba.None()},
		screen.GeneKnockout{Gene: "g3"},
		screen.GeneKnockout{Gene: "g4"}, // no glycolysis
		screen.Demand{Metabolite: "pyr_c"},
	}
}

// TestRunOrderAndIndependence checks length, order and that infeasible
// entries do not disturb their neighbours.
func (s *EngineSuite) TestRunOrderAndIndependence() {
	vals, err := s.engine(3).Run(context.Background(), s.m, mixedBatch())
	s.Require().NoError(err)
	s.Require().Len(vals, 7)

	s.Require().True(vals[0].Valid)
	s.Require().InDelta(modeltest.BiomassOptimum, vals[0].Float, tol)
	s.Require().False(vals[1].Valid)
	s.Require().True(vals[2].Valid, "a feasible zero is present")
	s.Require().InDelta(0, vals[2].Float, tol)
	s.Require().False(vals[3].Valid)
	s.Require().InDelta(modeltest.BiomassOptimum, vals[4].Float, tol)
	s.Require().False(vals[5].Valid)
	s.Require().True(vals[6].Valid)
	s.Require().InDelta(20, vals[6].Float, tol)

	// each feasible entry equals its value when solved alone
	for i, p := range mixedBatch() {
		alone, err := s.engine(1).Run(context.Background(), s.m, []screen.Perturbation{p})
		s.Require().NoError(err)
		s.Require().Equal(vals[i].Valid, alone[0].Valid, p.String())
		s.Require().InDelta(vals[i].Float, alone[0].Float, tol, p.String())
	}
}

// TestWorkersDoNotChangeResults compares a sequential and a parallel run.
func (s *EngineSuite) TestWorkersDoNotChangeResults() {
	ps := append(screen.GeneKnockouts(s.m), screen.ReactionKnockouts(s.m)...)
	seq, err := s.engine(1).Run(context.Background(), s.m, ps)
	s.Require().NoError(err)
	par, err := s.engine(8).Run(context.Background(), s.m, ps)
	s.Require().NoError(err)
	s.Require().Equal(len(ps), len(par))
	for i := range seq {
		s.Require().Equal(seq[i].Valid, par[i].Valid, ps[i].String())
		s.Require().InDelta(seq[i].Float, par[i].Float, tol, ps[i].String())
	}
}

// TestVariability runs FVA at full optimum.
func (s *EngineSuite) TestVariability() {
	e := s.engine(2)
	rids := []string{"BIOMASS", "EX_glc"}
	ranges, err := e.Variability(context.Background(), s.m, rids, 1, fba.Some(modeltest.BiomassOptimum))
	s.Require().NoError(err)
	s.Require().Len(ranges, 2)
	s.Require().InDelta(modeltest.BiomassOptimum, ranges[0].Min.Float, tol)
	s.Require().InDelta(modeltest.BiomassOptimum, ranges[0].Max.Float, tol)
	s.Require().InDelta(-10, ranges[1].Min.Float, tol)
	s.Require().InDelta(-10, ranges[1].Max.Float, tol)

	ranges, err = e.Variability(context.Background(), s.m, rids, 1, fba.None())
	s.Require().NoError(err)
	for _, r := range ranges {
		s.Require().False(r.Min.Valid)
		s.Require().False(r.Max.Valid)
	}
}

// TestRunErrors: malformed perturbations and cancellation fail the batch.
func (s *EngineSuite) TestRunErrors() {
	_, err := s.engine(2).Run(context.Background(), s.m, []screen.Perturbation{
		screen.GeneKnockout{Gene: "g2"},
		screen.GeneKnockout{Gene: "nope"},
	})
	s.Require().ErrorIs(err, model.ErrUnknownGene)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.engine(2).Run(ctx, s.m, screen.GeneKnockouts(s.m))
	s.Require().ErrorIs(err, context.Canceled)

	vals, err := s.engine(2).Run(context.Background(), s.m, nil)
	s.Require().NoError(err)
	s.Require().Empty(vals)
}

func TestNewEngineErrors(t *testing.T) {
	_, err := screen.NewEngine(nil)
	require.ErrorIs(t, err, screen.ErrNilOptimizer)

	solver, err := lp.NewSimplex()
	require.NoError(t, err)
	opt, err := fba.New(solver)
	require.NoError(t, err)
	_, err = screen.NewEngine(opt, screen.WithWorkers(0))
	require.ErrorIs(t, err, screen.ErrOptionViolation)

	e, err := screen.NewEngine(opt)
	require.NoError(t, err)
	require.Equal(t, screen.DefaultWorkers, e.Workers())
}
