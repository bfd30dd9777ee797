package frog_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap/zaptest"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/frog"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/model/modeltest"
	"github.com/katalvlaran/fbctest/screen"
)

type ReportSuite struct {
	suite.Suite
	ctx context.Context
}

func TestReportSuite(t *testing.T) {
	suite.Run(t, new(ReportSuite))
}

func (s *ReportSuite) SetupTest() {
	s.ctx = context.Background()
}

func (s *ReportSuite) engine(workers int) *screen.Engine {
	solver, err := lp.NewSimplex()
	s.Require().NoError(err)
	opt, err := fba.New(solver)
	s.Require().NoError(err)
	eng, err := screen.NewEngine(opt, screen.WithWorkers(workers))
	s.Require().NoError(err)
	return eng
}

func (s *ReportSuite) TestToyReport() {
	data, err := frog.BuildReport(s.ctx, modeltest.Toy(s.T()), s.engine(2),
		frog.WithLogger(zaptest.NewLogger(s.T())))
	s.Require().NoError(err)
	s.Require().Equal([]string{"growth"}, data.Objectives())

	rep := data["growth"]
	s.Require().True(rep.Optimum.Valid)
	s.Require().InDelta(modeltest.BiomassOptimum, rep.Optimum.Float, 1e-6)
	s.Require().Len(rep.Reactions, 8)
	s.Require().Equal([]string{"g1", "g2", "g3", "g4", "g5"}, rep.GeneIDs())

	bio := rep.Reactions["BIOMASS"]
	s.Require().InDelta(modeltest.BiomassOptimum, bio.Flux.Float, 1e-6)
	s.Require().InDelta(modeltest.BiomassOptimum, bio.VariabilityMin.Float, 1e-6)
	s.Require().InDelta(modeltest.BiomassOptimum, bio.VariabilityMax.Float, 1e-6)
	s.Require().True(bio.Deletion.Valid)
	s.Require().InDelta(0, bio.Deletion.Float, 1e-9)

	// a feasible zero is not absent
	s.Require().Equal(fba.Some(0), roundValue(rep.Reactions["EX_pi"].Deletion))
	s.Require().InDelta(25.0/3, rep.Reactions["ATPM"].Deletion.Float, 1e-6)
	for _, rid := range []string{"EX_glc", "GLCt", "HEX", "GLY", "EX_pyr"} {
		s.Require().False(rep.Reactions[rid].Deletion.Valid, rid)
	}

	s.Require().False(rep.GeneDeletions["g1"].Valid)
	s.Require().InDelta(modeltest.BiomassOptimum, rep.GeneDeletions["g2"].Float, 1e-6)
	s.Require().InDelta(modeltest.BiomassOptimum, rep.GeneDeletions["g3"].Float, 1e-6)
	s.Require().False(rep.GeneDeletions["g4"].Valid)
	s.Require().False(rep.GeneDeletions["g5"].Valid)
}

func roundValue(v fba.Value) fba.Value {
	if v.Valid && v.Float > -1e-9 && v.Float < 1e-9 {
		return fba.Some(0)
	}
	return v
}

func (s *ReportSuite) TestWorkersDoNotChangeReport() {
	m := modeltest.Toy(s.T(), model.WithObjectives(model.Objective{
		ID: "pyruvate", Sense: lp.Maximize, Coefficients: map[string]float64{"EX_pyr": 1},
	}))
	seq, err := frog.BuildReport(s.ctx, m, s.engine(1))
	s.Require().NoError(err)
	par, err := frog.BuildReport(s.ctx, m, s.engine(8))
	s.Require().NoError(err)
	s.Require().Empty(cmp.Diff(seq, par))

	s.Require().Equal([]string{"growth", "pyruvate"}, seq.Objectives())
	s.Require().InDelta(20, seq["pyruvate"].Optimum.Float, 1e-6)
}

// TestInfeasibleBase: without glucose uptake ATP maintenance cannot be met.
func (s *ReportSuite) TestInfeasibleBase() {
	v := model.NewVariant(modeltest.Toy(s.T()))
	s.Require().NoError(v.SetBounds("EX_glc", lp.Bound{}))

	data, err := frog.BuildReport(s.ctx, v, s.engine(3))
	s.Require().NoError(err)
	rep := data["growth"]
	s.Require().False(rep.Optimum.Valid)
	s.Require().Len(rep.Reactions, 8)
	for rid, rr := range rep.Reactions {
		s.Require().False(rr.Flux.Valid, rid)
		s.Require().False(rr.VariabilityMin.Valid, rid)
		s.Require().False(rr.VariabilityMax.Valid, rid)
		// dropping maintenance makes the all-zero flux feasible
		s.Require().Equal(rid == "ATPM", rr.Deletion.Valid, rid)
	}
	for gid, val := range rep.GeneDeletions {
		s.Require().False(val.Valid, gid)
	}
}

func (s *ReportSuite) TestPersistenceRoundTrip() {
	data, err := frog.BuildReport(s.ctx, modeltest.Toy(s.T()), s.engine(4))
	s.Require().NoError(err)

	var buf bytes.Buffer
	s.Require().NoError(frog.WriteReport(&buf, data))
	s.Require().Contains(buf.String(), `"deletion": null`)
	back, err := frog.ReadReport(&buf)
	s.Require().NoError(err)
	s.Require().Empty(cmp.Diff(data, back))

	md := frog.Metadata{frog.KeyModelFilename: "toy.json", frog.KeyModelMD5: "abc"}
	dir := filepath.Join(s.T().TempDir(), "report")
	s.Require().NoError(frog.WriteDir(dir, data, md))
	for _, name := range []string{frog.MetadataFile, frog.ObjectiveFile, frog.VariabilityFile,
		frog.GeneDeletionFile, frog.ReactionDeletionFile} {
		s.Require().FileExists(filepath.Join(dir, name))
	}

	raw, err := os.ReadFile(filepath.Join(dir, frog.GeneDeletionFile))
	s.Require().NoError(err)
	s.Require().Contains(string(raw), "toy.json\tgrowth\tg1\tinfeasible\tNA\n")

	fromDir, mdBack, err := frog.ReadDir(dir)
	s.Require().NoError(err)
	s.Require().Empty(cmp.Diff(data, fromDir))
	s.Require().Equal(md, mdBack)
}

func (s *ReportSuite) TestErrors() {
	_, err := frog.BuildReport(s.ctx, nil, s.engine(1))
	s.Require().ErrorIs(err, frog.ErrNilNetwork)
	_, err = frog.BuildReport(s.ctx, modeltest.Toy(s.T()), nil)
	s.Require().ErrorIs(err, frog.ErrNilEngine)
	_, err = frog.BuildReport(s.ctx, modeltest.Toy(s.T()), s.engine(1), frog.WithFraction(1.5))
	s.Require().ErrorIs(err, frog.ErrOptionViolation)

	_, err = frog.ReadReport(strings.NewReader("{"))
	s.Require().ErrorIs(err, frog.ErrFormat)

	dir := s.T().TempDir()
	s.Require().NoError(os.WriteFile(filepath.Join(dir, frog.MetadataFile), []byte("{}"), 0o644))
	s.Require().NoError(os.WriteFile(filepath.Join(dir, frog.ObjectiveFile), []byte("model\tobjective\n"), 0o644))
	_, _, err = frog.ReadDir(dir)
	s.Require().ErrorIs(err, frog.ErrFormat)

	s.Require().NoError(os.WriteFile(filepath.Join(dir, frog.ObjectiveFile),
		[]byte("model\tobjective\tstatus\tvalue\nm\to\toptimal\tfast\n"), 0o644))
	_, _, err = frog.ReadDir(dir)
	s.Require().ErrorIs(err, frog.ErrFormat)
}

func TestNewMetadata(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toy.json")
	require.NoError(t, os.WriteFile(path, []byte("abc"), 0o644))

	md, err := frog.NewMetadata(path, lp.SolverName)
	require.NoError(t, err)
	require.Equal(t, "toy.json", md[frog.KeyModelFilename])
	require.Equal(t, "900150983cd24fb0d6963f7d28e17f72", md[frog.KeyModelMD5])
	require.Equal(t, "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad", md[frog.KeyModelSHA256])
	require.Equal(t, lp.SolverName, md[frog.KeySolverName])
	require.NotContains(t, md[frog.KeyEnvironment], "\n")
	for _, k := range frog.MetadataKeys {
		require.NotEmpty(t, md[k], k)
	}

	_, err = frog.NewMetadata(filepath.Join(t.TempDir(), "missing.json"), "x")
	require.Error(t, err)
}
