package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/model/modeltest"
)

type ModelSuite struct {
	suite.Suite
	m *model.Model
}

func (s *ModelSuite) SetupTest() {
	s.m = modeltest.Toy(s.T())
}

func TestModelSuite(t *testing.T) {
	suite.Run(t, new(ModelSuite))
}

// TestDeclarationOrder checks ordering and implicit gene declaration.
func (s *ModelSuite) TestDeclarationOrder() {
	ids := make([]string, 0)
	for _, r := range s.m.Reactions() {
		ids = append(ids, r.ID)
	}
	s.Require().Equal([]string{"EX_glc", "GLCt", "HEX", "GLY", "ATPM", "EX_pyr", "EX_pi", "BIOMASS"}, ids)
	s.Require().Len(s.m.Genes(), 5)
	s.Require().Equal("growth", s.m.Objective().ID)
}

// TestBoundaryClassification covers IsBoundary and IsBiomass.
func (s *ModelSuite) TestBoundaryClassification() {
	var boundary []string
	for _, r := range model.BoundaryReactions(s.m) {
		boundary = append(boundary, r.ID)
	}
	s.Require().Equal([]string{"EX_glc", "EX_pyr", "EX_pi"}, boundary)

	bm, _ := s.m.Reaction("BIOMASS")
	s.Require().True(model.IsBiomass(bm))
	hex, _ := s.m.Reaction("HEX")
	s.Require().False(model.IsBiomass(hex))
	s.Require().Equal([]string{"atp_c", "glc_c"}, hex.Reactants())
	s.Require().Equal([]string{"adp_c", "g6p_c"}, hex.Products())
}

// TestVariantOverlay verifies overrides stay in the overlay.
func (s *ModelSuite) TestVariantOverlay() {
	v := model.NewVariant(s.m)
	s.Require().NoError(v.SetBounds("EX_glc", lp.Bound{Lower: -5, Upper: 0}))
	s.Require().NoError(v.SetObjective(model.Single("ATPM", lp.Maximize)))
	s.Require().NoError(v.AddReaction(model.Reaction{
		ID: "DM_g6p_c", Stoichiometry: map[string]float64{"g6p_c": -1}, UpperBound: 1000,
	}))
	s.Require().NoError(v.AddConstraint(model.Constraint{
		Name: "cap", Coefficients: map[string]float64{"HEX": 1}, Relation: lp.LE, RHS: 3,
	}))

	b, ok := v.Bounds("EX_glc")
	s.Require().True(ok)
	s.Require().Equal(lp.Bound{Lower: -5, Upper: 0}, b)
	b, _ = s.m.Bounds("EX_glc")
	s.Require().Equal(lp.Bound{Lower: -10, Upper: 1000}, b)

	s.Require().Equal("ATPM", v.Objective().ID)
	s.Require().Equal("growth", s.m.Objective().ID)

	s.Require().Len(v.Reactions(), 9)
	s.Require().Len(s.m.Reactions(), 8)
	_, ok = s.m.Reaction("DM_g6p_c")
	s.Require().False(ok)

	s.Require().Len(v.Constraints(), 1)
	s.Require().Empty(s.m.Constraints())
}

// TestGeneKnockout checks that only reactions whose rule turns false close.
func (s *ModelSuite) TestGeneKnockout() {
	v := model.NewVariant(s.m)
	s.Require().NoError(v.KnockoutGene("g2"))
	b, _ := v.Bounds("HEX")
	s.Require().Equal(lp.Bound{Lower: 0, Upper: 1000}, b, "g3 still catalyses HEX")

	w := model.NewVariant(v)
	s.Require().NoError(w.KnockoutGene("g3"))
	b, _ = w.Bounds("HEX")
	s.Require().Equal(lp.Bound{}, b)
	db, _ := w.DeclaredBounds("HEX")
	s.Require().Equal(lp.Bound{Lower: 0, Upper: 1000}, db)
	s.Require().True(v.GeneActive("g3"))

	s.Require().ErrorIs(v.KnockoutGene("nope"), model.ErrUnknownGene)

	var ids []string
	for _, r := range model.ReactionsOfGene(s.m, "g4") {
		ids = append(ids, r.ID)
	}
	s.Require().Equal([]string{"GLY"}, ids)
}

// TestVariantErrors covers overlay validation.
func (s *ModelSuite) TestVariantErrors() {
	v := model.NewVariant(s.m)
	s.Require().ErrorIs(v.SetBounds("nope", lp.Bound{}), model.ErrUnknownReaction)
	s.Require().ErrorIs(v.SetBounds("HEX", lp.Bound{Lower: 1, Upper: 0}), model.ErrInvalidBounds)
	s.Require().ErrorIs(v.SetObjective(model.Single("nope", lp.Maximize)), model.ErrUnknownReaction)
	s.Require().ErrorIs(v.AddReaction(model.Reaction{ID: "HEX"}), model.ErrDuplicateID)
	s.Require().ErrorIs(v.AddReaction(model.Reaction{ID: "X", Stoichiometry: map[string]float64{"zz": 1}}),
		model.ErrUnknownMetabolite)
	s.Require().ErrorIs(v.AddReaction(model.Reaction{ID: "Y", GeneRule: "g9"}), model.ErrUnknownGene)
	s.Require().ErrorIs(v.AddConstraint(model.Constraint{Coefficients: map[string]float64{"nope": 1}}),
		model.ErrUnknownReaction)
}

// TestStoichiometricMatrix checks a couple of entries.
func (s *ModelSuite) TestStoichiometricMatrix() {
	S, mets, rxns, err := model.StoichiometricMatrix(s.m)
	s.Require().NoError(err)
	s.Require().Equal(len(mets), S.Rows())
	s.Require().Equal(len(rxns), S.Cols())

	v, err := S.At(4, 3) // atp_c in GLY
	s.Require().NoError(err)
	s.Require().Equal("atp_c", mets[4])
	s.Require().Equal("GLY", rxns[3])
	s.Require().Equal(2.0, v)
}

// TestNewErrors covers construction failures.
func TestNewErrors(t *testing.T) {
	met := model.Metabolite{ID: "a"}
	_, err := model.New("x", model.WithMetabolites(met, met))
	require.ErrorIs(t, err, model.ErrDuplicateID)

	_, err = model.New("x", model.WithMetabolites(model.Metabolite{}))
	require.ErrorIs(t, err, model.ErrEmptyID)

	_, err = model.New("x", model.WithReactions(model.Reaction{ID: "r", Stoichiometry: map[string]float64{"a": 1}}))
	require.ErrorIs(t, err, model.ErrUnknownMetabolite)

	_, err = model.New("x", model.WithReactions(model.Reaction{ID: "r", LowerBound: 1}))
	require.ErrorIs(t, err, model.ErrInvalidBounds)

	_, err = model.New("x", model.WithReactions(model.Reaction{ID: "r", GeneRule: "a and (b"}))
	require.ErrorIs(t, err, model.ErrInvalidGPR)

	_, err = model.New("x", model.WithObjectives(model.Single("r", lp.Maximize)))
	require.ErrorIs(t, err, model.ErrUnknownReaction)

	_, err = model.New("x", model.WithObjectives(model.Objective{}))
	require.ErrorIs(t, err, model.ErrEmptyID)

	r := model.Reaction{ID: "r", UpperBound: 1}
	_, err = model.New("x", model.WithReactions(r),
		model.WithObjectives(model.Single("r", lp.Maximize), model.Single("r", lp.Minimize)))
	require.ErrorIs(t, err, model.ErrDuplicateID)
}
