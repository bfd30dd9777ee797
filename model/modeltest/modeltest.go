// Package modeltest provides a small, hand-checked metabolic network for tests.
//
// The toy network (model ID "toy"):
//
//	EX_glc  : glc_e <=>                                  [-10, 1000]
//	GLCt    : glc_e -> glc_c                 g1          [0, 1000]
//	HEX     : glc_c + atp_c -> g6p_c + adp_c  g2 or g3    [0, 1000]
//	GLY     : g6p_c + 2 adp_c + pi_c -> 2 pyr_c + 2 atp_c   g4 and g5
//	ATPM    : atp_c -> adp_c + pi_c                      [1, 1000]
//	EX_pyr  : pyr_c ->                                   [0, 1000]
//	EX_pi   : pi_c <=>                                   [-1000, 1000]
//	BIOMASS : 0.1 g6p_c + atp_c + 0.2 pyr_c -> adp_c + pi_c
//
// Maximizing BIOMASS gives 7.5. Knocking out g1, g4 or g5 is infeasible
// because ATPM forces ATP turnover. Masses glc=2, pyr=1, pi=1, g6p=3,
// adp=1, atp=2 conserve every internal reaction.
package modeltest

import (
	"testing"

	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
)

// BiomassOptimum is the maximal BIOMASS flux of the toy network.
const BiomassOptimum = 7.5

// Metabolites returns the toy metabolites.
func Metabolites() []model.Metabolite {
	charge := func(c int) *int { return &c }
	return []model.Metabolite{
		{ID: "glc_e", Name: "D-Glucose", Formula: "C6H12O6", Charge: charge(0), Compartment: "e",
			Annotations: model.Annotations{"inchi_key": {"WQZGKKKJIJFFOK-GASJEMHNSA-N"}}},
		{ID: "glc_c", Name: "D-Glucose", Formula: "C6H12O6", Charge: charge(0), Compartment: "c",
			Annotations: model.Annotations{"inchi_key": {"WQZGKKKJIJFFOK-GASJEMHNSA-N"}}},
		{ID: "g6p_c", Name: "D-Glucose 6-phosphate", Formula: "C6H11O9P", Charge: charge(-2), Compartment: "c",
			Annotations: model.Annotations{"kegg.compound": {"C00092"}}},
		{ID: "pyr_c", Name: "Pyruvate", Formula: "C3H3O3", Charge: charge(-1), Compartment: "c",
			Annotations: model.Annotations{"kegg.compound": {"C00022"}}},
		{ID: "atp_c", Name: "ATP", Formula: "C10H12N5O13P3", Charge: charge(-4), Compartment: "c",
			Annotations: model.Annotations{"kegg.compound": {"C00002"}}},
		{ID: "adp_c", Name: "ADP", Formula: "C10H12N5O10P2", Charge: charge(-3), Compartment: "c",
			Annotations: model.Annotations{"kegg.compound": {"C00008"}}},
		{ID: "pi_c", Name: "Phosphate", Formula: "HO4P", Charge: charge(-2), Compartment: "c"},
	}
}

// Reactions returns the toy reactions.
func Reactions() []model.Reaction {
	return []model.Reaction{
		{ID: "EX_glc", Name: "Glucose exchange", Stoichiometry: map[string]float64{"glc_e": -1},
			LowerBound: -10, UpperBound: 1000, Annotations: model.Annotations{model.SBO: {model.SBOExchange}}},
		{ID: "GLCt", Name: "Glucose transport", Stoichiometry: map[string]float64{"glc_e": -1, "glc_c": 1},
			UpperBound: 1000, GeneRule: "g1"},
		{ID: "HEX", Name: "Hexokinase", Stoichiometry: map[string]float64{"glc_c": -1, "atp_c": -1, "g6p_c": 1, "adp_c": 1},
			UpperBound: 1000, GeneRule: "g2 or g3", Annotations: model.Annotations{"ec-code": {"2.7.1.1"}}},
		{ID: "GLY", Name: "Lumped glycolysis",
			Stoichiometry: map[string]float64{"g6p_c": -1, "adp_c": -2, "pi_c": -1, "pyr_c": 2, "atp_c": 2},
			UpperBound:    1000, GeneRule: "g4 and g5"},
		{ID: "ATPM", Name: "ATP maintenance", Stoichiometry: map[string]float64{"atp_c": -1, "adp_c": 1, "pi_c": 1},
			LowerBound: 1, UpperBound: 1000, Annotations: model.Annotations{model.SBO: {model.SBOATPMaintenance}}},
		{ID: "EX_pyr", Name: "Pyruvate exchange", Stoichiometry: map[string]float64{"pyr_c": -1},
			UpperBound: 1000},
		{ID: "EX_pi", Name: "Phosphate exchange", Stoichiometry: map[string]float64{"pi_c": -1},
			LowerBound: -1000, UpperBound: 1000},
		{ID: "BIOMASS", Name: "Biomass",
			Stoichiometry: map[string]float64{"g6p_c": -0.1, "atp_c": -1, "pyr_c": -0.2, "adp_c": 1, "pi_c": 1},
			UpperBound:    1000, Annotations: model.Annotations{model.SBO: {model.SBOBiomass}}},
	}
}

// Genes returns the explicitly declared toy genes.
func Genes() []model.Gene {
	return []model.Gene{
		{ID: "g1", Name: "glcT", Annotations: model.Annotations{"ncbigene": {"945651"}}},
		{ID: "g2", Name: "hexA"},
		{ID: "g3", Name: "hexB"},
		{ID: "g4", Name: "glyA"},
		{ID: "g5", Name: "glyB"},
	}
}

// Objective maximizes BIOMASS.
func Objective() model.Objective {
	return model.Objective{ID: "growth", Sense: lp.Maximize, Coefficients: map[string]float64{"BIOMASS": 1}}
}

// Toy builds the toy model; extra options append further entities.
func Toy(tb testing.TB, extra ...model.Option) *model.Model {
	tb.Helper()
	opts := []model.Option{
		model.WithMetabolites(Metabolites()...),
		model.WithGenes(Genes()...),
		model.WithReactions(Reactions()...),
		model.WithObjectives(Objective()),
	}
	m, err := model.New("toy", append(opts, extra...)...)
	if err != nil {
		tb.Fatalf("modeltest: %v", err)
	}

	return m
}
