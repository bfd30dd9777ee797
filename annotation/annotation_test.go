package annotation_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fbctest/annotation"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/model/modeltest"
)

func TestUnannotated(t *testing.T) {
	m := modeltest.Toy(t)
	require.Equal(t, []string{"pi_c"}, annotation.UnannotatedMetabolites(m))
	require.Equal(t, []string{"GLCt", "GLY", "EX_pyr", "EX_pi"}, annotation.UnannotatedReactions(m))
	require.Equal(t, []string{"g2", "g3", "g4", "g5"}, annotation.UnannotatedGenes(m))

	// an empty identifier list does not count as an annotation
	require.Equal(t, []string{"x"}, annotation.Unannotated([]annotation.Item{
		{ID: "x", Annotations: model.Annotations{"chebi": nil}},
		{ID: "y", Annotations: model.Annotations{"chebi": {"CHEBI:1"}}},
	}))
}

func TestMissingDatabaseAndCoverage(t *testing.T) {
	m := modeltest.Toy(t)
	mets := annotation.Metabolites(m)
	require.Equal(t, []string{"glc_e", "glc_c", "pi_c"}, annotation.MissingDatabase(mets, "kegg.compound"))
	require.Equal(t, map[string]int{"inchi_key": 2, "kegg.compound": 4}, annotation.Coverage(mets))
	require.Equal(t, []string{"g2", "g3", "g4", "g5"}, annotation.MissingDatabase(annotation.Genes(m), "ncbigene"))
}

func TestDuplicatedInCompartment(t *testing.T) {
	// glc_e and glc_c share an InChIKey across compartments only
	require.Empty(t, annotation.DuplicatedInCompartment(modeltest.Toy(t), ""))

	m := modeltest.Toy(t, model.WithMetabolites(
		model.Metabolite{ID: "glc2_c", Compartment: "c", Annotations: model.Annotations{
			"inchi_key":     {"WQZGKKKJIJFFOK-GASJEMHNSA-N"},
			"kegg.compound": {"C00092"},
		}},
	))
	require.Equal(t, [][]string{{"glc_c", "glc2_c"}}, annotation.DuplicatedInCompartment(m, ""))
	require.Equal(t, [][]string{{"g6p_c", "glc2_c"}}, annotation.DuplicatedInCompartment(m, "kegg.compound"))

	// a repeated identifier on one metabolite is not a duplicate
	m = modeltest.Toy(t, model.WithMetabolites(
		model.Metabolite{ID: "x_c", Compartment: "c", Annotations: model.Annotations{
			"inchi_key": {"XXXXXXXXXXXXXX-YYYYYYYYYY-Z", "XXXXXXXXXXXXXX-YYYYYYYYYY-Z"},
		}},
	))
	require.Empty(t, annotation.DuplicatedInCompartment(m, ""))
}

func TestNonconforming(t *testing.T) {
	m := modeltest.Toy(t)
	p := annotation.DefaultPatterns()
	require.Empty(t, annotation.Nonconforming(annotation.Metabolites(m), p))
	require.Empty(t, annotation.Nonconforming(annotation.Reactions(m), p))
	require.Empty(t, annotation.Nonconforming(annotation.Genes(m), p))

	items := []annotation.Item{
		{ID: "a", Annotations: model.Annotations{"kegg.compound": {"C00001", "X1"}}},
		{ID: "b", Annotations: model.Annotations{"chebi": {"17234"}, "made.up": {"???"}}},
		{ID: "c", Annotations: model.Annotations{"chebi": {"CHEBI:17234"}}},
	}
	require.Equal(t, map[string][]string{
		"kegg.compound": {"a"},
		"chebi":         {"b"},
	}, annotation.Nonconforming(items, p))

	// an override relaxes ChEBI to bare numbers
	relaxed, err := annotation.CompilePatterns(map[string]string{"chebi": `^(CHEBI:)?\d+$`})
	require.NoError(t, err)
	require.Equal(t, map[string][]string{"kegg.compound": {"a"}}, annotation.Nonconforming(items, relaxed))
	require.Contains(t, relaxed.Databases(), "inchi_key")

	_, err = annotation.CompilePatterns(map[string]string{"chebi": "("})
	require.ErrorIs(t, err, annotation.ErrInvalidPattern)
}
