package model_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
)

func TestLoadFileJSON(t *testing.T) {
	m, err := model.LoadFile(filepath.Join("testdata", "mini.json"))
	require.NoError(t, err)
	require.Equal(t, "mini", m.ID())

	a, ok := m.Metabolite("a_c")
	require.True(t, ok)
	require.Equal(t, []string{"AAAA-BBBB-C"}, a.Annotations["inchi_key"])
	require.Equal(t, []string{"C1", "C2"}, a.Annotations["kegg.compound"])
	require.NotNil(t, a.Charge)

	// G2 is declared implicitly by the rule
	require.Len(t, m.Genes(), 2)

	obj := m.Objective()
	require.Equal(t, model.DefaultObjectiveID, obj.ID)
	require.Equal(t, lp.Maximize, obj.Sense)
	require.Equal(t, []string{"EX_b"}, obj.ReactionIDs())
}

func TestLoadFileYAML(t *testing.T) {
	m, err := model.LoadFile(filepath.Join("testdata", "mini.yaml"))
	require.NoError(t, err)

	objs := m.Objectives()
	require.Len(t, objs, 2)
	require.Equal(t, "export", objs[0].ID)
	require.Equal(t, lp.Minimize, objs[1].Sense)

	ab, ok := m.Reaction("AB")
	require.True(t, ok)
	require.Equal(t, []string{"G1", "G2"}, ab.Rule().Genes())
}

func TestLoadErrors(t *testing.T) {
	_, err := model.Load(strings.NewReader("{"), model.JSON)
	require.ErrorIs(t, err, model.ErrDecode)

	doc := `{"reactions":[{"id":"r","metabolites":{}}],"objectives":[{"id":"o","sense":"sideways"}]}`
	_, err = model.Load(strings.NewReader(doc), model.JSON)
	require.ErrorIs(t, err, model.ErrDecode)

	_, err = model.LoadFile(filepath.Join("testdata", "missing.json"))
	require.Error(t, err)
}
