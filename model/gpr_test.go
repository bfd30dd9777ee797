package model_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fbctest/model"
)

func activeExcept(off ...string) func(string) bool {
	return func(g string) bool {
		for _, o := range off {
			if g == o {
				return false
			}
		}
		return true
	}
}

func TestParseGPR(t *testing.T) {
	g, err := model.ParseGPR("(b0001 and b0002) or B0003")
	require.NoError(t, err)
	require.Equal(t, []string{"B0003", "b0001", "b0002"}, g.Genes())
	require.True(t, g.Eval(activeExcept()))
	require.True(t, g.Eval(activeExcept("b0001")))
	require.False(t, g.Eval(activeExcept("b0001", "B0003")))

	// precedence: and binds tighter than or
	g, err = model.ParseGPR("a or b AND c")
	require.NoError(t, err)
	require.True(t, g.Eval(activeExcept("b")))
	require.False(t, g.Eval(activeExcept("a", "c")))

	empty, err := model.ParseGPR("   ")
	require.NoError(t, err)
	require.True(t, empty.Empty())
	require.True(t, empty.Eval(activeExcept("anything")))
}

func TestParseGPRErrors(t *testing.T) {
	for _, rule := range []string{"a and", "(a or b", "a b", "or a", "a )"} {
		_, err := model.ParseGPR(rule)
		require.ErrorIs(t, err, model.ErrInvalidGPR, rule)
	}
}

func TestParseFormula(t *testing.T) {
	f, err := model.ParseFormula("C10H12N5O13P3")
	require.NoError(t, err)
	require.Equal(t, model.Formula{"C": 10, "H": 12, "N": 5, "O": 13, "P": 3}, f)

	f, err = model.ParseFormula("Ca(OH)2")
	require.NoError(t, err)
	require.Equal(t, model.Formula{"Ca": 1, "O": 2, "H": 2}, f)
	require.Equal(t, "CaH2O2", f.String())

	f, err = model.ParseFormula("")
	require.NoError(t, err)
	require.Empty(t, f)

	_, err = model.ParseFormula("C6(H12")
	require.ErrorIs(t, err, model.ErrInvalidFormula)
	_, err = model.ParseFormula("c6")
	require.ErrorIs(t, err, model.ErrInvalidFormula)
}
