package compare_test

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/fbctest/compare"
	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/frog"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model/modeltest"
	"github.com/katalvlaran/fbctest/screen"
)

func TestInTol(t *testing.T) {
	tol := compare.DefaultTolerance()

	// reflexive for any finite value
	for _, x := range []float64{0, -0.0, 1, -1, 1e-300, -7.5, 1e12, math.MaxFloat64, -math.SmallestNonzeroFloat64} {
		require.True(t, compare.InTol(fba.Some(x), fba.Some(x), tol), "%g", x)
	}
	require.True(t, compare.InTol(fba.None(), fba.None(), tol))
	require.False(t, compare.InTol(fba.None(), fba.Some(0), tol))
	require.False(t, compare.InTol(fba.Some(0), fba.None(), tol))

	cases := []struct {
		name string
		x, y float64
		want bool
	}{
		{"absolute", 1, 1 + 5e-7, true},
		{"relative alone is not enough", 1e6, 1e6 + 0.5, false},
		{"zero against small negative", 0, -5e-7, true},
		{"beyond both", 1, 1.01, false},
		{"opposite sign small", 1e-7, -1e-7, true},
		{"opposite sign apart", 4e-7, -5e-7, false},
		{"opposite sign large", 1e6, -1e6, false},
		{"relative needs same sign", 10, -10.000001, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, compare.InTol(fba.Some(tc.x), fba.Some(tc.y), tol))
			require.Equal(t, tc.want, compare.InTol(fba.Some(tc.y), fba.Some(tc.x), tol))
		})
	}

	require.True(t, compare.InTol(fba.Some(math.NaN()), fba.Some(math.NaN()), tol))
	require.False(t, compare.InTol(fba.Some(math.NaN()), fba.Some(1), tol))
}

func sample() frog.ReportData {
	return frog.ReportData{
		"growth": {
			Optimum: fba.Some(7.5),
			Reactions: map[string]frog.ReactionReport{
				"HEX":  {Flux: fba.Some(10), VariabilityMin: fba.Some(10), VariabilityMax: fba.Some(10), Deletion: fba.None()},
				"ATPM": {Flux: fba.Some(1), VariabilityMin: fba.Some(1), VariabilityMax: fba.Some(1), Deletion: fba.Some(25.0 / 3)},
			},
			GeneDeletions: map[string]fba.Value{"g1": fba.None(), "g2": fba.Some(7.5)},
		},
	}
}

func TestReportsSingleLeaf(t *testing.T) {
	a, b := sample(), sample()
	res := compare.Reports(a, b, compare.DefaultTolerance())
	require.True(t, res.Passed())
	require.Empty(t, res.Failures())

	rep := b["growth"]
	rep.Reactions = map[string]frog.ReactionReport{
		"HEX":  rep.Reactions["HEX"],
		"ATPM": {Flux: fba.Some(1), VariabilityMin: fba.Some(1), VariabilityMax: fba.Some(1.5), Deletion: fba.Some(25.0 / 3)},
	}
	b["growth"] = rep

	res = compare.Reports(a, b, compare.DefaultTolerance())
	require.False(t, res.Passed())
	fails := res.Failures()
	require.Len(t, fails, 1)
	require.Equal(t, "report/growth/reactions/ATPM/variability_max", fails[0].Key())
	require.Equal(t, compare.StatusMismatch, fails[0].Status)
	require.Equal(t, "1", fails[0].A)
	require.Equal(t, "1.5", fails[0].B)

	// every other leaf passes
	leaves, passed := 0, 0
	res.Root.Walk(func(f *compare.Finding) {
		if len(f.Children) == 0 {
			leaves++
			if f.Passed() {
				passed++
			}
		}
	})
	require.Equal(t, leaves-1, passed)
}

func TestReportsAbsentAndMissing(t *testing.T) {
	a, b := sample(), sample()
	b["growth"].GeneDeletions["g1"] = fba.Some(0)
	delete(b["growth"].Reactions, "HEX")
	b["extra"] = frog.ObjectiveReport{}

	res := compare.Reports(a, b, compare.DefaultTolerance())
	var got []string
	for _, f := range res.Failures() {
		got = append(got, f.Key()+" "+f.Status.String())
	}
	require.Equal(t, []string{
		"report/extra missing in a",
		"report/growth/reactions/HEX missing in b",
		"report/growth/gene_deletions/g1 mismatch",
	}, got)

	var buf bytes.Buffer
	require.NoError(t, res.Summary(&buf))
	require.Contains(t, buf.String(), "report/growth/gene_deletions/g1: mismatch (a=NA, b=0)")
	require.Contains(t, buf.String(), "report: 3 failure(s)")
}

func TestMetadata(t *testing.T) {
	full := frog.Metadata{
		frog.KeySoftwareName:    "fbctest",
		frog.KeyModelFilename:   "toy.json",
		frog.KeyModelMD5:        "aa",
		frog.KeyModelSHA256:     "bb",
		frog.KeySolverName:      "one",
		frog.KeyEnvironment:     "go linux/amd64",
		frog.KeySoftwareURL:     "u",
		frog.KeySoftwareVersion: "1",
	}
	other := frog.Metadata{
		frog.KeySoftwareName:  "another-tool",
		frog.KeyModelFilename: "toy.json",
		frog.KeyModelMD5:      "aa",
		frog.KeySolverName:    "two",
	}
	// sha256 missing on one side and differing tool keys are fine
	require.True(t, compare.Metadata(full, other).Passed())
	require.True(t, compare.Metadata(full, full).Passed())

	other[frog.KeyModelSHA256] = "cc"
	fails := compare.Metadata(full, other).Failures()
	require.Len(t, fails, 1)
	require.Equal(t, "metadata/model.sha256", fails[0].Key())

	delete(other, frog.KeyModelMD5)
	delete(other, frog.KeyModelSHA256)
	fails = compare.Metadata(full, other).Failures()
	require.Len(t, fails, 1)
	require.Equal(t, compare.StatusMissingInB, fails[0].Status)

	fails = compare.Metadata(frog.Metadata{}, frog.Metadata{}).Failures()
	require.Len(t, fails, 2)
	require.Equal(t, compare.StatusMissingInBoth, fails[0].Status)
}

// TestSelfCompare builds a report from the toy model, persists it, reads it
// back and compares it with itself at report and metadata level.
func TestSelfCompare(t *testing.T) {
	solver, err := lp.NewSimplex()
	require.NoError(t, err)
	opt, err := fba.New(solver)
	require.NoError(t, err)
	eng, err := screen.NewEngine(opt, screen.WithWorkers(4))
	require.NoError(t, err)

	data, err := frog.BuildReport(context.Background(), modeltest.Toy(t), eng)
	require.NoError(t, err)

	modelPath := filepath.Join(t.TempDir(), "toy.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(`{"id":"toy"}`), 0o644))
	md, err := frog.NewMetadata(modelPath, opt.SolverName())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "frog")
	require.NoError(t, frog.WriteDir(dir, data, md))
	back, mdBack, err := frog.ReadDir(dir)
	require.NoError(t, err)

	res := compare.Combine("frog",
		compare.Reports(data, back, compare.DefaultTolerance()),
		compare.Metadata(md, mdBack),
	)
	require.True(t, res.Passed())
	require.Empty(t, res.Failures())
}

func TestCombinePaths(t *testing.T) {
	md := frog.Metadata{frog.KeyModelFilename: "m.json", frog.KeyModelMD5: "x"}
	other := frog.Metadata{frog.KeyModelFilename: "m.json", frog.KeyModelMD5: "y"}
	a, b := sample(), sample()
	b["growth"] = frog.ObjectiveReport{
		Optimum:       fba.Some(8),
		Reactions:     a["growth"].Reactions,
		GeneDeletions: a["growth"].GeneDeletions,
	}

	res := compare.Combine("frog",
		compare.Metadata(md, other),
		compare.Reports(a, b, compare.DefaultTolerance()),
	)
	require.False(t, res.Passed())

	var keys []string
	for _, f := range res.Failures() {
		keys = append(keys, f.Key())
	}
	require.Equal(t, []string{"frog/metadata/model.md5", "frog/report/growth/optimum"}, keys)

	var buf bytes.Buffer
	require.NoError(t, res.Summary(&buf))
	require.Equal(t, "frog/metadata/model.md5: mismatch (a=x, b=y)\n"+
		"frog/report/growth/optimum: mismatch (a=7.5, b=8)\n"+
		"frog: 2 failure(s)\n", buf.String())
}
