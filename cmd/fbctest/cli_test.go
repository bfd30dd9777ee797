package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

const miniModel = `{
  "id": "mini",
  "metabolites": [
    {"id": "a_c", "name": "A", "compartment": "c", "formula": "C2H4", "charge": 0,
     "annotation": {"inchi_key": "AAAAAAAAAAAAAA-BBBBBBBBBB-C"}},
    {"id": "b_c", "name": "B", "compartment": "c", "formula": "C2H4", "charge": 0}
  ],
  "reactions": [
    {"id": "EX_a", "metabolites": {"a_c": -1}, "lower_bound": -10, "upper_bound": 1000},
    {"id": "AB", "metabolites": {"a_c": -1, "b_c": 1}, "lower_bound": 0, "upper_bound": 1000,
     "gene_reaction_rule": "G1 or G2"},
    {"id": "EX_b", "metabolites": {"b_c": -1}, "lower_bound": 0, "upper_bound": 1000,
     "objective_coefficient": 1.0}
  ],
  "genes": [{"id": "G1"}, {"id": "G2"}]
}`

// workspace writes the model and a configuration that keeps the archive
// inside a temporary directory.
func workspace(t *testing.T) (dir, modelPath, cfgPath string) {
	t.Helper()
	dir = t.TempDir()
	modelPath = filepath.Join(dir, "mini.json")
	require.NoError(t, os.WriteFile(modelPath, []byte(miniModel), 0o644))

	cfgPath = filepath.Join(dir, "fbctest.yaml")
	cfg := "logging:\n  level: error\n  format: json\n" +
		"archive:\n  database: " + filepath.Join(dir, "runs.db") + "\n" +
		"  blob:\n    driver: fs\n    root: " + filepath.Join(dir, "blobs") + "\n"
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return dir, modelPath, cfgPath
}

func execute(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestFrogReportAndCompare(t *testing.T) {
	dir, modelPath, cfgPath := workspace(t)
	a, b := filepath.Join(dir, "a"), filepath.Join(dir, "b")

	code, out, stderr := execute(t, "--config", cfgPath, "frog", "report", modelPath, "-o", a)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, out, "wrote 1 objective(s)")
	for _, name := range []string{"metadata.json", "01_objective.tsv", "02_fva.tsv", "03_gene_deletion.tsv", "04_reaction_deletion.tsv"} {
		require.FileExists(t, filepath.Join(a, name))
	}

	code, _, stderr = execute(t, "--config", cfgPath, "--workers", "3", "frog", "report", modelPath, "-o", b)
	require.Equal(t, 0, code, stderr)

	code, out, stderr = execute(t, "--config", cfgPath, "frog", "compare", a, b)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, out, "frog: 0 failure(s)")

	// a different model file disagrees on md5 and on the optimum
	other := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(other, []byte(strings.Replace(miniModel, `"lower_bound": -10`, `"lower_bound": -20`, 1)), 0o644))
	c := filepath.Join(dir, "c")
	code, _, stderr = execute(t, "--config", cfgPath, "frog", "report", other, "-o", c)
	require.Equal(t, 0, code, stderr)

	code, out, _ = execute(t, "--config", cfgPath, "frog", "compare", a, c)
	require.Equal(t, 1, code)
	require.Contains(t, out, "frog/metadata/model.md5: mismatch")
	require.Contains(t, out, "frog/report/obj/optimum: mismatch (a=10, b=20)")
}

func TestArchiveRoundTrip(t *testing.T) {
	dir, modelPath, cfgPath := workspace(t)
	report := filepath.Join(dir, "frog")

	code, _, stderr := execute(t, "--config", cfgPath, "frog", "report", modelPath, "-o", report)
	require.Equal(t, 0, code, stderr)

	code, out, stderr := execute(t, "--config", cfgPath, "archive", "put", report)
	require.Equal(t, 0, code, stderr)
	id := strings.TrimSpace(out)
	require.NotEmpty(t, id)

	code, out, stderr = execute(t, "--config", cfgPath, "archive", "list")
	require.Equal(t, 0, code, stderr)
	require.Contains(t, out, id)
	require.Contains(t, out, "mini.json")

	restored := filepath.Join(dir, "restored")
	code, _, stderr = execute(t, "--config", cfgPath, "archive", "fetch", id, "-o", restored)
	require.Equal(t, 0, code, stderr)

	code, out, stderr = execute(t, "--config", cfgPath, "frog", "compare", report, restored)
	require.Equal(t, 0, code, stderr)
	require.Contains(t, out, "frog: 0 failure(s)")

	code, _, stderr = execute(t, "--config", cfgPath, "archive", "fetch", "no-such-run")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "run not found")
}

func TestCheckJSON(t *testing.T) {
	_, modelPath, cfgPath := workspace(t)

	code, out, stderr := execute(t, "--config", cfgPath, "check", modelPath, "--json")
	require.Contains(t, []int{0, 1}, code, stderr)

	var rep checkReport
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	require.Equal(t, "mini", rep.Model)
	require.Empty(t, rep.EnergyCycles)
	require.Equal(t, []string{"b_c"}, rep.Annotation.UnannotatedMetabolites)
	require.Equal(t, []string{"G1", "G2"}, rep.Annotation.UnannotatedGenes)
}

func TestUsageErrors(t *testing.T) {
	_, _, cfgPath := workspace(t)

	code, _, stderr := execute(t, "--config", cfgPath, "frog", "compare", "only-one")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "accepts 2 arg(s)")

	code, _, stderr = execute(t, "--config", cfgPath, "--workers", "0", "check", "x.json")
	require.Equal(t, 1, code)
	require.Contains(t, stderr, "invalid configuration")
}
