package frog

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/katalvlaran/fbctest/fba"
)

// File names of a report directory.
const (
	MetadataFile         = "metadata.json"
	ObjectiveFile        = "01_objective.tsv"
	VariabilityFile      = "02_fva.tsv"
	GeneDeletionFile     = "03_gene_deletion.tsv"
	ReactionDeletionFile = "04_reaction_deletion.tsv"
)

const (
	statusOptimal    = "optimal"
	statusInfeasible = "infeasible"
)

var (
	objectiveHeader        = []string{"model", "objective", "status", "value"}
	variabilityHeader      = []string{"model", "objective", "reaction", "flux", "status", "minimum", "maximum"}
	geneDeletionHeader     = []string{"model", "objective", "gene", "status", "value"}
	reactionDeletionHeader = []string{"model", "objective", "reaction", "status", "value"}
)

// WriteReport encodes d as indented JSON.
func WriteReport(w io.Writer, d ReportData) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return fmt.Errorf("frog: encode report: %w", err)
	}

	return nil
}

// ReadReport decodes a JSON report.
// Errors: ErrFormat.
func ReadReport(r io.Reader) (ReportData, error) {
	var d ReportData
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFormat, err)
	}
	for id, rep := range d {
		if rep.Reactions == nil {
			rep.Reactions = map[string]ReactionReport{}
		}
		if rep.GeneDeletions == nil {
			rep.GeneDeletions = map[string]fba.Value{}
		}
		d[id] = rep
	}

	return d, nil
}

// WriteMetadata encodes md as indented JSON with sorted keys.
func WriteMetadata(w io.Writer, md Metadata) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(md); err != nil {
		return fmt.Errorf("frog: encode metadata: %w", err)
	}

	return nil
}

// ReadMetadata decodes a flat JSON string map.
// Errors: ErrFormat.
func ReadMetadata(r io.Reader) (Metadata, error) {
	var md Metadata
	if err := json.NewDecoder(r).Decode(&md); err != nil {
		return nil, fmt.Errorf("%w: metadata: %v", ErrFormat, err)
	}

	return md, nil
}

// WriteDir lays out a report directory: metadata.json plus one TSV table
// per screen. Rows are sorted by objective, then reaction or gene.
func WriteDir(dir string, d ReportData, md Metadata) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("frog: %w", err)
	}
	if err := writeFile(filepath.Join(dir, MetadataFile), func(w io.Writer) error {
		return WriteMetadata(w, md)
	}); err != nil {
		return err
	}

	modelName := md[KeyModelFilename]
	var objRows, fvaRows, geneRows, rxnRows [][]string
	for _, oid := range d.Objectives() {
		rep := d[oid]
		objRows = append(objRows, []string{modelName, oid, status(rep.Optimum), rep.Optimum.String()})
		for _, rid := range rep.ReactionIDs() {
			rr := rep.Reactions[rid]
			fvaRows = append(fvaRows, []string{
				modelName, oid, rid, rr.Flux.String(),
				status(rr.VariabilityMin, rr.VariabilityMax),
				rr.VariabilityMin.String(), rr.VariabilityMax.String(),
			})
			rxnRows = append(rxnRows, []string{modelName, oid, rid, status(rr.Deletion), rr.Deletion.String()})
		}
		for _, gid := range rep.GeneIDs() {
			v := rep.GeneDeletions[gid]
			geneRows = append(geneRows, []string{modelName, oid, gid, status(v), v.String()})
		}
	}

	tables := []struct {
		name   string
		header []string
		rows   [][]string
	}{
		{ObjectiveFile, objectiveHeader, objRows},
		{VariabilityFile, variabilityHeader, fvaRows},
		{GeneDeletionFile, geneDeletionHeader, geneRows},
		{ReactionDeletionFile, reactionDeletionHeader, rxnRows},
	}
	for _, t := range tables {
		err := writeFile(filepath.Join(dir, t.name), func(w io.Writer) error {
			return writeTSV(w, t.header, t.rows)
		})
		if err != nil {
			return err
		}
	}

	return nil
}

// ReadDir loads a directory written by WriteDir (or any tool following the
// same layout). Columns are matched by header name.
// Errors: ErrFormat, or the underlying I/O error.
func ReadDir(dir string) (ReportData, Metadata, error) {
	f, err := os.Open(filepath.Join(dir, MetadataFile))
	if err != nil {
		return nil, nil, fmt.Errorf("frog: %w", err)
	}
	md, err := ReadMetadata(f)
	f.Close()
	if err != nil {
		return nil, nil, err
	}

	d := ReportData{}
	objective := func(oid string) ObjectiveReport {
		rep, ok := d[oid]
		if !ok {
			rep = ObjectiveReport{
				Reactions:     map[string]ReactionReport{},
				GeneDeletions: map[string]fba.Value{},
			}
		}
		return rep
	}

	err = readTSV(filepath.Join(dir, ObjectiveFile), objectiveHeader, func(row map[string]string) error {
		v, err := fba.ParseValue(row["value"])
		if err != nil {
			return err
		}
		rep := objective(row["objective"])
		rep.Optimum = v
		d[row["objective"]] = rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	err = readTSV(filepath.Join(dir, VariabilityFile), variabilityHeader, func(row map[string]string) error {
		vals, err := parseValues(row["flux"], row["minimum"], row["maximum"])
		if err != nil {
			return err
		}
		rep := objective(row["objective"])
		rr := rep.Reactions[row["reaction"]]
		rr.Flux, rr.VariabilityMin, rr.VariabilityMax = vals[0], vals[1], vals[2]
		rep.Reactions[row["reaction"]] = rr
		d[row["objective"]] = rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	err = readTSV(filepath.Join(dir, ReactionDeletionFile), reactionDeletionHeader, func(row map[string]string) error {
		v, err := fba.ParseValue(row["value"])
		if err != nil {
			return err
		}
		rep := objective(row["objective"])
		rr := rep.Reactions[row["reaction"]]
		rr.Deletion = v
		rep.Reactions[row["reaction"]] = rr
		d[row["objective"]] = rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	err = readTSV(filepath.Join(dir, GeneDeletionFile), geneDeletionHeader, func(row map[string]string) error {
		v, err := fba.ParseValue(row["value"])
		if err != nil {
			return err
		}
		rep := objective(row["objective"])
		rep.GeneDeletions[row["gene"]] = v
		d[row["objective"]] = rep
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return d, md, nil
}

// status labels a row optimal only when every value is present.
func status(vs ...fba.Value) string {
	for _, v := range vs {
		if !v.Valid {
			return statusInfeasible
		}
	}

	return statusOptimal
}

func parseValues(ss ...string) ([]fba.Value, error) {
	out := make([]fba.Value, len(ss))
	for i, s := range ss {
		v, err := fba.ParseValue(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}

	return out, nil
}

func writeFile(path string, fn func(io.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("frog: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("frog: close %s: %w", path, cerr)
		}
	}()

	return fn(f)
}

func writeTSV(w io.Writer, header []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	cw.Comma = '\t'
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("frog: write tsv: %w", err)
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("frog: write tsv: %w", err)
	}

	return nil
}

// readTSV streams the rows of path as column-name maps, requiring every
// column of want in the header.
func readTSV(path string, want []string, fn func(row map[string]string) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("frog: %w", err)
	}
	defer f.Close()

	cr := csv.NewReader(f)
	cr.Comma = '\t'
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return fmt.Errorf("%w: %s: header: %v", ErrFormat, filepath.Base(path), err)
	}
	col := make(map[string]int, len(header))
	for i, h := range header {
		col[h] = i
	}
	for _, name := range want {
		if _, ok := col[name]; !ok {
			return fmt.Errorf("%w: %s: missing column %q", ErrFormat, filepath.Base(path), name)
		}
	}

	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrFormat, filepath.Base(path), err)
		}
		row := make(map[string]string, len(col))
		for name, i := range col {
			if i < len(rec) {
				row[name] = rec[i]
			}
		}
		if err := fn(row); err != nil {
			return fmt.Errorf("%w: %s line %d: %v", ErrFormat, filepath.Base(path), line, err)
		}
	}
}
