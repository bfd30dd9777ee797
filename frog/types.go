// SPDX-License-Identifier: MIT

package frog

import (
	"errors"
	"sort"

	"github.com/katalvlaran/fbctest/fba"
)

// Sentinel errors.
var (
	// ErrNilNetwork is returned by BuildReport without a network.
	ErrNilNetwork = errors.New("frog: nil network")

	// ErrNilEngine is returned by BuildReport without a screening engine.
	ErrNilEngine = errors.New("frog: nil engine")

	// ErrOptionViolation is returned when an invalid Option is supplied.
	ErrOptionViolation = errors.New("frog: invalid option supplied")

	// ErrFormat is returned when a persisted report cannot be decoded.
	ErrFormat = errors.New("frog: malformed report")
)

// ReactionReport is the per-reaction leaf of an objective report.
type ReactionReport struct {
	Flux           fba.Value `json:"flux"`
	VariabilityMin fba.Value `json:"variability_min"`
	VariabilityMax fba.Value `json:"variability_max"`
	Deletion       fba.Value `json:"deletion"`
}

// ObjectiveReport collects the screens run under one objective.
type ObjectiveReport struct {
	Optimum       fba.Value                 `json:"optimum"`
	Reactions     map[string]ReactionReport `json:"reactions"`
	GeneDeletions map[string]fba.Value      `json:"gene_deletions"`
}

// ReportData maps objective IDs to their reports.
type ReportData map[string]ObjectiveReport

// Objectives returns the objective IDs, sorted.
func (d ReportData) Objectives() []string { return sortedKeys(d) }

// ReactionIDs returns the reaction IDs of r, sorted.
func (r ObjectiveReport) ReactionIDs() []string { return sortedKeys(r.Reactions) }

// GeneIDs returns the gene IDs of r, sorted.
func (r ObjectiveReport) GeneIDs() []string { return sortedKeys(r.GeneDeletions) }

// Metadata keys.
const (
	KeySoftwareName    = "software.name"
	KeySoftwareVersion = "software.version"
	KeySoftwareURL     = "software.url"
	KeyEnvironment     = "environment"
	KeyModelFilename   = "model.filename"
	KeyModelMD5        = "model.md5"
	KeyModelSHA256     = "model.sha256"
	KeySolverName      = "solver.name"
)

// MetadataKeys lists every key NewMetadata fills, in persisted order.
var MetadataKeys = []string{
	KeySoftwareName,
	KeySoftwareVersion,
	KeySoftwareURL,
	KeyEnvironment,
	KeyModelFilename,
	KeyModelMD5,
	KeyModelSHA256,
	KeySolverName,
}

// Metadata describes the software, environment and model file behind a
// report. It never describes model content.
type Metadata map[string]string

func sortedKeys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)

	return out
}
