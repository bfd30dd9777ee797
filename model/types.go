// File: types.go
// Role: Domain entities of a metabolic network and package sentinels.
// Determinism:
//   - Identifier lists returned by the package are ordered by declaration.
//   - Maps (stoichiometry, annotations) are iterated in sorted key order
//     wherever order is observable.

package model

import (
	"errors"
	"sort"

	"github.com/katalvlaran/fbctest/lp"
)

// Sentinel errors for model construction, overlays and loading.
var (
	// ErrEmptyID is returned for an entity without identifier.
	ErrEmptyID = errors.New("model: empty identifier")

	// ErrDuplicateID is returned when two entities of one kind share an ID.
	ErrDuplicateID = errors.New("model: duplicate identifier")

	// ErrUnknownMetabolite is returned when a reaction or lookup names a
	// metabolite that the network does not define.
	ErrUnknownMetabolite = errors.New("model: unknown metabolite")

	// ErrUnknownReaction is returned for lookups and overrides of undefined reactions.
	ErrUnknownReaction = errors.New("model: unknown reaction")

	// ErrUnknownGene is returned for lookups and overrides of undefined genes.
	ErrUnknownGene = errors.New("model: unknown gene")

	// ErrInvalidBounds is returned for NaN bounds or lower > upper.
	ErrInvalidBounds = errors.New("model: invalid reaction bounds")

	// ErrInvalidGPR is returned when a gene-reaction rule cannot be parsed.
	ErrInvalidGPR = errors.New("model: invalid gene-reaction rule")

	// ErrInvalidFormula is returned when a chemical formula cannot be parsed.
	ErrInvalidFormula = errors.New("model: invalid chemical formula")

	// ErrDecode is returned when a model document cannot be decoded.
	ErrDecode = errors.New("model: cannot decode model document")
)

// Annotations maps a database name to external identifiers. The set of
// databases is open: checks iterate whatever keys are present.
type Annotations map[string][]string

// Databases returns the annotated database names in sorted order.
func (a Annotations) Databases() []string {
	out := make([]string, 0, len(a))
	for db, ids := range a {
		if len(ids) > 0 {
			out = append(out, db)
		}
	}
	sort.Strings(out)

	return out
}

// Has reports whether db carries at least one identifier.
func (a Annotations) Has(db string) bool { return len(a[db]) > 0 }

// SBO is the annotation key holding Systems Biology Ontology terms.
const SBO = "sbo"

// Metabolite is a chemical species in one compartment.
type Metabolite struct {
	ID          string
	Name        string
	Formula     string
	Charge      *int
	Compartment string
	Annotations Annotations
}

// Reaction is a flux-carrying transformation.
//
// Stoichiometry maps metabolite ID to a signed coefficient: negative for
// consumption, positive for production. LowerBound/UpperBound are the
// declared flux bounds; GeneRule is the textual gene-reaction rule.
type Reaction struct {
	ID            string
	Name          string
	Stoichiometry map[string]float64
	LowerBound    float64
	UpperBound    float64
	GeneRule      string
	Subsystem     string
	Annotations   Annotations

	rule *GPR
}

// Rule returns the parsed gene-reaction rule. A reaction built outside the
// package gets its rule parsed lazily on first use; parse errors degrade to
// the empty (always active) rule, since New rejects them up front.
func (r *Reaction) Rule() *GPR {
	if r.rule == nil {
		g, err := ParseGPR(r.GeneRule)
		if err != nil {
			return &GPR{}
		}
		return g
	}

	return r.rule
}

// MetaboliteIDs returns the IDs with nonzero coefficient, sorted.
func (r *Reaction) MetaboliteIDs() []string {
	out := make([]string, 0, len(r.Stoichiometry))
	for id, c := range r.Stoichiometry {
		if c != 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

// Reactants returns consumed metabolite IDs (coefficient < 0), sorted.
func (r *Reaction) Reactants() []string { return r.side(-1) }

// Products returns produced metabolite IDs (coefficient > 0), sorted.
func (r *Reaction) Products() []string { return r.side(1) }

func (r *Reaction) side(sign float64) []string {
	var out []string
	for id, c := range r.Stoichiometry {
		if c*sign > 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

// Reversible reports whether the declared bounds admit both directions.
func (r *Reaction) Reversible() bool { return r.LowerBound < 0 && r.UpperBound > 0 }

// Bound returns the declared interval as an lp.Bound.
func (r *Reaction) Bound() lp.Bound { return lp.Bound{Lower: r.LowerBound, Upper: r.UpperBound} }

// Gene is a gene product referenced by gene-reaction rules.
type Gene struct {
	ID          string
	Name        string
	Annotations Annotations
}

// Objective is a named linear objective over reaction fluxes.
type Objective struct {
	ID           string
	Sense        lp.Sense
	Coefficients map[string]float64
}

// ReactionIDs returns the reactions with nonzero coefficient, sorted.
func (o Objective) ReactionIDs() []string {
	out := make([]string, 0, len(o.Coefficients))
	for id, c := range o.Coefficients {
		if c != 0 {
			out = append(out, id)
		}
	}
	sort.Strings(out)

	return out
}

// Single returns the objective "maximize/minimize flux through rid".
func Single(rid string, sense lp.Sense) Objective {
	return Objective{ID: rid, Sense: sense, Coefficients: map[string]float64{rid: 1}}
}

// Constraint is an extra linear row over reaction fluxes.
type Constraint struct {
	Name         string
	Coefficients map[string]float64
	Relation     lp.Relation
	RHS          float64
}
