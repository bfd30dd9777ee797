package model

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/katalvlaran/fbctest/matrix"
)

// SBO terms used to classify reactions.
const (
	SBOBiomass        = "SBO:0000629"
	SBODemand         = "SBO:0000628"
	SBOExchange       = "SBO:0000627"
	SBOSink           = "SBO:0000632"
	SBOATPMaintenance = "SBO:0000630"
)

var biomassPattern = regexp.MustCompile(`(?i)biomass`)

// IsBoundary reports whether r has exactly one metabolite with nonzero
// coefficient (exchange, demand or sink).
func IsBoundary(r *Reaction) bool {
	n := 0
	for _, c := range r.Stoichiometry {
		if c != 0 {
			n++
		}
	}

	return n == 1
}

// HasSBO reports whether r is annotated with any of terms.
func HasSBO(a Annotations, terms ...string) bool {
	for _, have := range a[SBO] {
		for _, want := range terms {
			if strings.EqualFold(have, want) {
				return true
			}
		}
	}

	return false
}

// IsBiomass reports whether r looks like a biomass reaction: SBO:0000629,
// or "biomass" in its ID or name.
func IsBiomass(r *Reaction) bool {
	return HasSBO(r.Annotations, SBOBiomass) ||
		biomassPattern.MatchString(r.ID) ||
		biomassPattern.MatchString(r.Name)
}

// BoundaryReactions returns the boundary reactions of n in order.
func BoundaryReactions(n Network) []*Reaction {
	var out []*Reaction
	for _, r := range n.Reactions() {
		if IsBoundary(r) {
			out = append(out, r)
		}
	}

	return out
}

// ReactionsOf returns the reactions in which mid has a nonzero coefficient.
func ReactionsOf(n Network, mid string) []*Reaction {
	var out []*Reaction
	for _, r := range n.Reactions() {
		if r.Stoichiometry[mid] != 0 {
			out = append(out, r)
		}
	}

	return out
}

// StoichiometricMatrix returns S (metabolites × reactions) in declaration
// order, together with the row and column IDs.
//
// Errors: wrapped matrix errors only (non-finite coefficients).
// Complexity: O(|M|·|R|) memory.
func StoichiometricMatrix(n Network) (*matrix.Dense, []string, []string, error) {
	mets := n.Metabolites()
	rxns := n.Reactions()
	rowOf := make(map[string]int, len(mets))
	metIDs := make([]string, len(mets))
	for i, m := range mets {
		rowOf[m.ID] = i
		metIDs[i] = m.ID
	}
	rxnIDs := make([]string, len(rxns))

	s, err := matrix.NewDense(len(mets), len(rxns))
	if err != nil {
		return nil, nil, nil, fmt.Errorf("model: stoichiometric matrix: %w", err)
	}
	for j, r := range rxns {
		rxnIDs[j] = r.ID
		for mid, c := range r.Stoichiometry {
			if err := s.Set(rowOf[mid], j, c); err != nil {
				return nil, nil, nil, fmt.Errorf("model: reaction %q: %w", r.ID, err)
			}
		}
	}

	return s, metIDs, rxnIDs, nil
}
