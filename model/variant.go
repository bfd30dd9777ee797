// File: variant.go
// Role: Non-mutating overlays over a Network.
// Concurrency:
//   - A Variant is configured by one goroutine, then read-only.
//   - Many Variants may share one parent; the parent is never written.

package model

import (
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/lp"
)

// Variant forwards every read to its parent except the overridden pieces:
// the active objective, knocked-out genes, reaction bounds, added
// reactions and extra constraints. Creating one costs O(1); overrides cost
// O(1) each, independent of network size.
type Variant struct {
	parent Network

	objective *Objective
	inactive  map[string]bool
	bounds    map[string]lp.Bound

	added    []*Reaction
	addedIdx map[string]int

	constraints []Constraint
}

// NewVariant returns an overlay over parent with no overrides.
func NewVariant(parent Network) *Variant {
	return &Variant{parent: parent}
}

// Parent returns the overlaid network.
func (v *Variant) Parent() Network { return v.parent }

// SetObjective replaces the active objective.
// Errors: ErrUnknownReaction when a coefficient names no reaction.
func (v *Variant) SetObjective(o Objective) error {
	for rid := range o.Coefficients {
		if _, ok := v.Reaction(rid); !ok {
			return fmt.Errorf("%w: %q in objective %q", ErrUnknownReaction, rid, o.ID)
		}
	}
	v.objective = &o

	return nil
}

// KnockoutGene marks gid inactive; reactions whose rule becomes false get
// effective bounds (0, 0).
// Errors: ErrUnknownGene.
func (v *Variant) KnockoutGene(gid string) error {
	if _, ok := v.Gene(gid); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownGene, gid)
	}
	if v.inactive == nil {
		v.inactive = make(map[string]bool)
	}
	v.inactive[gid] = true

	return nil
}

// SetBounds overrides the declared interval of rid.
// Errors: ErrUnknownReaction, ErrInvalidBounds (NaN or lower > upper).
func (v *Variant) SetBounds(rid string, b lp.Bound) error {
	if _, ok := v.Reaction(rid); !ok {
		return fmt.Errorf("%w: %q", ErrUnknownReaction, rid)
	}
	if math.IsNaN(b.Lower) || math.IsNaN(b.Upper) || b.Lower > b.Upper {
		return fmt.Errorf("%w: reaction %q [%g, %g]", ErrInvalidBounds, rid, b.Lower, b.Upper)
	}
	if v.bounds == nil {
		v.bounds = make(map[string]lp.Bound)
	}
	v.bounds[rid] = b

	return nil
}

// AddReaction appends a reaction (demand, sink or dissipation) to the overlay.
// Errors: ErrEmptyID, ErrDuplicateID, ErrUnknownMetabolite, ErrInvalidBounds,
// ErrInvalidGPR, ErrUnknownGene for rule genes the network does not define.
func (v *Variant) AddReaction(r Reaction) error {
	if _, dup := v.Reaction(r.ID); dup {
		return fmt.Errorf("%w: reaction %q", ErrDuplicateID, r.ID)
	}
	for mid := range r.Stoichiometry {
		if _, ok := v.Metabolite(mid); !ok {
			return fmt.Errorf("%w: %q in reaction %q", ErrUnknownMetabolite, mid, r.ID)
		}
	}
	// metabolites already checked, so an index of just these IDs suffices
	idx := make(map[string]int, len(r.Stoichiometry))
	for mid := range r.Stoichiometry {
		idx[mid] = 0
	}
	pr, err := prepareReaction(r, idx)
	if err != nil {
		return err
	}
	for _, gid := range pr.rule.Genes() {
		if _, ok := v.Gene(gid); !ok {
			return fmt.Errorf("%w: %q in reaction %q", ErrUnknownGene, gid, r.ID)
		}
	}
	if v.addedIdx == nil {
		v.addedIdx = make(map[string]int)
	}
	v.addedIdx[pr.ID] = len(v.added)
	v.added = append(v.added, pr)

	return nil
}

// AddConstraint appends an extra linear row.
// Errors: ErrUnknownReaction.
func (v *Variant) AddConstraint(c Constraint) error {
	for rid := range c.Coefficients {
		if _, ok := v.Reaction(rid); !ok {
			return fmt.Errorf("%w: %q in constraint %q", ErrUnknownReaction, rid, c.Name)
		}
	}
	v.constraints = append(v.constraints, c)

	return nil
}

// ID implements Network.
func (v *Variant) ID() string { return v.parent.ID() }

// Metabolites implements Network.
func (v *Variant) Metabolites() []*Metabolite { return v.parent.Metabolites() }

// Reactions implements Network.
func (v *Variant) Reactions() []*Reaction {
	base := v.parent.Reactions()
	if len(v.added) == 0 {
		return base
	}
	out := make([]*Reaction, 0, len(base)+len(v.added))
	out = append(out, base...)

	return append(out, v.added...)
}

// Genes implements Network.
func (v *Variant) Genes() []*Gene { return v.parent.Genes() }

// Metabolite implements Network.
func (v *Variant) Metabolite(id string) (*Metabolite, bool) { return v.parent.Metabolite(id) }

// Reaction implements Network.
func (v *Variant) Reaction(id string) (*Reaction, bool) {
	if i, ok := v.addedIdx[id]; ok {
		return v.added[i], true
	}
	return v.parent.Reaction(id)
}

// Gene implements Network.
func (v *Variant) Gene(id string) (*Gene, bool) { return v.parent.Gene(id) }

// DeclaredBounds implements Network.
func (v *Variant) DeclaredBounds(rid string) (lp.Bound, bool) {
	if b, ok := v.bounds[rid]; ok {
		return b, true
	}
	if i, ok := v.addedIdx[rid]; ok {
		return v.added[i].Bound(), true
	}
	return v.parent.DeclaredBounds(rid)
}

// Bounds implements Network.
func (v *Variant) Bounds(rid string) (lp.Bound, bool) {
	b, ok := v.DeclaredBounds(rid)
	if !ok {
		return lp.Bound{}, false
	}
	r, _ := v.Reaction(rid)

	return effectiveBounds(v, r, b), true
}

// GeneActive implements Network.
func (v *Variant) GeneActive(gid string) bool {
	if v.inactive[gid] {
		return false
	}
	return v.parent.GeneActive(gid)
}

// Objective implements Network.
func (v *Variant) Objective() Objective {
	if v.objective != nil {
		return *v.objective
	}
	return v.parent.Objective()
}

// Objectives implements Network.
func (v *Variant) Objectives() []Objective { return v.parent.Objectives() }

// Constraints implements Network.
func (v *Variant) Constraints() []Constraint {
	base := v.parent.Constraints()
	if len(v.constraints) == 0 {
		return base
	}
	out := make([]Constraint, 0, len(base)+len(v.constraints))
	out = append(out, base...)

	return append(out, v.constraints...)
}
