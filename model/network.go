package model

import "github.com/katalvlaran/fbctest/lp"

// Network is the read-only capability the analyses consume. *Model is the
// base implementation; *Variant overlays a parent Network.
//
// Slices and entity pointers returned by a Network are shared with the
// base model and must not be modified by callers.
type Network interface {
	// ID names the underlying model.
	ID() string

	// Metabolites, Reactions and Genes return entities in declaration order.
	// Reactions of an overlay include its added reactions, after the parent's.
	Metabolites() []*Metabolite
	Reactions() []*Reaction
	Genes() []*Gene

	Metabolite(id string) (*Metabolite, bool)
	Reaction(id string) (*Reaction, bool)
	Gene(id string) (*Gene, bool)

	// DeclaredBounds is the reaction interval before gene knockouts apply.
	DeclaredBounds(rid string) (lp.Bound, bool)

	// Bounds is the effective interval: DeclaredBounds, or (0, 0) when the
	// reaction's gene-reaction rule is false under the active gene set.
	Bounds(rid string) (lp.Bound, bool)

	// GeneActive reports whether a gene has not been knocked out.
	GeneActive(gid string) bool

	// Objective is the active objective; Objectives the named ones.
	Objective() Objective
	Objectives() []Objective

	// Constraints are extra linear rows beyond steady-state mass balance.
	Constraints() []Constraint
}

// effectiveBounds applies the gene-reaction rule of r under n's gene state.
func effectiveBounds(n Network, r *Reaction, b lp.Bound) lp.Bound {
	if r.Rule().Eval(n.GeneActive) {
		return b
	}

	return lp.Bound{}
}

// ReactionsOfGene returns the reactions whose rule names gid, in order.
func ReactionsOfGene(n Network, gid string) []*Reaction {
	var out []*Reaction
	for _, r := range n.Reactions() {
		for _, g := range r.Rule().Genes() {
			if g == gid {
				out = append(out, r)
				break
			}
		}
	}

	return out
}
