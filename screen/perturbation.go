package screen

import (
	"fmt"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
)

// Perturbation kinds, used as log fields and metric labels.
const (
	KindGeneKnockout = "gene_knockout"
	KindFixFlux      = "fix_flux"
	KindVariability  = "variability"
	KindDemand       = "demand"
)

// DemandBound is the upper bound of demand reactions added by Demand.
const DemandBound = 1000

// Perturbation describes one independent optimization task. Apply
// configures a private overlay; ok == false means the task is vacuous and
// yields an absent value without solving.
type Perturbation interface {
	Kind() string
	Apply(v *model.Variant) (ok bool, err error)
	fmt.Stringer
}

// GeneKnockout deactivates one gene.
type GeneKnockout struct {
	Gene string
}

// Kind implements Perturbation.
func (GeneKnockout) Kind() string { return KindGeneKnockout }

// Apply implements Perturbation.
func (p GeneKnockout) Apply(v *model.Variant) (bool, error) {
	return true, v.KnockoutGene(p.Gene)
}

func (p GeneKnockout) String() string { return "knockout gene " + p.Gene }

// FixFlux pins a reaction's flux to Value.
type FixFlux struct {
	Reaction string
	Value    float64
}

// ReactionKnockout fixes rid to zero flux.
func ReactionKnockout(rid string) FixFlux { return FixFlux{Reaction: rid} }

// Kind implements Perturbation.
func (FixFlux) Kind() string { return KindFixFlux }

// Apply implements Perturbation.
func (p FixFlux) Apply(v *model.Variant) (bool, error) {
	return true, v.SetBounds(p.Reaction, lp.Bound{Lower: p.Value, Upper: p.Value})
}

func (p FixFlux) String() string { return fmt.Sprintf("fix %s = %g", p.Reaction, p.Value) }

// Variability optimizes one reaction's flux in Sense while the network's
// objective stays within Fraction of Optimum. An absent Optimum (the base
// problem was infeasible) makes the task vacuous.
type Variability struct {
	Reaction string
	Sense    lp.Sense
	Fraction float64
	Optimum  fba.Value
}

// Kind implements Perturbation.
func (Variability) Kind() string { return KindVariability }

// Apply implements Perturbation.
func (p Variability) Apply(v *model.Variant) (bool, error) {
	opt, ok := p.Optimum.Get()
	if !ok {
		return false, nil
	}
	if obj := v.Objective(); len(obj.Coefficients) > 0 {
		if err := v.AddConstraint(fba.OptimumConstraint(obj, opt, p.Fraction)); err != nil {
			return false, err
		}
	}

	return true, v.SetObjective(model.Single(p.Reaction, p.Sense))
}

func (p Variability) String() string {
	return fmt.Sprintf("%s %s at %g of optimum", p.Sense, p.Reaction, p.Fraction)
}

// Demand adds "DM_<metabolite>" (metabolite → ∅) and maximizes it.
type Demand struct {
	Metabolite string
}

// DemandID names the demand reaction for mid.
func DemandID(mid string) string { return "DM_" + mid }

// Kind implements Perturbation.
func (Demand) Kind() string { return KindDemand }

// Apply implements Perturbation.
func (p Demand) Apply(v *model.Variant) (bool, error) {
	rid := DemandID(p.Metabolite)
	// an existing demand reaction is reused
	if _, exists := v.Reaction(rid); !exists {
		err := v.AddReaction(model.Reaction{
			ID:            rid,
			Name:          "Demand " + p.Metabolite,
			Stoichiometry: map[string]float64{p.Metabolite: -1},
			UpperBound:    DemandBound,
			Annotations:   model.Annotations{model.SBO: {model.SBODemand}},
		})
		if err != nil {
			return false, err
		}
	}

	return true, v.SetObjective(model.Single(rid, lp.Maximize))
}

func (p Demand) String() string { return "demand " + p.Metabolite }

// GeneKnockouts returns one GeneKnockout per gene of net, in order.
func GeneKnockouts(net model.Network) []Perturbation {
	genes := net.Genes()
	out := make([]Perturbation, len(genes))
	for i, g := range genes {
		out[i] = GeneKnockout{Gene: g.ID}
	}

	return out
}

// ReactionKnockouts returns one zero-flux FixFlux per reaction of net.
func ReactionKnockouts(net model.Network) []Perturbation {
	rxns := net.Reactions()
	out := make([]Perturbation, len(rxns))
	for i, r := range rxns {
		out[i] = ReactionKnockout(r.ID)
	}

	return out
}

// VariabilityScan returns [min r0, max r0, min r1, max r1, ...] for rids.
func VariabilityScan(rids []string, fraction float64, optimum fba.Value) []Perturbation {
	out := make([]Perturbation, 0, 2*len(rids))
	for _, rid := range rids {
		out = append(out,
			Variability{Reaction: rid, Sense: lp.Minimize, Fraction: fraction, Optimum: optimum},
			Variability{Reaction: rid, Sense: lp.Maximize, Fraction: fraction, Optimum: optimum},
		)
	}

	return out
}
