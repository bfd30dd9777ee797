// Package biomass inspects biomass reactions: detection, precursor
// production under the model's own medium, and energy requirements.
package biomass

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/screen"
)

// ErrNotBiomass is returned when a reaction ID is unknown.
var ErrNotBiomass = errors.New("biomass: unknown reaction")

// DefaultThreshold is the demand flux at or below which a precursor is blocked.
const DefaultThreshold = 1e-6

// FindBiomassReactions returns the biomass-like reactions in network order.
func FindBiomassReactions(net model.Network) []*model.Reaction {
	var out []*model.Reaction
	for _, r := range net.Reactions() {
		if model.IsBiomass(r) {
			out = append(out, r)
		}
	}

	return out
}

// Precursors returns the metabolites consumed by reaction rid, sorted.
// When rid also returns ADP, the consumed ATP and water are treated as
// growth-associated maintenance and left out.
func Precursors(net model.Network, rid string) ([]string, error) {
	r, ok := net.Reaction(rid)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNotBiomass, rid)
	}
	gam := false
	for _, mid := range r.Products() {
		if matches(net, mid, adp) {
			gam = true
			break
		}
	}
	if !gam {
		return r.Reactants(), nil
	}

	var out []string
	for _, mid := range r.Reactants() {
		if matches(net, mid, atp) || matches(net, mid, water) {
			continue
		}
		out = append(out, mid)
	}

	return out, nil
}

// BlockedPrecursors returns the precursors of rid that the network cannot
// produce: for each precursor a demand reaction is maximized (one Demand
// perturbation each, through eng); an absent or non-positive optimum means
// blocked. The result keeps Precursors order.
func BlockedPrecursors(ctx context.Context, net model.Network, eng *screen.Engine, rid string) ([]string, error) {
	pre, err := Precursors(net, rid)
	if err != nil {
		return nil, err
	}
	ps := make([]screen.Perturbation, len(pre))
	for i, mid := range pre {
		ps[i] = screen.Demand{Metabolite: mid}
	}
	vals, err := eng.Run(ctx, net, ps)
	if err != nil {
		return nil, fmt.Errorf("biomass: precursor demand: %w", err)
	}

	var blocked []string
	for i, v := range vals {
		if f, ok := v.Get(); !ok || f <= DefaultThreshold {
			blocked = append(blocked, pre[i])
		}
	}

	return blocked, nil
}

// MaxFlux maximizes the flux through rid.
func MaxFlux(ctx context.Context, net model.Network, opt *fba.Optimizer, rid string) (fba.Value, error) {
	if _, ok := net.Reaction(rid); !ok {
		return fba.None(), fmt.Errorf("%w: %q", ErrNotBiomass, rid)
	}
	v := model.NewVariant(net)
	if err := v.SetObjective(model.Single(rid, lp.Maximize)); err != nil {
		return fba.None(), err
	}

	return opt.Evaluate(ctx, v, "biomass")
}

// ATPInBiomass reports whether rid consumes ATP.
func ATPInBiomass(net model.Network, rid string) (bool, error) {
	r, ok := net.Reaction(rid)
	if !ok {
		return false, fmt.Errorf("%w: %q", ErrNotBiomass, rid)
	}
	for _, mid := range r.Reactants() {
		if matches(net, mid, atp) {
			return true, nil
		}
	}

	return false, nil
}

// compound identifies a metabolite by ID prefix, name or KEGG compound.
type compound struct {
	prefix string
	name   string
	kegg   string
}

var (
	atp   = compound{prefix: "atp_", name: "ATP", kegg: "C00002"}
	adp   = compound{prefix: "adp_", name: "ADP", kegg: "C00008"}
	water = compound{prefix: "h2o_", name: "H2O", kegg: "C00001"}
)

func matches(net model.Network, mid string, c compound) bool {
	if strings.HasPrefix(strings.ToLower(mid), c.prefix) {
		return true
	}
	m, ok := net.Metabolite(mid)
	if !ok {
		return false
	}
	if strings.EqualFold(m.Name, c.name) {
		return true
	}
	for _, id := range m.Annotations["kegg.compound"] {
		if id == c.kegg {
			return true
		}
	}

	return false
}
