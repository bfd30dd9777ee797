package network

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/screen"
)

// BlockedThreshold is the flux magnitude at or below which a reaction
// counts as blocked.
const BlockedThreshold = 1e-9

// usage tallies how the admissible reactions of a metabolite treat it.
type usage struct {
	produced bool
	consumed bool
}

// usages scans every non-biomass reaction under its effective bounds.
func usages(net model.Network) map[string]*usage {
	out := make(map[string]*usage)
	for _, r := range net.Reactions() {
		if model.IsBiomass(r) {
			continue
		}
		for _, d := range directions(net, r) {
			for _, mid := range d.inputs {
				tally(out, mid).consumed = true
			}
			for _, mid := range d.outputs {
				tally(out, mid).produced = true
			}
		}
	}

	return out
}

func tally(m map[string]*usage, mid string) *usage {
	u, ok := m[mid]
	if !ok {
		u = &usage{}
		m[mid] = u
	}

	return u
}

// OrphanMetabolites returns metabolites that are consumed but never
// produced by any admissible non-biomass reaction, in declaration order.
func OrphanMetabolites(net model.Network) ([]string, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	use := usages(net)
	var out []string
	for _, m := range net.Metabolites() {
		if u, ok := use[m.ID]; ok && u.consumed && !u.produced {
			out = append(out, m.ID)
		}
	}

	return out, nil
}

// DeadEndMetabolites returns metabolites that are produced but never
// consumed by any admissible non-biomass reaction, in declaration order.
func DeadEndMetabolites(net model.Network) ([]string, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	use := usages(net)
	var out []string
	for _, m := range net.Metabolites() {
		if u, ok := use[m.ID]; ok && u.produced && !u.consumed {
			out = append(out, m.ID)
		}
	}

	return out, nil
}

// UnreachableMetabolites returns, in declaration order, the metabolites
// that Reach never produces under opts.
func UnreachableMetabolites(net model.Network, opts ...Option) ([]string, error) {
	res, err := Reach(net, opts...)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, m := range net.Metabolites() {
		if !res.Reached(m.ID) {
			out = append(out, m.ID)
		}
	}

	return out, nil
}

// UniversallyBlockedReactions returns the reactions that cannot carry flux
// in any steady state under the effective bounds, in network order.
//
// Implementation:
//   - Stage 1: overlay net with an empty objective, so no optimum row is added.
//   - Stage 2: minimize and maximize every reaction through eng.
//   - Stage 3: report reactions whose two extremes are both present and
//     within BlockedThreshold of zero.
//
// An absent extreme (unbounded, or the network itself infeasible) is not
// taken as evidence of blocking.
func UniversallyBlockedReactions(ctx context.Context, net model.Network, eng *screen.Engine) ([]string, error) {
	if net == nil {
		return nil, ErrNilNetwork
	}
	open := model.NewVariant(net)
	if err := open.SetObjective(model.Objective{ID: "none"}); err != nil {
		return nil, err
	}
	rxns := open.Reactions()
	rids := make([]string, len(rxns))
	for i, r := range rxns {
		rids[i] = r.ID
	}
	ranges, err := eng.Variability(ctx, open, rids, 1, fba.Some(0))
	if err != nil {
		return nil, fmt.Errorf("network: blocked reactions: %w", err)
	}

	var out []string
	for i, rg := range ranges {
		lo, okLo := rg.Min.Get()
		hi, okHi := rg.Max.Get()
		if okLo && okHi && math.Abs(lo) <= BlockedThreshold && math.Abs(hi) <= BlockedThreshold {
			out = append(out, rids[i])
		}
	}

	return out, nil
}
