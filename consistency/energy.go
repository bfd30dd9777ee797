package consistency

import (
	"context"
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/lp"
	"github.com/katalvlaran/fbctest/model"
)

const kindEnergyCycle = "energy_cycle"

// Dissipation is an energy-dissipating test reaction: it hydrolyzes a
// high-energy carrier with no net mass change.
type Dissipation struct {
	ID            string
	Stoichiometry map[string]float64
}

func hydrolysis(id, ntp, ndp string) Dissipation {
	return Dissipation{ID: id, Stoichiometry: map[string]float64{
		ntp: -1, "h2o_c": -1, ndp: 1, "h_c": 1, "pi_c": 1,
	}}
}

func oxidation(id, reduced, oxidized string, protons float64) Dissipation {
	return Dissipation{ID: id, Stoichiometry: map[string]float64{
		reduced: -1, oxidized: 1, "h_c": protons,
	}}
}

// DefaultDissipations returns the dissipation reactions named with BiGG
// cytosolic identifiers. Reactions whose metabolites a model lacks are
// skipped by the detector.
func DefaultDissipations() []Dissipation {
	return []Dissipation{
		hydrolysis("EGC_ATP", "atp_c", "adp_c"),
		hydrolysis("EGC_CTP", "ctp_c", "cdp_c"),
		hydrolysis("EGC_GTP", "gtp_c", "gdp_c"),
		hydrolysis("EGC_UTP", "utp_c", "udp_c"),
		hydrolysis("EGC_ITP", "itp_c", "idp_c"),
		oxidation("EGC_NADH", "nadh_c", "nad_c", 1),
		oxidation("EGC_NADPH", "nadph_c", "nadp_c", 1),
		oxidation("EGC_FADH2", "fadh2_c", "fad_c", 2),
		oxidation("EGC_FMNH2", "fmnh2_c", "fmn_c", 2),
		oxidation("EGC_Q8H2", "q8h2_c", "q8_c", 2),
		oxidation("EGC_MQL8", "mql8_c", "mqn8_c", 2),
		oxidation("EGC_DMMQL8", "2dmmql8_c", "2dmmq8_c", 2),
		{ID: "EGC_ACCOA", Stoichiometry: map[string]float64{
			"accoa_c": -1, "h2o_c": -1, "ac_c": 1, "coa_c": 1, "h_c": 1,
		}},
		{ID: "EGC_GLU", Stoichiometry: map[string]float64{
			"glu__L_c": -1, "h2o_c": -1, "akg_c": 1, "nh4_c": 1, "h_c": 2,
		}},
		{ID: "EGC_PROTON", Stoichiometry: map[string]float64{
			"h_p": -1, "h_c": 1,
		}},
	}
}

// CycleResult is the diagnostic of one dissipation reaction.
type CycleResult struct {
	Dissipation string
	// Reaction is the ID the dissipation was added under: Dissipation, or
	// Dissipation with a numeric suffix when the network already defines
	// a reaction of that ID.
	Reaction string
	Status   lp.Status
	// Optimum is the maximal dissipation flux; absent unless Status is optimal.
	Optimum fba.Value
	// Cycle is true when Optimum exceeds the threshold or the LP is unbounded.
	Cycle bool
	// Reactions lists reactions carrying flux above the threshold in the
	// optimal solution (the offending cycle), in network order.
	Reactions []string
}

// HasNoErroneousEnergyCycles reports whether none of the applicable
// dissipation reactions can carry flux in the closed system.
//
// See EnergyCycles for the procedure. A network to which no dissipation
// reaction applies passes vacuously.
func HasNoErroneousEnergyCycles(ctx context.Context, net model.Network, opt *fba.Optimizer, opts ...Option) (bool, error) {
	results, err := EnergyCycles(ctx, net, opt, opts...)
	if err != nil {
		return false, err
	}
	for _, r := range results {
		if r.Cycle {
			return false, nil
		}
	}

	return true, nil
}

// EnergyCycles tests every applicable dissipation reaction.
//
// Implementation:
//   - Stage 1: close the system: every boundary reaction not ignored gets
//     bounds (0, 0); every other non-ignored reaction with a forced flux
//     (lower > 0 or upper < 0) is relaxed to include zero.
//   - Stage 2: for each dissipation whose metabolites all exist, add it to a
//     private overlay of the closed system and maximize its flux. A
//     dissipation whose ID the network already uses is added under the
//     first free ID of the form ID_1, ID_2, ...
//   - Stage 3: optimum > threshold or unbounded ⇒ cycle.
//
// Errors: ErrInconclusive on deadline, wrapped solver failures.
// Complexity: one LP per applicable dissipation reaction.
func EnergyCycles(ctx context.Context, net model.Network, opt *fba.Optimizer, opts ...Option) ([]CycleResult, error) {
	o, err := prepare(net, opt, opts)
	if err != nil {
		return nil, err
	}
	closed, err := closeSystem(net, &o)
	if err != nil {
		return nil, err
	}

	var out []CycleResult
	for _, d := range o.Dissipations {
		if !applicable(net, d) {
			continue
		}
		res, err := testDissipation(ctx, closed, opt, d, o.Threshold)
		if err != nil {
			return nil, err
		}
		out = append(out, res)
	}

	return out, nil
}

func closeSystem(net model.Network, o *Options) (*model.Variant, error) {
	closed := model.NewVariant(net)
	for _, r := range net.Reactions() {
		if o.IgnoredReactions[r.ID] {
			continue
		}
		b, _ := net.DeclaredBounds(r.ID)
		nb := b
		if model.IsBoundary(r) {
			nb = lp.Bound{}
		} else {
			nb.Lower = math.Min(nb.Lower, 0)
			nb.Upper = math.Max(nb.Upper, 0)
		}
		if nb != b {
			if err := closed.SetBounds(r.ID, nb); err != nil {
				return nil, fmt.Errorf("consistency: close %q: %w", r.ID, err)
			}
		}
	}

	return closed, nil
}

func applicable(net model.Network, d Dissipation) bool {
	for mid := range d.Stoichiometry {
		if _, ok := net.Metabolite(mid); !ok {
			return false
		}
	}

	return true
}

func freeReactionID(net model.Network, id string) string {
	if _, clash := net.Reaction(id); !clash {
		return id
	}
	for n := 1; ; n++ {
		cand := fmt.Sprintf("%s_%d", id, n)
		if _, clash := net.Reaction(cand); !clash {
			return cand
		}
	}
}

func testDissipation(ctx context.Context, closed model.Network, opt *fba.Optimizer, d Dissipation, threshold float64) (CycleResult, error) {
	v := model.NewVariant(closed)
	rid := freeReactionID(closed, d.ID)
	err := v.AddReaction(model.Reaction{
		ID:            rid,
		Name:          "Energy dissipation " + d.ID,
		Stoichiometry: d.Stoichiometry,
		UpperBound:    math.Inf(1),
	})
	if err != nil {
		return CycleResult{}, fmt.Errorf("consistency: %w", err)
	}
	if err := v.SetObjective(model.Single(rid, lp.Maximize)); err != nil {
		return CycleResult{}, fmt.Errorf("consistency: %w", err)
	}

	sol, err := opt.Optimize(ctx, v)
	if err != nil {
		return CycleResult{}, fmt.Errorf("consistency: %s: %w", kindEnergyCycle, err)
	}
	res := CycleResult{Dissipation: d.ID, Reaction: rid, Status: sol.Status, Optimum: sol.Objective}
	switch sol.Status {
	case lp.StatusTimeLimit:
		return CycleResult{}, fmt.Errorf("%w: %s %s", ErrInconclusive, kindEnergyCycle, d.ID)
	case lp.StatusUnbounded:
		res.Cycle = true
	case lp.StatusOptimal:
		res.Cycle = sol.Objective.Float > threshold
		if res.Cycle {
			for _, r := range v.Reactions() {
				if math.Abs(sol.Fluxes[r.ID]) > threshold {
					res.Reactions = append(res.Reactions, r.ID)
				}
			}
		}
	}

	return res, nil
}
