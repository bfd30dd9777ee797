package consistency

import (
	"math"

	"github.com/katalvlaran/fbctest/model"
)

// balanceTolerance absorbs fractional stoichiometry round-off.
const balanceTolerance = 1e-6

// Balance is the outcome of an elemental or charge balance check.
type Balance struct {
	// Unbalanced lists reactions whose sums do not cancel.
	Unbalanced []string
	// Undetermined lists reactions with a participant lacking the data
	// (formula or charge), which therefore cannot be judged.
	Undetermined []string
}

// MassUnbalancedReactions checks the elemental balance of every non-exempt
// reaction, in network order.
func MassUnbalancedReactions(net model.Network, opts ...Option) (Balance, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return Balance{}, err
	}
	formulas := make(map[string]model.Formula)
	var out Balance
	for _, r := range net.Reactions() {
		if o.exempt(r) {
			continue
		}
		sum := model.Formula{}
		known := true
		for _, mid := range r.MetaboliteIDs() {
			f, ok := formulas[mid]
			if !ok {
				f = formulaOf(net, mid)
				formulas[mid] = f
			}
			if f == nil {
				known = false
				break
			}
			sum.Add(f, r.Stoichiometry[mid])
		}
		switch {
		case !known:
			out.Undetermined = append(out.Undetermined, r.ID)
		case !zero(sum):
			out.Unbalanced = append(out.Unbalanced, r.ID)
		}
	}

	return out, nil
}

// ChargeUnbalancedReactions checks the charge balance of every non-exempt
// reaction, in network order.
func ChargeUnbalancedReactions(net model.Network, opts ...Option) (Balance, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return Balance{}, err
	}
	var out Balance
	for _, r := range net.Reactions() {
		if o.exempt(r) {
			continue
		}
		sum := 0.0
		known := true
		for _, mid := range r.MetaboliteIDs() {
			m, ok := net.Metabolite(mid)
			if !ok || m.Charge == nil {
				known = false
				break
			}
			sum += float64(*m.Charge) * r.Stoichiometry[mid]
		}
		switch {
		case !known:
			out.Undetermined = append(out.Undetermined, r.ID)
		case math.Abs(sum) > balanceTolerance:
			out.Unbalanced = append(out.Unbalanced, r.ID)
		}
	}

	return out, nil
}

// formulaOf returns nil when mid has no parseable formula.
func formulaOf(net model.Network, mid string) model.Formula {
	m, ok := net.Metabolite(mid)
	if !ok || m.Formula == "" {
		return nil
	}
	f, err := model.ParseFormula(m.Formula)
	if err != nil {
		return nil
	}

	return f
}

func zero(f model.Formula) bool {
	for _, n := range f {
		if math.Abs(n) > balanceTolerance {
			return false
		}
	}

	return true
}
