package lp

import (
	"math"
	"sort"
)

// varMap expresses an original variable through standard-form columns:
//
//	x = offset + sign·y[pos] − y[neg]
//
// pos < 0 marks a fixed variable (x = offset); neg >= 0 only for free variables.
type varMap struct {
	offset float64
	sign   float64
	pos    int
	neg    int
}

// stdRow is one equality row of the standard form before artificials:
// coefficients over structural+slack columns, and a non-negative rhs once
// normalized. slack is the column of the row's slack (-1 if none).
type stdRow struct {
	coef  []float64
	rhs   float64
	slack int
}

// standardForm is   min c·y   s.t.  A y = b,  y >= 0.
type standardForm struct {
	vars     []varMap
	nY       int       // structural columns
	nS       int       // slack columns
	cost     []float64 // len nY
	rows     []stdRow
	constant float64 // objective constant from variable offsets (unused by pivots)
}

// toStandardForm converts p. The second return is false when some bound
// interval is empty, i.e. the problem is trivially infeasible.
//
// Steps:
//  1. Map every variable onto non-negative columns (shift, mirror, or split).
//  2. Emit one row per constraint (GE rows get a surplus, LE rows a slack).
//  3. Emit one row per finite two-sided interval: y + s = upper − lower.
//  4. Normalize rows to rhs >= 0.
//
// Complexity: O(n + nnz + m·(n+s)) time and memory.
func toStandardForm(p *Problem, tol float64) (*standardForm, bool) {
	sf := &standardForm{vars: make([]varMap, len(p.Bounds))}

	type boundRow struct {
		col   int
		width float64
	}
	var widths []boundRow

	// 1) variable mapping
	for j, b := range p.Bounds {
		lo, hi := b.Lower, b.Upper
		loInf, hiInf := math.IsInf(lo, -1), math.IsInf(hi, 1)
		switch {
		case !loInf && !hiInf && hi < lo-tol:
			return nil, false
		case !loInf && !hiInf && hi-lo <= tol:
			sf.vars[j] = varMap{offset: lo, sign: 1, pos: -1, neg: -1}
		case !loInf && !hiInf:
			sf.vars[j] = varMap{offset: lo, sign: 1, pos: sf.nY, neg: -1}
			widths = append(widths, boundRow{col: sf.nY, width: hi - lo})
			sf.nY++
		case !loInf:
			sf.vars[j] = varMap{offset: lo, sign: 1, pos: sf.nY, neg: -1}
			sf.nY++
		case !hiInf:
			sf.vars[j] = varMap{offset: hi, sign: -1, pos: sf.nY, neg: -1}
			sf.nY++
		default:
			sf.vars[j] = varMap{offset: 0, sign: 1, pos: sf.nY, neg: sf.nY + 1}
			sf.nY += 2
		}
	}

	sf.cost = make([]float64, sf.nY)
	for j, vm := range sf.vars {
		c := p.Objective[j]
		if p.Sense == Maximize {
			c = -c
		}
		sf.constant += c * vm.offset
		if vm.pos >= 0 {
			sf.cost[vm.pos] += c * vm.sign
		}
		if vm.neg >= 0 {
			sf.cost[vm.neg] -= c
		}
	}

	// slack columns follow structural ones
	for _, row := range p.Constraints {
		if row.Relation != EQ {
			sf.nS++
		}
	}
	sf.nS += len(widths)
	width := sf.nY + sf.nS
	nextSlack := sf.nY

	// 2) constraint rows (sorted keys keep summation order deterministic)
	for _, row := range p.Constraints {
		r := stdRow{coef: make([]float64, width), rhs: row.RHS, slack: -1}
		keys := make([]int, 0, len(row.Coeffs))
		for j := range row.Coeffs {
			keys = append(keys, j)
		}
		sort.Ints(keys)
		for _, j := range keys {
			a := row.Coeffs[j]
			vm := sf.vars[j]
			r.rhs -= a * vm.offset
			if vm.pos >= 0 {
				r.coef[vm.pos] += a * vm.sign
			}
			if vm.neg >= 0 {
				r.coef[vm.neg] -= a
			}
		}
		switch row.Relation {
		case LE:
			r.coef[nextSlack] = 1
			r.slack = nextSlack
			nextSlack++
		case GE:
			r.coef[nextSlack] = -1
			r.slack = nextSlack
			nextSlack++
		}
		sf.rows = append(sf.rows, r)
	}

	// 3) interval rows
	for _, w := range widths {
		r := stdRow{coef: make([]float64, width), rhs: w.width, slack: nextSlack}
		r.coef[w.col] = 1
		r.coef[nextSlack] = 1
		nextSlack++
		sf.rows = append(sf.rows, r)
	}

	// 4) rhs >= 0
	for i := range sf.rows {
		if sf.rows[i].rhs < 0 {
			for k := range sf.rows[i].coef {
				sf.rows[i].coef[k] = -sf.rows[i].coef[k]
			}
			sf.rows[i].rhs = -sf.rows[i].rhs
		}
	}

	return sf, true
}

// recover maps standard-form column values back to original variables.
func (sf *standardForm) recover(y []float64) []float64 {
	x := make([]float64, len(sf.vars))
	for j, vm := range sf.vars {
		v := vm.offset
		if vm.pos >= 0 {
			v += vm.sign * y[vm.pos]
		}
		if vm.neg >= 0 {
			v -= y[vm.neg]
		}
		x[j] = v
	}

	return x
}
