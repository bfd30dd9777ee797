package model

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

// Formula is an elemental composition (element symbol → count).
type Formula map[string]float64

// ParseFormula parses Hill-style formulas with optional parenthesized
// groups and decimal counts, e.g. "C6H12O6", "Ca(OH)2", "C10H12N5O13P3".
// Generic residues such as "R" or "X" are accepted as pseudo-elements.
// An empty formula parses to an empty composition.
//
// Errors: ErrInvalidFormula.
func ParseFormula(s string) (Formula, error) {
	s = strings.TrimSpace(s)
	p := &formulaParser{src: []rune(s)}
	f, err := p.group()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidFormula, s, err)
	}
	if p.pos != len(p.src) {
		return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidFormula, s, string(p.src[p.pos]))
	}

	return f, nil
}

// Add accumulates scale·g into f.
func (f Formula) Add(g Formula, scale float64) {
	for el, n := range g {
		f[el] += scale * n
	}
}

// String renders the composition in sorted element order.
func (f Formula) String() string {
	els := make([]string, 0, len(f))
	for el := range f {
		els = append(els, el)
	}
	sort.Strings(els)
	var b strings.Builder
	for _, el := range els {
		b.WriteString(el)
		if n := f[el]; n != 1 {
			b.WriteString(strconv.FormatFloat(n, 'g', -1, 64))
		}
	}

	return b.String()
}

type formulaParser struct {
	src []rune
	pos int
}

func (p *formulaParser) group() (Formula, error) {
	out := Formula{}
	for p.pos < len(p.src) {
		r := p.src[p.pos]
		switch {
		case r == '(' || r == '[':
			closing := ')'
			if r == '[' {
				closing = ']'
			}
			p.pos++
			inner, err := p.group()
			if err != nil {
				return nil, err
			}
			if p.pos >= len(p.src) || p.src[p.pos] != closing {
				return nil, fmt.Errorf("missing %q", string(closing))
			}
			p.pos++
			out.Add(inner, p.count())
		case r == ')' || r == ']':
			return out, nil
		case unicode.IsUpper(r):
			start := p.pos
			p.pos++
			for p.pos < len(p.src) && unicode.IsLower(p.src[p.pos]) {
				p.pos++
			}
			el := string(p.src[start:p.pos])
			out[el] += p.count()
		default:
			return nil, fmt.Errorf("unexpected %q at %d", string(r), p.pos)
		}
	}

	return out, nil
}

// count reads an optional non-negative decimal multiplier (default 1).
func (p *formulaParser) count() float64 {
	start := p.pos
	for p.pos < len(p.src) && (unicode.IsDigit(p.src[p.pos]) || p.src[p.pos] == '.') {
		p.pos++
	}
	if start == p.pos {
		return 1
	}
	n, err := strconv.ParseFloat(string(p.src[start:p.pos]), 64)
	if err != nil {
		return 1
	}

	return n
}
