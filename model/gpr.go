package model

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
)

type gprOp int

const (
	gprGene gprOp = iota
	gprAnd
	gprOr
)

type gprNode struct {
	op       gprOp
	gene     string
	children []*gprNode
}

// GPR is a parsed gene-reaction rule: a boolean expression of gene IDs
// combined with "and" / "or" and parentheses. The zero value (empty rule)
// is always active.
type GPR struct {
	root  *gprNode
	genes []string
	text  string
}

// ParseGPR parses rule. Operators are case-insensitive; "&&"/"||" are
// accepted as aliases. An empty or blank rule yields the empty GPR.
//
// Grammar:
//
//	expr   := term   ( "or"  term   )*
//	term   := factor ( "and" factor )*
//	factor := GENE | "(" expr ")"
func ParseGPR(rule string) (*GPR, error) {
	toks, err := tokenizeGPR(rule)
	if err != nil {
		return nil, err
	}
	if len(toks) == 0 {
		return &GPR{}, nil
	}
	p := &gprParser{toks: toks}
	root, err := p.expr()
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidGPR, rule, err)
	}
	if p.pos != len(p.toks) {
		return nil, fmt.Errorf("%w: %q: unexpected %q", ErrInvalidGPR, rule, p.toks[p.pos])
	}

	seen := make(map[string]struct{})
	var walk func(n *gprNode)
	walk = func(n *gprNode) {
		if n.op == gprGene {
			seen[n.gene] = struct{}{}
			return
		}
		for _, c := range n.children {
			walk(c)
		}
	}
	walk(root)
	genes := make([]string, 0, len(seen))
	for g := range seen {
		genes = append(genes, g)
	}
	sort.Strings(genes)

	return &GPR{root: root, genes: genes, text: strings.TrimSpace(rule)}, nil
}

// Empty reports whether the rule names no gene.
func (g *GPR) Empty() bool { return g == nil || g.root == nil }

// Genes returns the distinct gene IDs named by the rule, sorted.
func (g *GPR) Genes() []string {
	if g == nil {
		return nil
	}
	out := make([]string, len(g.genes))
	copy(out, g.genes)

	return out
}

// Eval evaluates the rule with active deciding each gene. Empty rules are true.
func (g *GPR) Eval(active func(gene string) bool) bool {
	if g.Empty() {
		return true
	}

	return g.root.eval(active)
}

func (n *gprNode) eval(active func(string) bool) bool {
	switch n.op {
	case gprAnd:
		for _, c := range n.children {
			if !c.eval(active) {
				return false
			}
		}
		return true
	case gprOr:
		for _, c := range n.children {
			if c.eval(active) {
				return true
			}
		}
		return false
	default:
		return active(n.gene)
	}
}

// String returns the rule text as given.
func (g *GPR) String() string {
	if g == nil {
		return ""
	}
	return g.text
}

func tokenizeGPR(s string) ([]string, error) {
	var toks []string
	var cur strings.Builder
	flush := func() {
		if cur.Len() > 0 {
			toks = append(toks, cur.String())
			cur.Reset()
		}
	}
	for _, r := range s {
		switch {
		case unicode.IsSpace(r):
			flush()
		case r == '(' || r == ')':
			flush()
			toks = append(toks, string(r))
		default:
			cur.WriteRune(r)
		}
	}
	flush()

	for i, t := range toks {
		switch strings.ToLower(t) {
		case "and", "&&", "&":
			toks[i] = "and"
		case "or", "||", "|":
			toks[i] = "or"
		}
	}

	return toks, nil
}

type gprParser struct {
	toks []string
	pos  int
}

func (p *gprParser) peek() string {
	if p.pos < len(p.toks) {
		return p.toks[p.pos]
	}
	return ""
}

func (p *gprParser) expr() (*gprNode, error) {
	return p.chain("or", gprOr, p.term)
}

func (p *gprParser) term() (*gprNode, error) {
	return p.chain("and", gprAnd, p.factor)
}

func (p *gprParser) chain(kw string, op gprOp, next func() (*gprNode, error)) (*gprNode, error) {
	first, err := next()
	if err != nil {
		return nil, err
	}
	children := []*gprNode{first}
	for p.peek() == kw {
		p.pos++
		n, err := next()
		if err != nil {
			return nil, err
		}
		children = append(children, n)
	}
	if len(children) == 1 {
		return first, nil
	}

	return &gprNode{op: op, children: children}, nil
}

func (p *gprParser) factor() (*gprNode, error) {
	t := p.peek()
	switch t {
	case "":
		return nil, fmt.Errorf("unexpected end of rule")
	case "(":
		p.pos++
		n, err := p.expr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ")" {
			return nil, fmt.Errorf("missing closing parenthesis")
		}
		p.pos++
		return n, nil
	case ")", "and", "or":
		return nil, fmt.Errorf("unexpected %q", t)
	default:
		p.pos++
		return &gprNode{op: gprGene, gene: t}, nil
	}
}
