package model

import (
	"fmt"
	"math"

	"github.com/katalvlaran/fbctest/lp"
)

// Model is the immutable base network. Build one with New or Load.
type Model struct {
	id          string
	metabolites []*Metabolite
	reactions   []*Reaction
	genes       []*Gene
	objectives  []Objective

	metIdx  map[string]int
	rxnIdx  map[string]int
	geneIdx map[string]int
}

// Option adds entities to a Model under construction. Invalid input is
// recorded and surfaced by New.
type Option func(*builder)

type builder struct {
	metabolites []Metabolite
	reactions   []Reaction
	genes       []Gene
	objectives  []Objective
	err         error
}

// WithMetabolites appends metabolites in the given order.
func WithMetabolites(ms ...Metabolite) Option {
	return func(b *builder) { b.metabolites = append(b.metabolites, ms...) }
}

// WithReactions appends reactions in the given order.
func WithReactions(rs ...Reaction) Option {
	return func(b *builder) { b.reactions = append(b.reactions, rs...) }
}

// WithGenes declares genes explicitly. Genes referenced only by rules are
// declared implicitly, after the explicit ones, in first-use order.
func WithGenes(gs ...Gene) Option {
	return func(b *builder) { b.genes = append(b.genes, gs...) }
}

// WithObjectives declares named objectives. The first one is the default
// active objective.
func WithObjectives(os ...Objective) Option {
	return func(b *builder) {
		for _, o := range os {
			if o.ID == "" {
				b.err = fmt.Errorf("%w: objective", ErrEmptyID)
				return
			}
		}
		b.objectives = append(b.objectives, os...)
	}
}

// New validates and assembles a Model.
//
// Implementation:
//   - Stage 1: index metabolites, rejecting empty and duplicate IDs.
//   - Stage 2: index genes, then reactions; parse every gene rule, declare
//     implicit genes, check bounds and stoichiometry references.
//   - Stage 3: reject duplicate objective IDs, check objective references.
//
// Errors: ErrEmptyID, ErrDuplicateID, ErrUnknownMetabolite, ErrInvalidBounds,
// ErrInvalidGPR, ErrUnknownReaction.
func New(id string, opts ...Option) (*Model, error) {
	b := &builder{}
	for _, opt := range opts {
		opt(b)
	}
	if b.err != nil {
		return nil, b.err
	}

	m := &Model{
		id:      id,
		metIdx:  make(map[string]int, len(b.metabolites)),
		rxnIdx:  make(map[string]int, len(b.reactions)),
		geneIdx: make(map[string]int, len(b.genes)),
	}

	for i := range b.metabolites {
		met := b.metabolites[i]
		if met.ID == "" {
			return nil, fmt.Errorf("%w: metabolite #%d", ErrEmptyID, i)
		}
		if _, dup := m.metIdx[met.ID]; dup {
			return nil, fmt.Errorf("%w: metabolite %q", ErrDuplicateID, met.ID)
		}
		m.metIdx[met.ID] = len(m.metabolites)
		m.metabolites = append(m.metabolites, &met)
	}

	for i := range b.genes {
		g := b.genes[i]
		if g.ID == "" {
			return nil, fmt.Errorf("%w: gene #%d", ErrEmptyID, i)
		}
		if _, dup := m.geneIdx[g.ID]; dup {
			return nil, fmt.Errorf("%w: gene %q", ErrDuplicateID, g.ID)
		}
		m.geneIdx[g.ID] = len(m.genes)
		m.genes = append(m.genes, &g)
	}

	for i := range b.reactions {
		r, err := prepareReaction(b.reactions[i], m.metIdx)
		if err != nil {
			return nil, err
		}
		if _, dup := m.rxnIdx[r.ID]; dup {
			return nil, fmt.Errorf("%w: reaction %q", ErrDuplicateID, r.ID)
		}
		for _, gid := range r.rule.Genes() {
			if _, ok := m.geneIdx[gid]; !ok {
				m.geneIdx[gid] = len(m.genes)
				m.genes = append(m.genes, &Gene{ID: gid})
			}
		}
		m.rxnIdx[r.ID] = len(m.reactions)
		m.reactions = append(m.reactions, r)
	}

	objIDs := make(map[string]bool, len(b.objectives))
	for _, o := range b.objectives {
		if objIDs[o.ID] {
			return nil, fmt.Errorf("%w: objective %q", ErrDuplicateID, o.ID)
		}
		objIDs[o.ID] = true
		if err := checkObjective(o, m.rxnIdx); err != nil {
			return nil, err
		}
		m.objectives = append(m.objectives, o)
	}

	return m, nil
}

// prepareReaction validates r against the metabolite index and parses its rule.
func prepareReaction(r Reaction, metIdx map[string]int) (*Reaction, error) {
	if r.ID == "" {
		return nil, fmt.Errorf("%w: reaction", ErrEmptyID)
	}
	if math.IsNaN(r.LowerBound) || math.IsNaN(r.UpperBound) || r.LowerBound > r.UpperBound {
		return nil, fmt.Errorf("%w: reaction %q [%g, %g]", ErrInvalidBounds, r.ID, r.LowerBound, r.UpperBound)
	}
	for mid := range r.Stoichiometry {
		if _, ok := metIdx[mid]; !ok {
			return nil, fmt.Errorf("%w: %q in reaction %q", ErrUnknownMetabolite, mid, r.ID)
		}
	}
	rule, err := ParseGPR(r.GeneRule)
	if err != nil {
		return nil, fmt.Errorf("reaction %q: %w", r.ID, err)
	}
	r.rule = rule

	return &r, nil
}

func checkObjective(o Objective, rxnIdx map[string]int) error {
	for rid := range o.Coefficients {
		if _, ok := rxnIdx[rid]; !ok {
			return fmt.Errorf("%w: %q in objective %q", ErrUnknownReaction, rid, o.ID)
		}
	}

	return nil
}

// ID implements Network.
func (m *Model) ID() string { return m.id }

// Metabolites implements Network.
func (m *Model) Metabolites() []*Metabolite { return m.metabolites }

// Reactions implements Network.
func (m *Model) Reactions() []*Reaction { return m.reactions }

// Genes implements Network.
func (m *Model) Genes() []*Gene { return m.genes }

// Metabolite implements Network.
func (m *Model) Metabolite(id string) (*Metabolite, bool) {
	i, ok := m.metIdx[id]
	if !ok {
		return nil, false
	}
	return m.metabolites[i], true
}

// Reaction implements Network.
func (m *Model) Reaction(id string) (*Reaction, bool) {
	i, ok := m.rxnIdx[id]
	if !ok {
		return nil, false
	}
	return m.reactions[i], true
}

// Gene implements Network.
func (m *Model) Gene(id string) (*Gene, bool) {
	i, ok := m.geneIdx[id]
	if !ok {
		return nil, false
	}
	return m.genes[i], true
}

// DeclaredBounds implements Network.
func (m *Model) DeclaredBounds(rid string) (lp.Bound, bool) {
	r, ok := m.Reaction(rid)
	if !ok {
		return lp.Bound{}, false
	}
	return r.Bound(), true
}

// Bounds implements Network. In the base model every gene is active.
func (m *Model) Bounds(rid string) (lp.Bound, bool) { return m.DeclaredBounds(rid) }

// GeneActive implements Network.
func (m *Model) GeneActive(string) bool { return true }

// Objective implements Network: the first named objective, or the empty one.
func (m *Model) Objective() Objective {
	if len(m.objectives) == 0 {
		return Objective{}
	}
	return m.objectives[0]
}

// Objectives implements Network.
func (m *Model) Objectives() []Objective { return m.objectives }

// Constraints implements Network. The base model has none.
func (m *Model) Constraints() []Constraint { return nil }
