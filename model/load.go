package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/fbctest/lp"
)

// Format selects the encoding of a model document.
type Format int

const (
	// JSON is a COBRA-JSON document.
	JSON Format = iota
	// YAML is the same document structure in YAML.
	YAML
)

// DefaultObjectiveID names the objective built from reaction
// objective_coefficient fields when a document declares no objectives.
const DefaultObjectiveID = "obj"

// annotationValue accepts both a single identifier and a list.
type annotationValue []string

func (a *annotationValue) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*a = annotationValue{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*a = many

	return nil
}

func (a *annotationValue) UnmarshalYAML(n *yaml.Node) error {
	if n.Kind == yaml.ScalarNode {
		*a = annotationValue{n.Value}
		return nil
	}
	var many []string
	if err := n.Decode(&many); err != nil {
		return err
	}
	*a = many

	return nil
}

type annotationDoc map[string]annotationValue

func (d annotationDoc) convert() Annotations {
	if len(d) == 0 {
		return nil
	}
	out := make(Annotations, len(d))
	for db, ids := range d {
		out[db] = []string(ids)
	}

	return out
}

type metaboliteDoc struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Compartment string        `json:"compartment" yaml:"compartment"`
	Formula     string        `json:"formula" yaml:"formula"`
	Charge      *int          `json:"charge" yaml:"charge"`
	Annotation  annotationDoc `json:"annotation" yaml:"annotation"`
}

type reactionDoc struct {
	ID                   string             `json:"id" yaml:"id"`
	Name                 string             `json:"name" yaml:"name"`
	Metabolites          map[string]float64 `json:"metabolites" yaml:"metabolites"`
	LowerBound           float64            `json:"lower_bound" yaml:"lower_bound"`
	UpperBound           float64            `json:"upper_bound" yaml:"upper_bound"`
	GeneReactionRule     string             `json:"gene_reaction_rule" yaml:"gene_reaction_rule"`
	ObjectiveCoefficient float64            `json:"objective_coefficient" yaml:"objective_coefficient"`
	Subsystem            string             `json:"subsystem" yaml:"subsystem"`
	Annotation           annotationDoc      `json:"annotation" yaml:"annotation"`
}

type geneDoc struct {
	ID         string        `json:"id" yaml:"id"`
	Name       string        `json:"name" yaml:"name"`
	Annotation annotationDoc `json:"annotation" yaml:"annotation"`
}

type objectiveDoc struct {
	ID           string             `json:"id" yaml:"id"`
	Sense        string             `json:"sense" yaml:"sense"`
	Coefficients map[string]float64 `json:"coefficients" yaml:"coefficients"`
}

type modelDoc struct {
	ID          string          `json:"id" yaml:"id"`
	Metabolites []metaboliteDoc `json:"metabolites" yaml:"metabolites"`
	Reactions   []reactionDoc   `json:"reactions" yaml:"reactions"`
	Genes       []geneDoc       `json:"genes" yaml:"genes"`
	Objectives  []objectiveDoc  `json:"objectives" yaml:"objectives"`
}

// Load decodes a model document from r.
//
// Reactions' objective_coefficient fields form the objective
// DefaultObjectiveID (maximized) when the document has no "objectives".
//
// Errors: ErrDecode for syntax errors and unknown senses, plus any New error.
func Load(r io.Reader, format Format) (*Model, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	var doc modelDoc
	switch format {
	case YAML:
		err = yaml.Unmarshal(raw, &doc)
	default:
		dec := json.NewDecoder(bytes.NewReader(raw))
		err = dec.Decode(&doc)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	return doc.build()
}

// LoadFile opens path and decodes it, picking YAML for .yml/.yaml and
// JSON otherwise. The model ID defaults to the file's base name.
func LoadFile(path string) (*Model, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("model: open %s: %w", path, err)
	}
	defer f.Close()

	format := JSON
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		format = YAML
	}
	m, err := Load(f, format)
	if err != nil {
		return nil, fmt.Errorf("model: %s: %w", path, err)
	}
	if m.id == "" {
		m.id = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}

	return m, nil
}

func (d *modelDoc) build() (*Model, error) {
	mets := make([]Metabolite, 0, len(d.Metabolites))
	for _, m := range d.Metabolites {
		mets = append(mets, Metabolite{
			ID:          m.ID,
			Name:        m.Name,
			Formula:     m.Formula,
			Charge:      m.Charge,
			Compartment: m.Compartment,
			Annotations: m.Annotation.convert(),
		})
	}

	rxns := make([]Reaction, 0, len(d.Reactions))
	implicit := Objective{ID: DefaultObjectiveID, Sense: lp.Maximize, Coefficients: map[string]float64{}}
	for _, r := range d.Reactions {
		rxns = append(rxns, Reaction{
			ID:            r.ID,
			Name:          r.Name,
			Stoichiometry: r.Metabolites,
			LowerBound:    r.LowerBound,
			UpperBound:    r.UpperBound,
			GeneRule:      r.GeneReactionRule,
			Subsystem:     r.Subsystem,
			Annotations:   r.Annotation.convert(),
		})
		if r.ObjectiveCoefficient != 0 {
			implicit.Coefficients[r.ID] = r.ObjectiveCoefficient
		}
	}

	genes := make([]Gene, 0, len(d.Genes))
	for _, g := range d.Genes {
		genes = append(genes, Gene{ID: g.ID, Name: g.Name, Annotations: g.Annotation.convert()})
	}

	var objs []Objective
	for _, o := range d.Objectives {
		sense, err := parseSense(o.Sense)
		if err != nil {
			return nil, fmt.Errorf("%w: objective %q: %v", ErrDecode, o.ID, err)
		}
		objs = append(objs, Objective{ID: o.ID, Sense: sense, Coefficients: o.Coefficients})
	}
	if len(objs) == 0 && len(implicit.Coefficients) > 0 {
		objs = append(objs, implicit)
	}

	return New(d.ID,
		WithMetabolites(mets...),
		WithGenes(genes...),
		WithReactions(rxns...),
		WithObjectives(objs...),
	)
}

func parseSense(s string) (lp.Sense, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "max", "maximize":
		return lp.Maximize, nil
	case "min", "minimize":
		return lp.Minimize, nil
	default:
		return 0, fmt.Errorf("unknown sense %q", s)
	}
}
