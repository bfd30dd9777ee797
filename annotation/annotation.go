// Package annotation checks the cross-references carried by metabolites,
// reactions and genes: presence, coverage of a given database, duplicates
// within a compartment and conformity to identifier patterns.
package annotation

import (
	"strings"

	"github.com/katalvlaran/fbctest/model"
)

// DefaultDuplicateDatabase keys duplicate detection.
const DefaultDuplicateDatabase = "inchi_key"

// Item is an annotated entity, whatever its class.
type Item struct {
	ID          string
	Annotations model.Annotations
}

// Metabolites returns the metabolites of net as items, in declaration order.
func Metabolites(net model.Network) []Item {
	mets := net.Metabolites()
	out := make([]Item, len(mets))
	for i, m := range mets {
		out[i] = Item{ID: m.ID, Annotations: m.Annotations}
	}

	return out
}

// Reactions returns the reactions of net as items, in network order.
func Reactions(net model.Network) []Item {
	rxns := net.Reactions()
	out := make([]Item, len(rxns))
	for i, r := range rxns {
		out[i] = Item{ID: r.ID, Annotations: r.Annotations}
	}

	return out
}

// Genes returns the genes of net as items, in declaration order.
func Genes(net model.Network) []Item {
	genes := net.Genes()
	out := make([]Item, len(genes))
	for i, g := range genes {
		out[i] = Item{ID: g.ID, Annotations: g.Annotations}
	}

	return out
}

// Unannotated returns the IDs of items without any identifier.
func Unannotated(items []Item) []string {
	var out []string
	for _, it := range items {
		if len(it.Annotations.Databases()) == 0 {
			out = append(out, it.ID)
		}
	}

	return out
}

// UnannotatedMetabolites lists metabolites without any identifier.
func UnannotatedMetabolites(net model.Network) []string { return Unannotated(Metabolites(net)) }

// UnannotatedReactions lists reactions without any identifier.
func UnannotatedReactions(net model.Network) []string { return Unannotated(Reactions(net)) }

// UnannotatedGenes lists genes without any identifier.
func UnannotatedGenes(net model.Network) []string { return Unannotated(Genes(net)) }

// MissingDatabase returns the IDs of items with no identifier from db.
func MissingDatabase(items []Item, db string) []string {
	var out []string
	for _, it := range items {
		if !it.Annotations.Has(db) {
			out = append(out, it.ID)
		}
	}

	return out
}

// Coverage maps each database seen in items to the number of items
// carrying at least one identifier from it.
func Coverage(items []Item) map[string]int {
	out := make(map[string]int)
	for _, it := range items {
		for _, db := range it.Annotations.Databases() {
			out[db]++
		}
	}

	return out
}

// DuplicatedInCompartment groups metabolites that share an identifier from
// db within one compartment. An empty db means DefaultDuplicateDatabase.
// Every group lists all its members in declaration order; groups are
// ordered by their first member and reported once even when the members
// share several identifiers.
func DuplicatedInCompartment(net model.Network, db string) [][]string {
	if db == "" {
		db = DefaultDuplicateDatabase
	}
	type key struct{ compartment, id string }
	members := make(map[key][]string)
	var order []key
	for _, m := range net.Metabolites() {
		for _, id := range m.Annotations[db] {
			k := key{compartment: m.Compartment, id: id}
			ids, ok := members[k]
			if !ok {
				order = append(order, k)
			}
			// an identifier listed twice on one metabolite
			if len(ids) > 0 && ids[len(ids)-1] == m.ID {
				continue
			}
			members[k] = append(ids, m.ID)
		}
	}

	seen := make(map[string]bool)
	var out [][]string
	for _, k := range order {
		ids := members[k]
		if len(ids) < 2 {
			continue
		}
		sig := strings.Join(ids, "\x00")
		if seen[sig] {
			continue
		}
		seen[sig] = true
		out = append(out, ids)
	}

	return out
}
