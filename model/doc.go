// Package model is the in-memory representation of a genome-scale
// metabolic reconstruction.
//
// What it holds
//
//   - Metabolite: species in a compartment, with formula, charge and an
//     open-ended annotation map (database → identifiers).
//   - Reaction: signed stoichiometry, flux bounds, gene-reaction rule (GPR).
//   - Gene: referenced by rules; genes named only by rules are declared
//     implicitly.
//   - Objective: named linear objective with a sense.
//
// Base model and overlays
//
//	*Model is immutable after New or Load. Every perturbation (objective
//	swap, gene knockout, bound change, added demand/dissipation reaction,
//	extra constraint) is a *Variant: a thin overlay that forwards reads to
//	its parent. Overlays chain, are cheap to create, and never write their
//	parent, so many goroutines can derive private variants from one base.
//
// Network
//
//	Analyses depend on the Network interface only. Bounds reports
//	effective bounds: a reaction whose GPR evaluates false under the
//	overlay's active genes is closed to (0, 0).
//
// Loading
//
//	Load / LoadFile read COBRA-JSON shaped documents in JSON or YAML.
package model
