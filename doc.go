// Package fbctest is a quality-assurance and reproducibility toolkit for
// genome-scale metabolic models analysed with flux balance analysis.
//
// What is fbctest?
//
//	A pure Go engine that loads a constraint-based model and answers:
//		• Is it stoichiometrically consistent, and which metabolites break it?
//		• Can it run an energy-generating cycle in a closed system?
//		• Does it grow, and which biomass precursors can it not make?
//		• What does every single gene and reaction knockout do?
//		• Do two reproducibility reports of the same model agree?
//
// Everything is organized in subpackages:
//
//	matrix/      — dense matrices and the row operations of the simplex tableau
//	lp/          — linear program types and a bounded-variable simplex solver
//	model/       — metabolites, reactions, genes, GPR rules, overlays, loading
//	fba/         — flux balance optimization over a model.Network
//	screen/      — concurrent perturbation screening (knockouts, FVA, demands)
//	consistency/ — stoichiometric consistency, mass/charge balance, energy cycles
//	biomass/     — biomass detection, precursors and their production
//	network/     — reachability from the medium, orphans, dead ends, blocked reactions
//	annotation/  — annotation coverage, duplicates and identifier conformity
//	frog/        — the reproducibility report, its metadata and directory layout
//	compare/     — tolerant comparison of reports and metadata
//	archive/     — blob storage of reports plus a SQLite run index
//	config/, logging/, metrics/ — YAML configuration, zap logging, Prometheus
//
// The fbctest command (cmd/fbctest) wires them together:
//
//	fbctest check model.json
//	fbctest frog report model.json -o frog/
//	fbctest frog compare frog/ other-tool/
//	fbctest archive put frog/
//
// Absent values (an infeasible or unbounded solve) are first-class results,
// not errors: they propagate into reports as "NA" and compare equal only to
// each other.
package fbctest
