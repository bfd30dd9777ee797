package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/katalvlaran/fbctest/annotation"
	"github.com/katalvlaran/fbctest/biomass"
	"github.com/katalvlaran/fbctest/config"
	"github.com/katalvlaran/fbctest/consistency"
	"github.com/katalvlaran/fbctest/fba"
	"github.com/katalvlaran/fbctest/model"
	"github.com/katalvlaran/fbctest/network"
	"github.com/katalvlaran/fbctest/screen"
)

// checkReport is the outcome of `fbctest check`.
type checkReport struct {
	Model string `json:"model"`

	Consistent          bool     `json:"consistent"`
	Unconserved         []string `json:"unconserved_metabolites,omitempty"`
	MassUnbalanced      []string `json:"mass_unbalanced,omitempty"`
	ChargeUnbalanced    []string `json:"charge_unbalanced,omitempty"`
	BalanceUndetermined []string `json:"balance_undetermined,omitempty"`
	EnergyCycles        []cycle  `json:"energy_cycles,omitempty"`

	Biomass []biomassCheck `json:"biomass,omitempty"`

	Orphans     []string `json:"orphan_metabolites,omitempty"`
	DeadEnds    []string `json:"dead_end_metabolites,omitempty"`
	Unreachable []string `json:"unreachable_metabolites,omitempty"`
	Blocked     []string `json:"blocked_reactions,omitempty"`

	Annotation annotationCheck `json:"annotation"`
}

type cycle struct {
	Dissipation string   `json:"dissipation"`
	Reactions   []string `json:"reactions,omitempty"`
}

type biomassCheck struct {
	Reaction          string    `json:"reaction"`
	MaxFlux           fba.Value `json:"max_flux"`
	ATP               bool      `json:"atp"`
	BlockedPrecursors []string  `json:"blocked_precursors,omitempty"`
}

type annotationCheck struct {
	UnannotatedMetabolites []string            `json:"unannotated_metabolites,omitempty"`
	UnannotatedReactions   []string            `json:"unannotated_reactions,omitempty"`
	UnannotatedGenes       []string            `json:"unannotated_genes,omitempty"`
	Duplicates             [][]string          `json:"duplicates,omitempty"`
	Nonconforming          map[string][]string `json:"nonconforming,omitempty"`
}

// passed is true when the structural checks hold: consistency, mass and
// charge balance, no energy cycle and every biomass reaction can carry flux.
func (r *checkReport) passed() bool {
	if !r.Consistent || len(r.MassUnbalanced) > 0 || len(r.ChargeUnbalanced) > 0 || len(r.EnergyCycles) > 0 {
		return false
	}
	for _, b := range r.Biomass {
		if v, ok := b.MaxFlux.Get(); !ok || v <= 0 {
			return false
		}
	}

	return true
}

func (a *app) checkCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "check MODEL",
		Short: "Run consistency, energy, biomass, network and annotation checks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			m, err := model.LoadFile(args[0])
			if err != nil {
				return err
			}
			opt, eng, err := a.engine()
			if err != nil {
				return err
			}
			rep, err := runChecks(cmd.Context(), m, opt, eng, a.cfg, a.logger)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(rep); err != nil {
					return err
				}
			} else if err := rep.write(out); err != nil {
				return err
			}
			if !rep.passed() {
				return errFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the results as JSON")

	return cmd
}

func consistencyOptions(cfg config.ConsistencyConfig) []consistency.Option {
	opts := []consistency.Option{consistency.WithThreshold(cfg.Threshold)}
	if len(cfg.ExemptReactions) > 0 {
		opts = append(opts, consistency.WithExemptReactions(cfg.ExemptReactions...))
	}
	if len(cfg.ExemptSBO) > 0 {
		opts = append(opts, consistency.WithExemptSBO(cfg.ExemptSBO...))
	}
	if len(cfg.IgnoredReactions) > 0 {
		opts = append(opts, consistency.WithIgnoredReactions(cfg.IgnoredReactions...))
	}

	return opts
}

// runChecks runs every check of `fbctest check` against m.
func runChecks(ctx context.Context, m *model.Model, opt *fba.Optimizer, eng *screen.Engine, cfg *config.Config, logger *zap.Logger) (*checkReport, error) {
	rep := &checkReport{Model: m.ID()}
	copts := consistencyOptions(cfg.Consistency)

	var err error
	if rep.Consistent, err = consistency.IsConsistent(ctx, m, opt, copts...); err != nil {
		return nil, fmt.Errorf("consistency: %w", err)
	}
	if !rep.Consistent {
		if rep.Unconserved, err = consistency.UnconservedMetabolites(ctx, m, opt, copts...); err != nil {
			return nil, err
		}
	}
	mass, err := consistency.MassUnbalancedReactions(m, copts...)
	if err != nil {
		return nil, err
	}
	charge, err := consistency.ChargeUnbalancedReactions(m, copts...)
	if err != nil {
		return nil, err
	}
	rep.MassUnbalanced, rep.ChargeUnbalanced = mass.Unbalanced, charge.Unbalanced
	rep.BalanceUndetermined = union(mass.Undetermined, charge.Undetermined)

	cycles, err := consistency.EnergyCycles(ctx, m, opt, copts...)
	if err != nil {
		return nil, fmt.Errorf("energy cycles: %w", err)
	}
	for _, c := range cycles {
		if c.Cycle {
			rep.EnergyCycles = append(rep.EnergyCycles, cycle{Dissipation: c.Dissipation, Reactions: c.Reactions})
		}
	}
	logger.Debug("consistency checked",
		zap.Bool("consistent", rep.Consistent),
		zap.Int("energy_cycles", len(rep.EnergyCycles)))

	for _, r := range biomass.FindBiomassReactions(m) {
		b := biomassCheck{Reaction: r.ID}
		if b.MaxFlux, err = biomass.MaxFlux(ctx, m, opt, r.ID); err != nil {
			return nil, err
		}
		if b.ATP, err = biomass.ATPInBiomass(m, r.ID); err != nil {
			return nil, err
		}
		if b.BlockedPrecursors, err = biomass.BlockedPrecursors(ctx, m, eng, r.ID); err != nil {
			return nil, err
		}
		rep.Biomass = append(rep.Biomass, b)
	}

	if rep.Orphans, err = network.OrphanMetabolites(m); err != nil {
		return nil, err
	}
	if rep.DeadEnds, err = network.DeadEndMetabolites(m); err != nil {
		return nil, err
	}
	if rep.Unreachable, err = network.UnreachableMetabolites(m, network.WithContext(ctx)); err != nil {
		return nil, err
	}
	if rep.Blocked, err = network.UniversallyBlockedReactions(ctx, m, eng); err != nil {
		return nil, err
	}

	patterns, err := annotation.CompilePatterns(cfg.Annotation.Patterns)
	if err != nil {
		return nil, err
	}
	items := append(annotation.Metabolites(m), annotation.Reactions(m)...)
	items = append(items, annotation.Genes(m)...)
	rep.Annotation = annotationCheck{
		UnannotatedMetabolites: annotation.UnannotatedMetabolites(m),
		UnannotatedReactions:   annotation.UnannotatedReactions(m),
		UnannotatedGenes:       annotation.UnannotatedGenes(m),
		Duplicates:             annotation.DuplicatedInCompartment(m, cfg.Annotation.DuplicateDatabase),
		Nonconforming:          annotation.Nonconforming(items, patterns),
	}

	return rep, nil
}

func (r *checkReport) write(w io.Writer) error {
	var b strings.Builder
	fmt.Fprintf(&b, "model %s\n", r.Model)
	fmt.Fprintf(&b, "  stoichiometrically consistent: %t\n", r.Consistent)
	list(&b, "unconserved metabolites", r.Unconserved)
	list(&b, "mass-unbalanced reactions", r.MassUnbalanced)
	list(&b, "charge-unbalanced reactions", r.ChargeUnbalanced)
	list(&b, "balance undetermined", r.BalanceUndetermined)
	if len(r.EnergyCycles) == 0 {
		b.WriteString("  energy-generating cycles: none\n")
	}
	for _, c := range r.EnergyCycles {
		fmt.Fprintf(&b, "  energy-generating cycle through %s: %s\n", c.Dissipation, strings.Join(c.Reactions, ", "))
	}
	for _, bm := range r.Biomass {
		fmt.Fprintf(&b, "  biomass %s: max flux %s, atp %t\n", bm.Reaction, bm.MaxFlux, bm.ATP)
		list(&b, "  blocked precursors", bm.BlockedPrecursors)
	}
	list(&b, "orphan metabolites", r.Orphans)
	list(&b, "dead-end metabolites", r.DeadEnds)
	list(&b, "unreachable metabolites", r.Unreachable)
	list(&b, "blocked reactions", r.Blocked)
	list(&b, "unannotated metabolites", r.Annotation.UnannotatedMetabolites)
	list(&b, "unannotated reactions", r.Annotation.UnannotatedReactions)
	list(&b, "unannotated genes", r.Annotation.UnannotatedGenes)
	for _, group := range r.Annotation.Duplicates {
		fmt.Fprintf(&b, "  duplicated metabolites: %s\n", strings.Join(group, ", "))
	}
	for _, db := range sortedKeys(r.Annotation.Nonconforming) {
		list(&b, "nonconforming "+db, r.Annotation.Nonconforming[db])
	}
	verdict := "PASS"
	if !r.passed() {
		verdict = "FAIL"
	}
	fmt.Fprintf(&b, "%s\n", verdict)

	_, err := io.WriteString(w, b.String())
	return err
}

func list(b *strings.Builder, label string, ids []string) {
	if len(ids) == 0 {
		return
	}
	fmt.Fprintf(b, "  %s (%d): %s\n", label, len(ids), strings.Join(ids, ", "))
}
