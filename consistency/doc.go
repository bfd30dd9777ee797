// Package consistency certifies structural and thermodynamic soundness of
// a metabolic network.
//
// MAIN DESCRIPTION
//
//   - IsConsistent: stoichiometric consistency. An LP searches for a
//     strictly positive mass per metabolite that every non-exempt reaction
//     conserves; infeasibility means some reaction creates or destroys mass.
//     UnconservedMetabolites names the metabolites that block it.
//   - HasNoErroneousEnergyCycles: with the system closed, no energy carrier
//     may be dissipated at positive flux. EnergyCycles reports per-carrier
//     optima and the reactions of each offending cycle.
//   - MassUnbalancedReactions / ChargeUnbalancedReactions: attribute-level
//     balance from formulas and charges.
//
// Exemptions
//
//	Boundary reactions, biomass reactions, reactions annotated with an
//	exempt SBO term, and reactions passed to WithExemptReactions are not
//	required to balance.
//
// Outcomes
//
//	Structural defects are booleans or ID lists, never errors. Errors mean
//	the optimizer failed (wrapped) or a deadline expired (ErrInconclusive).
package consistency
