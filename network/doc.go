// Package network inspects the topology of a metabolic network viewed as a
// bipartite metabolite/reaction graph.
//
// What
//
//   - Reach expands the network from its medium: boundary uptakes fire
//     first, and a reaction fires once every metabolite it needs is
//     available. The Result carries visit Order, Depth and Parent links.
//   - Hooks (OnEnqueue, OnVisit), a depth limit, extra seed metabolites
//     and a reaction filter tune the expansion.
//   - OrphanMetabolites and DeadEndMetabolites classify metabolites that
//     are only consumed or only produced.
//   - UnreachableMetabolites lists what the expansion never produces.
//   - UniversallyBlockedReactions runs flux variability without an
//     objective through a screen.Engine.
//
// Directions
//
//	A reaction is admissible forward when its effective upper bound is
//	positive and in reverse when its lower bound is negative. Gene
//	knockouts in a model.Variant therefore remove reactions from the graph.
//
// Determinism
//
//	Seeds are enqueued in the given order, then input-free reactions in
//	network order; reaction directions are indexed in network order, so
//	the visit sequence is reproducible.
//
// Complexity
//
//   - Reach: O(|M| + |R| + nnz(S)) time and memory.
//   - UniversallyBlockedReactions: 2·|R| LP solves on the engine's pool.
package network
