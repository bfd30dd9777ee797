// Package screen distributes independent optimization tasks (gene and
// reaction knockouts, flux variability, metabolite demand) over a bounded
// worker pool.
//
// Every task derives its own model.Variant from the shared, read-only base
// network, solves it through the fba.Optimizer, and writes only its own
// result slot. Results are therefore returned in input order, one per
// perturbation, and a single worker produces exactly the same values as
// many. An infeasible task is an absent fba.Value at its position; it never
// aborts the batch.
//
//	eng, _ := screen.NewEngine(opt, screen.WithWorkers(runtime.NumCPU()))
//	vals, err := eng.Run(ctx, m, screen.GeneKnockouts(m))
package screen
