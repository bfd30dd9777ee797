// SPDX-License-Identifier: MIT

// Package frog assembles and persists reproducibility reports: for every
// named objective of a model, the optimum, flux variability ranges and the
// single gene and single reaction knockout screens.
//
// What
//
//   - BuildReport runs the screens through a screen.Engine in one pass and
//     returns an immutable ReportData keyed by objective.
//   - NewMetadata records software, runtime environment, solver and the
//     md5/sha256 digests of the model file.
//   - WriteReport/ReadReport and WriteMetadata/ReadMetadata use JSON; an
//     absent value is null.
//   - WriteDir/ReadDir use the directory layout
//
//	metadata.json
//	01_objective.tsv
//	02_fva.tsv
//	03_gene_deletion.tsv
//	04_reaction_deletion.tsv
//
// Absent values
//
//	An infeasible, unbounded or timed-out solve is recorded as absent,
//	never as zero. TSV files write it as "NA".
package frog
