// Package grove implements the root-pathogen risk classification core for
// plantation survey data.
//
// Responsibilities: population segmentation, per-block baseline statistics,
// triangular-lattice neighbor resolution, tier classification, threshold
// auto-calibration, and multi-preset consensus.
// Key types: Record, BlockStats, Preset, RunResult, ConsensusResult.
//
// The package is pure computation: it consumes structured records and
// configuration and returns structured results. Parsing, persistence, and
// rendering live in sibling packages. No SQL/database code is allowed here.
package grove
