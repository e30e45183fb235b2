package grove

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ComputeBlockStats computes the per-block statistical baseline from the
// eligible subpopulation only. Contaminating the baseline with deceased or
// vacant values (which trend toward zero) would silently depress the mean
// and mask genuine anomalies, so segmentation must run first.
//
// A block with no eligible records gets the sentinel baseline (mean 0,
// standard deviation 1) and is marked low-confidence instead of failing.
func ComputeBlockStats(records []*Record) map[string]*BlockStats {
	values := make(map[string][]float64)
	blocks := make(map[string]bool)
	for _, r := range records {
		blocks[r.BlockID] = true
		if r.Category != CategoryEligible || r.Value == nil {
			continue
		}
		values[r.BlockID] = append(values[r.BlockID], *r.Value)
	}

	stats := make(map[string]*BlockStats, len(blocks))
	for blockID := range blocks {
		vs := values[blockID]
		if len(vs) == 0 {
			stats[blockID] = &BlockStats{
				BlockID:       blockID,
				Mean:          0,
				StdDev:        1,
				LowConfidence: true,
			}
			continue
		}
		sd := stat.StdDev(vs, nil)
		if math.IsNaN(sd) {
			// Single eligible record; no spread to estimate.
			sd = 0
		}
		stats[blockID] = &BlockStats{
			BlockID:       blockID,
			Mean:          stat.Mean(vs, nil),
			StdDev:        sd,
			EligibleCount: len(vs),
		}
	}
	return stats
}

// ApplyScores derives the normalized anomaly score for every eligible
// record: (value − mean) / stddev against its block baseline. Non-eligible
// categories keep a nil score; the statistical path does not run for them.
//
// A zero-variance block cannot be normalized, so its records get the
// default non-anomalous score 0 rather than an error.
func ApplyScores(records []*Record, stats map[string]*BlockStats) {
	for _, r := range records {
		r.Score = nil
		if r.Category != CategoryEligible || r.Value == nil {
			continue
		}
		bs := stats[r.BlockID]
		if bs == nil {
			continue
		}
		score := 0.0
		if bs.StdDev > 0 {
			score = (*r.Value - bs.Mean) / bs.StdDev
		}
		r.Score = &score
	}
}

// SortedBlockStats returns the baselines ordered by block id, for
// deterministic summaries and exports.
func SortedBlockStats(stats map[string]*BlockStats) []*BlockStats {
	out := make([]*BlockStats, 0, len(stats))
	for _, bs := range stats {
		out = append(out, bs)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BlockID < out[j].BlockID })
	return out
}
