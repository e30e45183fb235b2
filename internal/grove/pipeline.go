package grove

import (
	"fmt"
	"sort"

	"github.com/verdant-data/canopy.report/internal/monitoring"
)

// RunResult is the outcome of one full pipeline run under one preset.
type RunResult struct {
	Preset    string
	Threshold float64
	// LowConfidence is set when the sweep curve was degenerate and the
	// chosen threshold fell back to the sole defensible candidate.
	LowConfidence bool
	Curve         []ThresholdCandidate
	Records       []*Record
	BlockStats    []*BlockStats
	TierCounts    map[Tier]int
	// FlaggedIDs are the ids at maximum severity, sorted. This is the set
	// the consensus engine votes over.
	FlaggedIDs []string
}

// ActionableIDs returns the ids worth a field visit: at-risk and
// active-cluster records. Isolated suspects are presumed sensor noise and
// stay out of the actionable list, though they remain in Records for audit.
func (rr *RunResult) ActionableIDs() []string {
	var out []string
	for _, r := range rr.Records {
		if r.Tier >= TierAtRisk {
			out = append(out, r.ID)
		}
	}
	sort.Strings(out)
	return out
}

// RunPreset executes the full pipeline (segment, baseline, neighbors,
// sweep, knee, classify) on a copy of the input records. The input slice
// is never mutated, so concurrent runs under different presets are
// independent and deterministic.
func RunPreset(records []Record, preset Preset) (*RunResult, error) {
	if err := preset.Validate(); err != nil {
		return nil, err
	}

	rows := make([]*Record, len(records))
	for i := range records {
		cp := records[i]
		cp.Category = 0
		cp.Score = nil
		cp.StressedNeighbors = 0
		cp.Tier = 0
		cp.Source = false
		rows[i] = &cp
	}

	SegmentAll(rows)
	stats := ComputeBlockStats(rows)
	ApplyScores(rows, stats)
	indexes := BuildBlockIndexes(rows)
	CountStressedNeighbors(rows, indexes, stats, preset.StressCutoff)

	curve := SweepThresholds(rows, preset.Sweep, preset.MajorityBound)
	threshold, degenerate, err := SelectKnee(curve)
	if err != nil {
		return nil, fmt.Errorf("preset %q: %w", preset.Name, err)
	}
	if degenerate {
		monitoring.Logf("preset %s: degenerate sweep curve, falling back to cutoff %.2f", preset.Name, threshold)
	}

	ApplyTiers(rows, ValidatorParams{
		CoreCutoff:    threshold,
		StressCutoff:  preset.StressCutoff,
		MajorityBound: preset.MajorityBound,
	})

	result := &RunResult{
		Preset:        preset.Name,
		Threshold:     threshold,
		LowConfidence: degenerate,
		Curve:         curve,
		Records:       rows,
		BlockStats:    SortedBlockStats(stats),
		TierCounts:    make(map[Tier]int, 4),
	}
	for _, r := range rows {
		result.TierCounts[r.Tier]++
		if r.Tier == TierActiveCluster {
			result.FlaggedIDs = append(result.FlaggedIDs, r.ID)
		}
	}
	sort.Strings(result.FlaggedIDs)

	monitoring.Logf("preset %s: cutoff %.2f, %d active-cluster, %d at-risk, %d isolated, %d healthy",
		preset.Name, threshold,
		result.TierCounts[TierActiveCluster], result.TierCounts[TierAtRisk],
		result.TierCounts[TierIsolatedSuspect], result.TierCounts[TierHealthy])

	return result, nil
}
