package grove

import (
	"fmt"

	"github.com/verdant-data/canopy.report/internal/monitoring"
)

// DefaultMaxSweepSteps bounds worst-case sweep latency on pathological
// parameter ranges.
const DefaultMaxSweepSteps = 500

// SweepParams describe the core-cutoff search range for auto-calibration.
type SweepParams struct {
	Start float64
	End   float64
	Step  float64
	// MaxSteps caps the number of candidates evaluated; 0 means
	// DefaultMaxSweepSteps.
	MaxSteps int
}

// Validate rejects malformed search ranges before any run starts.
func (p SweepParams) Validate() error {
	if p.End <= p.Start {
		return fmt.Errorf("sweep range end %v must be greater than start %v", p.End, p.Start)
	}
	if p.Step <= 0 {
		return fmt.Errorf("sweep step must be positive, got %v", p.Step)
	}
	if p.MaxSteps < 0 {
		return fmt.Errorf("sweep max steps must be non-negative, got %d", p.MaxSteps)
	}
	return nil
}

// SweepThresholds evaluates flagged-counts over an ascending, evenly
// stepped sequence of core-cutoff candidates. Scores and corroboration
// counts must already be applied; they do not depend on the core cutoff,
// so each candidate only re-thresholds.
//
// The flagged-count for a candidate is the number of eligible records that
// would grade as an active cluster under it. Category-forced tiers are
// cutoff-invariant and would only shift the curve by a constant, so they
// are left out of the counts.
func SweepThresholds(records []*Record, sweep SweepParams, majorityBound int) []ThresholdCandidate {
	maxSteps := sweep.MaxSteps
	if maxSteps == 0 {
		maxSteps = DefaultMaxSweepSteps
	}

	var curve []ThresholdCandidate
	for i := 0; ; i++ {
		t := sweep.Start + float64(i)*sweep.Step
		if t > sweep.End+sweep.Step/2 {
			break
		}
		if i >= maxSteps {
			monitoring.Logf("sweep: hit step cap %d before reaching range end %v", maxSteps, sweep.End)
			break
		}
		flagged := 0
		for _, r := range records {
			if r.Category != CategoryEligible || r.Score == nil {
				continue
			}
			if *r.Score < t && r.StressedNeighbors >= majorityBound {
				flagged++
			}
		}
		curve = append(curve, ThresholdCandidate{Threshold: t, Flagged: flagged})
	}
	return curve
}
