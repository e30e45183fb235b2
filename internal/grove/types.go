package grove

import "fmt"

// Category is the lifecycle category assigned to a record by segmentation.
// It is a closed set; every record maps to exactly one value.
type Category int

const (
	// CategoryEligible marks a mature planted stand that participates in
	// baseline statistics and the statistical classification path.
	CategoryEligible Category = iota
	// CategoryJuvenile marks a young interplanted stand. Excluded from
	// baseline statistics (small canopy reads low regardless of health)
	// but may still corroborate a neighboring suspect.
	CategoryJuvenile
	// CategoryDeceased marks a dead or fallen stand. Treated as a pathogen
	// source: terminal maximum-severity tier, no statistics.
	CategoryDeceased
	// CategoryVacant marks an empty planting position. Excluded from
	// statistics and from neighbor corroboration.
	CategoryVacant
)

// String returns the category name used in exports and logs.
func (c Category) String() string {
	switch c {
	case CategoryEligible:
		return "eligible"
	case CategoryJuvenile:
		return "juvenile"
	case CategoryDeceased:
		return "deceased"
	case CategoryVacant:
		return "vacant"
	}
	return fmt.Sprintf("category(%d)", int(c))
}

// Tier is the classification outcome for a record. Values are ordered by
// strictly increasing severity, so tiers compare with < and >.
type Tier int

const (
	// TierHealthy: no statistical anomaly, or an inactive (vacant) position.
	TierHealthy Tier = iota
	// TierIsolatedSuspect: anomalous reading with zero corroborating
	// neighbors. Presumed sensor noise; retained for audit, excluded from
	// the actionable export.
	TierIsolatedSuspect
	// TierAtRisk: anomalous reading with some, but not majority,
	// neighbor corroboration. Monitoring tier.
	TierAtRisk
	// TierActiveCluster: anomalous reading corroborated by a majority of
	// realized neighbors, or a deceased pathogen source.
	TierActiveCluster
)

// String returns the tier name used in exports and logs.
func (t Tier) String() string {
	switch t {
	case TierHealthy:
		return "healthy"
	case TierIsolatedSuspect:
		return "isolated-suspect"
	case TierAtRisk:
		return "at-risk"
	case TierActiveCluster:
		return "active-cluster"
	}
	return fmt.Sprintf("tier(%d)", int(t))
}

// Coord addresses a planting position inside a block. The layout is a
// triangular (quincunx) lattice, not a square grid; see lattice.go.
type Coord struct {
	Row int
	Pos int
}

// Record is one surveyed planting position. Identity and raw fields are set
// at ingestion; derived fields are filled by the pipeline stages in order
// and are never mutated after a run completes.
type Record struct {
	ID      string
	BlockID string
	Coord   Coord
	// Value is the raw vegetation-health index. Nil when the sensor
	// returned nothing for this position.
	Value *float64
	// Note is the free-text surveyor annotation driving segmentation.
	Note string

	// Derived by the pipeline.
	Category Category
	// Score is the normalized anomaly score. Nil for every non-eligible
	// category; the statistical path never runs for them.
	Score *float64
	// StressedNeighbors counts adjacent records corroborating stress.
	// Bounded above by MaxNeighbors.
	StressedNeighbors int
	Tier              Tier
	// Source is set for deceased records, which seed infection outward.
	Source bool
}

// BlockStats holds the statistical baseline for one block, computed fresh
// per run from the eligible subpopulation only.
type BlockStats struct {
	BlockID       string
	Mean          float64
	StdDev        float64
	EligibleCount int
	// LowConfidence is set when the block had no eligible records and the
	// sentinel baseline (mean 0, standard deviation 1) was substituted.
	LowConfidence bool
}

// ThresholdCandidate is one point on the calibration sweep curve: a cutoff
// value and the number of records flagged at maximum severity under it.
// Candidates exist only for the duration of a sweep.
type ThresholdCandidate struct {
	Threshold float64
	Flagged   int
}
