package grove

// DefaultMajorityBound is the corroborating-neighbor count that promotes a
// suspect to an active cluster: half of the lattice degree.
const DefaultMajorityBound = 3

// ValidatorParams are the tunable cutoffs for tier classification.
type ValidatorParams struct {
	// CoreCutoff is the primary anomaly cutoff. A record is suspect iff
	// its score is strictly below it.
	CoreCutoff float64
	// StressCutoff is the looser secondary cutoff a neighbor must fall
	// strictly below to corroborate. Less extreme than CoreCutoff:
	// corroboration needs mild stress, not full suspicion.
	StressCutoff float64
	// MajorityBound is the corroboration count at which a suspect becomes
	// an active cluster.
	MajorityBound int
}

// Corroborates reports whether a neighboring record supports the stress
// hypothesis around a suspect.
//
// Eligible neighbors corroborate on their own anomaly score. Deceased
// neighbors always corroborate: they are the pathogen source the cluster
// grows from. Juvenile neighbors carry no stored score (they are outside
// the baseline), so their raw value is compared against the block's stress
// level inline. Vacant positions never corroborate.
func Corroborates(r *Record, bs *BlockStats, stressCutoff float64) bool {
	switch r.Category {
	case CategoryDeceased:
		return true
	case CategoryEligible:
		return r.Score != nil && *r.Score < stressCutoff
	case CategoryJuvenile:
		if r.Value == nil || bs == nil || bs.StdDev <= 0 {
			return false
		}
		return (*r.Value-bs.Mean)/bs.StdDev < stressCutoff
	}
	return false
}

// CountStressedNeighbors fills Record.StressedNeighbors for every eligible
// record: the number of realized lattice neighbors corroborating stress at
// the given cutoff. The count is independent of the core cutoff, so it is
// computed once and reused across a threshold sweep.
func CountStressedNeighbors(records []*Record, indexes map[string]*BlockIndex, stats map[string]*BlockStats, stressCutoff float64) {
	for _, r := range records {
		r.StressedNeighbors = 0
		if r.Category != CategoryEligible {
			continue
		}
		idx := indexes[r.BlockID]
		if idx == nil {
			continue
		}
		bs := stats[r.BlockID]
		for _, n := range idx.Neighbors(r.Coord) {
			if Corroborates(n, bs, stressCutoff) {
				r.StressedNeighbors++
			}
		}
	}
}

// ClassifyTier is the pure classification function combining category,
// anomaly score, and neighbor corroboration into a severity tier.
//
// Category-forced outcomes short-circuit the statistical path: deceased is
// a terminal pathogen source, juvenile is monitoring-only, vacant is
// inactive. For eligible records, a suspect (score strictly below the core
// cutoff) is graded by how many neighbors corroborate: a majority makes an
// active cluster, any corroboration at all makes it at-risk, and an
// uncorroborated outlier stays isolated. Requiring even one corroborating
// neighbor encodes the premise that infection spreads through adjacency
// and shows up as a region of correlated stress, not a lone reading.
func ClassifyTier(category Category, score *float64, stressedNeighbors int, p ValidatorParams) Tier {
	switch category {
	case CategoryDeceased:
		return TierActiveCluster
	case CategoryJuvenile:
		return TierAtRisk
	case CategoryVacant:
		return TierHealthy
	}

	if score == nil || *score >= p.CoreCutoff {
		return TierHealthy
	}
	switch {
	case stressedNeighbors >= p.MajorityBound:
		return TierActiveCluster
	case stressedNeighbors >= 1:
		return TierAtRisk
	}
	return TierIsolatedSuspect
}

// ApplyTiers classifies every record in place.
func ApplyTiers(records []*Record, p ValidatorParams) {
	for _, r := range records {
		r.Tier = ClassifyTier(r.Category, r.Score, r.StressedNeighbors, p)
	}
}
