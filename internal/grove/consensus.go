package grove

import (
	"fmt"
	"sort"
	"sync"
)

// ConsensusVote is one record's tally across preset runs.
type ConsensusVote struct {
	RecordID string
	Votes    int
	// Included reports whether the record survived the minimum-votes rule.
	Included bool
}

// Verdict is the merged per-record output handed to downstream
// collaborators: category and statistics from the reference (first) preset
// run, the worst tier observed across all runs, and the consensus tally.
type Verdict struct {
	ID                string
	BlockID           string
	Coord             Coord
	Category          Category
	Score             *float64
	StressedNeighbors int
	Tier              Tier
	Source            bool
	Votes             int
	Included          bool
}

// ConsensusResult reconciles the independent preset runs into one answer.
type ConsensusResult struct {
	MinVotes int
	Runs     []*RunResult
	// Votes is the full union of flagged ids with their tallies, sorted by
	// record id.
	Votes []ConsensusVote
	// SelectedIDs is the filtered set for the configured rule, sorted.
	SelectedIDs []string
}

// RunConsensus executes the pipeline once per preset and merges the flagged
// sets by vote count. minVotes >= 2 is an intersection rule; 1 (or 0, which
// defaults to 1) is union. Negative minVotes and invalid presets are fatal
// before any run starts.
//
// Preset runs are independent and side-effect free, so they execute
// concurrently; the tally is a reduction over per-run local results in
// preset order, which keeps output bit-identical regardless of completion
// order.
func RunConsensus(records []Record, presets []Preset, minVotes int) (*ConsensusResult, error) {
	if len(presets) == 0 {
		return nil, fmt.Errorf("consensus requires at least one preset")
	}
	if minVotes < 0 {
		return nil, fmt.Errorf("minimum votes must be non-negative, got %d", minVotes)
	}
	if minVotes == 0 {
		minVotes = 1
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	runs := make([]*RunResult, len(presets))
	errs := make([]error, len(presets))
	var wg sync.WaitGroup
	for i, preset := range presets {
		wg.Add(1)
		go func(i int, preset Preset) {
			defer wg.Done()
			runs[i], errs[i] = RunPreset(records, preset)
		}(i, preset)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return nil, fmt.Errorf("preset %q: %w", presets[i].Name, err)
		}
	}

	result := &ConsensusResult{MinVotes: minVotes, Runs: runs}
	result.Votes, result.SelectedIDs = mergeFlagged(runs, minVotes)
	return result, nil
}

// mergeFlagged reduces per-run flagged sets into the sorted union with
// vote counts plus the filtered selection for the minimum-votes rule.
func mergeFlagged(runs []*RunResult, minVotes int) ([]ConsensusVote, []string) {
	tally := make(map[string]int)
	for _, run := range runs {
		for _, id := range run.FlaggedIDs {
			tally[id]++
		}
	}

	votes := make([]ConsensusVote, 0, len(tally))
	for id, n := range tally {
		votes = append(votes, ConsensusVote{RecordID: id, Votes: n, Included: n >= minVotes})
	}
	sort.Slice(votes, func(i, j int) bool { return votes[i].RecordID < votes[j].RecordID })

	var selected []string
	for _, v := range votes {
		if v.Included {
			selected = append(selected, v.RecordID)
		}
	}
	return votes, selected
}

// Verdicts merges the runs into per-record output rows, in input record
// order. The first preset run is the reference for scores and neighbor
// counts; the tier is the maximum severity any run assigned.
func (cr *ConsensusResult) Verdicts() []Verdict {
	if len(cr.Runs) == 0 {
		return nil
	}

	worst := make(map[string]Tier, len(cr.Runs[0].Records))
	for _, run := range cr.Runs {
		for _, r := range run.Records {
			if r.Tier > worst[r.ID] {
				worst[r.ID] = r.Tier
			}
		}
	}
	votes := make(map[string]ConsensusVote, len(cr.Votes))
	for _, v := range cr.Votes {
		votes[v.RecordID] = v
	}

	out := make([]Verdict, 0, len(cr.Runs[0].Records))
	for _, r := range cr.Runs[0].Records {
		v := votes[r.ID]
		out = append(out, Verdict{
			ID:                r.ID,
			BlockID:           r.BlockID,
			Coord:             r.Coord,
			Category:          r.Category,
			Score:             r.Score,
			StressedNeighbors: r.StressedNeighbors,
			Tier:              worst[r.ID],
			Source:            r.Source,
			Votes:             v.Votes,
			Included:          v.Included,
		})
	}
	return out
}
