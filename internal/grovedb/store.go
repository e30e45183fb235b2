package grovedb

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/verdant-data/canopy.report/internal/grove"
)

// RunSummary is one row of the run history listing.
type RunSummary struct {
	RunID         string
	CreatedAt     time.Time
	Source        string
	MinVotes      int
	PresetCount   int
	SelectedCount int
}

// SaveRun persists a consensus run: the run row, one row per preset
// execution, and the merged verdict for every record. The whole write is
// one transaction; a failed run leaves no partial rows. Returns the
// generated run id.
func (db *DB) SaveRun(result *grove.ConsensusResult, source string) (string, error) {
	runID := uuid.NewString()

	tx, err := db.Begin()
	if err != nil {
		return "", fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.Exec(
		`INSERT INTO runs (run_id, source, min_votes, preset_count) VALUES (?, ?, ?, ?)`,
		runID, source, result.MinVotes, len(result.Runs),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert run: %w", err)
	}

	for _, run := range result.Runs {
		_, err = tx.Exec(
			`INSERT INTO preset_runs (run_id, preset, threshold, low_confidence, flagged_count)
			 VALUES (?, ?, ?, ?, ?)`,
			runID, run.Preset, run.Threshold, run.LowConfidence, len(run.FlaggedIDs),
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert preset run %s: %w", run.Preset, err)
		}
	}

	stmt, err := tx.Prepare(
		`INSERT INTO verdicts (run_id, record_id, block_id, lattice_row, lattice_pos,
		 category, score, stressed_neighbors, tier, source, votes, included)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return "", fmt.Errorf("failed to prepare verdict insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range result.Verdicts() {
		var score sql.NullFloat64
		if v.Score != nil {
			score = sql.NullFloat64{Float64: *v.Score, Valid: true}
		}
		_, err = stmt.Exec(
			runID, v.ID, v.BlockID, v.Coord.Row, v.Coord.Pos,
			v.Category.String(), score, v.StressedNeighbors,
			v.Tier.String(), v.Source, v.Votes, v.Included,
		)
		if err != nil {
			return "", fmt.Errorf("failed to insert verdict %s: %w", v.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return "", fmt.Errorf("failed to commit run: %w", err)
	}
	return runID, nil
}

// ListRuns returns recent runs, newest first.
func (db *DB) ListRuns(limit int) ([]RunSummary, error) {
	rows, err := db.Query(
		`SELECT r.run_id, r.created_at, r.source, r.min_votes, r.preset_count,
		        (SELECT COUNT(*) FROM verdicts v WHERE v.run_id = r.run_id AND v.included = 1)
		 FROM runs r ORDER BY r.created_at DESC, r.run_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var out []RunSummary
	for rows.Next() {
		var s RunSummary
		if err := rows.Scan(&s.RunID, &s.CreatedAt, &s.Source, &s.MinVotes, &s.PresetCount, &s.SelectedCount); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// SelectedIDs returns the consensus-selected record ids of a run, sorted.
func (db *DB) SelectedIDs(runID string) ([]string, error) {
	rows, err := db.Query(
		`SELECT record_id FROM verdicts WHERE run_id = ? AND included = 1 ORDER BY record_id`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query selected ids: %w", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan record id: %w", err)
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// Verdicts returns every stored verdict of a run ordered by block and
// lattice position.
func (db *DB) Verdicts(runID string) ([]grove.Verdict, error) {
	rows, err := db.Query(
		`SELECT record_id, block_id, lattice_row, lattice_pos, category, score,
		        stressed_neighbors, tier, source, votes, included
		 FROM verdicts WHERE run_id = ?
		 ORDER BY block_id, lattice_row, lattice_pos`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to query verdicts: %w", err)
	}
	defer rows.Close()

	var out []grove.Verdict
	for rows.Next() {
		var (
			v        grove.Verdict
			category string
			tier     string
			score    sql.NullFloat64
		)
		err := rows.Scan(&v.ID, &v.BlockID, &v.Coord.Row, &v.Coord.Pos, &category, &score,
			&v.StressedNeighbors, &tier, &v.Source, &v.Votes, &v.Included)
		if err != nil {
			return nil, fmt.Errorf("failed to scan verdict: %w", err)
		}
		if v.Category, err = parseCategory(category); err != nil {
			return nil, fmt.Errorf("verdict %s: %w", v.ID, err)
		}
		if v.Tier, err = parseTier(tier); err != nil {
			return nil, fmt.Errorf("verdict %s: %w", v.ID, err)
		}
		if score.Valid {
			s := score.Float64
			v.Score = &s
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func parseCategory(s string) (grove.Category, error) {
	for _, c := range []grove.Category{
		grove.CategoryEligible, grove.CategoryJuvenile, grove.CategoryDeceased, grove.CategoryVacant,
	} {
		if c.String() == s {
			return c, nil
		}
	}
	return 0, fmt.Errorf("unknown category %q", s)
}

func parseTier(s string) (grove.Tier, error) {
	for _, t := range []grove.Tier{
		grove.TierHealthy, grove.TierIsolatedSuspect, grove.TierAtRisk, grove.TierActiveCluster,
	} {
		if t.String() == s {
			return t, nil
		}
	}
	return 0, fmt.Errorf("unknown tier %q", s)
}
