package grove

import (
	"fmt"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// testGrove builds one 5x5 block with a five-tree stress pocket around
// (2,2), a fallen tree at (4,4), and an interplant just outside the grid.
// Under the standard preset the pocket core flags as an active cluster at
// a cutoff of -1.9 while the pocket fringe grades at-risk.
func testGrove() []Record {
	pocket := map[Coord]bool{
		{Row: 1, Pos: 2}: true,
		{Row: 1, Pos: 3}: true,
		{Row: 2, Pos: 1}: true,
		{Row: 2, Pos: 2}: true,
		{Row: 2, Pos: 3}: true,
	}

	var records []Record
	for row := 0; row < 5; row++ {
		for pos := 0; pos < 5; pos++ {
			if row == 4 && pos == 4 {
				continue
			}
			value := 0.40
			if pocket[Coord{Row: row, Pos: pos}] {
				value = 0.20
			}
			records = append(records, Record{
				ID:      fmt.Sprintf("P%d-%d", row, pos),
				BlockID: "NW-07",
				Coord:   Coord{Row: row, Pos: pos},
				Value:   fptr(value),
				Note:    "utama",
			})
		}
	}
	records = append(records,
		Record{ID: "D4-4", BlockID: "NW-07", Coord: Coord{Row: 4, Pos: 4}, Value: fptr(0.10), Note: "mati tumbang"},
		Record{ID: "J0-5", BlockID: "NW-07", Coord: Coord{Row: 0, Pos: 5}, Value: fptr(0.30), Note: "sisip"},
	)
	return records
}

func standardPreset() Preset {
	return Preset{
		Name:          "standard",
		Sweep:         SweepParams{Start: -2.5, End: -1.5, Step: 0.1},
		StressCutoff:  DefaultStressCutoff,
		MajorityBound: 3,
	}
}

func TestRunPresetFlagsStressPocket(t *testing.T) {
	result, err := RunPreset(testGrove(), standardPreset())
	if err != nil {
		t.Fatalf("RunPreset: %v", err)
	}

	if math.Abs(result.Threshold-(-1.9)) > 1e-9 {
		t.Errorf("threshold = %v, want -1.9", result.Threshold)
	}
	if result.LowConfidence {
		t.Error("curve has a clear knee, run must not be low-confidence")
	}
	if len(result.Curve) != 11 {
		t.Errorf("curve has %d candidates, want 11", len(result.Curve))
	}

	// Pocket core plus the fallen source; the fringe lacks majority
	// corroboration and stays out.
	wantFlagged := []string{"D4-4", "P1-2", "P1-3", "P2-2"}
	if diff := cmp.Diff(wantFlagged, result.FlaggedIDs); diff != "" {
		t.Errorf("flagged ids mismatch (-want +got):\n%s", diff)
	}

	wantCounts := map[Tier]int{
		TierActiveCluster: 4,
		TierAtRisk:        3, // pocket fringe P2-1, P2-3 plus the interplant
		TierHealthy:       19,
	}
	for tier, want := range wantCounts {
		if got := result.TierCounts[tier]; got != want {
			t.Errorf("tier %v count = %d, want %d", tier, got, want)
		}
	}
	if got := result.TierCounts[TierIsolatedSuspect]; got != 0 {
		t.Errorf("isolated count = %d, want 0", got)
	}
}

func TestRunPresetActionableIDs(t *testing.T) {
	result, err := RunPreset(testGrove(), standardPreset())
	if err != nil {
		t.Fatalf("RunPreset: %v", err)
	}
	want := []string{"D4-4", "J0-5", "P1-2", "P1-3", "P2-1", "P2-2", "P2-3"}
	if diff := cmp.Diff(want, result.ActionableIDs()); diff != "" {
		t.Errorf("actionable ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPresetDegenerateCurve(t *testing.T) {
	// A range the eligible scores never reach produces a flat curve; the
	// run falls back to the strictest cutoff and says so.
	preset := Preset{
		Name:          "conservative",
		Sweep:         SweepParams{Start: -3.0, End: -2.0, Step: 0.1},
		StressCutoff:  DefaultStressCutoff,
		MajorityBound: 4,
	}
	result, err := RunPreset(testGrove(), preset)
	if err != nil {
		t.Fatalf("RunPreset: %v", err)
	}
	if !result.LowConfidence {
		t.Error("flat curve must mark the run low-confidence")
	}
	if math.Abs(result.Threshold-(-3.0)) > 1e-9 {
		t.Errorf("threshold = %v, want the strictest candidate -3.0", result.Threshold)
	}
	// Only the category-forced source survives the strictest cutoff.
	if diff := cmp.Diff([]string{"D4-4"}, result.FlaggedIDs); diff != "" {
		t.Errorf("flagged ids mismatch (-want +got):\n%s", diff)
	}
}

func TestRunPresetDoesNotMutateInput(t *testing.T) {
	records := testGrove()
	before := make([]Record, len(records))
	copy(before, records)

	if _, err := RunPreset(records, standardPreset()); err != nil {
		t.Fatalf("RunPreset: %v", err)
	}
	if diff := cmp.Diff(before, records); diff != "" {
		t.Errorf("input records mutated (-want +got):\n%s", diff)
	}
}

func TestRunPresetDeterministic(t *testing.T) {
	records := testGrove()
	first, err := RunPreset(records, standardPreset())
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	second, err := RunPreset(records, standardPreset())
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("repeated runs diverge (-first +second):\n%s", diff)
	}
}

func TestRunPresetRejectsInvalidPreset(t *testing.T) {
	bad := standardPreset()
	bad.MajorityBound = 0
	if _, err := RunPreset(testGrove(), bad); err == nil {
		t.Error("invalid preset must fail before any run")
	}
}
