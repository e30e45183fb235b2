package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/verdant-data/canopy.report/internal/grove"
)

func TestDefaultRunConfig(t *testing.T) {
	cfg := DefaultRunConfig()

	if cfg.MinVotes == nil || *cfg.MinVotes != 2 {
		t.Errorf("Expected MinVotes 2, got %v", cfg.MinVotes)
	}
	if cfg.GetMinVotes() != 2 {
		t.Errorf("GetMinVotes() = %d, want 2", cfg.GetMinVotes())
	}
	if cfg.GetMaxSweepSteps() != grove.DefaultMaxSweepSteps {
		t.Errorf("GetMaxSweepSteps() = %d, want %d", cfg.GetMaxSweepSteps(), grove.DefaultMaxSweepSteps)
	}

	presets := cfg.BuildPresets()
	if len(presets) != 3 {
		t.Fatalf("Expected 3 presets, got %d", len(presets))
	}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q: %v", p.Name, err)
		}
	}
	if presets[0].Name != "conservative" || presets[0].MajorityBound != 4 {
		t.Errorf("Expected conservative preset with bound 4 first, got %q bound %d",
			presets[0].Name, presets[0].MajorityBound)
	}
}

func TestLoadRunConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "test_config.json")

	// Partial preset entries: omitted fields fall back to the standard
	// calibration.
	testJSON := `{
  "presets": [
    {"name": "tight", "sweep_start": -3.5, "sweep_end": -2.5, "majority_bound": 5},
    {"name": "loose", "stress_cutoff": -0.25}
  ],
  "min_votes": 1
}`
	if err := os.WriteFile(configPath, []byte(testJSON), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := LoadRunConfig(configPath)
	if err != nil {
		t.Fatalf("Failed to load config: %v", err)
	}

	if cfg.GetMinVotes() != 1 {
		t.Errorf("GetMinVotes() = %d, want 1", cfg.GetMinVotes())
	}

	presets := cfg.BuildPresets()
	if len(presets) != 2 {
		t.Fatalf("Expected 2 presets, got %d", len(presets))
	}
	tight := presets[0]
	if tight.Sweep.Start != -3.5 || tight.Sweep.End != -2.5 {
		t.Errorf("tight sweep range = [%v, %v], want [-3.5, -2.5]", tight.Sweep.Start, tight.Sweep.End)
	}
	if tight.Sweep.Step != 0.1 {
		t.Errorf("tight sweep step = %v, want fallback 0.1", tight.Sweep.Step)
	}
	if tight.MajorityBound != 5 {
		t.Errorf("tight majority bound = %d, want 5", tight.MajorityBound)
	}
	loose := presets[1]
	if loose.StressCutoff != -0.25 {
		t.Errorf("loose stress cutoff = %v, want -0.25", loose.StressCutoff)
	}
	if loose.MajorityBound != grove.DefaultMajorityBound {
		t.Errorf("loose majority bound = %d, want fallback %d", loose.MajorityBound, grove.DefaultMajorityBound)
	}
}

func TestLoadRunConfigRejectsInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		json string
	}{
		{"nameless preset", `{"presets": [{"sweep_start": -3}]}`},
		{"inverted sweep", `{"presets": [{"name": "p", "sweep_start": -1, "sweep_end": -3}]}`},
		{"bad bound", `{"presets": [{"name": "p", "majority_bound": 9}]}`},
		{"negative min votes", `{"min_votes": -1}`},
		{"not json", `presets:`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(tmpDir, "bad.json")
			if err := os.WriteFile(path, []byte(tt.json), 0644); err != nil {
				t.Fatalf("Failed to write config: %v", err)
			}
			if _, err := LoadRunConfig(path); err == nil {
				t.Error("Expected load to fail")
			}
		})
	}
}

func TestLoadRunConfigRequiresJSONExtension(t *testing.T) {
	if _, err := LoadRunConfig("presets.yaml"); err == nil {
		t.Error("Expected non-JSON extension to be rejected")
	}
}

func TestBuildPresetsEmptyFallsBack(t *testing.T) {
	cfg := EmptyRunConfig()
	presets := cfg.BuildPresets()
	if len(presets) != len(grove.DefaultPresets()) {
		t.Errorf("Expected the built-in trio, got %d presets", len(presets))
	}
}

func TestMustLoadDefaultConfig(t *testing.T) {
	cfg := MustLoadDefaultConfig()
	if got := len(cfg.BuildPresets()); got != 3 {
		t.Errorf("defaults file carries %d presets, want 3", got)
	}
}
