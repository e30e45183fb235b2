package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/verdant-data/canopy.report/internal/grove"
)

// DefaultConfigPath is the path to the canonical preset defaults file.
// This is the single source of truth for all default calibration values.
const DefaultConfigPath = "config/presets.defaults.json"

// PresetConfig is one calibration entry in the survey configuration. All
// fields are pointers so a partial JSON entry falls back to the standard
// calibration for anything it omits.
type PresetConfig struct {
	Name          *string  `json:"name,omitempty"`
	SweepStart    *float64 `json:"sweep_start,omitempty"`
	SweepEnd      *float64 `json:"sweep_end,omitempty"`
	SweepStep     *float64 `json:"sweep_step,omitempty"`
	StressCutoff  *float64 `json:"stress_cutoff,omitempty"`
	MajorityBound *int     `json:"majority_bound,omitempty"`
}

// RunConfig represents the root configuration for a survey run: the preset
// list the consensus engine votes over plus the voting rule itself.
type RunConfig struct {
	Presets       []PresetConfig `json:"presets,omitempty"`
	MinVotes      *int           `json:"min_votes,omitempty"`
	MaxSweepSteps *int           `json:"max_sweep_steps,omitempty"`
}

// Helper functions to create pointers
func ptrFloat64(v float64) *float64 { return &v }
func ptrString(v string) *string    { return &v }
func ptrInt(v int) *int             { return &v }

// EmptyRunConfig returns a RunConfig with all fields set to nil.
// Use LoadRunConfig to load actual values from the defaults file.
func EmptyRunConfig() *RunConfig {
	return &RunConfig{}
}

// DefaultRunConfig returns the built-in configuration: the default
// calibration trio under the intersection rule.
func DefaultRunConfig() *RunConfig {
	cfg := &RunConfig{
		MinVotes:      ptrInt(2),
		MaxSweepSteps: ptrInt(grove.DefaultMaxSweepSteps),
	}
	for _, p := range grove.DefaultPresets() {
		cfg.Presets = append(cfg.Presets, PresetConfig{
			Name:          ptrString(p.Name),
			SweepStart:    ptrFloat64(p.Sweep.Start),
			SweepEnd:      ptrFloat64(p.Sweep.End),
			SweepStep:     ptrFloat64(p.Sweep.Step),
			StressCutoff:  ptrFloat64(p.StressCutoff),
			MajorityBound: ptrInt(p.MajorityBound),
		})
	}
	return cfg
}

// LoadRunConfig loads a RunConfig from a JSON file.
// The file is validated to ensure it has a .json extension and is under the max file size.
// Fields omitted from the JSON file retain their default values, so
// partial configs are safe.
func LoadRunConfig(path string) (*RunConfig, error) {
	// Validate the config file path.
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	// Check file size for safety (max 1MB)
	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse JSON into empty config. The Get* methods provide fallback
	// defaults for any fields not specified in the JSON.
	cfg := EmptyRunConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	// Validate the configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// MustLoadDefaultConfig loads the canonical preset defaults from DefaultConfigPath.
// It searches for the file in the current directory and common parent directories.
// Panics if the file cannot be loaded, intended for test setup.
func MustLoadDefaultConfig() *RunConfig {
	// Try paths from current dir up to repo root
	candidates := []string{
		DefaultConfigPath,
		"../../" + DefaultConfigPath,    // from internal/config/
		"../../../" + DefaultConfigPath, // from internal/grove/monitor/
	}
	for _, path := range candidates {
		if cfg, err := LoadRunConfig(path); err == nil {
			return cfg
		}
	}
	panic("cannot find " + DefaultConfigPath + " - run tests from repository root")
}

// Validate checks that the configuration values are valid. It builds the
// effective presets so range and bound errors surface here rather than at
// run start.
func (c *RunConfig) Validate() error {
	if c.MinVotes != nil && *c.MinVotes < 0 {
		return fmt.Errorf("min_votes must be non-negative, got %d", *c.MinVotes)
	}
	if c.MaxSweepSteps != nil && *c.MaxSweepSteps < 0 {
		return fmt.Errorf("max_sweep_steps must be non-negative, got %d", *c.MaxSweepSteps)
	}
	for i, p := range c.Presets {
		if p.Name == nil || *p.Name == "" {
			return fmt.Errorf("preset %d: name is required", i)
		}
		if err := c.buildPreset(p).Validate(); err != nil {
			return err
		}
	}
	return nil
}

// GetMinVotes returns the min_votes value or the default.
func (c *RunConfig) GetMinVotes() int {
	if c.MinVotes == nil {
		return 2 // default: intersection over the default trio
	}
	return *c.MinVotes
}

// GetMaxSweepSteps returns the max_sweep_steps value or the default.
func (c *RunConfig) GetMaxSweepSteps() int {
	if c.MaxSweepSteps == nil {
		return grove.DefaultMaxSweepSteps
	}
	return *c.MaxSweepSteps
}

// BuildPresets materializes the configured presets. An empty list falls
// back to the built-in calibration trio.
func (c *RunConfig) BuildPresets() []grove.Preset {
	if len(c.Presets) == 0 {
		return grove.DefaultPresets()
	}
	presets := make([]grove.Preset, 0, len(c.Presets))
	for _, p := range c.Presets {
		presets = append(presets, c.buildPreset(p))
	}
	return presets
}

// standardSweep is the fallback search range for preset entries that omit
// their own.
var standardSweep = grove.SweepParams{Start: -2.5, End: -1.5, Step: 0.1}

func (c *RunConfig) buildPreset(p PresetConfig) grove.Preset {
	preset := grove.Preset{
		Sweep:         standardSweep,
		StressCutoff:  grove.DefaultStressCutoff,
		MajorityBound: grove.DefaultMajorityBound,
	}
	preset.Sweep.MaxSteps = c.GetMaxSweepSteps()
	if p.Name != nil {
		preset.Name = *p.Name
	}
	if p.SweepStart != nil {
		preset.Sweep.Start = *p.SweepStart
	}
	if p.SweepEnd != nil {
		preset.Sweep.End = *p.SweepEnd
	}
	if p.SweepStep != nil {
		preset.Sweep.Step = *p.SweepStep
	}
	if p.StressCutoff != nil {
		preset.StressCutoff = *p.StressCutoff
	}
	if p.MajorityBound != nil {
		preset.MajorityBound = *p.MajorityBound
	}
	return preset
}
