package grove

import "fmt"

// DefaultStressCutoff is the secondary corroboration cutoff: a neighbor
// only needs mild stress, about half a deviation below the block mean, to
// support a suspect.
const DefaultStressCutoff = -0.5

// Preset names one independent calibration of the detection pipeline. The
// search ranges are externally supplied configuration, never constants
// baked into the algorithm; the defaults below are config fallbacks only.
type Preset struct {
	Name          string
	Sweep         SweepParams
	StressCutoff  float64
	MajorityBound int
}

// Validate rejects an invalid preset before any run starts; a rejected
// preset causes no partial execution.
func (p Preset) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("preset name must not be empty")
	}
	if err := p.Sweep.Validate(); err != nil {
		return fmt.Errorf("preset %q: %w", p.Name, err)
	}
	if p.MajorityBound < 1 || p.MajorityBound > MaxNeighbors {
		return fmt.Errorf("preset %q: majority bound must be in [1, %d], got %d",
			p.Name, MaxNeighbors, p.MajorityBound)
	}
	return nil
}

// DefaultPresets returns the built-in calibration trio. Conservative
// demands dense corroboration over a tight range, aggressive accepts
// sparse corroboration over a loose range, standard sits between.
func DefaultPresets() []Preset {
	return []Preset{
		{
			Name:          "conservative",
			Sweep:         SweepParams{Start: -3.0, End: -2.0, Step: 0.1},
			StressCutoff:  DefaultStressCutoff,
			MajorityBound: 4,
		},
		{
			Name:          "standard",
			Sweep:         SweepParams{Start: -2.5, End: -1.5, Step: 0.1},
			StressCutoff:  DefaultStressCutoff,
			MajorityBound: DefaultMajorityBound,
		},
		{
			Name:          "aggressive",
			Sweep:         SweepParams{Start: -2.0, End: -1.0, Step: 0.1},
			StressCutoff:  DefaultStressCutoff,
			MajorityBound: 2,
		},
	}
}
