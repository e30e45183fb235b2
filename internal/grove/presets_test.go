package grove

import "testing"

func TestDefaultPresetsAreValid(t *testing.T) {
	presets := DefaultPresets()
	if len(presets) != 3 {
		t.Fatalf("got %d presets, want 3", len(presets))
	}
	seen := map[string]bool{}
	for _, p := range presets {
		if err := p.Validate(); err != nil {
			t.Errorf("preset %q: %v", p.Name, err)
		}
		if seen[p.Name] {
			t.Errorf("duplicate preset name %q", p.Name)
		}
		seen[p.Name] = true
	}
}

func TestDefaultPresetsOrderedBySensitivity(t *testing.T) {
	presets := DefaultPresets()
	for i := 1; i < len(presets); i++ {
		if presets[i].MajorityBound >= presets[i-1].MajorityBound {
			t.Errorf("preset %q bound %d not below %q bound %d",
				presets[i].Name, presets[i].MajorityBound,
				presets[i-1].Name, presets[i-1].MajorityBound)
		}
	}
}

func TestPresetValidate(t *testing.T) {
	valid := Preset{
		Name:          "p",
		Sweep:         SweepParams{Start: -3, End: -1, Step: 0.1},
		StressCutoff:  DefaultStressCutoff,
		MajorityBound: 3,
	}

	tests := []struct {
		name    string
		mutate  func(*Preset)
		wantErr bool
	}{
		{"valid", func(p *Preset) {}, false},
		{"empty name", func(p *Preset) { p.Name = "" }, true},
		{"inverted sweep range", func(p *Preset) { p.Sweep.End = p.Sweep.Start - 1 }, true},
		{"zero bound", func(p *Preset) { p.MajorityBound = 0 }, true},
		{"bound above neighbor count", func(p *Preset) { p.MajorityBound = MaxNeighbors + 1 }, true},
		{"bound at neighbor count", func(p *Preset) { p.MajorityBound = MaxNeighbors }, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := valid
			tt.mutate(&p)
			if err := p.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
