// Package monitor produces calibration diagnostics for survey runs. The
// sweep plots let an agronomist inspect where on the response curve each
// preset's cutoff landed, which is the first thing to check when a run is
// marked low-confidence.
package monitor

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/verdant-data/canopy.report/internal/grove"
)

// WriteSweepPlots renders one PNG per preset run into outputDir and
// returns the written paths in run order.
func WriteSweepPlots(result *grove.ConsensusResult, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output dir: %w", err)
	}

	var paths []string
	for _, run := range result.Runs {
		path := filepath.Join(outputDir, fmt.Sprintf("sweep_%s.png", run.Preset))
		if err := writeSweepPlot(run, path); err != nil {
			return nil, fmt.Errorf("preset %s: %w", run.Preset, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSweepPlot(run *grove.RunResult, path string) error {
	if len(run.Curve) == 0 {
		return fmt.Errorf("run has no sweep curve")
	}

	p := plot.New()
	p.Title.Text = fmt.Sprintf("Cutoff sweep: preset %s", run.Preset)
	if run.LowConfidence {
		p.Title.Text += " (low confidence)"
	}
	p.X.Label.Text = "cutoff"
	p.Y.Label.Text = "flagged records"

	pts := make(plotter.XYs, 0, len(run.Curve))
	maxFlagged := 0
	for _, c := range run.Curve {
		pts = append(pts, plotter.XY{X: c.Threshold, Y: float64(c.Flagged)})
		if c.Flagged > maxFlagged {
			maxFlagged = c.Flagged
		}
	}

	curveLine, err := plotter.NewLine(pts)
	if err != nil {
		return fmt.Errorf("failed to build curve line: %w", err)
	}
	p.Add(curveLine)
	p.Legend.Add("flagged", curveLine)

	// Vertical marker at the chosen cutoff.
	marker, err := plotter.NewLine(plotter.XYs{
		{X: run.Threshold, Y: 0},
		{X: run.Threshold, Y: float64(maxFlagged)},
	})
	if err != nil {
		return fmt.Errorf("failed to build cutoff marker: %w", err)
	}
	marker.Color = color.RGBA{R: 200, A: 255}
	p.Add(marker)
	p.Legend.Add(fmt.Sprintf("cutoff %.2f", run.Threshold), marker)

	p.Legend.Top = true
	p.Legend.Left = true

	if err := p.Save(8*vg.Inch, 5*vg.Inch, path); err != nil {
		return fmt.Errorf("failed to save plot: %w", err)
	}
	return nil
}
