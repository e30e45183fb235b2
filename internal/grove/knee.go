package grove

import (
	"errors"

	"gonum.org/v1/gonum/floats"
)

// ErrEmptyCurve is returned when knee selection is asked to choose from an
// empty sweep curve.
var ErrEmptyCurve = errors.New("grove: empty sweep curve")

// SelectKnee picks the cutoff at the point of maximal curvature on the
// sweep curve and returns it together with a degenerate flag (set when the
// curve carried no usable shape and the run should be marked
// low-confidence).
//
// Both axes are min-max normalized independently; each candidate's signed
// deviation is its normalized flagged-count minus its normalized cutoff,
// the perpendicular-like distance from the diagonal through the first and
// last points (valid because the cutoff axis is sorted ascending). The
// maximum-deviation candidate wins; ties break toward the lowest cutoff.
//
// The superseded rule, picking the cutoff with the highest flagged-per-
// suspect efficiency, is biased toward the loosest end of the range on
// monotone response curves and must not be reintroduced.
func SelectKnee(curve []ThresholdCandidate) (threshold float64, degenerate bool, err error) {
	if len(curve) == 0 {
		return 0, false, ErrEmptyCurve
	}
	if len(curve) == 1 {
		return curve[0].Threshold, true, nil
	}

	xs := make([]float64, len(curve))
	ys := make([]float64, len(curve))
	for i, c := range curve {
		xs[i] = c.Threshold
		ys[i] = float64(c.Flagged)
	}

	xMin, xMax := floats.Min(xs), floats.Max(xs)
	yMin, yMax := floats.Min(ys), floats.Max(ys)
	if xMax == xMin || yMax == yMin {
		// A constant axis has no knee; the lowest cutoff is the sole
		// defensible candidate.
		return curve[0].Threshold, true, nil
	}

	best := 0
	bestDev := (ys[0]-yMin)/(yMax-yMin) - (xs[0]-xMin)/(xMax-xMin)
	for i := 1; i < len(curve); i++ {
		dev := (ys[i]-yMin)/(yMax-yMin) - (xs[i]-xMin)/(xMax-xMin)
		if dev > bestDev {
			best, bestDev = i, dev
		}
	}
	return curve[best].Threshold, false, nil
}
