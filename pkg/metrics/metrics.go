// Package metrics extrapolates an analysis summary for an edited sequence.
//
// There is no re-scoring here. The summary is a fixed heuristic driven only
// by the change in sequence length relative to the analysed baseline: it
// grows and shrinks monotonically with the sequence and returns the baseline
// unchanged when nothing was edited.
package metrics

import "math"

// Heuristic slopes.
const (
	sitesPerBases      = 100
	candidatesPerBases = 200
	highScoreThreshold = 100

	onTargetPerBase  = 0.001
	offTargetPerBase = 0.0005
)

// Baseline holds the summary the analysis provider reported for the
// unedited sequence.
type Baseline struct {
	SiteCount      int
	HighScoreCount int
	AvgOnTarget    float64
	AvgOffTarget   float64
}

// DefaultBaseline returns the mock provider's reported values.
func DefaultBaseline() Baseline {
	return Baseline{
		SiteCount:      23,
		HighScoreCount: 1,
		AvgOnTarget:    0.78,
		AvgOffTarget:   0.12,
	}
}

// Summary is the approximate metrics view for the current sequence.
type Summary struct {
	SiteCount      int
	CandidateCount int
	HighScoreCount int
	AvgOnTarget    float64
	AvgOffTarget   float64

	// LengthDelta is len(current) - len(baseline).
	LengthDelta int
	// Changed is false only when current equals the baseline sequence.
	Changed bool
}

// Compute extrapolates a Summary for current from the baseline sequence and
// the provider's baseline values.
func Compute(current, baseline string, baselineAnnotationCount int, base Baseline) Summary {
	if current == baseline {
		return Summary{
			SiteCount:      base.SiteCount,
			CandidateCount: baselineAnnotationCount,
			HighScoreCount: base.HighScoreCount,
			AvgOnTarget:    base.AvgOnTarget,
			AvgOffTarget:   base.AvgOffTarget,
		}
	}

	delta := len(current) - len(baseline)

	highScoreShift := 0
	switch {
	case delta > highScoreThreshold:
		highScoreShift = 1
	case delta < -highScoreThreshold:
		highScoreShift = -1
	}

	return Summary{
		SiteCount:      max(0, base.SiteCount+floorDiv(delta, sitesPerBases)),
		CandidateCount: max(0, baselineAnnotationCount+floorDiv(delta, candidatesPerBases)),
		HighScoreCount: max(0, base.HighScoreCount+highScoreShift),
		AvgOnTarget:    clamp01(base.AvgOnTarget + float64(delta)*onTargetPerBase),
		AvgOffTarget:   clamp01(base.AvgOffTarget - float64(delta)*offTargetPerBase),
		LengthDelta:    delta,
		Changed:        true,
	}
}

// Impact describes the expected effect of the edit on candidate sites.
// It is empty when nothing changed.
func (s Summary) Impact() string {
	switch {
	case !s.Changed:
		return ""
	case s.LengthDelta > 0:
		return "Added bases may create new gRNA sites"
	case s.LengthDelta < 0:
		return "Removed bases may eliminate gRNA sites"
	default:
		return "Modified bases may affect gRNA efficiency"
	}
}

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func clamp01(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
