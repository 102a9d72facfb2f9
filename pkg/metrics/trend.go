package metrics

// Trend is the direction a value moved relative to its baseline.
type Trend int

// Trend values.
const (
	Flat Trend = iota
	Up
	Down
)

func (t Trend) String() string {
	switch t {
	case Up:
		return "up"
	case Down:
		return "down"
	}
	return "flat"
}

// Arrow returns a one-character indicator for t.
func (t Trend) Arrow() string {
	switch t {
	case Up:
		return "↑"
	case Down:
		return "↓"
	}
	return ""
}

// Compare reports whether current moved up, down or not at all from original.
func Compare[T int | float64](current, original T) Trend {
	switch {
	case current > original:
		return Up
	case current < original:
		return Down
	}
	return Flat
}

// Trends holds the per-field direction of a Summary against its baseline.
type Trends struct {
	SiteCount      Trend
	CandidateCount Trend
	HighScoreCount Trend
	AvgOnTarget    Trend
	AvgOffTarget   Trend
}

// Trends compares s against the baseline it was computed from.
func (s Summary) Trends(base Baseline, baselineAnnotationCount int) Trends {
	return Trends{
		SiteCount:      Compare(s.SiteCount, base.SiteCount),
		CandidateCount: Compare(s.CandidateCount, baselineAnnotationCount),
		HighScoreCount: Compare(s.HighScoreCount, base.HighScoreCount),
		AvgOnTarget:    Compare(s.AvgOnTarget, base.AvgOnTarget),
		AvgOffTarget:   Compare(s.AvgOffTarget, base.AvgOffTarget),
	}
}
