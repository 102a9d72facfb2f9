package metrics

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

const baselineSeq = "ATGCGATCGATCGATCGATCGATCTGGATGCATGCATGCATGCATGCAGGCGTACGTACGTACGTACGTACGG"

func TestCompute_Identity(t *testing.T) {
	base := DefaultBaseline()
	got := Compute(baselineSeq, baselineSeq, 3, base)

	assert.Equal(t, Summary{
		SiteCount:      23,
		CandidateCount: 3,
		HighScoreCount: 1,
		AvgOnTarget:    0.78,
		AvgOffTarget:   0.12,
	}, got)
	assert.False(t, got.Changed)
	assert.Empty(t, got.Impact())
}

func TestCompute_Heuristic(t *testing.T) {
	base := DefaultBaseline()

	tests := []struct {
		name           string
		delta          int
		wantSites      int
		wantCandidates int
		wantHigh       int
		wantOn         float64
		wantOff        float64
	}{
		{name: "grow by 1", delta: 1, wantSites: 23, wantCandidates: 3, wantHigh: 1, wantOn: 0.781, wantOff: 0.1195},
		{name: "shrink by 1 floors toward minus infinity", delta: -1, wantSites: 22, wantCandidates: 2, wantHigh: 1, wantOn: 0.779, wantOff: 0.1205},
		{name: "grow by 100", delta: 100, wantSites: 24, wantCandidates: 3, wantHigh: 1, wantOn: 0.88, wantOff: 0.07},
		{name: "grow by 250", delta: 250, wantSites: 25, wantCandidates: 4, wantHigh: 2, wantOn: 1, wantOff: 0},
		{name: "shrink to empty", delta: -73, wantSites: 22, wantCandidates: 2, wantHigh: 1, wantOn: 0.707, wantOff: 0.1565},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			current := resize(baselineSeq, tt.delta)
			got := Compute(current, baselineSeq, 3, base)

			assert.True(t, got.Changed)
			assert.Equal(t, tt.delta, got.LengthDelta)
			assert.Equal(t, tt.wantSites, got.SiteCount, "sites")
			assert.Equal(t, tt.wantCandidates, got.CandidateCount, "candidates")
			assert.Equal(t, tt.wantHigh, got.HighScoreCount, "high score")
			assert.InDelta(t, tt.wantOn, got.AvgOnTarget, 1e-9, "on target")
			assert.InDelta(t, tt.wantOff, got.AvgOffTarget, 1e-9, "off target")
		})
	}
}

func TestCompute_ClampsAtZero(t *testing.T) {
	base := Baseline{SiteCount: 1, HighScoreCount: 0, AvgOnTarget: 0.05, AvgOffTarget: 0.99}
	long := strings.Repeat("A", 1000)
	got := Compute("", long, 1, base)

	assert.Equal(t, 0, got.SiteCount)
	assert.Equal(t, 0, got.CandidateCount)
	assert.Equal(t, 0, got.HighScoreCount)
	assert.Equal(t, 0.0, got.AvgOnTarget)
	assert.Equal(t, 1.0, got.AvgOffTarget)
}

func TestCompute_Monotonic(t *testing.T) {
	base := DefaultBaseline()
	prev := Compute(resize(baselineSeq, -70), baselineSeq, 3, base)
	for delta := -69; delta <= 600; delta++ {
		cur := Compute(resize(baselineSeq, delta), baselineSeq, 3, base)
		assert.GreaterOrEqual(t, cur.SiteCount, prev.SiteCount, "delta %d", delta)
		assert.GreaterOrEqual(t, cur.CandidateCount, prev.CandidateCount, "delta %d", delta)
		assert.GreaterOrEqual(t, cur.AvgOnTarget, prev.AvgOnTarget, "delta %d", delta)
		assert.LessOrEqual(t, cur.AvgOffTarget, prev.AvgOffTarget, "delta %d", delta)
		prev = cur
	}
}

func TestSummary_Impact(t *testing.T) {
	base := DefaultBaseline()
	assert.Equal(t, "Added bases may create new gRNA sites", Compute(baselineSeq+"A", baselineSeq, 3, base).Impact())
	assert.Equal(t, "Removed bases may eliminate gRNA sites", Compute(baselineSeq[1:], baselineSeq, 3, base).Impact())
	assert.Equal(t, "Modified bases may affect gRNA efficiency", Compute("T"+baselineSeq[1:], baselineSeq, 3, base).Impact())
}

func TestSummary_Trends(t *testing.T) {
	base := DefaultBaseline()
	got := Compute(resize(baselineSeq, 300), baselineSeq, 3, base).Trends(base, 3)

	assert.Equal(t, Up, got.SiteCount)
	assert.Equal(t, Up, got.CandidateCount)
	assert.Equal(t, Up, got.HighScoreCount)
	assert.Equal(t, Up, got.AvgOnTarget)
	assert.Equal(t, Down, got.AvgOffTarget)
	assert.Equal(t, "↓", got.AvgOffTarget.Arrow())
	assert.Equal(t, "flat", Compare(1, 1).String())
}

func TestFloorDiv(t *testing.T) {
	assert.Equal(t, 0, floorDiv(99, 100))
	assert.Equal(t, 1, floorDiv(100, 100))
	assert.Equal(t, -1, floorDiv(-1, 100))
	assert.Equal(t, -1, floorDiv(-100, 100))
	assert.Equal(t, -2, floorDiv(-101, 100))
}

// resize grows or shrinks s by delta symbols.
func resize(s string, delta int) string {
	if delta >= 0 {
		return s + strings.Repeat("G", delta)
	}
	return s[:len(s)+delta]
}
