package pages

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/leapstack-labs/helixlab/pkg/scene"
)

// Scene viewport in SVG units.
const (
	SceneWidth  = 800
	SceneHeight = 600
)

// refDepth is the view depth at which primitives are drawn at their base size.
const refDepth = 23.0

func pageTitle(gene string) string {
	if gene == "" {
		return "helixlab"
	}
	return gene + " - helixlab"
}

func viewBox() string {
	return fmt.Sprintf("0 0 %d %d", SceneWidth, SceneHeight)
}

// visible projects f onto the viewport and drops hidden primitives.
func visible(f scene.Frame) []scene.ScreenPrimitive {
	projected := f.Project(SceneWidth, SceneHeight)
	out := projected[:0]
	for _, p := range projected {
		if p.Visible && len(p.Screen) > 0 {
			out = append(out, p)
		}
	}
	return out
}

func coord(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

func points(ps []scene.ScreenPoint) string {
	parts := make([]string, len(ps))
	for i, p := range ps {
		parts[i] = coord(p.X) + "," + coord(p.Y)
	}
	return strings.Join(parts, " ")
}

// sized scales a base size by perspective.
func sized(base, depth float64) string {
	if depth <= 0 {
		return coord(base)
	}
	return coord(math.Max(base*0.25, math.Min(base*4, base*refDepth/depth)))
}

func summaryLine(v session.View) string {
	return fmt.Sprintf("%d bases · Edits: %d · Undo steps: %d", len(v.Sequence), v.EditCount, v.HistoryLen)
}

func isEdited(v session.View, i int) bool {
	return i < len(v.Edited) && v.Edited[i]
}

type metricRow struct {
	Name  string
	Value string
	Trend metrics.Trend
}

func metricRows(sum metrics.Summary, tr metrics.Trends) []metricRow {
	return []metricRow{
		{Name: "PAM Sites", Value: strconv.Itoa(sum.SiteCount), Trend: tr.SiteCount},
		{Name: "gRNA Candidates", Value: strconv.Itoa(sum.CandidateCount), Trend: tr.CandidateCount},
		{Name: "High-Score gRNAs", Value: strconv.Itoa(sum.HighScoreCount), Trend: tr.HighScoreCount},
		{Name: "Avg On-Target", Value: fmt.Sprintf("%.1f%%", sum.AvgOnTarget*100), Trend: tr.AvgOnTarget},
		{Name: "Avg Off-Target Risk", Value: fmt.Sprintf("%.1f%%", sum.AvgOffTarget*100), Trend: tr.AvgOffTarget},
	}
}

func percent(v float64) string {
	return fmt.Sprintf("%.0f%%", v*100)
}

func position(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func cameraLine(cam scene.Camera) string {
	return fmt.Sprintf("azimuth %.0f° · elevation %.0f° · distance %.1f",
		cam.Azimuth*180/math.Pi, cam.Elevation*180/math.Pi, cam.Distance)
}
