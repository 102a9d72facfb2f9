package commands

import (
	"fmt"

	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/pkg/core"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/spf13/cobra"
)

// MetricsOptions holds options for the metrics command.
type MetricsOptions struct {
	Sequence string
}

// NewMetricsCommand creates the metrics command.
func NewMetricsCommand() *cobra.Command {
	opts := &MetricsOptions{}

	cmd := &cobra.Command{
		Use:   "metrics",
		Short: "Show derived gRNA metrics for a sequence",
		Long: `Compute the derived metrics (PAM sites, gRNA candidates, high-score
count, average on-target score and off-target risk) for a sequence, relative
to the loaded analysis.

Without --sequence the analysis' own sequence is used, which reproduces the
baseline values exactly.`,
		Example: `  # Baseline metrics for the loaded analysis
  helixlab metrics

  # Metrics after an edit, as JSON
  helixlab metrics --sequence ATGCGATCGGG -o json`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runMetrics(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sequence, "sequence", "", "Sequence to evaluate (default: the analysis sequence)")
	return cmd
}

func runMetrics(cmd *cobra.Command, opts *MetricsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	res, err := cmdCtx.LoadAnalysis(cmd.Context())
	if err != nil {
		return err
	}

	current := res.Sequence
	if cmd.Flags().Changed("sequence") {
		symbols, dropped := core.Normalize(opts.Sequence)
		if len(dropped) > 0 {
			cmdCtx.Renderer.Warning(fmt.Sprintf("dropped %d invalid characters from --sequence", len(dropped)))
		}
		current = core.FormatSymbols(symbols)
	}

	base := cmdCtx.Cfg.Baseline()
	count := len(res.Annotations)
	sum := metrics.Compute(current, res.Sequence, count, base)
	trends := sum.Trends(base, count)

	report := metricsReport{
		Gene:     res.Gene,
		Length:   len(current),
		Baseline: len(res.Sequence),
		Summary:  sum,
		Trends:   trends,
	}
	return report.render(cmdCtx.Renderer)
}

// metricsReport is shared by the metrics command and the edit REPL.
type metricsReport struct {
	Gene     string
	Length   int
	Baseline int
	Summary  metrics.Summary
	Trends   metrics.Trends
}

func (m metricsReport) render(r *output.Renderer) error {
	sum, tr := m.Summary, m.Trends

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.MetricsOutput{
			Gene:           m.Gene,
			Length:         m.Length,
			BaselineLength: m.Baseline,
			Changed:        sum.Changed,
			SiteCount:      sum.SiteCount,
			CandidateCount: sum.CandidateCount,
			HighScoreCount: sum.HighScoreCount,
			AvgOnTarget:    sum.AvgOnTarget,
			AvgOffTarget:   sum.AvgOffTarget,
			LengthDelta:    sum.LengthDelta,
			Impact:         sum.Impact(),
			Trends: output.Trends{
				SiteCount:      tr.SiteCount.String(),
				CandidateCount: tr.CandidateCount.String(),
				HighScoreCount: tr.HighScoreCount.String(),
				AvgOnTarget:    tr.AvgOnTarget.String(),
				AvgOffTarget:   tr.AvgOffTarget.String(),
			},
		})
	}

	title := "Metrics"
	if m.Gene != "" {
		title = fmt.Sprintf("Metrics: %s", m.Gene)
	}
	r.Header(1, title)
	r.KeyValue("Length", fmt.Sprintf("%d (baseline %d, %+d)", m.Length, m.Baseline, sum.LengthDelta))
	r.KeyValue("PAM Sites", withTrend(fmt.Sprintf("%d", sum.SiteCount), tr.SiteCount))
	r.KeyValue("gRNA Candidates", withTrend(fmt.Sprintf("%d", sum.CandidateCount), tr.CandidateCount))
	r.KeyValue("High-Score gRNAs", withTrend(fmt.Sprintf("%d", sum.HighScoreCount), tr.HighScoreCount))
	r.KeyValue("Avg On-Target", withTrend(fmt.Sprintf("%.1f%%", sum.AvgOnTarget*100), tr.AvgOnTarget))
	r.KeyValue("Avg Off-Target Risk", withTrend(fmt.Sprintf("%.1f%%", sum.AvgOffTarget*100), tr.AvgOffTarget))

	if impact := sum.Impact(); impact != "" {
		r.Println("")
		r.Println(impact)
	}
	return nil
}

func withTrend(value string, t metrics.Trend) string {
	if arrow := t.Arrow(); arrow != "" {
		return value + " " + arrow
	}
	return value
}
