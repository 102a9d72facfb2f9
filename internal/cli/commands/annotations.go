package commands

import (
	"fmt"
	"sort"

	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/pkg/helix"
	"github.com/spf13/cobra"
)

// AnnotationsOptions holds options for the annotations command.
type AnnotationsOptions struct {
	Sort string
}

// Sort keys accepted by --sort.
const (
	sortByPosition = "position"
	sortByScore    = "score"
	sortByRisk     = "risk"
)

// NewAnnotationsCommand creates the annotations command.
func NewAnnotationsCommand() *cobra.Command {
	opts := &AnnotationsOptions{}

	cmd := &cobra.Command{
		Use:     "annotations",
		Aliases: []string{"grna"},
		Short:   "List gRNA annotations and where they land on the helix",
		Long: `List the analysis' gRNA annotations with their scores and the helix
sample each one is projected onto. Positions outside the reference length
are clamped to the nearest end and flagged.`,
		Example: `  # In input order
  helixlab annotations

  # Best on-target score first
  helixlab annotations --sort score`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAnnotations(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Sort, "sort", sortByPosition, "Sort order: position, score or risk")
	_ = cmd.RegisterFlagCompletionFunc("sort", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{sortByPosition, sortByScore, sortByRisk}, cobra.ShellCompDirectiveNoFileComp
	})
	return cmd
}

func runAnnotations(cmd *cobra.Command, opts *AnnotationsOptions) error {
	cmdCtx := NewCommandContext(cmd)
	res, err := cmdCtx.LoadAnalysis(cmd.Context())
	if err != nil {
		return err
	}

	markers, err := helix.Project(cmdCtx.Cfg.HelixParams(), res.ReferenceLength, res.Annotations)
	if err != nil {
		return fmt.Errorf("failed to project annotations: %w", err)
	}
	if err := sortMarkers(markers, opts.Sort); err != nil {
		return err
	}

	rows := make([]output.AnnotationOutput, 0, len(markers))
	for _, m := range markers {
		a := m.Annotation
		rows = append(rows, output.AnnotationOutput{
			Ordinal:       m.Ordinal,
			ID:            a.ID,
			Label:         a.Label,
			Position:      a.Position,
			Sample:        m.Sample,
			Index:         m.Index,
			Clamped:       m.Clamped,
			OnTargetScore: a.OnTargetScore,
			ScoreGrade:    a.ScoreGrade().String(),
			OffTargetRisk: a.OffTargetRisk,
			RiskGrade:     a.RiskGrade().String(),
			Spacer:        a.Spacer,
			PAM:           a.PAM,
			GCContent:     a.GCContent,
		})
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.AnnotationsOutput{
			Gene:            res.Gene,
			ReferenceLength: res.ReferenceLength,
			Annotations:     rows,
		})
	}

	styles := r.Styles()
	text := r.EffectiveMode() == output.ModeText
	r.Header(1, fmt.Sprintf("gRNA Annotations: %s (%d)", res.Gene, len(rows)))

	table := make([][]string, 0, len(rows))
	for i, a := range rows {
		m := markers[i]
		score := fmt.Sprintf("%.0f%%", a.OnTargetScore*100)
		risk := fmt.Sprintf("%.0f%%", a.OffTargetRisk*100)
		if text {
			score = styles.Grade(m.Annotation.ScoreGrade(), score)
			risk = styles.Grade(m.Annotation.RiskGrade(), risk)
		}
		sample := fmt.Sprintf("%d", a.Index)
		if a.Clamped {
			sample += " (clamped)"
		}
		table = append(table, []string{
			a.Label,
			fmt.Sprintf("%g", a.Position),
			sample,
			score,
			risk,
			a.PAM,
			fmt.Sprintf("%g%%", a.GCContent),
			a.Spacer,
		})
	}
	r.Table([]string{"gRNA", "Position", "Sample", "On-Target", "Off-Target", "PAM", "GC", "Spacer"}, table)
	r.Muted(fmt.Sprintf("Reference length %g; positions map onto %d helix samples", res.ReferenceLength, cmdCtx.Cfg.Helix.Resolution))
	return nil
}

func sortMarkers(markers []helix.AnnotationMarker, key string) error {
	switch key {
	case "", sortByPosition:
		sort.SliceStable(markers, func(i, j int) bool {
			return markers[i].Annotation.Position < markers[j].Annotation.Position
		})
	case sortByScore:
		sort.SliceStable(markers, func(i, j int) bool {
			return markers[i].Annotation.OnTargetScore > markers[j].Annotation.OnTargetScore
		})
	case sortByRisk:
		sort.SliceStable(markers, func(i, j int) bool {
			return markers[i].Annotation.OffTargetRisk < markers[j].Annotation.OffTargetRisk
		})
	default:
		return fmt.Errorf("unknown sort key %q (want %s, %s or %s)", key, sortByPosition, sortByScore, sortByRisk)
	}
	return nil
}
