package commands

import (
	"fmt"
	"math"

	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/pkg/core"
	"github.com/leapstack-labs/helixlab/pkg/helix"
	"github.com/spf13/cobra"
)

// GeometryOptions holds options for the geometry command.
type GeometryOptions struct {
	Points bool
}

// NewGeometryCommand creates the geometry command.
func NewGeometryCommand() *cobra.Command {
	opts := &GeometryOptions{}

	cmd := &cobra.Command{
		Use:   "geometry",
		Short: "Show the generated helix layout",
		Long: `Generate the double-helix layout for the loaded analysis and print a
summary of its primitives. With --points every backbone sample pair is listed
together with the base marker drawn at that sample.`,
		Example: `  # Layout summary
  helixlab geometry

  # Every sample of a coarse helix
  helixlab geometry --resolution 20 --points`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runGeometry(cmd, opts)
		},
	}

	cmd.Flags().BoolVar(&opts.Points, "points", false, "List every backbone sample")
	return cmd
}

func runGeometry(cmd *cobra.Command, opts *GeometryOptions) error {
	cmdCtx := NewCommandContext(cmd)
	res, err := cmdCtx.LoadAnalysis(cmd.Context())
	if err != nil {
		return err
	}

	seq, _ := core.Normalize(res.Sequence)
	g, err := helix.Build(cmdCtx.Cfg.HelixParams(), seq, res.ReferenceLength, res.Annotations)
	if err != nil {
		return fmt.Errorf("failed to build geometry: %w", err)
	}

	r := cmdCtx.Renderer
	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(geometryJSON(g, opts.Points))
	default:
		geometryText(r, g, opts.Points)
		return nil
	}
}

func geometryJSON(g *helix.Geometry, points bool) output.GeometryOutput {
	p := g.Params
	out := output.GeometryOutput{
		Resolution:        p.Resolution,
		Turns:             p.Turns,
		Pitch:             p.Pitch,
		Radius:            p.Radius,
		Span:              p.Span(),
		Connectors:        len(g.Connectors),
		BaseMarkers:       len(g.BaseMarkers),
		AnnotationMarkers: len(g.AnnotationMarkers),
	}
	if points {
		out.Points = pointRows(g)
	}
	return out
}

func pointRows(g *helix.Geometry) []output.PointOutput {
	bases := make(map[int]core.Symbol, len(g.BaseMarkers))
	for _, bm := range g.BaseMarkers {
		bases[bm.Index] = bm.Symbol
	}

	rows := make([]output.PointOutput, len(g.Strand0))
	for i := range g.Strand0 {
		a, b := g.Strand0[i].Pos, g.Strand1[i].Pos
		row := output.PointOutput{
			Index:   i,
			Strand0: [3]float64{a.X, a.Y, a.Z},
			Strand1: [3]float64{b.X, b.Y, b.Z},
		}
		if sym, ok := bases[i]; ok {
			row.Base = sym.String() + "-" + sym.Complement().String()
		}
		rows[i] = row
	}
	return rows
}

func geometryText(r *output.Renderer, g *helix.Geometry, points bool) {
	p := g.Params
	r.Header(1, "Helix Geometry")
	r.KeyValue("Resolution", fmt.Sprintf("%d samples per strand", p.Resolution))
	r.KeyValue("Turns", fmt.Sprintf("%g half-turns (%g rad)", p.Turns, p.Turns*math.Pi))
	r.KeyValue("Radius", fmt.Sprintf("%g", p.Radius))
	r.KeyValue("Span", fmt.Sprintf("%.2f (pitch %g)", p.Span(), p.Pitch))
	r.KeyValue("Connectors", fmt.Sprintf("%d", len(g.Connectors)))
	r.KeyValue("Base Markers", fmt.Sprintf("%d pairs", len(g.BaseMarkers)))
	r.KeyValue("Annotation Markers", fmt.Sprintf("%d", len(g.AnnotationMarkers)))

	if !points {
		return
	}
	r.Println("")
	r.Header(2, "Samples")

	rows := make([][]string, 0, len(g.Strand0))
	for _, pt := range pointRows(g) {
		rows = append(rows, []string{
			fmt.Sprintf("%d", pt.Index),
			formatVec(pt.Strand0),
			formatVec(pt.Strand1),
			pt.Base,
		})
	}
	r.Table([]string{"#", "Strand 0", "Strand 1", "Base Pair"}, rows)
}

func formatVec(v [3]float64) string {
	return fmt.Sprintf("(%.3f, %.3f, %.3f)", v[0], v[1], v[2])
}
