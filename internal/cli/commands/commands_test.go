package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/cli/config"
	"github.com/leapstack-labs/helixlab/internal/cli/output"
	"github.com/leapstack-labs/helixlab/internal/cli/testutil"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// loadConfig writes a helixlab.yaml next to the given fixture and loads it.
func loadConfig(t *testing.T, fixture, outputMode string) {
	t.Helper()
	t.Cleanup(config.ResetConfig)

	dir := t.TempDir()
	body := "output: " + outputMode + "\n"
	if fixture != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, "analysis.yaml"), []byte(fixture), 0o644))
		body += "analysis: analysis.yaml\n"
	}
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))

	_, err := config.LoadConfig(cfgPath, nil)
	require.NoError(t, err)
}

func execute(t *testing.T, cmd *cobra.Command, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func TestMetricsCommand_Baseline(t *testing.T) {
	loadConfig(t, "", "json")

	out, _, err := execute(t, NewMetricsCommand())
	require.NoError(t, err)

	var got output.MetricsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))

	base := metrics.DefaultBaseline()
	assert.Equal(t, "BRCA1", got.Gene)
	assert.False(t, got.Changed)
	assert.Equal(t, len(analysis.MockSequence), got.Length)
	assert.Equal(t, base.SiteCount, got.SiteCount)
	assert.Equal(t, base.HighScoreCount, got.HighScoreCount)
	assert.Equal(t, 0, got.LengthDelta)
	assert.Empty(t, got.Impact)
}

func TestMetricsCommand_Sequence(t *testing.T) {
	loadConfig(t, "", "json")

	out, errOut, err := execute(t, NewMetricsCommand(), "--sequence", "ATGCxx")
	require.NoError(t, err)
	assert.Contains(t, errOut, "dropped 2 invalid characters")

	var got output.MetricsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.True(t, got.Changed)
	assert.Equal(t, 4, got.Length)
	assert.Equal(t, 4-len(analysis.MockSequence), got.LengthDelta)
}

func TestMetricsCommand_Markdown(t *testing.T) {
	loadConfig(t, testutil.SampleFixture, "markdown")

	out, _, err := execute(t, NewMetricsCommand())
	require.NoError(t, err)

	assert.Contains(t, out, "# Metrics: TP53")
	assert.Contains(t, out, "- **PAM Sites:**")
	assert.Contains(t, out, "- **Avg Off-Target Risk:**")
	testutil.AssertNoANSI(t, out)
	testutil.AssertValidMarkdown(t, out)
}

func TestGeometryCommand(t *testing.T) {
	tests := []struct {
		name       string
		args       []string
		wantPoints bool
	}{
		{name: "summary", args: nil},
		{name: "points", args: []string{"--points"}, wantPoints: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadConfig(t, "", "json")

			out, _, err := execute(t, NewGeometryCommand(), tt.args...)
			require.NoError(t, err)

			var got output.GeometryOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))

			n := got.Resolution
			assert.Equal(t, (n+1)/2, got.Connectors)
			assert.Equal(t, (n+1)/2, got.BaseMarkers)
			assert.Equal(t, 3, got.AnnotationMarkers)
			if !tt.wantPoints {
				assert.Empty(t, got.Points)
				return
			}
			require.Len(t, got.Points, n)
			assert.NotEmpty(t, got.Points[0].Base, "even samples carry a base pair")
			assert.Empty(t, got.Points[1].Base)
		})
	}
}

func TestGeometryCommand_PointsTable(t *testing.T) {
	loadConfig(t, "", "markdown")

	out, _, err := execute(t, NewGeometryCommand(), "--points")
	require.NoError(t, err)
	assert.Contains(t, out, "# Helix Geometry")
	assert.Contains(t, out, "## Samples")
	assert.Contains(t, out, "| Strand 0 |")
}

func TestAnnotationsCommand_Sort(t *testing.T) {
	tests := []struct {
		name string
		sort string
		want []int
	}{
		{name: "position", sort: "position", want: []int{2, 1}},
		{name: "score", sort: "score", want: []int{1, 2}},
		{name: "risk", sort: "risk", want: []int{1, 2}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			loadConfig(t, testutil.SampleFixture, "json")

			out, _, err := execute(t, NewAnnotationsCommand(), "--sort", tt.sort)
			require.NoError(t, err)

			var got output.AnnotationsOutput
			require.NoError(t, json.Unmarshal([]byte(out), &got))
			assert.Equal(t, "TP53", got.Gene)
			require.Len(t, got.Annotations, len(tt.want))
			for i, ordinal := range tt.want {
				assert.Equal(t, ordinal, got.Annotations[i].Ordinal)
			}
		})
	}
}

func TestAnnotationsCommand_MockOrdering(t *testing.T) {
	loadConfig(t, "", "json")

	out, _, err := execute(t, NewAnnotationsCommand(), "--sort", "risk")
	require.NoError(t, err)

	var got output.AnnotationsOutput
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	require.Len(t, got.Annotations, 3)
	assert.Equal(t, "gRNA 2", got.Annotations[0].Label)
	assert.Equal(t, "gRNA 3", got.Annotations[2].Label)
	assert.True(t, got.Annotations[2].Clamped, "position 3450 lies past the reference length")
	assert.Equal(t, "good", got.Annotations[0].RiskGrade)
}

func TestAnnotationsCommand_Markdown(t *testing.T) {
	loadConfig(t, "", "markdown")

	out, _, err := execute(t, NewAnnotationsCommand())
	require.NoError(t, err)
	assert.Contains(t, out, "# gRNA Annotations: BRCA1 (3)")
	assert.Contains(t, out, "(clamped)")
	assert.Contains(t, out, "| gRNA 1 |")
	testutil.AssertNoANSI(t, out)
}

func TestAnnotationsCommand_UnknownSort(t *testing.T) {
	loadConfig(t, "", "json")

	_, _, err := execute(t, NewAnnotationsCommand(), "--sort", "gc")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown sort key "gc"`)
}

func TestCommand_MissingFixture(t *testing.T) {
	t.Cleanup(config.ResetConfig)
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, config.ConfigFileName)
	require.NoError(t, os.WriteFile(cfgPath, []byte("analysis: missing.yaml\n"), 0o644))
	_, err := config.LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	_, _, err = execute(t, NewMetricsCommand())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load analysis")
}

func newTestEditor(t *testing.T) (*editor, *testutil.TestRenderer) {
	t.Helper()
	res, err := analysis.Mock().Load(context.Background())
	require.NoError(t, err)
	res.Sequence = "ATGC"

	sess, err := session.New(session.DefaultConfig(), res)
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	return newEditor(sess, tr.Renderer, 0), tr
}

func TestEditor_ExecLine(t *testing.T) {
	tests := []struct {
		name      string
		lines     []string
		wantSeq   string
		wantOut   string
		wantErr   string
		wantQuit  bool
		wantEdits int
	}{
		{name: "blank", lines: []string{"   "}, wantSeq: "ATGC"},
		{name: "edit", lines: []string{"edit 1 g"}, wantSeq: "AGGC", wantOut: "position 1 set to G", wantEdits: 1},
		{name: "edit invalid symbol", lines: []string{"edit 1 X"}, wantSeq: "ATGC", wantErr: "edit:"},
		{name: "edit out of range", lines: []string{"edit 9 A"}, wantSeq: "ATGC", wantErr: "✗"},
		{name: "edit usage", lines: []string{"edit 1"}, wantSeq: "ATGC", wantErr: "usage: edit <index> <base>"},
		{name: "delete", lines: []string{"del 0"}, wantSeq: "TGC", wantOut: "deleted position 0"},
		{name: "delete alias", lines: []string{"delete 3"}, wantSeq: "ATG"},
		{name: "insert", lines: []string{"ins 2 gg"}, wantSeq: "ATGGGC", wantOut: "inserted 2 bases at 2", wantEdits: 2},
		{name: "insert clamped", lines: []string{"insert 99 T"}, wantSeq: "ATGCT", wantErr: "position 99 clamped to 4", wantEdits: 1},
		{name: "insert all invalid", lines: []string{"ins 1 xyz"}, wantSeq: "ATGC", wantErr: "ins:"},
		{name: "undo", lines: []string{"edit 0 C", "undo"}, wantSeq: "ATGC", wantOut: "undone"},
		{name: "undo empty", lines: []string{"undo"}, wantSeq: "ATGC", wantErr: "nothing to undo"},
		{name: "set", lines: []string{"set gat taca"}, wantSeq: "GATTACA", wantOut: "sequence set (7 bases)"},
		{name: "set all invalid", lines: []string{"set xyz"}, wantSeq: "", wantErr: "the sequence is now empty"},
		{name: "show", lines: []string{"edit 2 A", "show"}, wantSeq: "ATAC", wantOut: "Edits: 1", wantEdits: 1},
		{name: "metrics", lines: []string{"metrics"}, wantSeq: "ATGC", wantOut: "# Metrics: BRCA1"},
		{name: "history", lines: []string{"edit 0 G", "history"}, wantSeq: "GTGC", wantOut: "1 of 256", wantEdits: 1},
		{name: "help", lines: []string{".help"}, wantSeq: "ATGC", wantOut: "Commands:"},
		{name: "bad index", lines: []string{"del one"}, wantSeq: "ATGC", wantErr: `invalid position "one"`},
		{name: "unknown", lines: []string{"frobnicate"}, wantSeq: "ATGC", wantErr: "unknown command: frobnicate"},
		{name: "quit", lines: []string{".quit"}, wantSeq: "ATGC", wantQuit: true},
		{name: "exit", lines: []string{".EXIT"}, wantSeq: "ATGC", wantQuit: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, tr := newTestEditor(t)

			var quit bool
			for _, line := range tt.lines {
				quit = e.execLine(line)
			}

			assert.Equal(t, tt.wantQuit, quit)
			assert.Equal(t, tt.wantSeq, e.sess.Sequence())
			assert.Equal(t, tt.wantEdits, e.sess.View().EditCount)
			if tt.wantOut != "" {
				assert.Contains(t, tr.Output(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, tr.ErrorOutput(), tt.wantErr)
			} else {
				assert.Empty(t, tr.ErrorOutput())
			}
		})
	}
}

func TestEditor_SetWithNoValidBases(t *testing.T) {
	e, tr := newTestEditor(t)

	assert.False(t, e.execLine("set 1234"))
	assert.Empty(t, e.sess.Sequence())
	assert.NotContains(t, tr.Output(), "sequence set")
	assert.Contains(t, tr.ErrorOutput(), "dropped 4")
	assert.Contains(t, tr.ErrorOutput(), "the sequence is now empty")
}

func TestEditCommands_AllDispatch(t *testing.T) {
	for _, c := range EditCommands {
		for _, name := range append([]string{c.Name}, c.Aliases...) {
			t.Run(name, func(t *testing.T) {
				e, tr := newTestEditor(t)
				e.execLine(name)
				assert.NotContains(t, tr.ErrorOutput(), "unknown command")
			})
		}
	}
}

func TestPrintEditHelp(t *testing.T) {
	var b strings.Builder
	printEditHelp(&b)
	for _, c := range EditCommands {
		assert.Contains(t, b.String(), c.Usage())
	}
	assert.Contains(t, b.String(), "del <i> / delete")
}

func TestEditor_Clear(t *testing.T) {
	e, _ := newTestEditor(t)
	cleared := 0
	e.clear = func() { cleared++ }

	assert.False(t, e.execLine(".clear"))
	assert.Equal(t, 1, cleared)
}

func TestParseIndex(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{in: "0", want: 0},
		{in: "42", want: 42},
		{in: "-3", want: -3},
		{in: "1.5", wantErr: true},
		{in: "x", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseIndex(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), "must be an integer")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSortMarkers_Unknown(t *testing.T) {
	assert.NoError(t, sortMarkers(nil, ""))
	assert.Error(t, sortMarkers(nil, "length"))
}
