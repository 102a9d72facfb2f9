package output

import (
	"bytes"
	"testing"

	"github.com/leapstack-labs/helixlab/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRenderer(mode Mode, tty bool) (*Renderer, *bytes.Buffer, *bytes.Buffer) {
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	return NewRendererWithTTY(out, errOut, tty, mode), out, errOut
}

func TestEffectiveMode(t *testing.T) {
	tests := []struct {
		name string
		mode Mode
		tty  bool
		want Mode
	}{
		{"auto on tty", ModeAuto, true, ModeText},
		{"auto piped", ModeAuto, false, ModeMarkdown},
		{"empty is auto", "", false, ModeMarkdown},
		{"explicit json", ModeJSON, true, ModeJSON},
		{"explicit text piped", ModeText, false, ModeText},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, _, _ := newTestRenderer(tt.mode, tt.tty)
			assert.Equal(t, tt.want, r.EffectiveMode())
		})
	}
}

func TestModeValid(t *testing.T) {
	assert.True(t, ModeJSON.Valid())
	assert.True(t, Mode("").Valid())
	assert.False(t, Mode("yaml").Valid())
}

func TestNewRenderer_BufferIsNotTTY(t *testing.T) {
	r := NewRenderer(&bytes.Buffer{}, &bytes.Buffer{}, ModeAuto)
	assert.False(t, r.IsTTY())
	assert.Equal(t, ModeMarkdown, r.EffectiveMode())
}

func TestHeaderAndKeyValue_Markdown(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Header(2, "Metrics")
	r.KeyValue("Sites", "23")
	assert.Equal(t, "## Metrics\n- **Sites:** 23\n", out.String())
}

func TestTable(t *testing.T) {
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Table([]string{"ID", "Score"}, [][]string{{"g1", "0.85"}})
	assert.Contains(t, out.String(), "| ID | Score |")
	assert.Contains(t, out.String(), "| g1 | 0.85 |")

	r, out, _ = newTestRenderer(ModeText, false)
	r.Table([]string{"ID"}, [][]string{{"g1"}})
	assert.Contains(t, out.String(), "┌")

	r, out, _ = newTestRenderer(ModeText, false)
	r.Table([]string{"ID"}, nil)
	assert.Contains(t, out.String(), "(0 rows)")
}

func TestSequence(t *testing.T) {
	syms, _ := core.Normalize("ATGC")
	r, out, _ := newTestRenderer(ModeMarkdown, false)
	r.Sequence(syms, []bool{false, true, false, false})
	assert.Equal(t, "```\n     0  ATGC\n```\n", out.String())

	long := make([]core.Symbol, SequenceLineWidth+1)
	for i := range long {
		long[i] = core.Adenine
	}
	r, out, _ = newTestRenderer(ModeText, false)
	r.Sequence(long, nil)
	assert.Contains(t, out.String(), "    60  A")
}

func TestMessagesAndJSON(t *testing.T) {
	r, out, errOut := newTestRenderer(ModeJSON, false)
	r.Warning("careful")
	r.Error("broken")
	r.Success("done")
	require.NoError(t, r.JSON(map[string]int{"sites": 23}))

	assert.Contains(t, errOut.String(), "! careful")
	assert.Contains(t, errOut.String(), "✗ broken")
	assert.Contains(t, out.String(), "✓ done")
	assert.Contains(t, out.String(), `"sites": 23`)
}

func TestFormatHelpers(t *testing.T) {
	assert.Equal(t, "# T", FormatHeader(0, "T"))
	assert.Equal(t, "```go\nx\n```", FormatCodeBlock("go", "x\n"))
	assert.Equal(t, "On Target Score", Title("on_target_score"))
}
