package tui

import (
	"context"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/testutil"
	"github.com/leapstack-labs/helixlab/pkg/scene"
)

func newTestSession(t *testing.T) *session.Session {
	t.Helper()
	res, err := analysis.Mock().Load(context.Background())
	require.NoError(t, err)

	cfg := session.DefaultConfig()
	cfg.Logger = testutil.NewTestLogger(t)
	sess, err := session.New(cfg, res)
	require.NoError(t, err)
	return sess
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	require.True(t, ok)
	return nm, cmd
}

func TestCanvas_SetAndBounds(t *testing.T) {
	c := NewCanvas(4, 2)
	c.Set(1, 1, 'x', "")
	c.Set(-1, 0, 'y', "")
	c.Set(4, 0, 'y', "")
	c.Set(0, 2, 'y', "")

	assert.Equal(t, "    \n x  ", c.Plain())
	assert.Equal(t, 'x', c.At(1, 1))
	assert.Equal(t, ' ', c.At(9, 9))

	w, h := NewCanvas(-3, -1).Size()
	assert.Zero(t, w)
	assert.Zero(t, h)
}

func TestCanvas_Line(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           string
	}{
		{name: "horizontal", x0: 0, y0: 0, x1: 3, y1: 0, want: "----\n    \n    "},
		{name: "vertical", x0: 1, y0: 0, x1: 1, y1: 2, want: " |  \n |  \n |  "},
		{name: "falling diagonal", x0: 0, y0: 0, x1: 2, y1: 2, want: "\\   \n \\  \n  \\ "},
		{name: "rising diagonal", x0: 0, y0: 2, x1: 2, y1: 0, want: "  / \n /  \n/   "},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCanvas(4, 3)
			c.Line(tt.x0, tt.y0, tt.x1, tt.y1, 0, "")
			assert.Equal(t, tt.want, c.Plain())
		})
	}
}

func TestCanvas_TextClipsAtEdge(t *testing.T) {
	c := NewCanvas(5, 1)
	c.Text(2, 0, "gRNA 1", "")
	assert.Equal(t, "  gRN", c.Plain())
}

func TestCanvas_DrawFrame(t *testing.T) {
	sess := newTestSession(t)
	f, err := sess.Frame(0)
	require.NoError(t, err)

	c := NewCanvas(80, 30)
	c.Draw(c.Project(f))
	plain := c.Plain()

	assert.NotEqual(t, strings.TrimSpace(plain), "", "helix should be visible from the default camera")
	assert.True(t, strings.ContainsAny(plain, "ATGC"), "base markers should be drawn")
	assert.True(t, strings.ContainsAny(plain, "•·"), "backbone should be drawn")
}

func TestCanvas_SkipsInvisible(t *testing.T) {
	c := NewCanvas(10, 5)
	c.Draw([]scene.ScreenPrimitive{{
		Primitive: scene.Primitive{Kind: scene.KindBead},
		Screen:    []scene.ScreenPoint{{X: 5, Y: 5}},
		Visible:   false,
	}})
	assert.Equal(t, "", strings.TrimSpace(c.Plain()))
}

func TestModel_FrameTicksAdvanceRotation(t *testing.T) {
	sess := newTestSession(t)
	m := New(sess, 0)
	assert.Equal(t, DefaultFrameInterval, m.interval)
	require.NotNil(t, m.Init())

	start := time.Unix(1000, 0)
	m, cmd := update(t, m, frameMsg{at: start})
	assert.NotNil(t, cmd, "frame loop must keep ticking")
	assert.InDelta(t, 0, m.frame.Transform.Angle, 1e-9, "first tick has no elapsed time")

	m, _ = update(t, m, frameMsg{at: start.Add(time.Second)})
	assert.InDelta(t, scene.DefaultOmega, m.frame.Transform.Angle, 1e-9)
	assert.NotEmpty(t, m.frame.Primitives)
}

func TestModel_PauseAndSpeed(t *testing.T) {
	sess := newTestSession(t)
	m := New(sess, 0)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.True(t, m.paused)
	assert.Zero(t, sess.Speed())

	m, _ = update(t, m, runes("]"))
	assert.Zero(t, sess.Speed(), "speed changes apply on resume")

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace})
	assert.False(t, m.paused)
	assert.InDelta(t, scene.DefaultOmega*speedStep, sess.Speed(), 1e-9)
}

func TestModel_CameraKeys(t *testing.T) {
	sess := newTestSession(t)
	m := New(sess, 0)
	before := sess.Camera()

	m, _ = update(t, m, runes("+"))
	assert.Less(t, sess.Camera().Distance, before.Distance)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	assert.InDelta(t, math.Mod(before.Azimuth+orbitStep, 2*math.Pi), sess.Camera().Azimuth, 1e-9)

	m, _ = update(t, m, runes("r"))
	assert.InDelta(t, before.Distance, sess.Camera().Distance, 1e-9)
	assert.Equal(t, "view reset", m.status)
}

func TestModel_Undo(t *testing.T) {
	sess := newTestSession(t)
	original := sess.Sequence()
	_, err := sess.EditAt(0, "C")
	require.NoError(t, err)

	m := New(sess, 0)
	m, _ = update(t, m, runes("u"))
	assert.Equal(t, original, sess.Sequence())
	assert.Equal(t, "undone", m.status)

	m, _ = update(t, m, runes("u"))
	assert.Equal(t, "nothing to undo", m.status)
}

func TestModel_Quit(t *testing.T) {
	m := New(newTestSession(t), 0)
	_, cmd := update(t, m, runes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestModel_Reload(t *testing.T) {
	sess := newTestSession(t)
	m := New(sess, 0)

	res, err := analysis.Parse([]byte("gene: TP53\nsequence: ATGCCCGG\n"), "fixture.yaml")
	require.NoError(t, err)

	m, _ = update(t, m, reloadMsg{res: res})
	assert.Equal(t, "TP53", sess.Gene())
	assert.Equal(t, "ATGCCCGG", sess.Sequence())
	assert.Equal(t, "reloaded TP53", m.status)

	m, _ = update(t, m, reloadMsg{err: assert.AnError})
	require.Error(t, m.err)
	assert.Contains(t, m.View(), "reload failed")
}

func TestModel_View(t *testing.T) {
	sess := newTestSession(t)
	m := New(sess, 0)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = update(t, m, frameMsg{at: time.Unix(0, 0)})

	view := m.View()
	assert.Contains(t, view, "BRCA1")
	assert.Contains(t, view, "Edits: 0")
	assert.Contains(t, view, "PAM")
	assert.Contains(t, view, "quit")
}

func TestSequenceStrip_Truncates(t *testing.T) {
	sess := newTestSession(t)
	v := sess.View()
	strip := sequenceStrip(v, 10)
	assert.Contains(t, strip, "…")
	assert.NotContains(t, sequenceStrip(v, 0), "…")
}
