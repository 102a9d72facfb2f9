// Package tui renders a live helix session in the terminal.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/helixlab/internal/analysis"
	"github.com/leapstack-labs/helixlab/internal/session"
	"github.com/leapstack-labs/helixlab/internal/theme"
	"github.com/leapstack-labs/helixlab/pkg/metrics"
	"github.com/leapstack-labs/helixlab/pkg/scene"
)

// DefaultFrameInterval is the refresh period when none is configured.
const DefaultFrameInterval = 50 * time.Millisecond

const (
	orbitStep  = 0.1
	panStep    = 0.5
	zoomStep   = 0.9
	speedStep  = 1.5
	chromeRows = 5
	minCanvasH = 4
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Cytosine))
	mutedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Thymine)).Bold(true)
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Adenine)).Bold(true)
	editedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Edited)).Underline(true)
)

type frameMsg struct {
	at time.Time
}

type reloadMsg struct {
	res *analysis.Result
	err error
}

// Model is the bubbletea model for the terminal viewer.
type Model struct {
	sess     *session.Session
	keys     keyMap
	help     help.Model
	interval time.Duration

	width, height int
	last          time.Time
	frame         scene.Frame
	paused        bool
	speed         float64

	status string
	err    error
}

// New creates a viewer model for sess.
func New(sess *session.Session, interval time.Duration) Model {
	if interval <= 0 {
		interval = DefaultFrameInterval
	}
	return Model{
		sess:     sess,
		keys:     defaultKeyMap(),
		help:     help.New(),
		interval: interval,
		width:    80,
		height:   24,
		speed:    sess.Speed(),
	}
}

// Init starts the frame loop.
func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.interval, func(at time.Time) tea.Msg {
		return frameMsg{at: at}
	})
}

// Update handles input, frame ticks and fixture reloads.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case frameMsg:
		var dt float64
		if !m.last.IsZero() {
			dt = msg.at.Sub(m.last).Seconds()
		}
		m.last = msg.at
		f, err := m.sess.Frame(dt)
		if err != nil {
			m.err = err
		} else {
			m.frame, m.err = f, nil
		}
		return m, m.tick()

	case reloadMsg:
		if msg.err != nil {
			m.err = fmt.Errorf("reload failed: %w", msg.err)
			return m, nil
		}
		if err := m.sess.ReloadAnalysis(msg.res); err != nil {
			m.err = err
			return m, nil
		}
		m.err = nil
		m.status = fmt.Sprintf("reloaded %s", msg.res.Gene)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.OrbitLeft):
		m.sess.Orbit(-orbitStep, 0)
	case key.Matches(msg, m.keys.OrbitRight):
		m.sess.Orbit(orbitStep, 0)
	case key.Matches(msg, m.keys.OrbitUp):
		m.sess.Orbit(0, orbitStep)
	case key.Matches(msg, m.keys.OrbitDown):
		m.sess.Orbit(0, -orbitStep)
	case key.Matches(msg, m.keys.PanLeft):
		m.sess.Pan(-panStep, 0)
	case key.Matches(msg, m.keys.PanRight):
		m.sess.Pan(panStep, 0)
	case key.Matches(msg, m.keys.PanUp):
		m.sess.Pan(0, panStep)
	case key.Matches(msg, m.keys.PanDown):
		m.sess.Pan(0, -panStep)
	case key.Matches(msg, m.keys.ZoomIn):
		m.sess.Zoom(zoomStep)
	case key.Matches(msg, m.keys.ZoomOut):
		m.sess.Zoom(1 / zoomStep)
	case key.Matches(msg, m.keys.Pause):
		m.paused = !m.paused
		if m.paused {
			m.sess.SetSpeed(0)
			m.status = "paused"
		} else {
			m.sess.SetSpeed(m.speed)
			m.status = ""
		}
	case key.Matches(msg, m.keys.Faster):
		m.setSpeed(m.speed * speedStep)
	case key.Matches(msg, m.keys.Slower):
		m.setSpeed(m.speed / speedStep)
	case key.Matches(msg, m.keys.Undo):
		if m.sess.Undo() {
			m.status = "undone"
		} else {
			m.status = "nothing to undo"
		}
	case key.Matches(msg, m.keys.Reset):
		m.sess.ResetView()
		m.status = "view reset"
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m *Model) setSpeed(omega float64) {
	m.speed = omega
	if !m.paused {
		m.sess.SetSpeed(omega)
	}
	m.status = fmt.Sprintf("speed %.2f rad/s", omega)
}

// View draws the helix, the sequence strip, the metrics line and help.
func (m Model) View() string {
	v := m.sess.View()

	canvasH := max(m.height-chromeRows, minCanvasH)
	if m.help.ShowAll {
		canvasH = max(canvasH-2, minCanvasH)
	}
	canvas := NewCanvas(m.width, canvasH)
	canvas.Draw(canvas.Project(m.frame))

	var b strings.Builder
	b.WriteString(titleStyle.Render("helixlab · " + v.Gene))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("  %d bases · Edits: %d", len(v.Sequence), v.EditCount)))
	b.WriteByte('\n')
	b.WriteString(canvas.Render())
	b.WriteByte('\n')
	b.WriteString(sequenceStrip(v, m.width))
	b.WriteByte('\n')
	b.WriteString(metricsLine(v.Summary, v.Trends))
	b.WriteByte('\n')
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render(m.err.Error()))
	case m.status != "":
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteByte('\n')
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

// sequenceStrip renders as much of the sequence as fits in width, colored
// per base with edited positions highlighted.
func sequenceStrip(v session.View, width int) string {
	n := len(v.Sequence)
	truncated := false
	if width > 0 && n > width {
		n, truncated = max(width-1, 0), true
	}
	var b strings.Builder
	for i := 0; i < n; i++ {
		sym := v.Sequence[i]
		if i < len(v.Edited) && v.Edited[i] {
			b.WriteString(editedStyle.Render(sym.String()))
			continue
		}
		b.WriteString(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Symbol(sym))).Render(sym.String()))
	}
	if truncated {
		b.WriteString(mutedStyle.Render("…"))
	}
	return b.String()
}

func metricsLine(sum metrics.Summary, tr metrics.Trends) string {
	parts := []string{
		fmt.Sprintf("PAM %d%s", sum.SiteCount, tr.SiteCount.Arrow()),
		fmt.Sprintf("candidates %d%s", sum.CandidateCount, tr.CandidateCount.Arrow()),
		fmt.Sprintf("high-score %d%s", sum.HighScoreCount, tr.HighScoreCount.Arrow()),
		fmt.Sprintf("on-target %.1f%%%s", sum.AvgOnTarget*100, tr.AvgOnTarget.Arrow()),
		fmt.Sprintf("off-target %.1f%%%s", sum.AvgOffTarget*100, tr.AvgOffTarget.Arrow()),
	}
	line := strings.Join(parts, " · ")
	if impact := sum.Impact(); impact != "" {
		line += "  " + impact
	}
	return mutedStyle.Render(line)
}
