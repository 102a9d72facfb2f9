package output

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/helixlab/internal/theme"
	"github.com/leapstack-labs/helixlab/pkg/core"
)

// Styles holds the lipgloss styles used for text output.
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Edited marks symbols changed since the sequence was loaded.
	Edited lipgloss.Style

	symbols map[core.Symbol]lipgloss.Style
	grades  map[core.Grade]lipgloss.Style
}

// NewStyles builds the styles for a lipgloss renderer.
func NewStyles(lr *lipgloss.Renderer) *Styles {
	s := &Styles{
		Header1: lr.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Backbone)).Underline(true),
		Header2: lr.NewStyle().Bold(true).Foreground(lipgloss.Color(theme.Cytosine)),
		Bold:    lr.NewStyle().Bold(true),
		Muted:   lr.NewStyle().Foreground(lipgloss.Color(theme.Connector)),
		Success: lr.NewStyle().Foreground(lipgloss.Color(theme.Good)),
		Warning: lr.NewStyle().Foreground(lipgloss.Color(theme.Fair)),
		Error:   lr.NewStyle().Foreground(lipgloss.Color(theme.Poor)).Bold(true),
		Info:    lr.NewStyle().Foreground(lipgloss.Color(theme.Cytosine)),
		Edited:  lr.NewStyle().Background(lipgloss.Color(theme.Edited)).Bold(true),
		symbols: make(map[core.Symbol]lipgloss.Style, len(core.Symbols)),
		grades:  make(map[core.Grade]lipgloss.Style, 3),
	}
	for _, sym := range core.Symbols {
		s.symbols[sym] = lr.NewStyle().Foreground(lipgloss.Color(theme.Symbol(sym)))
	}
	for _, g := range []core.Grade{core.GradeGood, core.GradeFair, core.GradePoor} {
		s.grades[g] = lr.NewStyle().Foreground(lipgloss.Color(theme.Grade(g)))
	}
	return s
}

// Symbol renders one nucleotide in its color, highlighted when edited.
func (s *Styles) Symbol(sym core.Symbol, edited bool) string {
	style := s.symbols[sym]
	if edited {
		style = style.Inherit(s.Edited)
	}
	return style.Render(sym.String())
}

// Grade renders text in the color of a grade.
func (s *Styles) Grade(g core.Grade, text string) string {
	return s.grades[g].Render(text)
}
