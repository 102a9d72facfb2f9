package tui

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/leapstack-labs/helixlab/internal/theme"
	"github.com/leapstack-labs/helixlab/pkg/scene"
)

// cellAspect is how many projection units one terminal row spans. Terminal
// cells are roughly twice as tall as they are wide.
const cellAspect = 2

type cell struct {
	r     rune
	color string
}

// Canvas is a character grid the helix is rasterized onto.
type Canvas struct {
	width, height int
	cells         []cell
	styles        map[string]lipgloss.Style
}

// NewCanvas creates a blank canvas. Non-positive sizes yield an empty canvas.
func NewCanvas(width, height int) *Canvas {
	width, height = max(width, 0), max(height, 0)
	c := &Canvas{
		width:  width,
		height: height,
		cells:  make([]cell, width*height),
		styles: make(map[string]lipgloss.Style),
	}
	c.Clear()
	return c
}

// Size returns the canvas dimensions in cells.
func (c *Canvas) Size() (int, int) { return c.width, c.height }

// Clear blanks every cell.
func (c *Canvas) Clear() {
	for i := range c.cells {
		c.cells[i] = cell{r: ' '}
	}
}

// Set writes r at (x, y). Out-of-bounds writes are ignored.
func (c *Canvas) Set(x, y int, r rune, color string) {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return
	}
	c.cells[y*c.width+x] = cell{r: r, color: color}
}

// At returns the rune at (x, y), or a space when out of bounds.
func (c *Canvas) At(x, y int) rune {
	if x < 0 || y < 0 || x >= c.width || y >= c.height {
		return ' '
	}
	return c.cells[y*c.width+x].r
}

// Text writes s starting at (x, y).
func (c *Canvas) Text(x, y int, s, color string) {
	for i, r := range []rune(s) {
		c.Set(x+i, y, r, color)
	}
}

// Line draws a segment between two cells with Bresenham's algorithm. When
// r is zero the glyph follows the slope of the segment.
func (c *Canvas) Line(x0, y0, x1, y1 int, r rune, color string) {
	if r == 0 {
		r = slopeRune(x1-x0, y1-y0)
	}
	dx, dy := abs(x1-x0), -abs(y1-y0)
	sx, sy := sign(x1-x0), sign(y1-y0)
	e := dx + dy
	for {
		c.Set(x0, y0, r, color)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 >= dy {
			e += dy
			x0 += sx
		}
		if e2 <= dx {
			e += dx
			y0 += sy
		}
	}
}

// Draw rasterizes projected primitives in the order given, so nearer
// primitives painted later overwrite farther ones. Screen coordinates are
// in projection units; see Project.
func (c *Canvas) Draw(prims []scene.ScreenPrimitive) {
	for _, p := range prims {
		if !p.Visible || len(p.Screen) == 0 {
			continue
		}
		switch p.Kind {
		case scene.KindBackbone:
			for i := 1; i < len(p.Screen); i++ {
				x0, y0 := toCell(p.Screen[i-1])
				x1, y1 := toCell(p.Screen[i])
				c.Line(x0, y0, x1, y1, '·', theme.Backbone)
			}
		case scene.KindBead:
			x, y := toCell(p.Screen[0])
			c.Set(x, y, '•', theme.Backbone)
		case scene.KindConnector:
			if len(p.Screen) < 2 {
				continue
			}
			x0, y0 := toCell(p.Screen[0])
			x1, y1 := toCell(p.Screen[1])
			c.Line(x0, y0, x1, y1, 0, theme.Connector)
		case scene.KindBase:
			x, y := toCell(p.Screen[0])
			c.Set(x, y, []rune(p.Symbol.String())[0], theme.Symbol(p.Symbol))
		case scene.KindAnnotation:
			x, y := toCell(p.Screen[0])
			c.Set(x, y, '◆', theme.Grade(p.Grade))
		case scene.KindLabel:
			x, y := toCell(p.Screen[0])
			c.Text(x, y, p.Label, theme.Grade(p.Grade))
		}
	}
}

// Project projects frame onto the canvas' projection space.
func (c *Canvas) Project(f scene.Frame) []scene.ScreenPrimitive {
	return f.Project(float64(c.width), float64(c.height*cellAspect))
}

// Plain returns the canvas without colors, one line per row.
func (c *Canvas) Plain() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		for x := 0; x < c.width; x++ {
			b.WriteRune(c.cells[y*c.width+x].r)
		}
	}
	return b.String()
}

// Render returns the canvas with each run of same-colored cells styled.
func (c *Canvas) Render() string {
	var b strings.Builder
	for y := 0; y < c.height; y++ {
		if y > 0 {
			b.WriteByte('\n')
		}
		row := c.cells[y*c.width : (y+1)*c.width]
		for x := 0; x < len(row); {
			color := row[x].color
			var run strings.Builder
			for x < len(row) && row[x].color == color {
				run.WriteRune(row[x].r)
				x++
			}
			if color == "" {
				b.WriteString(run.String())
				continue
			}
			b.WriteString(c.style(color).Render(run.String()))
		}
	}
	return b.String()
}

func (c *Canvas) style(color string) lipgloss.Style {
	s, ok := c.styles[color]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(color))
		c.styles[color] = s
	}
	return s
}

func toCell(p scene.ScreenPoint) (int, int) {
	return int(math.Round(p.X)), int(math.Round(p.Y / cellAspect))
}

func slopeRune(dx, dy int) rune {
	switch {
	case abs(dx) >= 2*abs(dy):
		return '-'
	case abs(dy) >= 2*abs(dx):
		return '|'
	case (dx > 0) == (dy > 0):
		return '\\'
	default:
		return '/'
	}
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func sign(n int) int {
	switch {
	case n > 0:
		return 1
	case n < 0:
		return -1
	}
	return 0
}
