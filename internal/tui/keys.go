package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	OrbitLeft  key.Binding
	OrbitRight key.Binding
	OrbitUp    key.Binding
	OrbitDown  key.Binding
	PanLeft    key.Binding
	PanRight   key.Binding
	PanUp      key.Binding
	PanDown    key.Binding
	ZoomIn     key.Binding
	ZoomOut    key.Binding
	Pause      key.Binding
	Faster     key.Binding
	Slower     key.Binding
	Undo       key.Binding
	Reset      key.Binding
	Help       key.Binding
	Quit       key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		OrbitLeft:  key.NewBinding(key.WithKeys("left"), key.WithHelp("←/→", "orbit")),
		OrbitRight: key.NewBinding(key.WithKeys("right")),
		OrbitUp:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑/↓", "tilt")),
		OrbitDown:  key.NewBinding(key.WithKeys("down")),
		PanLeft:    key.NewBinding(key.WithKeys("a"), key.WithHelp("w/a/s/d", "pan")),
		PanRight:   key.NewBinding(key.WithKeys("d")),
		PanUp:      key.NewBinding(key.WithKeys("w")),
		PanDown:    key.NewBinding(key.WithKeys("s")),
		ZoomIn:     key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+/-", "zoom")),
		ZoomOut:    key.NewBinding(key.WithKeys("-", "_")),
		Pause:      key.NewBinding(key.WithKeys(" "), key.WithHelp("space", "pause")),
		Faster:     key.NewBinding(key.WithKeys("]"), key.WithHelp("[/]", "speed")),
		Slower:     key.NewBinding(key.WithKeys("[")),
		Undo:       key.NewBinding(key.WithKeys("u", "ctrl+z"), key.WithHelp("u", "undo")),
		Reset:      key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reset view")),
		Help:       key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:       key.NewBinding(key.WithKeys("q", "ctrl+c", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.OrbitLeft, k.ZoomIn, k.Pause, k.Undo, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.OrbitLeft, k.OrbitUp, k.PanLeft, k.ZoomIn},
		{k.Pause, k.Faster, k.Reset},
		{k.Undo, k.Help, k.Quit},
	}
}

// KeyBindings returns the viewer's documented key bindings in help order.
func KeyBindings() []key.Binding {
	var out []key.Binding
	for _, group := range defaultKeyMap().FullHelp() {
		out = append(out, group...)
	}
	return out
}
