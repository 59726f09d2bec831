package deck

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	New      key.Binding
	Close    key.Binding
	Minimize key.Binding
	Maximize key.Binding
	Restore  key.Binding
	Cycle    key.Binding
	Cascade  key.Binding
	Tile     key.Binding
	Grid     key.Binding
	Save     key.Binding
	Load     key.Binding
	Help     key.Binding
	Quit     key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new window"),
		),
		Close: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "close"),
		),
		Minimize: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "minimize"),
		),
		Maximize: key.NewBinding(
			key.WithKeys("f"),
			key.WithHelp("f", "maximize"),
		),
		Restore: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "restore"),
		),
		Cycle: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "focus next"),
		),
		Cascade: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "cascade"),
		),
		Tile: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "tile"),
		),
		Grid: key.NewBinding(
			key.WithKeys("g"),
			key.WithHelp("g", "grid"),
		),
		Save: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "save layout"),
		),
		Load: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "load layout"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.New, k.Cycle, k.Tile, k.Save, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.New, k.Close, k.Minimize, k.Maximize, k.Restore},
		{k.Cycle, k.Cascade, k.Tile, k.Grid},
		{k.Save, k.Load, k.Help, k.Quit},
	}
}
