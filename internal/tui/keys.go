package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Left     key.Binding
	Right    key.Binding
	Toggle   key.Binding
	Focus    key.Binding
	NextPane key.Binding
	PrevPane key.Binding
	Cancel   key.Binding
	Help     key.Binding
	Quit     key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Left:     key.NewBinding(key.WithKeys("left", "h"), key.WithHelp("←/h", "decrease")),
	Right:    key.NewBinding(key.WithKeys("right", "l"), key.WithHelp("→/l", "increase")),
	Toggle:   key.NewBinding(key.WithKeys(" ", "enter"), key.WithHelp("space", "toggle/edit")),
	Focus:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "sidebar/pane")),
	NextPane: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "next output")),
	PrevPane: key.NewBinding(key.WithKeys("["), key.WithHelp("[", "prev output")),
	Cancel:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Focus, k.NextPane, k.Toggle, k.Help, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Left, k.Right},
		{k.Toggle, k.Cancel, k.Focus},
		{k.NextPane, k.PrevPane, k.Help, k.Quit},
	}
}
