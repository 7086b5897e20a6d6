package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Tab     key.Binding
	Start   key.Binding
	Stop    key.Binding
	Pause   key.Binding
	PrevDay key.Binding
	NextDay key.Binding
	Today   key.Binding
	Report  key.Binding
	Delete  key.Binding
	Help    key.Binding
	Quit    key.Binding
	Escape  key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Start:   key.NewBinding(key.WithKeys("s", "enter"), key.WithHelp("s", "start task")),
	Stop:    key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "stop")),
	Pause:   key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pause all")),
	PrevDay: key.NewBinding(key.WithKeys("left", "h", "["), key.WithHelp("←/[", "previous day")),
	NextDay: key.NewBinding(key.WithKeys("right", "l", "]"), key.WithHelp("→/]", "next day")),
	Today:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "today")),
	Report:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "report")),
	Delete:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete entry")),
	Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:  key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
}
