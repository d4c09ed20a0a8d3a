package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all key bindings
type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Tab      key.Binding
	Enter    key.Binding
	Add      key.Binding
	Edit     key.Binding
	Done     key.Binding
	Delete   key.Binding
	Timer    key.Binding
	SetTimer key.Binding
	Stop     key.Binding
	Reset    key.Binding
	View     key.Binding
	Float    key.Binding
	NewNote  key.Binding
	Pin      key.Binding
	Color    key.Binding
	Search   key.Binding
	Help     key.Binding
	Quit     key.Binding
	Escape   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Tab:      key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Enter:    key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "select/toggle")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Done:     key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "toggle done")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Timer:    key.NewBinding(key.WithKeys("s", " "), key.WithHelp("s", "start/pause timer")),
	SetTimer: key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "set timer")),
	Stop:     key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "stop timer")),
	Reset:    key.NewBinding(key.WithKeys("R"), key.WithHelp("R", "reset timer")),
	View:     key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "all/active/done")),
	Float:    key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "floating view")),
	NewNote:  key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new note")),
	Pin:      key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "pin note")),
	Color:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "note colour")),
	Search:   key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search notes")),
	Help:     key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Escape:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
}
