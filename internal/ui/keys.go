package ui

import "github.com/charmbracelet/bubbles/key"

// KeyMap holds the bindings handled by the app before views see them.
type KeyMap struct {
	ForceQuit key.Binding
	Quit      key.Binding
	Back      key.Binding
	Watched   key.Binding
}

var Keys = KeyMap{
	ForceQuit: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	Quit:      key.NewBinding(key.WithKeys("q"), key.WithHelp("q", "quit/back")),
	Back:      key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Watched:   key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "watched topics")),
}
