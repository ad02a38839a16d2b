package tui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines the [key.Binding] mapping for the composer.
type keyMap struct {
	post    key.Binding
	history key.Binding
	quit    key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		post:    key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "post")),
		history: key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "posts")),
		quit:    key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "quit")),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.post, k.history, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
