package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up       key.Binding
	Down     key.Binding
	Food     key.Binding
	Recipes  key.Binding
	Add      key.Binding
	Edit     key.Binding
	Delete   key.Binding
	Generate key.Binding
	Expand   key.Binding
	Sort     key.Binding
	Refresh  key.Binding
	Dismiss  key.Binding
	Yes      key.Binding
	No       key.Binding
	Back     key.Binding
	Quit     key.Binding
	Next     key.Binding
	Left     key.Binding
	Right    key.Binding
	Submit   key.Binding
}

var keys = keyMap{
	Up:       key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:     key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Food:     key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "food")),
	Recipes:  key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "recipes")),
	Add:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Edit:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	Delete:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
	Generate: key.NewBinding(key.WithKeys("g"), key.WithHelp("g", "generate")),
	Expand:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "expand")),
	Sort:     key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "sort by expiry")),
	Refresh:  key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "refresh")),
	Dismiss:  key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "dismiss")),
	Yes:      key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "confirm")),
	No:       key.NewBinding(key.WithKeys("n", "esc"), key.WithHelp("n", "cancel")),
	Back:     key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Quit:     key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
	Next:     key.NewBinding(key.WithKeys("tab", "down"), key.WithHelp("tab", "next field")),
	Left:     key.NewBinding(key.WithKeys("left"), key.WithHelp("←", "previous")),
	Right:    key.NewBinding(key.WithKeys("right"), key.WithHelp("→", "next")),
	Submit:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
}
