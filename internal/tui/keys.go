package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Up      key.Binding
	Down    key.Binding
	Enter   key.Binding
	Back    key.Binding
	Archive key.Binding
	Trash   key.Binding
	Spam    key.Binding
	Star    key.Binding
	Unread  key.Binding
	Search  key.Binding
	Poll    key.Binding
	Reload  key.Binding
	Tab     key.Binding
	Quit    key.Binding
}

var keys = keyMap{
	Up:      key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
	Down:    key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
	Enter:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open")),
	Back:    key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "back")),
	Archive: key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "archive")),
	Trash:   key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "trash")),
	Spam:    key.NewBinding(key.WithKeys("S"), key.WithHelp("S", "spam")),
	Star:    key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "star")),
	Unread:  key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "unread")),
	Search:  key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search")),
	Poll:    key.NewBinding(key.WithKeys("p"), key.WithHelp("p", "poll")),
	Reload:  key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "reload")),
	Tab:     key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch pane")),
	Quit:    key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
}
