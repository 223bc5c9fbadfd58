package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	focus       key.Binding
	down        key.Binding
	up          key.Binding
	toggle      key.Binding
	remove      key.Binding
	edit        key.Binding
	toggleAll   key.Binding
	clear       key.Binding
	cycleFilter key.Binding
	filterAll   key.Binding
	filterOpen  key.Binding
	filterDone  key.Binding
	undo        key.Binding
	copy        key.Binding
	pageDown    key.Binding
	pageUp      key.Binding
	help        key.Binding
	quit        key.Binding

	submit key.Binding
	blur   key.Binding
	abort  key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		focus:       key.NewBinding(key.WithKeys("i", "a"), key.WithHelp("i/a", "new item")),
		down:        key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		up:          key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		toggle:      key.NewBinding(key.WithKeys("x", " "), key.WithHelp("x/space", "toggle")),
		remove:      key.NewBinding(key.WithKeys("d", "delete"), key.WithHelp("d", "delete")),
		edit:        key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
		toggleAll:   key.NewBinding(key.WithKeys("t"), key.WithHelp("t", "toggle all")),
		clear:       key.NewBinding(key.WithKeys("C"), key.WithHelp("C", "clear complete")),
		cycleFilter: key.NewBinding(key.WithKeys("f"), key.WithHelp("f", "next filter")),
		filterAll:   key.NewBinding(key.WithKeys("1"), key.WithHelp("1", "all")),
		filterOpen:  key.NewBinding(key.WithKeys("2"), key.WithHelp("2", "active")),
		filterDone:  key.NewBinding(key.WithKeys("3"), key.WithHelp("3", "complete")),
		undo:        key.NewBinding(key.WithKeys("u"), key.WithHelp("u", "undo")),
		copy:        key.NewBinding(key.WithKeys("y"), key.WithHelp("y", "copy active")),
		pageDown:    key.NewBinding(key.WithKeys("pgdown", "ctrl+d"), key.WithHelp("pgdn", "page down")),
		pageUp:      key.NewBinding(key.WithKeys("pgup", "ctrl+u"), key.WithHelp("pgup", "page up")),
		help:        key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		quit:        key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),

		submit: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "save")),
		blur:   key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "done")),
		abort:  key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	}
}

// ShortHelp is shown in the footer while the list has focus.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.focus, k.toggle, k.remove, k.help, k.quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.focus, k.edit, k.toggle, k.remove, k.undo},
		{k.down, k.up, k.pageDown, k.pageUp},
		{k.toggleAll, k.clear, k.copy},
		{k.cycleFilter, k.filterAll, k.filterOpen, k.filterDone},
		{k.help, k.quit},
	}
}

// inputHelp is what the key drawer shows while the input bar has focus.
func (k keyMap) inputHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.blur},
		{k.abort},
	}
}
