package tui

import "charm.land/bubbles/v2/key"

// keyMap represents key map data used by this package.
type keyMap struct {
	quit         key.Binding
	reload       key.Binding
	toggleHelp   key.Binding
	switchPanel  key.Binding
	navUp        key.Binding
	navDown      key.Binding
	selectEntry  key.Binding
	toggleItem   key.Binding
	newList      key.Binding
	renameList   key.Binding
	deleteEntry  key.Binding
	addItem      key.Binding
	editItem     key.Binding
	moveItemUp   key.Binding
	moveItemDown key.Binding
	copyEntry    key.Binding
}

// newKeyMap constructs key map.
func newKeyMap() keyMap {
	return keyMap{
		quit:         key.NewBinding(key.WithKeys("q", "ctrl+c"), key.WithHelp("q", "quit")),
		reload:       key.NewBinding(key.WithKeys("ctrl+r"), key.WithHelp("ctrl+r", "reload")),
		toggleHelp:   key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "toggle help")),
		switchPanel:  key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "switch panel")),
		navUp:        key.NewBinding(key.WithKeys("k", "up"), key.WithHelp("k/↑", "up")),
		navDown:      key.NewBinding(key.WithKeys("j", "down"), key.WithHelp("j/↓", "down")),
		selectEntry:  key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "open list / toggle item")),
		toggleItem:   key.NewBinding(key.WithKeys(" ", "space"), key.WithHelp("space", "toggle item")),
		newList:      key.NewBinding(key.WithKeys("n"), key.WithHelp("n", "new list")),
		renameList:   key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "rename list")),
		deleteEntry:  key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		addItem:      key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add item")),
		editItem:     key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit item")),
		moveItemUp:   key.NewBinding(key.WithKeys("["), key.WithHelp("[", "move item up")),
		moveItemDown: key.NewBinding(key.WithKeys("]"), key.WithHelp("]", "move item down")),
		copyEntry:    key.NewBinding(key.WithKeys("c"), key.WithHelp("c", "copy")),
	}
}

// ShortHelp handles short help.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{
		k.switchPanel, k.selectEntry, k.newList, k.addItem, k.toggleHelp, k.quit,
	}
}

// FullHelp handles full help.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.switchPanel, k.selectEntry, k.navUp, k.navDown, k.toggleHelp, k.reload, k.quit},
		{k.newList, k.renameList, k.deleteEntry, k.copyEntry},
		{k.addItem, k.editItem, k.toggleItem, k.moveItemUp, k.moveItemDown},
	}
}
