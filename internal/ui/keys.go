package ui

import (
	"github.com/charmbracelet/bubbles/key"

	"tasker/internal/config"
)

type keyMap struct {
	Quit     key.Binding
	Clear    key.Binding
	Next     key.Binding
	Previous key.Binding
	First    key.Binding
	Last     key.Binding
	Toggle   key.Binding
	Delete   key.Binding
	Add      key.Binding
	Edit     key.Binding

	SwitchField key.Binding
	Confirm     key.Binding
	Cancel      key.Binding
	Backspace   key.Binding

	// modal switches ShortHelp between list and entry bindings.
	modal bool
}

func bind(keys, desc string) key.Binding {
	ks := config.Keys(keys)
	helpKey := "?"
	if len(ks) > 0 {
		helpKey = ks[0]
		if helpKey == " " {
			helpKey = "space"
		}
	}
	return key.NewBinding(key.WithKeys(ks...), key.WithHelp(helpKey, desc))
}

func newKeyMap(k config.Keymap) keyMap {
	return keyMap{
		Quit:        bind(k.Quit, "quit"),
		Clear:       bind(k.Clear, "unselect"),
		Next:        bind(k.Next, "down"),
		Previous:    bind(k.Previous, "up"),
		First:       bind(k.First, "first"),
		Last:        bind(k.Last, "last"),
		Toggle:      bind(k.Toggle, "toggle"),
		Delete:      bind(k.Delete, "delete"),
		Add:         bind(k.Add, "add"),
		Edit:        bind(k.Edit, "edit"),
		SwitchField: bind(k.SwitchField, "switch field"),
		Confirm:     bind(k.Confirm, "save"),
		Cancel:      bind(k.Cancel, "cancel"),
		Backspace:   bind(k.Backspace, "erase"),
	}
}

func (k keyMap) ShortHelp() []key.Binding {
	if k.modal {
		return []key.Binding{k.SwitchField, k.Confirm, k.Cancel}
	}
	return []key.Binding{k.Next, k.Previous, k.Toggle, k.Add, k.Edit, k.Delete, k.Quit}
}

func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Previous, k.First, k.Last, k.Clear},
		{k.Toggle, k.Add, k.Edit, k.Delete, k.Quit},
		{k.SwitchField, k.Confirm, k.Cancel, k.Backspace},
	}
}
