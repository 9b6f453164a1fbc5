package tui

import "github.com/charmbracelet/bubbles/key"

type formKeys struct {
	Next, Prev, Submit, Cancel, AddIngredient, RemoveIngredient key.Binding
}

func defaultFormKeys() formKeys {
	return formKeys{
		Next:             key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next field")),
		Prev:             key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev field")),
		Submit:           key.NewBinding(key.WithKeys("ctrl+s"), key.WithHelp("ctrl+s", "submit")),
		Cancel:           key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		AddIngredient:    key.NewBinding(key.WithKeys("ctrl+n"), key.WithHelp("ctrl+n", "add ingredient")),
		RemoveIngredient: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "remove ingredient")),
	}
}

func (k formKeys) help() []key.Binding {
	return []key.Binding{k.Next, k.AddIngredient, k.RemoveIngredient, k.Submit, k.Cancel}
}

type listKeys struct {
	New, View, Delete, Reload, Quit key.Binding
}

func defaultListKeys() listKeys {
	return listKeys{
		New:    key.NewBinding(key.WithKeys("n", "a"), key.WithHelp("n", "new")),
		View:   key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "view")),
		Delete: key.NewBinding(key.WithKeys("d"), key.WithHelp("d", "delete")),
		Reload: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "reload")),
		Quit:   key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
	}
}

func (k listKeys) help() []key.Binding {
	return []key.Binding{k.New, k.View, k.Delete, k.Reload}
}

type detailKeys struct {
	Back, Edit key.Binding
}

func defaultDetailKeys() detailKeys {
	return detailKeys{
		Back: key.NewBinding(key.WithKeys("b", "esc"), key.WithHelp("b", "go back")),
		Edit: key.NewBinding(key.WithKeys("e"), key.WithHelp("e", "edit")),
	}
}

func (k detailKeys) help() []key.Binding {
	return []key.Binding{k.Back, k.Edit}
}
