// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the TUI.
type KeyMap struct {
	// Quit exits the application.
	Quit key.Binding

	// Help shows the help view.
	Help key.Binding

	// Back returns to the menu, or closes an open prompt.
	Back key.Binding

	Up     key.Binding
	Down   key.Binding
	Select key.Binding

	// Refresh reloads the visible view in the foreground.
	Refresh key.Binding

	// Floor actions.
	Open    key.Binding
	Reserve key.Binding
	Close   key.Binding
	Clean   key.Binding

	// Order actions.
	Advance    key.Binding
	CancelItem key.Binding
	ShowClosed key.Binding

	// Menu item action.
	Toggle key.Binding

	// Stock actions.
	Increase key.Binding
	Decrease key.Binding
	Adjust   key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "select"),
		),
		Refresh: key.NewBinding(
			key.WithKeys("r", "f5"),
			key.WithHelp("r", "refresh"),
		),
		Open: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "seat party"),
		),
		Reserve: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "reserve"),
		),
		Close: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "close"),
		),
		Clean: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "mark clean"),
		),
		Advance: key.NewBinding(
			key.WithKeys("a", "enter"),
			key.WithHelp("a", "advance"),
		),
		CancelItem: key.NewBinding(
			key.WithKeys("d"),
			key.WithHelp("d", "cancel order"),
		),
		ShowClosed: key.NewBinding(
			key.WithKeys("h"),
			key.WithHelp("h", "show closed"),
		),
		Toggle: key.NewBinding(
			key.WithKeys(" ", "t"),
			key.WithHelp("space", "toggle sold out"),
		),
		Increase: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "add one"),
		),
		Decrease: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "use one"),
		),
		Adjust: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "adjust"),
		),
	}
}

// ShortHelp returns the bindings shown in the status bar.
func (k *KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Back, k.Refresh, k.Help, k.Quit}
}

// FullHelp returns the full list of keybindings for the help view.
func (k *KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select, k.Back, k.Refresh},
		{k.Open, k.Reserve, k.Close, k.Clean},
		{k.Advance, k.CancelItem, k.ShowClosed},
		{k.Toggle, k.Increase, k.Decrease, k.Adjust},
		{k.Help, k.Quit},
	}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
