package tui

import "github.com/charmbracelet/bubbles/key"

// KeyMap defines the keybindings for the TUI.
type KeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding // Activate the row under the cursor

	ApplyLabel  key.Binding
	AssignSelf  key.Binding
	ToggleLock  key.Binding
	ToggleState key.Binding

	Dismiss key.Binding // Clear the error line / cancel a prompt
	Help    key.Binding
	Quit    key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Select: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "select / remove"),
		),
		ApplyLabel: key.NewBinding(
			key.WithKeys("l"),
			key.WithHelp("l", "apply label"),
		),
		AssignSelf: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "assign yourself"),
		),
		ToggleLock: key.NewBinding(
			key.WithKeys("L"),
			key.WithHelp("L", "lock/unlock"),
		),
		ToggleState: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "close/reopen"),
		),
		Dismiss: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "dismiss"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Select, k.ApplyLabel, k.AssignSelf, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.ApplyLabel, k.AssignSelf, k.ToggleLock, k.ToggleState},
		{k.Dismiss, k.Help, k.Quit},
	}
}
