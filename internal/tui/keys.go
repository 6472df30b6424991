package tui

import "github.com/charmbracelet/bubbles/key"

// browserKeyMap defines keybindings for the tree screen
type browserKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Open   key.Binding
	Close  key.Binding
	Accept key.Binding
	Back   key.Binding
	Help   key.Binding
	Quit   key.Binding
}

func (k browserKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Open, k.Close, k.Accept, k.Help, k.Quit}
}

func (k browserKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down},
		{k.Open, k.Close},
		{k.Accept, k.Back},
		{k.Help, k.Quit},
	}
}

func newBrowserKeyMap() browserKeyMap {
	return browserKeyMap{
		Up: key.NewBinding(
			key.WithKeys("up", "k"),
			key.WithHelp("↑/k", "up"),
		),
		Down: key.NewBinding(
			key.WithKeys("down", "j"),
			key.WithHelp("↓/j", "down"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter", " ", "right", "l"),
			key.WithHelp("enter/→", "open/select"),
		),
		Close: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←/h", "close/parent"),
		),
		Accept: key.NewBinding(
			key.WithKeys("y"),
			key.WithHelp("y", "accept selection"),
		),
		Back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "servers"),
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

// alertKeyMap defines keybindings while the alert modal is shown
type alertKeyMap struct {
	Dismiss key.Binding
}

func (k alertKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Dismiss}
}

func (k alertKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Dismiss}}
}

func newAlertKeyMap() alertKeyMap {
	return alertKeyMap{
		Dismiss: key.NewBinding(
			key.WithKeys("enter", "esc", " "),
			key.WithHelp("enter", "ok"),
		),
	}
}

// pickerKeyMap defines keybindings for the server picker
type pickerKeyMap struct {
	Up     key.Binding
	Down   key.Binding
	Select key.Binding
	Rescan key.Binding
	Manual key.Binding
	Quit   key.Binding
}

func (k pickerKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Up, k.Down, k.Select, k.Rescan, k.Manual, k.Quit}
}

func (k pickerKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.Select},
		{k.Rescan, k.Manual, k.Quit},
	}
}

func newPickerKeyMap() pickerKeyMap {
	return pickerKeyMap{
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
			key.WithHelp("enter", "browse"),
		),
		Rescan: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "rescan"),
		),
		Manual: key.NewBinding(
			key.WithKeys("m"),
			key.WithHelp("m", "enter URL"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// manualKeyMap defines keybindings while typing a listing URL
type manualKeyMap struct {
	Confirm key.Binding
	Cancel  key.Binding
}

func (k manualKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Confirm, k.Cancel}
}

func (k manualKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Confirm, k.Cancel}}
}

func newManualKeyMap() manualKeyMap {
	return manualKeyMap{
		Confirm: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "browse"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
	}
}
