package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Load   key.Binding
	Submit key.Binding
	Focus  key.Binding
	Attach key.Binding
	Prev   key.Binding
	Next   key.Binding
	Remove key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Load, k.Submit, k.Focus, k.Remove, k.Help, k.Quit}
}

// FullHelp returns keybindings for the expanded help view
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Load, k.Submit},
		{k.Focus, k.Attach},
		{k.Prev, k.Next, k.Remove},
		{k.Help, k.Quit},
	}
}

func defaultKeyMap() keyMap {
	return keyMap{
		Load: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "load my info"),
		),
		Submit: key.NewBinding(
			key.WithKeys("ctrl+s"),
			key.WithHelp("ctrl+s", "submit"),
		),
		Focus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch field"),
		),
		Attach: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "attach path"),
		),
		Prev: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "previous file"),
		),
		Next: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "next file"),
		),
		Remove: key.NewBinding(
			key.WithKeys("ctrl+x"),
			key.WithHelp("ctrl+x", "remove file"),
		),
		Help: key.NewBinding(
			key.WithKeys("ctrl+g"),
			key.WithHelp("ctrl+g", "help"),
		),
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "esc"),
			key.WithHelp("esc", "quit"),
		),
	}
}
