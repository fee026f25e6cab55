package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Next      key.Binding
	Prev      key.Binding
	Smaller   key.Binding
	Larger    key.Binding
	Copy      key.Binding
	Download  key.Binding
	Twitter   key.Binding
	Facebook  key.Binding
	LinkedIn  key.Binding
	Instagram key.Binding
	Help      key.Binding
	Quit      key.Binding
}

var keys = keyMap{
	Next: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "next field"),
	),
	Prev: key.NewBinding(
		key.WithKeys("shift+tab"),
		key.WithHelp("shift+tab", "prev field"),
	),
	Smaller: key.NewBinding(
		key.WithKeys("left", "-"),
		key.WithHelp("←/-", "smaller"),
	),
	Larger: key.NewBinding(
		key.WithKeys("right", "+", "="),
		key.WithHelp("→/+", "larger"),
	),
	Copy: key.NewBinding(
		key.WithKeys("ctrl+y"),
		key.WithHelp("ctrl+y", "copy text"),
	),
	Download: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("ctrl+s", "download png"),
	),
	Twitter: key.NewBinding(
		key.WithKeys("ctrl+t"),
		key.WithHelp("ctrl+t", "twitter"),
	),
	Facebook: key.NewBinding(
		key.WithKeys("ctrl+f"),
		key.WithHelp("ctrl+f", "facebook"),
	),
	LinkedIn: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("ctrl+l", "linkedin"),
	),
	Instagram: key.NewBinding(
		key.WithKeys("ctrl+g"),
		key.WithHelp("ctrl+g", "instagram"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1"),
		key.WithHelp("f1", "more keys"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c", "esc"),
		key.WithHelp("esc", "quit"),
	),
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Next, k.Copy, k.Download, k.Help, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Next, k.Prev, k.Smaller, k.Larger},
		{k.Copy, k.Download},
		{k.Twitter, k.Facebook, k.LinkedIn, k.Instagram},
		{k.Help, k.Quit},
	}
}
