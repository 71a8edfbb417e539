package popup

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	submit         key.Binding
	up             key.Binding
	down           key.Binding
	accept         key.Binding
	deleteHistory  key.Binding
	copyURL        key.Binding
	toggleTheme    key.Binding
	toggleLanguage key.Binding
	clear          key.Binding
	quit           key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		submit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("↵", "search/open"),
		),
		up: key.NewBinding(
			key.WithKeys("up", "ctrl+p"),
			key.WithHelp("↑", "up"),
		),
		down: key.NewBinding(
			key.WithKeys("down", "ctrl+n"),
			key.WithHelp("↓", "down"),
		),
		accept: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "complete"),
		),
		deleteHistory: key.NewBinding(
			key.WithKeys("ctrl+d"),
			key.WithHelp("ctrl+d", "forget"),
		),
		copyURL: key.NewBinding(
			key.WithKeys("ctrl+y"),
			key.WithHelp("ctrl+y", "copy url"),
		),
		toggleTheme: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "theme"),
		),
		toggleLanguage: key.NewBinding(
			key.WithKeys("ctrl+l"),
			key.WithHelp("ctrl+l", "한/EN"),
		),
		clear: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "clear"),
		),
		quit: key.NewBinding(
			key.WithKeys("ctrl+c"),
			key.WithHelp("ctrl+c", "quit"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.submit, k.accept, k.copyURL, k.toggleTheme, k.toggleLanguage, k.clear, k.quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.submit, k.up, k.down, k.accept},
		{k.deleteHistory, k.copyURL, k.clear},
		{k.toggleTheme, k.toggleLanguage, k.quit},
	}
}
