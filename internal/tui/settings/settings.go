// Package settings is the interactive preferences menu: a list of the
// persisted preferences, each edited with a selection prompt.
package settings

import (
	"context"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/erikgeiser/promptkit/selection"

	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/prefs"
)

const (
	themeSetting    = "theme"
	languageSetting = "language"
)

type item struct {
	setting     string
	title       string
	description string
}

func (i item) Title() string       { return i.title }
func (i item) Description() string { return i.description }
func (i item) FilterValue() string { return i.title }

type keyMap struct {
	edit   key.Binding
	cancel key.Binding
	quit   key.Binding
}

func newKeyMap() keyMap {
	return keyMap{
		edit: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "edit"),
		),
		cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

type Model struct {
	ctx   context.Context
	prefs *prefs.Prefs
	keys  keyMap
	list  list.Model

	// editing names the setting whose prompt is open.
	editing string
	prompt  *selection.Model[string]
}

func New(ctx context.Context, p *prefs.Prefs) Model {
	keys := newKeyMap()

	l := list.New(nil, list.NewDefaultDelegate(), 0, 0)
	l.Styles.Title = titleStyle
	l.SetFilteringEnabled(false)
	l.SetShowStatusBar(false)
	l.AdditionalShortHelpKeys = func() []key.Binding { return []key.Binding{keys.edit} }

	m := Model{ctx: ctx, prefs: p, keys: keys, list: l}
	m.refresh()
	return m
}

func (m Model) msgs() i18n.Messages { return i18n.For(m.prefs.Language()) }

// refresh rebuilds the rows in the active language.
func (m *Model) refresh() {
	msgs := m.msgs()
	m.list.Title = msgs.Settings
	m.list.SetItems([]list.Item{
		item{setting: themeSetting, title: msgs.Theme, description: msgs.ThemeName(m.prefs.Theme())},
		item{setting: languageSetting, title: msgs.Language, description: msgs.LanguageName(m.prefs.Language())},
	})
}

// choices puts the current value first so the prompt opens on it.
func choices(current string, all ...string) []string {
	out := []string{current}
	for _, c := range all {
		if c != current {
			out = append(out, c)
		}
	}
	return out
}

func (m *Model) open(setting string) tea.Cmd {
	msgs := m.msgs()

	var sel *selection.Selection[string]
	switch setting {
	case themeSetting:
		sel = selection.New(msgs.Theme, choices(m.prefs.Theme(), prefs.Dark, prefs.Light))
	case languageSetting:
		sel = selection.New(msgs.Language, choices(m.prefs.Language(), prefs.Korean, prefs.English))
	default:
		return nil
	}
	sel.Filter = nil

	m.editing = setting
	m.prompt = selection.NewModel(sel)
	return m.prompt.Init()
}

func (m *Model) apply() tea.Cmd {
	choice, err := m.prompt.Value()
	setting := m.editing
	m.editing, m.prompt = "", nil
	if err != nil {
		return m.list.NewStatusMessage(errorMessageStyle(err.Error()))
	}

	switch setting {
	case themeSetting:
		err = m.prefs.SetTheme(m.ctx, choice)
	case languageSetting:
		err = m.prefs.SetLanguage(m.ctx, choice)
	}
	if err != nil {
		return m.list.NewStatusMessage(errorMessageStyle(err.Error()))
	}

	m.refresh()
	return m.list.NewStatusMessage(statusMessageStyle("✓ " + m.selectedTitle()))
}

func (m Model) selectedTitle() string {
	if i, ok := m.list.SelectedItem().(item); ok {
		return i.title + ": " + i.description
	}
	return ""
}

// Editing reports which setting's prompt is open, if any.
func (m Model) Editing() string { return m.editing }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		h, v := appStyle.GetFrameSize()
		m.list.SetSize(msg.Width-h, msg.Height-v)
		return m, nil

	case tea.KeyMsg:
		if m.prompt != nil {
			switch {
			case key.Matches(msg, m.keys.cancel):
				m.editing, m.prompt = "", nil
				return m, nil
			case key.Matches(msg, m.keys.edit):
				return m, m.apply()
			}
			_, cmd := m.prompt.Update(msg)
			return m, cmd
		}

		switch {
		case key.Matches(msg, m.keys.quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.edit):
			if i, ok := m.list.SelectedItem().(item); ok {
				return m, m.open(i.setting)
			}
			return m, nil
		}
	}

	if m.prompt != nil {
		_, cmd := m.prompt.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.prompt != nil {
		return appStyle.Render(m.prompt.View())
	}
	return appStyle.Render(m.list.View())
}

func Run(ctx context.Context, p *prefs.Prefs) error {
	_, err := tea.NewProgram(New(ctx, p), tea.WithAltScreen()).Run()
	return err
}
