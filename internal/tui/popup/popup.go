// Package popup is the interactive search window: a query box with
// autocomplete, recent searches and a result list.
package popup

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/browser"
	"github.com/Paintersrp/sleuth/internal/history"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/internal/query"
	"github.com/Paintersrp/sleuth/internal/state"
	"github.com/Paintersrp/sleuth/internal/watcher"
)

const (
	defaultWidth  = 72
	defaultHeight = 24
	// rows taken by the header, input box and footer
	chromeHeight = 11
)

// Deps are the collaborators the popup drives.
type Deps struct {
	Engine    *query.Engine
	History   *history.Store
	Prefs     *prefs.Prefs
	Titles    func(ctx context.Context) ([]string, error)
	Watcher   *watcher.Watcher
	Heartbeat func() tea.Cmd
	Debounce  time.Duration
	Open      func(url string) error
	Copy      func(text string) error
	Logger    zerolog.Logger
	Rand      *rand.Rand
}

// FromState wires the popup to the application state.
func FromState(s *state.State) Deps {
	return Deps{
		Engine:    s.Engine,
		History:   s.History,
		Prefs:     s.Prefs,
		Titles:    s.Index.Titles,
		Watcher:   s.Watcher,
		Heartbeat: s.IndexHeartbeatCmd,
		Debounce:  s.Config.Search.Debounce,
		Open:      browser.Open,
		Copy:      clipboard.WriteAll,
		Logger:    s.Logger,
	}
}

type focus int

const (
	focusInput focus = iota
	focusResults
)

type screen int

const (
	screenIdle screen = iota
	screenLoading
	screenResults
	screenNoResults
)

type Model struct {
	ctx     context.Context
	deps    Deps
	keys    keyMap
	help    help.Model
	input   textinput.Model
	results list.Model
	styles  styles
	msgs    i18n.Messages
	empty   i18n.EmptyState

	focus   focus
	screen  screen
	outcome query.Outcome

	drop      []dropItem
	dropTitle string
	dropIdx   int
	showDrop  bool

	titles     []string
	debounceID int
	status     string
	warn       bool
	indexLine  string
	width      int
	height     int
	opened     string
}

func New(ctx context.Context, deps Deps) Model {
	if deps.Debounce <= 0 {
		deps.Debounce = 300 * time.Millisecond
	}
	if deps.Open == nil {
		deps.Open = browser.Open
	}
	if deps.Copy == nil {
		deps.Copy = clipboard.WriteAll
	}

	st := newStyles(deps.Prefs.Theme())
	msgs := i18n.For(deps.Prefs.Language())

	ti := textinput.New()
	ti.Placeholder = msgs.SearchPlaceholder
	ti.Prompt = "🔍 "
	ti.CharLimit = 200
	ti.Focus()

	l := list.New(nil, st.delegate(), 0, 0)
	l.SetShowTitle(false)
	l.SetShowStatusBar(false)
	l.SetShowHelp(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	m := Model{
		ctx:     ctx,
		deps:    deps,
		keys:    newKeyMap(),
		help:    help.New(),
		input:   ti,
		results: l,
		styles:  st,
		msgs:    msgs,
		empty:   msgs.RandomEmptyState(deps.Rand),
		dropIdx: -1,
	}
	m.resize(defaultWidth, defaultHeight)
	m.refreshDropdown()
	return m
}

// Opened returns the URL opened before the popup quit, if any.
func (m Model) Opened() string { return m.opened }

func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{
		textinput.Blink,
		loadTitlesCmd(m.ctx, m.deps.Titles),
		m.deps.Watcher.Start(),
	}
	if m.deps.Heartbeat != nil {
		cmds = append(cmds, m.deps.Heartbeat())
	}
	return tea.Batch(cmds...)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case debounceMsg:
		if msg.id != m.debounceID || strings.TrimSpace(msg.text) == "" {
			return m, nil
		}
		m.screen = screenLoading
		return m, searchCmd(m.ctx, m.deps.Engine, msg.text, false)

	case searchDoneMsg:
		return m.applyOutcome(msg)

	case titlesMsg:
		if msg.err != nil {
			m.deps.Logger.Warn().Err(msg.err).Msg("could not load bookmark titles")
			return m, nil
		}
		m.titles = msg.titles
		if m.showDrop && strings.TrimSpace(m.input.Value()) != "" {
			m.refreshDropdown()
		}
		return m, nil

	case watcher.BookmarksChangedMsg:
		cmds := []tea.Cmd{m.deps.Watcher.Start(), loadTitlesCmd(m.ctx, m.deps.Titles)}
		if text := m.input.Value(); strings.TrimSpace(text) != "" {
			m.screen = screenLoading
			cmds = append(cmds, searchCmd(m.ctx, m.deps.Engine, text, false))
		}
		return m, tea.Batch(cmds...)

	case watcher.WatcherErrMsg:
		m.deps.Logger.Warn().Err(msg.Err).Msg("bookmark watcher error")
		return m, m.deps.Watcher.Start()

	case state.IndexStatsMsg:
		m.indexLine = msg.Line
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.toggleTheme):
		theme, err := m.deps.Prefs.ToggleTheme(m.ctx)
		if err != nil {
			m.setWarning(err.Error())
			return m, nil
		}
		m.styles = newStyles(theme)
		m.results.SetDelegate(m.styles.delegate())
		m.setStatus(m.msgs.ThemeName(theme))
		return m, nil

	case key.Matches(msg, m.keys.toggleLanguage):
		return m.toggleLanguage()

	case key.Matches(msg, m.keys.clear):
		if m.showDrop && strings.TrimSpace(m.input.Value()) != "" {
			m.showDrop = false
			return m, nil
		}
		m.clearInput()
		return m, nil

	case key.Matches(msg, m.keys.deleteHistory):
		m.forgetHighlighted()
		return m, nil

	case key.Matches(msg, m.keys.copyURL):
		return m.copySelected()

	case key.Matches(msg, m.keys.up), key.Matches(msg, m.keys.down):
		return m.move(key.Matches(msg, m.keys.down), msg)

	case key.Matches(msg, m.keys.accept):
		if item, ok := m.highlighted(); ok {
			m.input.SetValue(item.text)
			m.input.CursorEnd()
			cmd := m.inputChanged()
			return m, cmd
		}
		return m, nil

	case key.Matches(msg, m.keys.submit):
		if item, ok := m.highlighted(); ok {
			m.input.SetValue(item.text)
			m.input.CursorEnd()
			return m.submit()
		}
		if m.focus == focusResults {
			return m.openSelected()
		}
		return m.submit()
	}

	if m.focus == focusResults {
		m.focus = focusInput
		m.input.Focus()
	}

	prev := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() == prev {
		return m, cmd
	}
	search := m.inputChanged()
	return m, tea.Batch(cmd, search)
}

// inputChanged refreshes the dropdown and schedules a preview search. Only
// the newest timer survives; an emptied box invalidates searches in flight.
func (m *Model) inputChanged() tea.Cmd {
	m.refreshDropdown()
	m.debounceID++

	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		m.deps.Engine.Next()
		m.resetResults()
		return nil
	}
	return debounceCmd(m.debounceID, text, m.deps.Debounce)
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	m.showDrop = false
	m.dropIdx = -1
	m.debounceID++

	text := m.input.Value()
	if strings.TrimSpace(text) != "" {
		m.screen = screenLoading
	}
	return m, searchCmd(m.ctx, m.deps.Engine, text, true)
}

func (m Model) applyOutcome(msg searchDoneMsg) (tea.Model, tea.Cmd) {
	if !m.deps.Engine.IsCurrent(msg.outcome.Seq) {
		return m, nil
	}
	// a search that started after the box was edited or cleared
	if !msg.outcome.Empty && msg.outcome.Query != strings.TrimSpace(m.input.Value()) {
		return m, nil
	}
	if msg.err != nil {
		m.screen = screenIdle
		m.setWarning(msg.err.Error())
		return m, nil
	}

	m.outcome = msg.outcome
	switch {
	case msg.outcome.Empty:
		m.resetResults()
	case msg.outcome.NoResults():
		m.screen = screenNoResults
		m.results.SetItems(nil)
	default:
		m.screen = screenResults
		m.results.SetItems(toItems(msg.outcome.Results, m.msgs, msg.outcome.Query))
		m.results.Select(0)
	}
	if msg.outcome.Partial {
		m.setWarning(m.msgs.Partial)
	} else {
		m.status = ""
	}

	if m.deps.Heartbeat != nil {
		return m, m.deps.Heartbeat()
	}
	return m, nil
}

func (m Model) toggleLanguage() (tea.Model, tea.Cmd) {
	lang, err := m.deps.Prefs.ToggleLanguage(m.ctx)
	if err != nil {
		m.setWarning(err.Error())
		return m, nil
	}

	m.msgs = i18n.For(lang)
	m.input.Placeholder = m.msgs.SearchPlaceholder
	m.empty = m.msgs.RandomEmptyState(m.deps.Rand)
	m.setStatus(m.msgs.LanguageName(lang))
	if m.showDrop {
		m.refreshDropdown()
	}

	text := m.input.Value()
	if strings.TrimSpace(text) == "" {
		return m, nil
	}
	m.debounceID++
	m.screen = screenLoading
	return m, searchCmd(m.ctx, m.deps.Engine, text, false)
}

func (m *Model) refreshDropdown() {
	m.drop = nil
	m.dropIdx = -1

	text := strings.TrimSpace(m.input.Value())
	hist := m.deps.History.List()

	if text == "" {
		m.dropTitle = m.msgs.RecentSearches
		for i, h := range hist {
			m.drop = append(m.drop, dropItem{text: h, historyIndex: i})
		}
	} else {
		m.dropTitle = m.msgs.Suggestions
		for _, s := range query.Suggest(text, hist, m.titles, m.deps.Engine.Mapping(), query.DefaultSuggestionLimit) {
			idx := -1
			if s.Kind == query.FromHistory {
				idx = indexOf(hist, s.Text)
			}
			m.drop = append(m.drop, dropItem{text: s.Text, historyIndex: idx})
		}
	}
	m.showDrop = len(m.drop) > 0
}

func (m Model) highlighted() (dropItem, bool) {
	if !m.showDrop || m.dropIdx < 0 || m.dropIdx >= len(m.drop) {
		return dropItem{}, false
	}
	return m.drop[m.dropIdx], true
}

func (m *Model) forgetHighlighted() {
	item, ok := m.highlighted()
	if !ok || !item.fromHistory() {
		return
	}
	if err := m.deps.History.Remove(m.ctx, item.historyIndex); err != nil {
		m.setWarning(err.Error())
		return
	}
	prev := m.dropIdx
	m.refreshDropdown()
	if prev >= len(m.drop) {
		prev = len(m.drop) - 1
	}
	m.dropIdx = prev
}

func (m Model) move(down bool, msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showDrop && len(m.drop) > 0 {
		if down {
			m.dropIdx = (m.dropIdx + 1) % len(m.drop)
		} else if m.dropIdx <= 0 {
			m.dropIdx = len(m.drop) - 1
		} else {
			m.dropIdx--
		}
		return m, nil
	}

	if m.screen != screenResults {
		return m, nil
	}

	if m.focus == focusInput {
		if down {
			m.focus = focusResults
			m.input.Blur()
		}
		return m, nil
	}

	if !down && m.results.Index() == 0 {
		m.focus = focusInput
		m.input.Focus()
		return m, nil
	}

	var cmd tea.Cmd
	m.results, cmd = m.results.Update(msg)
	return m, cmd
}

func (m Model) selected() (resultItem, bool) {
	if m.screen != screenResults {
		return resultItem{}, false
	}
	item, ok := m.results.SelectedItem().(resultItem)
	return item, ok
}

func (m Model) openSelected() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok || !item.rec.HasURL() {
		return m, nil
	}
	if err := m.deps.Open(item.rec.URL); err != nil {
		m.setWarning(err.Error())
		return m, nil
	}
	m.opened = item.rec.URL
	m.deps.Logger.Info().Str("url", item.rec.URL).Msg("opened bookmark")
	return m, tea.Quit
}

func (m Model) copySelected() (tea.Model, tea.Cmd) {
	item, ok := m.selected()
	if !ok {
		return m, nil
	}
	if err := m.deps.Copy(item.rec.URL); err != nil {
		m.setWarning(err.Error())
		return m, nil
	}
	m.setStatus(m.msgs.Copied)
	return m, nil
}

func (m *Model) clearInput() {
	m.input.SetValue("")
	m.focus = focusInput
	m.input.Focus()
	m.debounceID++
	m.deps.Engine.Next()
	m.resetResults()
	m.refreshDropdown()
}

func (m *Model) resetResults() {
	m.screen = screenIdle
	m.outcome = query.Outcome{}
	m.results.SetItems(nil)
	m.focus = focusInput
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	h, v := m.styles.app.GetFrameSize()
	listHeight := height - v - chromeHeight
	if listHeight < 4 {
		listHeight = 4
	}
	m.results.SetSize(width-h, listHeight)
	m.input.Width = width - h - 8
	m.help.Width = width - h
}

func (m *Model) setStatus(s string) {
	m.status = s
	m.warn = false
}

func (m *Model) setWarning(s string) {
	m.status = s
	m.warn = true
}

func (m Model) View() string {
	s := m.styles
	inner := m.width - s.app.GetHorizontalFrameSize()

	badge := s.badge.Render(fmt.Sprintf("%s %s · %s",
		themeIcon(m.deps.Prefs.Theme()),
		m.msgs.ThemeName(m.deps.Prefs.Theme()),
		m.msgs.LanguageName(m.deps.Prefs.Language()),
	))
	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		s.title.Render("🕵️ "+m.msgs.Title), " ", s.subtitle.Render(m.msgs.Subtitle), "  ", badge,
	)

	sections := []string{header, s.input.Width(inner - 2).Render(m.input.View())}
	if m.showDrop && m.focus == focusInput {
		sections = append(sections, m.dropdownView(inner-2))
	}
	sections = append(sections, m.bodyView(), m.footerView())

	return s.app.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m Model) dropdownView(width int) string {
	s := m.styles
	rows := []string{s.dropHeader.Render(m.dropTitle)}
	for i, item := range m.drop {
		line := item.text
		if item.fromHistory() {
			line = "↺ " + line
		}
		if i == m.dropIdx {
			if item.fromHistory() {
				line += "  ×"
			}
			rows = append(rows, s.dropActive.Render(line))
			continue
		}
		rows = append(rows, s.dropItem.Render(line))
	}
	return s.dropdown.Width(width).Render(strings.Join(rows, "\n"))
}

func (m Model) bodyView() string {
	s := m.styles
	switch m.screen {
	case screenLoading:
		return s.message.Render(m.msgs.Loading)
	case screenNoResults:
		return s.message.Render(m.msgs.NoResultsFor(m.outcome.Query))
	case screenResults:
		return m.results.View()
	default:
		return lipgloss.JoinVertical(lipgloss.Left,
			s.emptyIcon.Render(m.empty.Icon),
			s.message.Render(m.empty.Text),
		)
	}
}

func (m Model) footerView() string {
	s := m.styles
	var parts []string
	if m.status != "" {
		if m.warn {
			parts = append(parts, s.warning.Render(m.status))
		} else {
			parts = append(parts, s.status.Render(m.status))
		}
	}
	if m.screen == screenResults {
		parts = append(parts, s.status.Render(fmt.Sprintf("%d · %s", len(m.outcome.Results), m.outcome.Elapsed.Round(time.Millisecond))))
	}
	if m.indexLine != "" {
		parts = append(parts, s.status.Render(m.indexLine))
	}

	line := strings.Join(parts, s.status.Render("  |  "))
	return lipgloss.JoinVertical(lipgloss.Left, line, s.help.Render(m.help.View(m.keys)))
}

func themeIcon(theme string) string {
	if theme == prefs.Light {
		return "☀️"
	}
	return "🌙"
}

func indexOf(values []string, v string) int {
	for i, x := range values {
		if x == v {
			return i
		}
	}
	return -1
}
