package popup

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/history"
	"github.com/Paintersrp/sleuth/internal/i18n"
	"github.com/Paintersrp/sleuth/internal/prefs"
	"github.com/Paintersrp/sleuth/internal/query"
	"github.com/Paintersrp/sleuth/internal/search"
	"github.com/Paintersrp/sleuth/internal/store"
	"github.com/Paintersrp/sleuth/internal/watcher"
)

var testRecords = []bookmark.Record{
	{ID: "1", Title: "파일 업로드 가이드", URL: "https://example.com/upload"},
	{ID: "2", Title: "File API", URL: "https://example.com/file-api", Folder: "Dev"},
	{ID: "3", Title: "", URL: "https://blank.example.com"},
}

var testTitles = []string{"파일 업로드 가이드", "File API"}

type fixture struct {
	deps    Deps
	kv      store.KV
	history *history.Store
	prefs   *prefs.Prefs
	opened  []string
	copied  []string
}

func newFixture(t *testing.T, past ...string) *fixture {
	t.Helper()
	ctx := context.Background()

	kv := store.NewMemory()
	hist, err := history.Load(ctx, kv, history.DefaultLimit, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	for i := len(past) - 1; i >= 0; i-- {
		if err := hist.Record(ctx, past[i]); err != nil {
			t.Fatal(err)
		}
	}
	p, err := prefs.Load(ctx, kv, prefs.Defaults{Theme: prefs.Dark, Language: prefs.English}, zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}

	idx := search.NewIndex()
	idx.Build([]string{"test"}, map[string][]bookmark.Record{"test": testRecords})
	d := query.NewDispatcher(func(_ context.Context, text string) ([]bookmark.Record, error) {
		return idx.Search(search.Query{Term: text}), nil
	})
	engine := query.NewEngine(d, query.WithHistory(hist), query.WithLanguage(p.Language))

	f := &fixture{kv: kv, history: hist, prefs: p}
	f.deps = Deps{
		Engine:  engine,
		History: hist,
		Prefs:   p,
		Titles: func(context.Context) ([]string, error) {
			return testTitles, nil
		},
		Open: func(url string) error {
			f.opened = append(f.opened, url)
			return nil
		},
		Copy: func(text string) error {
			f.copied = append(f.copied, text)
			return nil
		},
		Logger: zerolog.Nop(),
	}
	return f
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	model, ok := next.(Model)
	if !ok {
		t.Fatalf("expected Model, got %T", next)
	}
	return model, cmd
}

func typeText(t *testing.T, m Model, text string) Model {
	t.Helper()
	for _, r := range text {
		m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// settle fires the pending preview search for the current text.
func settle(t *testing.T, m Model) Model {
	t.Helper()
	m, cmd := update(t, m, debounceMsg{id: m.debounceID, text: m.input.Value()})
	if cmd == nil {
		t.Fatal("expected a search command")
	}
	m, _ = update(t, m, cmd())
	return m
}

func resultURLs(m Model) []string {
	var urls []string
	for _, it := range m.results.Items() {
		urls = append(urls, it.(resultItem).rec.URL)
	}
	return urls
}

func TestDebounceOnlyLastKeystrokeSearches(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)

	m = typeText(t, m, "파")
	first := m.debounceID
	m = typeText(t, m, "일")
	if m.debounceID != first+1 {
		t.Fatalf("expected a new timer per keystroke, got %d after %d", m.debounceID, first)
	}

	m, cmd := update(t, m, debounceMsg{id: first, text: "파"})
	if cmd != nil || m.screen != screenIdle {
		t.Fatalf("stale timer should be ignored, screen=%v", m.screen)
	}

	m, cmd = update(t, m, debounceMsg{id: m.debounceID, text: "파일"})
	if m.screen != screenLoading || cmd == nil {
		t.Fatalf("expected loading with a search command, screen=%v", m.screen)
	}

	m, _ = update(t, m, cmd())
	if m.screen != screenResults {
		t.Fatalf("expected results, got screen %v", m.screen)
	}
	want := []string{"https://example.com/upload", "https://example.com/file-api"}
	if got := resultURLs(m); strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("expected %v, got %v", want, got)
	}
	if f.history.Len() != 0 {
		t.Fatalf("typing must not record history: %v", f.history.List())
	}
}

func TestStaleOutcomeDiscarded(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "file")

	older := searchCmd(context.Background(), f.deps.Engine, "file", false)()
	newer := searchCmd(context.Background(), f.deps.Engine, "file", false)()

	m, _ = update(t, m, older)
	if m.screen == screenResults {
		t.Fatal("older outcome should be dropped")
	}
	m, _ = update(t, m, newer)
	if m.screen != screenResults {
		t.Fatalf("newest outcome should apply, screen=%v", m.screen)
	}
}

func TestOutcomeForClearedInputDiscarded(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "file")

	m, cmd := update(t, m, debounceMsg{id: m.debounceID, text: "file"})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // hide dropdown
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // clear
	if m.input.Value() != "" || m.screen != screenIdle {
		t.Fatalf("expected cleared input, got %q screen=%v", m.input.Value(), m.screen)
	}

	m, _ = update(t, m, cmd())
	if m.screen != screenIdle || len(m.results.Items()) != 0 {
		t.Fatalf("results for cleared text leaked into the popup")
	}
}

func TestSubmitRecordsHistoryAndShowsNoResults(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "zzz")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenLoading || cmd == nil {
		t.Fatalf("expected loading, screen=%v", m.screen)
	}
	m, _ = update(t, m, cmd())

	if m.screen != screenNoResults {
		t.Fatalf("expected no results, screen=%v", m.screen)
	}
	if got := f.history.List(); len(got) != 1 || got[0] != "zzz" {
		t.Fatalf("expected history [zzz], got %v", got)
	}
	if view := m.View(); !strings.Contains(view, `"zzz"`) {
		t.Fatalf("expected no-results message naming the query:\n%s", view)
	}
}

func TestSubmitEmptyShowsEmptyState(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenIdle {
		t.Fatalf("empty submit should not load, screen=%v", m.screen)
	}
	m, _ = update(t, m, cmd())
	if m.screen != screenIdle || f.history.Len() != 0 {
		t.Fatalf("empty submit changed state: screen=%v history=%v", m.screen, f.history.List())
	}

	msgs := i18n.For(i18n.English)
	view := m.View()
	found := false
	for _, es := range msgs.EmptyStates {
		if strings.Contains(view, strings.Split(es.Text, "\n")[0]) {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an empty-state message:\n%s", view)
	}
}

func TestRecentSearchesDeleteAndPick(t *testing.T) {
	f := newFixture(t, "design", "docs")
	m := New(context.Background(), f.deps)

	if !m.showDrop || len(m.drop) != 2 || m.dropTitle != m.msgs.RecentSearches {
		t.Fatalf("expected recent searches on open, got %+v", m.drop)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.dropIdx != 0 {
		t.Fatalf("expected first entry highlighted, got %d", m.dropIdx)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	if got := f.history.List(); len(got) != 1 || got[0] != "docs" {
		t.Fatalf("expected design forgotten, got %v", got)
	}
	if len(m.drop) != 1 || m.dropIdx != 0 {
		t.Fatalf("dropdown not refreshed: %+v idx=%d", m.drop, m.dropIdx)
	}

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.input.Value() != "docs" || cmd == nil || m.showDrop {
		t.Fatalf("expected docs submitted, input=%q", m.input.Value())
	}
}

func TestAutocompleteSuggestions(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m, _ = update(t, m, titlesMsg{titles: testTitles})

	m = typeText(t, m, "fi")
	var texts []string
	for _, d := range m.drop {
		texts = append(texts, d.text)
	}
	joined := strings.Join(texts, "|")
	if !strings.Contains(joined, "File API") || !strings.Contains(joined, "파일") {
		t.Fatalf("expected title and keyword suggestions, got %v", texts)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	if m.input.Value() != texts[0] || cmd == nil {
		t.Fatalf("tab should complete to %q, got %q", texts[0], m.input.Value())
	}
}

func TestToggleThemePersists(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlT})
	if f.prefs.Theme() != prefs.Light {
		t.Fatalf("expected light theme, got %s", f.prefs.Theme())
	}
	stored, ok, _ := f.kv.Get(context.Background(), prefs.ThemeKey)
	if !ok || stored != prefs.Light {
		t.Fatalf("theme not persisted: %q", stored)
	}
	if m.styles.palette != lightPalette {
		t.Fatal("styles not switched to light")
	}
}

func TestToggleLanguageRerunsSearch(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd != nil {
		t.Fatal("empty input should not search on language change")
	}
	if m.msgs.Title != i18n.For(i18n.Korean).Title {
		t.Fatalf("expected korean catalog, got %q", m.msgs.Title)
	}

	m = typeText(t, m, "file")
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlL})
	if cmd == nil || m.screen != screenLoading {
		t.Fatalf("expected the search to rerun, screen=%v", m.screen)
	}
	if f.prefs.Language() != prefs.English {
		t.Fatalf("expected english, got %s", f.prefs.Language())
	}
}

func TestEnterOnResultOpensAndQuits(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "file")

	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, cmd())
	if m.screen != screenResults {
		t.Fatalf("expected results, screen=%v", m.screen)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyCtrlY})
	if len(f.copied) != 1 || f.copied[0] != "https://example.com/file-api" {
		t.Fatalf("unexpected copy %v", f.copied)
	}
	if m.status != m.msgs.Copied {
		t.Fatalf("expected copied status, got %q", m.status)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	if m.focus != focusResults {
		t.Fatal("down should move focus into the results")
	}
	m, cmd = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if len(f.opened) != 1 || f.opened[0] != "https://example.com/file-api" {
		t.Fatalf("unexpected open %v", f.opened)
	}
	if m.Opened() != "https://example.com/file-api" {
		t.Fatalf("Opened() = %q", m.Opened())
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected the popup to quit after opening")
	}
}

func TestOpenFailureKeepsPopup(t *testing.T) {
	f := newFixture(t)
	f.deps.Open = func(string) error { return errors.New("no browser") }
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "file")
	m = settle(t, m)

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc}) // close the dropdown
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if cmd != nil || !m.warn || m.status != "no browser" {
		t.Fatalf("expected warning and no quit, status=%q", m.status)
	}
}

func TestBookmarkChangeRerunsSearch(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m = typeText(t, m, "file")
	m = settle(t, m)

	m, cmd := update(t, m, watcher.BookmarksChangedMsg{Path: "/tmp/Bookmarks"})
	if cmd == nil || m.screen != screenLoading {
		t.Fatalf("expected a reload search, screen=%v", m.screen)
	}
}

func TestResultTitlesHighlightQuery(t *testing.T) {
	f := newFixture(t)
	m := New(context.Background(), f.deps)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 40})

	m = typeText(t, m, "file")
	m = settle(t, m)

	d := m.styles.delegate()
	d.mark = func(s string) string { return "[" + s + "]" }

	render := func(index int, item resultItem) string {
		var buf bytes.Buffer
		d.Render(&buf, m.results, index, item)
		return buf.String()
	}

	found := false
	for n, it := range m.results.Items() {
		item := it.(resultItem)
		if item.rec.Title != "File API" {
			continue
		}
		found = true
		if item.query != "file" {
			t.Fatalf("expected the query on the item, got %q", item.query)
		}
		if out := render(n, item); !strings.Contains(out, "[File] API") {
			t.Fatalf("expected the match highlighted, got %q", out)
		}
	}
	if !found {
		t.Fatalf("expected File API among results, got %v", resultURLs(m))
	}

	items := toItems(testRecords[:1], m.msgs, "업로드")
	if out := render(0, items[0].(resultItem)); !strings.Contains(out, "파일 [업로드] 가이드") {
		t.Fatalf("expected the korean match highlighted, got %q", out)
	}
	if title := items[0].FilterValue(); strings.Contains(title, "[") {
		t.Fatalf("filter value should stay plain, got %q", title)
	}
}
