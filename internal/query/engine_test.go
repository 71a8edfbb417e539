package query

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

type memoryRecorder struct {
	mu      sync.Mutex
	entries []string
	err     error
}

func (m *memoryRecorder) Record(ctx context.Context, q string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.entries = append(m.entries, q)
	return nil
}

func TestEngineBilingualScenario(t *testing.T) {
	t.Parallel()

	provider := fixedProvider(map[string][]bookmark.Record{
		"파일": {{Title: "A", URL: "http://x"}},
		"file": {{Title: "A", URL: "http://x"}, {Title: "B", URL: "http://y"}},
	})
	history := &memoryRecorder{}
	engine := NewEngine(NewDispatcher(provider),
		WithHistory(history),
		WithLanguage(func() string { return "ko" }),
	)

	out, err := engine.Submit(context.Background(), "파일")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected 2 results, got %v", out.Results)
	}
	counts := map[string]int{}
	for _, r := range out.Results {
		counts[r.URL]++
	}
	if counts["http://x"] != 1 || counts["http://y"] != 1 {
		t.Fatalf("unexpected results %v", out.Results)
	}
	if out.Expanded[0] != "파일" || !contains(out.Expanded, "file") {
		t.Fatalf("unexpected expansion %v", out.Expanded)
	}
	if len(history.entries) != 1 || history.entries[0] != "파일" {
		t.Fatalf("expected history to record the query, got %v", history.entries)
	}
	if !engine.IsCurrent(out.Seq) {
		t.Fatal("expected latest outcome to be current")
	}
}

func TestEngineEmptyQuery(t *testing.T) {
	t.Parallel()

	called := false
	history := &memoryRecorder{}
	engine := NewEngine(NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		called = true
		return nil, nil
	}), WithHistory(history))

	for _, q := range []string{"", "   "} {
		out, err := engine.Submit(context.Background(), q)
		if err != nil {
			t.Fatalf("Submit returned error: %v", err)
		}
		if !out.Empty || out.NoResults() {
			t.Fatalf("expected empty outcome, got %+v", out)
		}
	}
	if called {
		t.Fatal("expected no dispatch for empty query")
	}
	if len(history.entries) != 0 {
		t.Fatalf("expected history untouched, got %v", history.entries)
	}
}

func TestEnginePreviewSkipsHistory(t *testing.T) {
	t.Parallel()

	history := &memoryRecorder{}
	engine := NewEngine(NewDispatcher(fixedProvider(nil)), WithHistory(history))

	out, err := engine.Preview(context.Background(), "docs")
	if err != nil {
		t.Fatalf("Preview returned error: %v", err)
	}
	if !out.NoResults() {
		t.Fatalf("expected no results, got %+v", out)
	}
	if len(history.entries) != 0 {
		t.Fatalf("expected preview to leave history alone, got %v", history.entries)
	}
}

func TestEngineSequenceTokens(t *testing.T) {
	t.Parallel()

	engine := NewEngine(NewDispatcher(fixedProvider(nil)))

	first, _ := engine.Preview(context.Background(), "a")
	second, _ := engine.Preview(context.Background(), "b")

	if second.Seq <= first.Seq {
		t.Fatalf("expected increasing tokens, got %d then %d", first.Seq, second.Seq)
	}
	if engine.IsCurrent(first.Seq) {
		t.Fatal("expected first outcome to be stale")
	}
	if !engine.IsCurrent(second.Seq) {
		t.Fatal("expected second outcome to be current")
	}
}

func TestEngineDropsFoldersAndCaps(t *testing.T) {
	t.Parallel()

	provider := fixedProvider(map[string][]bookmark.Record{
		"dev": {{Title: "Folder"}, {URL: "1"}, {URL: "2"}, {URL: "3"}},
	})
	engine := NewEngine(NewDispatcher(provider), WithMaxResults(2))

	out, err := engine.Submit(context.Background(), "dev")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(out.Results) != 2 || out.Results[0].URL != "1" {
		t.Fatalf("unexpected results %v", out.Results)
	}
}

func TestEngineHistoryFailureDoesNotAbort(t *testing.T) {
	t.Parallel()

	provider := fixedProvider(map[string][]bookmark.Record{"go": {{URL: "https://go.dev"}}})
	engine := NewEngine(NewDispatcher(provider), WithHistory(&memoryRecorder{err: errors.New("disk full")}))

	out, err := engine.Submit(context.Background(), "go")
	if err != nil {
		t.Fatalf("Submit returned error: %v", err)
	}
	if len(out.Results) != 1 {
		t.Fatalf("expected search to continue, got %v", out.Results)
	}
}
