package state

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"

	"github.com/Paintersrp/sleuth/internal/config"
)

const links = `# Dev

- [파일 업로드 가이드](https://example.com/upload)
- [File API reference](https://example.com/file-api)
- [Weekly news](https://news.example.com)
`

func writeHome(t *testing.T, cfg string) string {
	t.Helper()

	home := t.TempDir()
	if err := os.WriteFile(filepath.Join(home, "links.md"), []byte(links), 0o644); err != nil {
		t.Fatal(err)
	}
	dir := config.GetConfigDir(home)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(config.GetConfigPath(home), []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	return home
}

func TestNewStateWiresSearch(t *testing.T) {
	home := writeHome(t, `
sources:
  - name: notes
    type: markdown
    path: ~/links.md
language: ko
store:
  backend: file
log:
  level: debug
`)

	st, err := NewState(context.Background(), Options{Home: home, Watch: true})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer st.Close()

	if st.Prefs.Language() != config.LangKorean {
		t.Fatalf("expected korean from config, got %q", st.Prefs.Language())
	}
	if st.Messages().Title == "" {
		t.Fatal("expected a message catalog")
	}
	if st.Watcher == nil {
		t.Fatal("expected a watcher on the markdown file")
	}

	out, err := st.Engine.Submit(context.Background(), "파일")
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(out.Results) != 2 {
		t.Fatalf("expected both file bookmarks, got %+v", out.Results)
	}
	if got := st.History.List(); len(got) != 1 || got[0] != "파일" {
		t.Fatalf("expected history to record the query, got %v", got)
	}

	if err := st.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	if _, err := os.Stat(st.Config.Store.Path); err != nil {
		t.Fatalf("expected persisted state file: %v", err)
	}
	if _, err := os.Stat(st.Config.Log.File); err != nil {
		t.Fatalf("expected log file: %v", err)
	}
}

func TestNewStatePreferenceFlags(t *testing.T) {
	home := writeHome(t, "store:\n  backend: memory\n")

	v := viper.New()
	v.Set("theme_flag", "light")
	v.Set("lang_flag", "ko")

	st, err := NewState(context.Background(), Options{Home: home, Viper: v})
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	defer st.Close()

	if st.Prefs.Theme() != "light" || st.Prefs.Language() != "ko" {
		t.Fatalf("flags not applied: %s/%s", st.Prefs.Theme(), st.Prefs.Language())
	}
	if st.Watcher != nil {
		t.Fatal("watcher should be off unless requested")
	}
}

func TestNewStateRejectsBadSource(t *testing.T) {
	home := writeHome(t, "store:\n  backend: memory\nsources:\n  - type: chrome\n    browser: lynx\n")

	if _, err := NewState(context.Background(), Options{Home: home}); err == nil {
		t.Fatal("expected unknown browser to fail")
	}
}

func TestCloseNil(t *testing.T) {
	var st *State
	if err := st.Close(); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}
}
