package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/Paintersrp/sleuth/internal/config"
)

func writeConfig(t *testing.T, home string, data map[string]any) {
	t.Helper()

	configPath := config.GetConfigPath(home)
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("failed to create config directory: %v", err)
	}

	raw, err := yaml.Marshal(data)
	if err != nil {
		t.Fatalf("failed to marshal config data: %v", err)
	}

	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
}

func TestEnsureConfigExistsCreatesDefaults(t *testing.T) {
	home := t.TempDir()

	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Theme != config.ThemeDark {
		t.Fatalf("expected dark theme, got %q", cfg.Theme)
	}
	if cfg.Language != config.LangEnglish {
		t.Fatalf("expected english, got %q", cfg.Language)
	}
	if cfg.History.Limit != config.DefaultHistoryLimit {
		t.Fatalf("expected history limit %d, got %d", config.DefaultHistoryLimit, cfg.History.Limit)
	}
	if cfg.Search.Debounce != 300*time.Millisecond || cfg.Search.QueryTimeout != 2*time.Second {
		t.Fatalf("unexpected search defaults %+v", cfg.Search)
	}
	if cfg.Store.Backend != config.BackendFile {
		t.Fatalf("expected file backend, got %q", cfg.Store.Backend)
	}
	wantState := filepath.Join(home, ".sleuth", "state.yaml")
	if cfg.Store.Path != wantState {
		t.Fatalf("expected store path %q, got %q", wantState, cfg.Store.Path)
	}
}

func TestLoadParsesSourcesAndDurations(t *testing.T) {
	home := t.TempDir()
	writeConfig(t, home, map[string]any{
		"theme":    "Light",
		"language": "ko",
		"history":  map[string]any{"limit": 10},
		"search":   map[string]any{"debounce": "400ms", "query_timeout": "1s", "max_parallel": 4},
		"sources": []map[string]any{
			{"type": "chrome", "browser": "brave"},
			{"name": "exports", "type": "netscape", "path": "~/bookmarks.html"},
			{"name": "links", "type": "postgres", "dsn": "postgres://localhost/links"},
		},
	})

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if cfg.Theme != "light" || cfg.Language != "ko" {
		t.Fatalf("unexpected theme/language %q/%q", cfg.Theme, cfg.Language)
	}
	if cfg.History.Limit != 10 {
		t.Fatalf("expected limit 10, got %d", cfg.History.Limit)
	}
	if cfg.Search.Debounce != 400*time.Millisecond || cfg.Search.QueryTimeout != time.Second {
		t.Fatalf("unexpected durations %+v", cfg.Search)
	}
	if cfg.Search.MaxParallel != 4 {
		t.Fatalf("expected max_parallel 4, got %d", cfg.Search.MaxParallel)
	}
	if len(cfg.Sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(cfg.Sources))
	}
	if cfg.Sources[0].Name != "chrome" {
		t.Fatalf("expected source name to default to type, got %q", cfg.Sources[0].Name)
	}
	if want := filepath.Join(home, "bookmarks.html"); cfg.Sources[1].Path != want {
		t.Fatalf("expected expanded path %q, got %q", want, cfg.Sources[1].Path)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := map[string]map[string]any{
		"theme":         {"theme": "sepia"},
		"language":      {"language": "fr"},
		"history":       {"history": map[string]any{"limit": 51}},
		"backend":       {"store": map[string]any{"backend": "sqlite"}},
		"redis address": {"store": map[string]any{"backend": "redis"}},
		"source type":   {"sources": []map[string]any{{"type": "safari", "path": "/tmp/x"}}},
		"source path":   {"sources": []map[string]any{{"type": "markdown"}}},
		"duplicate": {"sources": []map[string]any{
			{"name": "a", "type": "markdown", "path": "/tmp/a.md"},
			{"name": "a", "type": "netscape", "path": "/tmp/a.html"},
		}},
	}

	for name, data := range cases {
		data := data
		t.Run(name, func(t *testing.T) {
			home := t.TempDir()
			writeConfig(t, home, data)

			_, err := config.Load(home)
			var verr *config.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestSetThemeAndLanguagePersist(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}

	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	if err := cfg.SetTheme("light"); err != nil {
		t.Fatalf("SetTheme returned error: %v", err)
	}
	if err := cfg.SetLanguage("ko"); err != nil {
		t.Fatalf("SetLanguage returned error: %v", err)
	}
	if err := cfg.SetLanguage("de"); err == nil {
		t.Fatal("expected unsupported language to fail")
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if reloaded.Theme != "light" || reloaded.Language != "ko" {
		t.Fatalf("expected persisted values, got %q/%q", reloaded.Theme, reloaded.Language)
	}
}

func TestAddSource(t *testing.T) {
	home := t.TempDir()
	if err := config.EnsureConfigExists(home); err != nil {
		t.Fatalf("EnsureConfigExists returned error: %v", err)
	}
	cfg, err := config.Load(home)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}

	src := config.SourceConfig{Type: "markdown", Path: filepath.Join(home, "links.md")}
	if err := cfg.AddSource(src); err != nil {
		t.Fatalf("AddSource returned error: %v", err)
	}
	if err := cfg.AddSource(src); err == nil {
		t.Fatal("expected duplicate source to fail")
	}

	reloaded, err := config.Load(home)
	if err != nil {
		t.Fatalf("reload returned error: %v", err)
	}
	if len(reloaded.Sources) != 1 || reloaded.Sources[0].Name != "markdown" {
		t.Fatalf("unexpected sources %+v", reloaded.Sources)
	}
}

func TestApplyOverrides(t *testing.T) {
	cfg := config.Default(t.TempDir())

	v := viper.New()
	v.Set("language", "KO")
	v.Set("theme", "light")
	v.Set("search.query_timeout", "500ms")

	if err := cfg.ApplyOverrides(v); err != nil {
		t.Fatalf("ApplyOverrides returned error: %v", err)
	}
	if cfg.Language != "ko" || cfg.Theme != "light" {
		t.Fatalf("unexpected overrides %q/%q", cfg.Language, cfg.Theme)
	}
	if cfg.Search.QueryTimeout != 500*time.Millisecond {
		t.Fatalf("expected 500ms timeout, got %v", cfg.Search.QueryTimeout)
	}

	v.Set("theme", "neon")
	if err := cfg.ApplyOverrides(v); err == nil {
		t.Fatal("expected invalid override to fail")
	}
}
