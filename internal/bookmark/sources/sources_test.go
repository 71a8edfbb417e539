package sources

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/bookmark/chrome"
	"github.com/Paintersrp/sleuth/internal/bookmark/postgres"
	"github.com/Paintersrp/sleuth/internal/config"
)

func TestFromConfigBuildsEachType(t *testing.T) {
	home := t.TempDir()
	cfgs := []config.SourceConfig{
		{Name: "work", Type: config.SourceChrome, Browser: "Chromium"},
		{Name: "export", Type: config.SourceNetscape, Path: filepath.Join(home, "bookmarks.html")},
		{Name: "notes", Type: config.SourceMarkdown, Path: filepath.Join(home, "links.md")},
		{Name: "db", Type: config.SourcePostgres, DSN: "postgres://localhost/sleuth", Table: "public.links"},
	}

	srcs, err := FromConfig(home, cfgs)
	if err != nil {
		t.Fatalf("FromConfig: %v", err)
	}
	if len(srcs) != len(cfgs) {
		t.Fatalf("expected %d sources, got %d", len(cfgs), len(srcs))
	}
	for i, src := range srcs {
		if src.Name() != cfgs[i].Name {
			t.Errorf("source %d named %q, want %q", i, src.Name(), cfgs[i].Name)
		}
	}

	c, ok := srcs[0].(*chrome.Source)
	if !ok {
		t.Fatalf("expected chrome source, got %T", srcs[0])
	}
	if !strings.HasPrefix(c.Path(), home) || filepath.Base(c.Path()) != "Bookmarks" {
		t.Fatalf("unexpected resolved chrome path %q", c.Path())
	}
	if _, ok := srcs[3].(*postgres.Source); !ok {
		t.Fatalf("expected postgres source, got %T", srcs[3])
	}

	paths := Paths(srcs)
	if len(paths) != 3 {
		t.Fatalf("expected three watchable paths, got %v", paths)
	}
}

func TestFromConfigErrors(t *testing.T) {
	cases := []struct {
		name string
		cfg  config.SourceConfig
		is   error
	}{
		{"unknown type", config.SourceConfig{Name: "x", Type: "safari"}, bookmark.ErrUnknownSource},
		{"unknown browser", config.SourceConfig{Name: "x", Type: config.SourceChrome, Browser: "netscape"}, chrome.ErrUnknownBrowser},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := FromConfig(t.TempDir(), []config.SourceConfig{tc.cfg})
			if !errors.Is(err, tc.is) {
				t.Fatalf("expected %v, got %v", tc.is, err)
			}
		})
	}

	if _, err := FromConfig("", []config.SourceConfig{{Type: config.SourcePostgres, Table: "drop table;"}}); err == nil {
		t.Fatal("expected invalid table error")
	}
}

func TestFromConfigEmpty(t *testing.T) {
	srcs, err := FromConfig("", nil)
	if err != nil || len(srcs) != 0 {
		t.Fatalf("expected no sources, got %v, %v", srcs, err)
	}
}
