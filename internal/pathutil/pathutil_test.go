package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestNormalizePathHandlesWindowsSeparators(t *testing.T) {
	got := NormalizePath(`bookmarks\export\\links.html`)
	want := filepath.Join("bookmarks", "export", "links.html")
	if got != want {
		t.Fatalf("NormalizePath = %q, want %q", got, want)
	}
	if NormalizePath("") != "" {
		t.Fatal("expected empty input to stay empty")
	}
}

func TestExpandHome(t *testing.T) {
	home := filepath.Join("home", "user")

	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"~", home},
		{"~/links.md", filepath.Join(home, "links.md")},
		{`~\exports\b.html`, filepath.Join(home, "exports", "b.html")},
		{"  /tmp/a/../b.md ", filepath.Clean("/tmp/b.md")},
		{"~other/file", filepath.Join("~other", "file")},
	}

	for _, tt := range tests {
		if got := ExpandHome(tt.in, home); got != tt.want {
			t.Errorf("ExpandHome(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSameResolvesRelativePaths(t *testing.T) {
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}

	if !Same("links.md", filepath.Join(wd, "links.md")) {
		t.Fatal("expected a relative path to match its absolute form")
	}
	if !Same(filepath.Join(wd, "a", "..", "links.md"), "./links.md") {
		t.Fatal("expected dot segments to be cleaned")
	}
	if Same("links.md", "other.md") {
		t.Fatal("expected different files to differ")
	}
	if Same("", "") {
		t.Fatal("expected empty paths never to match")
	}
}
