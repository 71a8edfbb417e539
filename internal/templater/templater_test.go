package templater

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/i18n"
)

func sampleData(partial bool) TemplateData {
	results := []bookmark.Record{
		{Title: "Go Blog", URL: "https://go.dev/blog", Folder: "Dev"},
		{Title: "", URL: "https://example.com/x"},
	}
	return NewTemplateData(i18n.For(i18n.English), "blog", []string{"blog", "블로그"}, results, partial, time.Millisecond)
}

func TestEmbeddedTemplatesRender(t *testing.T) {
	tmpl, err := NewTemplater("")
	if err != nil {
		t.Fatalf("NewTemplater returned error: %v", err)
	}

	for _, name := range []string{"plain", "markdown", "urls"} {
		if !tmpl.Has(name) {
			t.Fatalf("expected embedded template %q", name)
		}
	}

	plain, err := tmpl.Execute("plain", sampleData(false))
	if err != nil {
		t.Fatalf("plain render failed: %v", err)
	}
	if !strings.Contains(plain, " 1. Go Blog") || !strings.Contains(plain, "[Dev]") {
		t.Fatalf("unexpected plain output:\n%s", plain)
	}
	if !strings.Contains(plain, "Unknown Evidence") {
		t.Fatalf("expected untitled fallback in plain output:\n%s", plain)
	}

	urls, err := tmpl.Execute("urls", sampleData(false))
	if err != nil {
		t.Fatalf("urls render failed: %v", err)
	}
	if urls != "https://go.dev/blog\nhttps://example.com/x\n" {
		t.Fatalf("unexpected urls output %q", urls)
	}

	md, err := tmpl.Execute("markdown", sampleData(true))
	if err != nil {
		t.Fatalf("markdown render failed: %v", err)
	}
	if !strings.Contains(md, "- [Go **Blog**](https://go.dev/blog)") || !strings.Contains(md, "blog · 블로그") {
		t.Fatalf("unexpected markdown output:\n%s", md)
	}
	if !strings.Contains(md, "> Some leads went cold") {
		t.Fatalf("expected partial note in markdown output:\n%s", md)
	}
}

func TestUserTemplatesTakePrecedence(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "urls.tmpl"), []byte("{{len .Results}} hits"), 0o644); err != nil {
		t.Fatalf("failed to write user template: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o644); err != nil {
		t.Fatalf("failed to write stray file: %v", err)
	}

	tmpl, err := NewTemplater(dir)
	if err != nil {
		t.Fatalf("NewTemplater returned error: %v", err)
	}

	out, err := tmpl.Execute("urls", sampleData(false))
	if err != nil {
		t.Fatalf("Execute returned error: %v", err)
	}
	if out != "2 hits" {
		t.Fatalf("expected user template output, got %q", out)
	}
	if tmpl.templates["urls"].FilePath != filepath.Join(dir, "urls.tmpl") {
		t.Fatalf("unexpected template path %q", tmpl.templates["urls"].FilePath)
	}
	if tmpl.Has("notes") {
		t.Fatal("expected non-template files to be skipped")
	}
}

func TestExecuteUnknownTemplate(t *testing.T) {
	tmpl, _ := NewTemplater("")
	if _, err := tmpl.Execute("nope", nil); !errors.Is(err, ErrTemplateNotFound) {
		t.Fatalf("expected ErrTemplateNotFound, got %v", err)
	}
}

func TestStrongMarksQueryInAnyCase(t *testing.T) {
	cases := map[string]string{
		"File API · 파일":    "**File** API · 파일",
		"파일 업로드 FILE":      "파일 업로드 **FILE**",
		"Unknown Evidence": "Unknown Evidence",
	}
	for title, want := range cases {
		if got := strong(title, "file"); got != want {
			t.Fatalf("strong(%q) = %q, want %q", title, got, want)
		}
	}

	tmpl, _ := NewTemplater("")
	data := NewTemplateData(i18n.For(i18n.Korean), "파일", nil, []bookmark.Record{{Title: "파일 업로드 가이드", URL: "https://example.com/upload"}}, false, 0)
	md, err := tmpl.Execute("markdown", data)
	if err != nil {
		t.Fatalf("markdown render failed: %v", err)
	}
	if !strings.Contains(md, "- [**파일** 업로드 가이드](https://example.com/upload)") {
		t.Fatalf("expected the query emboldened in markdown output:\n%s", md)
	}
}
