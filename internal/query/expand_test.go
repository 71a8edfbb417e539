package query

import (
	"strings"
	"testing"
)

func contains(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}

func TestExpandContainsQuery(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"파일", "  File Server ", "nothing mapped", "케이스 스터디 design"} {
		got := Expand(q, DefaultMapping())
		if len(got) == 0 || got[0] != strings.TrimSpace(q) {
			t.Fatalf("expected %q to lead expansion, got %v", strings.TrimSpace(q), got)
		}
		if max := 1 + 2*DefaultMapping().Len(); len(got) > max {
			t.Fatalf("expansion of %q exceeds %d: %v", q, max, got)
		}
	}
}

func TestExpandSubstitutesFirstOccurrence(t *testing.T) {
	t.Parallel()

	m := NewMapping(KoToEn, Pair{Ko: "파일", En: "file"})

	got := Expand("파일 목록", m)
	if !contains(got, "file 목록") {
		t.Fatalf("expected variant %q in %v", "file 목록", got)
	}

	got = Expand("파일 파일", m)
	if !contains(got, "file 파일") {
		t.Fatalf("expected only first occurrence replaced, got %v", got)
	}

	got = Expand("My FILE list", m)
	if !contains(got, "my 파일 list") {
		t.Fatalf("expected lowercase reverse variant, got %v", got)
	}
}

func TestExpandMatchesInsideWords(t *testing.T) {
	t.Parallel()

	got := Expand("파일명", DefaultMapping())
	if !contains(got, "file명") {
		t.Fatalf("expected substring match, got %v", got)
	}
}

func TestExpandEmpty(t *testing.T) {
	t.Parallel()

	for _, q := range []string{"", "   ", "\t\n"} {
		if got := Expand(q, DefaultMapping()); got != nil {
			t.Fatalf("expected nil for %q, got %v", q, got)
		}
	}
}

func TestExpandNoDuplicateVariants(t *testing.T) {
	t.Parallel()

	m := NewMapping(KoToEn, Pair{Ko: "a", En: "b"}, Pair{Ko: "a", En: "b"})
	got := Expand("a", m)
	if len(got) != 2 {
		t.Fatalf("expected two entries, got %v", got)
	}
}

func TestLookup(t *testing.T) {
	t.Parallel()

	m := DefaultMapping()
	if got, ok := m.Lookup(KoToEn, "검색"); !ok || got != "search" {
		t.Fatalf("expected search, got %q %v", got, ok)
	}
	if got, ok := m.Lookup(EnToKo, "Docs"); !ok || got != "문서" {
		t.Fatalf("expected 문서, got %q %v", got, ok)
	}
	if _, ok := m.Lookup(EnToKo, "검색"); ok {
		t.Fatal("expected no english match for a korean token")
	}
	if _, ok := m.Lookup(KoToEn, ""); ok {
		t.Fatal("expected empty token to miss")
	}
}

func TestForLanguageOrientation(t *testing.T) {
	t.Parallel()

	ko := ForLanguage("ko").Pairs()
	if ko[0] != [2]string{"케이스", "case"} {
		t.Fatalf("unexpected ko orientation %v", ko[0])
	}
	en := ForLanguage("en").Pairs()
	if en[0] != [2]string{"case", "케이스"} {
		t.Fatalf("unexpected en orientation %v", en[0])
	}
	if len(ko) != 15 || len(en) != 15 {
		t.Fatalf("expected 15 pairs, got %d and %d", len(ko), len(en))
	}
}
