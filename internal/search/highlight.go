package search

import (
	"strings"
	"unicode"
)

// Highlight passes every case-insensitive occurrence of term in text through
// mark and the text between them through plain. Matches do not overlap. A nil
// plain leaves the unmatched text as is.
func Highlight(text, term string, mark, plain func(string) string) string {
	term = strings.TrimSpace(term)
	if term == "" || mark == nil {
		return text
	}
	if plain == nil {
		plain = func(s string) string { return s }
	}

	src := []rune(text)
	folded := fold(src)
	needle := fold([]rune(term))

	var b strings.Builder
	last := 0
	for i := 0; i+len(needle) <= len(folded); {
		if !equalRunes(folded[i:i+len(needle)], needle) {
			i++
			continue
		}
		if i > last {
			b.WriteString(plain(string(src[last:i])))
		}
		b.WriteString(mark(string(src[i : i+len(needle)])))
		i += len(needle)
		last = i
	}
	if last < len(src) {
		b.WriteString(plain(string(src[last:])))
	}
	return b.String()
}

// fold lowers rune by rune so indexes line up with the original text.
func fold(rs []rune) []rune {
	out := make([]rune, len(rs))
	for i, r := range rs {
		out[i] = unicode.ToLower(r)
	}
	return out
}

func equalRunes(a, b []rune) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
