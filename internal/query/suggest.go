package query

import "strings"

// DefaultSuggestionLimit matches the size of the autocomplete dropdown.
const DefaultSuggestionLimit = 5

// SuggestionKind says where a suggestion came from.
type SuggestionKind string

const (
	FromHistory  SuggestionKind = "history"
	FromBookmark SuggestionKind = "bookmark"
	FromMapping  SuggestionKind = "mapping"
)

type Suggestion struct {
	Text string
	Kind SuggestionKind
}

// Suggest completes text from past searches, then bookmark titles, then the
// counterpart of each side of a keyword pair containing it. Results are unique and
// capped at limit (DefaultSuggestionLimit when limit <= 0).
func Suggest(text string, history, titles []string, m Mapping, limit int) []Suggestion {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if limit <= 0 {
		limit = DefaultSuggestionLimit
	}

	needle := strings.ToLower(text)
	seen := map[string]struct{}{needle: {}}
	var out []Suggestion

	add := func(candidate string, kind SuggestionKind) bool {
		candidate = strings.TrimSpace(candidate)
		key := strings.ToLower(candidate)
		if candidate == "" {
			return false
		}
		if _, ok := seen[key]; ok {
			return false
		}
		seen[key] = struct{}{}
		out = append(out, Suggestion{Text: candidate, Kind: kind})
		return len(out) >= limit
	}

	for _, h := range history {
		if strings.Contains(strings.ToLower(h), needle) && add(h, FromHistory) {
			return out
		}
	}
	for _, title := range titles {
		if strings.Contains(strings.ToLower(title), needle) && add(title, FromBookmark) {
			return out
		}
	}
	for _, p := range m.Pairs() {
		if strings.Contains(strings.ToLower(p[0]), needle) && add(p[1], FromMapping) {
			return out
		}
		if strings.Contains(strings.ToLower(p[1]), needle) && add(p[0], FromMapping) {
			return out
		}
	}
	return out
}
