package query

import "strings"

// Expand returns the query followed by every variant produced by swapping
// the first occurrence of a mapped keyword for its counterpart. Each pair is
// tried forward then in reverse. Matching is a case-insensitive substring
// test, so "파일명" still yields "file명". An empty query yields nil.
func Expand(q string, m Mapping) []string {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	out := []string{q}
	lower := strings.ToLower(q)

	add := func(src, tgt string) {
		if src == "" || !strings.Contains(lower, strings.ToLower(src)) {
			return
		}
		candidate := strings.Replace(lower, strings.ToLower(src), tgt, 1)
		for _, existing := range out {
			if existing == candidate {
				return
			}
		}
		out = append(out, candidate)
	}

	for _, p := range m.Pairs() {
		add(p[0], p[1])
		add(p[1], p[0])
	}
	return out
}
