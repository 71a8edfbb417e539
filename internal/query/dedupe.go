package query

import "github.com/Paintersrp/sleuth/internal/bookmark"

// Dedupe drops every record whose URL was already seen, keeping the first.
func Dedupe(records []bookmark.Record) []bookmark.Record {
	if len(records) == 0 {
		return []bookmark.Record{}
	}

	seen := make(map[string]struct{}, len(records))
	out := make([]bookmark.Record, 0, len(records))
	for _, rec := range records {
		if _, ok := seen[rec.URL]; ok {
			continue
		}
		seen[rec.URL] = struct{}{}
		out = append(out, rec)
	}
	return out
}
