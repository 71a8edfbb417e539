// Package search holds the in-memory bookmark index the provider searches.
package search

import (
	"strings"
	"time"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

// Index stores bookmarks grouped by source, in the order sources were added
// and, within a source, in the order the source returned them.
type Index struct {
	order    []string
	bySource map[string][]bookmark.Record
}

func NewIndex() *Index {
	return &Index{bySource: make(map[string][]bookmark.Record)}
}

// Build replaces the index contents. Sources appear in the order given.
func (idx *Index) Build(sources []string, records map[string][]bookmark.Record) {
	idx.order = make([]string, 0, len(sources))
	idx.bySource = make(map[string][]bookmark.Record, len(sources))
	for _, name := range sources {
		idx.Replace(name, records[name])
	}
}

// Replace swaps the records of one source, appending the source if new.
func (idx *Index) Replace(source string, records []bookmark.Record) {
	if idx == nil {
		return
	}
	if idx.bySource == nil {
		idx.bySource = make(map[string][]bookmark.Record)
	}
	if _, ok := idx.bySource[source]; !ok {
		idx.order = append(idx.order, source)
	}
	idx.bySource[source] = append([]bookmark.Record(nil), records...)
}

// Remove deletes a source and its records.
func (idx *Index) Remove(source string) {
	if idx == nil {
		return
	}
	if _, ok := idx.bySource[source]; !ok {
		return
	}
	delete(idx.bySource, source)
	for i, name := range idx.order {
		if name == source {
			idx.order = append(idx.order[:i:i], idx.order[i+1:]...)
			break
		}
	}
}

// Len returns the number of indexed bookmarks.
func (idx *Index) Len() int {
	n := 0
	for _, recs := range idx.bySource {
		n += len(recs)
	}
	return n
}

// Counts returns the number of bookmarks per source.
func (idx *Index) Counts() map[string]int {
	out := make(map[string]int, len(idx.bySource))
	for name, recs := range idx.bySource {
		out[name] = len(recs)
	}
	return out
}

func (idx *Index) Sources() []string {
	return append([]string(nil), idx.order...)
}

// All lists every bookmark.
func (idx *Index) All() []bookmark.Record {
	out := make([]bookmark.Record, 0, idx.Len())
	for _, name := range idx.order {
		out = append(out, idx.bySource[name]...)
	}
	return out
}

// Titles returns the distinct non-empty titles, used as the autocomplete corpus.
func (idx *Index) Titles() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, rec := range idx.All() {
		title := strings.TrimSpace(rec.Title)
		if title == "" {
			continue
		}
		if _, ok := seen[title]; ok {
			continue
		}
		seen[title] = struct{}{}
		out = append(out, title)
	}
	return out
}

// Search returns bookmarks whose title or URL contains every word of the
// term, ignoring case. There is no ranking; index order is kept. An empty
// term matches nothing.
func (idx *Index) Search(q Query) []bookmark.Record {
	terms := strings.Fields(strings.ToLower(q.Term))
	if len(terms) == 0 || len(idx.bySource) == 0 {
		return nil
	}

	results := make([]bookmark.Record, 0)
	for _, name := range idx.order {
		if !wantSource(q.Sources, name) {
			continue
		}
		for _, rec := range idx.bySource[name] {
			if !addedSince(rec, q.Since) {
				continue
			}
			if matches(rec, terms) {
				results = append(results, rec)
			}
		}
	}
	return results
}

// Filter returns every bookmark added at or after since.
func (idx *Index) Filter(since time.Time) []bookmark.Record {
	out := make([]bookmark.Record, 0)
	for _, rec := range idx.All() {
		if addedSince(rec, since) {
			out = append(out, rec)
		}
	}
	return out
}

// Clone returns a copy that can be read without holding the owner's lock.
func (idx *Index) Clone() *Index {
	if idx == nil {
		return nil
	}

	clone := &Index{
		order:    append([]string(nil), idx.order...),
		bySource: make(map[string][]bookmark.Record, len(idx.bySource)),
	}
	for name, recs := range idx.bySource {
		clone.bySource[name] = append([]bookmark.Record(nil), recs...)
	}
	return clone
}

func matches(rec bookmark.Record, terms []string) bool {
	title := strings.ToLower(rec.Title)
	url := strings.ToLower(rec.URL)
	for _, term := range terms {
		if !strings.Contains(title, term) && !strings.Contains(url, term) {
			return false
		}
	}
	return true
}

func addedSince(rec bookmark.Record, since time.Time) bool {
	if since.IsZero() || rec.AddedAt.IsZero() {
		return true
	}
	return !rec.AddedAt.Before(since)
}

func wantSource(allowed []string, name string) bool {
	if len(allowed) == 0 {
		return true
	}
	for _, a := range allowed {
		if a == name {
			return true
		}
	}
	return false
}
