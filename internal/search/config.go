package search

import "time"

// Query represents a search request against the index.
type Query struct {
	// Term is split on whitespace; every word must appear in the title or URL.
	Term string
	// Since drops bookmarks added before it. Records without a date are kept.
	Since time.Time
	// Sources limits matches to the named sources when non-empty.
	Sources []string
}
