package popup

import (
	"github.com/charmbracelet/bubbles/list"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/i18n"
)

type resultItem struct {
	rec   bookmark.Record
	title string
	// query is highlighted in the title when the row is drawn.
	query   string
	display string
}

func (i resultItem) Title() string {
	if i.display != "" {
		return i.display
	}
	return i.title
}

func (i resultItem) Description() string {
	host := i.rec.Host()
	if i.rec.Folder == "" {
		return host
	}
	return host + " · " + i.rec.Folder
}

func (i resultItem) FilterValue() string { return i.title + " " + i.rec.URL }

func toItems(records []bookmark.Record, msgs i18n.Messages, query string) []list.Item {
	items := make([]list.Item, len(records))
	for n, rec := range records {
		items[n] = resultItem{rec: rec, title: msgs.TitleOr(rec.Title), query: query}
	}
	return items
}

// dropItem is one row of the autocomplete dropdown. History rows remember
// their position so they can be forgotten.
type dropItem struct {
	text         string
	historyIndex int
}

func (d dropItem) fromHistory() bool { return d.historyIndex >= 0 }
