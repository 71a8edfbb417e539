// Package fzf lets the user pick one bookmark with a fuzzy finder.
package fzf

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/muesli/termenv"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/i18n"
)

// ErrNoSelection is returned when the finder is closed without a pick.
var ErrNoSelection = errors.New("no bookmark selected")

// FuzzyFinder encapsulates the fuzzy finder functionality
type FuzzyFinder struct {
	Header   string
	Style    string
	messages i18n.Messages
	records  []bookmark.Record
	renderer *glamour.TermRenderer

	// find is swapped in tests.
	find func(records []bookmark.Record, label func(int) string, opts ...fuzzyfinder.Option) (int, error)
}

func NewFuzzyFinder(records []bookmark.Record, header string, msgs i18n.Messages) *FuzzyFinder {
	return &FuzzyFinder{
		Header:   header,
		Style:    "dracula",
		messages: msgs,
		records:  records,
		find: func(records []bookmark.Record, label func(int) string, opts ...fuzzyfinder.Option) (int, error) {
			return fuzzyfinder.Find(records, label, opts...)
		},
	}
}

// Run shows the finder seeded with query and returns the chosen bookmark.
func (f *FuzzyFinder) Run(query string) (bookmark.Record, error) {
	if len(f.records) == 0 {
		return bookmark.Record{}, ErrNoSelection
	}

	options := []fuzzyfinder.Option{
		fuzzyfinder.WithPreviewWindow(f.renderPreview),
	}
	if query != "" {
		options = append(options, fuzzyfinder.WithQuery(query))
	}
	if f.Header != "" {
		options = append(options, fuzzyfinder.WithHeader(f.Header))
	}

	idx, err := f.find(f.records, f.Label, options...)
	if err != nil {
		if errors.Is(err, fuzzyfinder.ErrAbort) {
			return bookmark.Record{}, ErrNoSelection
		}
		return bookmark.Record{}, fmt.Errorf("error selecting bookmark: %w", err)
	}
	if idx < 0 || idx >= len(f.records) {
		return bookmark.Record{}, ErrNoSelection
	}
	return f.records[idx], nil
}

// Label is the line shown for record i.
func (f *FuzzyFinder) Label(i int) string {
	rec := f.records[i]
	title := f.messages.TitleOr(rec.Title)
	if rec.Folder == "" {
		return fmt.Sprintf("%s  (%s)", title, rec.Host())
	}
	return fmt.Sprintf("%s  (%s) [%s]", title, rec.Host(), rec.Folder)
}

// Preview renders record i as markdown.
func (f *FuzzyFinder) Preview(i int) string {
	if i < 0 || i >= len(f.records) {
		return ""
	}
	rec := f.records[i]

	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", f.messages.TitleOr(rec.Title))
	fmt.Fprintf(&b, "<%s>\n\n", rec.URL)
	if rec.Folder != "" {
		fmt.Fprintf(&b, "- folder: `%s`\n", rec.Folder)
	}
	if rec.Source != "" {
		fmt.Fprintf(&b, "- source: `%s`\n", rec.Source)
	}
	if !rec.AddedAt.IsZero() {
		fmt.Fprintf(&b, "- added: %s\n", rec.AddedAt.Local().Format("2006-01-02 15:04"))
	}
	return b.String()
}

func (f *FuzzyFinder) renderPreview(i, w, h int) string {
	content := f.Preview(i)
	if content == "" {
		return ""
	}

	if f.renderer == nil {
		r, err := glamour.NewTermRenderer(
			glamour.WithStandardStyle(f.Style),
			glamour.WithWordWrap(100),
			glamour.WithColorProfile(termenv.ANSI256),
		)
		if err != nil {
			return content
		}
		f.renderer = r
	}

	rendered, err := f.renderer.Render(content)
	if err != nil {
		return content
	}
	return rendered
}
