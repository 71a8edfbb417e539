// Package netscape reads the NETSCAPE-Bookmark-file-1 HTML format every
// browser exports.
package netscape

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

// Source loads a bookmarks.html export.
type Source struct {
	name string
	path string
}

func New(name, path string) *Source {
	if name == "" {
		name = "netscape"
	}
	return &Source{name: name, path: path}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Path() string { return s.path }

func (s *Source) Load(ctx context.Context) ([]bookmark.Record, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, fmt.Errorf("netscape: opening %s: %w", s.path, err)
	}
	defer f.Close()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(f, s.name)
}

// Parse tokenizes the export. Folder nesting follows the <DL> structure with
// the preceding <H3> naming each level.
func Parse(r io.Reader, source string) ([]bookmark.Record, error) {
	z := html.NewTokenizer(r)

	var (
		records   []bookmark.Record
		folders   []string
		pending   string
		inHeading bool
		heading   strings.Builder
		current   *bookmark.Record
		title     strings.Builder
	)

	folder := func() string {
		if len(folders) == 0 {
			return ""
		}
		return folders[len(folders)-1]
	}

	for {
		switch z.Next() {
		case html.ErrorToken:
			if errors.Is(z.Err(), io.EOF) {
				return records, nil
			}
			return nil, fmt.Errorf("netscape: parsing: %w", z.Err())

		case html.StartTagToken:
			tok := z.Token()
			switch tok.Data {
			case "h3":
				inHeading = true
				heading.Reset()
			case "dl":
				folders = append(folders, bookmark.JoinFolder(folder(), pending))
				pending = ""
			case "a":
				rec := bookmark.Record{
					ID:     strconv.Itoa(len(records) + 1),
					Folder: folder(),
					Source: source,
				}
				for _, attr := range tok.Attr {
					switch attr.Key {
					case "href":
						rec.URL = attr.Val
					case "add_date":
						rec.AddedAt = parseUnix(attr.Val)
					}
				}
				current = &rec
				title.Reset()
			}

		case html.TextToken:
			text := string(z.Text())
			switch {
			case inHeading:
				heading.WriteString(text)
			case current != nil:
				title.WriteString(text)
			}

		case html.EndTagToken:
			name, _ := z.TagName()
			switch string(name) {
			case "h3":
				inHeading = false
				pending = strings.TrimSpace(heading.String())
			case "dl":
				if len(folders) > 0 {
					folders = folders[:len(folders)-1]
				}
			case "a":
				if current != nil {
					current.Title = strings.TrimSpace(title.String())
					if current.HasURL() {
						records = append(records, *current)
					}
					current = nil
				}
			}
		}
	}
}

func parseUnix(raw string) time.Time {
	secs, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil || secs <= 0 {
		return time.Time{}
	}
	return time.Unix(secs, 0).UTC()
}
