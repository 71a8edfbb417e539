// Package chrome reads the Bookmarks file kept by Chromium based browsers.
package chrome

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"time"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

// ErrUnknownBrowser is returned by DefaultPath for browsers it has no layout for.
var ErrUnknownBrowser = errors.New("unknown browser")

// webkitEpochOffset is the number of seconds between 1601-01-01, the zero point
// of Chromium timestamps, and the unix epoch.
const webkitEpochOffset = 11644473600

type node struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	URL       string `json:"url"`
	DateAdded string `json:"date_added"`
	Children  []node `json:"children"`
}

type file struct {
	Roots map[string]node `json:"roots"`
}

// rootOrder mirrors the order the browser shows its top level folders in.
var rootOrder = []string{"bookmark_bar", "other", "synced"}

// Source loads a Chromium Bookmarks file.
type Source struct {
	name string
	path string
}

// New constructs a source for the Bookmarks file at path.
func New(name, path string) *Source {
	if name == "" {
		name = "chrome"
	}
	return &Source{name: name, path: path}
}

func (s *Source) Name() string { return s.name }

func (s *Source) Path() string { return s.path }

// Load parses the Bookmarks file and flattens it in display order.
func (s *Source) Load(ctx context.Context) ([]bookmark.Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return nil, fmt.Errorf("chrome: reading %s: %w", s.path, err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return Parse(data, s.name)
}

// Parse flattens the JSON document into records tagged with source.
func Parse(data []byte, source string) ([]bookmark.Record, error) {
	var f file
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("chrome: decoding bookmarks: %w", err)
	}

	var records []bookmark.Record
	for _, key := range rootOrder {
		root, ok := f.Roots[key]
		if !ok {
			continue
		}
		records = walk(root, root.Name, source, records)
	}
	return records, nil
}

func walk(n node, folder, source string, out []bookmark.Record) []bookmark.Record {
	for _, child := range n.Children {
		switch child.Type {
		case "url":
			out = append(out, bookmark.Record{
				ID:      child.ID,
				Title:   child.Name,
				URL:     child.URL,
				Folder:  folder,
				AddedAt: parseTimestamp(child.DateAdded),
				Source:  source,
			})
		case "folder":
			out = walk(child, bookmark.JoinFolder(folder, child.Name), source, out)
		}
	}
	return out
}

func parseTimestamp(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}
	micros, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || micros <= 0 {
		return time.Time{}
	}
	secs := micros/1_000_000 - webkitEpochOffset
	nanos := (micros % 1_000_000) * int64(time.Microsecond)
	return time.Unix(secs, nanos).UTC()
}

// DefaultPath returns where browser keeps the Bookmarks file of the default
// profile on the current platform.
func DefaultPath(home, browser string) (string, error) {
	return defaultPath(runtime.GOOS, home, os.Getenv("LOCALAPPDATA"), browser)
}

func defaultPath(goos, home, localAppData, browser string) (string, error) {
	type layout struct{ linux, darwin, windows []string }

	layouts := map[string]layout{
		"chrome": {
			linux:   []string{".config", "google-chrome"},
			darwin:  []string{"Library", "Application Support", "Google", "Chrome"},
			windows: []string{"Google", "Chrome", "User Data"},
		},
		"chromium": {
			linux:   []string{".config", "chromium"},
			darwin:  []string{"Library", "Application Support", "Chromium"},
			windows: []string{"Chromium", "User Data"},
		},
		"brave": {
			linux:   []string{".config", "BraveSoftware", "Brave-Browser"},
			darwin:  []string{"Library", "Application Support", "BraveSoftware", "Brave-Browser"},
			windows: []string{"BraveSoftware", "Brave-Browser", "User Data"},
		},
		"edge": {
			linux:   []string{".config", "microsoft-edge"},
			darwin:  []string{"Library", "Application Support", "Microsoft Edge"},
			windows: []string{"Microsoft", "Edge", "User Data"},
		},
	}

	l, ok := layouts[browser]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownBrowser, browser)
	}

	var parts []string
	switch goos {
	case "darwin":
		parts = append([]string{home}, l.darwin...)
	case "windows":
		base := localAppData
		if base == "" {
			base = filepath.Join(home, "AppData", "Local")
		}
		parts = append([]string{base}, l.windows...)
	default:
		parts = append([]string{home}, l.linux...)
	}
	parts = append(parts, "Default", "Bookmarks")
	return filepath.Join(parts...), nil
}
