// Package sources turns the configured source list into bookmark loaders.
package sources

import (
	"fmt"
	"strings"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/bookmark/chrome"
	"github.com/Paintersrp/sleuth/internal/bookmark/markdown"
	"github.com/Paintersrp/sleuth/internal/bookmark/netscape"
	"github.com/Paintersrp/sleuth/internal/bookmark/postgres"
	"github.com/Paintersrp/sleuth/internal/config"
)

// FromConfig builds one Source per entry, in order. A chrome entry without a
// path resolves the default profile of its browser.
func FromConfig(home string, cfgs []config.SourceConfig) ([]bookmark.Source, error) {
	out := make([]bookmark.Source, 0, len(cfgs))
	for _, c := range cfgs {
		src, err := build(home, c)
		if err != nil {
			return nil, fmt.Errorf("source %q: %w", c.Name, err)
		}
		out = append(out, src)
	}
	return out, nil
}

func build(home string, c config.SourceConfig) (bookmark.Source, error) {
	name := c.Name
	if name == "" {
		name = c.Type
	}

	switch strings.ToLower(c.Type) {
	case config.SourceChrome:
		path := c.Path
		if path == "" {
			resolved, err := chrome.DefaultPath(home, strings.ToLower(c.Browser))
			if err != nil {
				return nil, err
			}
			path = resolved
		}
		return chrome.New(name, path), nil
	case config.SourceNetscape:
		return netscape.New(name, c.Path), nil
	case config.SourceMarkdown:
		return markdown.New(name, c.Path), nil
	case config.SourcePostgres:
		return postgres.New(name, c.DSN, c.Table)
	default:
		return nil, fmt.Errorf("%w: %q", bookmark.ErrUnknownSource, c.Type)
	}
}

// Paths returns the files behind file-backed sources.
func Paths(srcs []bookmark.Source) []string {
	var paths []string
	for _, src := range srcs {
		if fs, ok := src.(bookmark.FileSource); ok && fs.Path() != "" {
			paths = append(paths, fs.Path())
		}
	}
	return paths
}
