// Package bookmark defines the bookmark record shared by every source and the
// interface sources implement.
package bookmark

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"time"
)

// ErrUnknownSource is returned when a configured source type has no loader.
var ErrUnknownSource = errors.New("unknown bookmark source")

// Record is a saved bookmark. Records are treated as read-only values.
type Record struct {
	ID      string    `json:"id"`
	Title   string    `json:"title"`
	URL     string    `json:"url"`
	Folder  string    `json:"folder,omitempty"`
	AddedAt time.Time `json:"added_at,omitempty"`
	Source  string    `json:"source,omitempty"`
}

// Host returns the hostname of the bookmark URL, or the raw URL when it
// cannot be parsed.
func (r Record) Host() string {
	u, err := url.Parse(r.URL)
	if err != nil || u.Host == "" {
		return r.URL
	}
	return u.Hostname()
}

// HasURL reports whether the record points somewhere. Folder entries never do.
func (r Record) HasURL() bool {
	return strings.TrimSpace(r.URL) != ""
}

// Source loads every bookmark it knows about.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]Record, error)
}

// FileSource is a Source backed by a file on disk that can be watched for
// changes.
type FileSource interface {
	Source
	Path() string
}

// JoinFolder appends a folder segment to a slash separated folder path.
func JoinFolder(parent, name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return parent
	}
	if parent == "" {
		return name
	}
	return parent + "/" + name
}
