package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// File keeps every value in a single yaml document, rewritten on each change.
type File struct {
	path   string
	mu     sync.Mutex
	values map[string]string
	closed bool
}

// OpenFile loads path. A missing file starts empty; an unreadable document is
// logged and also treated as empty so a corrupt state file never blocks startup.
func OpenFile(path string, logger zerolog.Logger) (*File, error) {
	if path == "" {
		return nil, errors.New("file store needs a path")
	}

	f := &File{path: path, values: make(map[string]string)}

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		return f, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read state file: %w", err)
	}

	if err := yaml.Unmarshal(data, &f.values); err != nil {
		logger.Warn().Err(err).Str("path", path).Msg("state file is malformed, starting empty")
		f.values = make(map[string]string)
	}
	if f.values == nil {
		f.values = make(map[string]string)
	}
	return f, nil
}

func (f *File) Path() string { return f.path }

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return "", false, ErrClosed
	}
	v, ok := f.values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	f.values[key] = value
	return f.flush()
}

func (f *File) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return ErrClosed
	}
	if _, ok := f.values[key]; !ok {
		return nil
	}
	delete(f.values, key)
	return f.flush()
}

func (f *File) Close() error {
	f.mu.Lock()
	f.closed = true
	f.mu.Unlock()
	return nil
}

// flush writes to a temp file in the same directory and renames it over the
// state file so readers never observe a half-written document.
func (f *File) flush() error {
	data, err := yaml.Marshal(f.values)
	if err != nil {
		return err
	}

	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create state directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".state-*.yaml")
	if err != nil {
		return fmt.Errorf("failed to create temp state file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("failed to write state file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, f.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("failed to replace state file: %w", err)
	}
	return nil
}
