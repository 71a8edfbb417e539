// Package logging builds the zerolog logger shared by every command.
//
// Logs go to a file so the TUI keeps the terminal. Verbose mode adds a
// human-readable console writer on stderr.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/config"
	"github.com/Paintersrp/sleuth/internal/constants"
)

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// ParseLevel maps a config level to zerolog, treating an empty value as info.
func ParseLevel(level string) (zerolog.Level, error) {
	level = strings.ToLower(strings.TrimSpace(level))
	if level == "" {
		return zerolog.InfoLevel, nil
	}
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return lvl, nil
}

// New opens cfg.File for appending and returns a logger writing JSON lines to
// it. The returned closer releases the file.
func New(cfg config.LogConfig, verbose bool, stderr io.Writer) (zerolog.Logger, io.Closer, error) {
	zerolog.TimeFieldFormat = time.RFC3339

	lvl, err := ParseLevel(cfg.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		writers []io.Writer
		closer  io.Closer = nopCloser{}
	)

	if cfg.File != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("create log dir: %w", err)
		}
		f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if verbose && stderr != nil {
		writers = append(writers, zerolog.ConsoleWriter{
			Out:        stderr,
			TimeFormat: time.Kitchen,
		})
	}

	if len(writers) == 0 {
		return zerolog.Nop(), closer, nil
	}

	logger := zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(lvl).
		With().
		Timestamp().
		Str("app", constants.AppName).
		Logger()
	return logger, closer, nil
}
