// Package store persists small string values such as the search history and
// the theme and language preferences.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/config"
)

// ErrClosed is returned by operations on a closed store.
var ErrClosed = errors.New("store closed")

// KV is a flat string key-value store.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open builds the backend selected in cfg.
func Open(cfg config.StoreConfig, logger zerolog.Logger) (KV, error) {
	switch cfg.Backend {
	case config.BackendFile, "":
		f, err := OpenFile(cfg.Path, logger)
		if err != nil {
			return nil, err
		}
		return f, nil
	case config.BackendRedis:
		r, err := OpenRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return r, nil
	case config.BackendMemory:
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
