// Package history keeps the most recent searches, newest first.
package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/store"
)

// Key is the store key holding the JSON encoded list.
const Key = "searchHistory"

const DefaultLimit = 5

var ErrIndexOutOfRange = errors.New("history index out of range")

type Store struct {
	kv     store.KV
	limit  int
	logger zerolog.Logger

	mu      sync.RWMutex
	entries []string
}

// Load reads the history from kv once. A missing or undecodable value gives
// an empty history.
func Load(ctx context.Context, kv store.KV, limit int, logger zerolog.Logger) (*Store, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s := &Store{kv: kv, limit: limit, logger: logger}

	raw, ok, err := kv.Get(ctx, Key)
	if err != nil {
		return nil, fmt.Errorf("failed to read search history: %w", err)
	}
	if !ok || strings.TrimSpace(raw) == "" {
		return s, nil
	}

	var entries []string
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		logger.Warn().Err(err).Msg("search history is malformed, starting empty")
		return s, nil
	}

	s.entries = normalize(entries, limit)
	return s, nil
}

// normalize drops blanks and repeats, keeping the first (most recent) copy.
func normalize(entries []string, limit int) []string {
	out := make([]string, 0, len(entries))
	seen := make(map[string]struct{}, len(entries))
	for _, e := range entries {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
		if len(out) == limit {
			break
		}
	}
	return out
}

func (s *Store) Limit() int { return s.limit }

// List returns a copy of the entries, most recent first.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.entries...)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// Record moves q to the front, evicting the oldest entry past the limit.
func (s *Store) Record(ctx context.Context, q string) error {
	q = strings.TrimSpace(q)
	if q == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	next := make([]string, 0, len(s.entries)+1)
	next = append(next, q)
	for _, e := range s.entries {
		if e != q {
			next = append(next, e)
		}
	}
	if len(next) > s.limit {
		next = next[:s.limit]
	}
	return s.commit(ctx, next)
}

// Remove deletes the entry at index.
func (s *Store) Remove(ctx context.Context, index int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if index < 0 || index >= len(s.entries) {
		return fmt.Errorf("%w: %d (have %d)", ErrIndexOutOfRange, index, len(s.entries))
	}

	next := make([]string, 0, len(s.entries)-1)
	next = append(next, s.entries[:index]...)
	next = append(next, s.entries[index+1:]...)
	return s.commit(ctx, next)
}

func (s *Store) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commit(ctx, []string{})
}

// commit persists next and only then swaps it in, so a failed write leaves
// the in-memory history unchanged.
func (s *Store) commit(ctx context.Context, next []string) error {
	data, err := json.Marshal(next)
	if err != nil {
		return err
	}
	if err := s.kv.Set(ctx, Key, string(data)); err != nil {
		return fmt.Errorf("failed to save search history: %w", err)
	}
	s.entries = next
	return nil
}
