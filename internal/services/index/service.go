package index

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/bookmark"
	"github.com/Paintersrp/sleuth/internal/cache"
	"github.com/Paintersrp/sleuth/internal/pathutil"
	"github.com/Paintersrp/sleuth/internal/search"
)

// ErrClosed signals that the index service has been shut down and cannot be
// used to produce new snapshots.
var ErrClosed = errors.New("index service closed")

// ErrUnavailable indicates that the search index has not been built yet.
var ErrUnavailable = errors.New("search index unavailable")

const defaultCacheSize = 256

// Stats captures lightweight instrumentation about the shared index.
type Stats struct {
	LastRebuild time.Time
	Pending     int
	Records     int
	Sources     map[string]int
	Errors      map[string]error
	CacheHits   uint64
	CacheMisses uint64
}

type Options struct {
	// MaxAge forces a full reload once the index is older than this. Zero
	// disables age based reloads.
	MaxAge time.Duration
	// CacheSize bounds the per-term result cache.
	CacheSize int
	// Since hides bookmarks added before it.
	Since  time.Time
	Logger zerolog.Logger
}

// Service owns the shared bookmark index built from every configured source
// and coordinates reloads requested by the file watcher.
type Service struct {
	mu          sync.RWMutex
	buildMu     sync.Mutex
	sources     []bookmark.Source
	index       *search.Index
	pending     map[string]struct{}
	errs        map[string]error
	lastRebuild time.Time
	closed      bool

	results *cache.LRU[string, []bookmark.Record]
	since   time.Time
	logger  zerolog.Logger
	now     func() time.Time
	maxAge  time.Duration
}

func NewService(sources []bookmark.Source, opts Options) *Service {
	size := opts.CacheSize
	if size <= 0 {
		size = defaultCacheSize
	}
	results, _ := cache.New[string, []bookmark.Record](size)

	return &Service{
		sources: append([]bookmark.Source(nil), sources...),
		pending: make(map[string]struct{}),
		errs:    make(map[string]error),
		results: results,
		since:   opts.Since,
		logger:  opts.Logger,
		now:     time.Now,
		maxAge:  opts.MaxAge,
	}
}

// Warm loads every source if the index has not been built yet.
func (s *Service) Warm(ctx context.Context) error {
	return s.ensureFresh(ctx)
}

// Search implements the provider call used by the dispatcher. A cold build
// runs outside ctx so a per-query timeout cannot leave a source unloaded.
func (s *Service) Search(ctx context.Context, text string) ([]bookmark.Record, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	if err := s.ensureFresh(context.WithoutCancel(ctx)); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	key := strings.ToLower(strings.TrimSpace(text))
	if cached, ok := s.results.Get(key); ok {
		return cached, nil
	}

	s.mu.RLock()
	if s.closed {
		s.mu.RUnlock()
		return nil, ErrClosed
	}
	if s.index == nil {
		s.mu.RUnlock()
		return nil, ErrUnavailable
	}
	found := s.index.Search(search.Query{Term: text, Since: s.since})
	// Reloads purge under the write lock, so this fill cannot outlive one.
	s.results.Put(key, found)
	s.mu.RUnlock()

	return found, nil
}

// All lists every bookmark in the index.
func (s *Service) All(ctx context.Context) ([]bookmark.Record, error) {
	idx, err := s.AcquireSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if s.since.IsZero() {
		return idx.All(), nil
	}
	return idx.Filter(s.since), nil
}

// Titles returns the distinct bookmark titles, the autocomplete corpus.
func (s *Service) Titles(ctx context.Context) ([]string, error) {
	records, err := s.All(ctx)
	if err != nil {
		return nil, err
	}
	idx := search.NewIndex()
	idx.Replace("all", records)
	return idx.Titles(), nil
}

// AcquireSnapshot returns a copy of the index that callers may read freely.
func (s *Service) AcquireSnapshot(ctx context.Context) (*search.Index, error) {
	if s == nil {
		return nil, ErrUnavailable
	}
	if err := s.ensureFresh(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, ErrClosed
	}
	if s.index == nil {
		return nil, ErrUnavailable
	}
	return s.index.Clone(), nil
}

// QueueReload schedules a reload of the file source stored at path. Paths
// that belong to no source are ignored.
func (s *Service) QueueReload(path string) {
	if s == nil {
		return
	}

	if strings.TrimSpace(path) == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	for _, src := range s.sources {
		fsrc, ok := src.(bookmark.FileSource)
		if !ok {
			continue
		}
		if pathutil.Same(fsrc.Path(), path) {
			s.pending[src.Name()] = struct{}{}
		}
	}
}

// Stats returns instrumentation about the index lifecycle.
func (s *Service) Stats() Stats {
	if s == nil {
		return Stats{}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := Stats{
		LastRebuild: s.lastRebuild,
		Pending:     len(s.pending),
		Sources:     map[string]int{},
		Errors:      make(map[string]error, len(s.errs)),
	}
	if s.index != nil {
		stats.Records = s.index.Len()
		stats.Sources = s.index.Counts()
	}
	for name, err := range s.errs {
		stats.Errors[name] = err
	}
	stats.CacheHits, stats.CacheMisses = s.results.Ratio()
	return stats
}

// Close releases the service. Subsequent searches return ErrClosed.
func (s *Service) Close() error {
	if s == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}
	s.closed = true
	s.index = nil
	s.pending = nil
	s.results.Purge()

	for _, src := range s.sources {
		if closer, ok := src.(interface{ Close() }); ok {
			closer.Close()
		}
	}
	return nil
}

func (s *Service) ensureFresh(ctx context.Context) error {
	if s == nil {
		return ErrUnavailable
	}

	s.mu.RLock()
	closed := s.closed
	needsRebuild := s.index == nil
	if !needsRebuild && s.maxAge > 0 {
		needsRebuild = s.now().Sub(s.lastRebuild) > s.maxAge
	}
	hasPending := len(s.pending) > 0
	s.mu.RUnlock()

	if closed {
		return ErrClosed
	}
	if !needsRebuild && !hasPending {
		return nil
	}

	// Concurrent searches share one rebuild.
	s.buildMu.Lock()
	defer s.buildMu.Unlock()

	if needsRebuild {
		if err := s.rebuild(ctx); err != nil {
			return err
		}
	}
	return s.applyPending(ctx)
}

func (s *Service) rebuild(ctx context.Context) error {
	s.mu.RLock()
	fresh := s.index != nil && (s.maxAge <= 0 || s.now().Sub(s.lastRebuild) <= s.maxAge)
	s.mu.RUnlock()
	if fresh {
		return nil
	}

	names := make([]string, 0, len(s.sources))
	records := make(map[string][]bookmark.Record, len(s.sources))
	errs := make(map[string]error)
	retry := make(map[string]struct{})

	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return err
		}
		recs, err := src.Load(ctx)
		names = append(names, src.Name())
		if err != nil {
			errs[src.Name()] = err
			if interrupted(err) {
				retry[src.Name()] = struct{}{}
			}
			s.logger.Warn().Err(err).Str("source", src.Name()).Msg("failed to load bookmark source")
			continue
		}
		records[src.Name()] = recs
	}

	idx := search.NewIndex()
	idx.Build(names, records)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}

	s.index = idx
	s.errs = errs
	s.lastRebuild = s.now()
	s.pending = retry
	s.results.Purge()

	s.logger.Info().
		Int("sources", len(names)).
		Int("records", idx.Len()).
		Int("failed", len(errs)).
		Int("retry", len(retry)).
		Msg("bookmark index rebuilt")
	return nil
}

func (s *Service) applyPending(ctx context.Context) error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.index == nil {
		s.mu.Unlock()
		return ErrUnavailable
	}
	if len(s.pending) == 0 {
		s.mu.Unlock()
		return nil
	}
	pending := s.pending
	s.pending = make(map[string]struct{})
	s.mu.Unlock()

	reloaded := make(map[string][]bookmark.Record, len(pending))
	failed := make(map[string]error)
	for _, src := range s.sources {
		if _, ok := pending[src.Name()]; !ok {
			continue
		}
		recs, err := src.Load(ctx)
		if err != nil {
			failed[src.Name()] = err
			s.logger.Warn().Err(err).Str("source", src.Name()).Msg("failed to reload bookmark source")
			continue
		}
		reloaded[src.Name()] = recs
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	for name, recs := range reloaded {
		s.index.Replace(name, recs)
		delete(s.errs, name)
	}
	for name, err := range failed {
		s.errs[name] = fmt.Errorf("reload: %w", err)
		if interrupted(err) {
			s.pending[name] = struct{}{}
		}
	}
	s.results.Purge()

	s.logger.Info().Int("sources", len(reloaded)).Msg("bookmark sources reloaded")
	return nil
}

// interrupted reports whether a load failed only because its context ended.
// Such sources stay queued and load again on the next search.
func interrupted(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
