// Package query expands a search into its Korean and English variants, runs
// every variant against the bookmark provider and merges the replies.
package query

import (
	"context"
	"strings"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

// Recorder stores submitted queries.
type Recorder interface {
	Record(ctx context.Context, q string) error
}

// Outcome is the result of one search run.
type Outcome struct {
	Seq      uint64
	Query    string
	Expanded []string
	Results  []bookmark.Record
	Partial  bool
	Empty    bool
	Elapsed  time.Duration
}

// NoResults reports whether a non-empty query came back with nothing.
func (o Outcome) NoResults() bool {
	return !o.Empty && len(o.Results) == 0
}

// Engine ties the keyword table, the dispatcher and the history together.
// Each run takes a sequence token; callers drop outcomes that are no longer
// current.
type Engine struct {
	dispatcher *Dispatcher
	history    Recorder
	language   func() string
	maxResults int
	logger     zerolog.Logger

	seq atomic.Uint64
}

type EngineOption func(*Engine)

// WithHistory records every submitted query.
func WithHistory(r Recorder) EngineOption {
	return func(e *Engine) { e.history = r }
}

// WithLanguage sets the function consulted for the active language on every run.
func WithLanguage(fn func() string) EngineOption {
	return func(e *Engine) { e.language = fn }
}

// WithMaxResults truncates merged results; zero keeps everything.
func WithMaxResults(n int) EngineOption {
	return func(e *Engine) { e.maxResults = n }
}

func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.logger = l }
}

func NewEngine(d *Dispatcher, opts ...EngineOption) *Engine {
	e := &Engine{
		dispatcher: d,
		language:   func() string { return "en" },
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mapping returns the keyword table for the active language.
func (e *Engine) Mapping() Mapping {
	return ForLanguage(e.language())
}

// Next reserves a sequence token without running a search.
func (e *Engine) Next() uint64 {
	return e.seq.Add(1)
}

// IsCurrent reports whether seq is the most recently issued token.
func (e *Engine) IsCurrent(seq uint64) bool {
	return e.seq.Load() == seq
}

// Submit records the query in history and searches for it.
func (e *Engine) Submit(ctx context.Context, raw string) (Outcome, error) {
	return e.run(ctx, raw, true)
}

// Preview searches without touching history.
func (e *Engine) Preview(ctx context.Context, raw string) (Outcome, error) {
	return e.run(ctx, raw, false)
}

func (e *Engine) run(ctx context.Context, raw string, record bool) (Outcome, error) {
	seq := e.Next()
	q := strings.TrimSpace(raw)
	if q == "" {
		return Outcome{Seq: seq, Empty: true}, nil
	}

	if record && e.history != nil {
		if err := e.history.Record(ctx, q); err != nil {
			e.logger.Warn().Err(err).Str("query", q).Msg("failed to record search history")
		}
	}

	start := time.Now()
	expanded := Expand(q, e.Mapping())
	batch, err := e.dispatcher.DispatchAll(ctx, expanded)
	if err != nil {
		return Outcome{Seq: seq, Query: q, Expanded: expanded}, err
	}

	merged := Dedupe(batch.Records)
	results := merged[:0]
	for _, rec := range merged {
		if rec.HasURL() {
			results = append(results, rec)
		}
	}
	if e.maxResults > 0 && len(results) > e.maxResults {
		results = results[:e.maxResults]
	}

	out := Outcome{
		Seq:      seq,
		Query:    q,
		Expanded: expanded,
		Results:  results,
		Partial:  batch.Partial,
		Elapsed:  time.Since(start),
	}
	e.logger.Debug().
		Uint64("seq", seq).
		Str("query", q).
		Strs("expanded", expanded).
		Int("results", len(results)).
		Bool("partial", out.Partial).
		Msg("search finished")
	return out, nil
}
