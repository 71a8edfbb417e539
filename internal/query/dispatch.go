package query

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

// DefaultQueryTimeout bounds a single search call when the dispatcher has no
// timeout configured.
const DefaultQueryTimeout = 2 * time.Second

// ErrNoSearchFunc is returned when a dispatcher is used without a provider.
var ErrNoSearchFunc = errors.New("dispatcher has no search function")

// SearchFunc runs one query against the bookmark provider.
type SearchFunc func(ctx context.Context, text string) ([]bookmark.Record, error)

// Reply describes how one dispatched query ended.
type Reply struct {
	Query    string
	Count    int
	Err      error
	Duration time.Duration
}

// Batch is the concatenation of every successful reply, in submission order.
type Batch struct {
	Records []bookmark.Record
	Replies []Reply
	// Partial is set when at least one query failed or timed out and its
	// contribution is missing from Records.
	Partial bool
}

// Dispatcher fans a set of queries out to a SearchFunc and gathers the replies.
type Dispatcher struct {
	Search  SearchFunc
	Timeout time.Duration
	// Limit caps concurrent calls; zero means one goroutine per query.
	Limit  int
	Logger zerolog.Logger
}

// NewDispatcher returns a dispatcher with the default timeout and a no-op logger.
func NewDispatcher(fn SearchFunc) *Dispatcher {
	return &Dispatcher{Search: fn, Timeout: DefaultQueryTimeout, Logger: zerolog.Nop()}
}

type outcome struct {
	records []bookmark.Record
	err     error
}

// DispatchAll issues every query concurrently and returns once each one has
// replied or run out of time. Queries that fail are left out of the batch and
// mark it partial. Cancelling ctx aborts the whole dispatch.
func (d *Dispatcher) DispatchAll(ctx context.Context, queries []string) (Batch, error) {
	if d.Search == nil {
		return Batch{}, ErrNoSearchFunc
	}
	if len(queries) == 0 {
		return Batch{}, nil
	}

	timeout := d.Timeout
	if timeout <= 0 {
		timeout = DefaultQueryTimeout
	}

	results := make([]outcome, len(queries))
	durations := make([]time.Duration, len(queries))

	var g errgroup.Group
	if d.Limit > 0 {
		g.SetLimit(d.Limit)
	}

	for i, q := range queries {
		i, q := i, q
		g.Go(func() error {
			start := time.Now()
			results[i] = d.run(ctx, q, timeout)
			durations[i] = time.Since(start)
			return nil
		})
	}
	_ = g.Wait()

	if err := ctx.Err(); err != nil {
		return Batch{}, err
	}

	var batch Batch
	for i, q := range queries {
		res := results[i]
		batch.Replies = append(batch.Replies, Reply{
			Query:    q,
			Count:    len(res.records),
			Err:      res.err,
			Duration: durations[i],
		})
		if res.err != nil {
			batch.Partial = true
			d.Logger.Warn().
				Err(res.err).
				Str("query", q).
				Dur("elapsed", durations[i]).
				Msg("search query dropped from batch")
			continue
		}
		batch.Records = append(batch.Records, res.records...)
	}
	return batch, nil
}

// run calls the provider in its own goroutine so a provider that ignores its
// context still cannot hold the batch past the timeout.
func (d *Dispatcher) run(parent context.Context, q string, timeout time.Duration) outcome {
	ctx, cancel := context.WithTimeout(parent, timeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		records, err := d.Search(ctx, q)
		done <- outcome{records: records, err: err}
	}()

	select {
	case res := <-done:
		if res.err != nil {
			res.err = fmt.Errorf("search %q: %w", q, res.err)
			res.records = nil
		}
		return res
	case <-ctx.Done():
		return outcome{err: fmt.Errorf("search %q: %w", q, ctx.Err())}
	}
}
