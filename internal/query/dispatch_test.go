package query

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Paintersrp/sleuth/internal/bookmark"
)

func fixedProvider(replies map[string][]bookmark.Record) SearchFunc {
	return func(ctx context.Context, text string) ([]bookmark.Record, error) {
		return replies[text], nil
	}
}

func TestDispatchAllConcatenatesInSubmissionOrder(t *testing.T) {
	t.Parallel()

	replies := map[string][]bookmark.Record{
		"a": {{URL: "1"}, {URL: "2"}},
		"b": {{URL: "3"}},
		"c": {{URL: "4"}, {URL: "5"}, {URL: "6"}},
	}
	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		// reply in reverse of submission order
		switch text {
		case "a":
			time.Sleep(30 * time.Millisecond)
		case "b":
			time.Sleep(15 * time.Millisecond)
		}
		return replies[text], nil
	})

	batch, err := d.DispatchAll(context.Background(), []string{"a", "b", "c"})
	if err != nil {
		t.Fatalf("DispatchAll returned error: %v", err)
	}
	if len(batch.Records) != 6 {
		t.Fatalf("expected 6 records, got %d", len(batch.Records))
	}
	if !reflect.DeepEqual(urls(batch.Records), []string{"1", "2", "3", "4", "5", "6"}) {
		t.Fatalf("unexpected order %v", urls(batch.Records))
	}
	if batch.Partial {
		t.Fatal("expected complete batch")
	}
	if len(batch.Replies) != 3 || batch.Replies[2].Count != 3 {
		t.Fatalf("unexpected replies %+v", batch.Replies)
	}
}

func TestDispatchAllWaitsForDelayedReply(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	var replied atomic.Int32

	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		if text == "slow" {
			<-release
		}
		replied.Add(1)
		return []bookmark.Record{{URL: text}}, nil
	})
	d.Timeout = 5 * time.Second

	done := make(chan Batch, 1)
	go func() {
		batch, _ := d.DispatchAll(context.Background(), []string{"fast", "slow", "other"})
		done <- batch
	}()

	select {
	case <-done:
		t.Fatal("dispatch completed before the delayed reply arrived")
	case <-time.After(50 * time.Millisecond):
	}

	close(release)

	select {
	case batch := <-done:
		if replied.Load() != 3 {
			t.Fatalf("expected 3 replies, got %d", replied.Load())
		}
		if len(batch.Records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(batch.Records))
		}
	case <-time.After(2 * time.Second):
		t.Fatal("dispatch never completed")
	}
}

func TestDispatchAllTimeoutYieldsPartial(t *testing.T) {
	t.Parallel()

	block := make(chan struct{})
	defer close(block)

	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		if text == "stuck" {
			// ignores ctx on purpose
			<-block
		}
		return []bookmark.Record{{URL: text}}, nil
	})
	d.Timeout = 40 * time.Millisecond

	start := time.Now()
	batch, err := d.DispatchAll(context.Background(), []string{"ok", "stuck"})
	if err != nil {
		t.Fatalf("DispatchAll returned error: %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("timeout was not enforced")
	}
	if !batch.Partial {
		t.Fatal("expected partial batch")
	}
	if !reflect.DeepEqual(urls(batch.Records), []string{"ok"}) {
		t.Fatalf("unexpected records %v", urls(batch.Records))
	}
	if !errors.Is(batch.Replies[1].Err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline error, got %v", batch.Replies[1].Err)
	}
}

func TestDispatchAllProviderError(t *testing.T) {
	t.Parallel()

	boom := errors.New("boom")
	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		if text == "bad" {
			return []bookmark.Record{{URL: "ignored"}}, boom
		}
		return []bookmark.Record{{URL: text}}, nil
	})

	batch, err := d.DispatchAll(context.Background(), []string{"good", "bad"})
	if err != nil {
		t.Fatalf("DispatchAll returned error: %v", err)
	}
	if !batch.Partial || !errors.Is(batch.Replies[1].Err, boom) {
		t.Fatalf("expected partial batch with provider error, got %+v", batch)
	}
	if !reflect.DeepEqual(urls(batch.Records), []string{"good"}) {
		t.Fatalf("unexpected records %v", urls(batch.Records))
	}
}

func TestDispatchAllParentCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		cancel()
		<-ctx.Done()
		return nil, ctx.Err()
	})

	if _, err := d.DispatchAll(ctx, []string{"a"}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestDispatchAllLimit(t *testing.T) {
	t.Parallel()

	var (
		mu      sync.Mutex
		running int
		peak    int
	)
	d := NewDispatcher(func(ctx context.Context, text string) ([]bookmark.Record, error) {
		mu.Lock()
		running++
		if running > peak {
			peak = running
		}
		mu.Unlock()

		time.Sleep(10 * time.Millisecond)

		mu.Lock()
		running--
		mu.Unlock()
		return nil, nil
	})
	d.Limit = 2

	if _, err := d.DispatchAll(context.Background(), []string{"a", "b", "c", "d", "e"}); err != nil {
		t.Fatalf("DispatchAll returned error: %v", err)
	}
	if peak > 2 {
		t.Fatalf("expected at most 2 concurrent searches, saw %d", peak)
	}
}

func TestDispatchAllWithoutProvider(t *testing.T) {
	t.Parallel()

	var d Dispatcher
	if _, err := d.DispatchAll(context.Background(), []string{"a"}); !errors.Is(err, ErrNoSearchFunc) {
		t.Fatalf("expected ErrNoSearchFunc, got %v", err)
	}
}
