package application_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/mwaldron/flowlens/pkg/application"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
)

// fakeFetcher serves canned transitions keyed by source ID and tracks
// how many fetches run at the same time.
type fakeFetcher struct {
	mu        sync.Mutex
	byID      map[string][]tracker.StateTransition
	failIDs   map[string]bool
	delay     time.Duration
	inFlight  int
	maxSeen   int
	fetchedMu sync.Mutex
	fetched   []string
}

func (f *fakeFetcher) FetchHistory(ctx context.Context, sourceID string, limit int) ([]tracker.StateTransition, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	f.fetchedMu.Lock()
	f.fetched = append(f.fetched, sourceID)
	f.fetchedMu.Unlock()

	if f.failIDs[sourceID] {
		return nil, errors.New("tracker unavailable")
	}
	return f.byID[sourceID], nil
}

func pendingItems(n int) []*tracker.WorkItem {
	items := make([]*tracker.WorkItem, n)
	for i := range items {
		items[i] = &tracker.WorkItem{
			ID:           fmt.Sprintf("FL-%d", i+1),
			Type:         "story",
			CurrentState: "Done",
			CreatedDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
			SourceID:     fmt.Sprintf("src-%d", i+1),
		}
	}
	return items
}

func TestEnrichmentService_PartialFailures(t *testing.T) {
	fetcher := &fakeFetcher{
		byID: map[string][]tracker.StateTransition{},
		failIDs: map[string]bool{
			"src-2": true,
			"src-5": true,
		},
	}
	items := pendingItems(6)
	for _, item := range items {
		if !fetcher.failIDs[item.SourceID] {
			fetcher.byID[item.SourceID] = []tracker.StateTransition{
				{ToState: "Done", Timestamp: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC)},
			}
		}
	}

	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{Logger: zerolog.Nop()})
	got, err := svc.Enrich(context.Background(), items)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 6 {
		t.Fatalf("len = %d, want all 6 items back", len(got))
	}

	empty := 0
	for _, item := range got {
		if item.Transitions == nil {
			t.Errorf("item %s: transitions must be non-nil after enrichment", item.ID)
		}
		if len(item.Transitions) == 0 {
			empty++
		}
	}
	if empty != 2 {
		t.Errorf("items with empty history = %d, want 2 (the failed fetches)", empty)
	}
}

func TestEnrichmentService_StripsSourceID(t *testing.T) {
	fetcher := &fakeFetcher{byID: map[string][]tracker.StateTransition{}}
	items := pendingItems(3)
	// One item already has history and must not be fetched, but its
	// source handle is still cleared.
	items[2].Transitions = []tracker.StateTransition{{ToState: "Done", Timestamp: time.Now()}}

	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{Logger: zerolog.Nop()})
	got, err := svc.Enrich(context.Background(), items)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	for _, item := range got {
		if item.SourceID != "" {
			t.Errorf("item %s: SourceID %q not stripped", item.ID, item.SourceID)
		}
	}

	for _, id := range fetcher.fetched {
		if id == "src-3" {
			t.Error("item with existing history was fetched again")
		}
	}
}

func TestEnrichmentService_ConcurrencyBound(t *testing.T) {
	fetcher := &fakeFetcher{
		byID:  map[string][]tracker.StateTransition{},
		delay: 20 * time.Millisecond,
	}
	items := pendingItems(12)

	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{
		MaxConcurrent: 3,
		Logger:        zerolog.Nop(),
	})
	if _, err := svc.Enrich(context.Background(), items); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	if fetcher.maxSeen > 3 {
		t.Errorf("observed %d concurrent fetches, limit is 3", fetcher.maxSeen)
	}
}

func TestEnrichmentService_ProgressCadence(t *testing.T) {
	fetcher := &fakeFetcher{byID: map[string][]tracker.StateTransition{}}
	items := pendingItems(7)

	var mu sync.Mutex
	var counts []int
	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{
		MaxConcurrent: 1,
		ProgressEvery: 3,
		Logger:        zerolog.Nop(),
		Progress: func(completed, total int, message string) {
			mu.Lock()
			counts = append(counts, completed)
			mu.Unlock()
			if total != 7 {
				t.Errorf("total = %d, want 7", total)
			}
		},
	})
	if _, err := svc.Enrich(context.Background(), items); err != nil {
		t.Fatalf("Enrich: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(counts) == 0 || counts[0] != 0 {
		t.Fatalf("first callback should announce the batch with completed=0, got %v", counts)
	}
	last := counts[len(counts)-1]
	if last != 7 {
		t.Errorf("final progress = %d, want 7", last)
	}
	for _, c := range counts[1 : len(counts)-1] {
		if c%3 != 0 {
			t.Errorf("intermediate progress %d not on cadence of 3", c)
		}
	}
}

func TestEnrichmentService_Cancellation(t *testing.T) {
	fetcher := &fakeFetcher{
		byID:  map[string][]tracker.StateTransition{},
		delay: 50 * time.Millisecond,
	}
	items := pendingItems(10)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{
		MaxConcurrent: 2,
		Logger:        zerolog.Nop(),
	})
	got, err := svc.Enrich(ctx, items)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
	if len(got) != 10 {
		t.Errorf("len = %d, want full-length slice even when cut short", len(got))
	}
	for _, item := range got {
		if item.SourceID != "" {
			t.Errorf("item %s: SourceID not stripped on cancellation", item.ID)
		}
	}
}

func TestEnrichmentService_NothingPending(t *testing.T) {
	fetcher := &fakeFetcher{byID: map[string][]tracker.StateTransition{}}

	var calls atomic.Int64
	svc := application.NewEnrichmentService(fetcher, application.EnrichmentOptions{
		Logger: zerolog.Nop(),
		Progress: func(completed, total int, message string) {
			calls.Add(1)
		},
	})

	items := []*tracker.WorkItem{
		{ID: "FL-1", Transitions: []tracker.StateTransition{{ToState: "Done", Timestamp: time.Now()}}},
		{ID: "FL-2"}, // no source ID: nothing to fetch from
	}
	got, err := svc.Enrich(context.Background(), items)
	if err != nil {
		t.Fatalf("Enrich: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if len(fetcher.fetched) != 0 {
		t.Errorf("fetched %v, want no fetches", fetcher.fetched)
	}
	if calls.Load() != 0 {
		t.Errorf("progress called %d times for an empty batch, want 0", calls.Load())
	}
}
