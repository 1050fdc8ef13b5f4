package application

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mwaldron/flowlens/pkg/domain/tracker"
)

const (
	// DefaultMaxConcurrent bounds parallel history fetches.
	DefaultMaxConcurrent = 5
	// DefaultItemTimeout bounds each per-item fetch independently of
	// any caller-imposed deadline.
	DefaultItemTimeout = 30 * time.Second
	// DefaultHistoryLimit is the per-item event cap requested from the
	// provider.
	DefaultHistoryLimit = 100
	// DefaultProgressEvery is the completion cadence of progress
	// callbacks.
	DefaultProgressEvery = 10
)

// HistoryFetcher is the abstracted capability the enricher consumes.
// Retries and backoff, if any, belong behind this interface, not here.
type HistoryFetcher interface {
	FetchHistory(ctx context.Context, sourceID string, limit int) ([]tracker.StateTransition, error)
}

// ProgressFunc receives advisory progress updates. Callbacks are
// decoupled from the workers; a slow consumer drops updates rather than
// delaying completion.
type ProgressFunc func(completed, total int, message string)

// EnrichmentOptions tune the enricher. Zero values select defaults.
type EnrichmentOptions struct {
	MaxConcurrent int
	ItemTimeout   time.Duration
	HistoryLimit  int
	ProgressEvery int
	Progress      ProgressFunc
	Logger        zerolog.Logger
}

// EnrichmentService fills in missing state-change history on work items
// by fetching it from a tracker provider with bounded parallelism.
//
// A fetch failure or timeout for one item never poisons the batch: the
// item keeps an empty transition list and the rest proceed. On
// cancellation the service returns whatever was already enriched.
type EnrichmentService struct {
	fetcher       HistoryFetcher
	maxConcurrent int
	itemTimeout   time.Duration
	historyLimit  int
	progressEvery int
	progress      ProgressFunc
	log           zerolog.Logger
}

// NewEnrichmentService creates an enricher over the given fetch
// capability.
func NewEnrichmentService(fetcher HistoryFetcher, opts EnrichmentOptions) *EnrichmentService {
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = DefaultMaxConcurrent
	}
	if opts.ItemTimeout <= 0 {
		opts.ItemTimeout = DefaultItemTimeout
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = DefaultHistoryLimit
	}
	if opts.ProgressEvery <= 0 {
		opts.ProgressEvery = DefaultProgressEvery
	}
	return &EnrichmentService{
		fetcher:       fetcher,
		maxConcurrent: opts.MaxConcurrent,
		itemTimeout:   opts.ItemTimeout,
		historyLimit:  opts.HistoryLimit,
		progressEvery: opts.ProgressEvery,
		progress:      opts.Progress,
		log:           opts.Logger,
	}
}

// Enrich fetches history for every item that lacks it. The returned
// slice always has the same length as the input; items whose fetch
// failed (or was cancelled before starting) carry empty transitions.
// SourceID is stripped from every returned item so the internal fetch
// handle never leaks downstream. The returned error is the context's
// error when the batch was cut short, nil otherwise.
func (s *EnrichmentService) Enrich(ctx context.Context, items []*tracker.WorkItem) ([]*tracker.WorkItem, error) {
	var pending []*tracker.WorkItem
	for _, item := range items {
		if !item.HasHistory() && item.SourceID != "" {
			pending = append(pending, item)
		}
	}

	total := len(pending)
	if total > 0 && s.progress != nil {
		s.progress(0, total, fmt.Sprintf("fetching history for %d items", total))
	}

	// Progress updates flow through a buffered channel to a single
	// consumer goroutine; sends never block a worker.
	updates := make(chan int, total)
	consumerDone := make(chan struct{})
	go func() {
		defer close(consumerDone)
		for completed := range updates {
			if s.progress != nil {
				s.progress(completed, total, fmt.Sprintf("fetched history for %d/%d items", completed, total))
			}
		}
	}()

	workers := s.maxConcurrent
	if total < workers {
		workers = total
	}

	var completed atomic.Int64
	g := new(errgroup.Group)
	if workers > 0 {
		g.SetLimit(workers)
	}

	to := timeout.New[[]tracker.StateTransition](timeout.Config{
		DefaultTimeout: s.itemTimeout,
	})

	for _, item := range pending {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				// Cancelled before this fetch started. The item stays
				// in the result with empty history.
				return nil
			default:
			}

			transitions, err := to.Execute(ctx, s.itemTimeout, func(ctx context.Context) ([]tracker.StateTransition, error) {
				return s.fetcher.FetchHistory(ctx, item.SourceID, s.historyLimit)
			})
			if err != nil {
				s.log.Warn().
					Str("item", item.ID).
					Err(err).
					Msg("history fetch failed; continuing with empty history")
				transitions = []tracker.StateTransition{}
			}
			item.SetTransitions(transitions)

			n := int(completed.Add(1))
			if n%s.progressEvery == 0 || n == total {
				select {
				case updates <- n:
				default:
				}
			}
			return nil
		})
	}

	_ = g.Wait() // workers never return errors; failures are per-item
	close(updates)
	<-consumerDone

	for _, item := range items {
		item.SourceID = ""
	}
	return items, ctx.Err()
}
