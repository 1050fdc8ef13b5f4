package application

import (
	"context"

	"github.com/mwaldron/flowlens/pkg/domain/provider"
	"github.com/mwaldron/flowlens/pkg/domain/tracker"
)

// ProviderFetcher adapts a loaded HistoryProvider plugin to the
// enricher's fetch capability. The plugin RPC surface is synchronous;
// cancellation is honored between calls and the enricher's per-item
// timeout bounds the call itself.
type ProviderFetcher struct {
	Provider provider.HistoryProvider
}

func (f *ProviderFetcher) FetchHistory(ctx context.Context, sourceID string, limit int) ([]tracker.StateTransition, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return f.Provider.FetchHistory(sourceID, limit)
}
