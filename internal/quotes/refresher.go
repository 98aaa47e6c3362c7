package quotes

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// SymbolSource yields the symbols currently referenced by any diary
// entry; re-evaluated on every cycle so new entries join the next refresh.
type SymbolSource func(ctx context.Context) []string

// Refresher refreshes the cache once immediately and then on a fixed
// interval until its context is cancelled.
type Refresher struct {
	cache    *Cache
	fetcher  Fetcher
	symbols  SymbolSource
	interval time.Duration
	logger   zerolog.Logger
}

// NewRefresher creates a Refresher. The interval comes from configuration
// (3 minutes in the default setup).
func NewRefresher(cache *Cache, fetcher Fetcher, symbols SymbolSource, interval time.Duration, logger zerolog.Logger) *Refresher {
	return &Refresher{
		cache:    cache,
		fetcher:  fetcher,
		symbols:  symbols,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until ctx is cancelled. Failed cycles leave the cache
// untouched; the next tick is the only retry.
func (r *Refresher) Run(ctx context.Context) {
	r.refresh(ctx)

	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.refresh(ctx)
		}
	}
}

func (r *Refresher) refresh(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	if err := r.cache.Refresh(ctx, r.fetcher, r.symbols(ctx)); err != nil && ctx.Err() == nil {
		r.logger.Warn().Err(err).Msg("Scheduled quote refresh failed")
	}
}
