// Package quotes maintains the latest known price per symbol: an
// in-memory map merged over a persisted snapshot and refreshed on a fixed
// interval from the quote bridge.
package quotes

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"finguide/internal/logging"
	"finguide/internal/models"
	"finguide/pkg/utils"
)

// KVStore is the persistence surface the cache needs: a flat key-value
// blob with last-write-wins semantics.
type KVStore interface {
	GetBlob(ctx context.Context, key string) ([]byte, error)
	PutBlob(ctx context.Context, key string, data []byte) error
}

// Fetcher retrieves current quotes for a set of symbols. May fail; a
// failure must leave the caller's state untouched.
type Fetcher interface {
	FetchQuotes(ctx context.Context, symbols []string) (map[string]models.Quote, error)
}

// Cache holds the latest known quote per symbol.
type Cache struct {
	mu          sync.RWMutex
	quotes      map[string]models.Quote
	store       KVStore
	snapshotKey string
	logger      zerolog.Logger
}

// NewCache creates a quote cache persisting under snapshotKey.
func NewCache(store KVStore, snapshotKey string, logger zerolog.Logger) *Cache {
	return &Cache{
		quotes:      make(map[string]models.Quote),
		store:       store,
		snapshotKey: snapshotKey,
		logger:      logger,
	}
}

// Load replaces the in-memory map with the persisted snapshot. An absent
// or corrupt snapshot is treated as empty, never as an error.
func (c *Cache) Load(ctx context.Context) {
	data, err := c.store.GetBlob(ctx, c.snapshotKey)
	if err != nil || len(data) == 0 {
		if err != nil {
			c.logger.Warn().Err(err).Msg("Quote snapshot unreadable, starting empty")
		}
		return
	}
	snapshot := make(map[string]models.Quote)
	if err := json.Unmarshal(data, &snapshot); err != nil {
		c.logger.Warn().Err(err).Msg("Quote snapshot corrupt, starting empty")
		return
	}
	c.mu.Lock()
	c.quotes = snapshot
	c.mu.Unlock()
}

// Merge overlays fetched quotes on the cache, new values winning per
// symbol. A fetched quote with a non-finite or non-positive price never
// overwrites a previously valid cached price (fallback-to-last-good).
func (c *Cache) Merge(fetched map[string]models.Quote) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for symbol, q := range fetched {
		symbol = strings.ToUpper(symbol)
		if !utils.Finite(q.Price) || q.Price <= 0 {
			if _, ok := c.quotes[symbol]; ok {
				continue
			}
		}
		q.Symbol = symbol
		c.quotes[symbol] = q
	}
}

// Quote returns the cached quote for a symbol.
func (c *Cache) Quote(symbol string) (models.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	q, ok := c.quotes[strings.ToUpper(symbol)]
	return q, ok
}

// CurrentPrice returns the cached price if finite and positive, else the
// provided fallback (typically the trade's entry price) if finite, else
// no value. The chain guarantees "no live quote yet" never shows up as a
// zero or NaN move downstream.
func (c *Cache) CurrentPrice(symbol string, fallback *float64) (float64, bool) {
	if q, ok := c.Quote(symbol); ok && utils.Finite(q.Price) && q.Price > 0 {
		return q.Price, true
	}
	if utils.FinitePtr(fallback) {
		return *fallback, true
	}
	return 0, false
}

// Snapshot returns a copy of the cached quotes, sorted by symbol.
func (c *Cache) Snapshot() []models.Quote {
	c.mu.RLock()
	out := make([]models.Quote, 0, len(c.quotes))
	for _, q := range c.quotes {
		out = append(out, q)
	}
	c.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Symbol < out[j].Symbol })
	return out
}

func (c *Cache) persist(ctx context.Context) {
	c.mu.RLock()
	data, err := json.Marshal(c.quotes)
	c.mu.RUnlock()
	if err != nil {
		c.logger.Warn().Err(err).Msg("Failed to marshal quote snapshot")
		return
	}
	if err := c.store.PutBlob(ctx, c.snapshotKey, data); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to persist quote snapshot")
	}
}

// Refresh fetches quotes for the deduplicated, uppercased symbol set and,
// on success, merges the result and persists the snapshot. On failure the
// cache is left untouched and the error is returned for the caller to
// surface. A result arriving after ctx is cancelled is discarded.
func (c *Cache) Refresh(ctx context.Context, fetcher Fetcher, symbols []string) error {
	wanted := DedupeSymbols(symbols)
	if len(wanted) == 0 {
		return nil
	}

	start := time.Now()
	fetched, err := fetcher.FetchQuotes(ctx, wanted)
	if err != nil {
		logging.LogQuoteRefresh(c.logger, len(wanted), 0, time.Since(start), err)
		return err
	}
	if ctx.Err() != nil {
		// The owning view was torn down mid-flight; discard rather than
		// apply a stale result.
		return ctx.Err()
	}

	c.Merge(fetched)
	c.persist(ctx)
	logging.LogQuoteRefresh(c.logger, len(wanted), len(fetched), time.Since(start), nil)
	return nil
}

// DedupeSymbols uppercases, deduplicates, and drops empty symbols while
// preserving first-seen order.
func DedupeSymbols(symbols []string) []string {
	seen := make(map[string]struct{}, len(symbols))
	out := make([]string, 0, len(symbols))
	for _, s := range symbols {
		s = strings.ToUpper(strings.TrimSpace(s))
		if s == "" {
			continue
		}
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
