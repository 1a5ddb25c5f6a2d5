// Package pricecache keeps one time-bounded price slot per asset and falls
// back to the last known value when a refresh fails.
package pricecache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"k8s.io/utils/clock"
)

// Fetcher looks up the current market price of a symbol.
type Fetcher interface {
	FetchPrice(ctx context.Context, symbol string) (float64, error)
}

// Store persists last good prices outside the process.
type Store interface {
	Save(ctx context.Context, symbol string, price float64, fetchedAt time.Time) error
	Load(ctx context.Context, symbol string) (domain.CachedPrice, bool, error)
}

// Recorder receives cache events.
type Recorder interface {
	CacheHit(symbol string)
	CacheMiss(symbol string)
	StaleServed(symbol string)
	FetchFailed(symbol string)
	PriceFetched(symbol string, price float64)
}

type slot struct {
	mu        sync.RWMutex
	has       bool
	price     float64
	fetchedAt time.Time
	expiresAt time.Time
}

func (s *slot) read() (price float64, fetchedAt, expiresAt time.Time, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.price, s.fetchedAt, s.expiresAt, s.has
}

func (s *slot) write(price float64, fetchedAt, expiresAt time.Time) {
	s.mu.Lock()
	s.price, s.fetchedAt, s.expiresAt, s.has = price, fetchedAt, expiresAt, true
	s.mu.Unlock()
}

// Cache is safe for concurrent use. The slot set is fixed at construction
// from the catalog's symbols.
type Cache struct {
	slots   map[string]*slot
	ttls    map[string]time.Duration
	fetcher Fetcher
	store   Store
	clock   clock.PassiveClock
	flight  singleflight.Group
	log     zerolog.Logger
	metrics Recorder
}

type Option func(*Cache)

func WithClock(clk clock.PassiveClock) Option {
	return func(c *Cache) { c.clock = clk }
}

// WithStore mirrors successful refreshes to s.
func WithStore(s Store) Option {
	return func(c *Cache) { c.store = s }
}

func WithLogger(l zerolog.Logger) Option {
	return func(c *Cache) { c.log = l }
}

func WithRecorder(r Recorder) Option {
	return func(c *Cache) { c.metrics = r }
}

func New(cat *catalog.Catalog, fetcher Fetcher, opts ...Option) *Cache {
	c := &Cache{
		slots:   make(map[string]*slot),
		ttls:    make(map[string]time.Duration),
		fetcher: fetcher,
		clock:   clock.RealClock{},
		log:     zerolog.Nop(),
		metrics: nopRecorder{},
	}
	for _, sym := range cat.Symbols() {
		ttl, _ := cat.TTL(sym)
		c.slots[sym] = &slot{}
		c.ttls[sym] = ttl
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// GetPrice returns the cached price while it is fresh, otherwise refreshes
// it. If the refresh fails the previous value is returned, even when
// expired; with no previous value the error wraps domain.ErrFatalUnavailable.
// Concurrent refreshes of the same symbol share a single fetch, which is not
// cancelled when one of the waiting callers goes away. A caller whose ctx
// ends before the fetch completes gets ctx.Err() wrapped.
func (c *Cache) GetPrice(ctx context.Context, symbol string) (float64, error) {
	s, ok := c.slots[symbol]
	if !ok {
		return 0, domain.ConfigErrorf("unsupported symbol %s", symbol)
	}

	if price, _, expiresAt, has := s.read(); has && c.clock.Now().Before(expiresAt) {
		c.metrics.CacheHit(symbol)
		c.log.Debug().Str("symbol", symbol).Float64("price", price).Msg("using cached price")
		return price, nil
	}
	c.metrics.CacheMiss(symbol)

	flight := c.flight.DoChan(symbol, func() (any, error) {
		return c.refresh(context.WithoutCancel(ctx), symbol, s)
	})
	var res singleflight.Result
	select {
	case res = <-flight:
	case <-ctx.Done():
		return 0, fmt.Errorf("wait for %s price: %w", symbol, ctx.Err())
	}
	err := res.Err
	if err == nil {
		return res.Val.(float64), nil
	}

	c.metrics.FetchFailed(symbol)
	if price, fetchedAt, _, has := s.read(); has {
		c.metrics.StaleServed(symbol)
		c.log.Warn().
			Err(err).
			Str("symbol", symbol).
			Float64("price", price).
			Time("fetched_at", fetchedAt).
			Msg("failed to refresh price, using last known price")
		return price, nil
	}

	c.log.Error().Err(err).Str("symbol", symbol).Msg("no price available")
	return 0, fmt.Errorf("%w: %s: %w", domain.ErrFatalUnavailable, symbol, err)
}

func (c *Cache) refresh(ctx context.Context, symbol string, s *slot) (float64, error) {
	// A flight that finished just before this one may already have refreshed.
	if price, _, expiresAt, has := s.read(); has && c.clock.Now().Before(expiresAt) {
		return price, nil
	}

	price, err := c.fetcher.FetchPrice(ctx, symbol)
	if err != nil {
		var tfe *domain.TransientFetchError
		if !errors.As(err, &tfe) {
			err = &domain.TransientFetchError{Symbol: symbol, Err: err}
		}
		return 0, err
	}

	now := c.clock.Now()
	ttl := c.ttls[symbol]
	s.write(price, now, now.Add(ttl))
	c.metrics.PriceFetched(symbol, price)
	c.log.Info().
		Str("symbol", symbol).
		Float64("price", price).
		Dur("ttl", ttl).
		Msg("new price fetched")

	if c.store != nil {
		if err := c.store.Save(ctx, symbol, price, now); err != nil {
			c.log.Warn().Err(err).Str("symbol", symbol).Msg("snapshot save failed")
		}
	}
	return price, nil
}

// Snapshot lists every symbol that currently holds a value, fresh or stale,
// ordered by symbol.
func (c *Cache) Snapshot() []domain.CachedPrice {
	now := c.clock.Now()
	out := make([]domain.CachedPrice, 0, len(c.slots))
	for _, sym := range sortedKeys(c.slots) {
		price, fetchedAt, expiresAt, has := c.slots[sym].read()
		if !has {
			continue
		}
		out = append(out, domain.CachedPrice{
			Symbol:    sym,
			Price:     price,
			FetchedAt: fetchedAt,
			Stale:     !now.Before(expiresAt),
		})
	}
	return out
}

// Restore seeds empty slots from the store. Restored values are marked
// expired so they only serve as fallbacks. It returns how many slots were
// seeded.
func (c *Cache) Restore(ctx context.Context) int {
	if c.store == nil {
		return 0
	}
	restored := 0
	for _, sym := range sortedKeys(c.slots) {
		s := c.slots[sym]
		if _, _, _, has := s.read(); has {
			continue
		}
		snap, ok, err := c.store.Load(ctx, sym)
		if err != nil {
			c.log.Warn().Err(err).Str("symbol", sym).Msg("snapshot load failed")
			continue
		}
		if !ok {
			continue
		}
		s.mu.Lock()
		if !s.has {
			s.price, s.fetchedAt, s.expiresAt, s.has = snap.Price, snap.FetchedAt, time.Time{}, true
			restored++
		}
		s.mu.Unlock()
	}
	return restored
}
