package pool

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/singleflight"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/marketdata"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "poolcache").Logger()
}

// DefaultTTL is how long a pool snapshot stays fresh.
const DefaultTTL = 6000 * time.Millisecond

// ErrReserveAssetPool is returned when a pool lookup names the reserve asset,
// which has no pool of its own.
var ErrReserveAssetPool = errors.New("reserve asset has no pool")

// ErrPoolNotFound marks a lookup for an asset no pool lists. Callers treat it
// as a business outcome, unlike an upstream fetch failure.
var ErrPoolNotFound = errors.New("pool not found")

// Provider is the read-only market-data dependency of the cache.
type Provider interface {
	Pools(ctx context.Context) ([]marketdata.PoolDetail, error)
}

// Cache is the TTL pool cache, keyed by ticker. Get-or-refresh is the only
// public read; the refresh itself is not reachable from outside, so callers
// cannot bypass the TTL discipline. Concurrent stale reads collapse into one
// in-flight upstream fetch.
type Cache struct {
	provider Provider
	ttl      time.Duration

	mu              sync.RWMutex
	poolsByTicker   map[string]*Pool
	lastRefreshedAt time.Time

	refreshGroup singleflight.Group
	now          func() time.Time
}

// NewCache builds a cache over the given provider. A non-positive ttl falls
// back to DefaultTTL.
func NewCache(provider Provider, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		provider: provider,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Pools returns the pool map, refreshing first only when the snapshot is
// older than the TTL. A failed refresh keeps serving the stale snapshot and
// only errors when the cache was never populated.
func (c *Cache) Pools(ctx context.Context) (map[string]*Pool, error) {
	c.mu.RLock()
	pools := c.poolsByTicker
	fresh := pools != nil && c.now().Sub(c.lastRefreshedAt) <= c.ttl
	c.mu.RUnlock()

	if fresh {
		return pools, nil
	}

	_, err, _ := c.refreshGroup.Do("refresh", func() (any, error) {
		return nil, c.refresh(ctx)
	})

	c.mu.RLock()
	defer c.mu.RUnlock()
	if err != nil {
		if c.poolsByTicker == nil {
			return nil, fmt.Errorf("pool cache never populated: %w", err)
		}
		log.Warn().Err(err).Msg("Pool refresh failed, serving stale snapshot")
	}
	return c.poolsByTicker, nil
}

// refresh replaces the whole pool map atomically. Unparseable entries are
// skipped so one malformed pool cannot blank the listing.
func (c *Cache) refresh(ctx context.Context) error {
	details, err := c.provider.Pools(ctx)
	if err != nil {
		return err
	}

	next := make(map[string]*Pool, len(details))
	for _, detail := range details {
		p, err := FromDetail(detail)
		if err != nil {
			log.Warn().Err(err).Str("asset", detail.Asset).Msg("Skipping unparseable pool")
			continue
		}
		next[p.Asset.Ticker] = p
	}

	c.mu.Lock()
	c.poolsByTicker = next
	c.lastRefreshedAt = c.now()
	c.mu.Unlock()

	log.Debug().Int("pools", len(next)).Msg("Pool snapshot refreshed")
	return nil
}

// PoolFor resolves the pool an asset trades in. Lookup is by ticker, so a
// listed asset and its synth or trade twin share one pool. The reserve asset
// has no pool.
func (c *Cache) PoolFor(ctx context.Context, a asset.Asset) (*Pool, error) {
	if a.IsRune() {
		return nil, ErrReserveAssetPool
	}
	pools, err := c.Pools(ctx)
	if err != nil {
		return nil, err
	}
	p, ok := pools[a.Ticker]
	if !ok {
		return nil, fmt.Errorf("%w for asset %s", ErrPoolNotFound, a)
	}
	return p, nil
}

// ExchangeRate prices one display unit of from in display units of to,
// pivoting through the reserve asset when neither side is the reserve.
func (c *Cache) ExchangeRate(ctx context.Context, from, to asset.Asset) (decimal.Decimal, error) {
	if from.Ticker == to.Ticker && from.Chain == to.Chain {
		return decimal.NewFromInt(1), nil
	}
	switch {
	case from.IsRune():
		toPool, err := c.PoolFor(ctx, to)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return toPool.AssetToReserveRatio(), nil
	case to.IsRune():
		fromPool, err := c.PoolFor(ctx, from)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return fromPool.ReserveToAssetRatio(), nil
	default:
		fromPool, err := c.PoolFor(ctx, from)
		if err != nil {
			return decimal.Decimal{}, err
		}
		toPool, err := c.PoolFor(ctx, to)
		if err != nil {
			return decimal.Decimal{}, err
		}
		return fromPool.ReserveToAssetRatio().Mul(toPool.AssetToReserveRatio()), nil
	}
}

// Convert re-denominates an amount into the target asset at the current
// exchange rate, re-based into the target's base units.
func (c *Cache) Convert(ctx context.Context, amount asset.CryptoAmount, target asset.Asset) (asset.CryptoAmount, error) {
	rate, err := c.ExchangeRate(ctx, amount.Asset, target)
	if err != nil {
		return asset.CryptoAmount{}, err
	}
	display := amount.DisplayAmount().Mul(rate)
	return asset.CryptoAmount{
		Amount: asset.FromDisplay(display, asset.DefaultDecimals),
		Asset:  target,
	}, nil
}
