package pool

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/marketdata"
)

type fakeProvider struct {
	calls   int
	details []marketdata.PoolDetail
	err     error
}

func (f *fakeProvider) Pools(ctx context.Context) ([]marketdata.PoolDetail, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.details, nil
}

func snapshotDetails() []marketdata.PoolDetail {
	return []marketdata.PoolDetail{
		{Asset: "BTC.BTC", AssetDepth: "10000000000", RuneDepth: "250000000000000", Status: "Available"},
		{Asset: "ETH.ETH", AssetDepth: "100000000000", RuneDepth: "250000000000000", Status: "Available"},
		{Asset: "broken", AssetDepth: "x", RuneDepth: "y", Status: "Available"},
	}
}

func newTestCache(provider Provider, ttl time.Duration, at time.Time) (*Cache, *time.Time) {
	c := NewCache(provider, ttl)
	clock := at
	c.now = func() time.Time { return clock }
	return c, &clock
}

func TestFreshSnapshotServedWithoutRefetch(t *testing.T) {
	provider := &fakeProvider{details: snapshotDetails()}
	c, clock := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))
	ctx := context.Background()

	pools, err := c.Pools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(pools)) // the broken entry is skipped
	assert.Equal(t, 1, provider.calls)

	*clock = clock.Add(5 * time.Second)
	_, err = c.Pools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, provider.calls)

	*clock = clock.Add(2 * time.Second)
	_, err = c.Pools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, provider.calls)
}

func TestStaleSnapshotSurvivesFailedRefresh(t *testing.T) {
	provider := &fakeProvider{details: snapshotDetails()}
	c, clock := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))
	ctx := context.Background()

	_, err := c.Pools(ctx)
	assert.NoError(t, err)

	provider.err = errors.New("upstream down")
	*clock = clock.Add(time.Minute)

	pools, err := c.Pools(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(pools))
}

func TestNeverPopulatedCacheErrors(t *testing.T) {
	provider := &fakeProvider{err: errors.New("upstream down")}
	c, _ := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))

	_, err := c.Pools(context.Background())
	assert.Error(t, err)
}

func TestPoolForTickerLookup(t *testing.T) {
	provider := &fakeProvider{details: snapshotDetails()}
	c, _ := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))
	ctx := context.Background()

	p, err := c.PoolFor(ctx, asset.MustParseAsset("BTC.BTC"))
	assert.NoError(t, err)
	assert.Equal(t, "BTC.BTC", p.Asset.String())

	// synth and trade twins resolve to the layer-1 pool
	synthPool, err := c.PoolFor(ctx, asset.MustParseAsset("BTC/BTC"))
	assert.NoError(t, err)
	assert.Equal(t, p, synthPool)

	_, err = c.PoolFor(ctx, asset.RUNE)
	assert.True(t, errors.Is(err, ErrReserveAssetPool))

	_, err = c.PoolFor(ctx, asset.MustParseAsset("SOL.SOL"))
	assert.True(t, errors.Is(err, ErrPoolNotFound))
}

func TestExchangeRate(t *testing.T) {
	provider := &fakeProvider{details: snapshotDetails()}
	c, _ := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))
	ctx := context.Background()

	btc := asset.MustParseAsset("BTC.BTC")
	eth := asset.MustParseAsset("ETH.ETH")

	rate, err := c.ExchangeRate(ctx, btc, asset.RUNE)
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(25_000)))

	rate, err = c.ExchangeRate(ctx, asset.RUNE, eth)
	assert.NoError(t, err)
	assert.True(t, rate.Mul(decimal.NewFromInt(2_500)).Equal(decimal.NewFromInt(1)))

	rate, err = c.ExchangeRate(ctx, btc, eth)
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(10)))

	rate, err = c.ExchangeRate(ctx, btc, btc)
	assert.NoError(t, err)
	assert.True(t, rate.Equal(decimal.NewFromInt(1)))
}

func TestConvert(t *testing.T) {
	provider := &fakeProvider{details: snapshotDetails()}
	c, _ := newTestCache(provider, 6*time.Second, time.Unix(1000, 0))
	ctx := context.Background()

	oneBTC := asset.NewCryptoAmount(100_000_000, asset.MustParseAsset("BTC.BTC"))
	inETH, err := c.Convert(ctx, oneBTC, asset.MustParseAsset("ETH.ETH"))
	assert.NoError(t, err)
	assert.Equal(t, "ETH.ETH", inETH.Asset.String())
	assert.True(t, inETH.BaseAmount().Equal(decimal.NewFromInt(1_000_000_000)))
}
