// Package pool models one liquidity-pool snapshot and the TTL cache the
// estimator reads them through. A pool is immutable once built; a refresh
// swaps in a whole new pool map.
package pool

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/marketdata"
)

// StatusAvailable is the pool status that admits swaps, matched
// case-insensitively.
const StatusAvailable = "available"

// Pool is an immutable snapshot of one pool's depths. Both price ratios are
// derived at construction so reads never recompute them.
type Pool struct {
	Asset          asset.Asset
	AssetBalance   asset.FixedAmount
	ReserveBalance asset.FixedAmount
	Status         string

	reserveToAsset decimal.Decimal // reserve units per asset unit
	assetToReserve decimal.Decimal // asset units per reserve unit
}

// New builds a pool from already-parsed depths in base units.
func New(a asset.Asset, assetBalance, reserveBalance asset.FixedAmount, status string) (*Pool, error) {
	if !assetBalance.IsPositive() || !reserveBalance.IsPositive() {
		return nil, fmt.Errorf("pool %s has empty depth", a)
	}
	reserveToAsset := reserveBalance.Base().Div(assetBalance.Base())
	return &Pool{
		Asset:          a,
		AssetBalance:   assetBalance,
		ReserveBalance: reserveBalance,
		Status:         status,
		reserveToAsset: reserveToAsset,
		assetToReserve: decimal.NewFromInt(1).Div(reserveToAsset),
	}, nil
}

// FromDetail builds a pool from one market-data snapshot entry.
func FromDetail(detail marketdata.PoolDetail) (*Pool, error) {
	a, err := asset.ParseAsset(detail.Asset)
	if err != nil {
		return nil, fmt.Errorf("pool entry: %w", err)
	}
	assetDepth, err := decimal.NewFromString(detail.AssetDepth)
	if err != nil {
		return nil, fmt.Errorf("pool %s asset depth: %w", detail.Asset, err)
	}
	runeDepth, err := decimal.NewFromString(detail.RuneDepth)
	if err != nil {
		return nil, fmt.Errorf("pool %s reserve depth: %w", detail.Asset, err)
	}
	return New(a,
		asset.FromBase(assetDepth, asset.DefaultDecimals),
		asset.FromBase(runeDepth, asset.DefaultDecimals),
		detail.Status)
}

// IsAvailable reports whether the pool admits swaps.
func (p *Pool) IsAvailable() bool {
	return strings.EqualFold(p.Status, StatusAvailable)
}

// ReserveToAssetRatio is the price of the pool asset in reserve units.
func (p *Pool) ReserveToAssetRatio() decimal.Decimal { return p.reserveToAsset }

// AssetToReserveRatio is the price of the reserve asset in pool-asset units.
func (p *Pool) AssetToReserveRatio() decimal.Decimal { return p.assetToReserve }

// PriceIn returns the price of this pool's asset denominated in the other
// pool's asset, pivoting through the reserve asset.
func (p *Pool) PriceIn(other *Pool) decimal.Decimal {
	return p.reserveToAsset.Mul(other.assetToReserve)
}

// ValueInReserve re-values an amount of the pool's asset into reserve units.
// A reserve-asset amount passes through unchanged; any other foreign asset is
// a caller bug.
func (p *Pool) ValueInReserve(amount asset.CryptoAmount) (asset.CryptoAmount, error) {
	if amount.Asset.IsRune() {
		return amount, nil
	}
	if amount.Asset.Ticker != p.Asset.Ticker {
		return asset.CryptoAmount{}, fmt.Errorf("cannot value %s in pool %s", amount.Asset, p.Asset)
	}
	base := amount.BaseAmount().Mul(p.ReserveBalance.Base()).Div(p.AssetBalance.Base())
	return asset.NewCryptoAmountFromBase(base, asset.RUNE), nil
}

// ValueInAsset is the inverse of ValueInReserve: a reserve amount re-valued
// into the pool's asset.
func (p *Pool) ValueInAsset(amount asset.CryptoAmount) (asset.CryptoAmount, error) {
	if !amount.Asset.IsRune() {
		return asset.CryptoAmount{}, fmt.Errorf("cannot value %s as reserve in pool %s", amount.Asset, p.Asset)
	}
	base := amount.BaseAmount().Mul(p.AssetBalance.Base()).Div(p.ReserveBalance.Base())
	return asset.NewCryptoAmountFromBase(base, p.Asset), nil
}
