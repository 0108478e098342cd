// Package swapmath implements the CLP pricing curve as pure functions over
// pool snapshots. Nothing here performs I/O or carries state; given the same
// pool depths the same input always produces the same output.
//
// With x the input amount, X the depth of the side being added to and Y the
// depth of the side being drained:
//
//	output = x·X·Y / (x+X)²
//	fee    = x²·Y  / (x+X)²
//	slip   = x / (x+X)
//
// so that output + fee equals the naive linear transfer x·Y/(x+X) and slip is
// the share of it the curve withholds.
package swapmath

import (
	"github.com/shopspring/decimal"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/pool"
)

// depths orients the pool for the swap direction: toReserve drains the
// reserve side, the opposite drains the asset side.
func depths(p *pool.Pool, toReserve bool) (x, y decimal.Decimal) {
	if toReserve {
		return p.AssetBalance.Base(), p.ReserveBalance.Base()
	}
	return p.ReserveBalance.Base(), p.AssetBalance.Base()
}

func outAsset(p *pool.Pool, toReserve bool) asset.Asset {
	if toReserve {
		return asset.RUNE
	}
	return p.Asset
}

// SwapOutput computes the amount the pool pays out for input x.
func SwapOutput(x asset.CryptoAmount, p *pool.Pool, toReserve bool) asset.CryptoAmount {
	bigX, bigY := depths(p, toReserve)
	in := x.BaseAmount()
	denom := in.Add(bigX)
	out := in.Mul(bigX).Mul(bigY).Div(denom.Mul(denom))
	return asset.NewCryptoAmountFromBase(out, outAsset(p, toReserve))
}

// SwapFee computes the liquidity fee the curve withholds, denominated in the
// output asset.
func SwapFee(x asset.CryptoAmount, p *pool.Pool, toReserve bool) asset.CryptoAmount {
	bigX, bigY := depths(p, toReserve)
	in := x.BaseAmount()
	denom := in.Add(bigX)
	fee := in.Mul(in).Mul(bigY).Div(denom.Mul(denom))
	return asset.NewCryptoAmountFromBase(fee, outAsset(p, toReserve))
}

// SwapSlip computes the fractional price impact x/(x+X), strictly inside
// (0,1) for positive x and monotonically increasing in x.
func SwapSlip(x asset.CryptoAmount, p *pool.Pool, toReserve bool) decimal.Decimal {
	bigX, _ := depths(p, toReserve)
	in := x.BaseAmount()
	return in.Div(in.Add(bigX))
}

// DoubleSwapOutput routes x through the reserve asset: source pool to reserve,
// then reserve into the destination pool. The intermediate amount is computed
// explicitly; there is no algebraic shortcut.
func DoubleSwapOutput(x asset.CryptoAmount, source, dest *pool.Pool) asset.CryptoAmount {
	r := SwapOutput(x, source, true)
	return SwapOutput(r, dest, false)
}

// DoubleSwapFee sums both legs' fees in destination-asset terms: the first
// leg's reserve-denominated fee is re-valued through the destination pool,
// then the second leg's fee is added.
func DoubleSwapFee(x asset.CryptoAmount, source, dest *pool.Pool) (asset.CryptoAmount, error) {
	feeLeg1 := SwapFee(x, source, true)
	feeLeg1InDest, err := dest.ValueInAsset(feeLeg1)
	if err != nil {
		return asset.CryptoAmount{}, err
	}
	r := SwapOutput(x, source, true)
	feeLeg2 := SwapFee(r, dest, false)
	return feeLeg1InDest.Add(feeLeg2), nil
}

// DoubleSwapSlip is the straight sum of both legs' slips. Downstream
// consumers depend on this exact arithmetic, so the legs are not compounded.
func DoubleSwapSlip(x asset.CryptoAmount, source, dest *pool.Pool) decimal.Decimal {
	slipLeg1 := SwapSlip(x, source, true)
	r := SwapOutput(x, source, true)
	slipLeg2 := SwapSlip(r, dest, false)
	return slipLeg1.Add(slipLeg2)
}
