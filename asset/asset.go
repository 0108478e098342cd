// Package asset models asset identity and typed fixed-point amounts for the
// quoting engine. Every amount in the engine is a CryptoAmount: an integer
// number of base units bound to one asset, so cross-asset arithmetic cannot
// happen by accident.
package asset

import (
	"fmt"
	"strings"
)

// AssetKind distinguishes how an asset lives on the network.
type AssetKind int

const (
	// KindNative is a layer-1 gas asset (BTC.BTC, ETH.ETH, THOR.RUNE).
	KindNative AssetKind = iota
	// KindToken is a contract token carried on a layer-1 chain (ETH.USDC-0x...).
	KindToken
	// KindSynth is a protocol-minted synthetic twin of a layer-1 asset.
	KindSynth
	// KindTrade is a trade-account balance held inside the protocol.
	KindTrade
	// KindSecured is a secured asset held by the protocol on behalf of a user.
	KindSecured
)

func (k AssetKind) String() string {
	switch k {
	case KindNative:
		return "native"
	case KindToken:
		return "token"
	case KindSynth:
		return "synth"
	case KindTrade:
		return "trade"
	case KindSecured:
		return "secured"
	}
	return "unknown"
}

// Asset identifies one tradeable asset. Ticker is the symbol up to the first
// "-", so a token and its address-qualified form, or a layer-1 asset and its
// synth twin, share a ticker and therefore a liquidity pool.
type Asset struct {
	Chain  string
	Symbol string
	Ticker string
	Kind   AssetKind
}

// RUNE is the reserve asset every pool is priced against.
var RUNE = Asset{Chain: "THOR", Symbol: "RUNE", Ticker: "RUNE", Kind: KindNative}

// ParseAsset parses the canonical string notation:
//
//	CHAIN.SYMBOL[-ADDRESS]  native or token
//	CHAIN/SYMBOL            synth
//	CHAIN~SYMBOL            trade
//	CHAIN-SYMBOL            secured
//
// This is the only place asset strings are taken apart; callers never re-split
// them ad hoc.
func ParseAsset(s string) (Asset, error) {
	sepIdx := strings.IndexAny(s, "./~-")
	if sepIdx <= 0 || sepIdx == len(s)-1 {
		return Asset{}, fmt.Errorf("invalid asset notation %q", s)
	}

	chain := strings.ToUpper(s[:sepIdx])
	symbol := strings.ToUpper(s[sepIdx+1:])

	var kind AssetKind
	switch s[sepIdx] {
	case '.':
		kind = KindNative
		if strings.Contains(symbol, "-") {
			kind = KindToken
		}
	case '/':
		kind = KindSynth
	case '~':
		kind = KindTrade
	case '-':
		kind = KindSecured
	}

	ticker := symbol
	if dash := strings.Index(symbol, "-"); dash > 0 {
		ticker = symbol[:dash]
	}
	if ticker == "" {
		return Asset{}, fmt.Errorf("invalid asset notation %q", s)
	}

	return Asset{Chain: chain, Symbol: symbol, Ticker: ticker, Kind: kind}, nil
}

// MustParseAsset is ParseAsset for compile-time constants; it panics on bad input.
func MustParseAsset(s string) Asset {
	a, err := ParseAsset(s)
	if err != nil {
		panic(err)
	}
	return a
}

// String renders the canonical notation for the asset's kind.
func (a Asset) String() string {
	switch a.Kind {
	case KindSynth:
		return a.Chain + "/" + a.Symbol
	case KindTrade:
		return a.Chain + "~" + a.Symbol
	case KindSecured:
		return a.Chain + "-" + a.Symbol
	default:
		return a.Chain + "." + a.Symbol
	}
}

// Equals reports full identity equality, kind included.
func (a Asset) Equals(other Asset) bool {
	return a.Chain == other.Chain && a.Symbol == other.Symbol && a.Kind == other.Kind
}

// IsRune reports whether the asset is the reserve asset in any of its kinds.
// A synth or trade RUNE does not exist, but the check stays on chain+ticker so
// it cannot be fooled by address suffixes.
func (a Asset) IsRune() bool {
	return a.Chain == RUNE.Chain && a.Ticker == RUNE.Ticker
}

// TokenAddress returns the contract address part of a token symbol, or "" for
// non-token assets.
func (a Asset) TokenAddress() string {
	if a.Kind != KindToken {
		return ""
	}
	if dash := strings.Index(a.Symbol, "-"); dash > 0 {
		return a.Symbol[dash+1:]
	}
	return ""
}
