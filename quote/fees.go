// Package quote assembles swap estimates: it validates a request, pulls live
// pool and chain state, applies the per-chain fee model and the CLP math, and
// returns a quote whose business failures are soft errors rather than thrown
// faults.
package quote

import (
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/chains"
	"github.com/tidepool-labs/swapquote/marketdata"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "quote").Logger()
}

const (
	// reserveChainFlatFee is the fixed inbound cost on the reserve chain, in
	// base units of the reserve asset.
	reserveChainFlatFee = 2_000_000

	// utxoVirtualTxSize is the fixed virtual transaction size, in bytes,
	// assumed for UTXO-chain inbound transfers.
	utxoVirtualTxSize = 250

	// evmTransferGas / evmTokenTransferGas are the gas limits assumed for an
	// EVM native transfer and a token transfer.
	evmTransferGas      = 35_000
	evmTokenTransferGas = 70_000

	// outboundFeeMultiplier stands in for the combined cost the outbound side
	// bears relative to an inbound transfer.
	outboundFeeMultiplier = 3
)

// InboundDetail is the per-chain live state the fee model runs on. The halt
// flags already fold in the global governance switches.
type InboundDetail struct {
	Chain         string
	VaultAddress  string
	RouterAddress string
	GasRate       decimal.Decimal
	HaltedChain   bool
	HaltedTrading bool
	HaltedLP      bool
}

// BuildInboundDetails folds the inbound-address list and the governance flag
// map into per-chain details. A chain is halted if either its own flag or the
// matching global flag says so.
func BuildInboundDetails(addrs []marketdata.InboundAddress, mimir marketdata.Mimir) (map[string]InboundDetail, error) {
	details := make(map[string]InboundDetail, len(addrs))
	for _, addr := range addrs {
		gasRate, err := decimal.NewFromString(addr.GasRate)
		if err != nil {
			return nil, fmt.Errorf("inbound address %s gas rate: %w", addr.Chain, err)
		}
		details[addr.Chain] = InboundDetail{
			Chain:         addr.Chain,
			VaultAddress:  addr.Address,
			RouterAddress: addr.Router,
			GasRate:       gasRate,
			HaltedChain: addr.Halted ||
				mimir.Enabled("HALT"+addr.Chain+"CHAIN") ||
				mimir.Enabled("HALTCHAINGLOBAL"),
			HaltedTrading: mimir.Enabled("HALT"+addr.Chain+"TRADING") ||
				mimir.Enabled("HALTTRADING"),
			HaltedLP: mimir.Enabled("PAUSELP") ||
				mimir.Enabled("PAUSELP"+addr.Chain),
		}
	}
	// The reserve chain never appears in the inbound address list; its flat
	// fee needs no live gas data.
	if _, ok := details[chains.ReserveChain]; !ok {
		details[chains.ReserveChain] = InboundDetail{
			Chain:         chains.ReserveChain,
			HaltedTrading: mimir.Enabled("HALTTRADING"),
		}
	}
	return details, nil
}

// InboundFee prices the inbound transfer of a on its chain, in base units of
// the chain's gas asset. Unknown chains fail closed; there is no default fee.
func InboundFee(a asset.Asset, detail InboundDetail) (asset.CryptoAmount, error) {
	attrs, ok := chains.Lookup(a.Chain)
	if !ok {
		return asset.CryptoAmount{}, fmt.Errorf("no inbound fee model for chain %s", a.Chain)
	}

	gasAsset := asset.Asset{Chain: a.Chain, Symbol: a.Chain, Ticker: a.Chain, Kind: asset.KindNative}

	switch attrs.Class {
	case chains.FeeClassReserve:
		return asset.NewCryptoAmount(reserveChainFlatFee, asset.RUNE), nil
	case chains.FeeClassUTXO:
		fee := detail.GasRate.Mul(decimal.NewFromInt(utxoVirtualTxSize))
		return asset.NewCryptoAmountFromBase(fee, gasAsset), nil
	case chains.FeeClassEVM:
		gasLimit := decimal.NewFromInt(evmTransferGas)
		if a.Kind == asset.KindToken {
			gasLimit = decimal.NewFromInt(evmTokenTransferGas)
		}
		// gas_rate is gwei; gwei·gas is wei (1e-18), re-based to 1e-8 units.
		feeWei := detail.GasRate.Shift(9).Mul(gasLimit)
		return asset.NewCryptoAmountFromBase(feeWei.Shift(-10), gasAsset), nil
	case chains.FeeClassCosmos:
		return asset.NewCryptoAmountFromBase(detail.GasRate, gasAsset), nil
	}
	return asset.CryptoAmount{}, fmt.Errorf("no inbound fee model for chain %s", a.Chain)
}

// OutboundFee prices the outbound transfer of a on its chain as a fixed
// multiple of the inbound cost.
func OutboundFee(a asset.Asset, detail InboundDetail) (asset.CryptoAmount, error) {
	inbound, err := InboundFee(a, detail)
	if err != nil {
		return asset.CryptoAmount{}, err
	}
	return inbound.MulScalar(decimal.NewFromInt(outboundFeeMultiplier)), nil
}
