package quote

import (
	"github.com/shopspring/decimal"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/chains"
	"github.com/tidepool-labs/swapquote/marketdata"
	"github.com/tidepool-labs/swapquote/pool"
)

const (
	// txOutDelayRateKey is the governance constant throttling large outbound
	// transfers: reserve base units drained per scheduled block.
	txOutDelayRateKey = "TXOUTDELAYRATE"

	// defaultTxOutDelayRate applies when governance does not publish a rate,
	// 25 reserve units per block in base units.
	defaultTxOutDelayRate = 25_0000_0000

	// maxOutboundBlocks caps the scheduling delay.
	maxOutboundBlocks = 720
)

// OutboundDelaySeconds estimates how long the protocol will hold the outbound
// transfer back, from the transfer's reserve value against the network-wide
// throttle rate, floored at one block and expressed in the destination
// chain's block time. destPool is nil when the destination is the reserve
// asset itself.
func OutboundDelaySeconds(destPool *pool.Pool, outbound asset.CryptoAmount, mimir marketdata.Mimir, destChain string) float64 {
	runeValue := outbound
	if destPool != nil {
		v, err := destPool.ValueInReserve(outbound)
		if err != nil {
			// Foreign amount for this pool is a caller bug upstream; fall
			// back to the minimum delay rather than guessing a value.
			log.Warn().Err(err).Msg("Cannot value outbound in reserve terms")
			return chains.BlockTimeSeconds(destChain)
		}
		runeValue = v
	}

	rate := decimal.NewFromInt(defaultTxOutDelayRate)
	if v, ok := mimir.Int(txOutDelayRateKey); ok && v > 0 {
		rate = decimal.NewFromInt(v)
	}

	blocks := runeValue.BaseAmount().Div(rate).Ceil().IntPart()
	if blocks < 1 {
		blocks = 1
	}
	if blocks > maxOutboundBlocks {
		blocks = maxOutboundBlocks
	}
	return float64(blocks) * chains.BlockTimeSeconds(destChain)
}
