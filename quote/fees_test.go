package quote_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/marketdata"
	"github.com/tidepool-labs/swapquote/quote"
)

func inboundFixture() []marketdata.InboundAddress {
	return []marketdata.InboundAddress{
		{Chain: "BTC", Address: "bc1qvault", GasRate: "10"},
		{Chain: "ETH", Address: "0xvault", Router: "0xrouter", GasRate: "30"},
		{Chain: "GAIA", Address: "cosmos1vault", GasRate: "200000"},
	}
}

func TestBuildInboundDetailsHaltFolding(t *testing.T) {
	addrs := []marketdata.InboundAddress{
		{Chain: "BTC", GasRate: "10", Halted: true},
		{Chain: "ETH", GasRate: "30"},
		{Chain: "GAIA", GasRate: "200000"},
	}
	mimir := marketdata.Mimir{
		"HALTETHCHAIN":    1,
		"HALTGAIATRADING": 1,
		"PAUSELPETH":      1,
	}

	details, err := quote.BuildInboundDetails(addrs, mimir)
	assert.NoError(t, err)

	assert.True(t, details["BTC"].HaltedChain) // upstream flag
	assert.True(t, details["ETH"].HaltedChain) // governance flag
	assert.False(t, details["GAIA"].HaltedChain)
	assert.True(t, details["GAIA"].HaltedTrading)
	assert.False(t, details["BTC"].HaltedTrading)
	assert.True(t, details["ETH"].HaltedLP)
}

func TestBuildInboundDetailsGlobalSwitches(t *testing.T) {
	details, err := quote.BuildInboundDetails(inboundFixture(), marketdata.Mimir{
		"HALTCHAINGLOBAL": 1,
		"HALTTRADING":     1,
	})
	assert.NoError(t, err)

	for _, chain := range []string{"BTC", "ETH", "GAIA"} {
		assert.True(t, details[chain].HaltedChain)
		assert.True(t, details[chain].HaltedTrading)
	}
	// the synthesized reserve-chain entry honors the trading switch
	assert.True(t, details["THOR"].HaltedTrading)
	assert.False(t, details["THOR"].HaltedChain)
}

func TestBuildInboundDetailsSynthesizesReserveChain(t *testing.T) {
	details, err := quote.BuildInboundDetails(inboundFixture(), marketdata.Mimir{})
	assert.NoError(t, err)

	_, ok := details["THOR"]
	assert.True(t, ok)
}

func TestBuildInboundDetailsRejectsBadGasRate(t *testing.T) {
	_, err := quote.BuildInboundDetails([]marketdata.InboundAddress{
		{Chain: "BTC", GasRate: "not a number"},
	}, marketdata.Mimir{})
	assert.Error(t, err)
}

func TestInboundFeePerChainClass(t *testing.T) {
	details, err := quote.BuildInboundDetails(inboundFixture(), marketdata.Mimir{})
	assert.NoError(t, err)

	// reserve chain: flat fee
	fee, err := quote.InboundFee(asset.RUNE, details["THOR"])
	assert.NoError(t, err)
	assert.True(t, fee.Asset.IsRune())
	assert.True(t, fee.BaseAmount().Equal(decimal.NewFromInt(2_000_000)))

	// UTXO: sat/byte rate times the assumed tx size
	fee, err = quote.InboundFee(asset.MustParseAsset("BTC.BTC"), details["BTC"])
	assert.NoError(t, err)
	assert.True(t, fee.BaseAmount().Equal(decimal.NewFromInt(2_500)))

	// EVM native: 30 gwei over 35k gas, re-based to 1e-8 units
	fee, err = quote.InboundFee(asset.MustParseAsset("ETH.ETH"), details["ETH"])
	assert.NoError(t, err)
	assert.True(t, fee.BaseAmount().Equal(decimal.NewFromInt(105_000)))

	// EVM token transfers assume double the gas
	fee, err = quote.InboundFee(asset.MustParseAsset("ETH.USDC-0XA0B8"), details["ETH"])
	assert.NoError(t, err)
	assert.True(t, fee.BaseAmount().Equal(decimal.NewFromInt(210_000)))

	// Cosmos: the published rate is already the flat fee
	fee, err = quote.InboundFee(asset.MustParseAsset("GAIA.ATOM"), details["GAIA"])
	assert.NoError(t, err)
	assert.True(t, fee.BaseAmount().Equal(decimal.NewFromInt(200_000)))
}

func TestInboundFeeFailsClosedOnUnknownChain(t *testing.T) {
	_, err := quote.InboundFee(asset.MustParseAsset("SOL.SOL"), quote.InboundDetail{Chain: "SOL"})
	assert.Error(t, err)
}

func TestOutboundFeeIsTripleInbound(t *testing.T) {
	details, err := quote.BuildInboundDetails(inboundFixture(), marketdata.Mimir{})
	assert.NoError(t, err)

	btc := asset.MustParseAsset("BTC.BTC")
	in, err := quote.InboundFee(btc, details["BTC"])
	assert.NoError(t, err)
	out, err := quote.OutboundFee(btc, details["BTC"])
	assert.NoError(t, err)

	assert.True(t, out.BaseAmount().Equal(in.BaseAmount().Mul(decimal.NewFromInt(3))))
}
