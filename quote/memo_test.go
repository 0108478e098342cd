package quote_test

import (
	"strings"
	"testing"

	"github.com/btcsuite/btcutil/bech32"
	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/quote"
)

// thorAddress builds a syntactically valid reserve-chain address for tests.
func thorAddress(t *testing.T) string {
	t.Helper()
	payload := make([]byte, 20)
	for i := range payload {
		payload[i] = byte(i)
	}
	grouped, err := bech32.ConvertBits(payload, 8, 5, true)
	assert.NoError(t, err)
	addr, err := bech32.Encode("thor", grouped)
	assert.NoError(t, err)
	return addr
}

func TestBuildSwapMemoBasic(t *testing.T) {
	memo, err := quote.BuildSwapMemo(quote.MemoParams{
		Destination:        asset.MustParseAsset("ETH.ETH"),
		DestinationAddress: "0xdest",
		Limit:              asset.NewCryptoAmount(2_450_000_000_000, asset.MustParseAsset("ETH.ETH")),
	})
	assert.NoError(t, err)
	assert.Equal(t, "SWAP:ETH.ETH:0xdest:2450000000000", memo)
}

func TestBuildSwapMemoWithAffiliate(t *testing.T) {
	aff := thorAddress(t)
	memo, err := quote.BuildSwapMemo(quote.MemoParams{
		Destination:        asset.MustParseAsset("ETH.ETH"),
		DestinationAddress: "0xdest",
		Limit:              asset.NewCryptoAmount(100, asset.MustParseAsset("ETH.ETH")),
		AffiliateAddress:   aff,
		AffiliateBps:       50,
	})
	assert.NoError(t, err)
	assert.Equal(t, "SWAP:ETH.ETH:0xdest:100:"+aff+":50", memo)
}

func TestBuildSwapMemoRejectsBadAffiliateAddress(t *testing.T) {
	params := quote.MemoParams{
		Destination:        asset.MustParseAsset("ETH.ETH"),
		DestinationAddress: "0xdest",
		Limit:              asset.NewCryptoAmount(100, asset.MustParseAsset("ETH.ETH")),
		AffiliateBps:       50,
	}

	params.AffiliateAddress = "not bech32"
	_, err := quote.BuildSwapMemo(params)
	assert.Error(t, err)

	// valid bech32, wrong network prefix
	grouped, err := bech32.ConvertBits(make([]byte, 20), 8, 5, true)
	assert.NoError(t, err)
	cosmosAddr, err := bech32.Encode("cosmos", grouped)
	assert.NoError(t, err)
	params.AffiliateAddress = cosmosAddr
	_, err = quote.BuildSwapMemo(params)
	assert.Error(t, err)
}

func TestBuildSwapMemoRequiresDestinationAddress(t *testing.T) {
	_, err := quote.BuildSwapMemo(quote.MemoParams{
		Destination: asset.MustParseAsset("ETH.ETH"),
		Limit:       asset.NewCryptoAmount(100, asset.MustParseAsset("ETH.ETH")),
	})
	assert.Error(t, err)
}

func TestBuildSwapMemoTruncatesOnCappedChains(t *testing.T) {
	btc := asset.MustParseAsset("BTC.BTC")
	dest := "bc1q" + strings.Repeat("x", 46)
	params := quote.MemoParams{
		Destination:        btc,
		DestinationAddress: dest,
		Limit:              asset.NewCryptoAmount(2_450_000_000_000, btc),
		AffiliateAddress:   thorAddress(t),
		AffiliateBps:       50,
	}

	memo, err := quote.BuildSwapMemo(params)
	assert.NoError(t, err)
	assert.Equal(t, "SWAP:BTC.BTC:"+dest, memo)
	assert.True(t, len(memo) <= 80)
}

func TestBuildSwapMemoKeepsFullFormOnUncappedChains(t *testing.T) {
	eth := asset.MustParseAsset("ETH.ETH")
	params := quote.MemoParams{
		Destination:        eth,
		DestinationAddress: "0x" + strings.Repeat("a", 60),
		Limit:              asset.NewCryptoAmount(2_450_000_000_000, eth),
		AffiliateAddress:   thorAddress(t),
		AffiliateBps:       50,
	}

	memo, err := quote.BuildSwapMemo(params)
	assert.NoError(t, err)
	assert.True(t, len(memo) > 80)
	assert.True(t, strings.HasSuffix(memo, ":50"))
}

func TestValidateReserveAddress(t *testing.T) {
	assert.NoError(t, quote.ValidateReserveAddress(thorAddress(t)))
	assert.Error(t, quote.ValidateReserveAddress("garbage"))
}
