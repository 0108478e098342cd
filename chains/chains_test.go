package chains_test

import (
	"testing"

	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/chains"
)

func TestLookupKnownChains(t *testing.T) {
	btc, ok := chains.Lookup("BTC")
	assert.True(t, ok)
	assert.Equal(t, chains.FeeClassUTXO, btc.Class)
	assert.True(t, btc.MemoLimit80)

	eth, ok := chains.Lookup("ETH")
	assert.True(t, ok)
	assert.Equal(t, chains.FeeClassEVM, eth.Class)
	assert.False(t, eth.MemoLimit80)

	thor, ok := chains.Lookup(chains.ReserveChain)
	assert.True(t, ok)
	assert.Equal(t, chains.FeeClassReserve, thor.Class)
}

func TestLookupFailsClosed(t *testing.T) {
	_, ok := chains.Lookup("SOL")
	assert.False(t, ok)
}

func TestBlockTimeFallback(t *testing.T) {
	assert.Equal(t, float64(600), chains.BlockTimeSeconds("BTC"))
	assert.Equal(t, chains.DefaultBlockTimeSeconds, chains.BlockTimeSeconds("SOL"))
}
