package marketdata_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/marketdata"
)

func marketServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/v2/pools", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"asset":"BTC.BTC","assetDepth":"10000000000","runeDepth":"250000000000000","status":"available"}
		]`))
	})
	mux.HandleFunc("/v2/thorchain/inbound_addresses", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"chain":"BTC","address":"bc1qvault","halted":false,"gas_rate":"10"},
			{"chain":"ETH","address":"0xvault","router":"0xrouter","halted":true,"gas_rate":"30"}
		]`))
	})
	mux.HandleFunc("/v2/thorchain/mimir", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"HALTTRADING":1,"TXOUTDELAYRATE":2500000000}`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestPools(t *testing.T) {
	c, err := marketdata.NewClient([]string{marketServer(t).URL})
	assert.NoError(t, err)

	pools, err := c.Pools(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(pools))
	assert.Equal(t, "BTC.BTC", pools[0].Asset)
	assert.Equal(t, "10000000000", pools[0].AssetDepth)
	assert.Equal(t, "available", pools[0].Status)
}

func TestInboundAddresses(t *testing.T) {
	c, err := marketdata.NewClient([]string{marketServer(t).URL})
	assert.NoError(t, err)

	addrs, err := c.InboundAddresses(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, len(addrs))
	assert.Equal(t, "BTC", addrs[0].Chain)
	assert.Equal(t, "10", addrs[0].GasRate)
	assert.True(t, addrs[1].Halted)
	assert.Equal(t, "0xrouter", addrs[1].Router)
}

func TestMimirValues(t *testing.T) {
	c, err := marketdata.NewClient([]string{marketServer(t).URL})
	assert.NoError(t, err)

	m, err := c.MimirValues(context.Background())
	assert.NoError(t, err)
	assert.True(t, m.Enabled("HALTTRADING"))
	assert.False(t, m.Enabled("HALTCHAINGLOBAL"))
	v, ok := m.Int("TXOUTDELAYRATE")
	assert.True(t, ok)
	assert.Equal(t, int64(2_500_000_000), v)
}

func TestMirrorFallback(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	t.Cleanup(broken.Close)

	c, err := marketdata.NewClient([]string{broken.URL, marketServer(t).URL})
	assert.NoError(t, err)

	pools, err := c.Pools(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, len(pools))
}
