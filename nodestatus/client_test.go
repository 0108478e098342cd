package nodestatus_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zeebo/assert"

	"github.com/tidepool-labs/swapquote/nodestatus"
)

func nodeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/thorchain/tx/KNOWN", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{
			"observed_tx": {
				"tx": {"id":"KNOWN","chain":"BTC","memo":"SWAP:ETH.ETH:0xdest:100"},
				"status": "done",
				"block_height": "800000",
				"finalise_height": "800000",
				"out_hashes": ["OUT1"]
			}
		}`))
	})
	mux.HandleFunc("/thorchain/tx/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"tx not found"}`, http.StatusNotFound)
	})
	mux.HandleFunc("/thorchain/queue/scheduled", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"chain":"ETH","to_address":"0xdest","in_hash":"KNOWN","height":100}
		]`))
	})
	mux.HandleFunc("/thorchain/lastblock", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`[
			{"chain":"BTC","last_observed_in":800005,"last_signed_out":1,"thorchain":90}
		]`))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestTxKnownHash(t *testing.T) {
	c, err := nodestatus.NewClient([]string{nodeServer(t).URL})
	assert.NoError(t, err)

	resp, err := c.Tx(context.Background(), "KNOWN")
	assert.NoError(t, err)
	assert.Equal(t, "BTC", resp.ObservedTx.Tx.Chain)
	assert.Equal(t, nodestatus.StatusDone, resp.ObservedTx.Status)
	assert.Equal(t, int64(800_000), resp.ObservedTx.BlockHeight)
	assert.Equal(t, 1, len(resp.ObservedTx.OutHashes))
}

func TestTxUnknownHashIsNotObserved(t *testing.T) {
	c, err := nodestatus.NewClient([]string{nodeServer(t).URL})
	assert.NoError(t, err)

	_, err = c.Tx(context.Background(), "UNKNOWN")
	assert.True(t, errors.Is(err, nodestatus.ErrTxNotObserved))
}

func TestScheduledQueueAndLastBlocks(t *testing.T) {
	c, err := nodestatus.NewClient([]string{nodeServer(t).URL})
	assert.NoError(t, err)
	ctx := context.Background()

	queue, err := c.ScheduledQueue(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(queue))
	assert.Equal(t, "KNOWN", queue[0].InHash)
	assert.Equal(t, int64(100), queue[0].Height)

	blocks, err := c.LastBlocks(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 1, len(blocks))
	assert.Equal(t, int64(90), blocks[0].Thorchain)
}

func TestAllMirrorsDownIsNodeNotResponding(t *testing.T) {
	broken := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(broken.Close)

	c, err := nodestatus.NewClient([]string{broken.URL})
	assert.NoError(t, err)

	_, err = c.ScheduledQueue(context.Background())
	assert.True(t, errors.Is(err, nodestatus.ErrNodeNotResponding))
}
