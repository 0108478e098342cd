// Package marketdata queries the read-only market-data service for pool
// depths, inbound vault addresses and governance flags. The service may be
// mirrored; fallback is sequential, first success wins.
package marketdata

import (
	"context"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidepool-labs/swapquote/internal/endpoint"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "marketdata").Logger()
}

const (
	poolsPath   = "/v2/pools"
	inboundPath = "/v2/thorchain/inbound_addresses"
	mimirPath   = "/v2/thorchain/mimir"
)

// DefaultTimeout bounds a single mirror attempt. Retry and backoff policy
// belongs to the transport; none is layered here.
const DefaultTimeout = 10 * time.Second

// Client is the market-data provider handle.
type Client struct {
	endpoints *endpoint.Client
}

// NewClient builds a client over the given mirror base URLs.
func NewClient(baseURLs []string) (*Client, error) {
	eps, err := endpoint.New(baseURLs, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	log.Info().Int("mirrors", len(baseURLs)).Msg("Market data client initialized")
	return &Client{endpoints: eps}, nil
}

// Pools returns the full pool list snapshot.
func (c *Client) Pools(ctx context.Context) ([]PoolDetail, error) {
	var pools []PoolDetail
	if err := c.endpoints.GetJSON(ctx, poolsPath, &pools); err != nil {
		return nil, err
	}
	return pools, nil
}

// InboundAddresses returns the current per-chain vault addresses, gas rates
// and halt flags.
func (c *Client) InboundAddresses(ctx context.Context) ([]InboundAddress, error) {
	var addrs []InboundAddress
	if err := c.endpoints.GetJSON(ctx, inboundPath, &addrs); err != nil {
		return nil, err
	}
	return addrs, nil
}

// MimirValues returns the governance flag map.
func (c *Client) MimirValues(ctx context.Context) (Mimir, error) {
	var m Mimir
	if err := c.endpoints.GetJSON(ctx, mimirPath, &m); err != nil {
		return nil, err
	}
	return m, nil
}
