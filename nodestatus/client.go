// Package nodestatus queries the protocol node for the live state a
// transaction-status check needs: the observed inbound tx, the scheduled
// outbound queue and the last-block heights. Mirrors fall back sequentially.
package nodestatus

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidepool-labs/swapquote/internal/endpoint"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "nodestatus").Logger()
}

// ErrNodeNotResponding is returned once every configured mirror failed.
var ErrNodeNotResponding = errors.New("node service not responding")

// ErrTxNotObserved is returned when the node has not seen the hash at all.
var ErrTxNotObserved = errors.New("transaction not observed")

// DefaultTimeout bounds a single mirror attempt.
const DefaultTimeout = 10 * time.Second

// Client is the node-status provider handle.
type Client struct {
	endpoints *endpoint.Client
}

// NewClient builds a client over the given mirror base URLs.
func NewClient(baseURLs []string) (*Client, error) {
	eps, err := endpoint.New(baseURLs, DefaultTimeout)
	if err != nil {
		return nil, err
	}
	log.Info().Int("mirrors", len(baseURLs)).Msg("Node status client initialized")
	return &Client{endpoints: eps}, nil
}

// Tx returns the node's view of one inbound transaction by hash.
func (c *Client) Tx(ctx context.Context, hash string) (TxResponse, error) {
	var resp TxResponse
	path := "/thorchain/tx/" + url.PathEscape(hash)
	if err := c.endpoints.GetJSON(ctx, path, &resp); err != nil {
		var statusErr *endpoint.StatusError
		if errors.As(err, &statusErr) && statusErr.Code == http.StatusNotFound {
			return TxResponse{}, fmt.Errorf("%w: %s", ErrTxNotObserved, hash)
		}
		return TxResponse{}, c.wrap(err)
	}
	return resp, nil
}

// ScheduledQueue returns the outbound transfers waiting on a target height.
func (c *Client) ScheduledQueue(ctx context.Context) ([]ScheduledOutbound, error) {
	var queue []ScheduledOutbound
	if err := c.endpoints.GetJSON(ctx, "/thorchain/queue/scheduled", &queue); err != nil {
		return nil, c.wrap(err)
	}
	return queue, nil
}

// LastBlocks returns the per-chain height snapshot.
func (c *Client) LastBlocks(ctx context.Context) ([]LastBlock, error) {
	var blocks []LastBlock
	if err := c.endpoints.GetJSON(ctx, "/thorchain/lastblock", &blocks); err != nil {
		return nil, c.wrap(err)
	}
	return blocks, nil
}

func (c *Client) wrap(err error) error {
	if errors.Is(err, endpoint.ErrAllMirrorsFailed) {
		return fmt.Errorf("%w: %w", ErrNodeNotResponding, err)
	}
	return err
}
