// Package endpoint implements the resilient multi-endpoint GET client shared
// by the market-data and node-status providers. The fallback contract is
// sequential: mirrors are tried in configured order and the first non-error
// response wins; no parallel racing.
package endpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "endpoint").Logger()
}

// ErrAllMirrorsFailed is wrapped into the error returned once every
// configured mirror has been tried without success.
var ErrAllMirrorsFailed = errors.New("all mirrors failed")

// StatusError reports a non-200 answer from a mirror, preserving the code so
// callers can tell "not found" apart from "unreachable".
type StatusError struct {
	Code int
	Body string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.Code, e.Body)
}

// Client fans a GET across an ordered list of mirror base URLs.
type Client struct {
	httpClient *http.Client
	baseURLs   []string
}

// New validates the mirror list and returns a client. Invalid URLs are
// skipped with a warning; at least one valid mirror is required.
func New(baseURLs []string, timeout time.Duration) (*Client, error) {
	valid := make([]string, 0, len(baseURLs))
	for _, u := range baseURLs {
		if _, err := url.ParseRequestURI(u); err != nil {
			log.Warn().Err(err).Str("url", u).Msg("Invalid mirror URL, skipping")
			continue
		}
		valid = append(valid, strings.TrimRight(u, "/"))
	}
	if len(valid) == 0 {
		return nil, errors.New("no valid mirror URLs configured")
	}
	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		baseURLs:   valid,
	}, nil
}

// Get fetches path from the first mirror that answers with 200. Remaining
// mirrors are only consulted after the previous one errors.
func (c *Client) Get(ctx context.Context, path string) ([]byte, error) {
	var lastErr error
	for _, base := range c.baseURLs {
		body, err := c.getOne(ctx, base+path)
		if err == nil {
			return body, nil
		}
		lastErr = err
		log.Debug().Err(err).Str("base", base).Str("path", path).Msg("Mirror failed, trying next")
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}
	return nil, fmt.Errorf("%w for %s: %w", ErrAllMirrorsFailed, path, lastErr)
}

// GetJSON fetches path and unmarshals the body into out.
func (c *Client) GetJSON(ctx context.Context, path string, out any) error {
	body, err := c.Get(ctx, path)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("failed to parse response for %s: %w", path, err)
	}
	return nil
}

func (c *Client) getOne(ctx context.Context, fullURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &StatusError{Code: resp.StatusCode, Body: string(body)}
	}
	return body, nil
}
