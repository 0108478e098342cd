// Package models holds the JSON shapes of the quote service's HTTP surface.
package models

// QuoteRequest - query parameters of GET /v1/quote
type QuoteRequest struct {
	FromAsset          string `json:"from_asset"`           // e.g. "BTC.BTC"
	ToAsset            string `json:"to_asset"`             // e.g. "ETH.ETH"
	AmountIn           string `json:"amount_in"`            // base units, e.g. "100000000"
	AffiliateBps       int64  `json:"affiliate_bps"`        // 0-10000
	SlipLimitBps       int64  `json:"slip_limit_bps"`       // 0 disables the check
	DestinationAddress string `json:"destination_address"`  // optional, enables memo
	AffiliateAddress   string `json:"affiliate_address"`    // required with affiliate_bps
}

// FeeBreakdown mirrors the estimate's four fee components, all in base units.
type FeeBreakdown struct {
	Inbound        string `json:"inbound"`
	InboundAsset   string `json:"inbound_asset"`
	Swap           string `json:"swap"`
	Outbound       string `json:"outbound"`
	Affiliate      string `json:"affiliate"`
	AffiliateAsset string `json:"affiliate_asset"`
	OutboundAsset  string `json:"outbound_asset"`
}

// QuoteResponse - body of GET /v1/quote. A quote with can_swap=false still
// carries the numbers so a caller can render it alongside the errors.
type QuoteResponse struct {
	NetOutput       string       `json:"net_output"`        // base units of to_asset
	NetOutputAsset  string       `json:"net_output_asset"`  //
	Slip            string       `json:"slip"`              // fraction, e.g. "0.0099"
	Fees            FeeBreakdown `json:"fees"`              //
	WaitTimeSeconds float64      `json:"wait_time_seconds"` //
	CanSwap         bool         `json:"can_swap"`          //
	Errors          []string     `json:"errors,omitempty"`  // business obstacles
	Memo            string       `json:"memo,omitempty"`    // set when a destination address was given
}

// TxStatusResponse - body of GET /v1/status/{hash}
type TxStatusResponse struct {
	Hash             string  `json:"hash"`
	Stage            string  `json:"stage"`
	EstimatedSeconds float64 `json:"estimated_seconds_remaining"`
}

// PoolResponse - one entry of GET /v1/pools
type PoolResponse struct {
	Asset        string `json:"asset"`
	AssetDepth   string `json:"asset_depth"`   // base units
	ReserveDepth string `json:"reserve_depth"` // base units
	Status       string `json:"status"`
	AssetPrice   string `json:"asset_price"` // reserve units per asset unit
	Available    bool   `json:"available"`
}

// ErrorResponse - body of any non-200 answer
type ErrorResponse struct {
	Error string `json:"error"`
}
