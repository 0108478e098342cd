package rpc

import (
	"encoding/json"
	"errors"
	"net/http"
	"sort"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/models"
	"github.com/tidepool-labs/swapquote/nodestatus"
	"github.com/tidepool-labs/swapquote/pool"
	"github.com/tidepool-labs/swapquote/quote"
	"github.com/tidepool-labs/swapquote/tracker"
)

// QuoteServer implements the JSON handlers of the quote surface.
type QuoteServer struct {
	estimator *quote.Estimator
	pools     *pool.Cache
	tracker   *tracker.Tracker
}

// NewQuoteServer creates a new QuoteServer
func NewQuoteServer(estimator *quote.Estimator, pools *pool.Cache, txTracker *tracker.Tracker) *QuoteServer {
	return &QuoteServer{estimator: estimator, pools: pools, tracker: txTracker}
}

// GetQuote handles GET /v1/quote.
//
// Returns:
// - 400 Bad Request: structurally invalid input (bad asset notation, zero amount)
// - 200 OK with can_swap=false: valid query but the swap cannot execute
// - 200 OK with can_swap=true: executable quote
// - 502 Bad Gateway: upstream market data unavailable
func (s *QuoteServer) GetQuote(w http.ResponseWriter, r *http.Request) {
	params, err := parseQuoteParams(r)
	if err != nil {
		quoteErrorsTotal.Inc()
		writeError(w, http.StatusBadRequest, err)
		return
	}

	estimate, err := s.estimator.EstimateSwap(r.Context(), params)
	if err != nil {
		quoteErrorsTotal.Inc()
		// Validation faults surface synchronously; anything else means the
		// upstream snapshot could not be fetched.
		writeError(w, statusForEstimateError(err), err)
		return
	}

	quotesTotal.WithLabelValues(strconv.FormatBool(estimate.CanSwap)).Inc()
	writeJSON(w, http.StatusOK, quoteResponse(estimate))
}

// GetPools handles GET /v1/pools.
func (s *QuoteServer) GetPools(w http.ResponseWriter, r *http.Request) {
	pools, err := s.pools.Pools(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err)
		return
	}

	out := make([]models.PoolResponse, 0, len(pools))
	for _, p := range pools {
		out = append(out, models.PoolResponse{
			Asset:        p.Asset.String(),
			AssetDepth:   p.AssetBalance.Base().StringFixed(0),
			ReserveDepth: p.ReserveBalance.Base().StringFixed(0),
			Status:       p.Status,
			AssetPrice:   p.ReserveToAssetRatio().String(),
			Available:    p.IsAvailable(),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Asset < out[j].Asset })
	writeJSON(w, http.StatusOK, out)
}

// GetTxStatus handles GET /v1/status/{hash}.
func (s *QuoteServer) GetTxStatus(w http.ResponseWriter, r *http.Request) {
	hash := chi.URLParam(r, "hash")
	if hash == "" {
		writeError(w, http.StatusBadRequest, errors.New("transaction hash required"))
		return
	}

	status, err := s.tracker.CheckTx(r.Context(), hash)
	if err != nil {
		code := http.StatusBadGateway
		if !errors.Is(err, nodestatus.ErrNodeNotResponding) {
			code = http.StatusInternalServerError
		}
		writeError(w, code, err)
		return
	}

	statusChecksTotal.WithLabelValues(status.Stage.String()).Inc()
	writeJSON(w, http.StatusOK, models.TxStatusResponse{
		Hash:             hash,
		Stage:            status.Stage.String(),
		EstimatedSeconds: status.EstimatedSecondsRemaining,
	})
}

// parseQuoteParams validates the query string into estimator params. Parse
// failures here are the caller's fault, never the upstream's.
func parseQuoteParams(r *http.Request) (quote.Params, error) {
	q := r.URL.Query()

	from, err := asset.ParseAsset(q.Get("from_asset"))
	if err != nil {
		return quote.Params{}, err
	}
	to, err := asset.ParseAsset(q.Get("to_asset"))
	if err != nil {
		return quote.Params{}, err
	}
	amountIn, err := decimal.NewFromString(q.Get("amount_in"))
	if err != nil {
		return quote.Params{}, errors.New("amount_in must be a base-unit integer")
	}

	params := quote.Params{
		Source:             from,
		Destination:        to,
		Input:              asset.NewCryptoAmountFromBase(amountIn, from),
		DestinationAddress: q.Get("destination_address"),
		AffiliateAddress:   q.Get("affiliate_address"),
	}

	if v := q.Get("affiliate_bps"); v != "" {
		params.AffiliateBps, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return quote.Params{}, errors.New("affiliate_bps must be an integer")
		}
	}
	if v := q.Get("slip_limit_bps"); v != "" {
		params.SlipLimitBps, err = strconv.ParseInt(v, 10, 64)
		if err != nil {
			return quote.Params{}, errors.New("slip_limit_bps must be an integer")
		}
	}
	return params, nil
}

// statusForEstimateError maps estimator faults onto HTTP codes: validation
// rejections are 400s, upstream failures 502s.
func statusForEstimateError(err error) int {
	if errors.Is(err, quote.ErrInvalidParams) || errors.Is(err, pool.ErrReserveAssetPool) {
		return http.StatusBadRequest
	}
	return http.StatusBadGateway
}

func quoteResponse(estimate *quote.Estimate) models.QuoteResponse {
	return models.QuoteResponse{
		NetOutput:       estimate.NetOutput.BaseAmount().StringFixed(0),
		NetOutputAsset:  estimate.NetOutput.Asset.String(),
		Slip:            estimate.Slip.String(),
		Fees:            feeBreakdown(estimate),
		WaitTimeSeconds: estimate.WaitTimeSeconds,
		CanSwap:         estimate.CanSwap,
		Errors:          estimate.Errors,
		Memo:            estimate.Memo,
	}
}

func feeBreakdown(estimate *quote.Estimate) models.FeeBreakdown {
	return models.FeeBreakdown{
		Inbound:        estimate.Fees.Inbound.BaseAmount().StringFixed(0),
		InboundAsset:   estimate.Fees.Inbound.Asset.String(),
		Swap:           estimate.Fees.Swap.BaseAmount().StringFixed(0),
		Outbound:       estimate.Fees.Outbound.BaseAmount().StringFixed(0),
		OutboundAsset:  estimate.Fees.Outbound.Asset.String(),
		Affiliate:      estimate.Fees.Affiliate.BaseAmount().StringFixed(0),
		AffiliateAsset: estimate.Fees.Affiliate.Asset.String(),
	}
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		Logger.Error().Err(err).Msg("Failed to encode response")
	}
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, models.ErrorResponse{Error: err.Error()})
}
