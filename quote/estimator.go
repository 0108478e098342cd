package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/marketdata"
	"github.com/tidepool-labs/swapquote/pool"
	"github.com/tidepool-labs/swapquote/swapmath"
)

// MaxAffiliateBps bounds the affiliate fee. The rate is expressed in basis
// points of the net input, 0 to 10000.
const MaxAffiliateBps = 10_000

// ErrInvalidParams marks a structurally broken request, rejected before any
// network call.
var ErrInvalidParams = errors.New("invalid swap params")

// errInsufficientInput is the soft error recorded when the requested input
// cannot cover the combined fees.
const errInsufficientInput = "input amount is less than total swap fees"

// MarketProvider is the live chain-state dependency of the estimator.
type MarketProvider interface {
	InboundAddresses(ctx context.Context) ([]marketdata.InboundAddress, error)
	MimirValues(ctx context.Context) (marketdata.Mimir, error)
}

// Params describes one swap to estimate.
type Params struct {
	Source      asset.Asset
	Destination asset.Asset
	Input       asset.CryptoAmount

	// AffiliateBps is the affiliate's cut of the net input in basis points.
	AffiliateBps int64
	// SlipLimitBps caps acceptable slip in basis points; 0 disables the check.
	SlipLimitBps int64

	// DestinationAddress, when set, is included in the produced memo.
	DestinationAddress string
	// AffiliateAddress is the reserve-chain address collecting the affiliate
	// fee; required when AffiliateBps is non-zero and a memo is requested.
	AffiliateAddress string
}

// Fees is the quote's full fee breakdown. Inbound and affiliate fees are
// denominated in the source asset, swap and outbound fees in the destination
// asset.
type Fees struct {
	Inbound   asset.CryptoAmount
	Swap      asset.CryptoAmount
	Outbound  asset.CryptoAmount
	Affiliate asset.CryptoAmount
}

// Estimate is the produced quote. CanSwap is derived from Errors and never
// set independently: business failures land in Errors so a caller can still
// render the quote together with the reasons it cannot execute.
type Estimate struct {
	Fees            Fees
	Slip            decimal.Decimal
	NetOutput       asset.CryptoAmount
	WaitTimeSeconds float64
	CanSwap         bool
	Errors          []string
	Memo            string
}

// Estimator orchestrates quote assembly over the pool cache and the
// market-data provider.
type Estimator struct {
	pools  *pool.Cache
	market MarketProvider
}

// NewEstimator wires the estimator to its collaborators.
func NewEstimator(pools *pool.Cache, market MarketProvider) *Estimator {
	return &Estimator{pools: pools, market: market}
}

// validate rejects structurally broken requests before any network call.
func validate(params Params) error {
	if params.Source.Equals(params.Destination) {
		return fmt.Errorf("%w: source and destination are the same asset %s",
			ErrInvalidParams, params.Source)
	}
	if !params.Input.IsPositive() {
		return fmt.Errorf("%w: input amount must be positive", ErrInvalidParams)
	}
	if !params.Input.Asset.Equals(params.Source) {
		return fmt.Errorf("%w: input amount is denominated in %s, not source asset %s",
			ErrInvalidParams, params.Input.Asset, params.Source)
	}
	if params.AffiliateBps < 0 || params.AffiliateBps > MaxAffiliateBps {
		return fmt.Errorf("%w: affiliate fee must be between 0 and %d basis points, got %d",
			ErrInvalidParams, MaxAffiliateBps, params.AffiliateBps)
	}
	if params.SlipLimitBps < 0 || params.SlipLimitBps > 10_000 {
		return fmt.Errorf("%w: slip limit must be between 0 and 10000 basis points, got %d",
			ErrInvalidParams, params.SlipLimitBps)
	}
	return nil
}

// EstimateSwap validates params synchronously, then gathers live state and
// assembles the quote. Upstream unavailability is a returned error; business
// obstacles (missing pools, halts, slip) are soft errors inside the estimate.
func (e *Estimator) EstimateSwap(ctx context.Context, params Params) (*Estimate, error) {
	if err := validate(params); err != nil {
		return nil, err
	}

	var (
		sourcePool *pool.Pool
		destPool   *pool.Pool
		inbound    map[string]InboundDetail
		mimir      marketdata.Mimir
	)

	estimate := &Estimate{}

	// Pools and chain status travel together: no fee math starts until every
	// fetch has landed, so a quote is never assembled from a partial snapshot.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		addrs, err := e.market.InboundAddresses(gctx)
		if err != nil {
			return err
		}
		m, err := e.market.MimirValues(gctx)
		if err != nil {
			return err
		}
		mimir = m
		inbound, err = BuildInboundDetails(addrs, m)
		return err
	})
	if !params.Source.IsRune() {
		g.Go(func() error {
			p, err := e.pools.PoolFor(gctx, params.Source)
			if errors.Is(err, pool.ErrPoolNotFound) {
				return nil
			}
			sourcePool = p
			return err
		})
	}
	if !params.Destination.IsRune() {
		g.Go(func() error {
			p, err := e.pools.PoolFor(gctx, params.Destination)
			if errors.Is(err, pool.ErrPoolNotFound) {
				return nil
			}
			destPool = p
			return err
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	e.collectPoolErrors(estimate, params, sourcePool, destPool)
	e.collectChainErrors(estimate, params, inbound)
	if len(estimate.Errors) > 0 {
		// Nothing to price without both pools and open chains; return the
		// obstacles with zeroed amounts instead of guessing numbers.
		estimate.CanSwap = false
		estimate.NetOutput = asset.NewCryptoAmount(0, params.Destination)
		estimate.Fees = zeroFees(params)
		return estimate, nil
	}

	if err := e.assemble(ctx, estimate, params, sourcePool, destPool, inbound, mimir); err != nil {
		return nil, err
	}

	if params.SlipLimitBps > 0 {
		limit := decimal.New(params.SlipLimitBps, -4)
		if estimate.Slip.Cmp(limit) >= 0 {
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("slip %s exceeds limit %s", estimate.Slip, limit))
		}
	}

	estimate.CanSwap = len(estimate.Errors) == 0
	if estimate.CanSwap && params.DestinationAddress != "" {
		memo, err := BuildSwapMemo(MemoParams{
			Destination:        params.Destination,
			DestinationAddress: params.DestinationAddress,
			Limit:              minOutput(estimate.NetOutput, params.SlipLimitBps),
			AffiliateAddress:   params.AffiliateAddress,
			AffiliateBps:       params.AffiliateBps,
		})
		if err != nil {
			return nil, err
		}
		estimate.Memo = memo
	}
	return estimate, nil
}

func (e *Estimator) collectPoolErrors(estimate *Estimate, params Params, sourcePool, destPool *pool.Pool) {
	if !params.Source.IsRune() {
		switch {
		case sourcePool == nil:
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("no pool for source asset %s", params.Source))
		case !sourcePool.IsAvailable():
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("source pool %s is not available", sourcePool.Asset))
		}
	}
	if !params.Destination.IsRune() {
		switch {
		case destPool == nil:
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("no pool for destination asset %s", params.Destination))
		case !destPool.IsAvailable():
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("destination pool %s is not available", destPool.Asset))
		}
	}
}

func (e *Estimator) collectChainErrors(estimate *Estimate, params Params, inbound map[string]InboundDetail) {
	for _, side := range []struct {
		label string
		chain string
	}{
		{"source", params.Source.Chain},
		{"destination", params.Destination.Chain},
	} {
		detail, ok := inbound[side.chain]
		if !ok {
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("%s chain %s has no inbound route", side.label, side.chain))
			continue
		}
		if detail.HaltedChain {
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("%s chain %s is halted", side.label, side.chain))
		}
		if detail.HaltedTrading {
			estimate.Errors = append(estimate.Errors,
				fmt.Sprintf("trading on %s chain %s is halted", side.label, side.chain))
		}
	}
}

// assemble runs the fee netting and swap math once the snapshot is complete.
func (e *Estimator) assemble(
	ctx context.Context,
	estimate *Estimate,
	params Params,
	sourcePool, destPool *pool.Pool,
	inbound map[string]InboundDetail,
	mimir marketdata.Mimir,
) error {
	estimate.Fees = zeroFees(params)

	inboundFee, err := InboundFee(params.Source, inbound[params.Source.Chain])
	if err != nil {
		return err
	}
	// The fee accrues in the chain's gas asset; net it from the input in the
	// input's own denomination.
	inboundFeeInSource, err := e.pools.Convert(ctx, inboundFee, params.Source)
	if err != nil {
		return err
	}
	estimate.Fees.Inbound = inboundFeeInSource

	netInput := params.Input.Sub(inboundFeeInSource)
	if !netInput.IsPositive() {
		return e.failInsufficient(estimate, params)
	}

	affiliateRate := decimal.New(params.AffiliateBps, -4)
	affiliateFee := netInput.MulScalar(affiliateRate)
	estimate.Fees.Affiliate = affiliateFee
	netInput = netInput.Sub(affiliateFee)
	if !netInput.IsPositive() {
		return e.failInsufficient(estimate, params)
	}

	// Route through the reserve only when neither side is the reserve asset.
	var output, swapFee asset.CryptoAmount
	switch {
	case params.Source.IsRune():
		output = swapmath.SwapOutput(netInput, destPool, false)
		swapFee = swapmath.SwapFee(netInput, destPool, false)
		estimate.Slip = swapmath.SwapSlip(netInput, destPool, false)
	case params.Destination.IsRune():
		output = swapmath.SwapOutput(netInput, sourcePool, true)
		swapFee = swapmath.SwapFee(netInput, sourcePool, true)
		estimate.Slip = swapmath.SwapSlip(netInput, sourcePool, true)
	default:
		output = swapmath.DoubleSwapOutput(netInput, sourcePool, destPool)
		swapFee, err = swapmath.DoubleSwapFee(netInput, sourcePool, destPool)
		if err != nil {
			return err
		}
		estimate.Slip = swapmath.DoubleSwapSlip(netInput, sourcePool, destPool)
	}
	estimate.Fees.Swap = swapFee

	outboundFee, err := OutboundFee(params.Destination, inbound[params.Destination.Chain])
	if err != nil {
		return err
	}
	outboundFeeInDest, err := e.pools.Convert(ctx, outboundFee, params.Destination)
	if err != nil {
		return err
	}
	estimate.Fees.Outbound = outboundFeeInDest

	netOutput := output.Sub(outboundFeeInDest)
	if !netOutput.IsPositive() {
		return e.failInsufficient(estimate, params)
	}
	estimate.NetOutput = netOutput

	estimate.WaitTimeSeconds = OutboundDelaySeconds(destPool, netOutput, mimir, params.Destination.Chain)
	return nil
}

// failInsufficient records the insufficient-input soft error with a zeroed
// output instead of letting a negative amount escape.
func (e *Estimator) failInsufficient(estimate *Estimate, params Params) error {
	estimate.Errors = append(estimate.Errors, errInsufficientInput)
	estimate.NetOutput = asset.NewCryptoAmount(0, params.Destination)
	estimate.CanSwap = false
	log.Debug().
		Str("source", params.Source.String()).
		Str("destination", params.Destination.String()).
		Msg("Input does not cover fees")
	return nil
}

func zeroFees(params Params) Fees {
	return Fees{
		Inbound:   asset.NewCryptoAmount(0, params.Source),
		Swap:      asset.NewCryptoAmount(0, params.Destination),
		Outbound:  asset.NewCryptoAmount(0, params.Destination),
		Affiliate: asset.NewCryptoAmount(0, params.Source),
	}
}

// minOutput shaves the slip tolerance off the expected output for use as the
// memo limit. A zero tolerance passes the output through.
func minOutput(expected asset.CryptoAmount, slipLimitBps int64) asset.CryptoAmount {
	if slipLimitBps <= 0 {
		return expected
	}
	factor := decimal.New(10_000-slipLimitBps, -4)
	return expected.MulScalar(factor)
}
