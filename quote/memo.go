package quote

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/btcsuite/btcutil/bech32"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/chains"
)

// memoByteLimit is the carrier limit on chains whose OP_RETURN payload caps
// the memo.
const memoByteLimit = 80

// reserveAddressPrefix is the bech32 human-readable part of reserve-chain
// addresses.
const reserveAddressPrefix = "thor"

// MemoParams describes the memo handed to the wallet collaborator that
// executes the trade.
type MemoParams struct {
	Destination        asset.Asset
	DestinationAddress string
	// Limit is the minimum acceptable output in base units; the trade refunds
	// if the pool cannot pay at least this much.
	Limit asset.CryptoAmount
	// AffiliateAddress and AffiliateBps are optional; both must be set
	// together.
	AffiliateAddress string
	AffiliateBps     int64
}

// BuildSwapMemo renders
//
//	SWAP:{destChain}.{destSymbol}:{destinationAddress}:{limit}[:{affiliateAddress}:{affiliateBps}]
//
// When the destination chain caps memos at 80 bytes and the full form does
// not fit, the limit and affiliate fields are dropped, leaving the bare
// three-field memo.
func BuildSwapMemo(params MemoParams) (string, error) {
	if params.DestinationAddress == "" {
		return "", fmt.Errorf("destination address required for memo")
	}
	if params.AffiliateBps > 0 {
		if err := ValidateReserveAddress(params.AffiliateAddress); err != nil {
			return "", fmt.Errorf("affiliate address: %w", err)
		}
	}

	target := params.Destination.Chain + "." + params.Destination.Symbol
	short := strings.Join([]string{"SWAP", target, params.DestinationAddress}, ":")

	parts := []string{short, params.Limit.BaseAmount().StringFixed(0)}
	if params.AffiliateBps > 0 {
		parts = append(parts, params.AffiliateAddress, strconv.FormatInt(params.AffiliateBps, 10))
	}
	full := strings.Join(parts, ":")

	if attrs, ok := chains.Lookup(params.Destination.Chain); ok && attrs.MemoLimit80 {
		if len(full) > memoByteLimit {
			log.Debug().
				Int("bytes", len(full)).
				Str("chain", params.Destination.Chain).
				Msg("Memo over carrier limit, dropping optional fields")
			return short, nil
		}
	}
	return full, nil
}

// ValidateReserveAddress checks a reserve-chain bech32 address.
func ValidateReserveAddress(addr string) error {
	hrp, _, err := bech32.Decode(addr)
	if err != nil {
		return fmt.Errorf("invalid bech32 address %q: %w", addr, err)
	}
	if hrp != reserveAddressPrefix {
		return fmt.Errorf("address %q is not a %s address", addr, reserveAddressPrefix)
	}
	return nil
}
