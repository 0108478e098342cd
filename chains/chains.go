// Package chains holds the static per-chain attributes the engine needs for
// fee and wait-time math. The table is deliberately closed: an unknown chain
// is an explicit failure, never a silent default.
package chains

// FeeClass selects which inbound-fee model applies to a chain.
type FeeClass int

const (
	// FeeClassReserve is the protocol chain itself; inbound costs a flat fee.
	FeeClassReserve FeeClass = iota
	// FeeClassUTXO prices inbound by gas rate times a fixed virtual tx size.
	FeeClassUTXO
	// FeeClassEVM prices inbound by a gwei gas rate times a gas limit.
	FeeClassEVM
	// FeeClassCosmos uses the reported gas rate as the fee directly.
	FeeClassCosmos
)

// Attributes are the static facts about one supported chain.
type Attributes struct {
	// AvgBlockTimeSeconds is the expected seconds between blocks.
	AvgBlockTimeSeconds float64
	// BlockReward is the current coinbase reward in display units.
	BlockReward float64
	// Class picks the inbound fee model.
	Class FeeClass
	// MemoLimit80 is set for chains whose carrier (OP_RETURN) caps the swap
	// memo at 80 bytes.
	MemoLimit80 bool
}

// ReserveChain is the chain the reserve asset lives on.
const ReserveChain = "THOR"

// DefaultBlockTimeSeconds is the wait-time fallback for a chain the table
// does not know.
const DefaultBlockTimeSeconds float64 = 60

var table = map[string]Attributes{
	"BTC":  {AvgBlockTimeSeconds: 600, BlockReward: 6.25, Class: FeeClassUTXO, MemoLimit80: true},
	"BCH":  {AvgBlockTimeSeconds: 600, BlockReward: 6.25, Class: FeeClassUTXO, MemoLimit80: true},
	"LTC":  {AvgBlockTimeSeconds: 150, BlockReward: 12.5, Class: FeeClassUTXO, MemoLimit80: true},
	"DOGE": {AvgBlockTimeSeconds: 60, BlockReward: 10000, Class: FeeClassUTXO, MemoLimit80: true},
	"ETH":  {AvgBlockTimeSeconds: 13, BlockReward: 2, Class: FeeClassEVM},
	"AVAX": {AvgBlockTimeSeconds: 3, BlockReward: 2, Class: FeeClassEVM},
	"BSC":  {AvgBlockTimeSeconds: 3, BlockReward: 3, Class: FeeClassEVM},
	"GAIA": {AvgBlockTimeSeconds: 6, BlockReward: 0, Class: FeeClassCosmos},
	"THOR": {AvgBlockTimeSeconds: 6, BlockReward: 0, Class: FeeClassReserve},
}

// Lookup returns the attributes for a chain, ok=false when unsupported.
func Lookup(chain string) (Attributes, bool) {
	attrs, ok := table[chain]
	return attrs, ok
}

// BlockTimeSeconds returns the chain's average block time, falling back to
// DefaultBlockTimeSeconds for unknown chains. Use Lookup when an unknown
// chain must fail instead.
func BlockTimeSeconds(chain string) float64 {
	if attrs, ok := table[chain]; ok {
		return attrs.AvgBlockTimeSeconds
	}
	return DefaultBlockTimeSeconds
}

// Supported lists every chain in the table.
func Supported() []string {
	out := make([]string, 0, len(table))
	for chain := range table {
		out = append(out, chain)
	}
	return out
}
