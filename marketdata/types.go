package marketdata

// PoolDetail is one entry of GET /v2/pools. Depths are 1e-8 base-unit
// integers encoded as strings.
type PoolDetail struct {
	Asset      string `json:"asset"`
	AssetDepth string `json:"assetDepth"`
	RuneDepth  string `json:"runeDepth"`
	Status     string `json:"status"`
}

// InboundAddress is one entry of GET /v2/thorchain/inbound_addresses.
type InboundAddress struct {
	Chain   string `json:"chain"`
	Address string `json:"address"`
	Router  string `json:"router,omitempty"`
	Halted  bool   `json:"halted"`
	GasRate string `json:"gas_rate"`
}

// Mimir is the governance flag map from GET /v2/thorchain/mimir: halt
// switches plus numeric network constants.
type Mimir map[string]int64

// Int returns a numeric constant, ok=false when the key is absent.
func (m Mimir) Int(key string) (int64, bool) {
	v, ok := m[key]
	return v, ok
}

// Enabled treats any non-zero value as an active switch.
func (m Mimir) Enabled(key string) bool {
	return m[key] > 0
}
