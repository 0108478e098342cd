package nodestatus

// TxResponse is the envelope of GET /thorchain/tx/{hash}.
type TxResponse struct {
	ObservedTx     ObservedTx `json:"observed_tx"`
	FinalisedEvent bool       `json:"finalised"`
}

// ObservedTx is the node's view of one inbound transaction.
type ObservedTx struct {
	Tx             TxDetail `json:"tx"`
	Status         string   `json:"status"`
	BlockHeight    int64    `json:"block_height,string"`
	FinaliseHeight int64    `json:"finalise_height,string"`
	OutHashes      []string `json:"out_hashes"`
}

// TxDetail carries the chain-level facts of the observed transaction.
type TxDetail struct {
	ID          string `json:"id"`
	Chain       string `json:"chain"`
	FromAddress string `json:"from_address"`
	ToAddress   string `json:"to_address"`
	Memo        string `json:"memo"`
}

// StatusDone is the observed-tx status once protocol processing finished.
const StatusDone = "done"

// ScheduledOutbound is one entry of GET /thorchain/queue/scheduled: an
// outbound transfer waiting for its target reserve-chain height.
type ScheduledOutbound struct {
	Chain     string `json:"chain"`
	ToAddress string `json:"to_address"`
	Memo      string `json:"memo"`
	InHash    string `json:"in_hash"`
	Height    int64  `json:"height"`
}

// LastBlock is one entry of GET /thorchain/lastblock, tying an external
// chain's observed height to the reserve chain's height.
type LastBlock struct {
	Chain          string `json:"chain"`
	LastObservedIn int64  `json:"last_observed_in"`
	LastSignedOut  int64  `json:"last_signed_out"`
	Thorchain      int64  `json:"thorchain"`
}
