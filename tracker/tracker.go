// Package tracker maps a submitted inbound transaction hash to its position
// in the swap lifecycle. The tracker is stateless: every check fetches the
// live chain state fresh and recomputes the stage from scratch, so a caller
// can poll at any cadence and a crashed poller loses nothing.
package tracker

import (
	"context"
	"errors"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/tidepool-labs/swapquote/asset"
	"github.com/tidepool-labs/swapquote/chains"
	"github.com/tidepool-labs/swapquote/nodestatus"
)

var log zerolog.Logger

func init() {
	out := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	log = zerolog.New(out).With().Timestamp().Str("component", "tracker").Logger()
}

// Stage is one step of the swap lifecycle. The order is strict and there are
// no back-transitions; StageOutboundConfirmed is terminal.
type Stage int

const (
	StageInboundUnconfirmed Stage = iota
	StageConfirmationCounting
	StageProtocolProcessing
	StageOutboundQueued
	StageOutboundUnconfirmed
	StageOutboundConfirmed
)

func (s Stage) String() string {
	switch s {
	case StageInboundUnconfirmed:
		return "INBOUND_UNCONFIRMED"
	case StageConfirmationCounting:
		return "CONFIRMATION_COUNTING"
	case StageProtocolProcessing:
		return "PROTOCOL_PROCESSING"
	case StageOutboundQueued:
		return "OUTBOUND_QUEUED"
	case StageOutboundUnconfirmed:
		return "OUTBOUND_UNCONFIRMED"
	case StageOutboundConfirmed:
		return "OUTBOUND_CONFIRMED"
	}
	return "UNKNOWN"
}

// Status is the result of one lifecycle check.
type Status struct {
	Stage                     Stage
	EstimatedSecondsRemaining float64
}

// Provider is the node-status dependency.
type Provider interface {
	Tx(ctx context.Context, hash string) (nodestatus.TxResponse, error)
	ScheduledQueue(ctx context.Context) ([]nodestatus.ScheduledOutbound, error)
	LastBlocks(ctx context.Context) ([]nodestatus.LastBlock, error)
}

// Tracker checks swap progress against a node-status provider.
type Tracker struct {
	node Provider
}

// New wires the tracker to its provider.
func New(node Provider) *Tracker {
	return &Tracker{node: node}
}

// liveState is everything one stage computation needs; CheckTx gathers it and
// stageOf derives the answer purely, so identical snapshots always yield
// identical statuses.
type liveState struct {
	tx     nodestatus.TxResponse
	queue  []nodestatus.ScheduledOutbound
	blocks []nodestatus.LastBlock
}

// CheckTx computes the current lifecycle stage of the inbound hash. A hash
// the node has never seen reports StageInboundUnconfirmed rather than an
// error; only provider unavailability is returned as an error.
func (t *Tracker) CheckTx(ctx context.Context, hash string) (Status, error) {
	tx, err := t.node.Tx(ctx, hash)
	if errors.Is(err, nodestatus.ErrTxNotObserved) {
		return Status{
			Stage:                     StageInboundUnconfirmed,
			EstimatedSecondsRemaining: chains.DefaultBlockTimeSeconds,
		}, nil
	}
	if err != nil {
		return Status{}, err
	}

	queue, err := t.node.ScheduledQueue(ctx)
	if err != nil {
		return Status{}, err
	}
	blocks, err := t.node.LastBlocks(ctx)
	if err != nil {
		return Status{}, err
	}

	status := stageOf(liveState{tx: tx, queue: queue, blocks: blocks}, hash)
	log.Debug().
		Str("hash", hash).
		Stringer("stage", status.Stage).
		Float64("eta_seconds", status.EstimatedSecondsRemaining).
		Msg("Lifecycle check")
	return status, nil
}

// stageOf is the pure stage computation.
func stageOf(state liveState, hash string) Status {
	observed := state.tx.ObservedTx
	sourceChain := observed.Tx.Chain
	reserveBlockTime := chains.BlockTimeSeconds(chains.ReserveChain)

	// Not on a block yet: still waiting for the source chain to mine it.
	if observed.BlockHeight == 0 {
		return Status{
			Stage:                     StageInboundUnconfirmed,
			EstimatedSecondsRemaining: chains.BlockTimeSeconds(sourceChain),
		}
	}

	sourceObserved, reserveHeight := heightsFor(state.blocks, sourceChain)

	// The protocol waits out source-chain confirmations before the swap is
	// final; until the observed height reaches the finalize height the value
	// could still reorg away.
	if observed.FinaliseHeight > observed.BlockHeight && sourceObserved < observed.FinaliseHeight {
		blocksLeft := observed.FinaliseHeight - sourceObserved
		return Status{
			Stage:                     StageConfirmationCounting,
			EstimatedSecondsRemaining: float64(blocksLeft) * chains.BlockTimeSeconds(sourceChain),
		}
	}

	// Finalized but the protocol has not marked the swap done: one more
	// reserve-chain block.
	if observed.Status != nodestatus.StatusDone {
		return Status{
			Stage:                     StageProtocolProcessing,
			EstimatedSecondsRemaining: reserveBlockTime,
		}
	}

	// Done: the outbound either waits in the scheduled queue for its target
	// height or has already left it.
	if scheduled, ok := findScheduled(state.queue, hash); ok && scheduled.Height > reserveHeight {
		blocksLeft := scheduled.Height - reserveHeight
		return Status{
			Stage:                     StageOutboundQueued,
			EstimatedSecondsRemaining: float64(blocksLeft) * reserveBlockTime,
		}
	}

	destChain := destinationChain(state, hash)
	destBlockTime := chains.BlockTimeSeconds(destChain)

	if scheduled, ok := findScheduled(state.queue, hash); ok {
		// Target height passed: unconfirmed until a destination block has
		// elapsed since then.
		elapsed := float64(reserveHeight-scheduled.Height) * reserveBlockTime
		if elapsed < destBlockTime {
			return Status{
				Stage:                     StageOutboundUnconfirmed,
				EstimatedSecondsRemaining: destBlockTime - elapsed,
			}
		}
		return Status{Stage: StageOutboundConfirmed}
	}

	// No queue entry left. An outbound hash on record means the transfer was
	// broadcast and has had time to land.
	if len(observed.OutHashes) > 0 {
		return Status{Stage: StageOutboundConfirmed}
	}
	return Status{
		Stage:                     StageOutboundUnconfirmed,
		EstimatedSecondsRemaining: destBlockTime,
	}
}

// heightsFor extracts the source chain's observed height and the reserve
// chain height from the last-block snapshot.
func heightsFor(blocks []nodestatus.LastBlock, sourceChain string) (sourceObserved, reserveHeight int64) {
	for _, b := range blocks {
		if b.Thorchain > reserveHeight {
			reserveHeight = b.Thorchain
		}
		if b.Chain == sourceChain {
			sourceObserved = b.LastObservedIn
		}
	}
	return sourceObserved, reserveHeight
}

func findScheduled(queue []nodestatus.ScheduledOutbound, hash string) (nodestatus.ScheduledOutbound, bool) {
	for _, out := range queue {
		if out.InHash == hash {
			return out, true
		}
	}
	return nodestatus.ScheduledOutbound{}, false
}

// destinationChain resolves the outbound chain from the queue entry when one
// exists, falling back to the swap memo's target asset.
func destinationChain(state liveState, hash string) string {
	if scheduled, ok := findScheduled(state.queue, hash); ok {
		return scheduled.Chain
	}
	return chainFromMemo(state.tx.ObservedTx.Tx.Memo)
}

// chainFromMemo pulls the destination chain out of a SWAP memo. Unknown or
// malformed memos yield "", which downstream falls back to the default block
// time.
func chainFromMemo(memo string) string {
	fields := strings.Split(memo, ":")
	if len(fields) < 2 {
		return ""
	}
	a, err := asset.ParseAsset(fields[1])
	if err != nil {
		return ""
	}
	return a.Chain
}
