package txpool

import "github.com/ethereum/go-ethereum/event"

// ResetEvent is emitted whenever ApplyBlock or RevertBlock hits an internal
// consistency failure and has to fully erase the pool (§7: "log a warning,
// fully erase, advance the block pointer"). It carries the same detail the
// warning log line does, for callers that want to react (metrics, alerts)
// rather than just read logs.
type ResetEvent struct {
	// Block is the block number that was being applied or reverted.
	Block uint64
	// Reason is a short, human-readable description of what went wrong.
	Reason string
}

// SubscribeResetEvent registers a subscription for ResetEvent and starts
// sending events to the given channel, mirroring the teacher's
// SubscribeNewTxsEvent (core/txpool/txpool.go).
func (p *Pool) SubscribeResetEvent(ch chan<- ResetEvent) event.Subscription {
	return p.scope.Track(p.resetFeed.Subscribe(ch))
}
