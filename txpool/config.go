package txpool

// Config holds the pool's tunable behavior. There is exactly one knob: the
// rest of the pool's behavior (nonce continuity, fee replacement, balance
// eviction) is load-bearing algebra from spec, not policy, and isn't meant
// to be configurable.
type Config struct {
	// RefreshBalanceOnConfirm makes ApplyBlock re-fetch a surviving
	// sender's confirmed balance from the provider instead of leaving
	// Balance at its last snapshot. NonceOffset is advanced by the
	// confirmed transactions either way and is not re-fetched. Off by default: the original pool never refreshes
	// balance on confirmation (see DESIGN.md), and tests written against
	// that conservatism would otherwise start failing silently.
	RefreshBalanceOnConfirm bool
}

// DefaultConfig is the zero-value Config: conservative balance tracking,
// no surprises.
var DefaultConfig = Config{}
