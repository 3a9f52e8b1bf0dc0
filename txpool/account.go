package txpool

import (
	"fmt"

	"github.com/holiman/uint256"
)

// AccountPool is the ordered queue of pending transactions for one sender,
// together with the sender's baseline (confirmed) nonce and balance at the
// pool's current head block.
//
// Invariants, enforced by Pool rather than by AccountPool itself (every
// mutation lives in pool.go, next to the other index it must stay in
// lockstep with):
//   - Txs[i].Nonce() == NonceOffset + uint64(i) for every i — nonces are
//     contiguous starting exactly at NonceOffset.
//   - the prefix-sum of Txs[:k+1]'s cost never exceeds Balance, for every
//     k — admission is conservative on gas, never on value transfers.
type AccountPool struct {
	NonceOffset uint64
	Balance     *uint256.Int
	Txs         []*RichTransaction
}

// prefixCost sums the cost of txs[:n]. The only way this errors is if one
// of the already-admitted transactions' cost computation overflows, which
// Import would have rejected on admission — so a non-nil error here means
// the index is corrupt, not that the input is bad.
func prefixCost(txs []*RichTransaction, n int) (*uint256.Int, error) {
	sum := new(uint256.Int)
	for _, tx := range txs[:n] {
		cost, err := tx.Cost()
		if err != nil {
			return nil, err
		}
		var overflow bool
		sum, overflow = sum.AddOverflow(sum, cost)
		if overflow {
			return nil, fmt.Errorf("%w: cumulative cost overflows 256 bits", ErrOther)
		}
	}
	return sum, nil
}
