package txpool

import "github.com/ethereum/go-ethereum/common"

// txLookup is the hash index: a secondary, derived view over the
// per-sender queues that actually own the pool's data (§3: "the hash index
// is a derived view that must be kept in lockstep"). Every mutation site in
// pool.go that touches a per-sender queue updates txLookup in the same
// critical section, so txLookup itself holds no lock of its own — Pool.mu
// already serializes every access to it, the way the teacher's own
// lookup.go guards its map but here the outer pool is the single writer.
type txLookup struct {
	txs map[common.Hash]*RichTransaction
}

func newTxLookup() *txLookup {
	return &txLookup{txs: make(map[common.Hash]*RichTransaction)}
}

func (l *txLookup) Get(hash common.Hash) *RichTransaction {
	return l.txs[hash]
}

func (l *txLookup) Has(hash common.Hash) bool {
	_, ok := l.txs[hash]
	return ok
}

func (l *txLookup) Add(tx *RichTransaction) {
	l.txs[tx.Hash] = tx
}

// Remove deletes hash from the index and returns the transaction that was
// there, or nil if it wasn't present.
func (l *txLookup) Remove(hash common.Hash) *RichTransaction {
	tx, ok := l.txs[hash]
	if !ok {
		return nil
	}
	delete(l.txs, hash)
	return tx
}

func (l *txLookup) Len() int { return len(l.txs) }
