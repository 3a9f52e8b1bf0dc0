// Copyright 2021 The go-ethereum Authors
// This file is part of the go-ethereum library.
//
// The go-ethereum library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The go-ethereum library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the go-ethereum library. If not, see <http://www.gnu.org/licenses/>.

// Package txpool implements a pending-pool for an Ethereum-style chain: it
// accepts signed transactions, validates them against confirmed account
// state, keeps a bounded per-sender ordered queue that collectively
// respects sender balance, and reconciles its contents as the chain
// advances or rolls back.
//
// The pool is single-writer: Import, ApplyBlock, RevertBlock and Erase are
// meant to be called from one goroutine (or externally serialized by the
// caller). Get is safe to call concurrently with the others.
package txpool

import (
	"context"
	"fmt"
	"sort"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/event"
	"github.com/ethereum/go-ethereum/log"
	"github.com/holiman/uint256"
)

// Pool is the top-level pending-pool container: the confirmed head it
// validates against, the account-info provider, the hash index, and the
// map of per-sender queues.
type Pool struct {
	block    uint64
	provider AccountInfoProvider
	signer   types.Signer
	config   Config

	byHash   *txLookup
	bySender map[common.Address]*AccountPool

	resetFeed event.Feed
	scope     event.SubscriptionScope

	mu sync.RWMutex
}

// New constructs a pool at the given confirmed head block. provider is the
// pool's only collaborator with the ledger (§4.2); signer selects the
// signing scheme used to recover senders.
func New(block uint64, provider AccountInfoProvider, signer types.Signer, config Config) *Pool {
	return &Pool{
		block:    block,
		provider: provider,
		signer:   signer,
		config:   config,
		byHash:   newTxLookup(),
		bySender: make(map[common.Address]*AccountPool),
	}
}

// Close releases the pool's event subscriptions. It does not touch pool
// contents.
func (p *Pool) Close() {
	p.scope.Close()
}

// Get returns the pooled transaction for hash, or nil if it isn't known.
// Get never mutates and never suspends.
func (p *Pool) Get(hash common.Hash) *types.Transaction {
	p.mu.RLock()
	defer p.mu.RUnlock()

	rtx := p.byHash.Get(hash)
	if rtx == nil {
		return nil
	}
	return rtx.Inner
}

// Block returns the confirmed head block the pool currently believes in.
func (p *Pool) Block() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.block
}

// Import validates tx against the sender's confirmed state and the pool's
// current view of that sender's queue, admitting it if possible. It
// returns (true, nil) on fresh admission, (false, nil) if tx was already
// known, or a typed error (see errors.go) otherwise.
//
// Unless Config.RefreshBalanceOnConfirm is set, Import is the only
// operation that may suspend, and only the first time it sees a sender at
// the current head: that's when it calls out to the account-info provider.
func (p *Pool) Import(ctx context.Context, tx *types.Transaction) (bool, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	rtx, err := Enrich(tx, p.signer)
	if err != nil {
		log.Trace("Discarding invalid transaction", "err", err)
		return false, err
	}
	if p.byHash.Has(rtx.Hash) {
		log.Trace("Discarding already known transaction", "hash", rtx.Hash)
		return false, nil
	}

	acct, existed := p.bySender[rtx.Sender]
	if !existed {
		info, err := p.provider.AccountInfo(ctx, p.block, rtx.Sender)
		if err != nil {
			return false, fmt.Errorf("%w: %v", ErrInvalidSender, err)
		}
		if info == nil {
			return false, fmt.Errorf("%w: account does not exist", ErrInvalidSender)
		}
		// acct is only ever installed into p.bySender at the very end of
		// this function, alongside every other mutation: a fresh
		// AccountPool that fails admission below is simply discarded
		// with the rest of the local state, never observable.
		acct = &AccountPool{
			NonceOffset: info.Nonce,
			Balance:     info.Balance.Clone(),
		}
	}

	if rtx.Nonce() < acct.NonceOffset {
		return false, ErrStaleTransaction
	}
	offset64 := rtx.Nonce() - acct.NonceOffset
	if offset64 > uint64(len(acct.Txs)) {
		return false, ErrNonceGap
	}
	offset := int(offset64)

	prefix, err := prefixCost(acct.Txs, offset)
	if err != nil {
		return false, err
	}
	balance, underflow := new(uint256.Int).SubOverflow(acct.Balance, prefix)
	assert(!underflow, "prefix cost of pooled transactions exceeds sender balance")

	newCost, err := rtx.Cost()
	if err != nil {
		return false, err
	}

	var replaced *RichTransaction
	if offset < len(acct.Txs) {
		old := acct.Txs[offset]
		if old.Inner.GasPrice().Cmp(rtx.Inner.GasPrice()) >= 0 {
			return false, ErrFeeTooLow
		}
		replaced = old
	}
	if balance.Cmp(newCost) < 0 {
		return false, ErrInsufficientBalance
	}

	// From here on nothing can fail: build the new queue and the set of
	// evicted transactions locally, then commit both indexes together.
	newTxs := make([]*RichTransaction, offset, offset+1)
	copy(newTxs, acct.Txs[:offset])
	newTxs = append(newTxs, rtx)

	evicted := make([]*RichTransaction, 0, 1)
	if replaced != nil {
		evicted = append(evicted, replaced)
	}

	var tail []*RichTransaction
	if offset < len(acct.Txs) {
		tail = acct.Txs[offset+1:]
	}
	cumulative := new(uint256.Int).Sub(balance, newCost)
	for i, t := range tail {
		cost, err := t.Cost()
		assert(err == nil, "already-admitted transaction has uncomputable cost")
		if cumulative.Cmp(cost) < 0 {
			evicted = append(evicted, tail[i:]...)
			break
		}
		cumulative.Sub(cumulative, cost)
		newTxs = append(newTxs, t)
	}

	acct.Txs = newTxs
	p.bySender[rtx.Sender] = acct
	p.byHash.Add(rtx)
	for _, e := range evicted {
		p.byHash.Remove(e.Hash)
	}
	return true, nil
}

// ApplyBlock reconciles the pool against a newly confirmed block. It never
// returns an error: if the block doesn't extend the pool's head by exactly
// one, or any of its transactions fail to enrich, the pool is fully erased
// and a ResetEvent is emitted before self.block is set to block regardless
// (§4.5, §7 — the pool is a cache of validity predictions; on disagreement
// with the chain the conservative move is to discard and let clients
// resubmit).
func (p *Pool) ApplyBlock(ctx context.Context, block uint64, txs []*types.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.applyBlock(ctx, block, txs); err != nil {
		log.Warn("Failed to apply block, resetting pool", "block", block, "err", err)
		p.eraseLocked()
		p.resetFeed.Send(ResetEvent{Block: block, Reason: err.Error()})
	}
	p.block = block
}

func (p *Pool) applyBlock(ctx context.Context, block uint64, txs []*types.Transaction) error {
	if block != p.block+1 {
		return fmt.Errorf("block gap: applying %d, expected %d", block, p.block+1)
	}

	groups := make(map[common.Address]map[uint64]*RichTransaction)
	senders := mapset.NewThreadUnsafeSet[common.Address]()
	for _, tx := range txs {
		rtx, err := Enrich(tx, p.signer)
		if err != nil {
			return fmt.Errorf("enriching transaction %s: %w", tx.Hash(), err)
		}
		senders.Add(rtx.Sender)
		bySender, ok := groups[rtx.Sender]
		if !ok {
			bySender = make(map[uint64]*RichTransaction)
			groups[rtx.Sender] = bySender
		}
		bySender[rtx.Nonce()] = rtx
	}

	for _, sender := range senders.ToSlice() {
		acct, ok := p.bySender[sender]
		if !ok {
			continue
		}
		if !p.confirmSenderLocked(acct, groups[sender]) {
			p.dropSenderLocked(sender)
			continue
		}
		if p.config.RefreshBalanceOnConfirm {
			p.refreshSenderLocked(ctx, block, sender, acct)
		}
	}
	return nil
}

// confirmSenderLocked walks the block's nonce-ordered transactions for one
// sender against the front of its queue, popping matches. It returns false
// (and may have partially popped the queue) the moment a nonce or hash
// mismatches, or the queue runs out early — the caller drops the sender's
// entire remaining queue in that case, so a partial pop is harmless: every
// hash in the queue ends up unindexed either way.
func (p *Pool) confirmSenderLocked(acct *AccountPool, byNonce map[uint64]*RichTransaction) bool {
	nonces := make([]uint64, 0, len(byNonce))
	for n := range byNonce {
		nonces = append(nonces, n)
	}
	sort.Slice(nonces, func(i, j int) bool { return nonces[i] < nonces[j] })

	for _, n := range nonces {
		blockTx := byNonce[n]
		if len(acct.Txs) == 0 {
			return false
		}
		front := acct.Txs[0]
		if front.Nonce() != n || front.Hash != blockTx.Hash {
			return false
		}
		acct.Txs = acct.Txs[1:]
		assert(p.byHash.Remove(front.Hash) != nil, "confirmed transaction missing from hash index")
		acct.NonceOffset++
	}
	return true
}

// dropSenderLocked removes a sender's entire pool entry and unindexes all
// of its hashes.
func (p *Pool) dropSenderLocked(sender common.Address) {
	acct, ok := p.bySender[sender]
	if !ok {
		return
	}
	for _, tx := range acct.Txs {
		assert(p.byHash.Remove(tx.Hash) != nil, "dropped transaction missing from hash index")
	}
	delete(p.bySender, sender)
}

// refreshSenderLocked re-fetches a surviving sender's confirmed balance
// from the provider and evicts the tail of the queue that the new balance
// no longer covers, unindexing it. It is only reachable when Config.RefreshBalanceOnConfirm
// is set, which is an explicit, documented deviation from §5's "ApplyBlock
// never suspends" rule: enabling it trades that guarantee for balance
// tracking that doesn't drift across confirmed blocks.
func (p *Pool) refreshSenderLocked(ctx context.Context, block uint64, sender common.Address, acct *AccountPool) {
	info, err := p.provider.AccountInfo(ctx, block, sender)
	if err != nil || info == nil {
		log.Warn("Failed to refresh confirmed balance, leaving stale", "sender", sender, "err", err)
		return
	}
	acct.Balance = info.Balance.Clone()

	remaining := acct.Balance.Clone()
	for i, tx := range acct.Txs {
		cost, err := tx.Cost()
		assert(err == nil, "already-admitted transaction has uncomputable cost")
		if remaining.Cmp(cost) < 0 {
			for _, e := range acct.Txs[i:] {
				assert(p.byHash.Remove(e.Hash) != nil, "evicted transaction missing from hash index")
			}
			acct.Txs = acct.Txs[:i]
			break
		}
		remaining.Sub(remaining, cost)
	}
}

// RevertBlock reconciles the pool against a chain reorg. Like ApplyBlock,
// it never returns an error: a block-gap or enrichment failure fully
// erases the pool before self.block is set to block regardless (§4.6).
func (p *Pool) RevertBlock(block uint64, txs []*types.Transaction) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if err := p.revertBlock(block, txs); err != nil {
		log.Warn("Failed to revert block, resetting pool", "block", block, "err", err)
		p.eraseLocked()
		p.resetFeed.Send(ResetEvent{Block: block, Reason: err.Error()})
	}
	p.block = block
}

func (p *Pool) revertBlock(block uint64, txs []*types.Transaction) error {
	if block != p.block-1 {
		return fmt.Errorf("block gap: reverting %d, expected %d", block, p.block-1)
	}
	for _, tx := range txs {
		rtx, err := Enrich(tx, p.signer)
		if err != nil {
			return fmt.Errorf("enriching reverted transaction %s: %w", tx.Hash(), err)
		}
		p.dropSenderLocked(rtx.Sender)
	}
	return nil
}

// Erase clears both indexes atomically. self.block is left unchanged.
func (p *Pool) Erase() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.eraseLocked()
}

func (p *Pool) eraseLocked() {
	p.byHash = newTxLookup()
	p.bySender = make(map[common.Address]*AccountPool)
}

// assert aborts the process when an internal consistency invariant is
// violated. Per §7, these are programmer bugs, not recoverable runtime
// conditions: continuing with a corrupted index is worse than crashing.
func assert(cond bool, msg string) {
	if !cond {
		panic("txpool: invariant violated: " + msg)
	}
}
