package txpool

import (
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/holiman/uint256"
)

// RichTransaction is a decoded transaction enriched with the two facts the
// pool's admission algebra needs on every transaction it touches: its
// canonical hash and its recovered sender. Transaction decoding (RLP) is out
// of scope for this package and has already happened by the time a
// *types.Transaction reaches Enrich; signature recovery is delegated to
// go-ethereum's types.Sender.
type RichTransaction struct {
	Inner  *types.Transaction
	Sender common.Address
	Hash   common.Hash
}

// Enrich builds a RichTransaction from a decoded transaction: it recovers
// the sender from the signature (types.Sender, backed by go-ethereum's
// crypto package) and reads off the canonical hash. signer selects the
// signing scheme (Homestead, EIP-155, London, ...), exactly as it does in
// the teacher's own TxPool.validateTx / txlist_test.go helpers.
func Enrich(tx *types.Transaction, signer types.Signer) (*RichTransaction, error) {
	sender, err := types.Sender(signer, tx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidTransaction, err)
	}
	return &RichTransaction{
		Inner:  tx,
		Sender: sender,
		Hash:   tx.Hash(),
	}, nil
}

// Nonce is a passthrough convenience so callers don't have to reach
// through Inner for the one field the pool's algebra keys on.
func (t *RichTransaction) Nonce() uint64 { return t.Inner.Nonce() }

// Cost is gas_limit × gas_price as a 256-bit unsigned value. It never
// panics on overflow — astronomically unlikely given real gas limits, but
// the multiplication is still checked and surfaces an error rather than
// wrapping silently.
func (t *RichTransaction) Cost() (*uint256.Int, error) {
	gasPrice, overflow := uint256.FromBig(t.Inner.GasPrice())
	if overflow {
		return nil, fmt.Errorf("%w: gas price %s overflows 256 bits", ErrOther, t.Inner.GasPrice())
	}
	gasLimit := new(uint256.Int).SetUint64(t.Inner.Gas())

	cost, overflow := new(uint256.Int).MulOverflow(gasLimit, gasPrice)
	if overflow {
		return nil, fmt.Errorf("%w: cost of tx %s overflows 256 bits", ErrOther, t.Hash)
	}
	return cost, nil
}
