package txpool

import (
	"context"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

// AccountInfo is a snapshot of a sender's confirmed state at some block.
type AccountInfo struct {
	Balance *uint256.Int
	Nonce   uint64
}

// AccountInfoProvider is the pool's only collaborator with the ledger. It
// is supplied by the embedder and may suspend (it's the single suspension
// point reachable from Import, see §5 of the design). Implementations must
// be safe to call from the pool's single writer.
//
// AccountInfo(block, addr) returns:
//   - (info, nil)   if the account exists at block
//   - (nil, nil)    if the account does not exist at block
//   - (nil, err)    on lookup failure (I/O, etc.)
type AccountInfoProvider interface {
	AccountInfo(ctx context.Context, block uint64, addr common.Address) (*AccountInfo, error)
}

// AccountInfoProviderFunc adapts a plain function to AccountInfoProvider,
// the way http.HandlerFunc adapts a function to http.Handler.
type AccountInfoProviderFunc func(ctx context.Context, block uint64, addr common.Address) (*AccountInfo, error)

func (f AccountInfoProviderFunc) AccountInfo(ctx context.Context, block uint64, addr common.Address) (*AccountInfo, error) {
	return f(ctx, block, addr)
}
