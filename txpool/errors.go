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

package txpool

import "errors"

// The import error taxonomy. Every error Import returns satisfies
// errors.Is against exactly one of these, possibly wrapped with
// fmt.Errorf("%w: ...") for extra detail.
var (
	// ErrInvalidTransaction is returned when the transaction cannot be
	// enriched: its signature doesn't recover to a sender. Nonces are
	// uint64 in types.Transaction, so there is no separate range check.
	ErrInvalidTransaction = errors.New("invalid transaction")

	// ErrStaleTransaction is returned when the transaction's nonce is
	// below the sender's confirmed nonce.
	ErrStaleTransaction = errors.New("stale transaction")

	// ErrNonceGap is returned when the transaction's nonce is more than
	// one past the sender's last queued transaction.
	ErrNonceGap = errors.New("nonce gap")

	// ErrInvalidSender is returned when the account-info provider fails
	// or reports that the sender account does not exist.
	ErrInvalidSender = errors.New("invalid sender")

	// ErrFeeTooLow is returned when a same-nonce replacement does not
	// strictly exceed the gas price of the transaction it would replace.
	ErrFeeTooLow = errors.New("fee too low")

	// ErrInsufficientBalance is returned when admitting the transaction
	// would make the prefix-sum of its sender's queued costs exceed the
	// sender's confirmed balance.
	ErrInsufficientBalance = errors.New("insufficient balance")

	// ErrOther is the catch-all for anything not covered above.
	ErrOther = errors.New("other")
)
