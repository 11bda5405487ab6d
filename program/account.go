package program

import (
	"math"

	"github.com/daragao/solana-escrow/errors"
)

// Account is a mutable handle to one persistently-stored account. The host
// guarantees exclusive access for the duration of a transition, so no
// locking happens here.
//
// Owner is the program that may mutate Data. Signer is true when the holder
// of this account's private key authorized the current request.
type Account struct {
	Key      Pubkey
	Lamports uint64
	Data     []byte
	Owner    Pubkey
	Signer   bool
	Writable bool
}

// AddLamports credits the account balance using checked arithmetic. The
// balance is long-lived state, so an overflow fails closed instead of
// wrapping.
func (a *Account) AddLamports(amount uint64) error {
	if a.Lamports > math.MaxUint64-amount {
		return errors.Wrapf(errors.ErrOverflow, "add %d to balance %d", amount, a.Lamports)
	}
	a.Lamports += amount
	return nil
}

// SubLamports debits the account balance, failing when the balance is
// insufficient.
func (a *Account) SubLamports(amount uint64) error {
	if a.Lamports < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "subtract %d from balance %d", amount, a.Lamports)
	}
	a.Lamports -= amount
	return nil
}

// AccountIter consumes an ordered account handle list the way instructions
// declare them.
type AccountIter struct {
	accounts []*Account
	pos      int
}

// NewAccountIter returns an iterator over the given handles.
func NewAccountIter(accounts []*Account) *AccountIter {
	return &AccountIter{accounts: accounts}
}

// Next returns the next account handle, or ErrNotEnoughAccounts when the
// instruction consumes more handles than were supplied.
func (it *AccountIter) Next() (*Account, error) {
	if it.pos >= len(it.accounts) {
		return nil, errors.Wrapf(errors.ErrNotEnoughAccounts, "position %d", it.pos)
	}
	acct := it.accounts[it.pos]
	it.pos++
	return acct, nil
}
