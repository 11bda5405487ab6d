package token

import (
	"encoding/binary"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
)

// ID is the well-known identity of the token ledger program.
var ID = program.MustPubkey("TokenkegQfeZyiNwAJbNbGKPFXCWuBvf9Ss623VQ5DA")

// AccountState tracks the lifecycle of a token account.
type AccountState uint8

const (
	// Uninitialized account, all other fields meaningless.
	Uninitialized AccountState = iota
	// Initialized and usable.
	Initialized
	// Frozen by the mint's freeze authority.
	Frozen
)

// AccountLen is the serialized size of a token account.
//
// Layout, all integers little-endian:
//   mint identity    32
//   owner identity   32
//   held amount       8
//   state             1
const AccountLen = 73

// Account is the ledger's view of one token holding: which asset it holds,
// who may move it, and how much it currently holds.
type Account struct {
	Mint   program.Pubkey
	Owner  program.Pubkey
	Amount uint64
	State  AccountState
}

// IsInitialized reports whether the account carries live ledger state.
func (a Account) IsInitialized() bool {
	return a.State != Uninitialized
}

// UnpackAccount decodes a token account from its fixed storage layout.
func UnpackAccount(data []byte) (Account, error) {
	if len(data) != AccountLen {
		return Account{}, errors.Wrapf(errors.ErrInvalidAccountData, "token account length %d", len(data))
	}
	var acct Account
	copy(acct.Mint[:], data[0:32])
	copy(acct.Owner[:], data[32:64])
	acct.Amount = binary.LittleEndian.Uint64(data[64:72])
	acct.State = AccountState(data[72])
	return acct, nil
}

// Pack writes the account into dst, which must be exactly AccountLen bytes.
// The layout is a storage contract and must stay byte-for-byte stable.
func (a Account) Pack(dst []byte) error {
	if len(dst) != AccountLen {
		return errors.Wrapf(errors.ErrInvalidAccountData, "token account length %d", len(dst))
	}
	copy(dst[0:32], a.Mint[:])
	copy(dst[32:64], a.Owner[:])
	binary.LittleEndian.PutUint64(dst[64:72], a.Amount)
	dst[72] = byte(a.State)
	return nil
}
