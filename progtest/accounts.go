package progtest

import (
	"github.com/daragao/solana-escrow/program"
	"github.com/daragao/solana-escrow/rent"
	"github.com/daragao/solana-escrow/token"
)

// NewAccount builds a writable account handle with a zeroed data buffer of
// the given length.
func NewAccount(key, owner program.Pubkey, lamports uint64, dataLen int) *program.Account {
	return &program.Account{
		Key:      key,
		Lamports: lamports,
		Data:     make([]byte, dataLen),
		Owner:    owner,
		Writable: true,
	}
}

// NewSignerAccount builds an account whose holder authorized the request.
func NewSignerAccount(key program.Pubkey, lamports uint64) *program.Account {
	acct := NewAccount(key, program.Pubkey{}, lamports, 0)
	acct.Signer = true
	return acct
}

// NewTokenAccount builds a ledger-owned account pre-packed with the given
// token state.
func NewTokenAccount(key, mint, owner program.Pubkey, amount uint64) *program.Account {
	acct := NewAccount(key, token.ID, rent.DefaultRent().MinimumBalance(token.AccountLen), token.AccountLen)
	state := token.Account{
		Mint:   mint,
		Owner:  owner,
		Amount: amount,
		State:  token.Initialized,
	}
	if err := state.Pack(acct.Data); err != nil {
		panic(err)
	}
	return acct
}

// NewRentSysvar builds the rent parameters account with the default
// schedule.
func NewRentSysvar() *program.Account {
	return &program.Account{
		Key:  rent.SysvarID,
		Data: rent.DefaultRent().AccountData(),
	}
}

// NewProgramAccount builds a bare handle naming an executable program.
func NewProgramAccount(id program.Pubkey) *program.Account {
	return &program.Account{Key: id}
}

// TokenBalance reads the held amount of a packed token account, panicking
// on malformed data. Test helper only.
func TokenBalance(acct *program.Account) uint64 {
	state, err := token.UnpackAccount(acct.Data)
	if err != nil {
		panic(err)
	}
	return state.Amount
}

// TokenOwner reads the authority of a packed token account, panicking on
// malformed data. Test helper only.
func TokenOwner(acct *program.Account) program.Pubkey {
	state, err := token.UnpackAccount(acct.Data)
	if err != nil {
		panic(err)
	}
	return state.Owner
}
