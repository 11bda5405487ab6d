package token

import (
	"encoding/binary"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
)

// Ledger executes token instructions against account handles. It is the
// in-process stand-in for the external ledger program: hosts route
// delegated calls addressed to ID here.
//
// The signedBy callback answers whether an identity authorized the current
// transaction, either by a real signature or by proof of derivation. The
// host computes it; the ledger only consults it.
type Ledger struct{}

// Execute runs a single ledger instruction over the supplied handles.
func (l Ledger) Execute(ix program.Instruction, accounts []*program.Account, signedBy func(program.Pubkey) bool) error {
	if len(ix.Data) == 0 {
		return errors.Wrap(errors.ErrInvalidInput, "empty instruction")
	}
	switch ix.Data[0] {
	case tagTransfer:
		return l.transfer(ix, accounts, signedBy)
	case tagSetAuthority:
		return l.setAuthority(ix, accounts, signedBy)
	case tagCloseAccount:
		return l.closeAccount(ix, accounts, signedBy)
	default:
		return errors.Wrapf(errors.ErrInvalidInput, "instruction tag %d", ix.Data[0])
	}
}

func (l Ledger) transfer(ix program.Instruction, accounts []*program.Account, signedBy func(program.Pubkey) bool) error {
	if len(ix.Accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "transfer")
	}
	if len(ix.Data) != 9 {
		return errors.Wrapf(errors.ErrInvalidInput, "transfer data length %d", len(ix.Data))
	}
	amount := binary.LittleEndian.Uint64(ix.Data[1:])

	source, err := l.ownAccount(accounts, ix.Accounts[0].Pubkey)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dest, err := l.ownAccount(accounts, ix.Accounts[1].Pubkey)
	if err != nil {
		return errors.Wrap(err, "dest")
	}
	srcState, err := UnpackAccount(source.Data)
	if err != nil {
		return errors.Wrap(err, "source")
	}
	dstState, err := UnpackAccount(dest.Data)
	if err != nil {
		return errors.Wrap(err, "dest")
	}
	if !srcState.IsInitialized() || !dstState.IsInitialized() {
		return errors.Wrap(errors.ErrState, "uninitialized token account")
	}
	if !srcState.Mint.Equals(dstState.Mint) {
		return errors.Wrap(errors.ErrInvalidAccountData, "mint mismatch")
	}
	if err := l.authorize(srcState.Owner, ix.Accounts[2].Pubkey, signedBy); err != nil {
		return err
	}
	if srcState.Amount < amount {
		return errors.Wrapf(errors.ErrInsufficientAmount, "held %d, transfer %d", srcState.Amount, amount)
	}
	if source == dest {
		// self transfer, balances unchanged
		return nil
	}
	newAmount, err := checkedAdd(dstState.Amount, amount)
	if err != nil {
		return errors.Wrap(err, "dest balance")
	}
	srcState.Amount -= amount
	dstState.Amount = newAmount
	if err := srcState.Pack(source.Data); err != nil {
		return err
	}
	return dstState.Pack(dest.Data)
}

func (l Ledger) setAuthority(ix program.Instruction, accounts []*program.Account, signedBy func(program.Pubkey) bool) error {
	if len(ix.Accounts) < 2 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "set authority")
	}
	if len(ix.Data) != 3+program.PubkeyLen || ix.Data[2] != 1 {
		return errors.Wrapf(errors.ErrInvalidInput, "set authority data length %d", len(ix.Data))
	}
	if AuthorityType(ix.Data[1]) != AuthorityAccountOwner {
		return errors.Wrapf(errors.ErrInvalidInput, "authority kind %d", ix.Data[1])
	}
	newAuthority, err := program.PubkeyFromBytes(ix.Data[3:])
	if err != nil {
		return err
	}

	acct, err := l.ownAccount(accounts, ix.Accounts[0].Pubkey)
	if err != nil {
		return err
	}
	state, err := UnpackAccount(acct.Data)
	if err != nil {
		return err
	}
	if !state.IsInitialized() {
		return errors.Wrap(errors.ErrState, "uninitialized token account")
	}
	if err := l.authorize(state.Owner, ix.Accounts[1].Pubkey, signedBy); err != nil {
		return err
	}
	state.Owner = newAuthority
	return state.Pack(acct.Data)
}

func (l Ledger) closeAccount(ix program.Instruction, accounts []*program.Account, signedBy func(program.Pubkey) bool) error {
	if len(ix.Accounts) < 3 {
		return errors.Wrap(errors.ErrNotEnoughAccounts, "close account")
	}
	acct, err := l.ownAccount(accounts, ix.Accounts[0].Pubkey)
	if err != nil {
		return err
	}
	dest, err := findAccount(accounts, ix.Accounts[1].Pubkey)
	if err != nil {
		return errors.Wrap(err, "dest")
	}
	if acct == dest {
		return errors.Wrap(errors.ErrInvalidInput, "cannot close into itself")
	}
	state, err := UnpackAccount(acct.Data)
	if err != nil {
		return err
	}
	if !state.IsInitialized() {
		return errors.Wrap(errors.ErrState, "uninitialized token account")
	}
	if state.Amount != 0 {
		return errors.Wrapf(errors.ErrState, "%d tokens still held", state.Amount)
	}
	if err := l.authorize(state.Owner, ix.Accounts[2].Pubkey, signedBy); err != nil {
		return err
	}
	if err := dest.AddLamports(acct.Lamports); err != nil {
		return err
	}
	acct.Lamports = 0
	for i := range acct.Data {
		acct.Data[i] = 0
	}
	return nil
}

// authorize verifies that the presented authority is the one on record and
// that it signed the transaction, directly or by derivation proof.
func (l Ledger) authorize(recorded, presented program.Pubkey, signedBy func(program.Pubkey) bool) error {
	if !recorded.Equals(presented) {
		return errors.Wrap(errors.ErrUnauthorized, "authority mismatch")
	}
	if signedBy == nil || !signedBy(presented) {
		return errors.Wrap(errors.ErrMissingSignature, "authority")
	}
	return nil
}

// ownAccount resolves a handle and verifies the ledger owns it.
func (l Ledger) ownAccount(accounts []*program.Account, key program.Pubkey) (*program.Account, error) {
	acct, err := findAccount(accounts, key)
	if err != nil {
		return nil, err
	}
	if !acct.Owner.Equals(ID) {
		return nil, errors.Wrap(errors.ErrIncorrectOwner, "not a ledger account")
	}
	return acct, nil
}

func findAccount(accounts []*program.Account, key program.Pubkey) (*program.Account, error) {
	for _, acct := range accounts {
		if acct.Key.Equals(key) {
			return acct, nil
		}
	}
	return nil, errors.Wrapf(errors.ErrNotFound, "account %s", key)
}

func checkedAdd(a, b uint64) (uint64, error) {
	if sum := a + b; sum >= a {
		return sum, nil
	}
	return 0, errors.Wrapf(errors.ErrOverflow, "add %d to %d", b, a)
}
