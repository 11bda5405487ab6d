package progtest

import (
	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
	"github.com/daragao/solana-escrow/token"
)

var _ program.Invoker = (*Host)(nil)

// Host is an in-process execution environment for delegated calls. It
// routes instructions addressed to the token ledger to an executing Ledger
// over the live account handles.
//
// Signer semantics mirror the real host: an account meta marked as signer
// is honored only when the matching handle carries a real signature, or
// when the identity is reproduced by one of the seed sets given to
// InvokeSigned — the derivation proof of the calling program.
type Host struct {
	// ProgramID is the calling program, the owner of all derivation
	// proofs presented through InvokeSigned.
	ProgramID program.Pubkey

	ledger token.Ledger
}

// NewHost returns a host executing delegated calls on behalf of the given
// program.
func NewHost(programID program.Pubkey) *Host {
	return &Host{ProgramID: programID}
}

// Invoke executes a delegated call with the caller's signer set only.
func (h *Host) Invoke(ix program.Instruction, accounts []*program.Account) error {
	return h.invoke(ix, accounts, nil)
}

// InvokeSigned executes a delegated call extending the signer set with
// every derived identity the seed sets reproduce.
func (h *Host) InvokeSigned(ix program.Instruction, accounts []*program.Account, seeds ...[][]byte) error {
	proven := make(map[program.Pubkey]bool, len(seeds))
	for _, seedSet := range seeds {
		addr, err := program.CreateProgramAddress(seedSet, h.ProgramID)
		if err != nil {
			return errors.Wrap(err, "derivation proof")
		}
		proven[addr] = true
	}
	return h.invoke(ix, accounts, proven)
}

func (h *Host) invoke(ix program.Instruction, accounts []*program.Account, proven map[program.Pubkey]bool) error {
	if !ix.Program.Equals(token.ID) {
		return errors.Wrapf(errors.ErrNotFound, "program %s", ix.Program)
	}

	signedBy := func(key program.Pubkey) bool {
		if proven[key] {
			return true
		}
		for _, acct := range accounts {
			if acct.Key.Equals(key) {
				return acct.Signer
			}
		}
		return false
	}

	// A meta may only claim signer status the transaction can back up.
	for _, meta := range ix.Accounts {
		if meta.IsSigner && !signedBy(meta.Pubkey) {
			return errors.Wrapf(errors.ErrMissingSignature, "account %s", meta.Pubkey)
		}
	}

	return h.ledger.Execute(ix, accounts, signedBy)
}
