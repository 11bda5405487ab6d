package escrow

import (
	"math"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
	"github.com/daragao/solana-escrow/rent"
	"github.com/daragao/solana-escrow/token"
)

// Processor is the escrow state machine. It validates the account handles
// and amounts supplied by an untrusted caller against the current record
// state and performs the two transitions, delegating all asset movement to
// the external token ledger through the host's Invoker capability.
//
// The host guarantees whole-transition atomicity of delegated calls; the
// processor never has to undo an earlier effect.
type Processor struct {
	invoker program.Invoker
}

// NewProcessor returns a processor using the given delegated-call
// capability.
func NewProcessor(invoker program.Invoker) Processor {
	return Processor{invoker: invoker}
}

// Process decodes the instruction buffer and runs the matching transition
// over the ordered account handles.
func (p Processor) Process(programID program.Pubkey, accounts []*program.Account, data []byte) error {
	msg, err := ParseInstruction(data)
	if err != nil {
		return err
	}
	if err := msg.Validate(); err != nil {
		return err
	}
	switch msg := msg.(type) {
	case *InitEscrowMsg:
		return p.initEscrow(programID, accounts, msg.Amount)
	case *ExchangeMsg:
		return p.exchange(programID, accounts, msg.Amount)
	default:
		return errors.Wrapf(ErrInvalidInstruction, "unhandled message %T", msg)
	}
}

// initEscrow opens a trade.
//
// Accounts:
//   0. initializer (signer)
//   1. holding slot, a token account about to become custodial
//   2. initializer's receive account for asset Y
//   3. escrow record slot
//   4. rent sysvar
//   5. token ledger program
//
// The custodian authority change is delegated before the record is
// written, so a failed delegation can never leave an open record without
// custody in place.
func (p Processor) initEscrow(programID program.Pubkey, accounts []*program.Account, amount uint64) error {
	it := program.NewAccountIter(accounts)

	initializer, err := it.Next()
	if err != nil {
		return err
	}
	if !initializer.Signer {
		return errors.Wrap(errors.ErrMissingSignature, "initializer")
	}

	holding, err := it.Next()
	if err != nil {
		return err
	}

	receive, err := it.Next()
	if err != nil {
		return err
	}
	if !receive.Owner.Equals(token.ID) {
		return errors.Wrap(errors.ErrIncorrectOwner, "receive account")
	}

	escrowAcct, err := it.Next()
	if err != nil {
		return err
	}
	rentAcct, err := it.Next()
	if err != nil {
		return err
	}
	schedule, err := rent.FromAccount(rentAcct)
	if err != nil {
		return err
	}
	if !schedule.IsExempt(escrowAcct.Lamports, len(escrowAcct.Data)) {
		return errors.Wrap(ErrNotRentExempt, "escrow record deposit")
	}

	esc, err := UnpackUnchecked(escrowAcct.Data)
	if err != nil {
		return err
	}
	if esc.IsInitialized {
		return errors.Wrap(errors.ErrAlreadyInitialized, "escrow record")
	}

	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}

	custodian, _, err := Custodian(programID)
	if err != nil {
		return err
	}

	// Hand custody of the holding slot to the derived identity. From here
	// on nobody, the initializer included, can move its contents without
	// this program's derivation proof.
	ix := token.SetAuthority(tokenProgram.Key, holding.Key, custodian, token.AuthorityAccountOwner, initializer.Key)
	if err := p.invoker.Invoke(ix, []*program.Account{holding, initializer, tokenProgram}); err != nil {
		return err
	}

	esc = Escrow{
		IsInitialized:      true,
		Initializer:        initializer.Key,
		HoldingSlot:        holding.Key,
		InitializerReceive: receive.Key,
		ExpectedAmount:     amount,
	}
	return esc.Pack(escrowAcct.Data)
}

// exchange completes a trade.
//
// Accounts:
//   0. taker (signer)
//   1. taker's sending account (asset Y)
//   2. taker's receiving account (asset X)
//   3. holding slot (asset X custody)
//   4. initializer's main account
//   5. initializer's receive account (asset Y)
//   6. escrow record slot
//   7. token ledger program
//   8. custodian account handle
//
// The declared amount binds the taker to the holding slot's actual current
// balance; every identity the record stored at open time must match the
// presented account before any transfer occurs.
func (p Processor) exchange(programID program.Pubkey, accounts []*program.Account, amount uint64) error {
	it := program.NewAccountIter(accounts)

	taker, err := it.Next()
	if err != nil {
		return err
	}
	if !taker.Signer {
		return errors.Wrap(errors.ErrMissingSignature, "taker")
	}

	takerSend, err := it.Next()
	if err != nil {
		return err
	}
	takerReceive, err := it.Next()
	if err != nil {
		return err
	}
	holding, err := it.Next()
	if err != nil {
		return err
	}
	initializerMain, err := it.Next()
	if err != nil {
		return err
	}
	initializerReceive, err := it.Next()
	if err != nil {
		return err
	}
	escrowAcct, err := it.Next()
	if err != nil {
		return err
	}
	tokenProgram, err := it.Next()
	if err != nil {
		return err
	}
	custodianAcct, err := it.Next()
	if err != nil {
		return err
	}

	custodian, bump, err := Custodian(programID)
	if err != nil {
		return err
	}

	holdingState, err := token.UnpackAccount(holding.Data)
	if err != nil {
		return errors.Wrap(err, "holding slot")
	}
	if holdingState.Amount != amount {
		return errors.Wrapf(ErrExpectedAmountMismatch, "held %d, expected %d", holdingState.Amount, amount)
	}

	esc, err := Unpack(escrowAcct.Data)
	if err != nil {
		return err
	}
	if !esc.HoldingSlot.Equals(holding.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "holding slot")
	}
	if !esc.Initializer.Equals(initializerMain.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer")
	}
	if !esc.InitializerReceive.Equals(initializerReceive.Key) {
		return errors.Wrap(errors.ErrInvalidAccountData, "initializer receive account")
	}

	// Asset Y: taker pays the initializer the recorded expectation.
	payY := token.Transfer(tokenProgram.Key, takerSend.Key, initializerReceive.Key, taker.Key, esc.ExpectedAmount)
	if err := p.invoker.Invoke(payY, []*program.Account{takerSend, initializerReceive, taker, tokenProgram}); err != nil {
		return err
	}

	// Asset X: the custodian releases the holding slot's entire balance
	// to the taker, authorized by derivation proof.
	payX := token.Transfer(tokenProgram.Key, holding.Key, takerReceive.Key, custodian, holdingState.Amount)
	if err := p.invoker.InvokeSigned(payX, []*program.Account{holding, takerReceive, custodianAcct, tokenProgram}, CustodianSeeds(bump)); err != nil {
		return err
	}

	// Close the emptied holding slot, reclaiming its deposit to the
	// initializer.
	closeHolding := token.CloseAccount(tokenProgram.Key, holding.Key, initializerMain.Key, custodian)
	if err := p.invoker.InvokeSigned(closeHolding, []*program.Account{holding, initializerMain, custodianAcct, tokenProgram}, CustodianSeeds(bump)); err != nil {
		return err
	}

	// Reclaim the record's own deposit and deallocate it by zeroing.
	if initializerMain.Lamports > math.MaxUint64-escrowAcct.Lamports {
		return errors.Wrap(ErrAmountOverflow, "initializer balance")
	}
	initializerMain.Lamports += escrowAcct.Lamports
	escrowAcct.Lamports = 0
	for i := range escrowAcct.Data {
		escrowAcct.Data[i] = 0
	}
	return nil
}
