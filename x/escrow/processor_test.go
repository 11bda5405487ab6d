package escrow_test

import (
	"bytes"
	"encoding/binary"
	"math"
	"testing"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
	"github.com/daragao/solana-escrow/progtest"
	"github.com/daragao/solana-escrow/progtest/assert"
	"github.com/daragao/solana-escrow/rent"
	"github.com/daragao/solana-escrow/token"
	"github.com/daragao/solana-escrow/x/escrow"
)

func instructionData(tag byte, amount uint64) []byte {
	data := make([]byte, 9)
	data[0] = tag
	binary.LittleEndian.PutUint64(data[1:], amount)
	return data
}

// fixture wires one trade: the initializer deposits depositX units of
// asset X into the holding slot and demands expectY units of asset Y.
type fixture struct {
	programID program.Pubkey
	mintX     program.Pubkey
	mintY     program.Pubkey

	initializer *program.Account
	holding     *program.Account
	receive     *program.Account
	escrowAcct  *program.Account
	rentAcct    *program.Account
	tokenProg   *program.Account

	proc escrow.Processor
}

func newFixture(depositX uint64) *fixture {
	f := &fixture{
		programID: progtest.NewPubkey(),
		mintX:     progtest.NewPubkey(),
		mintY:     progtest.NewPubkey(),
	}
	initializerKey := progtest.NewPubkey()
	f.initializer = progtest.NewSignerAccount(initializerKey, 1_000_000)
	f.holding = progtest.NewTokenAccount(progtest.NewPubkey(), f.mintX, initializerKey, depositX)
	f.receive = progtest.NewTokenAccount(progtest.NewPubkey(), f.mintY, initializerKey, 0)
	f.escrowAcct = progtest.NewAccount(
		progtest.NewPubkey(),
		f.programID,
		rent.DefaultRent().MinimumBalance(escrow.Len),
		escrow.Len,
	)
	f.rentAcct = progtest.NewRentSysvar()
	f.tokenProg = progtest.NewProgramAccount(token.ID)
	f.proc = escrow.NewProcessor(progtest.NewHost(f.programID))
	return f
}

func (f *fixture) initAccounts() []*program.Account {
	return []*program.Account{
		f.initializer, f.holding, f.receive, f.escrowAcct, f.rentAcct, f.tokenProg,
	}
}

func (f *fixture) initialize(expectY uint64) error {
	return f.proc.Process(f.programID, f.initAccounts(), instructionData(0, expectY))
}

// taker wires the counterparty: sendY units of asset Y to pay with, and an
// empty receiving slot for asset X.
type taker struct {
	account   *program.Account
	send      *program.Account
	receive   *program.Account
	custodian *program.Account
}

func (f *fixture) newTaker(sendY uint64) *taker {
	takerKey := progtest.NewPubkey()
	custodian, _, err := escrow.Custodian(f.programID)
	if err != nil {
		panic(err)
	}
	return &taker{
		account:   progtest.NewSignerAccount(takerKey, 5000),
		send:      progtest.NewTokenAccount(progtest.NewPubkey(), f.mintY, takerKey, sendY),
		receive:   progtest.NewTokenAccount(progtest.NewPubkey(), f.mintX, takerKey, 0),
		custodian: &program.Account{Key: custodian},
	}
}

func (f *fixture) exchangeAccounts(tk *taker) []*program.Account {
	return []*program.Account{
		tk.account, tk.send, tk.receive, f.holding,
		f.initializer, f.receive, f.escrowAcct, f.tokenProg, tk.custodian,
	}
}

func (f *fixture) exchange(tk *taker, declared uint64) error {
	return f.proc.Process(f.programID, f.exchangeAccounts(tk), instructionData(1, declared))
}

func TestInitEscrow(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	esc, err := escrow.Unpack(f.escrowAcct.Data)
	assert.Nil(t, err)
	assert.Equal(t, true, esc.IsInitialized)
	assert.Equal(t, f.initializer.Key, esc.Initializer)
	assert.Equal(t, f.holding.Key, esc.HoldingSlot)
	assert.Equal(t, f.receive.Key, esc.InitializerReceive)
	assert.Equal(t, uint64(123), esc.ExpectedAmount)

	// custody of the holding slot moved to the derived identity
	custodian, _, err := escrow.Custodian(f.programID)
	assert.Nil(t, err)
	assert.Equal(t, custodian, progtest.TokenOwner(f.holding))
}

func TestInitEscrowRequiresSigner(t *testing.T) {
	f := newFixture(123)
	f.initializer.Signer = false

	assert.IsErr(t, errors.ErrMissingSignature, f.initialize(123))

	// no partial mutation
	esc, err := escrow.UnpackUnchecked(f.escrowAcct.Data)
	assert.Nil(t, err)
	assert.Equal(t, false, esc.IsInitialized)
	assert.Equal(t, f.initializer.Key, progtest.TokenOwner(f.holding))
}

func TestInitEscrowReceiveAccountOwner(t *testing.T) {
	f := newFixture(123)
	f.receive.Owner = f.programID // not the token ledger

	assert.IsErr(t, errors.ErrIncorrectOwner, f.initialize(123))
}

func TestInitEscrowNotRentExempt(t *testing.T) {
	f := newFixture(123)
	f.escrowAcct.Lamports = rent.DefaultRent().MinimumBalance(escrow.Len) - 1

	assert.IsErr(t, escrow.ErrNotRentExempt, f.initialize(123))
}

func TestInitEscrowAlreadyInitialized(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	assert.IsErr(t, errors.ErrAlreadyInitialized, f.initialize(123))
}

// failingInvoker aborts every delegated call.
type failingInvoker struct{}

func (failingInvoker) Invoke(program.Instruction, []*program.Account) error {
	return errors.Wrap(errors.ErrState, "delegated call rejected")
}

func (failingInvoker) InvokeSigned(program.Instruction, []*program.Account, ...[][]byte) error {
	return errors.Wrap(errors.ErrState, "delegated call rejected")
}

func TestInitEscrowDelegationFailure(t *testing.T) {
	f := newFixture(123)
	f.proc = escrow.NewProcessor(failingInvoker{})

	assert.IsErr(t, errors.ErrState, f.initialize(123))

	// the record must not be left open without custody in place
	esc, err := escrow.UnpackUnchecked(f.escrowAcct.Data)
	assert.Nil(t, err)
	assert.Equal(t, false, esc.IsInitialized)
}

func TestExchange(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	holdingDeposit := f.holding.Lamports
	recordDeposit := f.escrowAcct.Lamports
	initializerBefore := f.initializer.Lamports

	tk := f.newTaker(123)
	assert.Nil(t, f.exchange(tk, 123))

	// asset X went to the taker, asset Y to the initializer
	assert.Equal(t, uint64(123), progtest.TokenBalance(tk.receive))
	assert.Equal(t, uint64(0), progtest.TokenBalance(tk.send))
	assert.Equal(t, uint64(123), progtest.TokenBalance(f.receive))

	// the holding slot no longer exists
	assert.Equal(t, uint64(0), f.holding.Lamports)
	assert.Equal(t, bytes.Repeat([]byte{0}, token.AccountLen), f.holding.Data)

	// the escrow record is deallocated and both deposits went back to
	// the initializer
	assert.Equal(t, uint64(0), f.escrowAcct.Lamports)
	assert.Equal(t, bytes.Repeat([]byte{0}, escrow.Len), f.escrowAcct.Data)
	assert.Equal(t, initializerBefore+holdingDeposit+recordDeposit, f.initializer.Lamports)
}

func TestExchangeRequiresSigner(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	tk := f.newTaker(123)
	tk.account.Signer = false

	assert.IsErr(t, errors.ErrMissingSignature, f.exchange(tk, 123))
	assert.Equal(t, uint64(123), progtest.TokenBalance(tk.send))
}

func TestExchangeAmountMismatch(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	tk := f.newTaker(123)
	assert.IsErr(t, escrow.ErrExpectedAmountMismatch, f.exchange(tk, 122))

	// no transfers happened
	assert.Equal(t, uint64(123), progtest.TokenBalance(tk.send))
	assert.Equal(t, uint64(0), progtest.TokenBalance(tk.receive))
	assert.Equal(t, uint64(123), progtest.TokenBalance(f.holding))
}

func TestExchangeTamperedHoldingSlot(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	// a forged custodial account with a matching balance
	forged := progtest.NewTokenAccount(progtest.NewPubkey(), f.mintX, f.initializer.Key, 123)
	tk := f.newTaker(123)
	accounts := f.exchangeAccounts(tk)
	accounts[3] = forged

	err := f.proc.Process(f.programID, accounts, instructionData(1, 123))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
	assert.Equal(t, uint64(123), progtest.TokenBalance(tk.send))
}

func TestExchangeTamperedInitializer(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	mallory := progtest.NewSignerAccount(progtest.NewPubkey(), 0)
	tk := f.newTaker(123)
	accounts := f.exchangeAccounts(tk)
	accounts[4] = mallory

	err := f.proc.Process(f.programID, accounts, instructionData(1, 123))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
	assert.Equal(t, uint64(0), mallory.Lamports)
}

func TestExchangeTamperedReceiveAccount(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	forged := progtest.NewTokenAccount(progtest.NewPubkey(), f.mintY, progtest.NewPubkey(), 0)
	tk := f.newTaker(123)
	accounts := f.exchangeAccounts(tk)
	accounts[5] = forged

	err := f.proc.Process(f.programID, accounts, instructionData(1, 123))
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
	assert.Equal(t, uint64(123), progtest.TokenBalance(tk.send))
}

func TestExchangeStaleRecord(t *testing.T) {
	f := newFixture(123)
	// no initialize: the record slot still holds zeroes

	tk := f.newTaker(123)
	err := f.exchange(tk, 123)
	assert.IsErr(t, errors.ErrInvalidAccountData, err)
}

func TestExchangeDepositOverflow(t *testing.T) {
	f := newFixture(123)
	assert.Nil(t, f.initialize(123))

	// leave exactly enough headroom for the holding slot deposit so only
	// the record deposit credit overflows
	f.initializer.Lamports = math.MaxUint64 - f.holding.Lamports

	tk := f.newTaker(123)
	assert.IsErr(t, escrow.ErrAmountOverflow, f.exchange(tk, 123))
}

func TestInitializeThenExchangeNeverOverflows(t *testing.T) {
	amounts := []uint64{1, 123, 5000, math.MaxUint64}
	for _, amount := range amounts {
		f := newFixture(amount)
		assert.Nil(t, f.initialize(amount))

		tk := f.newTaker(amount)
		assert.Nil(t, f.exchange(tk, amount))
		assert.Equal(t, amount, progtest.TokenBalance(tk.receive))
		assert.Equal(t, amount, progtest.TokenBalance(f.receive))
	}
}

func TestProcessRejectsMalformedInstruction(t *testing.T) {
	f := newFixture(123)
	err := f.proc.Process(f.programID, f.initAccounts(), []byte{9, 0, 0, 0, 0, 0, 0, 0, 0})
	assert.IsErr(t, escrow.ErrInvalidInstruction, err)
}

func TestProcessNotEnoughAccounts(t *testing.T) {
	f := newFixture(123)
	err := f.proc.Process(f.programID, f.initAccounts()[:2], instructionData(0, 123))
	assert.IsErr(t, errors.ErrNotEnoughAccounts, err)
}
