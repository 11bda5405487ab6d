package escrow

import (
	"github.com/daragao/solana-escrow/errors"
)

// Protocol error codes. The escrow extension reserves the 1000-1009 block.
var (
	// ErrInvalidInstruction is returned when the instruction buffer
	// cannot be decoded.
	ErrInvalidInstruction = errors.Register(1000, "invalid instruction")

	// ErrNotRentExempt is returned when the escrow record's storage
	// deposit does not cover rent exemption.
	ErrNotRentExempt = errors.Register(1001, "not rent exempt")

	// ErrExpectedAmountMismatch is returned when the taker's declared
	// expectation diverges from the holding slot's actual balance.
	ErrExpectedAmountMismatch = errors.Register(1002, "expected amount mismatch")

	// ErrAmountOverflow is returned when crediting a balance would
	// overflow the unsigned 64-bit range.
	ErrAmountOverflow = errors.Register(1003, "amount overflow")
)
