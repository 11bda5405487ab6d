package escrow

import (
	"encoding/binary"

	"github.com/daragao/solana-escrow/errors"
	"github.com/daragao/solana-escrow/program"
)

// Len is the serialized size of an escrow record.
//
// Layout, a storage contract that must stay byte-for-byte stable:
//   is_initialized flag           1
//   initializer identity         32
//   holding slot identity        32
//   initializer receive identity 32
//   expected amount, LE           8
const Len = 105

// Escrow is the persisted descriptor of one open trade. It is written once
// by Initialize and destroyed by Exchange; no update exists in between.
type Escrow struct {
	// IsInitialized guards against double initialization and against
	// reading a garbage slot.
	IsInitialized bool
	// Initializer opened the trade and is the sole recipient of the
	// counter-asset and the reclaimed storage deposits.
	Initializer program.Pubkey
	// HoldingSlot is the custodial account holding asset X.
	HoldingSlot program.Pubkey
	// InitializerReceive is the initializer's account designated to
	// receive asset Y.
	InitializerReceive program.Pubkey
	// ExpectedAmount is the quantity of asset Y the initializer demands.
	ExpectedAmount uint64
}

// Unpack strictly decodes an open escrow record. It fails on a buffer of
// the wrong length and on a record that is not initialized; use
// UnpackUnchecked when an uninitialized slot is an acceptable result.
func Unpack(data []byte) (Escrow, error) {
	esc, err := UnpackUnchecked(data)
	if err != nil {
		return Escrow{}, err
	}
	if !esc.IsInitialized {
		return Escrow{}, errors.Wrap(errors.ErrInvalidAccountData, "uninitialized escrow record")
	}
	return esc, nil
}

// UnpackUnchecked decodes an escrow record tolerantly: an all-zero or
// garbage buffer of the right length decodes without error, with any
// non-zero flag byte reading as initialized. Used at Initialize time to
// detect prior initialization.
func UnpackUnchecked(data []byte) (Escrow, error) {
	if len(data) != Len {
		return Escrow{}, errors.Wrapf(errors.ErrInvalidAccountData, "escrow record length %d", len(data))
	}
	var esc Escrow
	esc.IsInitialized = data[0] != 0
	copy(esc.Initializer[:], data[1:33])
	copy(esc.HoldingSlot[:], data[33:65])
	copy(esc.InitializerReceive[:], data[65:97])
	esc.ExpectedAmount = binary.LittleEndian.Uint64(data[97:105])
	return esc, nil
}

// Pack writes the record into dst, which must be exactly Len bytes.
func (e Escrow) Pack(dst []byte) error {
	if len(dst) != Len {
		return errors.Wrapf(errors.ErrInvalidAccountData, "escrow record length %d", len(dst))
	}
	if e.IsInitialized {
		dst[0] = 1
	} else {
		dst[0] = 0
	}
	copy(dst[1:33], e.Initializer[:])
	copy(dst[33:65], e.HoldingSlot[:])
	copy(dst[65:97], e.InitializerReceive[:])
	binary.LittleEndian.PutUint64(dst[97:105], e.ExpectedAmount)
	return nil
}
