package escrow

import (
	"encoding/binary"

	"github.com/daragao/solana-escrow/errors"
)

// Instruction tags. Part of the wire contract: 1 tag byte followed by an
// 8-byte little-endian amount.
const (
	tagInitEscrow = 0
	tagExchange   = 1
)

// Msg is a decoded escrow instruction.
type Msg interface {
	Validate() error
}

var _ Msg = (*InitEscrowMsg)(nil)
var _ Msg = (*ExchangeMsg)(nil)

// InitEscrowMsg opens a trade demanding Amount units of asset Y.
type InitEscrowMsg struct {
	Amount uint64
}

// Validate makes sure this is sensible. A zero amount is pointless but not
// rejected; the wire-visible behavior allows it.
func (m *InitEscrowMsg) Validate() error {
	return nil
}

// ExchangeMsg completes a trade. Amount is the taker's declaration of the
// holding slot's current balance; the processor rejects the exchange when
// it diverges from the actual one.
type ExchangeMsg struct {
	Amount uint64
}

// Validate makes sure this is sensible.
func (m *ExchangeMsg) Validate() error {
	return nil
}

// ParseInstruction decodes an opaque instruction buffer into a typed
// message. Purely syntactic: semantic checks belong to the processor.
func ParseInstruction(data []byte) (Msg, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidInstruction, "empty buffer")
	}
	tag, rest := data[0], data[1:]
	if len(rest) < 8 {
		return nil, errors.Wrapf(ErrInvalidInstruction, "amount takes 8 bytes, got %d", len(rest))
	}
	amount := binary.LittleEndian.Uint64(rest[:8])

	switch tag {
	case tagInitEscrow:
		return &InitEscrowMsg{Amount: amount}, nil
	case tagExchange:
		return &ExchangeMsg{Amount: amount}, nil
	default:
		return nil, errors.Wrapf(ErrInvalidInstruction, "tag %d", tag)
	}
}
