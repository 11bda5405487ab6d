package program

import (
	"github.com/btcsuite/btcutil/base58"

	"github.com/daragao/solana-escrow/errors"
)

// PubkeyLen is the length of all identities used by the account machine.
const PubkeyLen = 32

// Pubkey is a 32-byte account identity. It names externally-owned accounts
// as well as program-derived ones; only the former correspond to a private
// key.
type Pubkey [PubkeyLen]byte

// PubkeyFromBytes builds a Pubkey from a raw byte slice.
func PubkeyFromBytes(raw []byte) (Pubkey, error) {
	var p Pubkey
	if len(raw) != PubkeyLen {
		return p, errors.Wrapf(errors.ErrInvalidInput, "pubkey length %d", len(raw))
	}
	copy(p[:], raw)
	return p, nil
}

// PubkeyFromBase58 decodes the human readable base58 form of an identity.
func PubkeyFromBase58(repr string) (Pubkey, error) {
	return PubkeyFromBytes(base58.Decode(repr))
}

// MustPubkey decodes a base58 identity and panics on failure. Use only for
// well-known constants.
func MustPubkey(repr string) Pubkey {
	p, err := PubkeyFromBase58(repr)
	if err != nil {
		panic(err)
	}
	return p
}

// Bytes returns a copy of the raw identity bytes.
func (p Pubkey) Bytes() []byte {
	cpy := make([]byte, PubkeyLen)
	copy(cpy, p[:])
	return cpy
}

// Equals checks if two identities are the same.
func (p Pubkey) Equals(other Pubkey) bool {
	return p == other
}

// IsZero reports whether the identity is the all-zero value.
func (p Pubkey) IsZero() bool {
	return p == Pubkey{}
}

// String returns the base58 form used in any human readable output.
func (p Pubkey) String() string {
	return base58.Encode(p[:])
}
