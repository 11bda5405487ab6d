package program

import (
	"crypto/sha256"

	"filippo.io/edwards25519"

	"github.com/daragao/solana-escrow/errors"
)

const (
	// MaxSeedLen is the byte limit for a single derivation seed.
	MaxSeedLen = 32
	// MaxSeeds is the limit of seeds in one derivation.
	MaxSeeds = 16

	// derivedMarker domain-separates derived identities from plain
	// sha256 digests.
	derivedMarker = "ProgramDerivedAddress"
)

// CreateProgramAddress deterministically derives an identity from the given
// seeds and owning program. The result must not be a valid curve point:
// a derived identity is only useful as an authority if it provably cannot
// correspond to a private key. Seeds that produce a curve point are
// rejected; callers normally search with FindProgramAddress instead.
func CreateProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, error) {
	if len(seeds) > MaxSeeds {
		return Pubkey{}, errors.Wrapf(errors.ErrInvalidInput, "%d seeds", len(seeds))
	}
	h := sha256.New()
	for _, seed := range seeds {
		if len(seed) > MaxSeedLen {
			return Pubkey{}, errors.Wrapf(errors.ErrInvalidInput, "seed length %d", len(seed))
		}
		h.Write(seed)
	}
	h.Write(programID[:])
	h.Write([]byte(derivedMarker))

	var addr Pubkey
	copy(addr[:], h.Sum(nil))
	if isOnCurve(addr) {
		return Pubkey{}, errors.Wrap(errors.ErrInvalidInput, "derived address is a valid curve point")
	}
	return addr, nil
}

// FindProgramAddress searches for the first bump value, from 255 downwards,
// whose derivation lands off the curve. It returns the derived identity
// together with the bump, which is the proof value callers thread through
// InvokeSigned to act as the identity.
//
// The derivation is pure: any party can reproduce the same (address, bump)
// pair from the seeds and program identity alone.
func FindProgramAddress(seeds [][]byte, programID Pubkey) (Pubkey, uint8, error) {
	for bump := 255; bump >= 0; bump-- {
		bumped := make([][]byte, 0, len(seeds)+1)
		bumped = append(bumped, seeds...)
		bumped = append(bumped, []byte{byte(bump)})
		addr, err := CreateProgramAddress(bumped, programID)
		if err == nil {
			return addr, uint8(bump), nil
		}
		if !errors.ErrInvalidInput.Is(err) {
			return Pubkey{}, 0, err
		}
	}
	return Pubkey{}, 0, errors.Wrap(errors.ErrNotFound, "no viable bump")
}

// isOnCurve reports whether the bytes decode to a valid Edwards curve
// point, i.e. whether the identity could have a private key.
func isOnCurve(p Pubkey) bool {
	_, err := new(edwards25519.Point).SetBytes(p[:])
	return err == nil
}
