package progtest

import (
	"crypto/rand"

	"golang.org/x/crypto/ed25519"

	"github.com/daragao/solana-escrow/program"
)

// NewPubkey generates a fresh externally-owned identity. Being a real
// ed25519 public key, it is always distinguishable from derived ones.
func NewPubkey() program.Pubkey {
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		panic(err)
	}
	key, err := program.PubkeyFromBytes(pub)
	if err != nil {
		panic(err)
	}
	return key
}
