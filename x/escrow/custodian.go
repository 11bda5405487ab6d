package escrow

import (
	"github.com/daragao/solana-escrow/program"
)

// CustodianSeed is the single fixed derivation label. Every trade shares
// one custodian identity; isolation between concurrent trades comes from
// the record/holding-slot pairing, not from the custodian.
const CustodianSeed = "escrow"

// Custodian derives the program's custodial identity and its bump proof.
// The derivation is pure and must be recomputed identically in both
// transitions: Initialize installs the address as the holding slot's
// authority, Exchange additionally needs the bump to act as it.
func Custodian(programID program.Pubkey) (program.Pubkey, uint8, error) {
	return program.FindProgramAddress([][]byte{[]byte(CustodianSeed)}, programID)
}

// CustodianSeeds returns the seed set that proves the custodian derivation
// for a delegated call.
func CustodianSeeds(bump uint8) [][]byte {
	return [][]byte{[]byte(CustodianSeed), {bump}}
}
