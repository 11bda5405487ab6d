package program

// AccountMeta declares how a delegated call uses one account: whether the
// callee may treat it as a signer and whether it may be written to.
type AccountMeta struct {
	Pubkey     Pubkey
	IsSigner   bool
	IsWritable bool
}

// Instruction is one delegated call to another program.
type Instruction struct {
	Program  Pubkey
	Accounts []AccountMeta
	Data     []byte
}

// Invoker is the delegated-call capability granted by the host environment.
//
// Invoke executes the instruction with the caller's signer set. InvokeSigned
// additionally grants signer status to every derived identity reproduced by
// one of the given seed sets — the proof-of-derivation mechanism that lets a
// program act as an identity that has no private key.
//
// The host guarantees that all delegated calls within one transition either
// all take effect or none do.
type Invoker interface {
	Invoke(ix Instruction, accounts []*Account) error
	InvokeSigned(ix Instruction, accounts []*Account, seeds ...[][]byte) error
}
