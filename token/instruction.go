package token

import (
	"encoding/binary"

	"github.com/daragao/solana-escrow/program"
)

// AuthorityType selects which authority a SetAuthority call replaces.
type AuthorityType uint8

const (
	// AuthorityMintTokens controls minting of new tokens.
	AuthorityMintTokens AuthorityType = iota
	// AuthorityFreezeAccount controls freezing of token accounts.
	AuthorityFreezeAccount
	// AuthorityAccountOwner controls who may move a token account's
	// holdings.
	AuthorityAccountOwner
	// AuthorityCloseAccount controls who may close a token account.
	AuthorityCloseAccount
)

// Ledger instruction tags. The values are part of the ledger's wire
// contract.
const (
	tagTransfer     = 3
	tagSetAuthority = 6
	tagCloseAccount = 9
)

// Transfer builds the ledger call moving amount units from source to dest,
// authorized by owner.
//
// Accounts: source (writable), dest (writable), owner (signer).
func Transfer(tokenProgram, source, dest, owner program.Pubkey, amount uint64) program.Instruction {
	data := make([]byte, 9)
	data[0] = tagTransfer
	binary.LittleEndian.PutUint64(data[1:], amount)
	return program.Instruction{
		Program: tokenProgram,
		Accounts: []program.AccountMeta{
			{Pubkey: source, IsWritable: true},
			{Pubkey: dest, IsWritable: true},
			{Pubkey: owner, IsSigner: true},
		},
		Data: data,
	}
}

// SetAuthority builds the ledger call replacing one of account's
// authorities with newAuthority, authorized by the current authority.
//
// Accounts: account (writable), current authority (signer).
func SetAuthority(tokenProgram, account, newAuthority program.Pubkey, kind AuthorityType, current program.Pubkey) program.Instruction {
	// tag, authority kind, option marker, new authority
	data := make([]byte, 3+program.PubkeyLen)
	data[0] = tagSetAuthority
	data[1] = byte(kind)
	data[2] = 1
	copy(data[3:], newAuthority[:])
	return program.Instruction{
		Program: tokenProgram,
		Accounts: []program.AccountMeta{
			{Pubkey: account, IsWritable: true},
			{Pubkey: current, IsSigner: true},
		},
		Data: data,
	}
}

// CloseAccount builds the ledger call destroying an emptied token account
// and reclaiming its storage deposit to dest, authorized by owner.
//
// Accounts: account (writable), dest (writable), owner (signer).
func CloseAccount(tokenProgram, account, dest, owner program.Pubkey) program.Instruction {
	return program.Instruction{
		Program: tokenProgram,
		Accounts: []program.AccountMeta{
			{Pubkey: account, IsWritable: true},
			{Pubkey: dest, IsWritable: true},
			{Pubkey: owner, IsSigner: true},
		},
		Data: []byte{tagCloseAccount},
	}
}
