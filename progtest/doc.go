// Package progtest provides test fixtures for the escrow program: key and
// account builders and an in-process host that executes delegated token
// ledger calls with the signer-extension semantics of the real execution
// environment.
package progtest
