/*
Package token models the external fungible-token ledger the escrow program
delegates to. The escrow core only consumes three of its capabilities —
transfer, authority change and account closure — plus the account layout
reader; they are assumed correct.

The package carries both halves of that contract: instruction builders with
the ledger's wire format for callers, and Ledger, an executing
implementation over account handles used by in-process hosts and tests.
*/
package token
