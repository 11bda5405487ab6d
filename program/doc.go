/*
Package program defines the account-machine kernel the escrow protocol runs
on: value identities, mutable account handles, delegated-call instructions
and the deterministic derivation of program-owned identities.

Everything here is host-agnostic. The host environment supplies account
handles (already locked for the duration of a transition) and an Invoker
capability for delegated calls; this package only defines the vocabulary.
*/
package program
