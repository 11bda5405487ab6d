/*
Package errors implements coded errors for the escrow program.

Each root error is registered with a unique numeric code so that every
failure surfaced to a caller is attributable. Errors created during runtime
should always wrap one of the registered roots. Extensions declare their own
codes with Register, using a code range that does not collide with the
common set defined here.
*/
package errors
