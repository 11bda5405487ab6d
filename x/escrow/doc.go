/*
Package escrow implements a trustless two-party token swap.

An initializer deposits asset X into a holding slot, records how much of
asset Y they expect back, and hands custody of the holding slot to a
derived identity only this program controls. A taker later supplies asset Y
and, in one transition, receives asset X while the initializer receives
asset Y; the holding slot and the escrow record are destroyed.

The trade is a two-state machine: Initialize opens it, Exchange completes
and deletes it. There is no cancellation path — an open trade stays open
until an exchange succeeds.
*/
package escrow
