/*
Package vault implements the vault registry.

A vault is a pool of value under joint control of a roster of members. The
registry assigns vault identifiers, tracks the status, the balance and the
number of positive votes required to execute a proposal. The roster itself is
kept by the membership ledger, accessed through the Roster interface.
*/
package vault
