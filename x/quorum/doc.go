/*
Package quorum implements voting on proposals and the quorum decision.

A vote is accepted from members allowed by the configured voting policy,
owners only by default. Each voter holds at most one vote per proposal,
voting again replaces the previous selection. A proposal meets its quorum
when the number of positive votes reaches the required approvals of the
vault.
*/
package quorum
