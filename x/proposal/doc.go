/*
Package proposal implements the proposal store. It holds the pending and
executed transfer proposals of every vault, together with the votes cast
on them.

Proposals are indexed sequentially per vault starting at 0. A proposal can
be edited until the first vote is recorded. Votes are keyed by proposal and
voter, so each member has at most one vote per proposal. The positive tally
is always recomputed from the recorded votes.
*/
package proposal
