/*

Package treasury defines the interfaces shared by all treasury packages:
storage, messages, handlers, decorators, events and the caller identity.

A treasury instance is a single engine that owns a set of vaults. Each vault
is a pool of value controlled jointly by a roster of members. Moving value out
of a vault requires a proposal, a quorum of positive votes and an explicit
execution step. The extensions under x/ implement each part of that
lifecycle, the engine package puts them together.

*/
package treasury
