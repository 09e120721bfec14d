/*
Package engine is the per tenant instance of the treasury. It routes
operation messages to the vault, membership, proposal, quorum and execution
handlers, and runs every mutation through a fixed stack of decorators:

	Logging, Recovery, VaultGuard, Commit, Dispatcher, Savepoint, Outbox

The vault guard serializes mutations of a single vault and rejects
re-entrant calls. The savepoint makes each mutation atomic, and the events
it emitted are stored in the outbox within the same write. Once written,
the dispatcher hands them to the Notifier.

Read queries take the shared lock of the vault and observe committed state
only.
*/
package engine
