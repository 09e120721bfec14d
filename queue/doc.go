/*
Package queue implements the event outbox.

Events emitted by a mutation are put into the outbox within the same atomic
write as the mutation itself. Once a notifier accepted them they are removed
with Ack. Entries that were not acknowledged, for example because the
notifier failed, stay in the outbox and can be delivered again.

Keys are scoped by vault, so that concurrent mutations of different vaults
never write the same key:

	_ob:<vault id><sequence>
*/
package queue
