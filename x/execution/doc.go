/*
Package execution implements the one time execution of approved proposals.

The execution is marked before the value leaves the vault, so a repeated
or re-entrant execution of the same proposal always fails with
ErrAlreadyExecuted. The mark, the transfer and the debit of the vault are
written together or not at all.
*/
package execution
