package execution

import "github.com/iov-one/treasury"

// Transferer moves value out of a vault to the destination of an executed
// proposal. Writes done to db are kept only if the whole execution
// succeeds.
type Transferer interface {
	Transfer(ctx treasury.Context, db treasury.KVStore, vaultID uint64, destination treasury.Address, amount uint64) error
}

// TransfererFunc adapts a function to the Transferer interface.
type TransfererFunc func(ctx treasury.Context, db treasury.KVStore, vaultID uint64, destination treasury.Address, amount uint64) error

func (fn TransfererFunc) Transfer(ctx treasury.Context, db treasury.KVStore, vaultID uint64, destination treasury.Address, amount uint64) error {
	return fn(ctx, db, vaultID, destination, amount)
}
