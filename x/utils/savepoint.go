package utils

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Savepoint will isolate all data inside of the call,
// and commit/rollback to savepoint based on if error
type Savepoint struct{}

var _ treasury.Decorator = Savepoint{}

// NewSavepoint creates a Savepoint decorator.
func NewSavepoint() Savepoint {
	return Savepoint{}
}

// Deliver runs the handler against a cache wrap of the store. All changes
// are written only if the handler succeeded. A panic discards them as well.
func (s Savepoint) Deliver(ctx treasury.Context, store treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	cstore, ok := store.(treasury.CacheableKVStore)
	if !ok {
		return nil, errors.Wrapf(errors.ErrHuman, "savepoint requires a cacheable store, got %T", store)
	}

	cache := cstore.CacheWrap()
	defer cache.Discard()

	res, err := next.Deliver(ctx, cache, msg)
	if err != nil {
		return nil, err
	}
	if err := cache.Write(); err != nil {
		return nil, errors.Wrap(err, "writing savepoint")
	}
	return res, nil
}
