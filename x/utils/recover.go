package utils

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Recovery is a decorator to recover from panics in handlers,
// so we can log them as errors
type Recovery struct{}

var _ treasury.Decorator = Recovery{}

// NewRecovery creates a Recovery decorator
func NewRecovery() Recovery {
	return Recovery{}
}

// Deliver turns panics into normal errors
func (r Recovery) Deliver(ctx treasury.Context, store treasury.KVStore, msg treasury.Msg, next treasury.Handler) (_ *treasury.Result, err error) {
	defer errors.Recover(&err)
	return next.Deliver(ctx, store, msg)
}
