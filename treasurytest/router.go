package treasurytest

import (
	"context"
	"fmt"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Router is a minimal treasury.Registry that dispatches messages to the
// handler registered for their path. It applies no decorators, which makes
// it suitable to test extension handlers in isolation.
type Router map[string]treasury.Handler

var _ treasury.Registry = Router(nil)
var _ treasury.Handler = Router(nil)

// Handle implements treasury.Registry.
func (r Router) Handle(path string, h treasury.Handler) {
	if _, ok := r[path]; ok {
		panic(fmt.Sprintf("re-registering path %q", path))
	}
	r[path] = h
}

// Deliver implements treasury.Handler.
func (r Router) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) (*treasury.Result, error) {
	h, ok := r[msg.Path()]
	if !ok {
		return nil, errors.Wrapf(errors.ErrNotFound, "no handler for %q", msg.Path())
	}
	return h.Deliver(ctx, db, msg)
}

// CallerCtx returns a context carrying given caller identity.
func CallerCtx(caller treasury.Address) treasury.Context {
	return treasury.WithCaller(context.Background(), caller)
}
