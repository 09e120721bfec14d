package treasurytest

import "github.com/iov-one/treasury"

// Decorator is a mock implementation of the treasury.Decorator interface.
//
// Set DeliverErr to force error response. If error attribute is not set then
// wrapped handler method is called and its result returned.
// Each method call is counted. Regardless of the method call result the
// counter is incremented.
type Decorator struct {
	deliverCall int
	// DeliverErr if set is returned by the Deliver method before calling
	// the wrapped handler.
	DeliverErr error
}

var _ treasury.Decorator = (*Decorator)(nil)

func (d *Decorator) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	d.deliverCall++

	if d.DeliverErr != nil {
		return nil, d.DeliverErr
	}
	return next.Deliver(ctx, db, msg)
}

func (d *Decorator) CallCount() int {
	return d.deliverCall
}

// Decorate returns a handler that calls given decorator with given handler
// as the next one.
func Decorate(h treasury.Handler, d treasury.Decorator) treasury.Handler {
	return &decoratedHandler{hn: h, dc: d}
}

type decoratedHandler struct {
	hn treasury.Handler
	dc treasury.Decorator
}

var _ treasury.Handler = (*decoratedHandler)(nil)

func (d *decoratedHandler) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) (*treasury.Result, error) {
	return d.dc.Deliver(ctx, db, msg, d.hn)
}
