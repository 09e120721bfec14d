package treasurytest

import (
	"sync"

	"github.com/iov-one/treasury"
)

// Handler is a mock implementation of the treasury.Handler interface.
//
// Set DeliverErr to force an error response. Set Fn to run custom code
// against the store, for example to write data that must be rolled back.
// Each call is counted.
type Handler struct {
	mu          sync.Mutex
	deliverCall int

	DeliverResult treasury.Result
	DeliverErr    error
	Fn            func(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) error
}

var _ treasury.Handler = (*Handler)(nil)

func (h *Handler) Deliver(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) (*treasury.Result, error) {
	h.mu.Lock()
	h.deliverCall++
	h.mu.Unlock()

	if h.Fn != nil {
		if err := h.Fn(ctx, db, msg); err != nil {
			return nil, err
		}
	}
	if h.DeliverErr != nil {
		return nil, h.DeliverErr
	}
	res := h.DeliverResult
	return &res, nil
}

// CallCount returns how many times Deliver was called.
func (h *Handler) CallCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.deliverCall
}
