package engine

import (
	"context"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
)

func TestRouter(t *testing.T) {
	r := NewRouter()

	var (
		good treasurytest.Handler
		bad  = treasurytest.Handler{DeliverErr: errors.ErrState}
	)
	r.Handle("test/good", &good)
	r.Handle("test/bad", &bad)

	// invalid registrations panic
	assert.Panics(t, func() { r.Handle("test/good", &good) })
	assert.Panics(t, func() { r.Handle("l:7", &good) })

	ctx := context.Background()
	db := store.MemStore()

	_, err := r.Deliver(ctx, db, &treasurytest.Msg{RoutePath: "test/good"})
	assert.Nil(t, err)
	assert.Equal(t, 1, good.CallCount())

	_, err = r.Deliver(ctx, db, &treasurytest.Msg{RoutePath: "test/bad"})
	assert.IsErr(t, errors.ErrState, err)
	assert.Equal(t, 1, bad.CallCount())

	_, err = r.Handler("test/missing").Deliver(ctx, db, &treasurytest.Msg{RoutePath: "test/missing"})
	assert.IsErr(t, errors.ErrNotFound, err)
	assert.Equal(t, 1, good.CallCount())
}
