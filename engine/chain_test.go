package engine

import (
	"context"
	"testing"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/iov-one/treasury/treasurytest"
	"github.com/iov-one/treasury/treasurytest/assert"
	"github.com/iov-one/treasury/x/utils"
)

func TestChain(t *testing.T) {
	var (
		c1, c2, c3 treasurytest.Decorator
		h          treasurytest.Handler
		panicking  bool
	)
	panicAt := treasurytest.Decorate(&h, &c3)
	stack := ChainDecorators(
		&c1,
		utils.NewLogging(),
		utils.NewRecovery(),
		&c2,
		nil,
	).WithHandler(treasury.HandlerFunc(func(ctx treasury.Context, db treasury.KVStore, msg treasury.Msg) (*treasury.Result, error) {
		if panicking {
			panic("boom")
		}
		return panicAt.Deliver(ctx, db, msg)
	}))

	ctx := context.Background()
	msg := &treasurytest.Msg{RoutePath: "test/chain"}
	for i := 0; i < 2; i++ {
		_, err := stack.Deliver(ctx, store.MemStore(), msg)
		assert.Nil(t, err)
	}
	assert.Equal(t, 2, c1.CallCount())
	assert.Equal(t, 2, c2.CallCount())
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())

	panicking = true
	_, err := stack.Deliver(ctx, store.MemStore(), msg)
	assert.IsErr(t, errors.ErrPanic, err)
	assert.Equal(t, 3, c1.CallCount())
	assert.Equal(t, 3, c2.CallCount())
	// the panic happens before the inner decorator is reached
	assert.Equal(t, 2, c3.CallCount())
	assert.Equal(t, 2, h.CallCount())
}

func TestChainStopsOnDecoratorError(t *testing.T) {
	c1 := treasurytest.Decorator{DeliverErr: errors.ErrUnauthorized}
	var (
		c2 treasurytest.Decorator
		h  treasurytest.Handler
	)
	stack := ChainDecorators(&c1).Chain(&c2).WithHandler(&h)

	_, err := stack.Deliver(context.Background(), store.MemStore(), &treasurytest.Msg{RoutePath: "test/chain"})
	assert.IsErr(t, errors.ErrUnauthorized, err)
	assert.Equal(t, 1, c1.CallCount())
	assert.Equal(t, 0, c2.CallCount())
	assert.Equal(t, 0, h.CallCount())
}

func TestCutoffNil(t *testing.T) {
	var nilDecorator *treasurytest.Decorator
	d := &treasurytest.Decorator{}

	cases := map[string]struct {
		in   []treasury.Decorator
		want int
	}{
		"empty":         {in: nil, want: 0},
		"all nil":       {in: []treasury.Decorator{nil, nilDecorator}, want: 0},
		"nil in middle": {in: []treasury.Decorator{d, nil, d, nilDecorator, d}, want: 3},
		"none nil":      {in: []treasury.Decorator{d, d}, want: 2},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got := cutoffNil(tc.in)
			assert.Equal(t, tc.want, len(got))
			for _, g := range got {
				if g == nil {
					t.Fatal("nil decorator left")
				}
			}
		})
	}
}
