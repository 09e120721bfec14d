package treasury

import (
	"context"
	"os"
	"testing"

	"github.com/iov-one/treasury/errors"
	"github.com/stretchr/testify/assert"

	"github.com/tendermint/tendermint/libs/log"
)

func TestContext(t *testing.T) {
	bg := context.Background()

	// try logger with default
	newLogger := log.NewTMLogger(os.Stdout)
	ctx := WithLogger(bg, newLogger)
	assert.Equal(t, DefaultLogger, GetLogger(bg))
	assert.Equal(t, newLogger, GetLogger(ctx))

	// caller - uninitialized
	caller, ok := GetCaller(ctx)
	assert.Nil(t, caller)
	assert.False(t, ok)

	alice := NewAddress([]byte("alice"))
	ctx = WithCaller(ctx, alice)
	caller, ok = GetCaller(ctx)
	assert.True(t, ok)
	assert.Equal(t, alice, caller)
	// no reset
	assert.Panics(t, func() { WithCaller(ctx, NewAddress([]byte("bob"))) })

	// changing the info, should modify the logger, but not the caller
	ctx2 := WithLogInfo(ctx, "foo", "bar")
	assert.NotEqual(t, GetLogger(ctx), GetLogger(ctx2))
	caller, _ = GetCaller(ctx2)
	assert.Equal(t, alice, caller)
}

func TestNullCallerIsNotSet(t *testing.T) {
	ctx := WithCaller(context.Background(), make(Address, AddressLength))
	_, ok := GetCaller(ctx)
	assert.False(t, ok)
}

func TestRequireCaller(t *testing.T) {
	_, err := RequireCaller(context.Background())
	assert.True(t, errors.ErrUnauthorized.Is(err))

	alice := NewAddress([]byte("alice"))
	caller, err := RequireCaller(WithCaller(context.Background(), alice))
	assert.NoError(t, err)
	assert.Equal(t, alice, caller)
}
