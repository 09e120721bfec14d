/*
We pass context through context.Context between
engine, decorators, and handlers. To do so, treasury defines
some common keys to store info, such as the caller identity
and the logger.

There should exist two functions for every XYZ of type T
that we want to support in Context:

  WithXYZ(Context, T) Context
  GetXYZ(Context) (val T, ok bool)

WithXYZ may panic if the value was previously set
to avoid lower-level modules overwriting the value.
*/
package treasury

import (
	"context"

	"github.com/iov-one/treasury/errors"
	"github.com/tendermint/tendermint/libs/log"
)

// Context is just an alias for the standard implementation.
// We use functions to extend it to our domain
type Context = context.Context

type contextKey int // local to the treasury module

const (
	contextKeyCaller contextKey = iota
	contextKeyLogger
)

var (
	// DefaultLogger is used for all context that have not
	// set anything themselves
	DefaultLogger = log.NewNopLogger()
)

// WithCaller sets the authenticated identity of the party that invoked the
// operation. It panics if the caller was already set.
func WithCaller(ctx Context, caller Address) Context {
	if _, ok := ctx.Value(contextKeyCaller).(Address); ok {
		panic("caller already set")
	}
	return context.WithValue(ctx, contextKeyCaller, caller)
}

// GetCaller returns the caller identity, if set.
func GetCaller(ctx Context) (Address, bool) {
	a, ok := ctx.Value(contextKeyCaller).(Address)
	if !ok || a.IsNull() {
		return nil, false
	}
	return a, true
}

// WithLogger sets the logger for this Context
func WithLogger(ctx Context, logger log.Logger) Context {
	return context.WithValue(ctx, contextKeyLogger, logger)
}

// WithLogInfo accepts keyvalue pairs, and returns another
// context like this, after passing all the keyvals to the
// Logger
func WithLogInfo(ctx Context, keyvals ...interface{}) Context {
	logger := GetLogger(ctx).With(keyvals...)
	return WithLogger(ctx, logger)
}

// GetLogger returns the currently set logger, or
// DefaultLogger if none was set
func GetLogger(ctx Context) log.Logger {
	val, ok := ctx.Value(contextKeyLogger).(log.Logger)
	if !ok {
		return DefaultLogger
	}
	return val
}

// RequireCaller returns the caller identity or ErrUnauthorized if the
// context does not carry one.
func RequireCaller(ctx Context) (Address, error) {
	caller, ok := GetCaller(ctx)
	if !ok {
		return nil, errors.Wrap(errors.ErrUnauthorized, "caller identity required")
	}
	return caller, nil
}
