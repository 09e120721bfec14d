package utils

import (
	"time"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

// Logging is a decorator to log messages as they pass through
type Logging struct{}

var _ treasury.Decorator = Logging{}

// NewLogging creates a Logging decorator
func NewLogging() Logging {
	return Logging{}
}

// Deliver logs success -> debug, rejection -> info, panic and failed
// transfer -> error.
func (r Logging) Deliver(ctx treasury.Context, store treasury.KVStore, msg treasury.Msg, next treasury.Handler) (*treasury.Result, error) {
	start := time.Now()
	res, err := next.Deliver(ctx, store, msg)
	logDuration(ctx, start, msg.Path(), err)
	return res, err
}

// logDuration writes information about the time and result to the logger
func logDuration(ctx treasury.Context, start time.Time, path string, err error) {
	delta := time.Now().Sub(start)
	logger := treasury.GetLogger(ctx).With("duration", delta/time.Microsecond)

	switch {
	case err == nil:
		logger.Debug(path)
	case errors.ErrPanic.Is(err), errors.ErrTransfer.Is(err), errors.ErrDatabase.Is(err):
		logger.Error(path, "err", err, "code", errors.Code(err))
	default:
		logger.Info(path, "err", err, "code", errors.Code(err))
	}
}
