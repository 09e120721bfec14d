package engine

import "github.com/iov-one/treasury/errors"

// engine reserves 1700~1799 error codes
var (
	// ErrReentrantCall is returned when a mutation is requested from
	// within another mutation, or while an execution on the same vault
	// is in progress.
	ErrReentrantCall = errors.ErrReentrant.Extend(1700, "reentrant call")
)
