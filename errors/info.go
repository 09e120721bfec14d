package errors

import (
	"errors"
	"fmt"
)

const (
	// SuccessCode signals that the processing was successful and no error
	// is returned.
	SuccessCode = 0

	// All unclassified errors that do not wrap a registered error are
	// clubbed under an internal error code and a generic message instead of
	// detailed error string.
	internalCode uint32 = 1
	internalLog         = "internal error"
)

// Info returns the error information as consumed by an external caller.
// Returned code and log message should be used as a response. Any error that
// does not wrap a registered error is categorized as error with code 1.
// When not running in a debug mode all messages of internal errors are
// replaced with generic "internal error".
func Info(err error, debug bool) (uint32, string) {
	if isNilErr(err) {
		return SuccessCode, ""
	}

	// Only non-internal errors information can be exposed. Any error that
	// does not explicitly expose its state by wrapping a registered error
	// must be silenced.
	if code := Code(err); code != internalCode && !ErrPanic.Is(err) {
		if debug {
			// Try to trigger full information formatting. This
			// might produce a stacktrace.
			return code, fmt.Sprintf("%+v", err)
		}
		return code, err.Error()
	}

	if debug {
		return Code(err), fmt.Sprintf("%+v", err)
	}
	return Code(err), internalLog
}

// Code returns the code of the registered error wrapped by given error. The
// most specific error code is returned, so an error created from an
// extension error returns the extension code and not the code of its kind.
func Code(err error) uint32 {
	if isNilErr(err) {
		return SuccessCode
	}
	if root := rootOf(err); root != nil {
		return root.code
	}
	return internalCode
}

// Redact replace all errors that do not initialize with a registered error
// with a generic internal error instance. This function is supposed to hide
// implementation details errors and leave only those that the engine
// originates.
//
// This is a no-operation function when running in debug mode.
func Redact(err error, debug bool) error {
	if debug {
		return err
	}
	if ErrPanic.Is(err) {
		return errors.New(internalLog)
	}
	if Code(err) == internalCode {
		return errors.New(internalLog)
	}
	return err
}
