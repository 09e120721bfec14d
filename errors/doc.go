/*
Package errors implements custom error interfaces for the treasury engine.

The idea is to reuse as many errors from this package as possible and define
custom package errors when absolutely necessary. Every error returned by the
engine wraps one of the registered root errors. Root errors are grouped into
kinds that a caller can act on:

	authorization       ErrUnauthorized
	state-precondition  ErrState
	validation          ErrInput, ErrDuplicate, ErrEmpty
	resource            ErrInsufficientAmount, ErrOverflow
	concurrency         ErrReentrant
	transfer            ErrTransfer

Extensions declare their own, more specific errors with Extend, for example

	ErrNoOwnersRemaining = errors.ErrState.Extend(1101, "no owners remaining")

and both ErrNoOwnersRemaining.Is(err) and ErrState.Is(err) hold for an
error created from it.

There is also support for stacktraces. Please ensure you create the custom
error using ErrXyz.New("...") or errors.Wrap(err, "...") at the point of
creation to ensure we attach a stacktrace. If you wrap multiple times, we only
record the first wrap with the stacktrace. (And don't do this as a global `var
ErrFoo = errors.ErrState.New("foo")` or you will get a useless stacktrace).

Once you have an error, you can use `fmt.Printf/Sprintf` to get more context
for the error

	%s is just the error message
	%+v is the full stack trace
	%v appends a compressed [filename:line] where the error was created

The offending identifier of an error (vault, proposal index, member) is
attached as a field error. Use Field to create it and FieldErrors to read it
back.
*/
package errors
