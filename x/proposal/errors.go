package proposal

import "github.com/iov-one/treasury/errors"

// proposal reserves 1300~1399 error codes
var (
	// ErrInvalidProposal is returned when the requested proposal index
	// is out of range.
	ErrInvalidProposal  = errors.ErrInput.Extend(1300, "invalid proposal")
	ErrSelfTransfer     = errors.ErrInput.Extend(1301, "destination is the caller")
	ErrNullDestination  = errors.ErrInput.Extend(1302, "null destination")
	ErrAlreadyVoted     = errors.ErrState.Extend(1303, "proposal already voted")
	ErrAlreadyExecuted  = errors.ErrState.Extend(1304, "proposal already executed")
	ErrPayloadTooLarge  = errors.ErrInput.Extend(1305, "payload too large")
	ErrInvalidSelection = errors.ErrInput.Extend(1306, "invalid vote selection")
)
