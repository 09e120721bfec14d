package execution

import "github.com/iov-one/treasury/errors"

// execution reserves 1500~1599 error codes
var (
	ErrQuorumNotMet      = errors.ErrState.Extend(1500, "quorum not met")
	ErrInsufficientFunds = errors.ErrInsufficientAmount.Extend(1501, "insufficient funds")
	// ErrTransferFailed is returned when the transferer rejected the
	// value move. No state change is kept.
	ErrTransferFailed = errors.ErrTransfer.Extend(1502, "transfer failed")
)
