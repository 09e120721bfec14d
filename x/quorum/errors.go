package quorum

import "github.com/iov-one/treasury/errors"

// quorum reserves 1400~1499 error codes
var (
	// ErrNoOpVote is returned when a voter repeats its current selection.
	ErrNoOpVote = errors.ErrState.Extend(1400, "vote unchanged")
)
