package membership

import "github.com/iov-one/treasury/errors"

// membership reserves 1100~1199 error codes
var (
	// ErrDuplicateMember is returned when an identity is listed twice or
	// is a null identity.
	ErrDuplicateMember = errors.ErrDuplicate.Extend(1100, "duplicate member")
	// ErrSelfReference is returned when the vault creator is listed among
	// the initial users.
	ErrSelfReference       = errors.ErrInput.Extend(1101, "creator listed as user")
	ErrMemberAlreadyExists = errors.ErrDuplicate.Extend(1102, "member already exists")
	ErrMemberInactive      = errors.ErrState.Extend(1103, "member inactive")
	ErrAlreadyInState      = errors.ErrState.Extend(1104, "member already in state")
	// ErrNoOwnersRemaining is returned when a change would leave a vault
	// without an owner.
	ErrNoOwnersRemaining = errors.ErrState.Extend(1105, "no owners remaining")
	ErrRosterFull        = errors.ErrInput.Extend(1106, "roster is full")
)
