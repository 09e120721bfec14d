package vault

import "github.com/iov-one/treasury/errors"

// vault reserves 1200~1299 error codes
var (
	// ErrVaultInactive is returned when a mutation is requested on a
	// vault that was disabled.
	ErrVaultInactive    = errors.ErrState.Extend(1200, "vault inactive")
	ErrThresholdZero    = errors.ErrInput.Extend(1201, "required approvals must be at least one")
	ErrThresholdTooHigh = errors.ErrInput.Extend(1202, "required approvals exceed owner count")
	ErrAlreadyActive    = errors.ErrState.Extend(1203, "vault already active")
	ErrAlreadyInactive  = errors.ErrState.Extend(1204, "vault already inactive")
	// ErrNotAMember is returned when an identity does not hold a roster
	// slot in the vault.
	ErrNotAMember = errors.ErrUnauthorized.Extend(1205, "not a member")
)
