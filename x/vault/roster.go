package vault

import "github.com/iov-one/treasury"

// Roster is the part of the membership ledger the registry depends on.
type Roster interface {
	// CreateRoster stores the initial roster of a new vault, with the
	// creator as the owner and all users with the User role. It returns
	// the number of created members.
	CreateRoster(db treasury.KVStore, vaultID uint64, creator treasury.Address, users []treasury.Address) (uint32, error)

	// RequireOwner returns an ErrUnauthorized error unless the identity
	// is an owner of the vault.
	RequireOwner(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) error

	// RequireSlot returns ErrNotAMember unless the identity holds a
	// roster slot in the vault, regardless of its role.
	RequireSlot(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) error

	// OwnerCount returns the number of members with the Owner role.
	OwnerCount(db treasury.ReadOnlyKVStore, vaultID uint64) (uint32, error)
}
