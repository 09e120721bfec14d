package membership

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Role of a member within a vault.
type Role int32

const (
	// RoleInactive members cannot act.
	RoleInactive Role = 0
	// RoleUser members can create proposals and read.
	RoleUser Role = 1
	// RoleOwner members can authorize governance actions.
	RoleOwner Role = 2
)

func (r Role) String() string {
	switch r {
	case RoleInactive:
		return "inactive"
	case RoleUser:
		return "user"
	case RoleOwner:
		return "owner"
	default:
		return "unknown"
	}
}

// Validate returns an error if this is not a known role.
func (r Role) Validate() error {
	switch r {
	case RoleInactive, RoleUser, RoleOwner:
		return nil
	}
	return errors.Wrapf(errors.ErrInput, "unknown role %d", r)
}

// Satisfies returns true if a member holding this role can act where the
// required role is expected. An owner satisfies the user role, an inactive
// member satisfies nothing.
func (r Role) Satisfies(required Role) bool {
	if r == RoleInactive || required == RoleInactive {
		return false
	}
	return r >= required
}

// Member is a single roster slot of a vault.
type Member struct {
	VaultID  uint64
	Slot     uint32
	Identity treasury.Address
	Role     Role
	// PriorRole is the role held before the member was deactivated. It
	// is restored on activation.
	PriorRole Role
}

var _ orm.Model = (*Member)(nil)

func (m *Member) Marshal() ([]byte, error) {
	return orm.Marshal(m)
}

func (m *Member) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, m)
}

// Validate ensures the member is valid.
func (m *Member) Validate() error {
	var errs error
	if m.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	if err := m.Identity.Validate(); err != nil {
		errs = errors.AppendField(errs, "Identity", err)
	} else if m.Identity.IsNull() {
		errs = errors.AppendField(errs, "Identity", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Role", m.Role.Validate())
	errs = errors.AppendField(errs, "PriorRole", m.PriorRole.Validate())
	return errs
}

// IsActive returns true unless the member was deactivated.
func (m *Member) IsActive() bool {
	return m.Role != RoleInactive
}

// Key returns the primary key the member is stored under.
func (m *Member) Key() []byte {
	return memberKey(m.VaultID, m.Slot)
}

// memberKey is the vault ID followed by the slot, both big endian so that
// the members of a vault are ordered by their slot.
func memberKey(vaultID uint64, slot uint32) []byte {
	key := make([]byte, 12)
	binary.BigEndian.PutUint64(key, vaultID)
	binary.BigEndian.PutUint32(key[8:], slot)
	return key
}

// seatKey identifies a member of a vault by its identity.
func seatKey(vaultID uint64, identity treasury.Address) []byte {
	key := make([]byte, 8, 8+len(identity))
	binary.BigEndian.PutUint64(key, vaultID)
	return append(key, identity...)
}
