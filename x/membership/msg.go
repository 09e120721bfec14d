package membership

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

const (
	pathAddMembersMsg = "member/add"
	pathChangeRoleMsg = "member/change_role"
	pathSetActiveMsg  = "member/set_active"
)

var _ treasury.VaultMsg = (*AddMembersMsg)(nil)
var _ treasury.VaultMsg = (*ChangeRoleMsg)(nil)
var _ treasury.VaultMsg = (*SetActiveMsg)(nil)

// AddMembersMsg adds users to the roster of a vault.
type AddMembersMsg struct {
	VaultID uint64
	Users   []treasury.Address
}

// Path fulfills treasury.Msg interface to allow routing
func (AddMembersMsg) Path() string {
	return pathAddMembersMsg
}

func (m *AddMembersMsg) GetVaultID() uint64 {
	return m.VaultID
}

// Validate makes sure that this is sensible. Null and repeated identities
// are rejected by the ledger.
func (m *AddMembersMsg) Validate() error {
	var errs error
	if m.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	if len(m.Users) == 0 {
		errs = errors.AppendField(errs, "Users", errors.ErrEmpty)
	}
	for i, u := range m.Users {
		if !u.IsNull() {
			errs = errors.AppendField(errs, fieldIndex("Users", i), u.Validate())
		}
	}
	return errs
}

// ChangeRoleMsg changes the role of an active member.
type ChangeRoleMsg struct {
	VaultID uint64
	Member  treasury.Address
	Role    Role
}

// Path fulfills treasury.Msg interface to allow routing
func (ChangeRoleMsg) Path() string {
	return pathChangeRoleMsg
}

func (m *ChangeRoleMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *ChangeRoleMsg) Validate() error {
	var errs error
	if m.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	errs = errors.AppendField(errs, "Member", validateIdentity(m.Member))
	if m.Role != RoleUser && m.Role != RoleOwner {
		errs = errors.AppendField(errs, "Role", errors.Wrapf(errors.ErrInput, "%s cannot be assigned", m.Role))
	}
	return errs
}

// SetActiveMsg deactivates a member or activates it again.
type SetActiveMsg struct {
	VaultID uint64
	Member  treasury.Address
	Active  bool
}

// Path fulfills treasury.Msg interface to allow routing
func (SetActiveMsg) Path() string {
	return pathSetActiveMsg
}

func (m *SetActiveMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *SetActiveMsg) Validate() error {
	var errs error
	if m.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	return errors.AppendField(errs, "Member", validateIdentity(m.Member))
}

func validateIdentity(a treasury.Address) error {
	if a.IsNull() {
		return errors.ErrEmpty
	}
	return a.Validate()
}
