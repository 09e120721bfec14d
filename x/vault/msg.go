package vault

import (
	"strconv"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

const (
	pathCreateVaultMsg          = "vault/create"
	pathSetRequiredApprovalsMsg = "vault/set_threshold"
	pathSetStatusMsg            = "vault/set_status"
	pathDepositMsg              = "vault/deposit"
)

var _ treasury.Msg = (*CreateVaultMsg)(nil)
var _ treasury.VaultMsg = (*SetRequiredApprovalsMsg)(nil)
var _ treasury.VaultMsg = (*SetStatusMsg)(nil)
var _ treasury.VaultMsg = (*DepositMsg)(nil)

// CreateVaultMsg creates a new vault. The caller becomes its first owner,
// all listed users are added with the User role.
type CreateVaultMsg struct {
	Users []treasury.Address
}

// Path fulfills treasury.Msg interface to allow routing
func (CreateVaultMsg) Path() string {
	return pathCreateVaultMsg
}

// Validate makes sure that this is sensible. Null and repeated identities
// are rejected by the membership ledger.
func (m *CreateVaultMsg) Validate() error {
	var errs error
	for i, u := range m.Users {
		if u.IsNull() {
			continue
		}
		errs = errors.AppendField(errs, fieldIndex("Users", i), u.Validate())
	}
	return errs
}

// SetRequiredApprovalsMsg changes the number of positive votes a proposal
// needs to be executed.
type SetRequiredApprovalsMsg struct {
	VaultID           uint64
	RequiredApprovals uint32
}

// Path fulfills treasury.Msg interface to allow routing
func (SetRequiredApprovalsMsg) Path() string {
	return pathSetRequiredApprovalsMsg
}

func (m *SetRequiredApprovalsMsg) GetVaultID() uint64 {
	return m.VaultID
}

// Validate makes sure that this is sensible. The threshold is validated
// against the roster by the handler.
func (m *SetRequiredApprovalsMsg) Validate() error {
	return validateVaultID(m.VaultID)
}

// SetStatusMsg enables or disables a vault.
type SetStatusMsg struct {
	VaultID uint64
	Active  bool
}

// Path fulfills treasury.Msg interface to allow routing
func (SetStatusMsg) Path() string {
	return pathSetStatusMsg
}

func (m *SetStatusMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *SetStatusMsg) Validate() error {
	return validateVaultID(m.VaultID)
}

// DepositMsg increases the balance of a vault. When ProveMembership is set,
// the caller must hold a roster slot in the vault.
type DepositMsg struct {
	VaultID         uint64
	Amount          uint64
	ProveMembership bool
}

// Path fulfills treasury.Msg interface to allow routing
func (DepositMsg) Path() string {
	return pathDepositMsg
}

func (m *DepositMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *DepositMsg) Validate() error {
	if err := validateVaultID(m.VaultID); err != nil {
		return err
	}
	if m.Amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	return nil
}

func validateVaultID(id uint64) error {
	if id == 0 {
		return errors.Field("VaultID", errors.ErrEmpty, "required")
	}
	return nil
}

func fieldIndex(name string, i int) string {
	return name + "." + strconv.Itoa(i)
}
