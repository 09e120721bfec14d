package vault

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Status of a vault. Only active vaults accept mutations.
type Status int32

const (
	StatusActive   Status = 1
	StatusInactive Status = 2
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "active"
	case StatusInactive:
		return "inactive"
	default:
		return "unknown"
	}
}

// Vault is the registry entry of a treasury.
type Vault struct {
	ID      uint64
	Creator treasury.Address
	// MemberCount is the number of roster slots, including inactive
	// members.
	MemberCount       uint32
	RequiredApprovals uint32
	Balance           uint64
	Status            Status
	// ProposalCount is the index the next proposal is created with.
	ProposalCount uint64
}

var _ orm.Model = (*Vault)(nil)

func (v *Vault) Marshal() ([]byte, error) {
	return orm.Marshal(v)
}

func (v *Vault) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, v)
}

// Validate ensures the vault is valid.
func (v *Vault) Validate() error {
	var errs error
	if v.ID == 0 {
		errs = errors.AppendField(errs, "ID", errors.ErrEmpty)
	}
	if err := v.Creator.Validate(); err != nil {
		errs = errors.AppendField(errs, "Creator", err)
	}
	if v.MemberCount == 0 {
		errs = errors.AppendField(errs, "MemberCount", errors.ErrEmpty)
	}
	if v.RequiredApprovals == 0 {
		errs = errors.AppendField(errs, "RequiredApprovals", ErrThresholdZero)
	}
	if v.Status != StatusActive && v.Status != StatusInactive {
		errs = errors.AppendField(errs, "Status", errors.Wrapf(errors.ErrState, "unknown status %d", v.Status))
	}
	return errs
}

// IsActive returns true if the vault accepts mutations.
func (v *Vault) IsActive() bool {
	return v.Status == StatusActive
}

// RequireActive returns ErrVaultInactive if the vault does not accept
// mutations.
func (v *Vault) RequireActive() error {
	if !v.IsActive() {
		return errors.Field("VaultID", ErrVaultInactive, "%d", v.ID)
	}
	return nil
}

// Key returns the primary key the vault is stored under.
func (v *Vault) Key() []byte {
	return Key(v.ID)
}

// Key returns the primary key of the vault with given ID.
func Key(vaultID uint64) []byte {
	return orm.EncodeSequence(vaultID)
}
