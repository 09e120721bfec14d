package proposal

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

const (
	pathCreateProposalMsg = "proposal/create"
	pathEditProposalMsg   = "proposal/edit"
)

var _ treasury.VaultMsg = (*CreateProposalMsg)(nil)
var _ treasury.VaultMsg = (*EditProposalMsg)(nil)

// CreateProposalMsg requests a transfer of Amount from the vault to the
// Destination.
type CreateProposalMsg struct {
	VaultID     uint64
	Destination treasury.Address
	Amount      uint64
	Payload     []byte
}

// Path fulfills treasury.Msg interface to allow routing
func (CreateProposalMsg) Path() string {
	return pathCreateProposalMsg
}

func (m *CreateProposalMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *CreateProposalMsg) Validate() error {
	return validateTransfer(m.VaultID, m.Destination, m.Amount)
}

// EditProposalMsg overwrites a proposal that was not voted on yet.
type EditProposalMsg struct {
	VaultID     uint64
	Index       uint64
	Destination treasury.Address
	Amount      uint64
	Payload     []byte
}

// Path fulfills treasury.Msg interface to allow routing
func (EditProposalMsg) Path() string {
	return pathEditProposalMsg
}

func (m *EditProposalMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *EditProposalMsg) Validate() error {
	return validateTransfer(m.VaultID, m.Destination, m.Amount)
}

func validateTransfer(vaultID uint64, destination treasury.Address, amount uint64) error {
	var errs error
	if vaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	if destination.IsNull() {
		errs = errors.AppendField(errs, "Destination", ErrNullDestination)
	} else {
		errs = errors.AppendField(errs, "Destination", destination.Validate())
	}
	if amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}
