package quorum

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/x/proposal"
)

const pathCastVoteMsg = "quorum/vote"

var _ treasury.VaultMsg = (*CastVoteMsg)(nil)

// CastVoteMsg records the selection of the caller on a proposal.
type CastVoteMsg struct {
	VaultID   uint64
	Index     uint64
	Selection proposal.Selection
}

// Path fulfills treasury.Msg interface to allow routing
func (CastVoteMsg) Path() string {
	return pathCastVoteMsg
}

func (m *CastVoteMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *CastVoteMsg) Validate() error {
	var errs error
	if m.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	return errors.AppendField(errs, "Selection", m.Selection.Validate())
}
