package execution

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

const pathExecuteMsg = "execution/execute"

var _ treasury.VaultMsg = (*ExecuteMsg)(nil)

// ExecuteMsg executes an approved proposal.
type ExecuteMsg struct {
	VaultID uint64
	Index   uint64
}

// Path fulfills treasury.Msg interface to allow routing
func (ExecuteMsg) Path() string {
	return pathExecuteMsg
}

func (m *ExecuteMsg) GetVaultID() uint64 {
	return m.VaultID
}

func (m *ExecuteMsg) Validate() error {
	if m.VaultID == 0 {
		return errors.Field("VaultID", errors.ErrEmpty, "required")
	}
	return nil
}
