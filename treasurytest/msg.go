package treasurytest

import "github.com/iov-one/treasury"

// Msg is a mock message. VaultID is returned by GetVaultID, so the message
// is handled as a vault scoped one.
type Msg struct {
	RoutePath string
	VaultID   uint64
	Err       error
}

var _ treasury.VaultMsg = (*Msg)(nil)

func (m *Msg) Path() string {
	return m.RoutePath
}

func (m *Msg) Validate() error {
	return m.Err
}

func (m *Msg) GetVaultID() uint64 {
	return m.VaultID
}
