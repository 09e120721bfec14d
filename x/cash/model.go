package cash

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

// Credit is a single payment received by a wallet.
type Credit struct {
	Destination treasury.Address
	VaultID     uint64
	Seq         uint64
	Amount      uint64
}

var _ orm.Model = (*Credit)(nil)

func (c *Credit) Marshal() ([]byte, error) {
	return orm.Marshal(c)
}

func (c *Credit) Unmarshal(raw []byte) error {
	return orm.Unmarshal(raw, c)
}

// Validate ensures the credit is valid.
func (c *Credit) Validate() error {
	var errs error
	if c.Destination.IsNull() {
		errs = errors.AppendField(errs, "Destination", errors.ErrEmpty)
	} else {
		errs = errors.AppendField(errs, "Destination", c.Destination.Validate())
	}
	if c.VaultID == 0 {
		errs = errors.AppendField(errs, "VaultID", errors.ErrEmpty)
	}
	if c.Amount == 0 {
		errs = errors.AppendField(errs, "Amount", errors.ErrAmount)
	}
	return errs
}

// Key returns the primary key the credit is stored under.
func (c *Credit) Key() []byte {
	key := make([]byte, 0, len(c.Destination)+16)
	key = append(key, c.Destination...)
	key = append(key, make([]byte, 16)...)
	binary.BigEndian.PutUint64(key[len(c.Destination):], c.VaultID)
	binary.BigEndian.PutUint64(key[len(c.Destination)+8:], c.Seq)
	return key
}
