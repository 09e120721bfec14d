package cash

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
	"github.com/iov-one/treasury/x/execution"
)

const bucketName = "cash"

// Ledger records the value paid out by vaults.
type Ledger struct {
	credits orm.ModelBucket
}

var _ execution.Transferer = (*Ledger)(nil)

// NewLedger returns a cash ledger.
func NewLedger() *Ledger {
	return &Ledger{
		credits: orm.NewModelBucket(bucketName, &Credit{}),
	}
}

// Transfer credits the destination wallet with the amount paid by the
// vault.
func (l *Ledger) Transfer(ctx treasury.Context, db treasury.KVStore, vaultID uint64, destination treasury.Address, amount uint64) error {
	if amount == 0 {
		return errors.Field("Amount", errors.ErrAmount, "must be positive")
	}
	seq := orm.NewSequence(bucketName, string(orm.EncodeSequence(vaultID)))
	n, err := seq.NextInt(db)
	if err != nil {
		return errors.Wrap(err, "credit sequence")
	}
	c := &Credit{
		Destination: destination,
		VaultID:     vaultID,
		Seq:         n,
		Amount:      amount,
	}
	if err := l.credits.Put(db, c.Key(), c); err != nil {
		return errors.Wrapf(err, "cannot credit %s", destination)
	}
	treasury.GetLogger(ctx).Debug("credit",
		"vault", vaultID, "destination", destination, "amount", amount)
	return nil
}

// Balance returns the sum of all credits of a wallet.
func (l *Ledger) Balance(db treasury.ReadOnlyKVStore, wallet treasury.Address) (uint64, error) {
	credits, err := l.Credits(db, wallet)
	if err != nil {
		return 0, err
	}
	var total uint64
	for _, c := range credits {
		if total+c.Amount < total {
			return 0, errors.Wrapf(errors.ErrOverflow, "balance of %s", wallet)
		}
		total += c.Amount
	}
	return total, nil
}

// Credits returns all credits of a wallet, ordered by vault and sequence.
func (l *Ledger) Credits(db treasury.ReadOnlyKVStore, wallet treasury.Address) ([]*Credit, error) {
	if wallet.IsNull() {
		return nil, errors.Wrap(errors.ErrEmpty, "wallet")
	}
	it, err := l.credits.Scan(db, wallet, false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Credit
	for {
		var c Credit
		switch _, err := it.Next(&c); {
		case err == nil:
			res = append(res, &c)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "credit iterator")
		}
	}
}
