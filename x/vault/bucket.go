package vault

import (
	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

const (
	bucketName = "vault"
	idSequence = "id"
)

// Bucket is the persistent bucket for vaults.
type Bucket struct {
	orm.ModelBucket
	ids orm.Sequence
}

// NewBucket returns a bucket for managing vaults.
func NewBucket() *Bucket {
	b := orm.NewModelBucket(bucketName, &Vault{})
	return &Bucket{
		ModelBucket: b,
		ids:         b.Sequence(idSequence),
	}
}

// NextID returns the identifier for a new vault. Identifiers are assigned
// monotonically starting at 1 and never reused.
func (b *Bucket) NextID(db treasury.KVStore) (uint64, error) {
	return b.ids.NextInt(db)
}

// LastID returns the most recently assigned vault identifier.
func (b *Bucket) LastID(db treasury.ReadOnlyKVStore) (uint64, error) {
	return b.ids.Latest(db)
}

// GetVault loads the vault with given ID. If it does not exist then
// ErrNotFound is returned.
func (b *Bucket) GetVault(db treasury.ReadOnlyKVStore, vaultID uint64) (*Vault, error) {
	var v Vault
	switch err := b.One(db, Key(vaultID), &v); {
	case err == nil:
		return &v, nil
	case errors.ErrNotFound.Is(err):
		return nil, errors.Field("VaultID", errors.ErrNotFound, "%d", vaultID)
	default:
		return nil, errors.Wrap(err, "cannot load vault")
	}
}

// Save stores the vault under its ID.
func (b *Bucket) Save(db treasury.KVStore, v *Vault) error {
	if err := b.Put(db, v.Key(), v); err != nil {
		return errors.Wrapf(err, "cannot store vault %d", v.ID)
	}
	return nil
}
