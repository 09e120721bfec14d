package membership

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

const (
	bucketName = "member"

	indexSeat     = "seat"
	indexIdentity = "identity"
)

// Bucket is the persistent bucket for roster members.
type Bucket struct {
	orm.ModelBucket
}

// NewBucket returns a bucket for managing members.
func NewBucket() *Bucket {
	b := orm.NewModelBucket(bucketName, &Member{},
		orm.WithIndex(indexSeat, seatIndexer, true),
		orm.WithIndex(indexIdentity, identityIndexer, false),
	)
	return &Bucket{ModelBucket: b}
}

func seatIndexer(obj orm.Model) ([][]byte, error) {
	m, err := asMember(obj)
	if err != nil {
		return nil, err
	}
	return [][]byte{seatKey(m.VaultID, m.Identity)}, nil
}

func identityIndexer(obj orm.Model) ([][]byte, error) {
	m, err := asMember(obj)
	if err != nil {
		return nil, err
	}
	return [][]byte{m.Identity}, nil
}

func asMember(obj orm.Model) (*Member, error) {
	m, ok := obj.(*Member)
	if !ok {
		return nil, errors.Wrapf(errors.ErrModel, "invalid type: %T", obj)
	}
	return m, nil
}

// Save stores the member and updates all indexes.
func (b *Bucket) Save(db treasury.KVStore, m *Member) error {
	if err := b.Put(db, m.Key(), m); err != nil {
		return errors.Wrapf(err, "cannot store member %s", m.Identity)
	}
	return nil
}

// BySeat returns the member of the vault with given identity. If there is
// no such member then ErrNotFound is returned.
func (b *Bucket) BySeat(db treasury.ReadOnlyKVStore, vaultID uint64, identity treasury.Address) (*Member, error) {
	keys, err := b.ByIndex(db, indexSeat, seatKey(vaultID, identity))
	if err != nil {
		return nil, errors.Wrap(err, "seat index")
	}
	if len(keys) == 0 {
		return nil, errors.Field("Identity", errors.ErrNotFound, "%s", identity)
	}
	var m Member
	if err := b.One(db, keys[0], &m); err != nil {
		return nil, errors.Wrap(err, "cannot load member")
	}
	return &m, nil
}

// Roster returns all members of a vault, ordered by slot.
func (b *Bucket) Roster(db treasury.ReadOnlyKVStore, vaultID uint64) ([]*Member, error) {
	it, err := b.Scan(db, orm.EncodeSequence(vaultID), false)
	if err != nil {
		return nil, err
	}
	defer it.Release()

	var res []*Member
	for {
		var m Member
		switch _, err := it.Next(&m); {
		case err == nil:
			res = append(res, &m)
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "roster iterator")
		}
	}
}

// VaultIDs returns the IDs of all vaults the identity holds a slot in,
// ordered by vault ID.
func (b *Bucket) VaultIDs(db treasury.ReadOnlyKVStore, identity treasury.Address) ([]uint64, error) {
	keys, err := b.ByIndex(db, indexIdentity, identity)
	if err != nil {
		return nil, errors.Wrap(err, "identity index")
	}
	ids := make([]uint64, 0, len(keys))
	for _, k := range keys {
		if len(k) != 12 {
			return nil, errors.Wrapf(errors.ErrDatabase, "malformed member key %X", k)
		}
		ids = append(ids, binary.BigEndian.Uint64(k[:8]))
	}
	return ids, nil
}
