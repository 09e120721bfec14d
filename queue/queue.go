package queue

import (
	"encoding/binary"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/orm"
)

const entryPrefix = "_ob:"

// Entry is an event waiting for delivery, together with the key that
// identifies it in the outbox.
type Entry struct {
	Key   []byte
	Event treasury.Event
}

// Put queues the events in the outbox. Events are ordered per vault, in the
// order they were put. Each vault is using its own counter so that writes for
// different vaults never touch the same key.
func Put(db treasury.KVStore, events ...treasury.Event) error {
	for _, e := range events {
		raw, err := e.Marshal()
		if err != nil {
			return errors.Wrap(err, "marshal event")
		}
		seq := vaultSequence(e.VaultID)
		n, err := seq.NextInt(db)
		if err != nil {
			return errors.Wrap(err, "outbox sequence")
		}
		if err := db.Set(entryKey(e.VaultID, n), raw); err != nil {
			return errors.Wrap(err, "cannot update outbox")
		}
	}
	return nil
}

// Pending returns up to limit queued entries, ordered by vault and then by
// the order in which they were put. A limit of zero or less returns all of
// them.
func Pending(db treasury.ReadOnlyKVStore, limit int) ([]Entry, error) {
	start, end := orm.PrefixRange([]byte(entryPrefix))
	return collect(db, start, end, limit)
}

// PendingFor returns all queued entries of a single vault.
func PendingFor(db treasury.ReadOnlyKVStore, vaultID uint64) ([]Entry, error) {
	prefix := make([]byte, 0, len(entryPrefix)+8)
	prefix = append(prefix, entryPrefix...)
	prefix = append(prefix, orm.EncodeSequence(vaultID)...)
	start, end := orm.PrefixRange(prefix)
	return collect(db, start, end, 0)
}

func collect(db treasury.ReadOnlyKVStore, start, end []byte, limit int) ([]Entry, error) {
	it, err := db.Iterator(start, end)
	if err != nil {
		return nil, errors.Wrap(err, "outbox iterator")
	}
	defer it.Release()

	var res []Entry
	for limit <= 0 || len(res) < limit {
		key, value, err := it.Next()
		switch {
		case err == nil:
		case errors.ErrIteratorDone.Is(err):
			return res, nil
		default:
			return nil, errors.Wrap(err, "outbox iterator")
		}
		var e treasury.Event
		if err := e.Unmarshal(value); err != nil {
			return nil, errors.Wrapf(err, "outbox entry %X", key)
		}
		res = append(res, Entry{Key: append([]byte(nil), key...), Event: e})
	}
	return res, nil
}

// Ack removes delivered entries from the outbox.
func Ack(db treasury.KVStore, entries ...Entry) error {
	for _, e := range entries {
		if !isEntryKey(e.Key) {
			return errors.Wrapf(errors.ErrInput, "not an outbox key: %X", e.Key)
		}
		if err := db.Delete(e.Key); err != nil {
			return errors.Wrap(err, "cannot update outbox")
		}
	}
	return nil
}

func vaultSequence(vaultID uint64) orm.Sequence {
	return orm.NewSequence("outbox", string(orm.EncodeSequence(vaultID)))
}

func entryKey(vaultID, n uint64) []byte {
	key := make([]byte, len(entryPrefix)+16)
	copy(key, entryPrefix)
	binary.BigEndian.PutUint64(key[len(entryPrefix):], vaultID)
	binary.BigEndian.PutUint64(key[len(entryPrefix)+8:], n)
	return key
}

func isEntryKey(key []byte) bool {
	return len(key) == len(entryPrefix)+16 && string(key[:len(entryPrefix)]) == entryPrefix
}
