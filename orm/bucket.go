package orm

import (
	"fmt"
	"reflect"
	"regexp"

	"github.com/iov-one/treasury"
	"github.com/iov-one/treasury/errors"
)

var (
	isBucketName = regexp.MustCompile(`^[a-z_]{3,10}$`).MatchString
)

// Model is implemented by any entity that can be stored using ModelBucket.
type Model interface {
	treasury.Persistent
	Validate() error
}

// ModelBucket is a prefixed subspace of the database that stores models of
// a single type, together with their secondary indexes.
type ModelBucket interface {
	// One query the database for a single model instance. Lookup is done
	// by the primary index key. Result is loaded into given destination
	// model.
	// This method returns ErrNotFound if the entity does not exist in the
	// database.
	// If given model type cannot be used to contain stored entity, ErrType
	// is returned.
	One(db treasury.ReadOnlyKVStore, key []byte, dest Model) error

	// Has returns true if an entity with given primary key exists.
	Has(db treasury.ReadOnlyKVStore, key []byte) (bool, error)

	// Put saves given model in the database. All indexes are updated.
	Put(db treasury.KVStore, key []byte, m Model) error

	// Delete removes an entity with given primary key from the database.
	// It returns ErrNotFound if an entity with given key does not exist.
	Delete(db treasury.KVStore, key []byte) error

	// ByIndex returns primary keys of all entities that were indexed
	// under given value by the named index.
	ByIndex(db treasury.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error)

	// Scan returns an iterator over all entities which primary key starts
	// with given prefix, ordered by the key.
	Scan(db treasury.ReadOnlyKVStore, prefix []byte, reverse bool) (*ModelIterator, error)

	// Sequence returns a Sequence by name, scoped to this bucket.
	Sequence(name string) Sequence
}

// BucketOption configures a bucket.
type BucketOption func(*modelBucket)

// WithIndex configures the bucket to build an index with given name. All
// entities are indexed using the provided indexer function. An indexer may
// return many values for a single entity, or none. A unique index rejects a
// value already indexed for another entity with ErrDuplicate.
func WithIndex(name string, indexer Indexer, unique bool) BucketOption {
	return func(b *modelBucket) {
		if _, ok := b.indexes[name]; ok {
			panic(fmt.Sprintf("index %q registered twice", name))
		}
		b.indexes[name] = newNativeIndex(b.name+"_"+name, indexer, unique)
	}
}

// NewModelBucket returns a ModelBucket instance storing models of the same
// type as given prototype. It panics on an invalid bucket name.
func NewModelBucket(name string, proto Model, opts ...BucketOption) ModelBucket {
	if !isBucketName(name) {
		panic(fmt.Sprintf("illegal bucket: %s", name))
	}
	if reflect.TypeOf(proto).Kind() != reflect.Ptr {
		panic("model prototype must be a pointer")
	}

	b := &modelBucket{
		name:    name,
		prefix:  append([]byte(name), ':'),
		proto:   reflect.TypeOf(proto).Elem(),
		indexes: make(map[string]*nativeIndex),
	}
	for _, fn := range opts {
		fn(b)
	}
	return b
}

type modelBucket struct {
	name    string
	prefix  []byte
	proto   reflect.Type
	indexes map[string]*nativeIndex
}

var _ ModelBucket = (*modelBucket)(nil)

// dbKey is the full key we store in the db, including prefix
// We copy into a new array rather than use append, as we don't
// want consecutive calls to overwrite the same byte array.
func (b *modelBucket) dbKey(key []byte) []byte {
	l := len(b.prefix)
	out := make([]byte, l+len(key))
	copy(out, b.prefix)
	copy(out[l:], key)
	return out
}

func (b *modelBucket) newModel() Model {
	return reflect.New(b.proto).Interface().(Model)
}

func (b *modelBucket) One(db treasury.ReadOnlyKVStore, key []byte, dest Model) error {
	if reflect.TypeOf(dest) != reflect.PtrTo(b.proto) {
		return errors.Wrapf(errors.ErrType, "%s cannot be represented as %T", b.proto, dest)
	}
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return errors.Wrap(err, "db get")
	}
	if raw == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", b.proto.Name())
	}
	return dest.Unmarshal(raw)
}

func (b *modelBucket) Has(db treasury.ReadOnlyKVStore, key []byte) (bool, error) {
	return db.Has(b.dbKey(key))
}

func (b *modelBucket) Put(db treasury.KVStore, key []byte, m Model) error {
	if len(key) == 0 {
		return errors.Wrap(errors.ErrEmpty, "key")
	}
	if reflect.TypeOf(m) != reflect.PtrTo(b.proto) {
		return errors.Wrapf(errors.ErrType, "cannot store %T in %s bucket", m, b.name)
	}
	if err := m.Validate(); err != nil {
		return errors.Wrap(err, "invalid model")
	}
	raw, err := m.Marshal()
	if err != nil {
		return errors.Wrap(err, "marshal")
	}

	if len(b.indexes) > 0 {
		prev, err := b.load(db, key)
		if err != nil {
			return err
		}
		for _, idx := range b.indexes {
			if err := idx.Update(db, key, prev, m); err != nil {
				return errors.Wrapf(err, "index %s", idx.name)
			}
		}
	}

	if err := db.Set(b.dbKey(key), raw); err != nil {
		return errors.Wrap(err, "cannot store in the database")
	}
	return nil
}

func (b *modelBucket) Delete(db treasury.KVStore, key []byte) error {
	prev, err := b.load(db, key)
	if err != nil {
		return err
	}
	if prev == nil {
		return errors.Wrapf(errors.ErrNotFound, "%s not in the store", b.proto.Name())
	}
	for _, idx := range b.indexes {
		if err := idx.Update(db, key, prev, nil); err != nil {
			return errors.Wrapf(err, "index %s", idx.name)
		}
	}
	return db.Delete(b.dbKey(key))
}

// load returns the stored model or nil if it does not exist.
func (b *modelBucket) load(db treasury.ReadOnlyKVStore, key []byte) (Model, error) {
	raw, err := db.Get(b.dbKey(key))
	if err != nil {
		return nil, errors.Wrap(err, "db get")
	}
	if raw == nil {
		return nil, nil
	}
	m := b.newModel()
	if err := m.Unmarshal(raw); err != nil {
		return nil, err
	}
	return m, nil
}

func (b *modelBucket) ByIndex(db treasury.ReadOnlyKVStore, indexName string, value []byte) ([][]byte, error) {
	idx, ok := b.indexes[indexName]
	if !ok {
		return nil, errors.Wrapf(ErrInvalidIndex, "unknown index %q", indexName)
	}
	return idx.Keys(db, value)
}

func (b *modelBucket) Scan(db treasury.ReadOnlyKVStore, prefix []byte, reverse bool) (*ModelIterator, error) {
	start, end := PrefixRange(b.dbKey(prefix))
	var (
		it  treasury.Iterator
		err error
	)
	if reverse {
		it, err = db.ReverseIterator(start, end)
	} else {
		it, err = db.Iterator(start, end)
	}
	if err != nil {
		return nil, errors.Wrap(err, "db iterator")
	}
	return &ModelIterator{it: it, prefixLen: len(b.prefix)}, nil
}

func (b *modelBucket) Sequence(name string) Sequence {
	return NewSequence(b.name, name)
}

// ModelIterator returns models stored in a bucket, one at a time.
type ModelIterator struct {
	it        treasury.Iterator
	prefixLen int
}

// Next loads the next model into dest and returns its primary key. When all
// models were read, errors.ErrIteratorDone is returned.
func (m *ModelIterator) Next(dest Model) ([]byte, error) {
	key, value, err := m.it.Next()
	if err != nil {
		return nil, err
	}
	if err := dest.Unmarshal(value); err != nil {
		return nil, errors.Wrapf(err, "key %X", key)
	}
	return key[m.prefixLen:], nil
}

// Release releases the underlying database iterator.
func (m *ModelIterator) Release() {
	m.it.Release()
}

// PrefixRange turns a prefix into a (start, end) range. The end is the
// smallest key greater than all keys with the prefix, or nil when no such key
// exists.
func PrefixRange(prefix []byte) ([]byte, []byte) {
	if prefix == nil {
		return nil, nil
	}
	start := append([]byte(nil), prefix...)
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xFF {
			end[i]++
			return start, end[:i+1]
		}
	}
	return start, nil
}
