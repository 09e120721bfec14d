package store

import (
	"sync"

	"github.com/google/btree"
	"github.com/iov-one/treasury/errors"
)

// MemStore returns an in memory store that is safe for concurrent use.
// There is no persistence here. Iterators read a snapshot of the requested
// range, so writes to the store do not affect an open iterator.
func MemStore() CacheableKVStore {
	return &memDB{
		bt: btree.New(2),
	}
}

type memDB struct {
	mu sync.RWMutex
	bt *btree.BTree
}

var (
	_ CacheableKVStore = (*memDB)(nil)
	_ Batcher          = (*memDB)(nil)
)

func (db *memDB) Get(key []byte) ([]byte, error) {
	if key == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil key")
	}
	db.mu.RLock()
	defer db.mu.RUnlock()

	if res := db.bt.Get(bkey{key}); res != nil {
		return res.(setItem).value, nil
	}
	return nil, nil
}

func (db *memDB) Has(key []byte) (bool, error) {
	if key == nil {
		return false, errors.Wrap(errors.ErrInput, "nil key")
	}
	db.mu.RLock()
	defer db.mu.RUnlock()
	return db.bt.Has(bkey{key}), nil
}

func (db *memDB) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.bt.ReplaceOrInsert(newSetItem(key, value))
	return nil
}

func (db *memDB) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	db.mu.Lock()
	defer db.mu.Unlock()
	db.bt.Delete(bkey{key})
	return nil
}

func (db *memDB) Iterator(start, end []byte) (Iterator, error) {
	return NewSliceIterator(db.snapshot(start, end)), nil
}

func (db *memDB) ReverseIterator(start, end []byte) (Iterator, error) {
	models := db.snapshot(start, end)
	for i, j := 0, len(models)-1; i < j; i, j = i+1, j-1 {
		models[i], models[j] = models[j], models[i]
	}
	return NewSliceIterator(models), nil
}

func (db *memDB) snapshot(start, end []byte) []Model {
	db.mu.RLock()
	defer db.mu.RUnlock()

	items := itemsInRange(db.bt, start, end)
	models := make([]Model, len(items))
	for i, it := range items {
		set := it.(setItem)
		models[i] = Pair(set.key, set.value)
	}
	return models
}

// CacheWrap returns a BTreeCacheWrap that can be later
// written to this store, or rolled back
func (db *memDB) CacheWrap() KVCacheWrap {
	return NewBTreeCacheWrap(db, nil)
}

// NewBatch returns a batch that applies all operations while holding the
// store lock, so that readers never observe a partial write.
func (db *memDB) NewBatch() Batch {
	return &memBatch{db: db}
}

type memBatch struct {
	db  *memDB
	ops []Op
}

func (b *memBatch) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	b.ops = append(b.ops, SetOp(key, value))
	return nil
}

func (b *memBatch) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	b.ops = append(b.ops, DelOp(key))
	return nil
}

func (b *memBatch) Write() error {
	b.db.mu.Lock()
	defer b.db.mu.Unlock()

	for _, op := range b.ops {
		switch op.kind {
		case setKind:
			b.db.bt.ReplaceOrInsert(newSetItem(op.key, op.value))
		case delKind:
			b.db.bt.Delete(bkey{op.key})
		default:
			return errors.Wrapf(errors.ErrDatabase, "unknown kind: %d", op.kind)
		}
	}
	b.ops = nil
	return nil
}
