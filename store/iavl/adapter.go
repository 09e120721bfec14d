package iavl

import (
	"sync"

	"github.com/iov-one/treasury/errors"
	"github.com/iov-one/treasury/store"
	"github.com/tendermint/iavl"
	dbm "github.com/tendermint/tendermint/libs/db"
)

const cacheSize = 10000

// CommitStore manages a iavl committed state. It is safe for concurrent use,
// all access to the tree is serialized by the store lock.
type CommitStore struct {
	mu   sync.RWMutex
	tree *iavl.MutableTree
	db   dbm.DB
}

var (
	_ store.CommitKVStore = (*CommitStore)(nil)
	_ store.Batcher       = (*CommitStore)(nil)
)

// NewCommitStore creates a new store with disk backing. The latest
// persisted version is loaded.
func NewCommitStore(dir, name string) (*CommitStore, error) {
	db := dbm.NewDB(name, dbm.GoLevelDBBackend, dir)
	return newCommitStore(db)
}

// NewMemCommitStore creates a new store that keeps all versions in memory.
func NewMemCommitStore() (*CommitStore, error) {
	return newCommitStore(dbm.NewMemDB())
}

func newCommitStore(db dbm.DB) (*CommitStore, error) {
	s := &CommitStore{
		tree: iavl.NewMutableTree(db, cacheSize),
		db:   db,
	}
	if err := s.LoadLatestVersion(); err != nil {
		return nil, err
	}
	return s, nil
}

// Get returns the value at the working state
// returns nil iff key doesn't exist.
func (s *CommitStore) Get(key []byte) ([]byte, error) {
	if key == nil {
		return nil, errors.Wrap(errors.ErrInput, "nil key")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, val := s.tree.Get(key)
	return val, nil
}

// Has checks if a key exists.
func (s *CommitStore) Has(key []byte) (bool, error) {
	if key == nil {
		return false, errors.Wrap(errors.ErrInput, "nil key")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.tree.Has(key), nil
}

// Set adds a new value
func (s *CommitStore) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Set(key, value)
	return nil
}

// Delete removes from the tree
func (s *CommitStore) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tree.Remove(key)
	return nil
}

// Iterator over a domain of keys in ascending order. End is exclusive.
// The returned iterator works on a snapshot of the range.
func (s *CommitStore) Iterator(start, end []byte) (store.Iterator, error) {
	return store.NewSliceIterator(s.collect(start, end, true)), nil
}

// ReverseIterator over a domain of keys in descending order. End is exclusive.
// The returned iterator works on a snapshot of the range.
func (s *CommitStore) ReverseIterator(start, end []byte) (store.Iterator, error) {
	return store.NewSliceIterator(s.collect(start, end, false)), nil
}

func (s *CommitStore) collect(start, end []byte, ascending bool) []store.Model {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var res []store.Model
	add := func(key []byte, value []byte) bool {
		res = append(res, store.Pair(key, value))
		return false
	}
	s.tree.IterateRange(start, end, ascending, add)
	return res
}

// CacheWrap gives us a savepoint to perform actions
func (s *CommitStore) CacheWrap() store.KVCacheWrap {
	return store.NewBTreeCacheWrap(s, nil)
}

// NewBatch returns a batch that applies all writes while holding the
// store lock.
func (s *CommitStore) NewBatch() store.Batch {
	return &batch{s: s}
}

// Commit the next version to disk, and returns info
func (s *CommitStore) Commit() (store.CommitID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	hash, version, err := s.tree.SaveVersion()
	if err != nil {
		return store.CommitID{}, errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return store.CommitID{
		Version: version,
		Hash:    hash,
	}, nil
}

// LoadLatestVersion loads the latest persisted version.
// If there was a crash during the last commit, it is guaranteed
// to return a stable state, even if older.
func (s *CommitStore) LoadLatestVersion() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.tree.Load(); err != nil {
		return errors.Wrap(errors.ErrDatabase, err.Error())
	}
	return nil
}

// LatestVersion returns info on the latest version saved to disk
func (s *CommitStore) LatestVersion() (store.CommitID, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return store.CommitID{
		Version: s.tree.Version(),
		Hash:    s.tree.Hash(),
	}, nil
}

// Close releases the database handle.
func (s *CommitStore) Close() {
	s.db.Close()
}

type batch struct {
	s   *CommitStore
	ops []store.Op
}

func (b *batch) Set(key, value []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	b.ops = append(b.ops, store.SetOp(key, value))
	return nil
}

func (b *batch) Delete(key []byte) error {
	if key == nil {
		return errors.Wrap(errors.ErrInput, "nil key")
	}
	b.ops = append(b.ops, store.DelOp(key))
	return nil
}

// Write applies all operations to the working tree. The store lock is held
// for the whole batch, so no reader observes a partial write.
func (b *batch) Write() error {
	b.s.mu.Lock()
	defer b.s.mu.Unlock()

	for _, op := range b.ops {
		if err := op.Apply(treeWriter{b.s.tree}); err != nil {
			return err
		}
	}
	b.ops = nil
	return nil
}

// treeWriter applies operations directly to the tree, without locking.
type treeWriter struct {
	tree *iavl.MutableTree
}

func (w treeWriter) Set(key, value []byte) error {
	w.tree.Set(key, value)
	return nil
}

func (w treeWriter) Delete(key []byte) error {
	w.tree.Remove(key)
	return nil
}
