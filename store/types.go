package store

import "github.com/iov-one/treasury"

// Move references for all storage types into this package
// for shorter names everywhere

type (
	ReadOnlyKVStore  = treasury.ReadOnlyKVStore
	SetDeleter       = treasury.SetDeleter
	KVStore          = treasury.KVStore
	Iterator         = treasury.Iterator
	CacheableKVStore = treasury.CacheableKVStore
	KVCacheWrap      = treasury.KVCacheWrap
	Committer        = treasury.Committer
	CommitKVStore    = treasury.CommitKVStore
	CommitID         = treasury.CommitID
)

// Batch can write multiple ops atomically to an underlying KVStore
type Batch interface {
	SetDeleter
	Write() error
}

// Batcher is implemented by stores that can apply a set of writes in a
// single step.
type Batcher interface {
	NewBatch() Batch
}
